package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RecipientShareInput struct {
	Recipient string `json:"recipient"`
	Bps       int64  `json:"bps"`
	Role      string `json:"role,omitempty"`
}

type RegisterSplitRequest struct {
	Recipients []RecipientShareInput `json:"recipients"`
}

type UpdateSplitRequest struct {
	Recipients []RecipientShareInput `json:"recipients"`
}

type DistributeRequest struct {
	Amount int64 `json:"amount"`
}

type SetFeeRateRequest struct {
	FeeRateBps int64 `json:"fee_rate_bps"`
}

type SetFeeRecipientRequest struct {
	FeeRecipient string `json:"fee_recipient"`
}

type RecipientShareDTO struct {
	Index     int    `json:"index"`
	Recipient string `json:"recipient"`
	Bps       int64  `json:"bps"`
	Role      string `json:"role,omitempty"`
}

type SplitConfigDTO struct {
	AssetID        int64               `json:"asset_id"`
	Creator        string              `json:"creator"`
	TotalBps       int64               `json:"total_bps"`
	RecipientCount int                 `json:"recipient_count"`
	Active         bool                `json:"active"`
	CreatedAt      string              `json:"created_at"`
	UpdatedAt      string              `json:"updated_at"`
	Recipients     []RecipientShareDTO `json:"recipients,omitempty"`
}

type PaymentDTO struct {
	PaymentID      int64  `json:"payment_id"`
	AssetID        int64  `json:"asset_id"`
	Amount         int64  `json:"amount"`
	Fee            int64  `json:"fee"`
	Distributable  int64  `json:"distributable"`
	RecipientCount int    `json:"recipient_count"`
	Payer          string `json:"payer"`
	PaidAt         string `json:"paid_at"`
}

type RecipientPaymentDTO struct {
	PaymentID int64  `json:"payment_id"`
	Index     int    `json:"index"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
	Bps       int64  `json:"bps"`
}

type EarningsDTO struct {
	UserID        string `json:"user_id"`
	TotalReceived int64  `json:"total_received"`
	PaymentCount  int64  `json:"payment_count"`
	LastPaymentAt string `json:"last_payment_at,omitempty"`
}

type PendingBalanceDTO struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
}

type ClaimResponse struct {
	UserID  string `json:"user_id"`
	Claimed int64  `json:"claimed"`
}

type StatsDTO struct {
	TotalPayouts int64  `json:"total_payouts"`
	TotalVolume  int64  `json:"total_volume"`
	TotalSplits  int64  `json:"total_splits"`
	FeeRateBps   int64  `json:"fee_rate_bps"`
	FeeRecipient string `json:"fee_recipient"`
}
