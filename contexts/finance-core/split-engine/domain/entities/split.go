package entities

import "time"

const (
	// MaxRecipients bounds how many shares one split configuration may hold.
	MaxRecipients = 10

	// TotalShareBps is the exact basis-point sum an active split must carry.
	TotalShareBps = int64(10000)

	// MaxFeeRateBps caps the platform fee rate at 5%.
	MaxFeeRateBps = int64(500)
)

// SplitConfig is the per-asset royalty split. One configuration per asset;
// disabled configurations are kept for audit and never physically removed.
type SplitConfig struct {
	AssetID        int64
	Creator        string
	TotalBps       int64
	RecipientCount int
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RecipientShare is one ordered share row of a split. Indices are dense
// (0..RecipientCount-1) and fully rewritten when the split is replaced.
type RecipientShare struct {
	AssetID   int64
	Index     int
	Recipient string
	Bps       int64
	Role      string
}

// PaymentRecord is the append-only audit row written once per payout.
type PaymentRecord struct {
	PaymentID      int64
	AssetID        int64
	Amount         int64
	Fee            int64
	Distributable  int64
	RecipientCount int
	Payer          string
	PaidAt         time.Time
}

// RecipientPaymentRecord is written only for recipients whose transfer
// succeeded during a payout.
type RecipientPaymentRecord struct {
	PaymentID int64
	Index     int
	Recipient string
	Amount    int64
	Bps       int64
}

// UserEarnings aggregates delivered amounts per recipient identity.
// Values only ever increase.
type UserEarnings struct {
	UserID        string
	TotalReceived int64
	PaymentCount  int64
	LastPaymentAt time.Time
}

// PendingBalance holds funds owed to a recipient whose transfer was refused
// during distribution. Cleared only by that recipient's own claim.
type PendingBalance struct {
	UserID    string
	Amount    int64
	UpdatedAt time.Time
}

// EngineStats is the process-wide counter/parameter row.
type EngineStats struct {
	TotalPayouts int64
	TotalVolume  int64
	TotalSplits  int64
	FeeRateBps   int64
	FeeRecipient string
	UpdatedAt    time.Time
}
