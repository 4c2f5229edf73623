package ports

import (
	"context"
	"time"

	"prism/contexts/finance-core/split-engine/domain/entities"
	contractsv1 "prism/contracts/gen/events/v1"
)

// Repository owns the split, audit, pending-balance, and stats tables.
// Writes that belong to one engine operation must commit as one unit.
type Repository interface {
	// CreateSplit stores a new configuration and its share rows, and bumps
	// the splits-created counter, as one serializable step per asset id.
	CreateSplit(ctx context.Context, cfg entities.SplitConfig, shares []entities.RecipientShare) error
	// ReplaceSplit clears every existing share row for the asset before
	// writing the new list at fresh ordinal indices.
	ReplaceSplit(ctx context.Context, cfg entities.SplitConfig, shares []entities.RecipientShare) error
	DisableSplit(ctx context.Context, assetID int64, updatedAt time.Time) error
	GetSplit(ctx context.Context, assetID int64) (entities.SplitConfig, error)
	GetRecipientShare(ctx context.Context, assetID int64, index int) (entities.RecipientShare, error)
	ListRecipientShares(ctx context.Context, assetID int64) ([]entities.RecipientShare, error)

	// CommitPayout applies every staged mutation of one payout atomically
	// and returns the assigned monotonically increasing payment id.
	CommitPayout(ctx context.Context, ledger PayoutLedger) (int64, error)
	GetPayment(ctx context.Context, paymentID int64) (entities.PaymentRecord, error)
	GetRecipientPayment(ctx context.Context, paymentID int64, index int) (entities.RecipientPaymentRecord, error)
	GetEarnings(ctx context.Context, userID string) (entities.UserEarnings, error)

	GetPendingBalance(ctx context.Context, userID string) (entities.PendingBalance, error)
	// ClearPendingBalance deducts exactly expected from the stored balance,
	// failing without side effects when the balance no longer covers it.
	// The guard is the serialization point for claims: of two claimants
	// racing on the same identity, only one deduction can land.
	ClearPendingBalance(ctx context.Context, userID string, expected int64, clearedAt time.Time) error
	// RestorePendingBalance credits amount back after a reserved claim
	// could not be delivered.
	RestorePendingBalance(ctx context.Context, userID string, amount int64, restoredAt time.Time) error

	GetStats(ctx context.Context) (entities.EngineStats, error)
	SetFeeRate(ctx context.Context, bps int64, updatedAt time.Time) error
	SetFeeRecipient(ctx context.Context, recipient string, updatedAt time.Time) error
}

// PayoutLedger is the staged, not-yet-committed outcome of one payout.
// PaymentID fields are assigned by the repository at commit time.
type PayoutLedger struct {
	Payment           entities.PaymentRecord
	RecipientPayments []entities.RecipientPaymentRecord
	EarningsCredits   []EarningsCredit
	PendingCredits    []PendingCredit
}

type EarningsCredit struct {
	UserID string
	Amount int64
	PaidAt time.Time
}

type PendingCredit struct {
	UserID string
	Amount int64
}

// Treasury is the hosting environment's value-transfer capability.
// A refused transfer (ok=false, err=nil) is an ordinary expected outcome;
// a non-nil error is a fatal environment fault.
type Treasury interface {
	Balance(ctx context.Context, account string) (int64, error)
	Transfer(ctx context.Context, from string, to string, amount int64) (bool, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// OutboxMessage is a row ready to relay from the module outbox.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// OutboxWriter appends one structured event per mutating operation.
type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
