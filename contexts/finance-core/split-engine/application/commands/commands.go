package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "prism/contexts/finance-core/split-engine/application"
	"prism/contexts/finance-core/split-engine/ports"
)

const defaultMinPayoutAmount = int64(1)

type RecipientInput struct {
	Recipient string
	Bps       int64
	Role      string
}

type RegisterSplitCommand struct {
	AssetID    int64
	Creator    string
	Recipients []RecipientInput
}

type UpdateSplitCommand struct {
	AssetID    int64
	Caller     string
	Recipients []RecipientInput
}

type DisableSplitCommand struct {
	AssetID int64
	Caller  string
}

type DistributeCommand struct {
	AssetID int64
	Payer   string
	Amount  int64
}

type ClaimPendingCommand struct {
	Caller string
}

type SetFeeRateCommand struct {
	Caller string
	Bps    int64
}

type SetFeeRecipientCommand struct {
	Caller    string
	Recipient string
}

type UseCase struct {
	Repository      ports.Repository
	Treasury        ports.Treasury
	Clock           ports.Clock
	IDGen           ports.IDGenerator
	Outbox          ports.OutboxWriter
	AdminID         string
	VaultAccount    string
	MinPayoutAmount int64
	Logger          *slog.Logger
}

func (uc UseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

func (uc UseCase) minPayout() int64 {
	if uc.MinPayoutAmount <= 0 {
		return defaultMinPayoutAmount
	}
	return uc.MinPayoutAmount
}

func (uc UseCase) appendEvent(
	ctx context.Context,
	eventType string,
	partitionKeyPath string,
	partitionKey string,
	occurredAt time.Time,
	data map[string]any,
) error {
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          strings.TrimSpace(eventID),
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "split-engine",
		TraceID:          strings.TrimSpace(eventID),
		SchemaVersion:    1,
		PartitionKeyPath: partitionKeyPath,
		PartitionKey:     partitionKey,
		Data:             payload,
	})
}

func (uc UseCase) logger() *slog.Logger {
	return application.ResolveLogger(uc.Logger)
}
