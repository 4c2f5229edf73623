package queries

import (
	"context"
	"log/slog"
	"strings"

	application "prism/contexts/finance-core/split-engine/application"
	"prism/contexts/finance-core/split-engine/domain/entities"
	domainerrors "prism/contexts/finance-core/split-engine/domain/errors"
	"prism/contexts/finance-core/split-engine/ports"
)

type UseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

// SplitView bundles a configuration with its ordered share rows.
type SplitView struct {
	Config entities.SplitConfig
	Shares []entities.RecipientShare
}

func (uc UseCase) GetSplit(ctx context.Context, assetID int64) (SplitView, error) {
	logger := application.ResolveLogger(uc.Logger)
	cfg, err := uc.Repository.GetSplit(ctx, assetID)
	if err != nil {
		logger.Warn("split query get failed",
			"event", "split_query_get_failed",
			"module", "finance-core/split-engine",
			"layer", "application",
			"asset_id", assetID,
			"error", err.Error(),
		)
		return SplitView{}, err
	}
	shares, err := uc.Repository.ListRecipientShares(ctx, assetID)
	if err != nil {
		return SplitView{}, err
	}
	return SplitView{Config: cfg, Shares: shares}, nil
}

func (uc UseCase) GetRecipientShare(ctx context.Context, assetID int64, index int) (entities.RecipientShare, error) {
	logger := application.ResolveLogger(uc.Logger)
	share, err := uc.Repository.GetRecipientShare(ctx, assetID, index)
	if err != nil {
		logger.Warn("split query get recipient failed",
			"event", "split_query_get_recipient_failed",
			"module", "finance-core/split-engine",
			"layer", "application",
			"asset_id", assetID,
			"recipient_index", index,
			"error", err.Error(),
		)
		return entities.RecipientShare{}, err
	}
	return share, nil
}

func (uc UseCase) GetPayment(ctx context.Context, paymentID int64) (entities.PaymentRecord, error) {
	logger := application.ResolveLogger(uc.Logger)
	payment, err := uc.Repository.GetPayment(ctx, paymentID)
	if err != nil {
		logger.Warn("payout query get payment failed",
			"event", "payout_query_get_payment_failed",
			"module", "finance-core/split-engine",
			"layer", "application",
			"payment_id", paymentID,
			"error", err.Error(),
		)
		return entities.PaymentRecord{}, err
	}
	return payment, nil
}

func (uc UseCase) GetRecipientPayment(ctx context.Context, paymentID int64, index int) (entities.RecipientPaymentRecord, error) {
	logger := application.ResolveLogger(uc.Logger)
	row, err := uc.Repository.GetRecipientPayment(ctx, paymentID, index)
	if err != nil {
		logger.Warn("payout query get recipient payment failed",
			"event", "payout_query_get_recipient_payment_failed",
			"module", "finance-core/split-engine",
			"layer", "application",
			"payment_id", paymentID,
			"recipient_index", index,
			"error", err.Error(),
		)
		return entities.RecipientPaymentRecord{}, err
	}
	return row, nil
}

func (uc UseCase) GetEarnings(ctx context.Context, userID string) (entities.UserEarnings, error) {
	normalized := strings.TrimSpace(userID)
	if normalized == "" {
		return entities.UserEarnings{}, domainerrors.ErrInvalidSplit
	}
	return uc.Repository.GetEarnings(ctx, normalized)
}

func (uc UseCase) GetPendingBalance(ctx context.Context, userID string) (entities.PendingBalance, error) {
	normalized := strings.TrimSpace(userID)
	if normalized == "" {
		return entities.PendingBalance{}, domainerrors.ErrInvalidSplit
	}
	return uc.Repository.GetPendingBalance(ctx, normalized)
}

func (uc UseCase) GetStats(ctx context.Context) (entities.EngineStats, error) {
	return uc.Repository.GetStats(ctx)
}
