package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "prism/contexts/finance-core/split-engine/application"
	"prism/contexts/finance-core/split-engine/application/commands"
	"prism/contexts/finance-core/split-engine/application/queries"
	"prism/contexts/finance-core/split-engine/domain/entities"
	httptransport "prism/contexts/finance-core/split-engine/transport/http"
)

type Handler struct {
	Commands commands.UseCase
	Queries  queries.UseCase
	Logger   *slog.Logger
}

func (h Handler) RegisterSplitHandler(
	ctx context.Context,
	userID string,
	assetID int64,
	req httptransport.RegisterSplitRequest,
) (httptransport.SplitConfigDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	cfg, err := h.Commands.RegisterSplit(ctx, commands.RegisterSplitCommand{
		AssetID:    assetID,
		Creator:    userID,
		Recipients: mapRecipientInputs(req.Recipients),
	})
	if err != nil {
		logger.Warn("split http register failed",
			"event", "split_http_register_failed",
			"module", "finance-core/split-engine",
			"layer", "adapter",
			"asset_id", assetID,
			"creator", strings.TrimSpace(userID),
			"error", err.Error(),
		)
		return httptransport.SplitConfigDTO{}, err
	}
	return mapSplitConfig(cfg, nil), nil
}

func (h Handler) UpdateSplitHandler(
	ctx context.Context,
	userID string,
	assetID int64,
	req httptransport.UpdateSplitRequest,
) (httptransport.SplitConfigDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	cfg, err := h.Commands.UpdateSplit(ctx, commands.UpdateSplitCommand{
		AssetID:    assetID,
		Caller:     userID,
		Recipients: mapRecipientInputs(req.Recipients),
	})
	if err != nil {
		logger.Warn("split http update failed",
			"event", "split_http_update_failed",
			"module", "finance-core/split-engine",
			"layer", "adapter",
			"asset_id", assetID,
			"caller", strings.TrimSpace(userID),
			"error", err.Error(),
		)
		return httptransport.SplitConfigDTO{}, err
	}
	return mapSplitConfig(cfg, nil), nil
}

func (h Handler) DisableSplitHandler(ctx context.Context, userID string, assetID int64) error {
	logger := application.ResolveLogger(h.Logger)
	if err := h.Commands.DisableSplit(ctx, commands.DisableSplitCommand{
		AssetID: assetID,
		Caller:  userID,
	}); err != nil {
		logger.Warn("split http disable failed",
			"event", "split_http_disable_failed",
			"module", "finance-core/split-engine",
			"layer", "adapter",
			"asset_id", assetID,
			"caller", strings.TrimSpace(userID),
			"error", err.Error(),
		)
		return err
	}
	return nil
}

func (h Handler) GetSplitHandler(ctx context.Context, assetID int64) (httptransport.SplitConfigDTO, error) {
	view, err := h.Queries.GetSplit(ctx, assetID)
	if err != nil {
		return httptransport.SplitConfigDTO{}, err
	}
	return mapSplitConfig(view.Config, view.Shares), nil
}

func (h Handler) GetRecipientShareHandler(
	ctx context.Context,
	assetID int64,
	index int,
) (httptransport.RecipientShareDTO, error) {
	share, err := h.Queries.GetRecipientShare(ctx, assetID, index)
	if err != nil {
		return httptransport.RecipientShareDTO{}, err
	}
	return mapRecipientShare(share), nil
}

func (h Handler) DistributeHandler(
	ctx context.Context,
	userID string,
	assetID int64,
	req httptransport.DistributeRequest,
) (httptransport.PaymentDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	payment, err := h.Commands.Distribute(ctx, commands.DistributeCommand{
		AssetID: assetID,
		Payer:   userID,
		Amount:  req.Amount,
	})
	if err != nil {
		logger.Warn("split http distribute failed",
			"event", "split_http_distribute_failed",
			"module", "finance-core/split-engine",
			"layer", "adapter",
			"asset_id", assetID,
			"payer", strings.TrimSpace(userID),
			"amount", req.Amount,
			"error", err.Error(),
		)
		return httptransport.PaymentDTO{}, err
	}
	return mapPayment(payment), nil
}

func (h Handler) ClaimPendingHandler(ctx context.Context, userID string) (httptransport.ClaimResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	claimed, err := h.Commands.ClaimPending(ctx, commands.ClaimPendingCommand{Caller: userID})
	if err != nil {
		logger.Warn("split http claim failed",
			"event", "split_http_claim_failed",
			"module", "finance-core/split-engine",
			"layer", "adapter",
			"user_id", strings.TrimSpace(userID),
			"error", err.Error(),
		)
		return httptransport.ClaimResponse{}, err
	}
	return httptransport.ClaimResponse{
		UserID:  strings.TrimSpace(userID),
		Claimed: claimed,
	}, nil
}

func (h Handler) GetPaymentHandler(ctx context.Context, paymentID int64) (httptransport.PaymentDTO, error) {
	payment, err := h.Queries.GetPayment(ctx, paymentID)
	if err != nil {
		return httptransport.PaymentDTO{}, err
	}
	return mapPayment(payment), nil
}

func (h Handler) GetRecipientPaymentHandler(
	ctx context.Context,
	paymentID int64,
	index int,
) (httptransport.RecipientPaymentDTO, error) {
	row, err := h.Queries.GetRecipientPayment(ctx, paymentID, index)
	if err != nil {
		return httptransport.RecipientPaymentDTO{}, err
	}
	return httptransport.RecipientPaymentDTO{
		PaymentID: row.PaymentID,
		Index:     row.Index,
		Recipient: row.Recipient,
		Amount:    row.Amount,
		Bps:       row.Bps,
	}, nil
}

func (h Handler) GetEarningsHandler(ctx context.Context, userID string) (httptransport.EarningsDTO, error) {
	account, err := h.Queries.GetEarnings(ctx, userID)
	if err != nil {
		return httptransport.EarningsDTO{}, err
	}
	dto := httptransport.EarningsDTO{
		UserID:        account.UserID,
		TotalReceived: account.TotalReceived,
		PaymentCount:  account.PaymentCount,
	}
	if !account.LastPaymentAt.IsZero() {
		dto.LastPaymentAt = account.LastPaymentAt.Format(time.RFC3339)
	}
	return dto, nil
}

func (h Handler) GetPendingBalanceHandler(ctx context.Context, userID string) (httptransport.PendingBalanceDTO, error) {
	balance, err := h.Queries.GetPendingBalance(ctx, userID)
	if err != nil {
		return httptransport.PendingBalanceDTO{}, err
	}
	return httptransport.PendingBalanceDTO{
		UserID: balance.UserID,
		Amount: balance.Amount,
	}, nil
}

func (h Handler) GetStatsHandler(ctx context.Context) (httptransport.StatsDTO, error) {
	stats, err := h.Queries.GetStats(ctx)
	if err != nil {
		return httptransport.StatsDTO{}, err
	}
	return httptransport.StatsDTO{
		TotalPayouts: stats.TotalPayouts,
		TotalVolume:  stats.TotalVolume,
		TotalSplits:  stats.TotalSplits,
		FeeRateBps:   stats.FeeRateBps,
		FeeRecipient: stats.FeeRecipient,
	}, nil
}

func (h Handler) SetFeeRateHandler(ctx context.Context, userID string, req httptransport.SetFeeRateRequest) error {
	logger := application.ResolveLogger(h.Logger)
	if err := h.Commands.SetFeeRate(ctx, commands.SetFeeRateCommand{
		Caller: userID,
		Bps:    req.FeeRateBps,
	}); err != nil {
		logger.Warn("split http set fee rate failed",
			"event", "split_http_set_fee_rate_failed",
			"module", "finance-core/split-engine",
			"layer", "adapter",
			"caller", strings.TrimSpace(userID),
			"fee_rate_bps", req.FeeRateBps,
			"error", err.Error(),
		)
		return err
	}
	return nil
}

func (h Handler) SetFeeRecipientHandler(
	ctx context.Context,
	userID string,
	req httptransport.SetFeeRecipientRequest,
) error {
	logger := application.ResolveLogger(h.Logger)
	if err := h.Commands.SetFeeRecipient(ctx, commands.SetFeeRecipientCommand{
		Caller:    userID,
		Recipient: req.FeeRecipient,
	}); err != nil {
		logger.Warn("split http set fee recipient failed",
			"event", "split_http_set_fee_recipient_failed",
			"module", "finance-core/split-engine",
			"layer", "adapter",
			"caller", strings.TrimSpace(userID),
			"error", err.Error(),
		)
		return err
	}
	return nil
}

func mapRecipientInputs(inputs []httptransport.RecipientShareInput) []commands.RecipientInput {
	recipients := make([]commands.RecipientInput, 0, len(inputs))
	for _, input := range inputs {
		recipients = append(recipients, commands.RecipientInput{
			Recipient: input.Recipient,
			Bps:       input.Bps,
			Role:      input.Role,
		})
	}
	return recipients
}

func mapSplitConfig(cfg entities.SplitConfig, shares []entities.RecipientShare) httptransport.SplitConfigDTO {
	dto := httptransport.SplitConfigDTO{
		AssetID:        cfg.AssetID,
		Creator:        cfg.Creator,
		TotalBps:       cfg.TotalBps,
		RecipientCount: cfg.RecipientCount,
		Active:         cfg.Active,
		CreatedAt:      cfg.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      cfg.UpdatedAt.Format(time.RFC3339),
	}
	for _, share := range shares {
		dto.Recipients = append(dto.Recipients, mapRecipientShare(share))
	}
	return dto
}

func mapRecipientShare(share entities.RecipientShare) httptransport.RecipientShareDTO {
	return httptransport.RecipientShareDTO{
		Index:     share.Index,
		Recipient: share.Recipient,
		Bps:       share.Bps,
		Role:      share.Role,
	}
}

func mapPayment(payment entities.PaymentRecord) httptransport.PaymentDTO {
	return httptransport.PaymentDTO{
		PaymentID:      payment.PaymentID,
		AssetID:        payment.AssetID,
		Amount:         payment.Amount,
		Fee:            payment.Fee,
		Distributable:  payment.Distributable,
		RecipientCount: payment.RecipientCount,
		Payer:          payment.Payer,
		PaidAt:         payment.PaidAt.Format(time.RFC3339),
	}
}
