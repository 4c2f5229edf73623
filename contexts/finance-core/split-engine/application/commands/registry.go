package commands

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"prism/contexts/finance-core/split-engine/domain/entities"
	domainerrors "prism/contexts/finance-core/split-engine/domain/errors"
)

func (uc UseCase) RegisterSplit(ctx context.Context, cmd RegisterSplitCommand) (entities.SplitConfig, error) {
	logger := uc.logger()
	creator := strings.TrimSpace(cmd.Creator)
	if cmd.AssetID <= 0 {
		logger.Warn("split register invalid asset id",
			"event", "split_register_invalid_asset_id",
			"module", "finance-core/split-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"creator", creator,
		)
		return entities.SplitConfig{}, domainerrors.ErrInvalidAssetID
	}
	if creator == "" {
		logger.Warn("split register missing creator",
			"event", "split_register_missing_creator",
			"module", "finance-core/split-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
		)
		return entities.SplitConfig{}, domainerrors.ErrInvalidSplit
	}
	if err := validateRecipients(cmd.Recipients); err != nil {
		logger.Warn("split register invalid recipients",
			"event", "split_register_invalid_recipients",
			"module", "finance-core/split-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"creator", creator,
			"recipient_count", len(cmd.Recipients),
			"error", err.Error(),
		)
		return entities.SplitConfig{}, err
	}

	now := uc.now()
	cfg := entities.SplitConfig{
		AssetID:        cmd.AssetID,
		Creator:        creator,
		TotalBps:       entities.TotalShareBps,
		RecipientCount: len(cmd.Recipients),
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.Repository.CreateSplit(ctx, cfg, buildShares(cmd.AssetID, cmd.Recipients)); err != nil {
		if errors.Is(err, domainerrors.ErrSplitAlreadyExists) {
			logger.Warn("split register already exists",
				"event", "split_register_already_exists",
				"module", "finance-core/split-engine",
				"layer", "application",
				"asset_id", cmd.AssetID,
				"creator", creator,
			)
			return entities.SplitConfig{}, err
		}
		logger.Error("split register create failed",
			"event", "split_register_create_failed",
			"module", "finance-core/split-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"creator", creator,
			"error", err.Error(),
		)
		return entities.SplitConfig{}, err
	}

	if err := uc.appendEvent(ctx, "split.registered", "asset_id", formatAssetID(cmd.AssetID), now, map[string]any{
		"asset_id":        cmd.AssetID,
		"creator":         creator,
		"recipient_count": cfg.RecipientCount,
		"total_bps":       cfg.TotalBps,
	}); err != nil {
		return entities.SplitConfig{}, err
	}

	logger.Info("split registered",
		"event", "split_registered",
		"module", "finance-core/split-engine",
		"layer", "application",
		"asset_id", cmd.AssetID,
		"creator", creator,
		"recipient_count", cfg.RecipientCount,
	)
	return cfg, nil
}

func (uc UseCase) UpdateSplit(ctx context.Context, cmd UpdateSplitCommand) (entities.SplitConfig, error) {
	logger := uc.logger()
	caller := strings.TrimSpace(cmd.Caller)

	existing, err := uc.Repository.GetSplit(ctx, cmd.AssetID)
	if err != nil {
		logger.Warn("split update target missing",
			"event", "split_update_target_missing",
			"module", "finance-core/split-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"caller", caller,
			"error", err.Error(),
		)
		return entities.SplitConfig{}, err
	}
	if !existing.Active {
		logger.Warn("split update target inactive",
			"event", "split_update_target_inactive",
			"module", "finance-core/split-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"caller", caller,
		)
		return entities.SplitConfig{}, domainerrors.ErrSplitNotFound
	}
	if !uc.isCreatorOrAdmin(caller, existing.Creator) {
		logger.Warn("split update not authorized",
			"event", "split_update_not_authorized",
			"module", "finance-core/split-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"caller", caller,
		)
		return entities.SplitConfig{}, domainerrors.ErrNotAuthorized
	}
	if err := validateRecipients(cmd.Recipients); err != nil {
		logger.Warn("split update invalid recipients",
			"event", "split_update_invalid_recipients",
			"module", "finance-core/split-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"caller", caller,
			"recipient_count", len(cmd.Recipients),
			"error", err.Error(),
		)
		return entities.SplitConfig{}, err
	}

	now := uc.now()
	cfg := entities.SplitConfig{
		AssetID:        cmd.AssetID,
		Creator:        existing.Creator,
		TotalBps:       entities.TotalShareBps,
		RecipientCount: len(cmd.Recipients),
		Active:         true,
		CreatedAt:      existing.CreatedAt,
		UpdatedAt:      now,
	}
	if err := uc.Repository.ReplaceSplit(ctx, cfg, buildShares(cmd.AssetID, cmd.Recipients)); err != nil {
		logger.Error("split update replace failed",
			"event", "split_update_replace_failed",
			"module", "finance-core/split-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"caller", caller,
			"error", err.Error(),
		)
		return entities.SplitConfig{}, err
	}

	if err := uc.appendEvent(ctx, "split.updated", "asset_id", formatAssetID(cmd.AssetID), now, map[string]any{
		"asset_id":        cmd.AssetID,
		"caller":          caller,
		"recipient_count": cfg.RecipientCount,
		"total_bps":       cfg.TotalBps,
	}); err != nil {
		return entities.SplitConfig{}, err
	}

	logger.Info("split updated",
		"event", "split_updated",
		"module", "finance-core/split-engine",
		"layer", "application",
		"asset_id", cmd.AssetID,
		"caller", caller,
		"recipient_count", cfg.RecipientCount,
	)
	return cfg, nil
}

func (uc UseCase) DisableSplit(ctx context.Context, cmd DisableSplitCommand) error {
	logger := uc.logger()
	caller := strings.TrimSpace(cmd.Caller)

	existing, err := uc.Repository.GetSplit(ctx, cmd.AssetID)
	if err != nil {
		logger.Warn("split disable target missing",
			"event", "split_disable_target_missing",
			"module", "finance-core/split-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"caller", caller,
			"error", err.Error(),
		)
		return err
	}
	if !uc.isCreatorOrAdmin(caller, existing.Creator) {
		logger.Warn("split disable not authorized",
			"event", "split_disable_not_authorized",
			"module", "finance-core/split-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"caller", caller,
		)
		return domainerrors.ErrNotAuthorized
	}

	now := uc.now()
	if err := uc.Repository.DisableSplit(ctx, cmd.AssetID, now); err != nil {
		logger.Error("split disable failed",
			"event", "split_disable_failed",
			"module", "finance-core/split-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"caller", caller,
			"error", err.Error(),
		)
		return err
	}

	if err := uc.appendEvent(ctx, "split.disabled", "asset_id", formatAssetID(cmd.AssetID), now, map[string]any{
		"asset_id": cmd.AssetID,
		"caller":   caller,
	}); err != nil {
		return err
	}

	logger.Info("split disabled",
		"event", "split_disabled",
		"module", "finance-core/split-engine",
		"layer", "application",
		"asset_id", cmd.AssetID,
		"caller", caller,
	)
	return nil
}

func (uc UseCase) isCreatorOrAdmin(caller string, creator string) bool {
	if caller == "" {
		return false
	}
	return caller == creator || caller == strings.TrimSpace(uc.AdminID)
}

func validateRecipients(recipients []RecipientInput) error {
	if len(recipients) == 0 {
		return domainerrors.ErrInvalidSplit
	}
	if len(recipients) > entities.MaxRecipients {
		return domainerrors.ErrTooManyRecipients
	}
	seen := make(map[string]struct{}, len(recipients))
	var total int64
	for _, input := range recipients {
		recipient := strings.TrimSpace(input.Recipient)
		if recipient == "" {
			return domainerrors.ErrInvalidSplit
		}
		if input.Bps < 1 || input.Bps > entities.TotalShareBps {
			return domainerrors.ErrInvalidPercentage
		}
		if _, dup := seen[recipient]; dup {
			return domainerrors.ErrDuplicateRecipient
		}
		seen[recipient] = struct{}{}
		total += input.Bps
	}
	if total != entities.TotalShareBps {
		return domainerrors.ErrInvalidPercentage
	}
	return nil
}

func buildShares(assetID int64, recipients []RecipientInput) []entities.RecipientShare {
	shares := make([]entities.RecipientShare, 0, len(recipients))
	for index, input := range recipients {
		shares = append(shares, entities.RecipientShare{
			AssetID:   assetID,
			Index:     index,
			Recipient: strings.TrimSpace(input.Recipient),
			Bps:       input.Bps,
			Role:      strings.TrimSpace(input.Role),
		})
	}
	return shares
}

func formatAssetID(assetID int64) string {
	return strconv.FormatInt(assetID, 10)
}
