package commands

import (
	"context"
	"strings"

	"prism/contexts/finance-core/split-engine/domain/entities"
	domainerrors "prism/contexts/finance-core/split-engine/domain/errors"
)

func (uc UseCase) SetFeeRate(ctx context.Context, cmd SetFeeRateCommand) error {
	logger := uc.logger()
	caller := strings.TrimSpace(cmd.Caller)
	if caller == "" || caller != strings.TrimSpace(uc.AdminID) {
		logger.Warn("fee rate update not authorized",
			"event", "fee_rate_update_not_authorized",
			"module", "finance-core/split-engine",
			"layer", "application",
			"caller", caller,
		)
		return domainerrors.ErrNotAuthorized
	}
	if cmd.Bps < 0 || cmd.Bps > entities.MaxFeeRateBps {
		logger.Warn("fee rate update invalid percentage",
			"event", "fee_rate_update_invalid_percentage",
			"module", "finance-core/split-engine",
			"layer", "application",
			"caller", caller,
			"fee_rate_bps", cmd.Bps,
		)
		return domainerrors.ErrInvalidPercentage
	}

	now := uc.now()
	if err := uc.Repository.SetFeeRate(ctx, cmd.Bps, now); err != nil {
		logger.Error("fee rate update failed",
			"event", "fee_rate_update_failed",
			"module", "finance-core/split-engine",
			"layer", "application",
			"caller", caller,
			"fee_rate_bps", cmd.Bps,
			"error", err.Error(),
		)
		return err
	}

	if err := uc.appendEvent(ctx, "fee.rate_updated", "caller", caller, now, map[string]any{
		"caller":       caller,
		"fee_rate_bps": cmd.Bps,
	}); err != nil {
		return err
	}

	logger.Info("fee rate updated",
		"event", "fee_rate_updated",
		"module", "finance-core/split-engine",
		"layer", "application",
		"caller", caller,
		"fee_rate_bps", cmd.Bps,
	)
	return nil
}

func (uc UseCase) SetFeeRecipient(ctx context.Context, cmd SetFeeRecipientCommand) error {
	logger := uc.logger()
	caller := strings.TrimSpace(cmd.Caller)
	recipient := strings.TrimSpace(cmd.Recipient)
	if caller == "" || caller != strings.TrimSpace(uc.AdminID) {
		logger.Warn("fee recipient update not authorized",
			"event", "fee_recipient_update_not_authorized",
			"module", "finance-core/split-engine",
			"layer", "application",
			"caller", caller,
		)
		return domainerrors.ErrNotAuthorized
	}
	if recipient == "" {
		return domainerrors.ErrInvalidSplit
	}

	now := uc.now()
	if err := uc.Repository.SetFeeRecipient(ctx, recipient, now); err != nil {
		logger.Error("fee recipient update failed",
			"event", "fee_recipient_update_failed",
			"module", "finance-core/split-engine",
			"layer", "application",
			"caller", caller,
			"fee_recipient", recipient,
			"error", err.Error(),
		)
		return err
	}

	if err := uc.appendEvent(ctx, "fee.recipient_updated", "caller", caller, now, map[string]any{
		"caller":        caller,
		"fee_recipient": recipient,
	}); err != nil {
		return err
	}

	logger.Info("fee recipient updated",
		"event", "fee_recipient_updated",
		"module", "finance-core/split-engine",
		"layer", "application",
		"caller", caller,
		"fee_recipient", recipient,
	)
	return nil
}
