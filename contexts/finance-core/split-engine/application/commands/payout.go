package commands

import (
	"context"
	"strings"

	"prism/contexts/finance-core/split-engine/domain/entities"
	domainerrors "prism/contexts/finance-core/split-engine/domain/errors"
	"prism/contexts/finance-core/split-engine/ports"
)

// Distribute runs one payout for an asset's active split.
//
// Validation failures and a refused fee transfer abort with no state change.
// A refused per-recipient transfer is recovered into a pending-balance
// credit and never fails the payout; the funds stay in the vault backing a
// later claim. All ledger rows commit in one repository transaction after
// the value transfers settle.
func (uc UseCase) Distribute(ctx context.Context, cmd DistributeCommand) (entities.PaymentRecord, error) {
	logger := uc.logger()
	payer := strings.TrimSpace(cmd.Payer)
	if payer == "" {
		return entities.PaymentRecord{}, domainerrors.ErrNotAuthorized
	}

	cfg, err := uc.Repository.GetSplit(ctx, cmd.AssetID)
	if err != nil {
		logger.Warn("payout split missing",
			"event", "payout_split_missing",
			"module", "finance-core/split-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"payer", payer,
			"error", err.Error(),
		)
		return entities.PaymentRecord{}, err
	}
	if !cfg.Active {
		logger.Warn("payout split inactive",
			"event", "payout_split_inactive",
			"module", "finance-core/split-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"payer", payer,
		)
		return entities.PaymentRecord{}, domainerrors.ErrSplitNotFound
	}
	if cmd.Amount < uc.minPayout() {
		logger.Warn("payout amount below floor",
			"event", "payout_amount_below_floor",
			"module", "finance-core/split-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"payer", payer,
			"amount", cmd.Amount,
		)
		return entities.PaymentRecord{}, domainerrors.ErrZeroAmount
	}

	balance, err := uc.Treasury.Balance(ctx, payer)
	if err != nil {
		return entities.PaymentRecord{}, err
	}
	if balance < cmd.Amount {
		logger.Warn("payout insufficient funds",
			"event", "payout_insufficient_funds",
			"module", "finance-core/split-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"payer", payer,
			"amount", cmd.Amount,
			"balance", balance,
		)
		return entities.PaymentRecord{}, domainerrors.ErrInsufficientFunds
	}

	stats, err := uc.Repository.GetStats(ctx)
	if err != nil {
		return entities.PaymentRecord{}, err
	}
	shares, err := uc.Repository.ListRecipientShares(ctx, cmd.AssetID)
	if err != nil {
		return entities.PaymentRecord{}, err
	}

	fee := cmd.Amount * stats.FeeRateBps / entities.TotalShareBps
	distributable := cmd.Amount - fee

	ok, err := uc.Treasury.Transfer(ctx, payer, uc.VaultAccount, cmd.Amount)
	if err != nil {
		return entities.PaymentRecord{}, err
	}
	if !ok {
		logger.Warn("payout collection refused",
			"event", "payout_collection_refused",
			"module", "finance-core/split-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"payer", payer,
			"amount", cmd.Amount,
		)
		return entities.PaymentRecord{}, domainerrors.ErrTransferFailed
	}

	// The contract-fee guarantee is non-negotiable: a refused fee transfer
	// unwinds the collection and fails the whole payout.
	if fee > 0 {
		ok, err := uc.Treasury.Transfer(ctx, uc.VaultAccount, stats.FeeRecipient, fee)
		if err != nil {
			uc.refund(ctx, payer, cmd.Amount)
			return entities.PaymentRecord{}, err
		}
		if !ok {
			uc.refund(ctx, payer, cmd.Amount)
			logger.Warn("payout fee transfer refused",
				"event", "payout_fee_transfer_refused",
				"module", "finance-core/split-engine",
				"layer", "application",
				"asset_id", cmd.AssetID,
				"payer", payer,
				"fee", fee,
				"fee_recipient", stats.FeeRecipient,
			)
			return entities.PaymentRecord{}, domainerrors.ErrTransferFailed
		}
	}

	now := uc.now()
	ledger := ports.PayoutLedger{
		Payment: entities.PaymentRecord{
			AssetID:        cmd.AssetID,
			Amount:         cmd.Amount,
			Fee:            fee,
			Distributable:  distributable,
			RecipientCount: cfg.RecipientCount,
			Payer:          payer,
			PaidAt:         now,
		},
	}
	for _, share := range shares {
		amount := distributable * share.Bps / entities.TotalShareBps
		if amount <= 0 {
			continue
		}
		delivered, err := uc.Treasury.Transfer(ctx, uc.VaultAccount, share.Recipient, amount)
		if err != nil {
			return entities.PaymentRecord{}, err
		}
		if !delivered {
			logger.Warn("payout recipient transfer refused",
				"event", "payout_recipient_transfer_refused",
				"module", "finance-core/split-engine",
				"layer", "application",
				"asset_id", cmd.AssetID,
				"payment_recipient", share.Recipient,
				"recipient_index", share.Index,
				"amount", amount,
			)
			ledger.PendingCredits = append(ledger.PendingCredits, ports.PendingCredit{
				UserID: share.Recipient,
				Amount: amount,
			})
			continue
		}
		ledger.RecipientPayments = append(ledger.RecipientPayments, entities.RecipientPaymentRecord{
			Index:     share.Index,
			Recipient: share.Recipient,
			Amount:    amount,
			Bps:       share.Bps,
		})
		ledger.EarningsCredits = append(ledger.EarningsCredits, ports.EarningsCredit{
			UserID: share.Recipient,
			Amount: amount,
			PaidAt: now,
		})
	}

	paymentID, err := uc.Repository.CommitPayout(ctx, ledger)
	if err != nil {
		logger.Error("payout commit failed",
			"event", "payout_commit_failed",
			"module", "finance-core/split-engine",
			"layer", "application",
			"asset_id", cmd.AssetID,
			"payer", payer,
			"error", err.Error(),
		)
		return entities.PaymentRecord{}, err
	}
	payment := ledger.Payment
	payment.PaymentID = paymentID

	if err := uc.appendEvent(ctx, "payout.completed", "asset_id", formatAssetID(cmd.AssetID), now, map[string]any{
		"payment_id":      paymentID,
		"asset_id":        cmd.AssetID,
		"payer":           payer,
		"amount":          cmd.Amount,
		"fee":             fee,
		"distributable":   distributable,
		"recipient_count": cfg.RecipientCount,
		"paid_count":      len(ledger.RecipientPayments),
		"pending_count":   len(ledger.PendingCredits),
	}); err != nil {
		return entities.PaymentRecord{}, err
	}

	logger.Info("payout completed",
		"event", "payout_completed",
		"module", "finance-core/split-engine",
		"layer", "application",
		"payment_id", paymentID,
		"asset_id", cmd.AssetID,
		"payer", payer,
		"amount", cmd.Amount,
		"fee", fee,
		"paid_count", len(ledger.RecipientPayments),
		"pending_count", len(ledger.PendingCredits),
	)
	return payment, nil
}

// ClaimPending delivers the caller's full escrowed balance. The balance is
// reserved (deducted under the guard) before any money moves, so a racing
// second claim on the same identity fails before it can touch the vault;
// a transfer that does not settle puts the reservation back.
func (uc UseCase) ClaimPending(ctx context.Context, cmd ClaimPendingCommand) (int64, error) {
	logger := uc.logger()
	caller := strings.TrimSpace(cmd.Caller)
	if caller == "" {
		return 0, domainerrors.ErrNotAuthorized
	}

	pending, err := uc.Repository.GetPendingBalance(ctx, caller)
	if err != nil {
		return 0, err
	}
	if pending.Amount <= 0 {
		logger.Warn("claim with empty pending balance",
			"event", "claim_empty_pending_balance",
			"module", "finance-core/split-engine",
			"layer", "application",
			"user_id", caller,
		)
		return 0, domainerrors.ErrZeroAmount
	}

	now := uc.now()
	if err := uc.Repository.ClearPendingBalance(ctx, caller, pending.Amount, now); err != nil {
		logger.Warn("claim lost reservation race",
			"event", "claim_reservation_lost",
			"module", "finance-core/split-engine",
			"layer", "application",
			"user_id", caller,
			"amount", pending.Amount,
			"error", err.Error(),
		)
		return 0, err
	}

	delivered, err := uc.Treasury.Transfer(ctx, uc.VaultAccount, caller, pending.Amount)
	if err != nil {
		uc.restorePending(ctx, caller, pending.Amount)
		return 0, err
	}
	if !delivered {
		logger.Warn("claim transfer refused",
			"event", "claim_transfer_refused",
			"module", "finance-core/split-engine",
			"layer", "application",
			"user_id", caller,
			"amount", pending.Amount,
		)
		uc.restorePending(ctx, caller, pending.Amount)
		return 0, domainerrors.ErrTransferFailed
	}

	if err := uc.appendEvent(ctx, "pending.claimed", "user_id", caller, now, map[string]any{
		"user_id": caller,
		"amount":  pending.Amount,
	}); err != nil {
		return 0, err
	}

	logger.Info("pending balance claimed",
		"event", "pending_balance_claimed",
		"module", "finance-core/split-engine",
		"layer", "application",
		"user_id", caller,
		"amount", pending.Amount,
	)
	return pending.Amount, nil
}

func (uc UseCase) restorePending(ctx context.Context, userID string, amount int64) {
	if err := uc.Repository.RestorePendingBalance(ctx, userID, amount, uc.now()); err != nil {
		uc.logger().Error("claim restore pending failed",
			"event", "claim_restore_pending_failed",
			"module", "finance-core/split-engine",
			"layer", "application",
			"user_id", userID,
			"amount", amount,
			"error", err.Error(),
		)
	}
}

func (uc UseCase) refund(ctx context.Context, payer string, amount int64) {
	refunded, err := uc.Treasury.Transfer(ctx, uc.VaultAccount, payer, amount)
	if err != nil || !refunded {
		uc.logger().Error("payout refund failed",
			"event", "payout_refund_failed",
			"module", "finance-core/split-engine",
			"layer", "application",
			"payer", payer,
			"amount", amount,
		)
	}
}
