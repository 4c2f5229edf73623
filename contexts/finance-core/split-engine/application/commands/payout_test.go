package commands

import (
	"context"
	"errors"
	"testing"

	"prism/contexts/finance-core/split-engine/adapters/memory"
	domainerrors "prism/contexts/finance-core/split-engine/domain/errors"
)

func TestDistributeAppliesFeeAndProportionalShares(t *testing.T) {
	uc, store, treasury := newTestUseCase(250)
	ctx := context.Background()

	if _, err := uc.RegisterSplit(ctx, RegisterSplitCommand{
		AssetID: 1,
		Creator: "alice",
		Recipients: []RecipientInput{
			{Recipient: "alice", Bps: 6000},
			{Recipient: "bob", Bps: 4000},
		},
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	treasury.Credit("payer", 200_000)

	payment, err := uc.Distribute(ctx, DistributeCommand{AssetID: 1, Payer: "payer", Amount: 200_000})
	if err != nil {
		t.Fatalf("distribute failed: %v", err)
	}
	if payment.PaymentID != 1 {
		t.Fatalf("expected first payment id 1, got %d", payment.PaymentID)
	}
	if payment.Fee != 5_000 {
		t.Fatalf("expected fee 5000, got %d", payment.Fee)
	}
	if payment.Distributable != 195_000 {
		t.Fatalf("expected distributable 195000, got %d", payment.Distributable)
	}

	aliceBalance, _ := treasury.Balance(ctx, "alice")
	bobBalance, _ := treasury.Balance(ctx, "bob")
	feeBalance, _ := treasury.Balance(ctx, "platform-fees")
	if aliceBalance != 117_000 {
		t.Fatalf("expected alice balance 117000, got %d", aliceBalance)
	}
	if bobBalance != 78_000 {
		t.Fatalf("expected bob balance 78000, got %d", bobBalance)
	}
	if feeBalance != 5_000 {
		t.Fatalf("expected fee balance 5000, got %d", feeBalance)
	}

	earnings, err := store.GetEarnings(ctx, "alice")
	if err != nil {
		t.Fatalf("get earnings failed: %v", err)
	}
	if earnings.TotalReceived != 117_000 || earnings.PaymentCount != 1 {
		t.Fatalf("unexpected earnings: %+v", earnings)
	}

	row, err := store.GetRecipientPayment(ctx, payment.PaymentID, 1)
	if err != nil {
		t.Fatalf("get recipient payment failed: %v", err)
	}
	if row.Recipient != "bob" || row.Amount != 78_000 {
		t.Fatalf("unexpected recipient payment row: %+v", row)
	}

	stats, err := store.GetStats(ctx)
	if err != nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if stats.TotalPayouts != 1 || stats.TotalVolume != 200_000 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestDistributeFloorsSharesAndLeavesDustInVault(t *testing.T) {
	uc, _, treasury := newTestUseCase(0)
	ctx := context.Background()

	if _, err := uc.RegisterSplit(ctx, RegisterSplitCommand{
		AssetID: 2,
		Creator: "alice",
		Recipients: []RecipientInput{
			{Recipient: "a", Bps: 3333},
			{Recipient: "b", Bps: 3333},
			{Recipient: "c", Bps: 3334},
		},
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	treasury.Credit("payer", 100)

	payment, err := uc.Distribute(ctx, DistributeCommand{AssetID: 2, Payer: "payer", Amount: 100})
	if err != nil {
		t.Fatalf("distribute failed: %v", err)
	}
	if payment.Fee != 0 || payment.Distributable != 100 {
		t.Fatalf("unexpected payment amounts: %+v", payment)
	}

	// 100 * 3333 / 10000 = 33 for each of the first two, 33 for the third.
	for _, user := range []string{"a", "b", "c"} {
		balance, _ := treasury.Balance(ctx, user)
		if balance != 33 {
			t.Fatalf("expected %s balance 33, got %d", user, balance)
		}
	}
	vaultBalance, _ := treasury.Balance(ctx, "vault")
	if vaultBalance != 1 {
		t.Fatalf("expected rounding dust 1 in vault, got %d", vaultBalance)
	}
}

func TestDistributeValidationFailuresLeaveNoTrace(t *testing.T) {
	uc, store, treasury := newTestUseCase(0)
	ctx := context.Background()

	if _, err := uc.RegisterSplit(ctx, RegisterSplitCommand{
		AssetID: 3, Creator: "alice", Recipients: evenSplit("a", "b"),
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	treasury.Credit("payer", 50)

	if _, err := uc.Distribute(ctx, DistributeCommand{AssetID: 3, Payer: " ", Amount: 50}); !errors.Is(err, domainerrors.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if _, err := uc.Distribute(ctx, DistributeCommand{AssetID: 404, Payer: "payer", Amount: 50}); !errors.Is(err, domainerrors.ErrSplitNotFound) {
		t.Fatalf("expected ErrSplitNotFound, got %v", err)
	}
	if _, err := uc.Distribute(ctx, DistributeCommand{AssetID: 3, Payer: "payer", Amount: 0}); !errors.Is(err, domainerrors.ErrZeroAmount) {
		t.Fatalf("expected ErrZeroAmount, got %v", err)
	}
	if _, err := uc.Distribute(ctx, DistributeCommand{AssetID: 3, Payer: "payer", Amount: 51}); !errors.Is(err, domainerrors.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	balance, _ := treasury.Balance(ctx, "payer")
	if balance != 50 {
		t.Fatalf("expected payer balance untouched, got %d", balance)
	}
	stats, _ := store.GetStats(ctx)
	if stats.TotalPayouts != 0 {
		t.Fatalf("expected no recorded payouts, got %d", stats.TotalPayouts)
	}
}

func TestDistributeAgainstDisabledSplit(t *testing.T) {
	uc, _, treasury := newTestUseCase(0)
	ctx := context.Background()

	if _, err := uc.RegisterSplit(ctx, RegisterSplitCommand{
		AssetID: 4, Creator: "alice", Recipients: evenSplit("a", "b"),
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := uc.DisableSplit(ctx, DisableSplitCommand{AssetID: 4, Caller: "alice"}); err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	treasury.Credit("payer", 100)

	_, err := uc.Distribute(ctx, DistributeCommand{AssetID: 4, Payer: "payer", Amount: 100})
	if !errors.Is(err, domainerrors.ErrSplitNotFound) {
		t.Fatalf("expected ErrSplitNotFound for disabled split, got %v", err)
	}
}

func TestDistributeRefusedFeeTransferRefundsPayer(t *testing.T) {
	uc, store, treasury := newTestUseCase(250)
	ctx := context.Background()

	if _, err := uc.RegisterSplit(ctx, RegisterSplitCommand{
		AssetID: 5, Creator: "alice", Recipients: evenSplit("a", "b"),
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	treasury.Credit("payer", 10_000)
	treasury.SetRefusing("platform-fees", true)

	_, err := uc.Distribute(ctx, DistributeCommand{AssetID: 5, Payer: "payer", Amount: 10_000})
	if !errors.Is(err, domainerrors.ErrTransferFailed) {
		t.Fatalf("expected ErrTransferFailed, got %v", err)
	}

	balance, _ := treasury.Balance(ctx, "payer")
	if balance != 10_000 {
		t.Fatalf("expected full refund to payer, got %d", balance)
	}
	vaultBalance, _ := treasury.Balance(ctx, "vault")
	if vaultBalance != 0 {
		t.Fatalf("expected empty vault after unwind, got %d", vaultBalance)
	}
	stats, _ := store.GetStats(ctx)
	if stats.TotalPayouts != 0 {
		t.Fatalf("expected no recorded payout, got %d", stats.TotalPayouts)
	}
}

func TestDistributeRefusedRecipientBecomesPendingBalance(t *testing.T) {
	uc, store, treasury := newTestUseCase(0)
	ctx := context.Background()

	if _, err := uc.RegisterSplit(ctx, RegisterSplitCommand{
		AssetID: 6,
		Creator: "alice",
		Recipients: []RecipientInput{
			{Recipient: "good", Bps: 5000},
			{Recipient: "bad", Bps: 5000},
		},
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	treasury.Credit("payer", 1_000)
	treasury.SetRefusing("bad", true)

	payment, err := uc.Distribute(ctx, DistributeCommand{AssetID: 6, Payer: "payer", Amount: 1_000})
	if err != nil {
		t.Fatalf("distribute failed: %v", err)
	}

	goodBalance, _ := treasury.Balance(ctx, "good")
	if goodBalance != 500 {
		t.Fatalf("expected good recipient paid 500, got %d", goodBalance)
	}
	vaultBalance, _ := treasury.Balance(ctx, "vault")
	if vaultBalance != 500 {
		t.Fatalf("expected refused share escrowed in vault, got %d", vaultBalance)
	}

	pending, err := store.GetPendingBalance(ctx, "bad")
	if err != nil {
		t.Fatalf("get pending failed: %v", err)
	}
	if pending.Amount != 500 {
		t.Fatalf("expected pending 500, got %d", pending.Amount)
	}

	// The refused recipient has no earnings row and no payment row.
	earnings, _ := store.GetEarnings(ctx, "bad")
	if earnings.TotalReceived != 0 {
		t.Fatalf("expected no earnings for refused recipient, got %d", earnings.TotalReceived)
	}
	if _, err := store.GetRecipientPayment(ctx, payment.PaymentID, 1); !errors.Is(err, domainerrors.ErrPaymentNotFound) {
		t.Fatalf("expected no recipient payment row for refused recipient, got %v", err)
	}
}

func TestClaimPendingPaysOutOnceThenRejects(t *testing.T) {
	uc, store, treasury := newTestUseCase(0)
	ctx := context.Background()

	if _, err := uc.RegisterSplit(ctx, RegisterSplitCommand{
		AssetID: 7,
		Creator: "alice",
		Recipients: []RecipientInput{
			{Recipient: "good", Bps: 5000},
			{Recipient: "bad", Bps: 5000},
		},
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	treasury.Credit("payer", 1_000)
	treasury.SetRefusing("bad", true)
	if _, err := uc.Distribute(ctx, DistributeCommand{AssetID: 7, Payer: "payer", Amount: 1_000}); err != nil {
		t.Fatalf("distribute failed: %v", err)
	}

	treasury.SetRefusing("bad", false)
	claimed, err := uc.ClaimPending(ctx, ClaimPendingCommand{Caller: "bad"})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if claimed != 500 {
		t.Fatalf("expected claim amount 500, got %d", claimed)
	}

	badBalance, _ := treasury.Balance(ctx, "bad")
	if badBalance != 500 {
		t.Fatalf("expected claimed funds delivered, got %d", badBalance)
	}
	pending, _ := store.GetPendingBalance(ctx, "bad")
	if pending.Amount != 0 {
		t.Fatalf("expected pending cleared, got %d", pending.Amount)
	}

	if _, err := uc.ClaimPending(ctx, ClaimPendingCommand{Caller: "bad"}); !errors.Is(err, domainerrors.ErrZeroAmount) {
		t.Fatalf("expected ErrZeroAmount on second claim, got %v", err)
	}
}

// stallingTreasury parks a vault withdrawal mid-flight until released so a
// second claimant can race the same pending balance.
type stallingTreasury struct {
	*memory.Treasury
	entered chan struct{}
	release chan struct{}
}

func (t *stallingTreasury) Transfer(ctx context.Context, from string, to string, amount int64) (bool, error) {
	t.entered <- struct{}{}
	<-t.release
	return t.Treasury.Transfer(ctx, from, to, amount)
}

func TestClaimPendingConcurrentClaimsDeliverOnce(t *testing.T) {
	uc, store, treasury := newTestUseCase(0)
	ctx := context.Background()

	if _, err := uc.RegisterSplit(ctx, RegisterSplitCommand{
		AssetID:    9,
		Creator:    "alice",
		Recipients: evenSplit("good", "bad"),
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	// Both shares end up escrowed, so the vault holds more than one claim
	// and a double delivery would drain the other recipient's backing.
	treasury.Credit("payer", 1_000)
	treasury.SetRefusing("good", true)
	treasury.SetRefusing("bad", true)
	if _, err := uc.Distribute(ctx, DistributeCommand{AssetID: 9, Payer: "payer", Amount: 1_000}); err != nil {
		t.Fatalf("distribute failed: %v", err)
	}
	treasury.SetRefusing("good", false)
	treasury.SetRefusing("bad", false)

	gated := &stallingTreasury{
		Treasury: treasury,
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	stalledUC := uc
	stalledUC.Treasury = gated

	type claimResult struct {
		amount int64
		err    error
	}
	results := make(chan claimResult, 1)
	go func() {
		amount, err := stalledUC.ClaimPending(ctx, ClaimPendingCommand{Caller: "bad"})
		results <- claimResult{amount: amount, err: err}
	}()

	// The first claim has reserved the balance and is stalled inside the
	// treasury. A rival claim must now be turned away before any transfer.
	<-gated.entered
	if _, err := uc.ClaimPending(ctx, ClaimPendingCommand{Caller: "bad"}); !errors.Is(err, domainerrors.ErrZeroAmount) {
		t.Fatalf("expected rival claim rejected with ErrZeroAmount, got %v", err)
	}
	close(gated.release)

	first := <-results
	if first.err != nil {
		t.Fatalf("stalled claim failed: %v", first.err)
	}
	if first.amount != 500 {
		t.Fatalf("expected single delivery of 500, got %d", first.amount)
	}

	badBalance, _ := treasury.Balance(ctx, "bad")
	if badBalance != 500 {
		t.Fatalf("expected exactly one payout delivered, got %d", badBalance)
	}
	vaultBalance, _ := treasury.Balance(ctx, "vault")
	if vaultBalance != 500 {
		t.Fatalf("expected the other recipient's escrow untouched, got %d", vaultBalance)
	}
	pending, _ := store.GetPendingBalance(ctx, "bad")
	if pending.Amount != 0 {
		t.Fatalf("expected pending cleared, got %d", pending.Amount)
	}
}

func TestClaimPendingRefusedTransferKeepsBalance(t *testing.T) {
	uc, store, treasury := newTestUseCase(0)
	ctx := context.Background()

	if _, err := uc.RegisterSplit(ctx, RegisterSplitCommand{
		AssetID: 8,
		Creator: "alice",
		Recipients: []RecipientInput{
			{Recipient: "good", Bps: 5000},
			{Recipient: "bad", Bps: 5000},
		},
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	treasury.Credit("payer", 1_000)
	treasury.SetRefusing("bad", true)
	if _, err := uc.Distribute(ctx, DistributeCommand{AssetID: 8, Payer: "payer", Amount: 1_000}); err != nil {
		t.Fatalf("distribute failed: %v", err)
	}

	// Still refusing: the claim transfer fails and the escrow stays intact.
	if _, err := uc.ClaimPending(ctx, ClaimPendingCommand{Caller: "bad"}); !errors.Is(err, domainerrors.ErrTransferFailed) {
		t.Fatalf("expected ErrTransferFailed, got %v", err)
	}
	pending, _ := store.GetPendingBalance(ctx, "bad")
	if pending.Amount != 500 {
		t.Fatalf("expected pending balance preserved, got %d", pending.Amount)
	}
	vaultBalance, _ := treasury.Balance(ctx, "vault")
	if vaultBalance != 500 {
		t.Fatalf("expected vault escrow preserved, got %d", vaultBalance)
	}
}
