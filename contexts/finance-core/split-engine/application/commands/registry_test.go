package commands

import (
	"context"
	"errors"
	"testing"

	"prism/contexts/finance-core/split-engine/adapters/memory"
	domainerrors "prism/contexts/finance-core/split-engine/domain/errors"
)

func newTestUseCase(feeRateBps int64) (UseCase, *memory.Store, *memory.Treasury) {
	store := memory.NewStore(feeRateBps, "platform-fees")
	treasury := memory.NewTreasury()
	uc := UseCase{
		Repository:   store,
		Treasury:     treasury,
		Clock:        store,
		IDGen:        store,
		Outbox:       store,
		AdminID:      "admin",
		VaultAccount: "vault",
	}
	return uc, store, treasury
}

func evenSplit(a, b string) []RecipientInput {
	return []RecipientInput{
		{Recipient: a, Bps: 5000},
		{Recipient: b, Bps: 5000},
	}
}

func TestRegisterSplitStoresConfigAndShares(t *testing.T) {
	uc, store, _ := newTestUseCase(0)
	ctx := context.Background()

	cfg, err := uc.RegisterSplit(ctx, RegisterSplitCommand{
		AssetID: 7,
		Creator: "alice",
		Recipients: []RecipientInput{
			{Recipient: "alice", Bps: 6000, Role: "author"},
			{Recipient: "bob", Bps: 4000, Role: "editor"},
		},
	})
	if err != nil {
		t.Fatalf("register split failed: %v", err)
	}
	if !cfg.Active || cfg.RecipientCount != 2 {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	shares, err := store.ListRecipientShares(ctx, 7)
	if err != nil {
		t.Fatalf("list shares failed: %v", err)
	}
	if len(shares) != 2 {
		t.Fatalf("expected 2 shares, got %d", len(shares))
	}
	if shares[0].Recipient != "alice" || shares[0].Index != 0 || shares[0].Bps != 6000 {
		t.Fatalf("unexpected first share: %+v", shares[0])
	}
	if shares[1].Recipient != "bob" || shares[1].Index != 1 {
		t.Fatalf("unexpected second share: %+v", shares[1])
	}

	stats, err := store.GetStats(ctx)
	if err != nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if stats.TotalSplits != 1 {
		t.Fatalf("expected splits counter 1, got %d", stats.TotalSplits)
	}
}

func TestRegisterSplitValidation(t *testing.T) {
	cases := []struct {
		name       string
		assetID    int64
		creator    string
		recipients []RecipientInput
		want       error
	}{
		{
			name:    "zero asset id",
			assetID: 0, creator: "alice",
			recipients: evenSplit("a", "b"),
			want:       domainerrors.ErrInvalidAssetID,
		},
		{
			name:    "blank creator",
			assetID: 1, creator: "  ",
			recipients: evenSplit("a", "b"),
			want:       domainerrors.ErrInvalidSplit,
		},
		{
			name:    "no recipients",
			assetID: 1, creator: "alice",
			recipients: nil,
			want:       domainerrors.ErrInvalidSplit,
		},
		{
			name:    "blank recipient",
			assetID: 1, creator: "alice",
			recipients: []RecipientInput{
				{Recipient: " ", Bps: 5000},
				{Recipient: "b", Bps: 5000},
			},
			want: domainerrors.ErrInvalidSplit,
		},
		{
			name:    "zero share",
			assetID: 1, creator: "alice",
			recipients: []RecipientInput{
				{Recipient: "a", Bps: 0},
				{Recipient: "b", Bps: 10000},
			},
			want: domainerrors.ErrInvalidPercentage,
		},
		{
			name:    "share above total",
			assetID: 1, creator: "alice",
			recipients: []RecipientInput{
				{Recipient: "a", Bps: 10001},
			},
			want: domainerrors.ErrInvalidPercentage,
		},
		{
			name:    "duplicate recipient",
			assetID: 1, creator: "alice",
			recipients: []RecipientInput{
				{Recipient: "a", Bps: 5000},
				{Recipient: "a", Bps: 5000},
			},
			want: domainerrors.ErrDuplicateRecipient,
		},
		{
			name:    "shares under total",
			assetID: 1, creator: "alice",
			recipients: []RecipientInput{
				{Recipient: "a", Bps: 4000},
				{Recipient: "b", Bps: 5000},
			},
			want: domainerrors.ErrInvalidPercentage,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, _, _ := newTestUseCase(0)
			_, err := uc.RegisterSplit(context.Background(), RegisterSplitCommand{
				AssetID:    tc.assetID,
				Creator:    tc.creator,
				Recipients: tc.recipients,
			})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRegisterSplitRejectsTooManyRecipients(t *testing.T) {
	uc, _, _ := newTestUseCase(0)
	recipients := make([]RecipientInput, 11)
	for i := range recipients {
		recipients[i] = RecipientInput{
			Recipient: string(rune('a' + i)),
			Bps:       1000,
		}
	}

	_, err := uc.RegisterSplit(context.Background(), RegisterSplitCommand{
		AssetID:    1,
		Creator:    "alice",
		Recipients: recipients,
	})
	if !errors.Is(err, domainerrors.ErrTooManyRecipients) {
		t.Fatalf("expected ErrTooManyRecipients, got %v", err)
	}
}

func TestRegisterSplitRejectsDuplicateAsset(t *testing.T) {
	uc, _, _ := newTestUseCase(0)
	ctx := context.Background()

	if _, err := uc.RegisterSplit(ctx, RegisterSplitCommand{
		AssetID: 3, Creator: "alice", Recipients: evenSplit("a", "b"),
	}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := uc.RegisterSplit(ctx, RegisterSplitCommand{
		AssetID: 3, Creator: "carol", Recipients: evenSplit("c", "d"),
	})
	if !errors.Is(err, domainerrors.ErrSplitAlreadyExists) {
		t.Fatalf("expected ErrSplitAlreadyExists, got %v", err)
	}
}

func TestUpdateSplitAuthorization(t *testing.T) {
	uc, _, _ := newTestUseCase(0)
	ctx := context.Background()

	if _, err := uc.RegisterSplit(ctx, RegisterSplitCommand{
		AssetID: 5, Creator: "alice", Recipients: evenSplit("a", "b"),
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := uc.UpdateSplit(ctx, UpdateSplitCommand{
		AssetID: 5, Caller: "mallory", Recipients: evenSplit("c", "d"),
	})
	if !errors.Is(err, domainerrors.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for stranger, got %v", err)
	}

	if _, err := uc.UpdateSplit(ctx, UpdateSplitCommand{
		AssetID: 5, Caller: "admin", Recipients: evenSplit("c", "d"),
	}); err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
}

func TestUpdateSplitReplacesSharesAndKeepsCreator(t *testing.T) {
	uc, store, _ := newTestUseCase(0)
	ctx := context.Background()

	original, err := uc.RegisterSplit(ctx, RegisterSplitCommand{
		AssetID: 9, Creator: "alice", Recipients: evenSplit("a", "b"),
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	updated, err := uc.UpdateSplit(ctx, UpdateSplitCommand{
		AssetID: 9,
		Caller:  "alice",
		Recipients: []RecipientInput{
			{Recipient: "x", Bps: 7000},
			{Recipient: "y", Bps: 2000},
			{Recipient: "z", Bps: 1000},
		},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Creator != "alice" {
		t.Fatalf("expected creator preserved, got %q", updated.Creator)
	}
	if !updated.CreatedAt.Equal(original.CreatedAt) {
		t.Fatalf("expected created_at preserved")
	}
	if updated.RecipientCount != 3 {
		t.Fatalf("expected 3 recipients, got %d", updated.RecipientCount)
	}

	shares, err := store.ListRecipientShares(ctx, 9)
	if err != nil {
		t.Fatalf("list shares failed: %v", err)
	}
	if len(shares) != 3 || shares[0].Recipient != "x" || shares[2].Recipient != "z" {
		t.Fatalf("old shares not fully replaced: %+v", shares)
	}
}

func TestUpdateSplitMissingOrDisabledTarget(t *testing.T) {
	uc, _, _ := newTestUseCase(0)
	ctx := context.Background()

	_, err := uc.UpdateSplit(ctx, UpdateSplitCommand{
		AssetID: 404, Caller: "alice", Recipients: evenSplit("a", "b"),
	})
	if !errors.Is(err, domainerrors.ErrSplitNotFound) {
		t.Fatalf("expected ErrSplitNotFound for missing split, got %v", err)
	}

	if _, err := uc.RegisterSplit(ctx, RegisterSplitCommand{
		AssetID: 11, Creator: "alice", Recipients: evenSplit("a", "b"),
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := uc.DisableSplit(ctx, DisableSplitCommand{AssetID: 11, Caller: "alice"}); err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	_, err = uc.UpdateSplit(ctx, UpdateSplitCommand{
		AssetID: 11, Caller: "alice", Recipients: evenSplit("c", "d"),
	})
	if !errors.Is(err, domainerrors.ErrSplitNotFound) {
		t.Fatalf("expected ErrSplitNotFound for disabled split, got %v", err)
	}
}

func TestDisableSplitAuthorization(t *testing.T) {
	uc, store, _ := newTestUseCase(0)
	ctx := context.Background()

	if _, err := uc.RegisterSplit(ctx, RegisterSplitCommand{
		AssetID: 13, Creator: "alice", Recipients: evenSplit("a", "b"),
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := uc.DisableSplit(ctx, DisableSplitCommand{AssetID: 13, Caller: "mallory"}); !errors.Is(err, domainerrors.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if err := uc.DisableSplit(ctx, DisableSplitCommand{AssetID: 13, Caller: "alice"}); err != nil {
		t.Fatalf("creator disable failed: %v", err)
	}

	cfg, err := store.GetSplit(ctx, 13)
	if err != nil {
		t.Fatalf("get split failed: %v", err)
	}
	if cfg.Active {
		t.Fatalf("expected split inactive after disable")
	}
}
