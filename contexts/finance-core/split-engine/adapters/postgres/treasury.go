package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"prism/contexts/finance-core/split-engine/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Treasury keeps account balances in postgres. A transfer that the ledger
// refuses (unknown source, short balance, frozen destination) reports
// ok=false with a nil error; only infrastructure faults surface as errors.
type Treasury struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewTreasury(db *gorm.DB, logger *slog.Logger) *Treasury {
	if logger == nil {
		logger = slog.Default()
	}
	return &Treasury{
		db:     db,
		logger: logger,
	}
}

func (t *Treasury) Migrate(ctx context.Context) error {
	if err := t.db.WithContext(ctx).AutoMigrate(&treasuryAccountModel{}); err != nil {
		t.logger.Error("treasury migrate failed",
			"event", "treasury_migrate_failed",
			"module", "finance-core/split-engine",
			"layer", "adapter",
			"error", err.Error(),
		)
		return err
	}
	return nil
}

func (t *Treasury) Balance(ctx context.Context, account string) (int64, error) {
	var row treasuryAccountModel
	err := t.db.WithContext(ctx).
		Where("account = ?", strings.TrimSpace(account)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		t.logger.Error("treasury balance read failed",
			"event", "treasury_balance_failed",
			"module", "finance-core/split-engine",
			"layer", "adapter",
			"account", strings.TrimSpace(account),
			"error", err.Error(),
		)
		return 0, err
	}
	return row.Balance, nil
}

func (t *Treasury) Transfer(ctx context.Context, from string, to string, amount int64) (bool, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if amount <= 0 || from == "" || to == "" || from == to {
		return false, nil
	}
	refused := false
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var source treasuryAccountModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("account = ?", from).
			First(&source).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				refused = true
				return nil
			}
			return err
		}
		if source.Balance < amount {
			refused = true
			return nil
		}

		var dest treasuryAccountModel
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("account = ?", to).
			First(&dest).
			Error
		switch {
		case err == nil:
			if dest.Frozen {
				refused = true
				return nil
			}
			if err := tx.Model(&treasuryAccountModel{}).
				Where("account = ?", to).
				UpdateColumn("balance", gorm.Expr("balance + ?", amount)).
				Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&treasuryAccountModel{Account: to, Balance: amount}).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return tx.Model(&treasuryAccountModel{}).
			Where("account = ?", from).
			UpdateColumn("balance", gorm.Expr("balance - ?", amount)).
			Error
	})
	if err != nil {
		t.logger.Error("treasury transfer failed",
			"event", "treasury_transfer_failed",
			"module", "finance-core/split-engine",
			"layer", "adapter",
			"from_account", from,
			"to_account", to,
			"amount", amount,
			"error", err.Error(),
		)
		return false, err
	}
	if refused {
		t.logger.Warn("treasury transfer refused",
			"event", "treasury_transfer_refused",
			"module", "finance-core/split-engine",
			"layer", "adapter",
			"from_account", from,
			"to_account", to,
			"amount", amount,
		)
		return false, nil
	}
	return true, nil
}

// Credit deposits amount into an account outside of any payout flow.
// Operational tooling uses it to fund payer accounts.
func (t *Treasury) Credit(ctx context.Context, account string, amount int64) error {
	account = strings.TrimSpace(account)
	if account == "" || amount <= 0 {
		return nil
	}
	row := treasuryAccountModel{Account: account, Balance: amount}
	return t.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account"}},
		DoUpdates: clause.Assignments(map[string]any{
			"balance": gorm.Expr("treasury_accounts.balance + ?", amount),
		}),
	}).Create(&row).Error
}

type treasuryAccountModel struct {
	Account string `gorm:"column:account;primaryKey"`
	Balance int64  `gorm:"column:balance"`
	Frozen  bool   `gorm:"column:frozen"`
}

func (treasuryAccountModel) TableName() string {
	return "treasury_accounts"
}

var _ ports.Treasury = (*Treasury)(nil)
