package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"prism/contexts/finance-core/split-engine/domain/entities"
	domainerrors "prism/contexts/finance-core/split-engine/domain/errors"
	"prism/contexts/finance-core/split-engine/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"

	statsRowID = int64(1)
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates the engine tables and seeds the singleton stats row.
func (r *Repository) Migrate(ctx context.Context, feeRateBps int64, feeRecipient string) error {
	if err := r.db.WithContext(ctx).AutoMigrate(
		&splitConfigModel{},
		&recipientShareModel{},
		&paymentRecordModel{},
		&recipientPaymentModel{},
		&userEarningsModel{},
		&pendingBalanceModel{},
		&engineStatsModel{},
		&splitOutboxModel{},
	); err != nil {
		return r.logError("split_repo_migrate_failed", err)
	}
	seed := engineStatsModel{
		ID:           statsRowID,
		FeeRateBps:   feeRateBps,
		FeeRecipient: strings.TrimSpace(feeRecipient),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&seed).Error; err != nil {
		return r.logError("split_repo_seed_stats_failed", err)
	}
	return nil
}

func (r *Repository) CreateSplit(ctx context.Context, cfg entities.SplitConfig, shares []entities.RecipientShare) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := splitConfigModelFromEntity(cfg)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				r.logWarn("split_repo_create_unique_conflict",
					"asset_id", cfg.AssetID,
					"creator", cfg.Creator,
				)
				return domainerrors.ErrSplitAlreadyExists
			}
			return r.logError("split_repo_create_failed", err,
				"asset_id", cfg.AssetID,
			)
		}
		for _, share := range shares {
			shareRow := recipientShareModelFromEntity(share)
			if err := tx.Create(&shareRow).Error; err != nil {
				return r.logError("split_repo_create_share_failed", err,
					"asset_id", share.AssetID,
					"recipient_index", share.Index,
				)
			}
		}
		if err := tx.Model(&engineStatsModel{}).
			Where("id = ?", statsRowID).
			UpdateColumn("total_splits", gorm.Expr("total_splits + 1")).
			Error; err != nil {
			return r.logError("split_repo_bump_splits_failed", err,
				"asset_id", cfg.AssetID,
			)
		}
		return nil
	})
}

func (r *Repository) ReplaceSplit(ctx context.Context, cfg entities.SplitConfig, shares []entities.RecipientShare) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := splitConfigModelFromEntity(cfg)
		result := tx.Model(&splitConfigModel{}).
			Where("asset_id = ?", cfg.AssetID).
			Updates(map[string]any{
				"total_bps":       row.TotalBps,
				"recipient_count": row.RecipientCount,
				"active":          row.Active,
				"updated_at":      row.UpdatedAt,
			})
		if result.Error != nil {
			return r.logError("split_repo_replace_failed", result.Error,
				"asset_id", cfg.AssetID,
			)
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrSplitNotFound
		}
		if err := tx.Where("asset_id = ?", cfg.AssetID).
			Delete(&recipientShareModel{}).Error; err != nil {
			return r.logError("split_repo_clear_shares_failed", err,
				"asset_id", cfg.AssetID,
			)
		}
		for _, share := range shares {
			shareRow := recipientShareModelFromEntity(share)
			if err := tx.Create(&shareRow).Error; err != nil {
				return r.logError("split_repo_replace_share_failed", err,
					"asset_id", share.AssetID,
					"recipient_index", share.Index,
				)
			}
		}
		return nil
	})
}

func (r *Repository) DisableSplit(ctx context.Context, assetID int64, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&splitConfigModel{}).
		Where("asset_id = ?", assetID).
		Updates(map[string]any{
			"active":     false,
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("split_repo_disable_failed", result.Error,
			"asset_id", assetID,
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrSplitNotFound
	}
	return nil
}

func (r *Repository) GetSplit(ctx context.Context, assetID int64) (entities.SplitConfig, error) {
	var row splitConfigModel
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.SplitConfig{}, domainerrors.ErrSplitNotFound
		}
		return entities.SplitConfig{}, r.logError("split_repo_get_failed", err,
			"asset_id", assetID,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetRecipientShare(ctx context.Context, assetID int64, index int) (entities.RecipientShare, error) {
	var row recipientShareModel
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Where("share_index = ?", index).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.RecipientShare{}, domainerrors.ErrSplitNotFound
		}
		return entities.RecipientShare{}, r.logError("split_repo_get_share_failed", err,
			"asset_id", assetID,
			"recipient_index", index,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListRecipientShares(ctx context.Context, assetID int64) ([]entities.RecipientShare, error) {
	var rows []recipientShareModel
	if err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("share_index ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("split_repo_list_shares_failed", err,
			"asset_id", assetID,
		)
	}
	if len(rows) == 0 {
		return nil, domainerrors.ErrSplitNotFound
	}
	shares := make([]entities.RecipientShare, 0, len(rows))
	for _, row := range rows {
		shares = append(shares, row.toEntity())
	}
	return shares, nil
}

func (r *Repository) CommitPayout(ctx context.Context, ledger ports.PayoutLedger) (int64, error) {
	var paymentID int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment := paymentRecordModelFromEntity(ledger.Payment)
		if err := tx.Create(&payment).Error; err != nil {
			return r.logError("split_repo_commit_payment_failed", err,
				"asset_id", ledger.Payment.AssetID,
			)
		}
		paymentID = payment.PaymentID

		for _, row := range ledger.RecipientPayments {
			model := recipientPaymentModel{
				PaymentID: paymentID,
				Index:     row.Index,
				Recipient: strings.TrimSpace(row.Recipient),
				Amount:    row.Amount,
				Bps:       row.Bps,
			}
			if err := tx.Create(&model).Error; err != nil {
				return r.logError("split_repo_commit_recipient_payment_failed", err,
					"payment_id", paymentID,
					"recipient_index", row.Index,
				)
			}
		}
		for _, credit := range ledger.EarningsCredits {
			row := userEarningsModel{
				UserID:        strings.TrimSpace(credit.UserID),
				TotalReceived: credit.Amount,
				PaymentCount:  1,
				LastPaymentAt: credit.PaidAt.UTC(),
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"total_received":  gorm.Expr("user_earnings.total_received + ?", credit.Amount),
					"payment_count":   gorm.Expr("user_earnings.payment_count + 1"),
					"last_payment_at": credit.PaidAt.UTC(),
				}),
			}).Create(&row).Error; err != nil {
				return r.logError("split_repo_commit_earnings_failed", err,
					"payment_id", paymentID,
					"user_id", row.UserID,
				)
			}
		}
		for _, credit := range ledger.PendingCredits {
			row := pendingBalanceModel{
				UserID:    strings.TrimSpace(credit.UserID),
				Amount:    credit.Amount,
				UpdatedAt: ledger.Payment.PaidAt.UTC(),
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"amount":     gorm.Expr("pending_balances.amount + ?", credit.Amount),
					"updated_at": ledger.Payment.PaidAt.UTC(),
				}),
			}).Create(&row).Error; err != nil {
				return r.logError("split_repo_commit_pending_failed", err,
					"payment_id", paymentID,
					"user_id", row.UserID,
				)
			}
		}
		if err := tx.Model(&engineStatsModel{}).
			Where("id = ?", statsRowID).
			UpdateColumns(map[string]any{
				"total_payouts": gorm.Expr("total_payouts + 1"),
				"total_volume":  gorm.Expr("total_volume + ?", ledger.Payment.Amount),
				"updated_at":    ledger.Payment.PaidAt.UTC(),
			}).Error; err != nil {
			return r.logError("split_repo_commit_stats_failed", err,
				"payment_id", paymentID,
			)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return paymentID, nil
}

func (r *Repository) GetPayment(ctx context.Context, paymentID int64) (entities.PaymentRecord, error) {
	var row paymentRecordModel
	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.PaymentRecord{}, domainerrors.ErrPaymentNotFound
		}
		return entities.PaymentRecord{}, r.logError("split_repo_get_payment_failed", err,
			"payment_id", paymentID,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetRecipientPayment(ctx context.Context, paymentID int64, index int) (entities.RecipientPaymentRecord, error) {
	var row recipientPaymentModel
	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Where("share_index = ?", index).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.RecipientPaymentRecord{}, domainerrors.ErrPaymentNotFound
		}
		return entities.RecipientPaymentRecord{}, r.logError("split_repo_get_recipient_payment_failed", err,
			"payment_id", paymentID,
			"recipient_index", index,
		)
	}
	return entities.RecipientPaymentRecord{
		PaymentID: row.PaymentID,
		Index:     row.Index,
		Recipient: row.Recipient,
		Amount:    row.Amount,
		Bps:       row.Bps,
	}, nil
}

func (r *Repository) GetEarnings(ctx context.Context, userID string) (entities.UserEarnings, error) {
	var row userEarningsModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.UserEarnings{UserID: strings.TrimSpace(userID)}, nil
		}
		return entities.UserEarnings{}, r.logError("split_repo_get_earnings_failed", err,
			"user_id", strings.TrimSpace(userID),
		)
	}
	return entities.UserEarnings{
		UserID:        row.UserID,
		TotalReceived: row.TotalReceived,
		PaymentCount:  row.PaymentCount,
		LastPaymentAt: row.LastPaymentAt.UTC(),
	}, nil
}

func (r *Repository) GetPendingBalance(ctx context.Context, userID string) (entities.PendingBalance, error) {
	var row pendingBalanceModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.PendingBalance{UserID: strings.TrimSpace(userID)}, nil
		}
		return entities.PendingBalance{}, r.logError("split_repo_get_pending_failed", err,
			"user_id", strings.TrimSpace(userID),
		)
	}
	return entities.PendingBalance{
		UserID:    row.UserID,
		Amount:    row.Amount,
		UpdatedAt: row.UpdatedAt.UTC(),
	}, nil
}

func (r *Repository) ClearPendingBalance(ctx context.Context, userID string, expected int64, clearedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&pendingBalanceModel{}).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Where("amount >= ?", expected).
		UpdateColumns(map[string]any{
			"amount":     gorm.Expr("amount - ?", expected),
			"updated_at": clearedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("split_repo_clear_pending_failed", result.Error,
			"user_id", strings.TrimSpace(userID),
			"amount", expected,
		)
	}
	if result.RowsAffected == 0 {
		r.logWarn("split_repo_clear_pending_stale",
			"user_id", strings.TrimSpace(userID),
			"amount", expected,
		)
		return domainerrors.ErrZeroAmount
	}
	return nil
}

func (r *Repository) RestorePendingBalance(ctx context.Context, userID string, amount int64, restoredAt time.Time) error {
	row := pendingBalanceModel{
		UserID:    strings.TrimSpace(userID),
		Amount:    amount,
		UpdatedAt: restoredAt.UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"amount":     gorm.Expr("pending_balances.amount + ?", amount),
			"updated_at": restoredAt.UTC(),
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("split_repo_restore_pending_failed", err,
			"user_id", row.UserID,
			"amount", amount,
		)
	}
	return nil
}

func (r *Repository) GetStats(ctx context.Context) (entities.EngineStats, error) {
	var row engineStatsModel
	err := r.db.WithContext(ctx).
		Where("id = ?", statsRowID).
		First(&row).
		Error
	if err != nil {
		return entities.EngineStats{}, r.logError("split_repo_get_stats_failed", err)
	}
	return entities.EngineStats{
		TotalPayouts: row.TotalPayouts,
		TotalVolume:  row.TotalVolume,
		TotalSplits:  row.TotalSplits,
		FeeRateBps:   row.FeeRateBps,
		FeeRecipient: row.FeeRecipient,
		UpdatedAt:    row.UpdatedAt.UTC(),
	}, nil
}

func (r *Repository) SetFeeRate(ctx context.Context, bps int64, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&engineStatsModel{}).
		Where("id = ?", statsRowID).
		UpdateColumns(map[string]any{
			"fee_rate_bps": bps,
			"updated_at":   updatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("split_repo_set_fee_rate_failed", result.Error,
			"fee_rate_bps", bps,
		)
	}
	return nil
}

func (r *Repository) SetFeeRecipient(ctx context.Context, recipient string, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&engineStatsModel{}).
		Where("id = ?", statsRowID).
		UpdateColumns(map[string]any{
			"fee_recipient": strings.TrimSpace(recipient),
			"updated_at":    updatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("split_repo_set_fee_recipient_failed", result.Error,
			"fee_recipient", strings.TrimSpace(recipient),
		)
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := marshalEnvelope(envelope)
	if err != nil {
		return r.logError("split_repo_append_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(envelope.EventID),
			"event_type", strings.TrimSpace(envelope.EventType),
		)
	}
	row := splitOutboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row).Error; err != nil {
		return r.logError("split_repo_append_outbox_failed", err,
			"outbox_id", row.OutboxID,
			"event_type", row.EventType,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []splitOutboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("split_repo_list_outbox_failed", err,
			"limit", limit,
		)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&splitOutboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("split_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		r.logWarn("split_repo_mark_outbox_published_not_found",
			"outbox_id", strings.TrimSpace(outboxID),
		)
		return domainerrors.ErrPaymentNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+7)
	fields = append(fields,
		"event", event,
		"module", "finance-core/split-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("split repository operation failed", fields...)
	return err
}

func (r *Repository) logWarn(event string, attrs ...any) {
	fields := make([]any, 0, len(attrs)+5)
	fields = append(fields,
		"event", event,
		"module", "finance-core/split-engine",
		"layer", "adapter",
	)
	fields = append(fields, attrs...)
	r.logger.Warn("split repository warning", fields...)
}

type splitConfigModel struct {
	AssetID        int64     `gorm:"column:asset_id;primaryKey"`
	Creator        string    `gorm:"column:creator"`
	TotalBps       int64     `gorm:"column:total_bps"`
	RecipientCount int       `gorm:"column:recipient_count"`
	Active         bool      `gorm:"column:active"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (splitConfigModel) TableName() string {
	return "split_configs"
}

func splitConfigModelFromEntity(cfg entities.SplitConfig) splitConfigModel {
	return splitConfigModel{
		AssetID:        cfg.AssetID,
		Creator:        strings.TrimSpace(cfg.Creator),
		TotalBps:       cfg.TotalBps,
		RecipientCount: cfg.RecipientCount,
		Active:         cfg.Active,
		CreatedAt:      cfg.CreatedAt.UTC(),
		UpdatedAt:      cfg.UpdatedAt.UTC(),
	}
}

func (m splitConfigModel) toEntity() entities.SplitConfig {
	return entities.SplitConfig{
		AssetID:        m.AssetID,
		Creator:        m.Creator,
		TotalBps:       m.TotalBps,
		RecipientCount: m.RecipientCount,
		Active:         m.Active,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

type recipientShareModel struct {
	AssetID   int64  `gorm:"column:asset_id;primaryKey"`
	Index     int    `gorm:"column:share_index;primaryKey"`
	Recipient string `gorm:"column:recipient"`
	Bps       int64  `gorm:"column:bps"`
	Role      string `gorm:"column:role"`
}

func (recipientShareModel) TableName() string {
	return "recipient_shares"
}

func recipientShareModelFromEntity(share entities.RecipientShare) recipientShareModel {
	return recipientShareModel{
		AssetID:   share.AssetID,
		Index:     share.Index,
		Recipient: strings.TrimSpace(share.Recipient),
		Bps:       share.Bps,
		Role:      strings.TrimSpace(share.Role),
	}
}

func (m recipientShareModel) toEntity() entities.RecipientShare {
	return entities.RecipientShare{
		AssetID:   m.AssetID,
		Index:     m.Index,
		Recipient: m.Recipient,
		Bps:       m.Bps,
		Role:      m.Role,
	}
}

type paymentRecordModel struct {
	PaymentID      int64     `gorm:"column:payment_id;primaryKey;autoIncrement"`
	AssetID        int64     `gorm:"column:asset_id"`
	Amount         int64     `gorm:"column:amount"`
	Fee            int64     `gorm:"column:fee"`
	Distributable  int64     `gorm:"column:distributable"`
	RecipientCount int       `gorm:"column:recipient_count"`
	Payer          string    `gorm:"column:payer"`
	PaidAt         time.Time `gorm:"column:paid_at"`
}

func (paymentRecordModel) TableName() string {
	return "payment_records"
}

func paymentRecordModelFromEntity(payment entities.PaymentRecord) paymentRecordModel {
	return paymentRecordModel{
		AssetID:        payment.AssetID,
		Amount:         payment.Amount,
		Fee:            payment.Fee,
		Distributable:  payment.Distributable,
		RecipientCount: payment.RecipientCount,
		Payer:          strings.TrimSpace(payment.Payer),
		PaidAt:         payment.PaidAt.UTC(),
	}
}

func (m paymentRecordModel) toEntity() entities.PaymentRecord {
	return entities.PaymentRecord{
		PaymentID:      m.PaymentID,
		AssetID:        m.AssetID,
		Amount:         m.Amount,
		Fee:            m.Fee,
		Distributable:  m.Distributable,
		RecipientCount: m.RecipientCount,
		Payer:          m.Payer,
		PaidAt:         m.PaidAt.UTC(),
	}
}

type recipientPaymentModel struct {
	PaymentID int64  `gorm:"column:payment_id;primaryKey"`
	Index     int    `gorm:"column:share_index;primaryKey"`
	Recipient string `gorm:"column:recipient"`
	Amount    int64  `gorm:"column:amount"`
	Bps       int64  `gorm:"column:bps"`
}

func (recipientPaymentModel) TableName() string {
	return "recipient_payment_records"
}

type userEarningsModel struct {
	UserID        string    `gorm:"column:user_id;primaryKey"`
	TotalReceived int64     `gorm:"column:total_received"`
	PaymentCount  int64     `gorm:"column:payment_count"`
	LastPaymentAt time.Time `gorm:"column:last_payment_at"`
}

func (userEarningsModel) TableName() string {
	return "user_earnings"
}

type pendingBalanceModel struct {
	UserID    string    `gorm:"column:user_id;primaryKey"`
	Amount    int64     `gorm:"column:amount"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (pendingBalanceModel) TableName() string {
	return "pending_balances"
}

type engineStatsModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	TotalPayouts int64     `gorm:"column:total_payouts"`
	TotalVolume  int64     `gorm:"column:total_volume"`
	TotalSplits  int64     `gorm:"column:total_splits"`
	FeeRateBps   int64     `gorm:"column:fee_rate_bps"`
	FeeRecipient string    `gorm:"column:fee_recipient"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (engineStatsModel) TableName() string {
	return "engine_stats"
}

type splitOutboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (splitOutboxModel) TableName() string {
	return "split_outbox"
}

func marshalEnvelope(envelope ports.EventEnvelope) ([]byte, error) {
	return json.Marshal(envelope)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.Repository = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
