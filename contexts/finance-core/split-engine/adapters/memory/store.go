package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"prism/contexts/finance-core/split-engine/domain/entities"
	domainerrors "prism/contexts/finance-core/split-engine/domain/errors"
	"prism/contexts/finance-core/split-engine/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
	PublishedAt  *time.Time
}

// Store keeps every engine table behind one mutex, so each repository call
// is a single serializable step the way the host ledger would run it.
type Store struct {
	mu sync.RWMutex

	splits            map[int64]entities.SplitConfig
	shares            map[int64][]entities.RecipientShare
	payments          map[int64]entities.PaymentRecord
	recipientPayments map[string]entities.RecipientPaymentRecord
	earnings          map[string]entities.UserEarnings
	pending           map[string]entities.PendingBalance
	stats             entities.EngineStats
	nextPaymentID     int64
	outbox            map[string]outboxRecord
}

func NewStore(feeRateBps int64, feeRecipient string) *Store {
	return &Store{
		splits:            make(map[int64]entities.SplitConfig),
		shares:            make(map[int64][]entities.RecipientShare),
		payments:          make(map[int64]entities.PaymentRecord),
		recipientPayments: make(map[string]entities.RecipientPaymentRecord),
		earnings:          make(map[string]entities.UserEarnings),
		pending:           make(map[string]entities.PendingBalance),
		stats: entities.EngineStats{
			FeeRateBps:   feeRateBps,
			FeeRecipient: strings.TrimSpace(feeRecipient),
		},
		nextPaymentID: 1,
		outbox:        make(map[string]outboxRecord),
	}
}

func (s *Store) CreateSplit(_ context.Context, cfg entities.SplitConfig, shares []entities.RecipientShare) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.splits[cfg.AssetID]; exists {
		return domainerrors.ErrSplitAlreadyExists
	}
	s.splits[cfg.AssetID] = cfg
	s.shares[cfg.AssetID] = append([]entities.RecipientShare(nil), shares...)
	s.stats.TotalSplits++
	return nil
}

func (s *Store) ReplaceSplit(_ context.Context, cfg entities.SplitConfig, shares []entities.RecipientShare) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.splits[cfg.AssetID]; !exists {
		return domainerrors.ErrSplitNotFound
	}
	s.splits[cfg.AssetID] = cfg
	s.shares[cfg.AssetID] = append([]entities.RecipientShare(nil), shares...)
	return nil
}

func (s *Store) DisableSplit(_ context.Context, assetID int64, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, exists := s.splits[assetID]
	if !exists {
		return domainerrors.ErrSplitNotFound
	}
	cfg.Active = false
	cfg.UpdatedAt = updatedAt.UTC()
	s.splits[assetID] = cfg
	return nil
}

func (s *Store) GetSplit(_ context.Context, assetID int64) (entities.SplitConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, exists := s.splits[assetID]
	if !exists {
		return entities.SplitConfig{}, domainerrors.ErrSplitNotFound
	}
	return cfg, nil
}

func (s *Store) GetRecipientShare(_ context.Context, assetID int64, index int) (entities.RecipientShare, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shares, exists := s.shares[assetID]
	if !exists || index < 0 || index >= len(shares) {
		return entities.RecipientShare{}, domainerrors.ErrSplitNotFound
	}
	return shares[index], nil
}

func (s *Store) ListRecipientShares(_ context.Context, assetID int64) ([]entities.RecipientShare, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shares, exists := s.shares[assetID]
	if !exists {
		return nil, domainerrors.ErrSplitNotFound
	}
	return append([]entities.RecipientShare(nil), shares...), nil
}

func (s *Store) CommitPayout(_ context.Context, ledger ports.PayoutLedger) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	paymentID := s.nextPaymentID
	s.nextPaymentID++

	payment := ledger.Payment
	payment.PaymentID = paymentID
	s.payments[paymentID] = payment

	for _, row := range ledger.RecipientPayments {
		row.PaymentID = paymentID
		s.recipientPayments[recipientPaymentKey(paymentID, row.Index)] = row
	}
	for _, credit := range ledger.EarningsCredits {
		account := s.earnings[credit.UserID]
		account.UserID = credit.UserID
		account.TotalReceived += credit.Amount
		account.PaymentCount++
		account.LastPaymentAt = credit.PaidAt.UTC()
		s.earnings[credit.UserID] = account
	}
	for _, credit := range ledger.PendingCredits {
		balance := s.pending[credit.UserID]
		balance.UserID = credit.UserID
		balance.Amount += credit.Amount
		balance.UpdatedAt = payment.PaidAt
		s.pending[credit.UserID] = balance
	}
	s.stats.TotalPayouts++
	s.stats.TotalVolume += payment.Amount
	s.stats.UpdatedAt = payment.PaidAt
	return paymentID, nil
}

func (s *Store) GetPayment(_ context.Context, paymentID int64) (entities.PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payment, exists := s.payments[paymentID]
	if !exists {
		return entities.PaymentRecord{}, domainerrors.ErrPaymentNotFound
	}
	return payment, nil
}

func (s *Store) GetRecipientPayment(_ context.Context, paymentID int64, index int) (entities.RecipientPaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, exists := s.recipientPayments[recipientPaymentKey(paymentID, index)]
	if !exists {
		return entities.RecipientPaymentRecord{}, domainerrors.ErrPaymentNotFound
	}
	return row, nil
}

func (s *Store) GetEarnings(_ context.Context, userID string) (entities.UserEarnings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, exists := s.earnings[strings.TrimSpace(userID)]
	if !exists {
		return entities.UserEarnings{UserID: strings.TrimSpace(userID)}, nil
	}
	return account, nil
}

func (s *Store) GetPendingBalance(_ context.Context, userID string) (entities.PendingBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	balance, exists := s.pending[strings.TrimSpace(userID)]
	if !exists {
		return entities.PendingBalance{UserID: strings.TrimSpace(userID)}, nil
	}
	return balance, nil
}

func (s *Store) ClearPendingBalance(_ context.Context, userID string, expected int64, clearedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(userID)
	balance, exists := s.pending[key]
	if !exists || balance.Amount < expected {
		return domainerrors.ErrZeroAmount
	}
	balance.Amount -= expected
	balance.UpdatedAt = clearedAt.UTC()
	if balance.Amount == 0 {
		delete(s.pending, key)
		return nil
	}
	s.pending[key] = balance
	return nil
}

func (s *Store) RestorePendingBalance(_ context.Context, userID string, amount int64, restoredAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(userID)
	balance, exists := s.pending[key]
	if !exists {
		balance = entities.PendingBalance{UserID: key}
	}
	balance.Amount += amount
	balance.UpdatedAt = restoredAt.UTC()
	s.pending[key] = balance
	return nil
}

func (s *Store) GetStats(_ context.Context) (entities.EngineStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.stats, nil
}

func (s *Store) SetFeeRate(_ context.Context, bps int64, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.FeeRateBps = bps
	s.stats.UpdatedAt = updatedAt.UTC()
	return nil
}

func (s *Store) SetFeeRecipient(_ context.Context, recipient string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.FeeRecipient = strings.TrimSpace(recipient)
	s.stats.UpdatedAt = updatedAt.UTC()
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if _, exists := s.outbox[outboxID]; exists {
		return nil
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.outbox[outboxID] = outboxRecord{
		OutboxID:     outboxID,
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	rows := make([]outboxRecord, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.PublishedAt == nil {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})
	if len(rows) > limit {
		rows = rows[:limit]
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

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, exists := s.outbox[strings.TrimSpace(outboxID)]
	if !exists {
		return domainerrors.ErrPaymentNotFound
	}
	timestamp := publishedAt.UTC()
	row.PublishedAt = &timestamp
	s.outbox[outboxID] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func recipientPaymentKey(paymentID int64, index int) string {
	return strconv.FormatInt(paymentID, 10) + "|" + strconv.Itoa(index)
}

var _ ports.Repository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
var _ ports.OutboxWriter = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
