package memory

import (
	"context"
	"strings"
	"sync"

	"prism/contexts/finance-core/split-engine/ports"
)

// Treasury is an in-process stand-in for the host ledger's value-transfer
// capability. Accounts that are marked refusing model recipients who cannot
// accept funds; a refused transfer is an ordinary outcome, not an error.
type Treasury struct {
	mu       sync.Mutex
	balances map[string]int64
	refusing map[string]bool
}

func NewTreasury() *Treasury {
	return &Treasury{
		balances: make(map[string]int64),
		refusing: make(map[string]bool),
	}
}

// Credit seeds an account balance. Test and bootstrap helper.
func (t *Treasury) Credit(account string, amount int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.balances[strings.TrimSpace(account)] += amount
}

// SetRefusing toggles whether an account refuses incoming transfers.
func (t *Treasury) SetRefusing(account string, refusing bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refusing[strings.TrimSpace(account)] = refusing
}

func (t *Treasury) Balance(_ context.Context, account string) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.balances[strings.TrimSpace(account)], nil
}

func (t *Treasury) Transfer(_ context.Context, from string, to string, amount int64) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	source := strings.TrimSpace(from)
	target := strings.TrimSpace(to)
	if amount <= 0 || source == "" || target == "" {
		return false, nil
	}
	if t.balances[source] < amount || t.refusing[target] {
		return false, nil
	}
	t.balances[source] -= amount
	t.balances[target] += amount
	return true, nil
}

var _ ports.Treasury = (*Treasury)(nil)
