// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/meridianchain/meridian/meridian"
)

// MemLedger is the in-memory Ledger used by dev mode and tests.
type MemLedger struct {
	mu       sync.Mutex
	balances map[meridian.Address]*big.Int
}

var _ Ledger = (*MemLedger)(nil)

// NewMem creates a ledger prefunded with the given balances.
func NewMem(prefund map[meridian.Address]*big.Int) *MemLedger {
	balances := make(map[meridian.Address]*big.Int, len(prefund))
	for addr, amount := range prefund {
		balances[addr] = new(big.Int).Set(amount)
	}
	return &MemLedger{balances: balances}
}

func (l *MemLedger) Credit(account meridian.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := l.balances[account]
	if !ok {
		balance = new(big.Int)
		l.balances[account] = balance
	}
	balance.Add(balance, amount)
	return nil
}

func (l *MemLedger) Debit(account meridian.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := l.balances[account]
	if !ok || balance.Cmp(amount) < 0 {
		return errors.Errorf("insufficient balance: account %v has %v, needs %v",
			account, l.balanceOfLocked(account), amount)
	}
	balance.Sub(balance, amount)
	return nil
}

func (l *MemLedger) BalanceOf(account meridian.Address) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balanceOfLocked(account)
}

func (l *MemLedger) balanceOfLocked(account meridian.Address) *big.Int {
	balance, ok := l.balances[account]
	if !ok {
		return new(big.Int)
	}
	return new(big.Int).Set(balance)
}

// Snapshot returns all balances, copied.
func (l *MemLedger) Snapshot() map[meridian.Address]*big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[meridian.Address]*big.Int, len(l.balances))
	for addr, balance := range l.balances {
		out[addr] = new(big.Int).Set(balance)
	}
	return out
}
