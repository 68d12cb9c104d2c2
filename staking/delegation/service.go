// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package delegation tracks per-delegator aggregate delegation totals.
//
// The model intentionally keeps a single total per delegator rather than a
// per-(delegator, validator) breakdown; withdrawal resolution against a
// specific validator is handled by the staking facade, which also checks the
// validator-side delegated amount.
package delegation

import (
	"math/big"

	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/staking/reverts"
	"github.com/meridianchain/meridian/staking/stakes"
)

// Service owns the delegator-side delegation numbers.
type Service struct {
	totals map[meridian.Address]*big.Int
}

func New() *Service {
	return &Service{
		totals: make(map[meridian.Address]*big.Int),
	}
}

// Total returns a copy of the delegator's aggregate delegated amount.
func (s *Service) Total(delegator meridian.Address) *big.Int {
	total, ok := s.totals[delegator]
	if !ok {
		return new(big.Int)
	}
	return new(big.Int).Set(total)
}

// Add increases the delegator's aggregate delegation.
func (s *Service) Add(delegator meridian.Address, amount *big.Int) {
	total, ok := s.totals[delegator]
	if !ok {
		total = new(big.Int)
		s.totals[delegator] = total
	}
	total.Add(total, amount)
}

// Sub decreases the delegator's aggregate delegation, failing with
// InsufficientDelegation when the aggregate does not cover amount.
func (s *Service) Sub(delegator meridian.Address, amount *big.Int) error {
	total, ok := s.totals[delegator]
	if !ok || total.Cmp(amount) < 0 {
		return reverts.InsufficientDelegation("delegator %v has %v delegated, tried to withdraw %v",
			delegator, s.Total(delegator), amount)
	}
	next, err := stakes.SafeSub(total, amount)
	if err != nil {
		return err
	}
	s.totals[delegator] = next
	return nil
}

// Snapshot returns all delegator totals keyed by address, copied.
func (s *Service) Snapshot() map[meridian.Address]*big.Int {
	out := make(map[meridian.Address]*big.Int, len(s.totals))
	for addr, total := range s.totals {
		out[addr] = new(big.Int).Set(total)
	}
	return out
}

// Restore replaces the service state with the given totals.
func (s *Service) Restore(totals map[meridian.Address]*big.Int) {
	s.totals = make(map[meridian.Address]*big.Int, len(totals))
	for addr, total := range totals {
		s.totals[addr] = new(big.Int).Set(total)
	}
}
