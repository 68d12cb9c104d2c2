// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package globalstats manages the network-wide staking totals.
package globalstats

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/meridianchain/meridian/staking/stakes"
)

// Service owns totalStaked: the sum of all active validators' own stake plus
// all recorded delegated amounts. Every mutating staking operation settles
// its delta here before any external transfer happens.
type Service struct {
	totalStaked *big.Int
}

func New() *Service {
	return &Service{
		totalStaked: new(big.Int),
	}
}

// TotalStaked returns a copy of the current global total.
func (s *Service) TotalStaked() *big.Int {
	return new(big.Int).Set(s.totalStaked)
}

// Add increases the global total by amount.
func (s *Service) Add(amount *big.Int) {
	s.totalStaked.Add(s.totalStaked, amount)
}

// Restore replaces the total with the given value.
func (s *Service) Restore(total *big.Int) {
	s.totalStaked = new(big.Int).Set(total)
}

// Sub decreases the global total by amount. The total can never go negative;
// callers are expected to have validated the corresponding per-account
// amounts first.
func (s *Service) Sub(amount *big.Int) error {
	next, err := stakes.SafeSub(s.totalStaked, amount)
	if err != nil {
		return errors.Wrap(err, "total staked")
	}
	s.totalStaked = next
	return nil
}
