// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stakes holds the arithmetic substrate shared by the staking
// services: non-negative stake amounts and the own+delegated weight rule.
package stakes

import (
	"math/big"

	"github.com/pkg/errors"
)

// Stake couples a validator's own stake with the total amount delegated to it.
type Stake struct {
	Own       *big.Int
	Delegated *big.Int
}

func New() *Stake {
	return &Stake{
		Own:       new(big.Int),
		Delegated: new(big.Int),
	}
}

// Weight is the vote weight derived from the stake: own + delegated.
func (s *Stake) Weight() *big.Int {
	return new(big.Int).Add(s.Own, s.Delegated)
}

// Sum returns a fresh big.Int holding a+b.
func Sum(a, b *big.Int) *big.Int {
	return new(big.Int).Add(a, b)
}

// SafeSub returns a-b, failing instead of going negative. Stake amounts are
// unsigned quantities; an underflow is always a bookkeeping bug or a
// precondition the caller forgot to check.
func SafeSub(a, b *big.Int) (*big.Int, error) {
	if a.Cmp(b) < 0 {
		return nil, errors.Errorf("stake underflow: %v < %v", a, b)
	}
	return new(big.Int).Sub(a, b), nil
}

// IsPositive reports whether amount is strictly greater than zero.
func IsPositive(amount *big.Int) bool {
	return amount != nil && amount.Sign() > 0
}
