// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package validation owns the validator records and their lifecycle.
package validation

import (
	"math/big"

	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/staking/stakes"
)

// Validator is the single live record kept per address.
//
// Lifecycle per record: NonValidator -> Active -> Inactive, terminal. A
// rejoin does not resurrect the old record; it overwrites it with a fresh
// one (the source's single-mapping design), silently discarding the previous
// record's history including its delegated amount.
type Validator struct {
	Address  meridian.Address
	Stake    *stakes.Stake
	Active   bool
	JoinedAt uint64
	SubnetID uint64
}

// Copy returns a detached copy of the record.
func (v *Validator) Copy() *Validator {
	return &Validator{
		Address: v.Address,
		Stake: &stakes.Stake{
			Own:       new(big.Int).Set(v.Stake.Own),
			Delegated: new(big.Int).Set(v.Stake.Delegated),
		},
		Active:   v.Active,
		JoinedAt: v.JoinedAt,
		SubnetID: v.SubnetID,
	}
}
