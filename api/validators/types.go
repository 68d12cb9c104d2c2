// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validators

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/staking/validation"
)

// Validator is the API shape of a validator record. Weight is the vote
// weight, own stake plus delegated stake.
type Validator struct {
	Address   meridian.Address      `json:"address"`
	Active    bool                  `json:"active"`
	JoinedAt  uint64                `json:"joinedAt"`
	SubnetID  uint64                `json:"subnetId"`
	Stake     *math.HexOrDecimal256 `json:"stake"`
	Delegated *math.HexOrDecimal256 `json:"delegated"`
	Weight    *math.HexOrDecimal256 `json:"weight"`
}

func convertValidator(v *validation.Validator) *Validator {
	return &Validator{
		Address:   v.Address,
		Active:    v.Active,
		JoinedAt:  v.JoinedAt,
		SubnetID:  v.SubnetID,
		Stake:     (*math.HexOrDecimal256)(v.Stake.Own),
		Delegated: (*math.HexOrDecimal256)(v.Stake.Delegated),
		Weight:    (*math.HexOrDecimal256)(v.Stake.Weight()),
	}
}

// LeaveRequest removes the caller from the active validator set and refunds
// its own stake.
type LeaveRequest struct {
	Caller meridian.Address `json:"caller"`
}

// DelegateRequest stakes Payment from the caller onto a validator.
type DelegateRequest struct {
	Caller  meridian.Address      `json:"caller"`
	Payment *math.HexOrDecimal256 `json:"payment"`
}

// WithdrawRequest returns Amount of the caller's delegation on a validator.
type WithdrawRequest struct {
	Caller meridian.Address      `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}
