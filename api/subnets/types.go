// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subnets

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/subnet"
)

// Subnet is the API shape of a subnet record.
type Subnet struct {
	ID             uint64           `json:"id"`
	Name           string           `json:"name"`
	Creator        meridian.Address `json:"creator"`
	Active         bool             `json:"active"`
	CreatedAt      uint64           `json:"createdAt"`
	MinValidators  uint64           `json:"minValidators"`
	ValidatorCount uint64           `json:"validatorCount"`
}

func convertSubnet(s *subnet.Subnet) *Subnet {
	return &Subnet{
		ID:             s.ID,
		Name:           s.Name,
		Creator:        s.Creator,
		Active:         s.Active,
		CreatedAt:      s.CreatedAt,
		MinValidators:  s.MinValidators,
		ValidatorCount: s.ValidatorCount,
	}
}

// CreateRequest registers the caller as the first validator of a new subnet,
// staking Payment.
type CreateRequest struct {
	Caller        meridian.Address      `json:"caller"`
	Name          string                `json:"name"`
	MinValidators uint64                `json:"minValidators"`
	Payment       *math.HexOrDecimal256 `json:"payment"`
}

// CreateResponse carries the id of the freshly created subnet.
type CreateResponse struct {
	ID uint64 `json:"id"`
}

// JoinRequest registers the caller as a validator of an existing subnet.
type JoinRequest struct {
	Caller  meridian.Address      `json:"caller"`
	Payment *math.HexOrDecimal256 `json:"payment"`
}

// PauseRequest deactivates a subnet. Owner only.
type PauseRequest struct {
	Caller meridian.Address `json:"caller"`
}
