// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"sort"

	"github.com/meridianchain/meridian/consensus"
	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/staking/validation"
	"github.com/meridianchain/meridian/subnet"
)

// DelegatorTotal is one delegator's aggregate delegation, for serialization.
type DelegatorTotal struct {
	Delegator meridian.Address `json:"delegator"`
	Total     *big.Int         `json:"total"`
}

// Snapshot is the full protocol state in serializable form.
type Snapshot struct {
	MinStake    *big.Int                   `json:"minStake"`
	Threshold   uint64                     `json:"threshold"`
	TotalStaked *big.Int                   `json:"totalStaked"`
	Validators  []*validation.Validator    `json:"validators"`
	Roster      []meridian.Address         `json:"roster"`
	Subnets     []*subnet.Subnet           `json:"subnets"`
	Delegations []DelegatorTotal           `json:"delegations"`
	Proposals   []*consensus.ProposalState `json:"proposals"`
}

// Snapshot captures the full protocol state.
func (s *Staking) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	validators, roster := s.validations.Snapshot()

	delegations := make([]DelegatorTotal, 0)
	for delegator, total := range s.delegations.Snapshot() {
		delegations = append(delegations, DelegatorTotal{delegator, total})
	}
	sort.Slice(delegations, func(i, j int) bool {
		return delegations[i].Delegator.String() < delegations[j].Delegator.String()
	})

	return &Snapshot{
		MinStake:    new(big.Int).Set(s.minStake),
		Threshold:   s.engine.Threshold(),
		TotalStaked: s.globalStats.TotalStaked(),
		Validators:  validators,
		Roster:      roster,
		Subnets:     s.subnets.Snapshot(),
		Delegations: delegations,
		Proposals:   s.engine.Snapshot(),
	}
}

// Restore replaces the full protocol state with the snapshot's.
func (s *Staking) Restore(snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.SetThreshold(snap.Threshold); err != nil {
		return err
	}
	s.minStake = new(big.Int).Set(snap.MinStake)

	s.validations.Restore(snap.Validators, snap.Roster)
	s.subnets.Restore(snap.Subnets)

	totals := make(map[meridian.Address]*big.Int, len(snap.Delegations))
	for _, entry := range snap.Delegations {
		totals[entry.Delegator] = entry.Total
	}
	s.delegations.Restore(totals)

	s.globalStats.Restore(snap.TotalStaked)

	s.engine.Restore(snap.Proposals)
	s.updateTotalStakedMetric()
	return nil
}
