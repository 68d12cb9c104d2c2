// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package subnet owns the subnet records and enforces validator-count floors.
package subnet

import (
	"math/big"

	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/staking/reverts"
)

// Subnet is a named validator group with a minimum-validator floor.
type Subnet struct {
	ID             uint64
	Name           string
	Creator        meridian.Address
	Active         bool
	CreatedAt      uint64
	MinValidators  uint64
	ValidatorCount uint64
}

// Copy returns a detached copy of the record.
func (s *Subnet) Copy() *Subnet {
	c := *s
	return &c
}

// Manager owns the subnet table. Ids are allocated sequentially starting at
// 1; id 0 is the "does not exist" sentinel and ids are never reused, even
// after deactivation.
type Manager struct {
	subnets map[uint64]*Subnet
	ids     []uint64
	nextID  uint64
}

func NewManager() *Manager {
	return &Manager{
		subnets: make(map[uint64]*Subnet),
		nextID:  1,
	}
}

// Create allocates the next id and stores the new subnet record.
func (m *Manager) Create(name string, minValidators uint64, creator meridian.Address, now uint64) (uint64, error) {
	if name == "" {
		return 0, reverts.InvalidAmount("subnet name must not be empty")
	}
	if minValidators == 0 {
		return 0, reverts.InvalidAmount("minimum validators must be greater than 0")
	}

	id := m.nextID
	m.nextID++
	m.subnets[id] = &Subnet{
		ID:            id,
		Name:          name,
		Creator:       creator,
		Active:        true,
		CreatedAt:     now,
		MinValidators: minValidators,
	}
	m.ids = append(m.ids, id)
	return id, nil
}

// Get returns a detached copy of the subnet record, nil when absent.
func (m *Manager) Get(id uint64) *Subnet {
	sub, ok := m.subnets[id]
	if !ok {
		return nil
	}
	return sub.Copy()
}

// IsJoinable reports whether the subnet exists and accepts new validators.
func (m *Manager) IsJoinable(id uint64) error {
	sub, ok := m.subnets[id]
	if !ok {
		return reverts.UnknownEntity("subnet %d does not exist", id)
	}
	if !sub.Active {
		return reverts.UnknownEntity("subnet %d is not active", id)
	}
	return nil
}

// RegisterJoin increments the subnet's validator count. The subnet must
// exist and be active. There is no upper floor on joins; a fresh subnet goes
// 0 -> 1 regardless of its minimum.
func (m *Manager) RegisterJoin(id uint64) error {
	if err := m.IsJoinable(id); err != nil {
		return err
	}
	m.subnets[id].ValidatorCount++
	return nil
}

// RegisterLeave decrements the subnet's validator count. Leaving is blocked
// at or below the floor: the count must be strictly greater than
// MinValidators.
func (m *Manager) RegisterLeave(id uint64) error {
	sub, ok := m.subnets[id]
	if !ok {
		return reverts.UnknownEntity("subnet %d does not exist", id)
	}
	if sub.ValidatorCount <= sub.MinValidators {
		return reverts.BelowMinimumValidators("subnet %d has %d validators, floor is %d",
			id, sub.ValidatorCount, sub.MinValidators)
	}
	sub.ValidatorCount--
	return nil
}

// Deactivate blocks future joins into the subnet. Existing validators are
// not evicted and the count is left untouched.
func (m *Manager) Deactivate(id uint64) error {
	sub, ok := m.subnets[id]
	if !ok {
		return reverts.UnknownEntity("subnet %d does not exist", id)
	}
	sub.Active = false
	return nil
}

// IDs lists all allocated subnet ids in creation order.
func (m *Manager) IDs() []uint64 {
	out := make([]uint64, len(m.ids))
	copy(out, m.ids)
	return out
}

// TotalValidators sums the live validator counts across all subnets.
func (m *Manager) TotalValidators() *big.Int {
	total := new(big.Int)
	for _, sub := range m.subnets {
		total.Add(total, new(big.Int).SetUint64(sub.ValidatorCount))
	}
	return total
}

// Snapshot returns detached copies of all records in creation order.
func (m *Manager) Snapshot() []*Subnet {
	out := make([]*Subnet, 0, len(m.ids))
	for _, id := range m.ids {
		out = append(out, m.subnets[id].Copy())
	}
	return out
}

// Restore replaces the manager state with the given records.
func (m *Manager) Restore(records []*Subnet) {
	m.subnets = make(map[uint64]*Subnet, len(records))
	m.ids = make([]uint64, 0, len(records))
	m.nextID = 1
	for _, rec := range records {
		m.subnets[rec.ID] = rec.Copy()
		m.ids = append(m.ids, rec.ID)
		if rec.ID >= m.nextID {
			m.nextID = rec.ID + 1
		}
	}
}
