// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validation

import (
	"math/big"

	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/staking/reverts"
	"github.com/meridianchain/meridian/staking/stakes"
)

// Service owns the validator table and the join roster.
type Service struct {
	records map[meridian.Address]*Validator
	roster  []meridian.Address
}

func New() *Service {
	return &Service{
		records: make(map[meridian.Address]*Validator),
	}
}

// Get returns the live record for addr, nil when the address has never
// joined. Inactive records are returned too: weight lookups and delegation
// withdrawals still resolve against them.
func (s *Service) Get(addr meridian.Address) *Validator {
	return s.records[addr]
}

// Info returns a detached copy of the record, nil when absent.
func (s *Service) Info(addr meridian.Address) *Validator {
	rec, ok := s.records[addr]
	if !ok {
		return nil
	}
	return rec.Copy()
}

// IsActive reports whether addr is currently an active validator.
func (s *Service) IsActive(addr meridian.Address) bool {
	rec, ok := s.records[addr]
	return ok && rec.Active
}

// Join creates the validator record for addr, overwriting any previous one
// (delegated amount restarts at zero), and appends addr to the roster.
func (s *Service) Join(addr meridian.Address, stake *big.Int, subnetID uint64, now uint64) *Validator {
	rec := &Validator{
		Address: addr,
		Stake: &stakes.Stake{
			Own:       new(big.Int).Set(stake),
			Delegated: new(big.Int),
		},
		Active:   true,
		JoinedAt: now,
		SubnetID: subnetID,
	}
	s.records[addr] = rec
	s.roster = append(s.roster, addr)
	return rec
}

// SetInactive marks the record inactive. Stake fields are kept as-is; only
// the active flag flips.
func (s *Service) SetInactive(addr meridian.Address) {
	if rec, ok := s.records[addr]; ok {
		rec.Active = false
	}
}

// AddDelegated increases the validator-side delegated amount.
func (s *Service) AddDelegated(addr meridian.Address, amount *big.Int) error {
	rec, ok := s.records[addr]
	if !ok {
		return reverts.UnknownEntity("validator %v not found", addr)
	}
	rec.Stake.Delegated.Add(rec.Stake.Delegated, amount)
	return nil
}

// SubDelegated decreases the validator-side delegated amount, failing with
// InsufficientDelegation when it does not cover amount. The record may be
// inactive; withdrawals against inactive validators are allowed.
func (s *Service) SubDelegated(addr meridian.Address, amount *big.Int) error {
	rec, ok := s.records[addr]
	if !ok {
		return reverts.UnknownEntity("validator %v not found", addr)
	}
	if rec.Stake.Delegated.Cmp(amount) < 0 {
		return reverts.InsufficientDelegation("validator %v holds %v delegated, tried to remove %v",
			addr, rec.Stake.Delegated, amount)
	}
	rec.Stake.Delegated.Sub(rec.Stake.Delegated, amount)
	return nil
}

// RosterLen is the number of join events recorded. Rejoins append again, so
// this counts joins, not distinct validators.
func (s *Service) RosterLen() int {
	return len(s.roster)
}

// Roster returns the join roster in order.
func (s *Service) Roster() []meridian.Address {
	out := make([]meridian.Address, len(s.roster))
	copy(out, s.roster)
	return out
}

// Iterate walks all live records; the callback receives live pointers and
// must not retain them.
func (s *Service) Iterate(callback func(*Validator) error) error {
	for _, rec := range s.records {
		if err := callback(rec); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot returns detached copies of all records plus the roster.
func (s *Service) Snapshot() ([]*Validator, []meridian.Address) {
	records := make([]*Validator, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec.Copy())
	}
	return records, s.Roster()
}

// Restore replaces the service state with the given records and roster.
func (s *Service) Restore(records []*Validator, roster []meridian.Address) {
	s.records = make(map[meridian.Address]*Validator, len(records))
	for _, rec := range records {
		s.records[rec.Address] = rec.Copy()
	}
	s.roster = make([]meridian.Address, len(roster))
	copy(s.roster, roster)
}
