// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package store persists protocol state snapshots so a node restart
// restores balances, subnets, validators and votes.
package store

import (
	"encoding/json"
	"math/big"
	"sort"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/staking"
)

var stateKey = []byte("meridian-state")

// AccountBalance is one ledger account balance, for serialization.
type AccountBalance struct {
	Account meridian.Address `json:"account"`
	Balance *big.Int         `json:"balance"`
}

// State is everything a node needs to resume after a restart.
type State struct {
	Staking  *staking.Snapshot `json:"staking"`
	Balances []AccountBalance  `json:"balances"`
}

// Store is a leveldb backed snapshot store.
type Store struct {
	db *leveldb.DB
}

// Open opens the store at path, creating it if absent.
func Open(path string) (*Store, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "open state store")
	}
	db, err := leveldb.Open(stg, &opt.Options{})
	if err != nil {
		stg.Close()
		return nil, errors.Wrap(err, "open state store")
	}
	return &Store{db: db}, nil
}

// OpenMem opens an in-memory store, for tests.
func OpenMem() (*Store, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), &opt.Options{})
	if err != nil {
		return nil, errors.Wrap(err, "open mem state store")
	}
	return &Store{db: db}, nil
}

// SaveState writes the state, replacing any previous one.
func (s *Store) SaveState(state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "marshal state")
	}
	return errors.Wrap(s.db.Put(stateKey, data, nil), "save state")
}

// LoadState reads the last saved state. It returns nil when the store
// holds no state yet.
func (s *Store) LoadState() (*State, error) {
	data, err := s.db.Get(stateKey, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "load state")
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errors.Wrap(err, "unmarshal state")
	}
	return &state, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// BalancesOf flattens a ledger snapshot into sorted serializable pairs.
func BalancesOf(balances map[meridian.Address]*big.Int) []AccountBalance {
	out := make([]AccountBalance, 0, len(balances))
	for account, balance := range balances {
		out = append(out, AccountBalance{account, balance})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Account.String() < out[j].Account.String()
	})
	return out
}

// BalanceMap is the inverse of BalancesOf.
func BalanceMap(balances []AccountBalance) map[meridian.Address]*big.Int {
	out := make(map[meridian.Address]*big.Int, len(balances))
	for _, entry := range balances {
		out[entry.Account] = entry.Balance
	}
	return out
}
