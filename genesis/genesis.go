// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis loads the network's initial parameters and balances.
package genesis

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/meridianchain/meridian/ledger"
	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/staking"
)

// Genesis is the YAML-encoded network definition. Amounts are decimal
// strings so arbitrarily large balances survive the trip.
type Genesis struct {
	Owner              string            `yaml:"owner"`
	MinStake           string            `yaml:"minStake"`
	ConsensusThreshold uint64            `yaml:"consensusThreshold"`
	Alloc              map[string]string `yaml:"alloc"`
}

// Load reads a genesis file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	var gene Genesis
	if err := yaml.Unmarshal(data, &gene); err != nil {
		return nil, errors.Wrap(err, "parse genesis file")
	}
	return &gene, nil
}

// Dev is the built-in development network: a fixed owner and a handful of
// generously funded accounts.
func Dev() *Genesis {
	return &Genesis{
		Owner:              meridian.BytesToAddress([]byte("dev-owner")).String(),
		MinStake:           "1",
		ConsensusThreshold: 67,
		Alloc: map[string]string{
			meridian.BytesToAddress([]byte("dev-account-1")).String(): "1000000",
			meridian.BytesToAddress([]byte("dev-account-2")).String(): "1000000",
			meridian.BytesToAddress([]byte("dev-account-3")).String(): "1000000",
		},
	}
}

// Build turns the genesis into protocol params and a prefunded ledger.
func (g *Genesis) Build() (staking.Params, *ledger.MemLedger, error) {
	owner, err := meridian.ParseAddress(g.Owner)
	if err != nil {
		return staking.Params{}, nil, errors.Wrap(err, "owner")
	}
	minStake, err := parseAmount(g.MinStake)
	if err != nil {
		return staking.Params{}, nil, errors.Wrap(err, "minStake")
	}

	alloc := make(map[meridian.Address]*big.Int, len(g.Alloc))
	for addrStr, amountStr := range g.Alloc {
		addr, err := meridian.ParseAddress(addrStr)
		if err != nil {
			return staking.Params{}, nil, errors.Wrapf(err, "alloc %q", addrStr)
		}
		amount, err := parseAmount(amountStr)
		if err != nil {
			return staking.Params{}, nil, errors.Wrapf(err, "alloc %q", addrStr)
		}
		alloc[*addr] = amount
	}

	params := staking.Params{
		Owner:              *owner,
		MinStake:           minStake,
		ConsensusThreshold: g.ConsensusThreshold,
	}
	return params, ledger.NewMem(alloc), nil
}

func parseAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok || amount.Sign() < 0 {
		return nil, errors.Errorf("invalid amount %q", s)
	}
	return amount, nil
}
