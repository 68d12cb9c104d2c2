// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger abstracts account balance transfers. The staking protocol
// only ever credits and debits through this interface; whatever settles the
// funds (a chain, a bank, a test double) lives behind it.
package ledger

import (
	"math/big"

	"github.com/meridianchain/meridian/meridian"
)

// Ledger moves value between accounts.
//
// Credit may call arbitrary external code. Protocol components must finish
// all internal bookkeeping before crediting; a callee invoking back into the
// protocol has to observe fully settled state.
type Ledger interface {
	// Credit adds amount to the account's balance.
	Credit(account meridian.Address, amount *big.Int) error
	// Debit removes amount from the account's balance, failing when the
	// balance does not cover it.
	Debit(account meridian.Address, amount *big.Int) error
	// BalanceOf returns the account's current balance.
	BalanceOf(account meridian.Address) *big.Int
}
