// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"go.uber.org/zap"

	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/staking/reverts"
	"github.com/meridianchain/meridian/staking/stakes"
)

// DelegateStake delegates the full payment to the validator, raising its
// vote weight for any vote cast afterwards. The validator must be active.
func (s *Staking) DelegateStake(caller, validator meridian.Address, payment *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !stakes.IsPositive(payment) {
		return reverts.InvalidAmount("delegation must be greater than 0")
	}
	rec := s.validations.Get(validator)
	if rec == nil {
		return reverts.UnknownEntity("validator %v not found", validator)
	}
	if !rec.Active {
		return reverts.UnknownEntity("validator %v is not active", validator)
	}
	if err := s.collectPayment(caller, payment); err != nil {
		return err
	}

	// validated above, cannot fail past this point
	s.delegations.Add(caller, payment)
	_ = s.validations.AddDelegated(validator, payment)
	s.globalStats.Add(payment)

	metricDelegations().Add(1)
	s.updateTotalStakedMetric()
	zap.S().Infow("stake delegated",
		"pkg", "staking", "delegator", caller, "validator", validator, "amount", payment)
	return nil
}

// WithdrawDelegation removes amount from the caller's delegation to the
// validator and credits it back. Withdrawal resolves against inactive
// validator records too: leaving the validator set does not release its
// delegations.
func (s *Staking) WithdrawDelegation(caller, validator meridian.Address, amount *big.Int) error {
	if err := s.withdraw(caller, validator, amount); err != nil {
		return err
	}
	// External credit strictly after all internal bookkeeping, outside the
	// lock: a re-entrant callee must observe the decremented state.
	return s.payOut(caller, amount)
}

func (s *Staking) withdraw(caller, validator meridian.Address, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !stakes.IsPositive(amount) {
		return reverts.InvalidAmount("withdrawal must be greater than 0")
	}
	rec := s.validations.Get(validator)
	if rec == nil {
		return reverts.UnknownEntity("validator %v not found", validator)
	}
	// both sides must cover the amount before anything is touched
	if rec.Stake.Delegated.Cmp(amount) < 0 {
		return reverts.InsufficientDelegation("validator %v holds %v delegated, tried to withdraw %v",
			validator, rec.Stake.Delegated, amount)
	}
	if err := s.delegations.Sub(caller, amount); err != nil {
		return err
	}
	_ = s.validations.SubDelegated(validator, amount)
	if err := s.globalStats.Sub(amount); err != nil {
		return err
	}

	metricWithdrawals().Add(1)
	s.updateTotalStakedMetric()
	zap.S().Infow("delegation withdrawn",
		"pkg", "staking", "delegator", caller, "validator", validator, "amount", amount)
	return nil
}
