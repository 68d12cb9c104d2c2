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

// CreateSubnet allocates the next subnet id and installs the caller as the
// subnet's first validator, staking the full payment. The fresh subnet
// starts at zero validators, so the creator's join is what establishes it;
// no floor check applies to joins.
func (s *Staking) CreateSubnet(caller meridian.Address, name string, minValidators uint64, payment *big.Int) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return 0, reverts.InvalidAmount("subnet name must not be empty")
	}
	if minValidators == 0 {
		return 0, reverts.InvalidAmount("minimum validators must be greater than 0")
	}
	if err := s.checkJoinStake(payment); err != nil {
		return 0, err
	}
	if s.validations.IsActive(caller) {
		return 0, reverts.AlreadyExists("account %v is already an active validator", caller)
	}
	if err := s.collectPayment(caller, payment); err != nil {
		return 0, err
	}

	// validated above, cannot fail past this point
	id, err := s.subnets.Create(name, minValidators, caller, s.now())
	if err != nil {
		return 0, err
	}
	s.registerJoin(caller, payment, id)

	zap.S().Infow("subnet created",
		"pkg", "staking", "subnet", id, "name", name, "creator", caller, "stake", payment)
	return id, nil
}

// JoinSubnet stakes the full payment and adds the caller to the subnet's
// validator set.
func (s *Staking) JoinSubnet(caller meridian.Address, subnetID uint64, payment *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkJoinStake(payment); err != nil {
		return err
	}
	if s.validations.IsActive(caller) {
		return reverts.AlreadyExists("account %v is already an active validator", caller)
	}
	if err := s.subnets.IsJoinable(subnetID); err != nil {
		return err
	}
	if err := s.collectPayment(caller, payment); err != nil {
		return err
	}

	s.registerJoin(caller, payment, subnetID)

	zap.S().Infow("validator joined",
		"pkg", "staking", "subnet", subnetID, "validator", caller, "stake", payment)
	return nil
}

// LeaveValidatorSet deactivates the caller's validator record, releases its
// own stake from the global total and credits the stake back. The subnet
// floor is strict: leaving at or below MinValidators reverts with zero state
// change. The caller's delegated amount stays recorded against the
// now-inactive record; delegators withdraw it separately.
func (s *Staking) LeaveValidatorSet(caller meridian.Address) error {
	ownStake, err := s.leave(caller)
	if err != nil {
		return err
	}
	// External credit strictly after all internal bookkeeping, outside the
	// lock: the callee may call back into the protocol and must observe
	// settled state.
	return s.payOut(caller, ownStake)
}

func (s *Staking) leave(caller meridian.Address) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.validations.Get(caller)
	if rec == nil || !rec.Active {
		return nil, reverts.UnknownEntity("account %v is not an active validator", caller)
	}
	if err := s.subnets.RegisterLeave(rec.SubnetID); err != nil {
		return nil, err
	}

	ownStake := new(big.Int).Set(rec.Stake.Own)
	s.validations.SetInactive(caller)
	if err := s.globalStats.Sub(ownStake); err != nil {
		return nil, err
	}

	metricLeaves().Add(1)
	s.updateTotalStakedMetric()
	zap.S().Infow("validator left",
		"pkg", "staking", "subnet", rec.SubnetID, "validator", caller, "stake", ownStake)
	return ownStake, nil
}

// checkJoinStake enforces the network minimum on a payable join.
func (s *Staking) checkJoinStake(payment *big.Int) error {
	if !stakes.IsPositive(payment) {
		return reverts.InvalidAmount("stake must be greater than 0")
	}
	if payment.Cmp(s.minStake) < 0 {
		return reverts.InvalidAmount("stake %v is below the network minimum %v", payment, s.minStake)
	}
	return nil
}

// registerJoin applies the join effects. Preconditions are the caller's
// duty; nothing here can fail.
func (s *Staking) registerJoin(caller meridian.Address, payment *big.Int, subnetID uint64) {
	s.validations.Join(caller, payment, subnetID, s.now())
	// IsJoinable was checked, the join itself cannot revert
	_ = s.subnets.RegisterJoin(subnetID)
	s.globalStats.Add(payment)

	metricJoins().Add(1)
	s.updateTotalStakedMetric()
}
