// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking is the protocol's single state owner. It wires the
// stake-registry services, the subnet manager and the consensus engine
// behind one facade and serializes every operation: each call either
// completes fully or fails with zero state change.
package staking

import (
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/meridianchain/meridian/consensus"
	"github.com/meridianchain/meridian/ledger"
	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/metrics"
	"github.com/meridianchain/meridian/staking/delegation"
	"github.com/meridianchain/meridian/staking/globalstats"
	"github.com/meridianchain/meridian/staking/reverts"
	"github.com/meridianchain/meridian/staking/validation"
	"github.com/meridianchain/meridian/subnet"
)

var (
	metricJoins       = metrics.LazyLoadCounter("staking_validator_joins_count")
	metricLeaves      = metrics.LazyLoadCounter("staking_validator_leaves_count")
	metricDelegations = metrics.LazyLoadCounter("staking_delegations_count")
	metricWithdrawals = metrics.LazyLoadCounter("staking_delegation_withdrawals_count")
	metricTotalStaked = metrics.LazyLoadGauge("staking_total_staked")
)

// PoolAddress is the protocol's own ledger account. Payments are debited
// from callers into the pool; leaves and withdrawals pay out of it.
var PoolAddress = meridian.BytesToAddress([]byte("meridian-staking-pool"))

// Params are the genesis-time protocol parameters.
type Params struct {
	Owner              meridian.Address
	MinStake           *big.Int
	ConsensusThreshold uint64
}

// Staking is the protocol facade. A single mutex serializes all operations,
// modeling the protocol's single-writer execution environment. The one
// reentrancy hazard left is the external ledger credit, which every
// operation performs strictly after its internal bookkeeping is final.
type Staking struct {
	mu sync.Mutex

	owner    meridian.Address
	minStake *big.Int

	ledger      ledger.Ledger
	subnets     *subnet.Manager
	validations *validation.Service
	delegations *delegation.Service
	globalStats *globalstats.Service
	engine      *consensus.Engine

	now func() uint64
}

// weightSource adapts the services to consensus.WeightSource without taking
// the facade lock; the engine only runs while the lock is already held.
type weightSource struct {
	validations *validation.Service
	globalStats *globalstats.Service
}

func (w *weightSource) VoteWeightOf(account meridian.Address) *big.Int {
	rec := w.validations.Get(account)
	if rec == nil {
		return new(big.Int)
	}
	return rec.Stake.Weight()
}

func (w *weightSource) TotalStaked() *big.Int {
	return w.globalStats.TotalStaked()
}

func (w *weightSource) IsActiveValidator(account meridian.Address) bool {
	return w.validations.IsActive(account)
}

// New creates the protocol state machine on top of the given ledger.
func New(l ledger.Ledger, params Params) (*Staking, error) {
	if params.MinStake == nil || params.MinStake.Sign() <= 0 {
		return nil, reverts.InvalidAmount("minimum stake must be greater than 0")
	}
	validations := validation.New()
	globalStats := globalstats.New()

	engine, err := consensus.New(&weightSource{validations, globalStats}, params.ConsensusThreshold)
	if err != nil {
		return nil, err
	}

	return &Staking{
		owner:       params.Owner,
		minStake:    new(big.Int).Set(params.MinStake),
		ledger:      l,
		subnets:     subnet.NewManager(),
		validations: validations,
		delegations: delegation.New(),
		globalStats: globalStats,
		engine:      engine,
		now:         func() uint64 { return uint64(time.Now().Unix()) },
	}, nil
}

// SetClock overrides the timestamp source, for tests.
func (s *Staking) SetClock(now func() uint64) {
	s.now = now
}

//
// Consensus operations
//

// CastVote records the caller's vote on the proposal. The caller must be an
// active validator; the vote weight is the caller's current weight, frozen
// into the record.
func (s *Staking) CastVote(caller meridian.Address, proposalID meridian.Bytes32, value bool) (*consensus.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.CastVote(proposalID, caller, value, s.now())
}

// UpdateConsensusThreshold is owner-privileged; 50 < newThreshold <= 100.
func (s *Staking) UpdateConsensusThreshold(caller meridian.Address, newThreshold uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if caller != s.owner {
		return reverts.Unauthorized("caller %v is not the owner", caller)
	}
	if err := s.engine.SetThreshold(newThreshold); err != nil {
		return err
	}
	zap.S().Infow("consensus threshold updated", "pkg", "staking", "threshold", newThreshold)
	return nil
}

//
// Owner operations
//

// UpdateMinStake is owner-privileged; the new minimum must be positive.
func (s *Staking) UpdateMinStake(caller meridian.Address, newMin *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if caller != s.owner {
		return reverts.Unauthorized("caller %v is not the owner", caller)
	}
	if newMin == nil || newMin.Sign() <= 0 {
		return reverts.InvalidAmount("minimum stake must be greater than 0")
	}
	s.minStake = new(big.Int).Set(newMin)
	zap.S().Infow("minimum stake updated", "pkg", "staking", "minStake", newMin)
	return nil
}

// PauseSubnet is owner-privileged. It blocks future joins into the subnet;
// existing validators stay.
func (s *Staking) PauseSubnet(caller meridian.Address, subnetID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if caller != s.owner {
		return reverts.Unauthorized("caller %v is not the owner", caller)
	}
	if err := s.subnets.Deactivate(subnetID); err != nil {
		return err
	}
	zap.S().Infow("subnet paused", "pkg", "staking", "subnet", subnetID)
	return nil
}

//
// Projections, pure reads with no side effects
//

// VoteWeightOf returns account's current vote weight: own stake plus the
// amount delegated to it. The lookup works against inactive validator
// records too.
func (s *Staking) VoteWeightOf(account meridian.Address) *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&weightSource{s.validations, s.globalStats}).VoteWeightOf(account)
}

// TotalStaked returns the global total: every active validator's own stake
// plus all recorded delegated amounts.
func (s *Staking) TotalStaked() *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.globalStats.TotalStaked()
}

// GetValidator returns a copy of the validator record, nil when the account
// never joined.
func (s *Staking) GetValidator(account meridian.Address) *validation.Validator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validations.Info(account)
}

// ValidatorCount is the number of join events recorded (the roster length).
func (s *Staking) ValidatorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validations.RosterLen()
}

// ValidatorRoster returns the join roster in order.
func (s *Staking) ValidatorRoster() []meridian.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validations.Roster()
}

// DelegatedBy returns the caller's aggregate delegated amount.
func (s *Staking) DelegatedBy(delegator meridian.Address) *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delegations.Total(delegator)
}

// GetSubnet returns a copy of the subnet record, nil when absent.
func (s *Staking) GetSubnet(id uint64) *subnet.Subnet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subnets.Get(id)
}

// SubnetIDs lists all allocated subnet ids.
func (s *Staking) SubnetIDs() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subnets.IDs()
}

// Votes returns the vote list recorded for the proposal.
func (s *Staking) Votes(proposalID meridian.Bytes32) []*consensus.Vote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Votes(proposalID)
}

// ProposalResult reports whether the proposal is decided and its outcome.
func (s *Staking) ProposalResult(proposalID meridian.Bytes32) (decided bool, outcome bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Result(proposalID)
}

// PoolBalance is the protocol account's ledger balance, the analogue of
// the contract balance.
func (s *Staking) PoolBalance() *big.Int {
	return s.ledger.BalanceOf(PoolAddress)
}

// MinStake returns the current minimum stake.
func (s *Staking) MinStake() *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return new(big.Int).Set(s.minStake)
}

// ConsensusThreshold returns the current consensus threshold.
func (s *Staking) ConsensusThreshold() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Threshold()
}

// Owner returns the protocol owner identity.
func (s *Staking) Owner() meridian.Address {
	return s.owner
}

//
// Ledger plumbing
//

// collectPayment settles a payable call: the payment moves caller -> pool
// before any state is touched. A pool-credit failure refunds the caller so
// the operation stays all-or-nothing.
func (s *Staking) collectPayment(caller meridian.Address, amount *big.Int) error {
	if err := s.ledger.Debit(caller, amount); err != nil {
		return errors.Wrap(err, "collect payment")
	}
	if err := s.ledger.Credit(PoolAddress, amount); err != nil {
		if refundErr := s.ledger.Credit(caller, amount); refundErr != nil {
			return errors.Wrapf(err, "credit pool (refund also failed: %v)", refundErr)
		}
		return errors.Wrap(err, "credit pool")
	}
	return nil
}

// payOut transfers pool -> account. Callers must invoke it strictly after
// all internal bookkeeping: the credit may run arbitrary external code that
// calls back into the protocol.
func (s *Staking) payOut(account meridian.Address, amount *big.Int) error {
	if err := s.ledger.Debit(PoolAddress, amount); err != nil {
		return errors.Wrap(err, "debit pool")
	}
	if err := s.ledger.Credit(account, amount); err != nil {
		return errors.Wrap(err, "credit account")
	}
	return nil
}

func (s *Staking) updateTotalStakedMetric() {
	if total := s.globalStats.TotalStaked(); total.IsInt64() {
		metricTotalStaked().Set(total.Int64())
	}
}
