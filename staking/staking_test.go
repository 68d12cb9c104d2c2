// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianchain/meridian/ledger"
	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/staking/reverts"
)

var (
	owner    = meridian.BytesToAddress([]byte("owner"))
	accountX = meridian.BytesToAddress([]byte("accountX"))
	accountY = meridian.BytesToAddress([]byte("accountY"))
	accountZ = meridian.BytesToAddress([]byte("accountZ"))
)

func newTest(t *testing.T, minStake int64, threshold uint64) (*Staking, *ledger.MemLedger) {
	l := ledger.NewMem(map[meridian.Address]*big.Int{
		accountX: big.NewInt(1000),
		accountY: big.NewInt(1000),
		accountZ: big.NewInt(1000),
	})
	s, err := New(l, Params{
		Owner:              owner,
		MinStake:           big.NewInt(minStake),
		ConsensusThreshold: threshold,
	})
	require.NoError(t, err)
	s.SetClock(func() uint64 { return 12345 })
	return s, l
}

// checkTotalStaked asserts the global invariant: totalStaked equals the sum
// of active validators' own stake plus all recorded delegated amounts.
func checkTotalStaked(t *testing.T, s *Staking) {
	snap := s.Snapshot()
	expected := new(big.Int)
	for _, rec := range snap.Validators {
		if rec.Active {
			expected.Add(expected, rec.Stake.Own)
		}
		expected.Add(expected, rec.Stake.Delegated)
	}
	assert.Equal(t, expected, s.TotalStaked(), "totalStaked invariant")
}

func TestCreateSubnetScenario(t *testing.T) {
	// scenario: minimum stake 1, X creates subnet "S" with floor 1, staking 1
	s, _ := newTest(t, 1, 80)

	id, err := s.CreateSubnet(accountX, "S", 1, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	sub := s.GetSubnet(1)
	require.NotNil(t, sub)
	assert.Equal(t, "S", sub.Name)
	assert.Equal(t, accountX, sub.Creator)
	assert.Equal(t, uint64(1), sub.ValidatorCount)

	rec := s.GetValidator(accountX)
	require.NotNil(t, rec)
	assert.True(t, rec.Active)
	assert.Equal(t, big.NewInt(1), s.VoteWeightOf(accountX))
	assert.Equal(t, big.NewInt(1), s.TotalStaked())
	assert.Equal(t, big.NewInt(1), s.PoolBalance())
	checkTotalStaked(t, s)
}

func TestCreateSubnetPreconditions(t *testing.T) {
	s, l := newTest(t, 10, 80)

	_, err := s.CreateSubnet(accountX, "", 1, big.NewInt(10))
	assert.Equal(t, reverts.CodeInvalidAmount, reverts.CodeOf(err))

	_, err = s.CreateSubnet(accountX, "S", 0, big.NewInt(10))
	assert.Equal(t, reverts.CodeInvalidAmount, reverts.CodeOf(err))

	_, err = s.CreateSubnet(accountX, "S", 1, big.NewInt(9))
	assert.Equal(t, reverts.CodeInvalidAmount, reverts.CodeOf(err))

	// no id was burned and no funds moved by the failed attempts
	assert.Empty(t, s.SubnetIDs())
	assert.Equal(t, big.NewInt(1000), l.BalanceOf(accountX))

	_, err = s.CreateSubnet(accountX, "S", 1, big.NewInt(10))
	require.NoError(t, err)

	// the creator is now an active validator and cannot create another
	_, err = s.CreateSubnet(accountX, "T", 1, big.NewInt(10))
	assert.Equal(t, reverts.CodeAlreadyExists, reverts.CodeOf(err))
}

func TestJoinAndLeaveScenario(t *testing.T) {
	// scenario: X creates subnet 1 (floor 1, stake 1), Y joins with 2
	s, l := newTest(t, 1, 80)
	_, err := s.CreateSubnet(accountX, "S", 1, big.NewInt(1))
	require.NoError(t, err)

	require.NoError(t, s.JoinSubnet(accountY, 1, big.NewInt(2)))
	assert.Equal(t, big.NewInt(3), s.TotalStaked())
	assert.Equal(t, uint64(2), s.GetSubnet(1).ValidatorCount)
	checkTotalStaked(t, s)

	// X leaves: 2 > 1 floor, allowed; stake returned
	require.NoError(t, s.LeaveValidatorSet(accountX))
	assert.Equal(t, big.NewInt(2), s.TotalStaked())
	assert.Equal(t, uint64(1), s.GetSubnet(1).ValidatorCount)
	assert.Equal(t, big.NewInt(1000), l.BalanceOf(accountX))
	assert.False(t, s.GetValidator(accountX).Active)
	checkTotalStaked(t, s)

	// Y cannot leave: 1 is not > 1
	err = s.LeaveValidatorSet(accountY)
	assert.Equal(t, reverts.CodeBelowMinimumValidators, reverts.CodeOf(err))
	assert.True(t, s.GetValidator(accountY).Active)
	assert.Equal(t, big.NewInt(2), s.TotalStaked())
	checkTotalStaked(t, s)
}

func TestJoinPreconditions(t *testing.T) {
	s, _ := newTest(t, 1, 80)
	_, err := s.CreateSubnet(accountX, "S", 1, big.NewInt(1))
	require.NoError(t, err)

	assert.Equal(t, reverts.CodeUnknownEntity,
		reverts.CodeOf(s.JoinSubnet(accountY, 42, big.NewInt(1))))
	assert.Equal(t, reverts.CodeInvalidAmount,
		reverts.CodeOf(s.JoinSubnet(accountY, 1, big.NewInt(0))))
	assert.Equal(t, reverts.CodeAlreadyExists,
		reverts.CodeOf(s.JoinSubnet(accountX, 1, big.NewInt(1))))

	// paused subnet blocks joins but keeps its validators
	require.NoError(t, s.PauseSubnet(owner, 1))
	assert.Equal(t, reverts.CodeUnknownEntity,
		reverts.CodeOf(s.JoinSubnet(accountY, 1, big.NewInt(1))))
	assert.True(t, s.GetValidator(accountX).Active)
}

func TestJoinInsufficientBalance(t *testing.T) {
	s, _ := newTest(t, 1, 80)
	_, err := s.CreateSubnet(accountX, "S", 1, big.NewInt(1))
	require.NoError(t, err)

	err = s.JoinSubnet(accountY, 1, big.NewInt(5000))
	require.Error(t, err)
	assert.False(t, reverts.IsRevert(err)) // ledger failure, not a protocol revert
	assert.Nil(t, s.GetValidator(accountY))
	assert.Equal(t, uint64(1), s.GetSubnet(1).ValidatorCount)
}

func TestDelegationRaisesWeight(t *testing.T) {
	// scenario: V stakes 10, a delegation of 5 raises the weight to 15;
	// a vote cast before the delegation keeps its frozen weight of 10
	s, _ := newTest(t, 1, 80)
	_, err := s.CreateSubnet(accountX, "S", 1, big.NewInt(10))
	require.NoError(t, err)

	proposal := meridian.Blake2b([]byte("upgrade"))
	vote, err := s.CastVote(accountX, proposal, true)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), vote.Weight)

	require.NoError(t, s.DelegateStake(accountY, accountX, big.NewInt(5)))
	assert.Equal(t, big.NewInt(15), s.VoteWeightOf(accountX))
	assert.Equal(t, big.NewInt(15), s.TotalStaked())
	assert.Equal(t, big.NewInt(5), s.DelegatedBy(accountY))
	checkTotalStaked(t, s)

	// the earlier vote record is untouched
	assert.Equal(t, big.NewInt(10), s.Votes(proposal)[0].Weight)
}

func TestDelegatePreconditions(t *testing.T) {
	s, _ := newTest(t, 1, 80)
	_, err := s.CreateSubnet(accountX, "S", 1, big.NewInt(1))
	require.NoError(t, err)

	assert.Equal(t, reverts.CodeInvalidAmount,
		reverts.CodeOf(s.DelegateStake(accountY, accountX, big.NewInt(0))))
	assert.Equal(t, reverts.CodeUnknownEntity,
		reverts.CodeOf(s.DelegateStake(accountY, accountZ, big.NewInt(5))))

	// inactive validator cannot receive new delegations
	require.NoError(t, s.JoinSubnet(accountY, 1, big.NewInt(1)))
	require.NoError(t, s.LeaveValidatorSet(accountX))
	assert.Equal(t, reverts.CodeUnknownEntity,
		reverts.CodeOf(s.DelegateStake(accountZ, accountX, big.NewInt(5))))
}

func TestWithdrawDelegation(t *testing.T) {
	s, l := newTest(t, 1, 80)
	_, err := s.CreateSubnet(accountX, "S", 1, big.NewInt(10))
	require.NoError(t, err)
	require.NoError(t, s.DelegateStake(accountY, accountX, big.NewInt(5)))

	require.NoError(t, s.WithdrawDelegation(accountY, accountX, big.NewInt(3)))
	assert.Equal(t, big.NewInt(2), s.DelegatedBy(accountY))
	assert.Equal(t, big.NewInt(12), s.VoteWeightOf(accountX))
	assert.Equal(t, big.NewInt(12), s.TotalStaked())
	assert.Equal(t, big.NewInt(998), l.BalanceOf(accountY))
	checkTotalStaked(t, s)

	err = s.WithdrawDelegation(accountY, accountX, big.NewInt(3))
	assert.Equal(t, reverts.CodeInsufficientDelegation, reverts.CodeOf(err))
	assert.Equal(t, big.NewInt(2), s.DelegatedBy(accountY))
	checkTotalStaked(t, s)
}

func TestWithdrawAgainstInactiveValidator(t *testing.T) {
	// leaving does not release delegations; they stay withdrawable
	s, _ := newTest(t, 1, 80)
	_, err := s.CreateSubnet(accountX, "S", 1, big.NewInt(10))
	require.NoError(t, err)
	require.NoError(t, s.JoinSubnet(accountY, 1, big.NewInt(1)))
	require.NoError(t, s.DelegateStake(accountZ, accountX, big.NewInt(5)))

	require.NoError(t, s.LeaveValidatorSet(accountX))
	assert.False(t, s.GetValidator(accountX).Active)

	// the delegated amount is still recorded and still counts in the weight
	assert.Equal(t, big.NewInt(15), s.VoteWeightOf(accountX))
	checkTotalStaked(t, s)

	require.NoError(t, s.WithdrawDelegation(accountZ, accountX, big.NewInt(5)))
	assert.Equal(t, big.NewInt(10), s.VoteWeightOf(accountX))
	checkTotalStaked(t, s)
}

func TestRejoinOverwritesDelegations(t *testing.T) {
	// the single-mapping design: a rejoin overwrites the record, silently
	// resetting its delegated amount; the delegator's aggregate survives but
	// the validator-side check now blocks the withdrawal
	s, _ := newTest(t, 1, 80)
	_, err := s.CreateSubnet(accountX, "S", 1, big.NewInt(10))
	require.NoError(t, err)
	require.NoError(t, s.JoinSubnet(accountY, 1, big.NewInt(1)))
	require.NoError(t, s.DelegateStake(accountZ, accountX, big.NewInt(5)))

	require.NoError(t, s.LeaveValidatorSet(accountX))
	require.NoError(t, s.JoinSubnet(accountX, 1, big.NewInt(2)))

	rec := s.GetValidator(accountX)
	assert.Equal(t, big.NewInt(2), rec.Stake.Own)
	assert.Equal(t, big.NewInt(0), rec.Stake.Delegated)
	assert.Equal(t, big.NewInt(5), s.DelegatedBy(accountZ))

	err = s.WithdrawDelegation(accountZ, accountX, big.NewInt(5))
	assert.Equal(t, reverts.CodeInsufficientDelegation, reverts.CodeOf(err))

	// the roster counts both joins
	assert.Equal(t, 3, s.ValidatorCount())
}

func TestOwnerOps(t *testing.T) {
	s, _ := newTest(t, 1, 80)

	assert.Equal(t, reverts.CodeUnauthorized,
		reverts.CodeOf(s.UpdateMinStake(accountX, big.NewInt(5))))
	assert.Equal(t, reverts.CodeUnauthorized,
		reverts.CodeOf(s.UpdateConsensusThreshold(accountX, 60)))
	assert.Equal(t, reverts.CodeUnauthorized,
		reverts.CodeOf(s.PauseSubnet(accountX, 1)))

	require.NoError(t, s.UpdateMinStake(owner, big.NewInt(5)))
	assert.Equal(t, big.NewInt(5), s.MinStake())
	assert.Equal(t, reverts.CodeInvalidAmount,
		reverts.CodeOf(s.UpdateMinStake(owner, big.NewInt(0))))

	require.NoError(t, s.UpdateConsensusThreshold(owner, 60))
	assert.Equal(t, uint64(60), s.ConsensusThreshold())
	assert.Equal(t, reverts.CodeInvalidAmount,
		reverts.CodeOf(s.UpdateConsensusThreshold(owner, 50)))

	assert.Equal(t, reverts.CodeUnknownEntity,
		reverts.CodeOf(s.PauseSubnet(owner, 42)))
}

func TestVotingThroughFacade(t *testing.T) {
	// weights 30/70, threshold 80: X's lone yes is below quorum, the
	// 30/70 split lands in the dead zone, a unanimous yes decides
	s, _ := newTest(t, 1, 80)
	_, err := s.CreateSubnet(accountX, "S", 1, big.NewInt(30))
	require.NoError(t, err)
	require.NoError(t, s.JoinSubnet(accountY, 1, big.NewInt(70)))

	split := meridian.Blake2b([]byte("split"))
	_, err = s.CastVote(accountX, split, true)
	require.NoError(t, err)
	_, err = s.CastVote(accountY, split, false)
	require.NoError(t, err)
	decided, _ := s.ProposalResult(split)
	assert.False(t, decided)

	unanimous := meridian.Blake2b([]byte("unanimous"))
	_, err = s.CastVote(accountX, unanimous, true)
	require.NoError(t, err)
	_, err = s.CastVote(accountY, unanimous, true)
	require.NoError(t, err)
	decided, outcome := s.ProposalResult(unanimous)
	assert.True(t, decided)
	assert.True(t, outcome)

	// decided proposals reject further votes; non-validators cannot vote at all
	_, err = s.CastVote(accountZ, unanimous, true)
	assert.Equal(t, reverts.CodeProposalAlreadyDecided, reverts.CodeOf(err))
	_, err = s.CastVote(accountZ, split, true)
	assert.Equal(t, reverts.CodeUnknownEntity, reverts.CodeOf(err))
}

func TestPoolBalanceTracksTotalStaked(t *testing.T) {
	s, _ := newTest(t, 1, 80)
	_, err := s.CreateSubnet(accountX, "S", 1, big.NewInt(10))
	require.NoError(t, err)
	require.NoError(t, s.JoinSubnet(accountY, 1, big.NewInt(7)))
	require.NoError(t, s.DelegateStake(accountZ, accountX, big.NewInt(3)))
	require.NoError(t, s.WithdrawDelegation(accountZ, accountX, big.NewInt(1)))
	require.NoError(t, s.LeaveValidatorSet(accountX))

	assert.Equal(t, s.TotalStaked(), s.PoolBalance())
	checkTotalStaked(t, s)
}

func TestSnapshotRoundtrip(t *testing.T) {
	s, l := newTest(t, 1, 80)
	_, err := s.CreateSubnet(accountX, "S", 1, big.NewInt(10))
	require.NoError(t, err)
	require.NoError(t, s.JoinSubnet(accountY, 1, big.NewInt(5)))
	require.NoError(t, s.DelegateStake(accountZ, accountX, big.NewInt(3)))
	proposal := meridian.Blake2b([]byte("p"))
	_, err = s.CastVote(accountX, proposal, true)
	require.NoError(t, err)

	restored, err := New(l, Params{Owner: owner, MinStake: big.NewInt(99), ConsensusThreshold: 51})
	require.NoError(t, err)
	require.NoError(t, restored.Restore(s.Snapshot()))

	assert.Equal(t, s.TotalStaked(), restored.TotalStaked())
	assert.Equal(t, s.MinStake(), restored.MinStake())
	assert.Equal(t, s.ConsensusThreshold(), restored.ConsensusThreshold())
	assert.Equal(t, s.ValidatorCount(), restored.ValidatorCount())
	assert.Equal(t, s.SubnetIDs(), restored.SubnetIDs())
	assert.Equal(t, s.DelegatedBy(accountZ), restored.DelegatedBy(accountZ))
	require.Len(t, restored.Votes(proposal), 1)
	assert.Equal(t, big.NewInt(13), restored.Votes(proposal)[0].Weight)
	checkTotalStaked(t, restored)
}
