// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package consensus implements the stake-weighted proposal voting engine:
// a single-round weighted-majority tally with a quorum gate and a sticky,
// fire-once decision per proposal.
package consensus

import (
	"math/big"

	"go.uber.org/zap"

	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/metrics"
	"github.com/meridianchain/meridian/staking/reverts"
)

var (
	metricVotesCast        = metrics.LazyLoadCounter("consensus_votes_cast_count")
	metricProposalsDecided = metrics.LazyLoadCounterVec("consensus_proposals_decided_count", []string{"outcome"})
)

// quorumPercentage is the share of the global total stake that must have
// voted before a proposal can be resolved. The global total is read at
// decision time, not at proposal-open time.
const quorumPercentage = 51

// WeightSource resolves voter weight and the global stake total. The staking
// facade implements it; the engine never mutates stake.
type WeightSource interface {
	// VoteWeightOf returns the account's current vote weight
	// (own stake + delegated amount), zero for unknown accounts.
	VoteWeightOf(account meridian.Address) *big.Int
	// TotalStaked returns the global total stake.
	TotalStaked() *big.Int
	// IsActiveValidator reports whether the account may vote.
	IsActiveValidator(account meridian.Address) bool
}

// Engine records votes per proposal and resolves outcomes. Proposals are
// implicit: the first vote on an id opens it. Not safe for concurrent use;
// the facade serializes all calls.
type Engine struct {
	source    WeightSource
	threshold uint64

	votes    map[meridian.Bytes32][]*Vote
	executed map[meridian.Bytes32]bool
	outcomes map[meridian.Bytes32]bool
}

// New creates an engine with the given consensus threshold (must satisfy
// 50 < threshold <= 100).
func New(source WeightSource, threshold uint64) (*Engine, error) {
	e := &Engine{
		source:   source,
		votes:    make(map[meridian.Bytes32][]*Vote),
		executed: make(map[meridian.Bytes32]bool),
		outcomes: make(map[meridian.Bytes32]bool),
	}
	if err := e.SetThreshold(threshold); err != nil {
		return nil, err
	}
	return e, nil
}

// Threshold returns the current consensus threshold percentage.
func (e *Engine) Threshold() uint64 {
	return e.threshold
}

// SetThreshold updates the consensus threshold. Caller authorization is the
// facade's concern.
func (e *Engine) SetThreshold(threshold uint64) error {
	if threshold <= 50 || threshold > 100 {
		return reverts.InvalidAmount("consensus threshold must be in (50, 100], got %d", threshold)
	}
	e.threshold = threshold
	return nil
}

// CastVote records the voter's vote on the proposal and evaluates the
// outcome. The vote's weight is computed at cast time and frozen into the
// record; later stake changes never touch it.
func (e *Engine) CastVote(proposalID meridian.Bytes32, voter meridian.Address, value bool, now uint64) (*Vote, error) {
	if e.executed[proposalID] {
		return nil, reverts.ProposalAlreadyDecided("proposal %v", proposalID.AbbrevString())
	}
	if !e.source.IsActiveValidator(voter) {
		return nil, reverts.UnknownEntity("account %v is not an active validator", voter)
	}
	for _, vote := range e.votes[proposalID] {
		if vote.Voter == voter {
			return nil, reverts.DuplicateVote("account %v already voted on proposal %v", voter, proposalID.AbbrevString())
		}
	}

	vote := &Vote{
		Voter:     voter,
		Value:     value,
		Timestamp: now,
		Weight:    e.source.VoteWeightOf(voter),
	}
	e.votes[proposalID] = append(e.votes[proposalID], vote)
	metricVotesCast().Add(1)

	e.evaluate(proposalID)
	return vote.Copy(), nil
}

// evaluate resolves the proposal against quorum and threshold. It is a no-op
// once the proposal is decided: the Open -> Decided transition happens at
// most once, and the decision event fires exactly then.
func (e *Engine) evaluate(proposalID meridian.Bytes32) {
	if e.executed[proposalID] {
		return
	}

	totalVoteWeight := new(big.Int)
	yesWeight := new(big.Int)
	for _, vote := range e.votes[proposalID] {
		totalVoteWeight.Add(totalVoteWeight, vote.Weight)
		if vote.Value {
			yesWeight.Add(yesWeight, vote.Weight)
		}
	}
	if totalVoteWeight.Sign() == 0 {
		return
	}

	// quorum: totalVoteWeight * 100 >= totalStaked * quorumPercentage
	voted := new(big.Int).Mul(totalVoteWeight, big.NewInt(100))
	required := new(big.Int).Mul(e.source.TotalStaked(), big.NewInt(quorumPercentage))
	if voted.Cmp(required) < 0 {
		return
	}

	// integer division truncates toward zero
	yesPercentage := new(big.Int).Mul(yesWeight, big.NewInt(100))
	yesPercentage.Div(yesPercentage, totalVoteWeight)

	var outcome bool
	switch {
	case yesPercentage.Cmp(new(big.Int).SetUint64(e.threshold)) >= 0:
		outcome = true
	case yesPercentage.Cmp(new(big.Int).SetUint64(100-e.threshold)) <= 0:
		outcome = false
	default:
		// dead zone between (100 - threshold) and threshold: stays open
		return
	}

	e.executed[proposalID] = true
	e.outcomes[proposalID] = outcome

	zap.S().Infow("proposal decided",
		"pkg", "consensus",
		"proposal", proposalID.AbbrevString(),
		"outcome", outcome,
		"yesPercentage", yesPercentage.Uint64(),
		"totalVoteWeight", totalVoteWeight,
	)
	metricProposalsDecided().AddWithLabel(1, map[string]string{"outcome": outcomeLabel(outcome)})
}

// Result reports whether the proposal has been decided and, if so, the
// outcome.
func (e *Engine) Result(proposalID meridian.Bytes32) (decided bool, outcome bool) {
	return e.executed[proposalID], e.outcomes[proposalID]
}

// Votes returns the recorded votes for the proposal in cast order, copied.
func (e *Engine) Votes(proposalID meridian.Bytes32) []*Vote {
	recorded := e.votes[proposalID]
	out := make([]*Vote, len(recorded))
	for i, vote := range recorded {
		out[i] = vote.Copy()
	}
	return out
}

func outcomeLabel(outcome bool) string {
	if outcome {
		return "accepted"
	}
	return "rejected"
}
