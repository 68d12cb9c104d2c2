// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"math/big"

	"github.com/meridianchain/meridian/meridian"
)

// Vote is one cast vote. At most one exists per (proposal, voter) pair. The
// weight is captured when the vote is cast and immutable afterwards, even if
// the voter's stake changes later.
type Vote struct {
	Voter     meridian.Address
	Value     bool
	Timestamp uint64
	Weight    *big.Int
}

// Copy returns a detached copy of the vote.
func (v *Vote) Copy() *Vote {
	return &Vote{
		Voter:     v.Voter,
		Value:     v.Value,
		Timestamp: v.Timestamp,
		Weight:    new(big.Int).Set(v.Weight),
	}
}

// ProposalState is the serializable state of one proposal: its vote log and
// decision flags.
type ProposalState struct {
	ID      meridian.Bytes32
	Votes   []*Vote
	Decided bool
	Outcome bool
}

// Snapshot returns the full engine state, copied.
func (e *Engine) Snapshot() []*ProposalState {
	out := make([]*ProposalState, 0, len(e.votes))
	for id, votes := range e.votes {
		state := &ProposalState{
			ID:      id,
			Votes:   make([]*Vote, len(votes)),
			Decided: e.executed[id],
			Outcome: e.outcomes[id],
		}
		for i, vote := range votes {
			state.Votes[i] = vote.Copy()
		}
		out = append(out, state)
	}
	return out
}

// Restore replaces the engine's proposal state. The threshold is kept.
func (e *Engine) Restore(states []*ProposalState) {
	e.votes = make(map[meridian.Bytes32][]*Vote, len(states))
	e.executed = make(map[meridian.Bytes32]bool, len(states))
	e.outcomes = make(map[meridian.Bytes32]bool, len(states))
	for _, state := range states {
		votes := make([]*Vote, len(state.Votes))
		for i, vote := range state.Votes {
			votes[i] = vote.Copy()
		}
		e.votes[state.ID] = votes
		if state.Decided {
			e.executed[state.ID] = true
			e.outcomes[state.ID] = state.Outcome
		}
	}
}
