// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package proposals

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/meridianchain/meridian/consensus"
	"github.com/meridianchain/meridian/meridian"
)

// Vote is the API shape of a recorded vote. Weight is the voter's vote
// weight frozen at cast time.
type Vote struct {
	Voter     meridian.Address      `json:"voter"`
	Value     bool                  `json:"value"`
	Timestamp uint64                `json:"timestamp"`
	Weight    *math.HexOrDecimal256 `json:"weight"`
}

func convertVote(v *consensus.Vote) *Vote {
	return &Vote{
		Voter:     v.Voter,
		Value:     v.Value,
		Timestamp: v.Timestamp,
		Weight:    (*math.HexOrDecimal256)(v.Weight),
	}
}

// Proposal is the API shape of a proposal's tally state. Outcome is only
// meaningful when Decided is true.
type Proposal struct {
	ID      meridian.Bytes32 `json:"id"`
	Decided bool             `json:"decided"`
	Outcome bool             `json:"outcome"`
	Votes   []*Vote          `json:"votes"`
}

// VoteRequest casts the caller's vote on a proposal.
type VoteRequest struct {
	Caller meridian.Address `json:"caller"`
	Value  bool             `json:"value"`
}
