// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package proposals

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/meridianchain/meridian/api/restutil"
	"github.com/meridianchain/meridian/consensus"
	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/staking"
)

type Proposals struct {
	stk *staking.Staking
}

func New(stk *staking.Staking) *Proposals {
	return &Proposals{stk}
}

func (p *Proposals) handleGetProposal(w http.ResponseWriter, req *http.Request) error {
	id, err := proposalID(req)
	if err != nil {
		return err
	}
	decided, outcome := p.stk.ProposalResult(id)
	return restutil.WriteJSON(w, &Proposal{
		ID:      id,
		Decided: decided,
		Outcome: outcome,
		Votes:   convertVotes(p.stk.Votes(id)),
	})
}

func (p *Proposals) handleListVotes(w http.ResponseWriter, req *http.Request) error {
	id, err := proposalID(req)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertVotes(p.stk.Votes(id)))
}

func (p *Proposals) handleCastVote(w http.ResponseWriter, req *http.Request) error {
	id, err := proposalID(req)
	if err != nil {
		return err
	}
	var body VoteRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	vote, err := p.stk.CastVote(body.Caller, id, body.Value)
	if err != nil {
		return restutil.RevertError(err)
	}
	return restutil.WriteJSON(w, convertVote(vote))
}

func convertVotes(votes []*consensus.Vote) []*Vote {
	out := make([]*Vote, 0, len(votes))
	for _, v := range votes {
		out = append(out, convertVote(v))
	}
	return out
}

func proposalID(req *http.Request) (meridian.Bytes32, error) {
	id, err := meridian.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return meridian.Bytes32{}, restutil.BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

func (p *Proposals) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("proposals_get").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleGetProposal))
	sub.Path("/{id}/votes").
		Methods(http.MethodGet).
		Name("proposals_list_votes").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleListVotes))
	sub.Path("/{id}/votes").
		Methods(http.MethodPost).
		Name("proposals_cast_vote").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleCastVote))
}
