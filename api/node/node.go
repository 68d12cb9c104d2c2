// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/meridianchain/meridian/api/restutil"
	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/staking"
)

// Info is the node's protocol-level summary.
type Info struct {
	Owner              meridian.Address      `json:"owner"`
	MinStake           *math.HexOrDecimal256 `json:"minStake"`
	ConsensusThreshold uint64                `json:"consensusThreshold"`
	TotalStaked        *math.HexOrDecimal256 `json:"totalStaked"`
	PoolBalance        *math.HexOrDecimal256 `json:"poolBalance"`
	ValidatorCount     int                   `json:"validatorCount"`
	SubnetCount        int                   `json:"subnetCount"`
}

// ThresholdRequest updates the consensus threshold. Owner only.
type ThresholdRequest struct {
	Caller    meridian.Address `json:"caller"`
	Threshold uint64           `json:"threshold"`
}

// MinStakeRequest updates the minimum join stake. Owner only.
type MinStakeRequest struct {
	Caller   meridian.Address      `json:"caller"`
	MinStake *math.HexOrDecimal256 `json:"minStake"`
}

type Node struct {
	stk *staking.Staking
}

func New(stk *staking.Staking) *Node {
	return &Node{stk}
}

func (n *Node) handleNodeInfo(w http.ResponseWriter, _ *http.Request) error {
	return restutil.WriteJSON(w, &Info{
		Owner:              n.stk.Owner(),
		MinStake:           (*math.HexOrDecimal256)(n.stk.MinStake()),
		ConsensusThreshold: n.stk.ConsensusThreshold(),
		TotalStaked:        (*math.HexOrDecimal256)(n.stk.TotalStaked()),
		PoolBalance:        (*math.HexOrDecimal256)(n.stk.PoolBalance()),
		ValidatorCount:     n.stk.ValidatorCount(),
		SubnetCount:        len(n.stk.SubnetIDs()),
	})
}

func (n *Node) handleUpdateThreshold(w http.ResponseWriter, req *http.Request) error {
	var body ThresholdRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := n.stk.UpdateConsensusThreshold(body.Caller, body.Threshold); err != nil {
		return restutil.RevertError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"threshold": body.Threshold})
}

func (n *Node) handleUpdateMinStake(w http.ResponseWriter, req *http.Request) error {
	var body MinStakeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	var minStake *big.Int
	if body.MinStake != nil {
		minStake = (*big.Int)(body.MinStake)
	}
	if err := n.stk.UpdateMinStake(body.Caller, minStake); err != nil {
		return restutil.RevertError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"minStake": body.MinStake})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/info").
		Methods(http.MethodGet).
		Name("node_get_info").
		HandlerFunc(restutil.WrapHandlerFunc(n.handleNodeInfo))
	sub.Path("/threshold").
		Methods(http.MethodPost).
		Name("node_update_threshold").
		HandlerFunc(restutil.WrapHandlerFunc(n.handleUpdateThreshold))
	sub.Path("/min-stake").
		Methods(http.MethodPost).
		Name("node_update_min_stake").
		HandlerFunc(restutil.WrapHandlerFunc(n.handleUpdateMinStake))
}
