// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subnets

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/meridianchain/meridian/api/restutil"
	"github.com/meridianchain/meridian/staking"
)

type Subnets struct {
	stk *staking.Staking
}

func New(stk *staking.Staking) *Subnets {
	return &Subnets{stk}
}

func (s *Subnets) handleCreateSubnet(w http.ResponseWriter, req *http.Request) error {
	var body CreateRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	id, err := s.stk.CreateSubnet(body.Caller, body.Name, body.MinValidators, amountOf(body.Payment))
	if err != nil {
		return restutil.RevertError(err)
	}
	return restutil.WriteJSON(w, &CreateResponse{ID: id})
}

func (s *Subnets) handleListSubnets(w http.ResponseWriter, _ *http.Request) error {
	ids := s.stk.SubnetIDs()
	out := make([]*Subnet, 0, len(ids))
	for _, id := range ids {
		if sub := s.stk.GetSubnet(id); sub != nil {
			out = append(out, convertSubnet(sub))
		}
	}
	return restutil.WriteJSON(w, out)
}

func (s *Subnets) handleGetSubnet(w http.ResponseWriter, req *http.Request) error {
	id, err := subnetID(req)
	if err != nil {
		return err
	}
	sub := s.stk.GetSubnet(id)
	if sub == nil {
		return restutil.NotFound(errors.Errorf("subnet %d does not exist", id))
	}
	return restutil.WriteJSON(w, convertSubnet(sub))
}

func (s *Subnets) handleJoinSubnet(w http.ResponseWriter, req *http.Request) error {
	id, err := subnetID(req)
	if err != nil {
		return err
	}
	var body JoinRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.stk.JoinSubnet(body.Caller, id, amountOf(body.Payment)); err != nil {
		return restutil.RevertError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"joined": true})
}

func (s *Subnets) handlePauseSubnet(w http.ResponseWriter, req *http.Request) error {
	id, err := subnetID(req)
	if err != nil {
		return err
	}
	var body PauseRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.stk.PauseSubnet(body.Caller, id); err != nil {
		return restutil.RevertError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"paused": true})
}

func subnetID(req *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		return 0, restutil.BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

func amountOf(amount *math.HexOrDecimal256) *big.Int {
	if amount == nil {
		return new(big.Int)
	}
	return (*big.Int)(amount)
}

func (s *Subnets) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("subnets_create").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleCreateSubnet))
	sub.Path("").
		Methods(http.MethodGet).
		Name("subnets_list").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleListSubnets))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("subnets_get").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetSubnet))
	sub.Path("/{id}/join").
		Methods(http.MethodPost).
		Name("subnets_join").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleJoinSubnet))
	sub.Path("/{id}/pause").
		Methods(http.MethodPost).
		Name("subnets_pause").
		HandlerFunc(restutil.WrapHandlerFunc(s.handlePauseSubnet))
}
