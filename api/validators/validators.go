// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validators

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

type Validators struct {
	stk *staking.Staking
}

func New(stk *staking.Staking) *Validators {
	return &Validators{stk}
}

func (v *Validators) handleCount(w http.ResponseWriter, _ *http.Request) error {
	return restutil.WriteJSON(w, restutil.M{"count": v.stk.ValidatorCount()})
}

func (v *Validators) handleRoster(w http.ResponseWriter, _ *http.Request) error {
	return restutil.WriteJSON(w, v.stk.ValidatorRoster())
}

func (v *Validators) handleGetValidator(w http.ResponseWriter, req *http.Request) error {
	addr, err := validatorAddress(req)
	if err != nil {
		return err
	}
	rec := v.stk.GetValidator(addr)
	if rec == nil {
		return restutil.NotFound(errors.Errorf("validator %v does not exist", addr))
	}
	return restutil.WriteJSON(w, convertValidator(rec))
}

func (v *Validators) handleLeave(w http.ResponseWriter, req *http.Request) error {
	var body LeaveRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := v.stk.LeaveValidatorSet(body.Caller); err != nil {
		return restutil.RevertError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"left": true})
}

func (v *Validators) handleDelegate(w http.ResponseWriter, req *http.Request) error {
	addr, err := validatorAddress(req)
	if err != nil {
		return err
	}
	var body DelegateRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := v.stk.DelegateStake(body.Caller, addr, amountOf(body.Payment)); err != nil {
		return restutil.RevertError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"delegated": true})
}

func (v *Validators) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	addr, err := validatorAddress(req)
	if err != nil {
		return err
	}
	var body WithdrawRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := v.stk.WithdrawDelegation(body.Caller, addr, amountOf(body.Amount)); err != nil {
		return restutil.RevertError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"withdrawn": true})
}

func validatorAddress(req *http.Request) (meridian.Address, error) {
	addr, err := meridian.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return meridian.Address{}, restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	return *addr, nil
}

func amountOf(amount *math.HexOrDecimal256) *big.Int {
	if amount == nil {
		return new(big.Int)
	}
	return (*big.Int)(amount)
}

func (v *Validators) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("validators_roster").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleRoster))
	sub.Path("/count").
		Methods(http.MethodGet).
		Name("validators_count").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleCount))
	sub.Path("/leave").
		Methods(http.MethodPost).
		Name("validators_leave").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleLeave))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("validators_get").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleGetValidator))
	sub.Path("/{address}/delegations").
		Methods(http.MethodPost).
		Name("validators_delegate").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleDelegate))
	sub.Path("/{address}/withdrawals").
		Methods(http.MethodPost).
		Name("validators_withdraw").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleWithdraw))
}
