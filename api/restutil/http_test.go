// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package restutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianchain/meridian/staking/reverts"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"no error", nil, http.StatusOK},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"http error", BadRequest(errors.New("bad")), http.StatusBadRequest},
		{"unauthorized revert", RevertError(reverts.Unauthorized("not owner")), http.StatusForbidden},
		{"unknown entity revert", RevertError(reverts.UnknownEntity("no such validator")), http.StatusNotFound},
		{"invalid amount revert", RevertError(reverts.InvalidAmount("zero")), http.StatusBadRequest},
		{"insufficient delegation revert", RevertError(reverts.InsufficientDelegation("short")), http.StatusBadRequest},
		{"already exists revert", RevertError(reverts.AlreadyExists("dup validator")), http.StatusConflict},
		{"duplicate vote revert", RevertError(reverts.DuplicateVote("dup vote")), http.StatusConflict},
		{"decided revert", RevertError(reverts.ProposalAlreadyDecided("done")), http.StatusConflict},
		{"floor revert", RevertError(reverts.BelowMinimumValidators("floor")), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
				if tt.err != nil {
					return tt.err
				}
				return WriteJSON(w, M{"ok": true})
			})

			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestParseJSONStrict(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, ParseJSON(strings.NewReader(`{"name":"a"}`), &out))
	assert.Equal(t, "a", out.Name)

	err := ParseJSON(strings.NewReader(`{"name":"a","extra":1}`), &out)
	assert.Error(t, err)
}

func TestRevertErrorPassthrough(t *testing.T) {
	plain := errors.New("db broken")
	assert.Equal(t, plain, RevertError(plain))
	assert.Nil(t, RevertError(nil))
}
