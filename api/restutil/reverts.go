// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package restutil

import (
	"net/http"

	"github.com/meridianchain/meridian/staking/reverts"
)

// RevertError maps a protocol revert onto the matching http status.
// Non-revert errors pass through untouched and end up as 500s.
func RevertError(err error) error {
	if err == nil {
		return nil
	}
	if !reverts.IsRevert(err) {
		return err
	}
	switch reverts.CodeOf(err) {
	case reverts.CodeUnauthorized:
		return HTTPError(err, http.StatusForbidden)
	case reverts.CodeUnknownEntity:
		return HTTPError(err, http.StatusNotFound)
	case reverts.CodeInvalidAmount, reverts.CodeInsufficientDelegation:
		return HTTPError(err, http.StatusBadRequest)
	case reverts.CodeAlreadyExists,
		reverts.CodeDuplicateVote,
		reverts.CodeProposalAlreadyDecided,
		reverts.CodeBelowMinimumValidators:
		return HTTPError(err, http.StatusConflict)
	default:
		return err
	}
}
