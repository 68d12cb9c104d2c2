// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meridian

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	hexStr := "0x0102030405060708090a0b0c0d0e0f1011121314"
	addr, err := ParseAddress(hexStr)
	require.NoError(t, err)
	assert.Equal(t, hexStr, addr.String())

	// without 0x prefix
	addr, err = ParseAddress(hexStr[2:])
	require.NoError(t, err)
	assert.Equal(t, hexStr, addr.String())

	_, err = ParseAddress("0x01")
	assert.Error(t, err)

	_, err = ParseAddress("zz02030405060708090a0b0c0d0e0f1011121314")
	assert.Error(t, err)
}

func TestBytesToAddress(t *testing.T) {
	addr := BytesToAddress([]byte("acc1"))
	assert.False(t, addr.IsZero())
	assert.True(t, Address{}.IsZero())
	assert.Len(t, addr.Bytes(), AddressLength)
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("acc1"))
	data, err := json.Marshal(&addr)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)
}
