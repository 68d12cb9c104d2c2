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

func TestParseBytes32(t *testing.T) {
	hexStr := "0x0101010101010101010101010101010101010101010101010101010101010101"
	b32, err := ParseBytes32(hexStr)
	require.NoError(t, err)
	assert.Equal(t, hexStr, b32.String())

	_, err = ParseBytes32("0x010101")
	assert.Error(t, err)

	_, err = ParseBytes32("zz01010101010101010101010101010101010101010101010101010101010101")
	assert.Error(t, err)
}

func TestBytesToBytes32(t *testing.T) {
	b32 := BytesToBytes32([]byte{1})
	assert.Equal(t, Bytes32{31: 1}, b32)
	assert.False(t, b32.IsZero())
	assert.True(t, Bytes32{}.IsZero())
}

func TestBytes32JSON(t *testing.T) {
	b32 := Blake2b([]byte("proposal-1"))
	data, err := json.Marshal(&b32)
	require.NoError(t, err)

	var decoded Bytes32
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, b32, decoded)
}

func TestBlake2bDeterministic(t *testing.T) {
	assert.Equal(t, Blake2b([]byte("a"), []byte("b")), Blake2b([]byte("a"), []byte("b")))
	assert.NotEqual(t, Blake2b([]byte("a")), Blake2b([]byte("b")))
}
