// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validation

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/staking/reverts"
)

func TestJoinAndLookup(t *testing.T) {
	s := New()
	addr := meridian.BytesToAddress([]byte("validator1"))

	assert.Nil(t, s.Get(addr))
	assert.False(t, s.IsActive(addr))

	rec := s.Join(addr, big.NewInt(10), 1, 1000)
	assert.True(t, rec.Active)
	assert.Equal(t, big.NewInt(10), rec.Stake.Own)
	assert.Equal(t, big.NewInt(0), rec.Stake.Delegated)
	assert.Equal(t, uint64(1), rec.SubnetID)
	assert.Equal(t, uint64(1000), rec.JoinedAt)
	assert.True(t, s.IsActive(addr))
	assert.Equal(t, 1, s.RosterLen())
}

func TestRejoinOverwrites(t *testing.T) {
	s := New()
	addr := meridian.BytesToAddress([]byte("validator1"))

	s.Join(addr, big.NewInt(10), 1, 1000)
	require.NoError(t, s.AddDelegated(addr, big.NewInt(5)))
	s.SetInactive(addr)

	// rejoin resets own stake and wipes the delegated amount
	rec := s.Join(addr, big.NewInt(3), 2, 2000)
	assert.Equal(t, big.NewInt(3), rec.Stake.Own)
	assert.Equal(t, big.NewInt(0), rec.Stake.Delegated)
	assert.True(t, rec.Active)

	// roster counts joins, not distinct validators
	assert.Equal(t, 2, s.RosterLen())
	assert.Equal(t, []meridian.Address{addr, addr}, s.Roster())
}

func TestSetInactiveKeepsStake(t *testing.T) {
	s := New()
	addr := meridian.BytesToAddress([]byte("validator1"))
	s.Join(addr, big.NewInt(10), 1, 0)
	require.NoError(t, s.AddDelegated(addr, big.NewInt(4)))

	s.SetInactive(addr)
	rec := s.Get(addr)
	assert.False(t, rec.Active)
	assert.Equal(t, big.NewInt(10), rec.Stake.Own)
	assert.Equal(t, big.NewInt(4), rec.Stake.Delegated)

	// withdrawals still resolve against the inactive record
	require.NoError(t, s.SubDelegated(addr, big.NewInt(4)))
	assert.Equal(t, big.NewInt(0), rec.Stake.Delegated)
}

func TestSubDelegated(t *testing.T) {
	s := New()
	addr := meridian.BytesToAddress([]byte("validator1"))
	s.Join(addr, big.NewInt(10), 1, 0)
	require.NoError(t, s.AddDelegated(addr, big.NewInt(2)))

	err := s.SubDelegated(addr, big.NewInt(3))
	assert.Equal(t, reverts.CodeInsufficientDelegation, reverts.CodeOf(err))

	err = s.SubDelegated(meridian.BytesToAddress([]byte("nobody")), big.NewInt(1))
	assert.Equal(t, reverts.CodeUnknownEntity, reverts.CodeOf(err))
}

func TestSnapshotRestore(t *testing.T) {
	s := New()
	v1 := meridian.BytesToAddress([]byte("v1"))
	v2 := meridian.BytesToAddress([]byte("v2"))
	s.Join(v1, big.NewInt(10), 1, 100)
	s.Join(v2, big.NewInt(20), 1, 200)
	s.SetInactive(v2)

	records, roster := s.Snapshot()
	restored := New()
	restored.Restore(records, roster)

	assert.True(t, restored.IsActive(v1))
	assert.False(t, restored.IsActive(v2))
	assert.Equal(t, big.NewInt(20), restored.Get(v2).Stake.Own)
	assert.Equal(t, 2, restored.RosterLen())
}
