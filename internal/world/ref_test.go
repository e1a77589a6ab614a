// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef_String(t *testing.T) {
	ref := Ref{Type: TypeRoom, ID: 42}
	assert.Equal(t, "room.000000042", ref.String())
}

func TestRef_RoundTrip(t *testing.T) {
	types := []EntityType{TypeRoom, TypePortal, TypeItem, TypePlayer, TypeNPC, TypeRace, TypeClass, TypeGroup}
	ids := []uint32{0, 1, 42, 999999999, 4294967295}

	for _, typ := range types {
		for _, id := range ids {
			ref := Ref{Type: typ, ID: id}
			got, err := ParseRef(ref.String())
			require.NoError(t, err)
			assert.Equal(t, ref, got)
		}
	}
}

func TestParseRef_Malformed(t *testing.T) {
	for _, in := range []string{"", "room", "room.", "room.x", "dragon.000000001", ".5"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseRef(in)
			assert.Error(t, err)
		})
	}
}

func TestRef_Less(t *testing.T) {
	assert.True(t, Ref{Type: TypeRoom, ID: 9}.Less(Ref{Type: TypePortal, ID: 1}))
	assert.True(t, Ref{Type: TypeRoom, ID: 1}.Less(Ref{Type: TypeRoom, ID: 2}))
	assert.False(t, Ref{Type: TypeRoom, ID: 2}.Less(Ref{Type: TypeRoom, ID: 2}))
}

func TestRefSet(t *testing.T) {
	a := Ref{Type: TypePlayer, ID: 1}
	b := Ref{Type: TypeNPC, ID: 2}

	s := NewRefSet(a)
	assert.True(t, s.Contains(a))
	assert.False(t, s.Contains(b))

	s.Add(b)
	assert.True(t, s.Contains(b))

	s.Remove(a)
	assert.False(t, s.Contains(a))
}
