// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package perception

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embermud/embermud/internal/geometry"
	"github.com/embermud/embermud/internal/world"
)

func TestVisualDescriber_Tiers(t *testing.T) {
	d := VisualDescriber("full", "distant", "very distant")

	tests := []struct {
		strength float64
		want     string
	}{
		{1.0, "full"},
		{0.91, "full"},
		{0.9, "distant"},
		{0.51, "distant"},
		{0.5, "very distant"},
		{0.11, "very distant"},
	}
	for _, tt := range tests {
		got, ok := d(tt.strength, nil, nil)
		require.True(t, ok)
		assert.Equal(t, tt.want, got, "strength %.2f", tt.strength)
	}
}

func TestVisualDescriber_EmptyTierUnnoticed(t *testing.T) {
	d := VisualDescriber("full", "", "")
	_, ok := d(0.6, nil, nil)
	assert.False(t, ok)
}

func TestSpeechDescriber_Verbatim(t *testing.T) {
	eng := New(world.NewRealm(), rand.New(rand.NewSource(1)))
	d := eng.SpeechDescriber("Mira", "says", "hello there", ".", false)

	got, ok := d(0.95, nil, nil)
	require.True(t, ok)
	assert.Equal(t, `Mira says, "hello there."`, got)
}

func TestSpeechDescriber_KeepsTerminalMark(t *testing.T) {
	eng := New(world.NewRealm(), rand.New(rand.NewSource(1)))
	d := eng.SpeechDescriber("Mira", "shouts", "look out", "!", true)

	got, ok := d(0.95, nil, nil)
	require.True(t, ok)
	assert.Equal(t, `Mira shouts, "look out!"`, got)

	got, ok = d(0.7, nil, nil)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(got, `!"`), "got %q", got)
}

func TestSpeechDescriber_GarbledKeepsWordShape(t *testing.T) {
	eng := New(world.NewRealm(), rand.New(rand.NewSource(42)))
	d := eng.SpeechDescriber("Mira", "says", "meet me at the old mill", ".", false)

	got, ok := d(0.6, nil, nil)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(got, `You hear someone say, "`))

	quoted := got[strings.Index(got, `"`)+1 : strings.LastIndex(got, `.`)]
	words := strings.Fields(quoted)
	original := strings.Fields("meet me at the old mill")
	require.Len(t, words, len(original))
	for i, w := range words {
		assert.Len(t, w, len(original[i]))
		if strings.Contains(w, ".") {
			assert.Equal(t, strings.Repeat(".", len(original[i])), w)
		} else {
			assert.Equal(t, original[i], w)
		}
	}
}

func TestSpeechDescriber_GarbleProbabilityEndpoints(t *testing.T) {
	eng := New(world.NewRealm(), rand.New(rand.NewSource(7)))

	// At 0.8 survival probability is min(1, 1.5*0.6) = 0.9; at 0.2 it
	// is zero, so every word is dots.
	all := eng.garble("one two three", 0.2)
	assert.Equal(t, "... ... .....", all)

	intact := eng.garble("one two three", 1.0)
	assert.Equal(t, "one two three", intact)
}

func TestSpeechDescriber_DistantShoutAndMutter(t *testing.T) {
	eng := New(world.NewRealm(), rand.New(rand.NewSource(1)))

	shout := eng.SpeechDescriber("Mira", "shouts", "help", ".", true)
	got, ok := shout(0.3, nil, nil)
	require.True(t, ok)
	assert.Equal(t, "You hear a distant shout.", got)

	mutter := eng.SpeechDescriber("Mira", "says", "help", ".", false)
	got, ok = mutter(0.3, nil, nil)
	require.True(t, ok)
	assert.Equal(t, "You hear distant muttering.", got)
}

func TestMovementDescriber_Roles(t *testing.T) {
	realm := world.NewRealm()
	origin := &world.Room{ID: realm.NextRef(world.TypeRoom), Name: "origin"}
	dest := &world.Room{ID: realm.NextRef(world.TypeRoom), Name: "dest", Position: geometry.Point{Y: 10}}
	afar := &world.Room{ID: realm.NextRef(world.TypeRoom), Name: "afar", Position: geometry.Point{X: 30}}
	realm.Add(origin)
	realm.Add(dest)
	realm.Add(afar)

	eng := New(realm, rand.New(rand.NewSource(3)))
	d := eng.MovementDescriber("Mira", origin.ID, dest.ID, "north gate", geometry.Vector{Y: 100})

	got, ok := d(1.0, nil, origin)
	require.True(t, ok)
	assert.Equal(t, "Mira leaves through the north gate.", got)

	got, ok = d(1.0, nil, dest)
	require.True(t, ok)
	assert.Equal(t, "Mira arrives from the south.", got)

	got, ok = d(1.0, nil, afar)
	require.True(t, ok)
	assert.Contains(t, got, "north")
	assert.Contains(t, got, "Mira")

	// Far observers at low strength only see "someone".
	got, ok = d(0.4, nil, afar)
	require.True(t, ok)
	assert.NotContains(t, got, "Mira")
}

func TestCompassName(t *testing.T) {
	tests := []struct {
		v    geometry.Vector
		want string
	}{
		{geometry.Vector{Y: 100}, "north"},
		{geometry.Vector{Y: -100}, "south"},
		{geometry.Vector{X: 100}, "east"},
		{geometry.Vector{X: -100}, "west"},
		{geometry.Vector{X: 100, Y: 100}, "northeast"},
		{geometry.Vector{X: -100, Y: -100}, "southwest"},
		{geometry.Vector{Z: 100}, "up"},
		{geometry.Vector{Z: -100}, "down"},
		{geometry.Vector{}, "nowhere"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, CompassName(tt.v))
		})
	}
}
