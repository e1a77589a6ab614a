// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package handlers

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embermud/embermud/internal/command"
	"github.com/embermud/embermud/internal/geometry"
	"github.com/embermud/embermud/internal/world"
)

type reply struct {
	RequestID    string          `json:"requestId"`
	ErrorCode    int             `json:"errorCode"`
	ErrorMessage string          `json:"errorMessage"`
	Data         json.RawMessage `json:"data"`
}

// runAPI executes an api handler and decodes its envelope.
func (f *fixture) runAPI(t *testing.T, h command.Handler, player world.Ref, args string) reply {
	t.Helper()
	out, err := f.run(t, h, player, args)
	require.NoError(t, err, "api handlers report failures inside the envelope")
	var r reply
	require.NoError(t, json.Unmarshal([]byte(out), &r), "output %q", out)
	return r
}

func (f *fixture) addAdmin(name string, room *world.Room) *world.Character {
	ch := f.addPlayer(name, room)
	ch.Admin = true
	return ch
}

func TestAPIDeniesNonAdmin(t *testing.T) {
	f := newFixture(t)
	tavern := f.addRoom("The Tavern", geometry.Point{})
	alice := f.addPlayer("Alice", tavern)

	handlers := map[string]struct {
		h    command.Handler
		args string
	}{
		"api-entity-list":   {APIEntityListHandler, "req-1 room"},
		"api-entity-create": {APIEntityCreateHandler, `req-1 room {}`},
		"api-entity-delete": {APIEntityDeleteHandler, "req-1 " + tavern.ID.String()},
		"api-entity-set":    {APIEntitySetHandler, "req-1 " + tavern.ID.String() + ` {}`},
		"api-property-set":  {APIPropertySetHandler, "req-1 " + tavern.ID.String() + " name Inn"},
	}
	for name, tc := range handlers {
		t.Run(name, func(t *testing.T) {
			r := f.runAPI(t, tc.h, alice.ID, tc.args)
			assert.Equal(t, "req-1", r.RequestID)
			assert.Equal(t, 403, r.ErrorCode)
		})
	}
}

func TestAPIEntityList(t *testing.T) {
	f := newFixture(t)
	tavern := f.addRoom("The Tavern", geometry.Point{})
	f.addRoom("The Cellar", geometry.Point{Y: 10})
	f.addRoom("North Street", geometry.Point{Y: 20})
	admin := f.addAdmin("Root", tavern)

	r := f.runAPI(t, APIEntityListHandler, admin.ID, "req-7 room")
	require.Equal(t, 0, r.ErrorCode)
	var entries []entitySummary
	require.NoError(t, json.Unmarshal(r.Data, &entries))
	assert.Len(t, entries, 3)

	r = f.runAPI(t, APIEntityListHandler, admin.ID, "req-8 room the*")
	require.Equal(t, 0, r.ErrorCode)
	require.NoError(t, json.Unmarshal(r.Data, &entries))
	assert.Len(t, entries, 2)

	r = f.runAPI(t, APIEntityListHandler, admin.ID, "req-9 spaceship")
	assert.Equal(t, 400, r.ErrorCode)
}

func TestAPIEntityCreate(t *testing.T) {
	f := newFixture(t)
	tavern := f.addRoom("The Tavern", geometry.Point{})
	admin := f.addAdmin("Root", tavern)

	r := f.runAPI(t, APIEntityCreateHandler, admin.ID,
		`req-1 room {"name":"The Attic","position":{"x":0,"y":0,"z":10}}`)
	require.Equal(t, 0, r.ErrorCode, "message: %s", r.ErrorMessage)

	var created entitySummary
	require.NoError(t, json.Unmarshal(r.Data, &created))
	ref, err := world.ParseRef(created.Ref)
	require.NoError(t, err)
	room := f.realm.Room(ref)
	require.NotNil(t, room)
	assert.Equal(t, "The Attic", room.Name)
	assert.Equal(t, 10, room.Position.Z)
}

func TestAPIEntityCreatePlayerHashesPassword(t *testing.T) {
	f := newFixture(t)
	tavern := f.addRoom("The Tavern", geometry.Point{})
	admin := f.addAdmin("Root", tavern)

	body := fmt.Sprintf(`{"name":"Bob","race":%q,"room":%q,"hp":20,"maxHp":20,"password":"hunter2"}`,
		f.race.ID.String(), tavern.ID.String())
	r := f.runAPI(t, APIEntityCreateHandler, admin.ID, "req-2 player "+body)
	require.Equal(t, 0, r.ErrorCode, "message: %s", r.ErrorMessage)

	var created entitySummary
	require.NoError(t, json.Unmarshal(r.Data, &created))
	ref, err := world.ParseRef(created.Ref)
	require.NoError(t, err)
	bob := f.realm.Character(ref)
	require.NotNil(t, bob)
	assert.True(t, strings.HasPrefix(bob.PasswordHash, "$argon2id$"))
	// The new player stands in the room they were created in.
	assert.Contains(t, f.realm.Room(tavern.ID).Characters, ref)

	r = f.runAPI(t, APIEntityCreateHandler, admin.ID, `req-3 player {"name":"Eve"}`)
	assert.Equal(t, 400, r.ErrorCode)
}

func TestAPIEntityCreateMalformedBody(t *testing.T) {
	f := newFixture(t)
	tavern := f.addRoom("The Tavern", geometry.Point{})
	admin := f.addAdmin("Root", tavern)

	r := f.runAPI(t, APIEntityCreateHandler, admin.ID, `req-1 room {broken`)
	assert.Equal(t, 400, r.ErrorCode)
}

func TestAPIEntityDelete(t *testing.T) {
	f := newFixture(t)
	tavern := f.addRoom("The Tavern", geometry.Point{})
	cellar := f.addRoom("The Cellar", geometry.Point{Y: 10})
	door := f.link(tavern, cellar, "iron door", doorFlags)
	admin := f.addAdmin("Root", tavern)

	r := f.runAPI(t, APIEntityDeleteHandler, admin.ID, "req-1 "+door.ID.String())
	require.Equal(t, 0, r.ErrorCode)
	assert.Nil(t, f.realm.Portal(door.ID))
	// The rooms no longer advertise the dead portal.
	assert.Empty(t, f.realm.Room(tavern.ID).Portals)
	assert.Empty(t, f.realm.Room(cellar.ID).Portals)

	r = f.runAPI(t, APIEntityDeleteHandler, admin.ID, "req-2 "+door.ID.String())
	assert.Equal(t, 404, r.ErrorCode)
}

func TestAPIEntitySet(t *testing.T) {
	f := newFixture(t)
	tavern := f.addRoom("The Tavern", geometry.Point{})
	admin := f.addAdmin("Root", tavern)

	r := f.runAPI(t, APIEntitySetHandler, admin.ID,
		"req-1 "+tavern.ID.String()+` {"name":"The Burned Tavern","description":"Charred beams."}`)
	require.Equal(t, 0, r.ErrorCode, "message: %s", r.ErrorMessage)
	assert.Equal(t, "The Burned Tavern", f.realm.Room(tavern.ID).Name)
	assert.Equal(t, "Charred beams.", f.realm.Room(tavern.ID).Description)

	r = f.runAPI(t, APIEntitySetHandler, admin.ID, "req-2 room.000009999 {}")
	assert.Equal(t, 404, r.ErrorCode)

	r = f.runAPI(t, APIEntitySetHandler, admin.ID,
		"req-3 "+tavern.ID.String()+` {"id":"room.000000099"}`)
	assert.Equal(t, 400, r.ErrorCode)
}

func TestAPIPropertySet(t *testing.T) {
	f := newFixture(t)
	tavern := f.addRoom("The Tavern", geometry.Point{})
	admin := f.addAdmin("Root", tavern)

	r := f.runAPI(t, APIPropertySetHandler, admin.ID,
		"req-1 "+admin.ID.String()+" gold 250")
	require.Equal(t, 0, r.ErrorCode, "message: %s", r.ErrorMessage)
	assert.Equal(t, 250, f.realm.Character(admin.ID).Gold)

	// A bare word is taken as a string value.
	r = f.runAPI(t, APIPropertySetHandler, admin.ID,
		"req-2 "+tavern.ID.String()+" name Snug")
	require.Equal(t, 0, r.ErrorCode)
	assert.Equal(t, "Snug", f.realm.Room(tavern.ID).Name)

	// A patch that does not fit the type leaves the entity intact.
	r = f.runAPI(t, APIPropertySetHandler, admin.ID,
		"req-3 "+tavern.ID.String()+` flags notanumber`)
	assert.Equal(t, 400, r.ErrorCode)
	require.NotNil(t, f.realm.Room(tavern.ID))
	assert.Equal(t, "Snug", f.realm.Room(tavern.ID).Name)
}

func TestAPIRenameKeepsPlayerIndex(t *testing.T) {
	f := newFixture(t)
	tavern := f.addRoom("The Tavern", geometry.Point{})
	admin := f.addAdmin("Root", tavern)
	bob := f.addPlayer("Bob", tavern)

	r := f.runAPI(t, APIPropertySetHandler, admin.ID,
		"req-1 "+bob.ID.String()+" name Robert")
	require.Equal(t, 0, r.ErrorCode)

	assert.Nil(t, f.realm.PlayerByName("Bob"))
	renamed := f.realm.PlayerByName("Robert")
	require.NotNil(t, renamed)
	assert.Equal(t, bob.ID, renamed.ID)
}
