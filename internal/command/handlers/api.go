// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package handlers

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gobwas/glob"

	"github.com/embermud/embermud/internal/auth"
	"github.com/embermud/embermud/internal/command"
	"github.com/embermud/embermud/internal/world"
)

// API error codes, modeled on their HTTP counterparts.
const (
	apiOK               = 0
	apiBadRequest       = 400
	apiPermissionDenied = 403
	apiNotFound         = 404
)

// envelope is the JSON reply every api command writes, success or not.
type envelope struct {
	RequestID    string `json:"requestId"`
	ErrorCode    int    `json:"errorCode"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	Data         any    `json:"data,omitempty"`
}

// respond writes the envelope as a single JSON line. A marshal
// failure can only come from Data and degrades to a bare error reply.
func respond(ctx context.Context, exec *command.Execution, cmd string, env envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		data, _ = json.Marshal(envelope{
			RequestID:    env.RequestID,
			ErrorCode:    apiBadRequest,
			ErrorMessage: "reply serialization failed",
		})
	}
	writeOutput(ctx, exec, cmd, string(data))
}

func respondError(ctx context.Context, exec *command.Execution, cmd, requestID string, code int, msg string) {
	respond(ctx, exec, cmd, envelope{RequestID: requestID, ErrorCode: code, ErrorMessage: msg})
}

// apiArgs splits the argument line into the request id and up to n-1
// further fields, the last of which keeps its remaining whitespace so
// JSON payloads survive. ok is false when fewer than n fields exist.
func apiArgs(args string, n int) (requestID string, rest []string, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(args), " ", n)
	if parts[0] == "" || len(parts) < n {
		return parts[0], nil, false
	}
	for i := 1; i < len(parts); i++ {
		rest = append(rest, strings.TrimSpace(parts[i]))
	}
	return parts[0], rest, true
}

// isAdmin reports whether the issuing character has the admin bit.
// The api commands enforce this themselves so that a denial still
// comes back in the JSON envelope.
func isAdmin(exec *command.Execution) bool {
	ch := exec.Services.Realm.Character(exec.Player)
	return ch != nil && ch.Admin
}

func nameOf(e world.Entity) string {
	switch v := e.(type) {
	case *world.Room:
		return v.Name
	case *world.Portal:
		return v.Name
	case *world.Item:
		return v.Name
	case *world.Character:
		return v.Name
	case *world.Race:
		return v.Name
	case *world.Class:
		return v.Name
	default:
		return ""
	}
}

type entitySummary struct {
	Ref  string `json:"ref"`
	Name string `json:"name,omitempty"`
}

// APIEntityListHandler lists entities of a type, optionally filtered
// by a name wildcard: api-entity-list <requestId> <type> [pattern].
func APIEntityListHandler(ctx context.Context, exec *command.Execution) error {
	const cmd = "api-entity-list"
	requestID, rest, ok := apiArgs(exec.Args, 2)
	if !ok {
		respondError(ctx, exec, cmd, requestID, apiBadRequest, "usage: api-entity-list <requestId> <type> [pattern]")
		return nil
	}
	if !isAdmin(exec) {
		respondError(ctx, exec, cmd, requestID, apiPermissionDenied, "admin required")
		return nil
	}

	fields := strings.Fields(rest[0])
	t, err := world.ParseEntityType(fields[0])
	if err != nil {
		respondError(ctx, exec, cmd, requestID, apiBadRequest, "unknown entity type "+fields[0])
		return nil
	}
	var pattern glob.Glob
	if len(fields) > 1 {
		pattern, err = glob.Compile(strings.ToLower(fields[1]))
		if err != nil {
			respondError(ctx, exec, cmd, requestID, apiBadRequest, "bad name pattern")
			return nil
		}
	}

	realm := exec.Services.Realm
	summaries := []entitySummary{}
	for _, ref := range realm.Refs(t) {
		e, ok := realm.Get(ref)
		if !ok {
			continue
		}
		name := nameOf(e)
		if pattern != nil && !pattern.Match(strings.ToLower(name)) {
			continue
		}
		summaries = append(summaries, entitySummary{Ref: ref.String(), Name: name})
	}
	respond(ctx, exec, cmd, envelope{RequestID: requestID, Data: summaries})
	return nil
}

// APIEntityCreateHandler creates an entity from a JSON body:
// api-entity-create <requestId> <type> <json>. A plaintext "password"
// field on a player body is hashed into passwordHash.
func APIEntityCreateHandler(ctx context.Context, exec *command.Execution) error {
	const cmd = "api-entity-create"
	requestID, rest, ok := apiArgs(exec.Args, 3)
	if !ok {
		respondError(ctx, exec, cmd, requestID, apiBadRequest, "usage: api-entity-create <requestId> <type> <json>")
		return nil
	}
	if !isAdmin(exec) {
		respondError(ctx, exec, cmd, requestID, apiPermissionDenied, "admin required")
		return nil
	}

	t, err := world.ParseEntityType(rest[0])
	if err != nil {
		respondError(ctx, exec, cmd, requestID, apiBadRequest, "unknown entity type "+rest[0])
		return nil
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(rest[1]), &body); err != nil {
		respondError(ctx, exec, cmd, requestID, apiBadRequest, "malformed entity body")
		return nil
	}

	if t == world.TypePlayer {
		password, _ := body["password"].(string)
		if password == "" {
			respondError(ctx, exec, cmd, requestID, apiBadRequest, "player body requires a password field")
			return nil
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			respondError(ctx, exec, cmd, requestID, apiBadRequest, "password hashing failed")
			return nil
		}
		delete(body, "password")
		body["passwordHash"] = hash
	}

	realm := exec.Services.Realm
	ref := realm.NextRef(t)
	body["id"] = ref.String()
	data, err := json.Marshal(body)
	if err != nil {
		respondError(ctx, exec, cmd, requestID, apiBadRequest, "malformed entity body")
		return nil
	}
	if err := realm.Hydrate(ref, data); err != nil {
		respondError(ctx, exec, cmd, requestID, apiBadRequest, "entity body does not fit type "+t.String())
		return nil
	}
	realm.MarkDirty(ref)

	// New characters materialize in their room's occupant list.
	if ch := realm.Character(ref); ch != nil {
		if room := realm.Room(ch.Room); room != nil {
			room.AddCharacter(ref)
			realm.MarkDirty(room.ID)
		}
	}

	respond(ctx, exec, cmd, envelope{RequestID: requestID, Data: entitySummary{Ref: ref.String()}})
	return nil
}

// APIEntityDeleteHandler removes an entity:
// api-entity-delete <requestId> <ref>.
func APIEntityDeleteHandler(ctx context.Context, exec *command.Execution) error {
	const cmd = "api-entity-delete"
	requestID, rest, ok := apiArgs(exec.Args, 2)
	if !ok {
		respondError(ctx, exec, cmd, requestID, apiBadRequest, "usage: api-entity-delete <requestId> <ref>")
		return nil
	}
	if !isAdmin(exec) {
		respondError(ctx, exec, cmd, requestID, apiPermissionDenied, "admin required")
		return nil
	}

	ref, err := world.ParseRef(rest[0])
	if err != nil {
		respondError(ctx, exec, cmd, requestID, apiBadRequest, "malformed ref "+rest[0])
		return nil
	}
	realm := exec.Services.Realm
	e, ok := realm.Get(ref)
	if !ok {
		respondError(ctx, exec, cmd, requestID, apiNotFound, "no entity "+ref.String())
		return nil
	}

	// Scrub the back-references the graph keeps for this entity.
	switch v := e.(type) {
	case *world.Character:
		if room := realm.Room(v.Room); room != nil {
			room.RemoveCharacter(ref)
			realm.MarkDirty(room.ID)
		}
	case *world.Portal:
		for _, roomRef := range []world.Ref{v.Room, v.Room2} {
			if room := realm.Room(roomRef); room != nil {
				room.RemovePortal(ref)
				realm.MarkDirty(room.ID)
			}
		}
	}
	realm.Remove(ref)

	respond(ctx, exec, cmd, envelope{RequestID: requestID, Data: entitySummary{Ref: ref.String()}})
	return nil
}

// APIEntitySetHandler merges a JSON body over an existing entity:
// api-entity-set <requestId> <ref> <json>.
func APIEntitySetHandler(ctx context.Context, exec *command.Execution) error {
	const cmd = "api-entity-set"
	requestID, rest, ok := apiArgs(exec.Args, 3)
	if !ok {
		respondError(ctx, exec, cmd, requestID, apiBadRequest, "usage: api-entity-set <requestId> <ref> <json>")
		return nil
	}
	if !isAdmin(exec) {
		respondError(ctx, exec, cmd, requestID, apiPermissionDenied, "admin required")
		return nil
	}

	var patch map[string]any
	if err := json.Unmarshal([]byte(rest[1]), &patch); err != nil {
		respondError(ctx, exec, cmd, requestID, apiBadRequest, "malformed patch body")
		return nil
	}
	code, msg := applyPatch(exec.Services.Realm, rest[0], patch)
	respondError(ctx, exec, cmd, requestID, code, msg)
	return nil
}

// APIPropertySetHandler sets one field on an existing entity:
// api-property-set <requestId> <ref> <property> <value>. The value is
// a JSON literal; an unquoted bare word is taken as a string.
func APIPropertySetHandler(ctx context.Context, exec *command.Execution) error {
	const cmd = "api-property-set"
	requestID, rest, ok := apiArgs(exec.Args, 4)
	if !ok {
		respondError(ctx, exec, cmd, requestID, apiBadRequest, "usage: api-property-set <requestId> <ref> <property> <value>")
		return nil
	}
	if !isAdmin(exec) {
		respondError(ctx, exec, cmd, requestID, apiPermissionDenied, "admin required")
		return nil
	}

	var value any
	if err := json.Unmarshal([]byte(rest[2]), &value); err != nil {
		value = rest[2]
	}
	code, msg := applyPatch(exec.Services.Realm, rest[0], map[string]any{rest[1]: value})
	respondError(ctx, exec, cmd, requestID, code, msg)
	return nil
}

// applyPatch shallow-merges patch fields over the entity's serialized
// form and reinserts it, which keeps the name indices consistent when
// a patch renames a player or race. The id field cannot be patched.
func applyPatch(realm *world.Realm, refText string, patch map[string]any) (code int, msg string) {
	ref, err := world.ParseRef(refText)
	if err != nil {
		return apiBadRequest, "malformed ref " + refText
	}
	e, ok := realm.Get(ref)
	if !ok {
		return apiNotFound, "no entity " + ref.String()
	}

	current, err := json.Marshal(e)
	if err != nil {
		return apiBadRequest, "entity serialization failed"
	}
	var merged map[string]any
	if err := json.Unmarshal(current, &merged); err != nil {
		return apiBadRequest, "entity serialization failed"
	}
	for k, v := range patch {
		if k == "id" {
			return apiBadRequest, "the id field cannot be changed"
		}
		merged[k] = v
	}
	data, err := json.Marshal(merged)
	if err != nil {
		return apiBadRequest, "malformed patch body"
	}

	realm.Remove(ref)
	if err := realm.Hydrate(ref, data); err != nil {
		// The original state round-trips, so this restore holds.
		_ = realm.Hydrate(ref, current)
		realm.MarkDirty(ref)
		return apiBadRequest, "patch does not fit entity type " + ref.Type.String()
	}
	realm.MarkDirty(ref)
	return apiOK, ""
}
