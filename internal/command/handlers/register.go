// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package handlers

import (
	"github.com/embermud/embermud/internal/command"
)

// RegisterAll registers the core command set with the registry.
// Panics if any registration fails (indicates a programming error).
func RegisterAll(reg *command.Registry) {
	mustRegister := func(entry command.Entry) {
		if err := reg.Register(entry); err != nil {
			panic("failed to register core command " + entry.Name + ": " + err.Error())
		}
	}

	// Navigation
	mustRegister(command.Entry{
		Name:    "go",
		Handler: GoHandler,
		Help:    "Move through an exit",
		Usage:   "go <exit>",
	})
	mustRegister(command.Entry{
		Name:    "look",
		Aliases: []string{"l", "examine"},
		Handler: LookHandler,
		Help:    "Look at your surroundings",
		Usage:   "look",
	})

	// Portals
	mustRegister(command.Entry{
		Name:    "open",
		Handler: OpenHandler,
		Help:    "Open a door or gate",
		Usage:   "open <portal>",
	})
	mustRegister(command.Entry{
		Name:    "close",
		Handler: CloseHandler,
		Help:    "Close a door or gate",
		Usage:   "close <portal>",
	})

	// Combat
	mustRegister(command.Entry{
		Name:    "kill",
		Handler: KillHandler,
		Help:    "Attack a character",
		Usage:   "kill <target>",
	})

	// Speech
	mustRegister(command.Entry{
		Name:    "say",
		Handler: SayHandler,
		Help:    "Speak to everyone in the room",
		Usage:   "say <message>",
	})
	mustRegister(command.Entry{
		Name:    "shout",
		Handler: ShoutHandler,
		Help:    "Shout to everyone within earshot",
		Usage:   "shout <message>",
	})

	// Groups
	mustRegister(command.Entry{
		Name:    "follow",
		Handler: FollowHandler,
		Help:    "Follow another character, or stop following",
		Usage:   "follow [target]",
	})
	mustRegister(command.Entry{
		Name:    "unfollow",
		Handler: UnfollowHandler,
		Help:    "Stop following your leader",
		Usage:   "unfollow",
	})
	mustRegister(command.Entry{
		Name:    "disband",
		Handler: DisbandHandler,
		Help:    "Dissolve the group you lead",
		Usage:   "disband",
	})
	mustRegister(command.Entry{
		Name:    "lose",
		Handler: LoseHandler,
		Help:    "Remove a follower from your group",
		Usage:   "lose <follower>",
	})

	// Session
	mustRegister(command.Entry{
		Name:    "who",
		Handler: WhoHandler,
		Help:    "See who is online",
		Usage:   "who",
	})
	mustRegister(command.Entry{
		Name:    "quit",
		Handler: QuitHandler,
		Help:    "Disconnect from the game",
		Usage:   "quit",
	})
	mustRegister(command.Entry{
		Name:    "help",
		Handler: NewHelpHandler(reg),
		Help:    "List commands or describe one",
		Usage:   "help [command]",
	})

	// Admin API. These check the admin bit themselves so denials come
	// back inside the JSON envelope instead of as plain text.
	mustRegister(command.Entry{
		Name:    "api-entity-list",
		Handler: APIEntityListHandler,
		Help:    "List entities of a type (admin)",
		Usage:   "api-entity-list <requestId> <type> [pattern]",
	})
	mustRegister(command.Entry{
		Name:    "api-entity-create",
		Handler: APIEntityCreateHandler,
		Help:    "Create an entity from JSON (admin)",
		Usage:   "api-entity-create <requestId> <type> <json>",
	})
	mustRegister(command.Entry{
		Name:    "api-entity-delete",
		Handler: APIEntityDeleteHandler,
		Help:    "Delete an entity (admin)",
		Usage:   "api-entity-delete <requestId> <ref>",
	})
	mustRegister(command.Entry{
		Name:    "api-entity-set",
		Handler: APIEntitySetHandler,
		Help:    "Merge JSON fields onto an entity (admin)",
		Usage:   "api-entity-set <requestId> <ref> <json>",
	})
	mustRegister(command.Entry{
		Name:    "api-property-set",
		Handler: APIPropertySetHandler,
		Help:    "Set one field on an entity (admin)",
		Usage:   "api-property-set <requestId> <ref> <property> <value>",
	})
}
