// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package command

import (
	"strings"

	"github.com/samber/oops"
)

// ParsedCommand is one line of input split into a command name and
// its unparsed argument string.
type ParsedCommand struct {
	Name string // first whitespace-delimited token
	Args string // remainder, internal whitespace preserved
	Raw  string // original input
}

// Parse splits raw input into command name and arguments. Arguments
// keep their internal whitespace so speech comes through verbatim.
func Parse(input string) (*ParsedCommand, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, oops.Code("EMPTY_INPUT").Errorf("no command provided")
	}

	idx := strings.IndexAny(trimmed, " \t")
	if idx == -1 {
		return &ParsedCommand{Name: trimmed, Raw: input}, nil
	}
	return &ParsedCommand{
		Name: trimmed[:idx],
		Args: strings.TrimLeft(trimmed[idx+1:], " \t"),
		Raw:  input,
	}, nil
}

// Fields splits an argument string on whitespace.
func Fields(args string) []string {
	return strings.Fields(args)
}

// compassDirections maps direction commands and their abbreviations
// to the canonical exit-phrase the movement handler resolves.
var compassDirections = map[string]string{
	"north": "north", "n": "north",
	"south": "south", "s": "south",
	"east": "east", "e": "east",
	"west": "west", "w": "west",
	"northeast": "northeast", "ne": "northeast",
	"northwest": "northwest", "nw": "northwest",
	"southeast": "southeast", "se": "southeast",
	"southwest": "southwest", "sw": "southwest",
	"up": "up", "u": "up",
	"down": "down", "d": "down",
}

// rewriteCompass turns a bare direction into the equivalent go
// command, so "north" behaves exactly like "go north".
func rewriteCompass(p *ParsedCommand) *ParsedCommand {
	dir, ok := compassDirections[strings.ToLower(p.Name)]
	if !ok || p.Args != "" {
		return p
	}
	return &ParsedCommand{Name: "go", Args: dir, Raw: p.Raw}
}
