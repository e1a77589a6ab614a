// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package world

// Trigger names document the hook points entities may some day react
// to. The registry is documentation only: nothing executes triggers,
// and there is deliberately no scripting engine behind them.
type Trigger string

const (
	// TriggerOnEnter fires when a character enters the room.
	TriggerOnEnter Trigger = "onEnter"
	// TriggerOnLeave fires when a character leaves the room.
	TriggerOnLeave Trigger = "onLeave"
	// TriggerOnOpen fires when the portal or item is opened.
	TriggerOnOpen Trigger = "onOpen"
	// TriggerOnTake fires when the item is picked up.
	TriggerOnTake Trigger = "onTake"
)

// Triggers lists every documented trigger name.
var Triggers = []Trigger{TriggerOnEnter, TriggerOnLeave, TriggerOnOpen, TriggerOnTake}
