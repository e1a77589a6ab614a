// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package perception

import (
	"fmt"
	"strings"

	"github.com/embermud/embermud/internal/geometry"
	"github.com/embermud/embermud/internal/world"
)

// Strength tiers for generic visual events.
const (
	FullTier    = 0.9
	DistantTier = 0.5
)

// Speech tier above which the quote arrives verbatim.
const verbatimTier = 0.8

// VisualDescriber renders a generic visual event in three tiers: the
// full description above 0.9, the distant one above 0.5, and the very
// distant one below. An empty tier text means the event goes unnoticed
// at that strength.
func VisualDescriber(full, distant, veryDistant string) Describe {
	return func(strength float64, _ *world.Character, _ *world.Room) (string, bool) {
		var text string
		switch {
		case strength > FullTier:
			text = full
		case strength > DistantTier:
			text = distant
		default:
			text = veryDistant
		}
		return text, text != ""
	}
}

// SpeechDescriber renders speech. Above 0.8 the observer gets the
// verbatim quote with the speaker's name; between 0.5 and 0.8 a
// word-by-word garbled reconstruction; below that only a directionless
// impression of sound. mark is the terminal punctuation the quote
// closes with.
func (e *Engine) SpeechDescriber(speaker string, verb, message, mark string, shouted bool) Describe {
	return func(strength float64, _ *world.Character, _ *world.Room) (string, bool) {
		switch {
		case strength > verbatimTier:
			return fmt.Sprintf("%s %s, \"%s%s\"", speaker, verb, message, mark), true
		case strength > DistantTier:
			return fmt.Sprintf("You hear someone %s, \"%s%s\"", infinitive(verb), e.garble(message, strength), mark), true
		default:
			if shouted {
				return "You hear a distant shout.", true
			}
			return "You hear distant muttering.", true
		}
	}
}

// garble degrades a message word by word. Each word survives with
// probability min(1, 1.5*(strength-0.2)); a lost word is replaced by
// dots of the same length.
func (e *Engine) garble(message string, strength float64) string {
	p := 1.5 * (strength - 0.2)
	if p > 1 {
		p = 1
	}
	words := strings.Fields(message)
	for i, w := range words {
		if e.rng.Float64() >= p {
			words[i] = strings.Repeat(".", len(w))
		}
	}
	return strings.Join(words, " ")
}

func infinitive(verb string) string {
	switch verb {
	case "says":
		return "say"
	case "shouts":
		return "shout"
	default:
		return strings.TrimSuffix(verb, "s")
	}
}

// distantMovementFrames vary the narration for observers watching a
// move from afar.
var distantMovementFrames = []string{
	"You see %s moving %s.",
	"In the distance you notice %s heading %s.",
	"%s passes by, heading %s.",
}

// MovementDescriber renders a party's move. Observers in the origin
// room see the exit taken, observers in the destination see the
// arrival, and everyone else sees direction and distance.
func (e *Engine) MovementDescriber(party string, origin, dest world.Ref, exitName string, dir geometry.Vector) Describe {
	return func(strength float64, _ *world.Character, room *world.Room) (string, bool) {
		switch room.ID {
		case origin:
			if exitName != "" {
				return fmt.Sprintf("%s leaves through the %s.", party, exitName), true
			}
			return fmt.Sprintf("%s leaves %s.", party, CompassName(dir)), true
		case dest:
			return fmt.Sprintf("%s arrives from the %s.", party, compassNoun(dir.Neg())), true
		default:
			subject := party
			if strength <= DistantTier {
				subject = "someone"
			}
			frame := distantMovementFrames[e.rng.Intn(len(distantMovementFrames))]
			text := fmt.Sprintf(frame, subject, CompassName(dir))
			// Frames may start with the subject.
			return strings.ToUpper(text[:1]) + text[1:], true
		}
	}
}

// CompassName names the dominant direction of a vector, e.g. "north",
// "southwest", "up". The zero vector is "nowhere".
func CompassName(v geometry.Vector) string {
	n := v.Normalize()
	// Components of a 100-unit vector beyond this contribute a compass
	// direction; below it they are treated as drift.
	const axisThreshold = 40

	if n.IsZero() {
		return "nowhere"
	}
	if n.Z > axisThreshold && abs(n.X) <= axisThreshold && abs(n.Y) <= axisThreshold {
		return "up"
	}
	if n.Z < -axisThreshold && abs(n.X) <= axisThreshold && abs(n.Y) <= axisThreshold {
		return "down"
	}

	var b strings.Builder
	if n.Y > axisThreshold {
		b.WriteString("north")
	} else if n.Y < -axisThreshold {
		b.WriteString("south")
	}
	if n.X > axisThreshold {
		b.WriteString("east")
	} else if n.X < -axisThreshold {
		b.WriteString("west")
	}
	if b.Len() == 0 {
		if n.Z > 0 {
			return "up"
		}
		return "down"
	}
	return b.String()
}

// compassNoun renders a direction as the noun used in "arrives from
// the X". Vertical arrivals read "above" and "below".
func compassNoun(v geometry.Vector) string {
	name := CompassName(v)
	switch name {
	case "up":
		return "above"
	case "down":
		return "below"
	default:
		return name
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
