// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package world

// Item is a carryable object.
type Item struct {
	ID          Ref       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Weight      int       `json:"weight,omitempty"`
	Worth       int       `json:"worth,omitempty"`
	Openable    *Openable `json:"openable,omitempty"`
	Open        bool      `json:"open,omitempty"`
}

// Ref returns the item's identity.
func (i *Item) Ref() Ref { return i.ID }
