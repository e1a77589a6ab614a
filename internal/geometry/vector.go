// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

// Package geometry provides integer 3D vectors and points for spatial
// reasoning on the room lattice.
package geometry

import "math"

// UnitLength is the length every normalized vector is scaled to.
// Directions are kept as integers, so a unit of 1 would collapse most
// of them onto the axes.
const UnitLength = 100

// Vector is a displacement in the room lattice.
type Vector struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Neg returns the opposite vector.
func (v Vector) Neg() Vector {
	return Vector{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// IsZero reports whether all components are zero.
func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Length returns the euclidean length of v.
func (v Vector) Length() float64 {
	return math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z))
}

// Normalize scales v to UnitLength, rounding each component to the
// nearest integer. The zero vector normalizes to itself.
func (v Vector) Normalize() Vector {
	l := v.Length()
	if l == 0 {
		return Vector{}
	}
	f := UnitLength / l
	return Vector{
		X: int(math.Round(float64(v.X) * f)),
		Y: int(math.Round(float64(v.Y) * f)),
		Z: int(math.Round(float64(v.Z) * f)),
	}
}

// Dot returns the dot product of v and o.
func (v Vector) Dot(o Vector) int {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Angle returns the angle between v and o in radians, in [0, π].
// The angle to or from a zero vector is defined as zero.
func (v Vector) Angle(o Vector) float64 {
	lv, lo := v.Length(), o.Length()
	if lv == 0 || lo == 0 {
		return 0
	}
	cos := float64(v.Dot(o)) / (lv * lo)
	// Integer rounding can push the cosine marginally out of range.
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos)
}
