// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package geometry

// Point is an absolute position in the room lattice.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Sub returns the vector from o to p.
func (p Point) Sub(o Point) Vector {
	return Vector{X: p.X - o.X, Y: p.Y - o.Y, Z: p.Z - o.Z}
}

// Add returns the point reached by following v from p.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y, Z: p.Z + v.Z}
}

// Dist returns the euclidean distance between p and o.
func (p Point) Dist(o Point) float64 {
	return p.Sub(o).Length()
}
