// Package core provides fundamental types and utilities for the brawl platform.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

import "math"

// Rect is an integer cell rectangle on the screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Vec is a 2D vector in world units. Y grows downward, like screen rows.
type Vec struct {
	X, Y float64
}

// V is shorthand for Vec{X: x, Y: y}.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * k.
func (v Vec) Scale(k float64) Vec {
	return Vec{X: v.X * k, Y: v.Y * k}
}

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Box is an axis-aligned bounding box in world units.
// Min is the top-left corner, Max the bottom-right.
type Box struct {
	Min, Max Vec
}

// BoxAt builds a box from its top-left corner and size.
func BoxAt(x, y, w, h float64) Box {
	return Box{Min: Vec{X: x, Y: y}, Max: Vec{X: x + w, Y: y + h}}
}

// BoxAround builds a box centered on c with the given size.
func BoxAround(c Vec, w, h float64) Box {
	return BoxAt(c.X-w/2, c.Y-h/2, w, h)
}

// W returns the box width.
func (b Box) W() float64 {
	return b.Max.X - b.Min.X
}

// H returns the box height.
func (b Box) H() float64 {
	return b.Max.Y - b.Min.Y
}

// Center returns the box center.
func (b Box) Center() Vec {
	return Vec{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2}
}

// Translate returns the box moved by d.
func (b Box) Translate(d Vec) Box {
	return Box{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Overlaps reports whether two boxes intersect.
// Touching edges do not count as overlap.
func (b Box) Overlaps(o Box) bool {
	if b.Min.X >= o.Max.X || o.Min.X >= b.Max.X {
		return false
	}
	if b.Min.Y >= o.Max.Y || o.Min.Y >= b.Max.Y {
		return false
	}
	return true
}

// Contains reports whether the point lies inside the box (max edges exclusive).
func (b Box) Contains(p Vec) bool {
	return p.X >= b.Min.X && p.X < b.Max.X && p.Y >= b.Min.Y && p.Y < b.Max.Y
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Sign returns -1, 0 or 1 following the sign of x.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
