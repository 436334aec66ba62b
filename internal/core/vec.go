package core

import "math"

// Vec2 is a 2-component float vector.
type Vec2 struct{ X, Y float32 }

// Vec3 is a 3-component float vector.
type Vec3 struct{ X, Y, Z float32 }

// Vec4 is a 4-component float vector.
type Vec4 struct{ X, Y, Z, W float32 }

// IVec2 is a 2-component integer vector.
type IVec2 struct{ X, Y int32 }

// IVec3 is a 3-component integer vector.
type IVec3 struct{ X, Y, Z int32 }

// IVec4 is a 4-component integer vector.
type IVec4 struct{ X, Y, Z, W int32 }

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// XY drops the Z component.
func (v Vec3) XY() Vec2 { return Vec2{v.X, v.Y} }

// Components returns the vector as a fixed array, used by tweening code.
func (v Vec4) Components() [4]float32 { return [4]float32{v.X, v.Y, v.Z, v.W} }

// Vec4From builds a Vec4 from a component array.
func Vec4From(c [4]float32) Vec4 { return Vec4{c[0], c[1], c[2], c[3]} }

// HasNaN reports whether any component of c is NaN.
func HasNaN(c ...float32) bool {
	for _, f := range c {
		if math.IsNaN(float64(f)) {
			return true
		}
	}
	return false
}
