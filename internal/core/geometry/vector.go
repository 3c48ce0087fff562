package geometry

import "math"

// Epsilon is the magnitude below which a vector is treated as directionless.
const Epsilon = 1e-6

// Vec2 is a plain 2D vector. All methods are value-based and return new vectors.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// V is a shorthand constructor.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{X: v.X * f, Y: v.Y * f}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec2) Mag() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec2) MagSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns the unit vector, or the zero vector when the magnitude
// is below Epsilon. Callers must treat a zero result as "no direction".
func (v Vec2) Normalize() Vec2 {
	mag := v.Mag()
	if mag < Epsilon {
		return Vec2{}
	}
	return Vec2{X: v.X / mag, Y: v.Y / mag}
}

// Orthogonal returns the clockwise perpendicular (y, -x).
func (v Vec2) Orthogonal() Vec2 {
	return Vec2{X: v.Y, Y: -v.X}
}

// OrthogonalCCW returns the counter-clockwise perpendicular (-y, x).
func (v Vec2) OrthogonalCCW() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

func (v Vec2) Neg() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

func (v Vec2) IsZero() bool {
	return v.MagSq() < Epsilon*Epsilon
}

// Normalize is the scalar form used where component pairs are more natural
// than Vec2 values.
func Normalize(dx, dy float64) (float64, float64) {
	mag := math.Hypot(dx, dy)
	if mag < Epsilon {
		return 0, 0
	}
	return dx / mag, dy / mag
}
