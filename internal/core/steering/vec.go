package steering

import "math"

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }
func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }
func (v Vec2) Equal(o Vec2, eps float64) bool { return v.Dist(o) <= eps }

// Normalize returns the unit vector, or zero for a zero vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Kinematics is the tick context of steering leaves.
type Kinematics struct {
	Position Vec2 `json:"position"`
	Velocity Vec2 `json:"velocity"`
}

// Integrate advances the position by velocity over dt seconds.
func (k *Kinematics) Integrate(dt float64) {
	k.Position = k.Position.Add(k.Velocity.Scale(dt))
}
