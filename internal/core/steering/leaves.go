package steering

import (
	"fmt"

	"github.com/zeusync/brain/internal/core/brain"
	"github.com/zeusync/brain/internal/core/bt"
)

const (
	// ArrivalEpsilon is the distance at which MoveTo considers its goal reached.
	ArrivalEpsilon = 0.001
	// DefaultRadius is the SteerTo arrival radius when none is configured.
	DefaultRadius = 10.0
	// keep is the share of the old velocity retained per SteerTo adjustment.
	keep = 0.9
)

// MoveTo moves the position 1/Rate of the remaining way to Goal every tick and
// succeeds once within ArrivalEpsilon.
type MoveTo struct {
	Goal Vec2
	Rate float64
}

func (m MoveTo) Tick(k *Kinematics) bt.Result[Kinematics] {
	k.Position = k.Position.Add(m.Goal.Sub(k.Position).Scale(1 / m.Rate))
	if k.Position.Dist(m.Goal) < ArrivalEpsilon {
		return bt.Success[Kinematics]()
	}
	return bt.Running[Kinematics](m)
}

// SteerTo bends the velocity towards Goal at Speed and succeeds once the
// position is within Radius. The caller integrates velocity between ticks.
type SteerTo struct {
	Goal   Vec2
	Speed  float64
	Radius float64
}

func (s SteerTo) Tick(k *Kinematics) bt.Result[Kinematics] {
	radius := s.Radius
	if radius <= 0 {
		radius = DefaultRadius
	}
	if k.Position.Dist(s.Goal) <= radius {
		return bt.Success[Kinematics]()
	}

	desired := s.Goal.Sub(k.Position).Normalize().Scale(s.Speed)
	heading := k.Velocity.Normalize()
	if desired.Normalize().Dot(heading) <= 0 || k.Velocity.Len() < desired.Len() {
		k.Velocity = k.Velocity.Scale(keep)
		k.Velocity = k.Velocity.Add(desired.Sub(k.Velocity).Scale(1 - keep))
	}
	return bt.Running[Kinematics](s)
}

// Patrol walks between a and b forever.
func Patrol(a, b Vec2, speed float64) bt.Node[Kinematics] {
	return bt.NewRepeated[Kinematics](bt.NewSequence[Kinematics](
		SteerTo{Goal: a, Speed: speed},
		SteerTo{Goal: b, Speed: speed},
	))
}

type moveToParams struct {
	X    float64 `mapstructure:"x"`
	Y    float64 `mapstructure:"y"`
	Rate float64 `mapstructure:"rate"`
}

type steerToParams struct {
	X      float64 `mapstructure:"x"`
	Y      float64 `mapstructure:"y"`
	Speed  float64 `mapstructure:"speed"`
	Radius float64 `mapstructure:"radius"`
}

// RegisterLeaves exposes MoveTo and SteerTo to tree configs.
func RegisterLeaves(r *brain.Registry[Kinematics]) {
	r.Register("MoveTo", func(params map[string]any) (bt.Node[Kinematics], error) {
		var p moveToParams
		if err := brain.DecodeParams(params, &p); err != nil {
			return nil, err
		}
		if p.Rate < 1 {
			return nil, fmt.Errorf("%w: MoveTo rate must be >= 1, got %v", brain.ErrInvalidParams, p.Rate)
		}
		return MoveTo{Goal: V(p.X, p.Y), Rate: p.Rate}, nil
	})
	r.Register("SteerTo", func(params map[string]any) (bt.Node[Kinematics], error) {
		var p steerToParams
		if err := brain.DecodeParams(params, &p); err != nil {
			return nil, err
		}
		if p.Speed <= 0 {
			return nil, fmt.Errorf("%w: SteerTo speed must be positive", brain.ErrInvalidParams)
		}
		return SteerTo{Goal: V(p.X, p.Y), Speed: p.Speed, Radius: p.Radius}, nil
	})
}
