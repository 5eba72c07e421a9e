package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Versifine/atrium/internal/physics"
)

// Pitch is the eye's elevation above the target's horizontal plane. The
// camera may dip MinPitch below the horizon and stop just short of looking
// straight down; past pi/2 the eye would cross to the far side of the target
// and invert the view heading.
const (
	MinPitch = -0.2
	MaxPitch = math.Pi/2 - 1e-3
)

type Orbit struct {
	target      physics.Vec3
	yaw         float64
	pitch       float64
	distance    float64
	minDistance float64
	maxDistance float64
}

type Config struct {
	Target      physics.Vec3
	Yaw         float64
	Pitch       float64
	Distance    float64
	MinDistance float64
	MaxDistance float64
}

func NewOrbit(cfg Config) *Orbit {
	o := &Orbit{
		target:      cfg.Target,
		minDistance: cfg.MinDistance,
		maxDistance: cfg.MaxDistance,
	}
	if o.minDistance <= 0 {
		o.minDistance = 3
	}
	if o.maxDistance < o.minDistance {
		o.maxDistance = o.minDistance
	}
	o.distance = mgl64.Clamp(cfg.Distance, o.minDistance, o.maxDistance)
	o.Rotate(cfg.Yaw, cfg.Pitch)
	return o
}

// Yaw is the heading of the camera's view direction on the ground plane.
func (o *Orbit) Yaw() float64 { return o.yaw }

func (o *Orbit) Pitch() float64 { return o.pitch }

func (o *Orbit) Distance() float64 { return o.distance }

func (o *Orbit) Target() physics.Vec3 { return o.target }

func (o *Orbit) Rotate(dYaw, dPitch float64) {
	o.yaw = physics.NormalizeAngle(o.yaw + dYaw)
	o.pitch = mgl64.Clamp(o.pitch+dPitch, MinPitch, MaxPitch)
}

func (o *Orbit) Zoom(delta float64) {
	o.distance = mgl64.Clamp(o.distance+delta, o.minDistance, o.maxDistance)
}

// Follow shifts the look-at target; the eye keeps its offset so the orbit
// travels with the character.
func (o *Orbit) Follow(delta physics.Vec3) {
	o.target = o.target.Add(delta)
}

// Eye is the camera position: behind the target along the view heading and
// raised by the pitch.
func (o *Orbit) Eye() physics.Vec3 {
	flat := physics.Heading(o.yaw).Mul(-o.distance * math.Cos(o.pitch))
	return o.target.Add(flat).Add(physics.Vec3{0, o.distance * math.Sin(o.pitch), 0})
}
