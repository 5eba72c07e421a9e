package character

import (
	"fmt"
	"log/slog"

	"github.com/Versifine/atrium/internal/event"
	"github.com/Versifine/atrium/internal/input"
	"github.com/Versifine/atrium/internal/physics"
)

// Blender is the animation player the controller drives. Play reports
// whether a new cross-fade was started.
type Blender interface {
	Play(name string, fade float64) (bool, error)
}

// CameraFrame exposes the camera heading used to make movement
// view-relative.
type CameraFrame interface {
	Yaw() float64
}

type Params struct {
	WalkSpeed    float64
	RunSpeed     float64
	FadeDuration float64
	TurnRate     float64
	MaxTickDelta float64
}

func DefaultParams() Params {
	return Params{
		WalkSpeed:    physics.DefaultWalkSpeed,
		RunSpeed:     physics.DefaultRunSpeed,
		FadeDuration: physics.DefaultFadeDuration,
		TurnRate:     physics.DefaultTurnRate,
		MaxTickDelta: physics.DefaultMaxTickDelta,
	}
}

// Frame is the controller output for one tick. LookAtDelta is how far the
// camera target should shift to keep following the character.
type Frame struct {
	Position    physics.Vec3
	Facing      float64
	Action      Action
	LookAtDelta physics.Vec3
	Moved       bool
	Blended     bool
}

type Controller struct {
	params  Params
	blender Blender
	bus     *event.Bus

	position  physics.Vec3
	facing    float64
	action    Action
	runToggle bool
}

func New(spawn physics.Vec3, initial Action, runToggle bool, blender Blender, params Params) *Controller {
	return &Controller{
		params:    params,
		blender:   blender,
		position:  spawn,
		action:    initial,
		runToggle: runToggle,
	}
}

func (c *Controller) SetBus(bus *event.Bus) {
	c.bus = bus
}

// DesiredAction is the pure state decision: Idle without directional keys,
// otherwise Run or Walk depending on the run toggle.
func DesiredAction(in input.Frame, runToggle bool) Action {
	if !in.AnyDirectional() {
		return Idle
	}
	if runToggle {
		return Run
	}
	return Walk
}

func (c *Controller) Speed(a Action) float64 {
	switch a {
	case Walk:
		return c.params.WalkSpeed
	case Run:
		return c.params.RunSpeed
	default:
		return 0
	}
}

func (c *Controller) Tick(in input.Frame, cam CameraFrame, dt float64) Frame {
	if in.ToggleRun {
		c.SwitchRunToggle()
	}

	out := Frame{}
	desired := DesiredAction(in, c.runToggle)
	if desired != c.action {
		out.Blended = c.transition(desired)
	}

	dt = physics.ClampDelta(dt, c.params.MaxTickDelta)
	offset, ok := physics.DirectionOffset(in.Axes())
	if ok && dt > 0 {
		var yaw float64
		if cam != nil {
			yaw = cam.Yaw()
		}
		heading := physics.NormalizeAngle(yaw + offset)
		c.facing = physics.ApproachAngle(c.facing, heading, c.params.TurnRate, dt)

		delta := physics.Heading(heading).Mul(c.Speed(c.action) * dt)
		c.position = c.position.Add(delta)
		out.LookAtDelta = delta
		out.Moved = delta.Len() > 0
	}

	out.Position = c.position
	out.Facing = c.facing
	out.Action = c.action
	return out
}

func (c *Controller) transition(desired Action) bool {
	prev := c.action
	c.action = desired
	c.bus.Publish(event.ActionChangedEvent{From: prev.String(), To: desired.String()})

	if c.blender == nil {
		return false
	}
	started, err := c.blender.Play(desired.String(), c.params.FadeDuration)
	if err != nil {
		slog.Warn("Animation clip unavailable", "action", desired.String(), "error", err)
		return false
	}
	return started
}

func (c *Controller) SwitchRunToggle() {
	c.runToggle = !c.runToggle
	slog.Debug("run toggle switched", "enabled", c.runToggle)
}

func (c *Controller) RunToggle() bool       { return c.runToggle }
func (c *Controller) Position() physics.Vec3 { return c.position }
func (c *Controller) Facing() float64        { return c.facing }
func (c *Controller) Action() Action         { return c.action }

// Teleport moves the character without animating. The returned delta lets
// the camera follow the jump.
func (c *Controller) Teleport(pos physics.Vec3) physics.Vec3 {
	delta := pos.Sub(c.position)
	c.position = pos
	return delta
}

func (c *Controller) String() string {
	return fmt.Sprintf("pos=(%.2f, %.2f, %.2f) facing=%.2f action=%s run=%t",
		c.position.X(), c.position.Y(), c.position.Z(), c.facing, c.action, c.runToggle)
}
