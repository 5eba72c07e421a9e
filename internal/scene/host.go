package scene

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/Versifine/atrium/internal/animation"
	"github.com/Versifine/atrium/internal/camera"
	"github.com/Versifine/atrium/internal/character"
	"github.com/Versifine/atrium/internal/client"
	"github.com/Versifine/atrium/internal/input"
	"github.com/Versifine/atrium/internal/logger"
	"github.com/Versifine/atrium/internal/physics"
	"github.com/Versifine/atrium/internal/protocol"
	"github.com/Versifine/atrium/internal/session"
	"github.com/Versifine/atrium/internal/world"
)

// Sender publishes the local transform.
type Sender interface {
	SendMove(m protocol.Move) error
}

type Options struct {
	Orbit    *camera.Orbit
	Registry *world.Registry
	Mailbox  *session.Mailbox
	Sender   Sender
	// SendRate is the maximum number of move messages per second. Zero
	// disables sending.
	SendRate float64
}

// View is what a renderer needs after one tick.
type View struct {
	Tick      uint64
	Attached  bool
	Self      character.Frame
	RunToggle bool
	CameraYaw float64
	Eye       physics.Vec3
	Target    physics.Vec3
	Avatars   []world.Avatar
	Reported  int
}

// Host runs the per-frame update. Everything it owns is touched only from
// the goroutine calling Tick; other goroutines go through Enqueue.
type Host struct {
	orbit    *camera.Orbit
	registry *world.Registry
	mailbox  *session.Mailbox
	sender   Sender
	log      *slog.Logger

	controller *character.Controller
	blender    *animation.Blender

	sendInterval float64
	sinceSend    float64
	sent         bool
	lastSentPos  physics.Vec3
	lastSentYaw  float64
	ticks        uint64

	qmu   sync.Mutex
	queue []func()
}

func NewHost(opts Options) *Host {
	h := &Host{
		orbit:    opts.Orbit,
		registry: opts.Registry,
		mailbox:  opts.Mailbox,
		sender:   opts.Sender,
		log:      logger.Component("scene"),
	}
	if h.orbit == nil {
		h.orbit = camera.NewOrbit(camera.Config{})
	}
	if h.registry == nil {
		h.registry = world.NewRegistry(world.DefaultBlendFactor, nil)
	}
	if h.mailbox == nil {
		h.mailbox = session.NewMailbox()
	}
	if opts.SendRate > 0 {
		h.sendInterval = 1 / opts.SendRate
	}
	return h
}

// Attach installs the character once its model has loaded. Until then Tick
// still reconciles remote avatars.
func (h *Host) Attach(c *character.Controller, b *animation.Blender) {
	h.controller = c
	h.blender = b
	h.log.Info("Character attached", "state", c.String())
}

// Enqueue schedules fn to run at the start of the next Tick.
func (h *Host) Enqueue(fn func()) {
	h.qmu.Lock()
	h.queue = append(h.queue, fn)
	h.qmu.Unlock()
}

func (h *Host) Tick(in input.Frame, dt float64) View {
	h.runQueued()
	h.ticks++

	h.mailbox.Drain(h.registry)

	view := View{Tick: h.ticks}
	if h.controller != nil {
		f := h.controller.Tick(in, h.orbit, dt)
		h.orbit.Follow(f.LookAtDelta)
		if h.blender != nil {
			h.blender.Advance(dt)
		}
		h.maybeSend(f, dt)

		view.Attached = true
		view.Self = f
		view.RunToggle = h.controller.RunToggle()
	}

	view.CameraYaw = h.orbit.Yaw()
	view.Eye = h.orbit.Eye()
	view.Target = h.orbit.Target()
	view.Avatars = h.registry.Snapshot()
	view.Reported = h.registry.ReportedCount()
	return view
}

func (h *Host) runQueued() {
	h.qmu.Lock()
	queue := h.queue
	h.queue = nil
	h.qmu.Unlock()
	for _, fn := range queue {
		fn()
	}
}

func (h *Host) maybeSend(f character.Frame, dt float64) {
	if h.sender == nil || h.sendInterval <= 0 {
		return
	}
	h.sinceSend += physics.ClampDelta(dt, 0)
	if h.sinceSend < h.sendInterval {
		return
	}
	if h.sent && f.Position == h.lastSentPos && f.Facing == h.lastSentYaw {
		return
	}
	h.sinceSend = 0
	if err := h.sender.SendMove(protocol.NewMove(f.Position, f.Facing)); err != nil {
		if !errors.Is(err, client.ErrNotConnected) {
			h.log.Warn("Failed to send move", "error", err)
		}
		return
	}
	h.sent = true
	h.lastSentPos = f.Position
	h.lastSentYaw = f.Facing
}

func (h *Host) Controller() *character.Controller { return h.controller }
func (h *Host) Blender() *animation.Blender       { return h.blender }
func (h *Host) Registry() *world.Registry         { return h.registry }
func (h *Host) Orbit() *camera.Orbit              { return h.orbit }
