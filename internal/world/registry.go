package world

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Versifine/atrium/internal/event"
	"github.com/Versifine/atrium/internal/logger"
	"github.com/Versifine/atrium/internal/physics"
)

const DefaultBlendFactor = 0.3

// Avatar is a remote participant. Displayed is only ever smoothed toward
// LastKnown after creation, never assigned wholesale.
type Avatar struct {
	ID        string
	Displayed physics.Vec3
	LastKnown physics.Vec3
	Updates   int
}

// Views is the rendered representation of remote avatars.
type Views interface {
	Spawn(id string, pos physics.Vec3)
	Move(id string, pos physics.Vec3)
	Despawn(id string)
}

// Registry tracks remote participants. It is owned by the tick loop and is
// not safe for concurrent use.
type Registry struct {
	selfID   string
	blend    float64
	avatars  map[string]*Avatar
	views    Views
	bus      *event.Bus
	reported int
	log      *slog.Logger
}

// NewRegistry creates an empty registry. blend is the fraction of the
// remaining distance covered per position update; out-of-range values fall
// back to DefaultBlendFactor.
func NewRegistry(blend float64, views Views) *Registry {
	if blend <= 0 || blend > 1 {
		blend = DefaultBlendFactor
	}
	return &Registry{
		blend:   blend,
		avatars: make(map[string]*Avatar),
		views:   views,
		log:     logger.Component("world"),
	}
}

func (r *Registry) SetBus(bus *event.Bus) {
	r.bus = bus
}

func (r *Registry) SelfID() string { return r.selfID }

func (r *Registry) BlendFactor() float64 { return r.blend }

// OnRosterSnapshot installs the local id and creates an avatar for every
// other listed participant. A repeated roster (reconnect) also drops
// avatars the server no longer lists.
func (r *Registry) OnRosterSnapshot(selfID string, allIDs []string) {
	r.selfID = selfID
	listed := make(map[string]bool, len(allIDs))
	for _, id := range allIDs {
		listed[id] = true
	}
	for id := range r.avatars {
		if id == selfID || !listed[id] {
			r.remove(id)
		}
	}
	for _, id := range allIDs {
		r.OnParticipantJoined(id)
	}
	r.log.Info("Roster received", "self", selfID, "remote", len(r.avatars))
}

func (r *Registry) OnParticipantJoined(id string) {
	if id == "" || id == r.selfID {
		return
	}
	if _, ok := r.avatars[id]; ok {
		return
	}
	a := &Avatar{ID: id}
	r.avatars[id] = a
	if r.views != nil {
		r.views.Spawn(id, a.Displayed)
	}
	r.log.Debug("Avatar created", "id", id)
	r.bus.Publish(event.ParticipantEvent{ID: id, Count: len(r.avatars)})
}

func (r *Registry) OnParticipantLeft(id string) {
	if id == r.selfID {
		return
	}
	r.remove(id)
}

func (r *Registry) remove(id string) {
	if _, ok := r.avatars[id]; !ok {
		return
	}
	delete(r.avatars, id)
	if r.views != nil {
		r.views.Despawn(id)
	}
	r.log.Debug("Avatar removed", "id", id)
	r.bus.Publish(event.ParticipantEvent{ID: id, Count: len(r.avatars), Left: true})
}

// OnPositionUpdate applies one reported batch. Ids without an avatar are
// ignored rather than created; the join may not have been processed yet.
// Smoothing is per update, so convergence speed follows the server's send
// rate.
func (r *Registry) OnPositionUpdate(batch map[string]physics.Vec3) {
	for id, pos := range batch {
		if id == r.selfID {
			continue
		}
		a, ok := r.avatars[id]
		if !ok {
			continue
		}
		a.LastKnown = pos
		a.Displayed = physics.Lerp(a.Displayed, a.LastKnown, r.blend)
		a.Updates++
		if r.views != nil {
			r.views.Move(id, a.Displayed)
		}
	}
}

// SetReportedCount stores the server-side participant total, self included.
func (r *Registry) SetReportedCount(n int) {
	if n >= 0 {
		r.reported = n
	}
}

func (r *Registry) ReportedCount() int { return r.reported }

func (r *Registry) Get(id string) (Avatar, bool) {
	a, ok := r.avatars[id]
	if !ok {
		return Avatar{}, false
	}
	return *a, true
}

func (r *Registry) Len() int { return len(r.avatars) }

// Snapshot returns copies of all avatars ordered by id.
func (r *Registry) Snapshot() []Avatar {
	out := make([]Avatar, 0, len(r.avatars))
	for _, a := range r.avatars {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Registry) String() string {
	var parts []string
	for _, a := range r.Snapshot() {
		parts = append(parts, fmt.Sprintf("%s (%.2f, %.2f, %.2f)", a.ID, a.Displayed.X(), a.Displayed.Y(), a.Displayed.Z()))
	}
	return fmt.Sprintf("Avatars(%d) [%s]", len(parts), strings.Join(parts, ", "))
}
