package session

import (
	"log/slog"
	"sync"

	"github.com/Versifine/atrium/internal/physics"
	"github.com/Versifine/atrium/internal/protocol"
)

// Roster is the part of the avatar registry the mailbox feeds.
type Roster interface {
	OnRosterSnapshot(selfID string, allIDs []string)
	OnParticipantJoined(id string)
	OnParticipantLeft(id string)
	OnPositionUpdate(batch map[string]physics.Vec3)
	SetReportedCount(n int)
}

// Mailbox buffers decoded network messages between ticks. Deliver is called
// from the transport goroutine, Drain from the tick loop.
type Mailbox struct {
	mu        sync.Mutex
	lifecycle []protocol.Message
	positions map[string]physics.Vec3
	dropped   int
}

func NewMailbox() *Mailbox {
	return &Mailbox{positions: make(map[string]physics.Vec3)}
}

// Deliver queues msg. Position reports replace any unconsumed report for the
// same id.
func (m *Mailbox) Deliver(msg protocol.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch v := msg.(type) {
	case protocol.Roster, protocol.Joined, protocol.Left:
		m.lifecycle = append(m.lifecycle, v)
	case protocol.PositionBatch:
		for id, pos := range v.Vectors() {
			m.positions[id] = pos
		}
	default:
		m.dropped++
		slog.Debug("Mailbox ignored message", "type", msg.MessageType())
	}
}

// Pending reports how many lifecycle messages and position entries are
// waiting for the next drain.
func (m *Mailbox) Pending() (lifecycle, positions int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lifecycle), len(m.positions)
}

// Dropped counts messages of a type the mailbox does not route.
func (m *Mailbox) Dropped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}

// Drain applies queued lifecycle messages in arrival order, then the merged
// positions, and empties the mailbox. The registry is touched outside the
// lock so Deliver never waits on a tick.
func (m *Mailbox) Drain(r Roster) {
	m.mu.Lock()
	lifecycle := m.lifecycle
	positions := m.positions
	m.lifecycle = nil
	m.positions = make(map[string]physics.Vec3)
	m.mu.Unlock()

	for _, msg := range lifecycle {
		switch v := msg.(type) {
		case protocol.Roster:
			r.OnRosterSnapshot(v.SelfID, v.AllIDs)
			r.SetReportedCount(v.TotalCount)
		case protocol.Joined:
			r.OnParticipantJoined(v.ID)
			r.SetReportedCount(v.TotalCount)
		case protocol.Left:
			r.OnParticipantLeft(v.ID)
			r.SetReportedCount(v.TotalCount)
		}
	}
	if len(positions) > 0 {
		r.OnPositionUpdate(positions)
	}
}
