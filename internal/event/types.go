package event

const (
	EventConnected         = "net.connected"
	EventDisconnected      = "net.disconnected"
	EventParticipantJoined = "participant.joined"
	EventParticipantLeft   = "participant.left"
	EventActionChanged     = "character.action"
)

type Event interface {
	Name() string
}

type ConnectedEvent struct {
	URL string
}

func (ConnectedEvent) Name() string { return EventConnected }

type DisconnectedEvent struct {
	URL string
	Err error
}

func (DisconnectedEvent) Name() string { return EventDisconnected }

type ParticipantEvent struct {
	ID    string
	Count int
	Left  bool
}

func (e ParticipantEvent) Name() string {
	if e.Left {
		return EventParticipantLeft
	}
	return EventParticipantJoined
}

type ActionChangedEvent struct {
	From string
	To   string
}

func (ActionChangedEvent) Name() string { return EventActionChanged }
