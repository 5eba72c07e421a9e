package protocol

import "github.com/Versifine/atrium/internal/physics"

// Message types as named on the wire.
const (
	TypeRoster    = "introduction"
	TypeJoined    = "newUserConnected"
	TypeLeft      = "userDisconnected"
	TypePositions = "userPositions"
	TypeMove      = "move"
)

type Message interface {
	MessageType() string
}

// Roster is sent once after the connection is established.
type Roster struct {
	SelfID     string   `json:"selfId"`
	TotalCount int      `json:"totalCount"`
	AllIDs     []string `json:"allIds"`
}

func (Roster) MessageType() string { return TypeRoster }

type Joined struct {
	TotalCount int      `json:"totalCount"`
	ID         string   `json:"id"`
	AllIDs     []string `json:"allIds,omitempty"`
}

func (Joined) MessageType() string { return TypeJoined }

type Left struct {
	TotalCount int    `json:"totalCount"`
	ID         string `json:"id"`
}

func (Left) MessageType() string { return TypeLeft }

type PositionReport struct {
	Position [3]float64 `json:"position"`
}

// PositionBatch maps participant id to its reported position.
type PositionBatch map[string]PositionReport

func (PositionBatch) MessageType() string { return TypePositions }

func (b PositionBatch) Vectors() map[string]physics.Vec3 {
	out := make(map[string]physics.Vec3, len(b))
	for id, rep := range b {
		out[id] = physics.Vec3(rep.Position)
	}
	return out
}

// Move carries the local character transform to the server.
type Move struct {
	Position [3]float64 `json:"position"`
	Yaw      float64    `json:"yaw"`
}

func (Move) MessageType() string { return TypeMove }

func NewMove(pos physics.Vec3, yaw float64) Move {
	return Move{Position: [3]float64(pos), Yaw: yaw}
}
