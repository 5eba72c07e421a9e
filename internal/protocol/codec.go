package protocol

import (
	"encoding/json"
	"fmt"
)

// Envelope is the frame layout on the websocket: a type tag and its payload.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("%w: missing type", ErrMalformed)
	}
	return env, nil
}

// Decode parses a frame, validates its payload against the schema for its
// type and returns the typed message.
func Decode(raw []byte) (Message, error) {
	env, err := DecodeEnvelope(raw)
	if err != nil {
		return nil, err
	}
	return DecodePayload(env.Type, env.Data)
}

func DecodePayload(typ string, data []byte) (Message, error) {
	var msg Message
	switch typ {
	case TypeRoster:
		msg = &Roster{}
	case TypeJoined:
		msg = &Joined{}
	case TypeLeft:
		msg = &Left{}
	case TypePositions:
		msg = &PositionBatch{}
	case TypeMove:
		msg = &Move{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	if err := validate(typ, data); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, typ, err)
	}
	return deref(msg), nil
}

func deref(msg Message) Message {
	switch m := msg.(type) {
	case *Roster:
		return *m
	case *Joined:
		return *m
	case *Left:
		return *m
	case *PositionBatch:
		if *m == nil {
			return PositionBatch{}
		}
		return *m
	case *Move:
		return *m
	}
	return msg
}

func Encode(msg Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: msg.MessageType(), Data: data})
}
