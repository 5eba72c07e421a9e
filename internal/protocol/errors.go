package protocol

import "errors"

var (
	ErrMalformed      = errors.New("malformed envelope")
	ErrUnknownType    = errors.New("unknown message type")
	ErrInvalidPayload = errors.New("invalid message payload")
)
