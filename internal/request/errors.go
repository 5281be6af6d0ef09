package request

import "errors"

var (
	ErrNoRandomSource = errors.New("no random source for the websocket key")
	ErrInvalidPath    = errors.New("invalid request path")
)
