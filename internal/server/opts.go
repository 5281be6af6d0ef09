package server

import (
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/shravanasati/courier/internal/response"
)

type ServerOpts struct {
	// The address for the server to listen on. Defaults to 127.0.0.1:42069.
	Address string

	// Deadlines applied to every accepted connection. Zero means none.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Handler answers parsed requests. Defaults to Echo.
	Handler Handler

	// Recovery takes the return value of the recover() call and returns a
	// response that is written to the connection before it is closed.
	Recovery func(any) *response.Message

	// OnExchange, if set, is called after every response is written.
	OnExchange func(method, target string, code response.StatusCode, took time.Duration)

	Logger *zap.Logger
}

func (o ServerOpts) withDefaults() ServerOpts {
	if o.Address == "" {
		o.Address = "127.0.0.1:42069"
	}
	if o.Handler == nil {
		o.Handler = Echo
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Recovery == nil {
		logger := o.Logger
		o.Recovery = func(r any) *response.Message {
			logger.Error("recovered from panic", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			return response.NewText(response.StatusInternalServerError,
				response.GetStatusReason(response.StatusInternalServerError))
		}
	}
	return o
}
