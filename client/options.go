package client

import (
	"crypto/rand"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/shravanasati/courier/internal/reader"
	"github.com/shravanasati/courier/internal/response"
)

// Options configures a Client. Zero values are replaced by defaults in New.
type Options struct {
	// Network is "tcp4" (default), "tcp6", or "tcp" to try both families.
	Network string

	// ConnectTimeout bounds resolution and each connection attempt.
	ConnectTimeout time.Duration
	// ReadTimeout and WriteTimeout are socket deadlines for the whole
	// exchange, measured from when the connection opens. Zero means none.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// BufferSize is the capacity of the receive buffer.
	BufferSize int
	// MaxLineLength bounds the status line and each header line.
	MaxLineLength int
	// ChunkSize is the largest write handed to a body sink.
	ChunkSize int

	// StrictStatus rejects status codes missing from the status table.
	StrictStatus bool

	// Kernel socket buffer sizes. Zero keeps the system default.
	ReceiveBuffer int
	SendBuffer    int

	// Rand supplies WebSocket keys. Defaults to crypto/rand.
	Rand io.Reader

	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Network == "" {
		o.Network = "tcp4"
	}
	if o.ConnectTimeout == 0 {
		o.ConnectTimeout = 10 * time.Second
	}
	if o.BufferSize <= 0 {
		o.BufferSize = reader.DefaultBufferSize
	}
	if o.MaxLineLength <= 0 {
		o.MaxLineLength = reader.DefaultMaxLineLength
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = response.DefaultChunkSize
	}
	if o.Rand == nil {
		o.Rand = rand.Reader
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
