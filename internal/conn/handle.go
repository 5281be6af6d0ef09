// Package conn opens TCP connections and moves bytes across them.
//
// A Handle has a single owner. Every function that uses a Handle takes it by
// value and hands it back; the argument must be treated as moved and the
// returned Handle used from then on.
package conn

import (
	"io"
	"net"
	"time"

	"github.com/pkg/errors"

	"github.com/shravanasati/courier/internal/clienterr"
)

// Handle is an owned connection. The zero Handle is invalid.
type Handle struct {
	nc net.Conn
}

// NewHandle takes ownership of nc.
func NewHandle(nc net.Conn) Handle {
	return Handle{nc: nc}
}

// Valid reports whether the handle refers to an open connection.
func (h Handle) Valid() bool {
	return h.nc != nil
}

// RemoteAddr returns the peer address, or nil for an invalid handle.
func (h Handle) RemoteAddr() net.Addr {
	if h.nc == nil {
		return nil
	}
	return h.nc.RemoteAddr()
}

// ReceiveBuffer reports the kernel receive buffer size of the socket.
func (h Handle) ReceiveBuffer() (int, error) {
	if h.nc == nil {
		return 0, ErrInvalidHandle
	}
	return receiveBuffer(h)
}

// Close releases the connection and returns the now invalid handle.
// Closing an invalid handle is a no-op.
func (h Handle) Close() (Handle, error) {
	if h.nc == nil {
		return Handle{}, nil
	}
	err := h.nc.Close()
	return Handle{}, err
}

// SetDeadlines applies read and write timeouts, measured from now, to the
// socket. A zero duration leaves that direction without a deadline.
func (h Handle) SetDeadlines(read, write time.Duration) error {
	if h.nc == nil {
		return clienterr.New(clienterr.Transport, "set deadline", ErrInvalidHandle)
	}
	now := time.Now()
	if read > 0 {
		if err := h.nc.SetReadDeadline(now.Add(read)); err != nil {
			return clienterr.New(clienterr.Transport, "set read deadline", err)
		}
	}
	if write > 0 {
		if err := h.nc.SetWriteDeadline(now.Add(write)); err != nil {
			return clienterr.New(clienterr.Transport, "set write deadline", err)
		}
	}
	return nil
}

// Refill reads whatever the socket has into p. Zero bytes with a nil error
// means the peer closed the stream. A failed read leaves the handle open.
func Refill(h Handle, p []byte) (Handle, int, error) {
	if h.nc == nil {
		return h, 0, clienterr.New(clienterr.Transport, "read", ErrInvalidHandle)
	}
	if len(p) == 0 {
		return h, 0, nil
	}
	for {
		n, err := h.nc.Read(p)
		if n > 0 {
			// a trailing error is reported again by the next read
			return h, n, nil
		}
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			return h, 0, nil
		}
		return h, 0, clienterr.New(clienterr.Transport, "read", err)
	}
}

// Send writes all of b.
func Send(h Handle, b []byte) (Handle, error) {
	if h.nc == nil {
		return h, clienterr.New(clienterr.Transport, "send", ErrInvalidHandle)
	}
	n, err := h.nc.Write(b)
	if err != nil {
		return h, clienterr.New(clienterr.Transport, "send", err)
	}
	if n < len(b) {
		return h, clienterr.New(clienterr.Transport, "send",
			errors.Wrapf(io.ErrShortWrite, "wrote %d of %d bytes", n, len(b)))
	}
	return h, nil
}
