// Package reader turns a refillable byte stream into line and span reads.
package reader

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/shravanasati/courier/internal/chain"
	"github.com/shravanasati/courier/internal/clienterr"
)

const (
	// DefaultBufferSize is the capacity used when New is given a non-positive size.
	DefaultBufferSize = 4096
	// DefaultMaxLineLength bounds a single line returned by Gets.
	DefaultMaxLineLength = 8192
)

// Refiller reads more bytes from io into p. It returns the io to use from
// then on and the number of bytes stored; zero bytes means end of stream.
type Refiller[IO any] func(io IO, p []byte) (IO, int, error)

// BufferedReader reads lines and spans from an IO value threaded through
// every call. It does not own the IO value.
type BufferedReader[IO any] struct {
	refill  Refiller[IO]
	buf     []byte
	pos     int // next unconsumed byte
	end     int // filled length, pos <= end <= len(buf)
	eof     bool
	maxLine int
}

// New returns a reader with a buffer of the given capacity.
func New[IO any](refill func(io IO, p []byte) (IO, int, error), size int) *BufferedReader[IO] {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &BufferedReader[IO]{
		refill:  refill,
		buf:     make([]byte, size),
		maxLine: DefaultMaxLineLength,
	}
}

// SetMaxLineLength changes the longest line Gets accepts.
func (r *BufferedReader[IO]) SetMaxLineLength(n int) {
	if n > 0 {
		r.maxLine = n
	}
}

// Buffered returns the bytes that have been read from the stream but not yet
// consumed. The slice aliases the internal buffer.
func (r *BufferedReader[IO]) Buffered() []byte {
	return r.buf[r.pos:r.end]
}

// fill replaces the exhausted buffer with fresh bytes.
func (r *BufferedReader[IO]) fill(io IO) (IO, error) {
	if r.pos != r.end {
		panic("reader: refill with unconsumed bytes")
	}
	io, n, err := r.refill(io, r.buf)
	if err != nil {
		return io, err
	}
	if n < 0 || n > len(r.buf) {
		return io, clienterr.Newf(clienterr.Transport, "read", "refill reported %d bytes for a %d byte buffer", n, len(r.buf))
	}
	r.pos, r.end = 0, n
	if n == 0 {
		r.eof = true
	}
	return io, nil
}

// Gets reads one line. The terminator, "\n" or "\r\n", is not included.
// If the stream ends before a terminator is seen, the result is None: any
// partial line is dropped and no error is reported.
func (r *BufferedReader[IO]) Gets(io IO) chain.Result[IO, chain.Maybe[string]] {
	var line []byte
	for {
		if r.pos == r.end {
			if r.eof {
				return chain.Ok(io, chain.None[string]())
			}
			var err error
			if io, err = r.fill(io); err != nil {
				return chain.Fail[chain.Maybe[string]](io, err)
			}
			continue
		}

		avail := r.buf[r.pos:r.end]
		i := bytes.IndexByte(avail, '\n')
		take := avail
		if i >= 0 {
			take = avail[:i]
		}
		n := len(line) + len(take)
		if n > 0 && lastByte(line, take) == '\r' {
			// the CR may still turn out to be part of the terminator
			n--
		}
		if n > r.maxLine {
			return chain.Fail[chain.Maybe[string]](io, clienterr.New(clienterr.MalformedLine, "read line",
				errors.Wrapf(ErrLineTooLong, "more than %d bytes", r.maxLine)))
		}
		line = append(line, take...)
		if i < 0 {
			r.pos = r.end
			continue
		}
		r.pos += i + 1
		line = bytes.TrimSuffix(line, []byte{'\r'})
		return chain.Ok(io, chain.Some(string(line)))
	}
}

func lastByte(line, take []byte) byte {
	if len(take) > 0 {
		return take[len(take)-1]
	}
	return line[len(line)-1]
}

// GetSpan returns up to max bytes. Buffered bytes are returned first;
// otherwise the stream is refilled once. An empty span means end of stream.
// The span is only valid until the next call.
func (r *BufferedReader[IO]) GetSpan(io IO, max int) chain.Result[IO, []byte] {
	if max <= 0 {
		return chain.Ok(io, []byte{})
	}
	if r.pos == r.end {
		if r.eof {
			return chain.Ok(io, []byte{})
		}
		var err error
		if io, err = r.fill(io); err != nil {
			return chain.Fail[[]byte](io, err)
		}
	}
	n := min(max, r.end-r.pos)
	span := r.buf[r.pos : r.pos+n]
	r.pos += n
	return chain.Ok(io, span)
}
