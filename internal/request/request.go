package request

import (
	"bytes"
	"net"

	"github.com/pkg/errors"

	"github.com/shravanasati/courier/internal/clienterr"
	"github.com/shravanasati/courier/internal/conn"
	"github.com/shravanasati/courier/internal/headers"
)

type MethodType string

const (
	GET  MethodType = "GET"
	HEAD MethodType = "HEAD"
)

const httpVersion = "HTTP/1.1"

// WebSocketVersion is the only protocol version sent in an upgrade request.
const WebSocketVersion = "13"

var registeredNurse = []byte("\r\n")

// ValidPath reports a path that would not survive as the middle token of a
// request line: an empty path, or one holding a space, a control byte or DEL.
func ValidPath(path string) error {
	if path == "" {
		return clienterr.New(clienterr.MalformedLine, "build request", errors.Wrap(ErrInvalidPath, "empty"))
	}
	for i := 0; i < len(path); i++ {
		if c := path[i]; c <= ' ' || c == 0x7f {
			return clienterr.New(clienterr.MalformedLine, "build request",
				errors.Wrapf(ErrInvalidPath, "byte %#04x at %d", c, i))
		}
	}
	return nil
}

// Build serializes a request line and header block. Headers are written as
// `name:value` in the iteration order of h; h may be nil. The path is written
// as given, callers check it with ValidPath first.
func Build(method MethodType, path string, h *headers.Headers) []byte {
	var b bytes.Buffer
	b.WriteString(string(method))
	b.WriteByte(' ')
	b.WriteString(path)
	b.WriteByte(' ')
	b.WriteString(httpVersion)
	b.Write(registeredNurse)
	if h != nil {
		for name, value := range h.All() {
			b.WriteString(name)
			b.WriteByte(':')
			b.WriteString(value)
			b.Write(registeredNurse)
		}
	}
	b.Write(registeredNurse)
	return b.Bytes()
}

// BuildGet serializes a GET request.
func BuildGet(path string, h *headers.Headers) []byte {
	return Build(GET, path, h)
}

// BuildHostGet serializes a GET request carrying only a Host header.
func BuildHostGet(host, port, path string) []byte {
	h := headers.NewHeaders()
	h.Set("Host", net.JoinHostPort(host, port))
	return BuildGet(path, h)
}

// BuildWebSocketUpgrade serializes the opening handshake of a WebSocket
// connection. key must be fresh for every connection, see NewKey.
func BuildWebSocketUpgrade(host, port, path, key string) []byte {
	h := headers.NewHeaders()
	h.Set("Host", net.JoinHostPort(host, port))
	h.Set("Upgrade", "websocket")
	h.Set("Connection", "Upgrade")
	h.Set("Sec-WebSocket-Key", key)
	h.Set("Sec-WebSocket-Version", WebSocketVersion)
	return BuildGet(path, h)
}

// Send writes a serialized request to the connection.
func Send(h conn.Handle, req []byte) (conn.Handle, error) {
	return conn.Send(h, req)
}
