package server

import (
	"strings"

	"github.com/shravanasati/courier/internal/headers"
	"github.com/shravanasati/courier/internal/response"
	"github.com/shravanasati/courier/internal/websocket"
)

// Request is a parsed request head. Request bodies are not read.
type Request struct {
	Line    response.RequestLine
	Headers *headers.Headers
	// Params holds path parameters filled in by a router.
	Params map[string]string
}

// Path is the request target without its query.
func (r *Request) Path() string {
	path, _, _ := strings.Cut(r.Line.URI, "?")
	return path
}

// Handler answers one request.
type Handler func(*Request) *response.Message

// Echo completes WebSocket upgrades and answers every other GET or HEAD
// with a text body repeating the request head.
func Echo(req *Request) *response.Message {
	info := response.InfoOf(req.Headers)
	switch {
	case req.Line.Method != "GET" && req.Line.Method != "HEAD":
		return response.NewText(response.StatusMethodNotAllowed, "method not allowed\n").
			WithHeader("allow", "GET, HEAD")
	case info.UpgradeWebSocket && !websocket.Acceptable(info):
		return response.NewText(response.StatusBadRequest, "bad websocket upgrade\n").
			WithHeader("sec-websocket-version", "13")
	case info.UpgradeWebSocket:
		return Upgrade(info.WebSocketKey)
	}

	var b strings.Builder
	b.WriteString(req.Line.String())
	b.WriteByte('\n')
	for name, value := range req.Headers.All() {
		b.WriteString(name + ": " + value + "\n")
	}
	resp := response.NewText(response.StatusOK, b.String())
	if req.Line.Method == "HEAD" {
		resp.WithBody(nil)
	}
	return resp
}

// Upgrade returns the 101 reply to an upgrade request carrying key.
func Upgrade(key string) *response.Message {
	return response.NewMessage().
		WithStatusCode(response.StatusSwitchingProtocols).
		WithoutHeader("connection").
		WithHeader("Upgrade", "websocket").
		WithHeader("Connection", "Upgrade").
		WithHeader("Sec-WebSocket-Accept", websocket.AcceptKey(key))
}

func badRequest(err error) *response.Message {
	return response.NewText(response.StatusBadRequest, err.Error()+"\n")
}
