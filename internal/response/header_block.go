package response

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/http/httpguts"

	"github.com/shravanasati/courier/internal/chain"
	"github.com/shravanasati/courier/internal/clienterr"
	"github.com/shravanasati/courier/internal/headers"
	"github.com/shravanasati/courier/internal/reader"
)

// ReadHeaders folds header lines into a value, starting from seed, until
// the blank line that ends the block.
func ReadHeaders[IO, T any](r *reader.BufferedReader[IO], c IO, handler func(acc T, name, value string) T, seed T) chain.Result[IO, T] {
	acc := seed
	for {
		res := readLine(r, c, "read headers")
		c = res.State()
		if err := res.Err(); err != nil {
			return chain.Fail[T](c, err)
		}
		line := res.Value()
		if line == "" {
			return chain.Ok(c, acc)
		}
		name, value, err := headers.SplitFieldLine([]byte(line))
		if err != nil {
			return chain.Fail[T](c, clienterr.New(clienterr.MalformedLine, "read headers",
				errors.Wrapf(err, "%q", line)))
		}
		acc = handler(acc, name, value)
	}
}

// HeaderInfo collects the fields that steer the rest of an exchange.
type HeaderInfo struct {
	ContentLength     int64
	ConnectionUpgrade bool
	UpgradeWebSocket  bool
	WebSocketKey      string
	WebSocketAccept   string
	WebSocketVersion  int
}

// Handle folds one header field into the info. It has the shape ReadHeaders
// expects of a handler.
func (hi HeaderInfo) Handle(name, value string) HeaderInfo {
	switch strings.ToLower(name) {
	case "content-length":
		hi.ContentLength = parseContentLength(value)
	case "connection":
		hi.ConnectionUpgrade = httpguts.HeaderValuesContainsToken([]string{value}, "upgrade")
	case "upgrade":
		hi.UpgradeWebSocket = httpguts.HeaderValuesContainsToken([]string{value}, "websocket")
	case "sec-websocket-key":
		hi.WebSocketKey = strings.TrimSpace(value)
	case "sec-websocket-accept":
		hi.WebSocketAccept = strings.TrimSpace(value)
	case "sec-websocket-version":
		if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			hi.WebSocketVersion = v
		}
	}
	return hi
}

// InfoOf folds an already parsed header map.
func InfoOf(h *headers.Headers) HeaderInfo {
	var hi HeaderInfo
	for name, value := range h.All() {
		hi = hi.Handle(name, value)
	}
	return hi
}

// ContentLength returns the body length announced by h. A missing,
// unparsable or negative value counts as zero.
func ContentLength(h *headers.Headers) int64 {
	v, ok := h.Lookup("content-length")
	if !ok {
		return 0
	}
	return parseContentLength(v)
}

func parseContentLength(v string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
