package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/shravanasati/courier/internal/headers"
	"github.com/shravanasati/courier/internal/response"
)

func TestHead(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	h := headers.NewHeaders()
	h.Put("Content-Length", "5")
	h.Put("X-Request-Id", "abc")
	sl := response.StatusLine{Version: "HTTP/1.1", Code: response.StatusOK, Reason: "OK"}
	require.NoError(t, p.Head(sl, h))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "HTTP/1.1 "))
	assert.Contains(t, lines[0], "200")
	assert.True(t, strings.HasSuffix(lines[0], " OK"))
	assert.Contains(t, lines[1], "Content-Length")
	assert.True(t, strings.HasSuffix(lines[1], ": 5"))
	assert.Contains(t, lines[2], "X-Request-Id")
	assert.Equal(t, "", lines[3])
}

func TestAccess(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	require.NoError(t, p.Access("GET", "/echo", response.StatusBadRequest, 3*time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, "GET")
	assert.Contains(t, out, "/echo")
	assert.Contains(t, out, "400")
	assert.Contains(t, out, "3ms")
}

func TestStatusStyleClasses(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{})
	for _, code := range []int{101, 200, 302, 404, 503, 42} {
		assert.Contains(t, p.StatusStyle(code).Render("x"), "x")
	}
	assert.NotEqual(t, p.StatusStyle(200).GetForeground(), p.StatusStyle(500).GetForeground())
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))

	logger, err = NewLogger(true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
