package client

import (
	"bytes"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/shravanasati/courier/internal/clienterr"
	"github.com/shravanasati/courier/internal/conn"
	"github.com/shravanasati/courier/internal/request"
	"github.com/shravanasati/courier/internal/response"
	"github.com/shravanasati/courier/internal/router"
	"github.com/shravanasati/courier/internal/server"
)

// recordingSink remembers the size of every write.
type recordingSink struct {
	bytes.Buffer
	writes []int
}

func (s *recordingSink) Write(p []byte) (int, error) {
	s.writes = append(s.writes, len(p))
	return s.Buffer.Write(p)
}

func newClient(t *testing.T) *Client {
	return New(Options{
		ConnectTimeout: 2 * time.Second,
		ReadTimeout:    5 * time.Second,
		Logger:         zaptest.NewLogger(t),
	})
}

// rawServer answers every connection with reply once the request head is
// in, then closes.
func rawServer(t *testing.T, reply string) (string, string) {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	go func() {
		for {
			c, err := listener.Accept()
			if err != nil {
				return
			}
			go func() {
				defer c.Close()
				buf := make([]byte, 4096)
				var got []byte
				for !bytes.Contains(got, []byte("\r\n\r\n")) {
					n, err := c.Read(buf)
					if err != nil {
						return
					}
					got = append(got, buf[:n]...)
				}
				io.WriteString(c, reply)
			}()
		}
	}()

	host, port, err := net.SplitHostPort(listener.Addr().String())
	require.NoError(t, err)
	return host, port
}

func echoServer(t *testing.T, handler server.Handler) (string, string) {
	t.Helper()
	s, err := server.Serve(server.ServerOpts{
		Address:     "127.0.0.1:0",
		ReadTimeout: 2 * time.Second,
		Handler:     handler,
		Logger:      zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	host, port, err := net.SplitHostPort(s.Addr().String())
	require.NoError(t, err)
	return host, port
}

func closedPort(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, port, _ := net.SplitHostPort(listener.Addr().String())
	listener.Close()
	return port
}

func TestGet(t *testing.T) {
	host, port := rawServer(t, "HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello")

	var sink bytes.Buffer
	var headSeen *Response
	resp, err := newClient(t).Get(host, port, "/", &sink, func(r *Response) {
		headSeen = r
		assert.Equal(t, 0, sink.Len())
	})
	require.NoError(t, err)
	assert.Same(t, resp, headSeen)
	assert.Equal(t, response.StatusOK, resp.Status.Code)
	assert.Equal(t, "5", resp.Headers.Get("content-length"))
	assert.Equal(t, int64(5), resp.ContentLength)
	assert.Equal(t, int64(5), resp.BodyBytes)
	assert.Equal(t, "hello", sink.String())
}

func TestGetShortBody(t *testing.T) {
	host, port := rawServer(t, "HTTP/1.1 200 OK\r\nContent-Length: 100\r\n\r\nhi")

	var sink bytes.Buffer
	resp, err := newClient(t).Get(host, port, "/", &sink, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.BodyBytes)
	assert.Equal(t, "hi", sink.String())
}

func TestGetMalformedHeader(t *testing.T) {
	host, port := rawServer(t, "HTTP/1.1 200 OK\r\nX-Foo bar\r\n\r\nhello")

	var sink recordingSink
	called := false
	_, err := newClient(t).Get(host, port, "/", &sink, func(*Response) { called = true })
	assert.ErrorIs(t, err, clienterr.MalformedLine)
	assert.False(t, called)
	assert.Empty(t, sink.writes)
}

func TestGetFixtures(t *testing.T) {
	host, port := echoServer(t, router.NewFixtureRouter().Handler())
	c := newClient(t)

	var sink recordingSink
	resp, err := c.Get(host, port, "/bytes/600", &sink, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(600), resp.BodyBytes)
	assert.Equal(t, strings.Repeat("x", 600), sink.String())
	for _, n := range sink.writes {
		assert.LessOrEqual(t, n, response.DefaultChunkSize)
	}

	sink = recordingSink{}
	resp, err = c.Get(host, port, "/short/100", &sink, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.ContentLength)
	assert.Equal(t, int64(2), resp.BodyBytes)
	assert.Equal(t, "hi", sink.String())

	resp, err = c.Get(host, port, "/status/503", io.Discard, nil)
	require.NoError(t, err)
	assert.Equal(t, response.StatusServiceUnavailable, resp.Status.Code)
	assert.Equal(t, "courier", resp.Headers.Get("X-Server"))
}

func TestGetEcho(t *testing.T) {
	host, port := echoServer(t, nil)

	var sink bytes.Buffer
	resp, err := newClient(t).Get(host, port, "/echo", &sink, nil)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", resp.Headers.Get("Content-Type"))
	assert.Equal(t, "GET /echo HTTP/1.1\nHost: "+net.JoinHostPort(host, port)+"\n", sink.String())
}

func TestGetStatus(t *testing.T) {
	host, port := rawServer(t, "HTTP/1.1 299 Custom\r\n\r\n")

	resp, err := newClient(t).Get(host, port, "/", io.Discard, nil)
	require.NoError(t, err)
	assert.Equal(t, response.StatusCode(299), resp.Status.Code)
	assert.Equal(t, "Custom", resp.Status.Reason)

	strict := New(Options{StrictStatus: true, ReadTimeout: 5 * time.Second})
	_, err = strict.Get(host, port, "/", io.Discard, nil)
	assert.ErrorIs(t, err, clienterr.UnsupportedStatus)
}

func TestGetEmptyReply(t *testing.T) {
	host, port := rawServer(t, "")
	_, err := newClient(t).Get(host, port, "/", io.Discard, nil)
	assert.ErrorIs(t, err, clienterr.OutOfData)
}

func TestGetConnectionRefused(t *testing.T) {
	_, err := newClient(t).Get("127.0.0.1", closedPort(t), "/", io.Discard, nil)
	assert.Equal(t, clienterr.Connect, clienterr.KindOf(err))
}

func TestInvalidPathNeverConnects(t *testing.T) {
	// a closed port would fail with Connect if a dial were attempted
	port := closedPort(t)
	injected := "/a HTTP/1.1\r\nX-Injected: 1\r\n\r\nGET /b"

	sink := &recordingSink{}
	_, err := newClient(t).Get("127.0.0.1", port, injected, sink, nil)
	assert.ErrorIs(t, err, request.ErrInvalidPath)
	assert.Equal(t, clienterr.MalformedLine, clienterr.KindOf(err))
	assert.Empty(t, sink.writes)

	_, err = newClient(t).Upgrade("127.0.0.1", port, "/chat room", io.Discard, nil)
	assert.Equal(t, clienterr.MalformedLine, clienterr.KindOf(err))

	_, err = newClient(t).Get("127.0.0.1", port, "", io.Discard, nil)
	assert.ErrorIs(t, err, request.ErrInvalidPath)
}

func TestGetUnresolvable(t *testing.T) {
	_, err := newClient(t).Get("courier.invalid", "80", "/", io.Discard, nil)
	assert.Equal(t, clienterr.Resolution, clienterr.KindOf(err))
}

func TestUpgrade(t *testing.T) {
	host, port := echoServer(t, func(req *server.Request) *response.Message {
		info := response.InfoOf(req.Headers)
		// a text frame right behind the handshake
		return server.Upgrade(info.WebSocketKey).WithBody(strings.NewReader("\x81\x02hi"))
	})

	c := New(Options{
		ReadTimeout: 5 * time.Second,
		Rand:        rand.NewChaCha8([32]byte{7}),
		Logger:      zaptest.NewLogger(t),
	})
	up, err := c.Upgrade(host, port, "/chat", io.Discard, nil)
	require.NoError(t, err)
	defer up.Close()

	assert.Equal(t, response.StatusSwitchingProtocols, up.Response.Status.Code)
	assert.True(t, up.Conn.Valid())

	got := readFrameBytes(t, up, 4)
	assert.Equal(t, "\x81\x02hi", string(got))

	require.NoError(t, up.Close())
	assert.False(t, up.Conn.Valid())
}

// readFrameBytes returns at least n bytes following the handshake, starting
// with whatever arrived together with the reply.
func readFrameBytes(t *testing.T, up *Upgraded, n int) []byte {
	t.Helper()
	got := bytes.Clone(up.Pending)
	for len(got) < n {
		buf := make([]byte, 64)
		var read int
		var err error
		up.Conn, read, err = conn.Refill(up.Conn, buf)
		require.NoError(t, err)
		require.NotZero(t, read)
		got = append(got, buf[:read]...)
	}
	return got
}

func TestUpgradeInterop(t *testing.T) {
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		ws.WriteMessage(websocket.TextMessage, []byte("hello"))
	}))
	t.Cleanup(ts.Close)

	host, port, err := net.SplitHostPort(ts.Listener.Addr().String())
	require.NoError(t, err)
	up, err := newClient(t).Upgrade(host, port, "/socket", io.Discard, nil)
	require.NoError(t, err)
	defer up.Close()

	assert.Equal(t, "websocket", strings.ToLower(up.Response.Headers.Get("upgrade")))
	// unmasked text frame, FIN set, five byte payload
	assert.Equal(t, "\x81\x05hello", string(readFrameBytes(t, up, 7)[:7]))
}

func TestUpgradeRefused(t *testing.T) {
	host, port := rawServer(t, "HTTP/1.1 403 Forbidden\r\nContent-Length: 4\r\n\r\nnope")

	var sink bytes.Buffer
	up, err := newClient(t).Upgrade(host, port, "/chat", &sink, nil)
	assert.Nil(t, up)
	assert.ErrorIs(t, err, clienterr.Handshake)
	assert.Equal(t, "nope", sink.String())
}

func TestUpgradeBadAccept(t *testing.T) {
	host, port := rawServer(t, "HTTP/1.1 101 Switching Protocols\r\n"+
		"Upgrade: websocket\r\nConnection: Upgrade\r\n"+
		"Sec-WebSocket-Accept: s3pPLMBiTxaQ9kYGzzhZRbK+xOo=\r\n\r\n")

	_, err := newClient(t).Upgrade(host, port, "/chat", io.Discard, nil)
	assert.ErrorIs(t, err, clienterr.Handshake)
}

type emptyReader struct{}

func (emptyReader) Read([]byte) (int, error) { return 0, io.EOF }

func TestUpgradeNoRandomness(t *testing.T) {
	c := New(Options{Rand: emptyReader{}})
	_, err := c.Upgrade("127.0.0.1", "1", "/", io.Discard, nil)
	assert.ErrorIs(t, err, io.EOF)
}
