package conn

import (
	"io"
	"net"
	"net/netip"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shravanasati/courier/internal/clienterr"
)

func setupTcpTestServer(t *testing.T, serverLogic func(net.Conn)) (string, string) {
	t.Helper()

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)

	addr := listener.Addr().(*net.TCPAddr)

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		serverLogic(conn)
		conn.Close()
	}()

	t.Cleanup(func() {
		listener.Close()
		<-done
	})

	return addr.IP.String(), strconv.Itoa(addr.Port)
}

// closedPort returns a port on 127.0.0.1 with nothing listening on it.
func closedPort(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())
	return strconv.Itoa(port)
}

func TestResolve(t *testing.T) {
	t.Run("localhost", func(t *testing.T) {
		r := &Resolver{Timeout: 5 * time.Second}
		addrs, err := r.Resolve("localhost", "8080")
		require.NoError(t, err)
		require.NotEmpty(t, addrs)
		for _, a := range addrs {
			assert.True(t, a.Addr().Is4(), "tcp4 resolution returned %s", a)
			assert.Equal(t, uint16(8080), a.Port())
		}
	})

	t.Run("ip literal", func(t *testing.T) {
		r := &Resolver{}
		addrs, err := r.Resolve("127.0.0.1", "9")
		require.NoError(t, err)
		assert.Equal(t, AddrList{netip.MustParseAddrPort("127.0.0.1:9")}, addrs)
	})

	t.Run("unknown host", func(t *testing.T) {
		r := &Resolver{Timeout: 5 * time.Second}
		addrs, err := r.Resolve("this-is-not-a-real-domain.invalid", "80")
		require.Error(t, err)
		assert.Nil(t, addrs)
		assert.ErrorIs(t, err, clienterr.Resolution)

		var dnsErr *net.DNSError
		assert.ErrorAs(t, err, &dnsErr)
	})

	t.Run("network selects the family", func(t *testing.T) {
		r := &Resolver{Network: "tcp6"}
		addrs, err := r.Resolve("::1", "9")
		require.NoError(t, err)
		assert.Equal(t, AddrList{netip.MustParseAddrPort("[::1]:9")}, addrs)

		_, err = r.Resolve("127.0.0.1", "9")
		assert.ErrorIs(t, err, clienterr.Resolution)

		r = &Resolver{Network: "tcp4"}
		_, err = r.Resolve("::1", "9")
		assert.ErrorIs(t, err, clienterr.Resolution)

		r = &Resolver{Network: "tcp"}
		addrs, err = r.Resolve("::1", "9")
		require.NoError(t, err)
		assert.True(t, addrs[0].Addr().Is6())
	})

	t.Run("unknown network", func(t *testing.T) {
		r := &Resolver{Network: "udp"}
		addrs, err := r.Resolve("127.0.0.1", "9")
		assert.Nil(t, addrs)
		assert.ErrorIs(t, err, clienterr.Resolution)
		assert.ErrorIs(t, err, ErrUnknownNetwork)
	})

	t.Run("bad port", func(t *testing.T) {
		r := &Resolver{}
		_, err := r.Resolve("127.0.0.1", "not-a-service-name")
		assert.ErrorIs(t, err, clienterr.Resolution)
	})
}

func TestConnect(t *testing.T) {
	t.Run("first accepting candidate wins", func(t *testing.T) {
		host, port := setupTcpTestServer(t, func(c net.Conn) {})
		good := netip.MustParseAddrPort(net.JoinHostPort(host, port))
		bad := netip.MustParseAddrPort("127.0.0.1:" + closedPort(t))

		d := &Dialer{Timeout: 5 * time.Second}
		h, err := d.Connect(AddrList{bad, good})
		require.NoError(t, err)
		require.True(t, h.Valid())
		assert.Equal(t, good.String(), h.RemoteAddr().String())

		h, err = h.Close()
		require.NoError(t, err)
		assert.False(t, h.Valid())
	})

	t.Run("no listener", func(t *testing.T) {
		r := &Resolver{}
		addrs, err := r.Resolve("localhost", closedPort(t))
		require.NoError(t, err)

		d := &Dialer{Timeout: 5 * time.Second}
		h, err := d.Connect(addrs)
		require.Error(t, err)
		assert.ErrorIs(t, err, clienterr.Connect)
		assert.False(t, h.Valid())
	})

	t.Run("empty list", func(t *testing.T) {
		d := &Dialer{}
		_, err := d.Connect(nil)
		assert.ErrorIs(t, err, clienterr.Connect)
		assert.ErrorIs(t, err, ErrNoCandidates)
	})

	t.Run("socket buffers", func(t *testing.T) {
		if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
			t.Skip("socket options are only applied on linux and darwin in this test")
		}
		host, port := setupTcpTestServer(t, func(c net.Conn) {})
		d := &Dialer{ReceiveBuffer: 64 * 1024}
		h, err := d.Connect(AddrList{netip.MustParseAddrPort(net.JoinHostPort(host, port))})
		require.NoError(t, err)
		defer h.Close()

		size, err := h.ReceiveBuffer()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, size, 64*1024)
	})
}

func TestSendAndRefill(t *testing.T) {
	received := make(chan string, 1)
	host, port := setupTcpTestServer(t, func(c net.Conn) {
		buf := make([]byte, 5)
		_, err := io.ReadFull(c, buf)
		if err != nil {
			received <- err.Error()
			return
		}
		received <- string(buf)
		c.Write([]byte("pong"))
	})

	d := &Dialer{}
	h, err := d.Connect(AddrList{netip.MustParseAddrPort(net.JoinHostPort(host, port))})
	require.NoError(t, err)
	require.NoError(t, h.SetDeadlines(5*time.Second, 5*time.Second))

	h, err = Send(h, []byte("ping\n"))
	require.NoError(t, err)
	assert.Equal(t, "ping\n", <-received)

	var got []byte
	buf := make([]byte, 2)
	for {
		var n int
		h, n, err = Refill(h, buf)
		require.NoError(t, err)
		if n == 0 {
			break
		}
		got = append(got, buf[:n]...)
	}
	assert.Equal(t, "pong", string(got))
	assert.True(t, h.Valid(), "end of stream does not close the handle")

	_, err = h.Close()
	assert.NoError(t, err)
}

func TestInvalidHandle(t *testing.T) {
	var h Handle
	assert.False(t, h.Valid())

	_, _, err := Refill(h, make([]byte, 8))
	assert.ErrorIs(t, err, clienterr.Transport)
	assert.ErrorIs(t, err, ErrInvalidHandle)

	_, err = Send(h, []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidHandle)

	assert.ErrorIs(t, h.SetDeadlines(time.Second, 0), ErrInvalidHandle)

	_, err = h.Close()
	assert.NoError(t, err)
}

func TestRefillTimeout(t *testing.T) {
	hold := make(chan struct{})
	host, port := setupTcpTestServer(t, func(c net.Conn) { <-hold })
	defer close(hold)

	d := &Dialer{}
	h, err := d.Connect(AddrList{netip.MustParseAddrPort(net.JoinHostPort(host, port))})
	require.NoError(t, err)
	defer h.Close()
	require.NoError(t, h.SetDeadlines(50*time.Millisecond, 0))

	h, _, err = Refill(h, make([]byte, 16))
	require.Error(t, err)
	assert.ErrorIs(t, err, clienterr.Transport)
	assert.True(t, h.Valid())
}
