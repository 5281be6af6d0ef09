// Package client performs single HTTP/1.1 GET exchanges and WebSocket
// opening handshakes over a fresh connection each time.
package client

import (
	"bytes"
	"io"

	"go.uber.org/zap"

	"github.com/shravanasati/courier/internal/chain"
	"github.com/shravanasati/courier/internal/conn"
	"github.com/shravanasati/courier/internal/headers"
	"github.com/shravanasati/courier/internal/reader"
	"github.com/shravanasati/courier/internal/request"
	"github.com/shravanasati/courier/internal/response"
	"github.com/shravanasati/courier/internal/websocket"
)

// Response describes a received response. Body bytes go to the sink given
// to the call and are only counted here.
type Response struct {
	Status        response.StatusLine
	Headers       *headers.Headers
	ContentLength int64
	BodyBytes     int64
}

// Upgraded is a connection that completed a WebSocket handshake. Pending
// holds frame bytes that arrived together with the handshake reply.
type Upgraded struct {
	Response *Response
	Conn     conn.Handle
	Pending  []byte
}

// Close closes the upgraded connection.
func (u *Upgraded) Close() error {
	var err error
	u.Conn, err = u.Conn.Close()
	return err
}

type Client struct {
	opts     Options
	resolver conn.Resolver
	dialer   conn.Dialer
	log      *zap.Logger
}

func New(opts Options) *Client {
	opts = opts.withDefaults()
	return &Client{
		opts:     opts,
		resolver: conn.Resolver{Network: opts.Network, Timeout: opts.ConnectTimeout},
		dialer: conn.Dialer{
			Timeout:       opts.ConnectTimeout,
			ReceiveBuffer: opts.ReceiveBuffer,
			SendBuffer:    opts.SendBuffer,
		},
		log: opts.Logger,
	}
}

// open resolves host and port and connects to the first candidate that
// accepts.
func (c *Client) open(host, port string) (conn.Handle, error) {
	addrs, err := c.resolver.Resolve(host, port)
	if err != nil {
		return conn.Handle{}, err
	}
	c.log.Debug("resolved", zap.String("host", host), zap.String("port", port), zap.Int("candidates", len(addrs)))

	h, err := c.dialer.Connect(addrs)
	if err != nil {
		return conn.Handle{}, err
	}
	c.log.Debug("connected", zap.Stringer("remote", h.RemoteAddr()))

	if err := h.SetDeadlines(c.opts.ReadTimeout, c.opts.WriteTimeout); err != nil {
		h.Close()
		return conn.Handle{}, err
	}
	return h, nil
}

func (c *Client) newReader() *reader.BufferedReader[conn.Handle] {
	r := reader.New(conn.Refill, c.opts.BufferSize)
	r.SetMaxLineLength(c.opts.MaxLineLength)
	return r
}

// head sends req and reads the status line and headers of the reply.
func (c *Client) head(p *response.Parser[conn.Handle], h conn.Handle, req []byte) chain.Result[conn.Handle, *Response] {
	sent := send(h, req)
	withHead := chain.Then(sent, func(h conn.Handle) chain.Result[conn.Handle, response.Head] {
		return p.Head(h, nil)
	})
	return chain.Map(withHead, func(hd response.Head) *Response {
		c.log.Debug("head received", zap.Stringer("status", hd.Status), zap.Int("headers", hd.Headers.Size()))
		return &Response{
			Status:        hd.Status,
			Headers:       hd.Headers,
			ContentLength: p.ContentLength(),
		}
	})
}

func send(h conn.Handle, req []byte) chain.Result[conn.Handle, struct{}] {
	h, err := request.Send(h, req)
	if err != nil {
		return chain.Fail[struct{}](h, err)
	}
	return chain.Ok(h, struct{}{})
}

func (c *Client) close(h conn.Handle) {
	if _, err := h.Close(); err != nil {
		c.log.Debug("close failed", zap.Error(err))
	}
}

// Get requests path from host:port and streams the body to sink. onHead, if
// not nil, runs once the headers are in and before any body byte reaches
// the sink. A failure before the body leaves the sink untouched.
func (c *Client) Get(host, port, path string, sink io.Writer, onHead func(*Response)) (*Response, error) {
	if err := request.ValidPath(path); err != nil {
		return nil, err
	}
	h, err := c.open(host, port)
	if err != nil {
		return nil, err
	}
	p := response.NewParser(c.newReader(), c.opts.StrictStatus)

	var resp *Response
	res := chain.Bind(c.head(p, h, request.BuildHostGet(host, port, path)),
		func(h conn.Handle, r *Response) chain.Result[conn.Handle, int64] {
			resp = r
			if onHead != nil {
				onHead(r)
			}
			return p.Body(h, sink, c.opts.ChunkSize)
		})

	h, n, err := res.Get()
	c.close(h)
	if err != nil {
		return nil, err
	}
	resp.BodyBytes = n
	c.log.Debug("exchange complete", zap.Int64("body", n), zap.Int64("announced", resp.ContentLength))
	return resp, nil
}

// Upgrade performs a WebSocket opening handshake on path. On success the
// open connection is handed to the caller, who must close it. Any reply
// other than 101 has its body streamed to sink and yields a handshake
// error.
func (c *Client) Upgrade(host, port, path string, sink io.Writer, onHead func(*Response)) (*Upgraded, error) {
	if err := request.ValidPath(path); err != nil {
		return nil, err
	}
	key, err := request.NewKey(c.opts.Rand)
	if err != nil {
		return nil, err
	}
	h, err := c.open(host, port)
	if err != nil {
		return nil, err
	}
	r := c.newReader()
	p := response.NewParser(r, c.opts.StrictStatus)

	h, resp, err := c.head(p, h, request.BuildWebSocketUpgrade(host, port, path, key)).Get()
	if err != nil {
		c.close(h)
		return nil, err
	}
	if onHead != nil {
		onHead(resp)
	}

	info := response.InfoOf(resp.Headers)
	if resp.Status.Code != response.StatusSwitchingProtocols {
		h, n, err := p.Body(h, sink, c.opts.ChunkSize).Get()
		c.close(h)
		if err != nil {
			return nil, err
		}
		resp.BodyBytes = n
		return nil, websocket.Verify(resp.Status, info, key)
	}
	if err := websocket.Verify(resp.Status, info, key); err != nil {
		c.close(h)
		return nil, err
	}

	c.log.Debug("upgraded", zap.Stringer("remote", h.RemoteAddr()), zap.Int("pending", len(r.Buffered())))
	return &Upgraded{
		Response: resp,
		Conn:     h,
		Pending:  bytes.Clone(r.Buffered()),
	}, nil
}
