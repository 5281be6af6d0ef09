// Package server is a small HTTP/1.1 server that answers each connection
// with a single response. It exists to exercise the client end to end.
package server

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shravanasati/courier/internal/chain"
	"github.com/shravanasati/courier/internal/conn"
	"github.com/shravanasati/courier/internal/headers"
	"github.com/shravanasati/courier/internal/reader"
	"github.com/shravanasati/courier/internal/response"
)

type Server struct {
	opts     ServerOpts
	listener net.Listener
	closed   atomic.Bool
	wg       sync.WaitGroup
}

// Addr is the address the server is listening on.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Shutdown the server and wait for open exchanges to finish.
func (s *Server) Close() error {
	s.closed.Store(true)
	err := s.listener.Close()
	s.wg.Wait()
	return err
}

func (s *Server) listen() {
	defer s.wg.Done()
	for {
		nc, err := s.listener.Accept()
		if err != nil {
			if !s.closed.Load() {
				s.opts.Logger.Error("unable to accept connection", zap.Error(err))
			}
			return
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(conn.NewHandle(nc))
		}()
	}
}

// handleWriter sends through a handle it owns for the length of a response.
type handleWriter struct {
	h conn.Handle
}

func (w *handleWriter) Write(p []byte) (int, error) {
	var err error
	if w.h, err = conn.Send(w.h, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *Server) handle(h conn.Handle) {
	start := time.Now()
	id := uuid.NewString()
	log := s.opts.Logger.With(zap.String("request.id", id), zap.Stringer("remote", h.RemoteAddr()))
	w := &handleWriter{h: h}

	defer func() {
		if _, err := w.h.Close(); err != nil {
			log.Warn("unable to close connection", zap.Error(err))
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			if err := s.opts.Recovery(r).Write(w); err != nil {
				log.Warn("unable to write recovery response", zap.Error(err))
			}
		}
	}()

	if err := h.SetDeadlines(s.opts.ReadTimeout, s.opts.WriteTimeout); err != nil {
		log.Warn("unable to set deadlines", zap.Error(err))
		return
	}

	req, res := s.readRequest(h)
	w.h = res.State()

	var resp *response.Message
	if err := res.Err(); err != nil {
		log.Info("bad request", zap.Error(err))
		resp = badRequest(err)
	} else {
		log.Debug("request", zap.Stringer("line", req.Line), zap.Int("headers", req.Headers.Size()))
		resp = s.opts.Handler(req)
	}
	if _, ok := resp.Headers.Lookup("x-request-id"); !ok {
		resp.WithHeader("X-Request-Id", id)
	}

	if err := resp.Write(w); err != nil {
		log.Warn("unable to write response to connection", zap.Error(err))
		return
	}
	if s.opts.OnExchange != nil {
		s.opts.OnExchange(req.Line.Method, req.Line.URI, resp.StatusCode, time.Since(start))
	}
}

func (s *Server) readRequest(h conn.Handle) (*Request, chain.Result[conn.Handle, *headers.Headers]) {
	req := &Request{}
	p := response.NewParser(reader.New(conn.Refill, 0), false)
	res := chain.Bind(p.RequestLine(h), func(h conn.Handle, rl response.RequestLine) chain.Result[conn.Handle, *headers.Headers] {
		req.Line = rl
		return p.Headers(h, nil)
	})
	req.Headers = res.Value()
	if req.Headers == nil {
		req.Headers = headers.NewHeaders()
	}
	return req, res
}

// Serve starts listening on opts.Address and answers connections in the
// background until Close is called.
func Serve(opts ServerOpts) (*Server, error) {
	opts = opts.withDefaults()
	listener, err := net.Listen("tcp", opts.Address)
	if err != nil {
		return nil, err
	}
	s := &Server{opts: opts, listener: listener}
	s.opts.Logger.Info("listening", zap.Stringer("addr", listener.Addr()))

	s.wg.Add(1)
	go s.listen()
	return s, nil
}
