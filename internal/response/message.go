package response

import (
	"io"
	"strconv"
	"strings"

	"github.com/shravanasati/courier/internal/headers"
)

// Message is a response under construction, built with fluent setters.
type Message struct {
	StatusCode StatusCode
	Headers    *headers.Headers
	Body       io.Reader
}

func NewMessage() *Message {
	hs := headers.NewHeaders()
	hs.Set("connection", "close")
	return &Message{
		Headers:    hs,
		StatusCode: StatusOK,
	}
}

// NewText returns a text/plain response with its content length set.
func NewText(code StatusCode, body string) *Message {
	return NewMessage().
		WithStatusCode(code).
		WithHeader("content-type", "text/plain").
		WithHeader("content-length", strconv.Itoa(len(body))).
		WithBody(strings.NewReader(body))
}

func (m *Message) WithStatusCode(code StatusCode) *Message {
	m.StatusCode = code
	return m
}

func (m *Message) WithHeader(key, value string) *Message {
	m.Headers.Set(key, value)
	return m
}

func (m *Message) WithoutHeader(key string) *Message {
	m.Headers.Remove(key)
	return m
}

func (m *Message) WithBody(body io.Reader) *Message {
	m.Body = body
	return m
}

// Write sends the whole response to w.
func (m *Message) Write(w io.Writer) error {
	rw := NewResponseWriter(w)
	if err := rw.WriteStatusLine(m.StatusCode); err != nil {
		return err
	}
	if err := rw.WriteHeaders(m.Headers); err != nil {
		return err
	}
	if m.Body != nil {
		return rw.WriteBody(m.Body)
	}
	return nil
}
