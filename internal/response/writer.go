package response

import (
	"fmt"
	"io"

	"github.com/shravanasati/courier/internal/headers"
)

// ResponseWriter writes the parts of a response in order.
type ResponseWriter struct {
	conn  io.Writer
	state exchangeState
}

func NewResponseWriter(conn io.Writer) *ResponseWriter {
	return &ResponseWriter{conn: conn, state: newExchangeState()}
}

func (rw *ResponseWriter) WriteStatusLine(statusCode StatusCode) error {
	if rw.state != stateStatusLine {
		return ErrStatusLineAlreadyWritten
	}
	reason := GetStatusReason(statusCode)
	if reason == "" {
		reason = "Unknown"
	}
	_, err := fmt.Fprintf(rw.conn, "HTTP/1.1 %03d %s\r\n", int(statusCode), reason)
	if err != nil {
		return err
	}

	rw.state = rw.state.advance()
	return nil
}

func (rw *ResponseWriter) WriteHeaders(h *headers.Headers) error {
	if rw.state != stateHeaders {
		return ErrHeadersAlreadyWritten
	}
	for k, v := range h.All() {
		if _, err := fmt.Fprintf(rw.conn, "%s: %s\r\n", k, v); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(rw.conn, "\r\n"); err != nil {
		return err
	}
	rw.state = rw.state.advance()
	return nil
}

func (rw *ResponseWriter) WriteBody(b io.Reader) error {
	if rw.state != stateBody {
		return ErrNoBodyState
	}
	if _, err := io.Copy(rw.conn, b); err != nil {
		return err
	}
	rw.state = rw.state.advance()
	return nil
}
