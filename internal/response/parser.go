package response

import (
	"io"

	"github.com/shravanasati/courier/internal/chain"
	"github.com/shravanasati/courier/internal/headers"
	"github.com/shravanasati/courier/internal/reader"
)

// Head is a parsed status line together with its header block.
type Head struct {
	Status  StatusLine
	Headers *headers.Headers
}

// Parser walks one message through status line, headers and body. Each
// stage may run once, in order; the connection is passed in and handed back
// by every stage.
type Parser[IO any] struct {
	r      *reader.BufferedReader[IO]
	state  exchangeState
	strict bool
	length int64
}

// NewParser returns a parser reading from r. With strict set, status codes
// missing from the status table are rejected.
func NewParser[IO any](r *reader.BufferedReader[IO], strict bool) *Parser[IO] {
	return &Parser[IO]{r: r, state: newExchangeState(), strict: strict}
}

// State names the next stage: "status line", "headers", "body" or "done".
func (p *Parser[IO]) State() string {
	return string(p.state)
}

// ContentLength is the announced body length once headers have been read.
func (p *Parser[IO]) ContentLength() int64 {
	return p.length
}

func (p *Parser[IO]) expect(s exchangeState) error {
	if p.state != s {
		return ErrInvalidParserState
	}
	return nil
}

// StatusLine reads the status line of a response.
func (p *Parser[IO]) StatusLine(c IO) chain.Result[IO, StatusLine] {
	if err := p.expect(stateStatusLine); err != nil {
		return chain.Fail[StatusLine](c, err)
	}
	res := ReadStatusLine(p.r, c, p.strict)
	if res.OK() {
		p.state = p.state.advance()
	}
	return res
}

// RequestLine reads the request line of a request, for the receiving side
// of a connection.
func (p *Parser[IO]) RequestLine(c IO) chain.Result[IO, RequestLine] {
	if err := p.expect(stateStatusLine); err != nil {
		return chain.Fail[RequestLine](c, err)
	}
	res := ReadRequestLine(p.r, c)
	if res.OK() {
		p.state = p.state.advance()
	}
	return res
}

// Headers reads the header block. observe, if not nil, sees every field in
// arrival order. A body length of zero moves the parser straight to done.
func (p *Parser[IO]) Headers(c IO, observe func(name, value string)) chain.Result[IO, *headers.Headers] {
	if err := p.expect(stateHeaders); err != nil {
		return chain.Fail[*headers.Headers](c, err)
	}
	collect := func(h *headers.Headers, name, value string) *headers.Headers {
		if observe != nil {
			observe(name, value)
		}
		h.Put(name, value)
		return h
	}
	res := ReadHeaders(p.r, c, collect, headers.NewHeaders())
	if !res.OK() {
		return res
	}
	p.length = ContentLength(res.Value())
	p.state = p.state.advance()
	if p.length <= 0 {
		p.state = p.state.advance()
	}
	return res
}

// Head reads the status line and the header block.
func (p *Parser[IO]) Head(c IO, observe func(name, value string)) chain.Result[IO, Head] {
	return chain.Bind(p.StatusLine(c), func(c IO, sl StatusLine) chain.Result[IO, Head] {
		return chain.Map(p.Headers(c, observe), func(h *headers.Headers) Head {
			return Head{Status: sl, Headers: h}
		})
	})
}

// Body streams the body to sink. When the headers announced no body it
// returns at once without touching the connection.
func (p *Parser[IO]) Body(c IO, sink io.Writer, chunk int) chain.Result[IO, int64] {
	if p.state == stateDone && p.length <= 0 {
		return chain.Ok(c, int64(0))
	}
	if err := p.expect(stateBody); err != nil {
		return chain.Fail[int64](c, err)
	}
	res := StreamBody(p.r, c, p.length, sink, chunk)
	if res.OK() {
		p.state = p.state.advance()
	}
	return res
}
