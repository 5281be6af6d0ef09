package response

import (
	"fmt"
	"strings"

	"github.com/shravanasati/courier/internal/chain"
	"github.com/shravanasati/courier/internal/clienterr"
	"github.com/shravanasati/courier/internal/reader"
)

// StatusLine is the first line of a response.
type StatusLine struct {
	Version string
	Code    StatusCode
	Reason  string
}

func (s StatusLine) String() string {
	return fmt.Sprintf("%s %03d %s", s.Version, int(s.Code), s.Reason)
}

// RequestLine is the first line of a request.
type RequestLine struct {
	Method  string
	URI     string
	Version string
}

func (r RequestLine) String() string {
	return r.Method + " " + r.URI + " " + r.Version
}

// cutToken skips leading blanks and splits off the next blank-delimited token.
func cutToken(s string) (token, rest string) {
	s = strings.TrimLeft(s, " \t")
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

// ParseStatusLine parses `<version> <code> <reason>`. The reason is the rest
// of the line and may contain spaces; none of the three parts may be empty.
func ParseStatusLine(line string, strict bool) (StatusLine, error) {
	version, rest := cutToken(line)
	code, rest := cutToken(rest)
	reason := strings.TrimLeft(rest, " \t")
	if version == "" || code == "" || reason == "" {
		return StatusLine{}, clienterr.Newf(clienterr.MalformedLine, "parse status line", "%q", line)
	}
	sc, err := ParseStatusCode(code, strict)
	if err != nil {
		return StatusLine{}, err
	}
	return StatusLine{Version: version, Code: sc, Reason: reason}, nil
}

// ParseRequestLine parses `<method> <uri> <version>`.
func ParseRequestLine(line string) (RequestLine, error) {
	parts := strings.Fields(line)
	if len(parts) != 3 {
		return RequestLine{}, clienterr.Newf(clienterr.MalformedLine, "parse request line", "%q", line)
	}
	return RequestLine{Method: parts[0], URI: parts[1], Version: parts[2]}, nil
}

// readLine reads one line, turning end of stream into OutOfData.
func readLine[IO any](r *reader.BufferedReader[IO], c IO, op string) chain.Result[IO, string] {
	return chain.Bind(r.Gets(c), func(c IO, line chain.Maybe[string]) chain.Result[IO, string] {
		text, ok := line.Get()
		if !ok {
			return chain.Fail[string](c, clienterr.New(clienterr.OutOfData, op, nil))
		}
		return chain.Ok(c, text)
	})
}

// ReadStatusLine reads and parses a status line.
func ReadStatusLine[IO any](r *reader.BufferedReader[IO], c IO, strict bool) chain.Result[IO, StatusLine] {
	return chain.Bind(readLine(r, c, "read status line"), func(c IO, line string) chain.Result[IO, StatusLine] {
		sl, err := ParseStatusLine(line, strict)
		if err != nil {
			return chain.Fail[StatusLine](c, err)
		}
		return chain.Ok(c, sl)
	})
}

// ReadRequestLine reads and parses a request line.
func ReadRequestLine[IO any](r *reader.BufferedReader[IO], c IO) chain.Result[IO, RequestLine] {
	return chain.Bind(readLine(r, c, "read request line"), func(c IO, line string) chain.Result[IO, RequestLine] {
		rl, err := ParseRequestLine(line)
		if err != nil {
			return chain.Fail[RequestLine](c, err)
		}
		return chain.Ok(c, rl)
	})
}
