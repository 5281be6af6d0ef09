package response

import (
	"io"

	"github.com/shravanasati/courier/internal/chain"
	"github.com/shravanasati/courier/internal/reader"
)

// DefaultChunkSize is the largest span handed to the sink at once.
const DefaultChunkSize = 256

// StreamBody copies up to contentLength body bytes to sink in spans of at
// most chunk bytes and returns the number of bytes delivered. The server
// closing the stream early ends the body without an error.
func StreamBody[IO any](r *reader.BufferedReader[IO], c IO, contentLength int64, sink io.Writer, chunk int) chain.Result[IO, int64] {
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	var delivered int64
	for remaining := contentLength; remaining > 0; {
		res := r.GetSpan(c, int(min(remaining, int64(chunk))))
		c = res.State()
		if err := res.Err(); err != nil {
			return chain.Fail[int64](c, err)
		}
		span := res.Value()
		if len(span) == 0 {
			// short read
			break
		}
		if _, err := sink.Write(span); err != nil {
			return chain.Fail[int64](c, err)
		}
		remaining -= int64(len(span))
		delivered += int64(len(span))
	}
	return chain.Ok(c, delivered)
}
