package request

import (
	"encoding/base64"
	"io"

	"github.com/pkg/errors"
)

const keySize = 16

// NewKey returns a Sec-WebSocket-Key: 16 bytes from rnd, base64 encoded.
// RFC 6455 requires a new random nonce for each connection, so rnd should be
// crypto/rand.Reader outside of tests.
func NewKey(rnd io.Reader) (string, error) {
	if rnd == nil {
		return "", ErrNoRandomSource
	}
	var nonce [keySize]byte
	if _, err := io.ReadFull(rnd, nonce[:]); err != nil {
		return "", errors.Wrap(err, "read websocket nonce")
	}
	return base64.StdEncoding.EncodeToString(nonce[:]), nil
}
