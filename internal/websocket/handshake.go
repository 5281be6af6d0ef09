// Package websocket checks the opening handshake of RFC 6455.
package websocket

import (
	"crypto/sha1"
	"encoding/base64"

	"github.com/shravanasati/courier/internal/clienterr"
	"github.com/shravanasati/courier/internal/response"
)

// acceptGUID is appended to the client key before hashing.
const acceptGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// AcceptKey returns the Sec-WebSocket-Accept value a server must send back
// for the given Sec-WebSocket-Key.
func AcceptKey(key string) string {
	sum := sha1.Sum([]byte(key + acceptGUID))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// Verify checks a server's reply to an upgrade request sent with key.
func Verify(status response.StatusLine, info response.HeaderInfo, key string) error {
	switch {
	case status.Code != response.StatusSwitchingProtocols:
		return clienterr.Newf(clienterr.Handshake, "verify upgrade", "server answered %s", status.Code)
	case !info.UpgradeWebSocket:
		return clienterr.Newf(clienterr.Handshake, "verify upgrade", "missing upgrade: websocket")
	case !info.ConnectionUpgrade:
		return clienterr.Newf(clienterr.Handshake, "verify upgrade", "connection header lacks upgrade")
	case info.WebSocketAccept != AcceptKey(key):
		return clienterr.Newf(clienterr.Handshake, "verify upgrade", "accept key %q does not match", info.WebSocketAccept)
	}
	return nil
}

// Acceptable reports whether a request's headers ask for a version 13
// upgrade with a key.
func Acceptable(info response.HeaderInfo) bool {
	return info.UpgradeWebSocket && info.ConnectionUpgrade &&
		info.WebSocketKey != "" && info.WebSocketVersion == 13
}
