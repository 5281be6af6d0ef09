package conn

import "errors"

// ErrInvalidHandle is returned for operations on a closed or unopened handle.
var ErrInvalidHandle = errors.New("invalid connection handle")

// ErrNoCandidates is returned when there is nothing to connect to.
var ErrNoCandidates = errors.New("no candidate addresses")

// ErrUnknownNetwork is returned by Resolve for a network other than tcp, tcp4 or tcp6.
var ErrUnknownNetwork = errors.New("unknown network")
