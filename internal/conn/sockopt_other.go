//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package conn

import "syscall"

func socketControl(rcvbuf, sndbuf int) func(network, address string, c syscall.RawConn) error {
	return nil
}

func receiveBuffer(h Handle) (int, error) {
	return 0, ErrInvalidHandle
}
