//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package conn

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// socketControl sets socket buffer sizes between socket(2) and connect(2),
// while the sizes still influence the advertised TCP window.
func socketControl(rcvbuf, sndbuf int) func(network, address string, c syscall.RawConn) error {
	if rcvbuf <= 0 && sndbuf <= 0 {
		return nil
	}
	return func(network, address string, c syscall.RawConn) error {
		var sockErr error
		err := c.Control(func(fd uintptr) {
			if rcvbuf > 0 {
				if sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, rcvbuf); sockErr != nil {
					return
				}
			}
			if sndbuf > 0 {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, sndbuf)
			}
		})
		if err != nil {
			return err
		}
		return sockErr
	}
}

// receiveBuffer reports SO_RCVBUF for the socket behind h.
func receiveBuffer(h Handle) (int, error) {
	sc, ok := h.nc.(syscall.Conn)
	if !ok {
		return 0, ErrInvalidHandle
	}
	rc, err := sc.SyscallConn()
	if err != nil {
		return 0, err
	}
	var size int
	var sockErr error
	err = rc.Control(func(fd uintptr) {
		size, sockErr = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF)
	})
	if err != nil {
		return 0, err
	}
	return size, sockErr
}
