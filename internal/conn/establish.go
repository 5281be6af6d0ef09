package conn

import (
	"context"
	"net"
	"net/netip"
	"time"

	"github.com/pkg/errors"

	"github.com/shravanasati/courier/internal/clienterr"
)

// AddrList is the ordered result of one resolution.
type AddrList []netip.AddrPort

// Resolver maps a host and port to candidate addresses.
type Resolver struct {
	// Network is "tcp4" (the default), "tcp6", or "tcp" for both families.
	Network string
	// Timeout bounds the lookup. Zero means no limit.
	Timeout time.Duration
	// Lookup is the underlying resolver; nil means net.DefaultResolver.
	Lookup *net.Resolver
}

// Resolve looks up host and port, which may be a number or a service name.
// An empty answer is an error, never an empty list.
func (r *Resolver) Resolve(host, port string) (AddrList, error) {
	lookup := r.Lookup
	if lookup == nil {
		lookup = net.DefaultResolver
	}
	ctx := context.Background()
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	op := "resolve " + net.JoinHostPort(host, port)
	ipNetwork, portNetwork := "ip4", "tcp4"
	switch r.Network {
	case "", "tcp4":
	case "tcp":
		ipNetwork, portNetwork = "ip", "tcp"
	case "tcp6":
		ipNetwork, portNetwork = "ip6", "tcp6"
	default:
		return nil, clienterr.New(clienterr.Resolution, op, errors.Wrapf(ErrUnknownNetwork, "%q", r.Network))
	}

	portNum, err := lookup.LookupPort(ctx, portNetwork, port)
	if err != nil {
		return nil, clienterr.New(clienterr.Resolution, op, err)
	}

	ips, err := lookup.LookupNetIP(ctx, ipNetwork, host)
	if err != nil {
		return nil, clienterr.New(clienterr.Resolution, op, err)
	}
	if len(ips) == 0 {
		return nil, clienterr.New(clienterr.Resolution, op,
			&net.DNSError{Err: "no such host", Name: host, IsNotFound: true})
	}

	addrs := make(AddrList, 0, len(ips))
	for _, ip := range ips {
		addrs = append(addrs, netip.AddrPortFrom(ip.Unmap(), uint16(portNum)))
	}
	return addrs, nil
}

// Dialer connects to the first candidate that accepts.
type Dialer struct {
	// Timeout bounds each connect attempt. Zero means the OS default.
	Timeout time.Duration
	// ReceiveBuffer and SendBuffer set SO_RCVBUF/SO_SNDBUF before connect
	// when non-zero.
	ReceiveBuffer int
	SendBuffer    int
}

// Connect tries each candidate in order. When all of them fail the last
// error is returned.
func (d *Dialer) Connect(addrs AddrList) (Handle, error) {
	if len(addrs) == 0 {
		return Handle{}, clienterr.New(clienterr.Connect, "connect", ErrNoCandidates)
	}

	nd := net.Dialer{
		Timeout: d.Timeout,
		Control: socketControl(d.ReceiveBuffer, d.SendBuffer),
	}
	var lastErr error
	for _, ap := range addrs {
		network := "tcp4"
		if ap.Addr().Is6() {
			network = "tcp6"
		}
		nc, err := nd.Dial(network, ap.String())
		if err != nil {
			// the dialer closes a socket whose connect failed
			lastErr = err
			continue
		}
		return NewHandle(nc), nil
	}
	return Handle{}, clienterr.New(clienterr.Connect, "connect",
		errors.Wrapf(lastErr, "%d candidate(s) refused", len(addrs)))
}
