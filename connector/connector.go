package connector

import (
	"context"
	"fmt"
	"net"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// A Candidate is one resolved address we can try to connect to
type Candidate struct {
	Network string
	Address string
}

// A Resolver turns a host and service into an ordered list of Candidates
type Resolver interface {
	Resolve(ctx context.Context, network, host, service string) ([]Candidate, error)
}

// A Dialer opens a connection to a single Candidate. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// A ResolutionError means the target name could not be turned into any
// address at all.
type ResolutionError struct {
	Host    string
	Service string
	Err     error
}

func (e *ResolutionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("no addresses found for %s:%s", e.Host, e.Service)
	}
	return fmt.Sprintf("unable to resolve %s:%s: %s", e.Host, e.Service, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// A ConnectError means every resolved address was tried and none accepted
// a connection.
type ConnectError struct {
	Host     string
	Service  string
	Attempts int
	Err      error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf(
		"unable to connect to %s:%s after trying %d addresses: %s", e.Host, e.Service, e.Attempts, e.Err,
	)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// NetResolver resolves through the system resolver, returning both IPv4 and
// IPv6 addresses in the order the resolver gives them.
type NetResolver struct {
	Resolver *net.Resolver
}

func (r *NetResolver) Resolve(ctx context.Context, network, host, service string) ([]Candidate, error) {
	port, err := r.Resolver.LookupPort(ctx, network, service)
	if err != nil {
		return nil, err
	}

	addrs, err := r.Resolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(addrs))
	for _, addr := range addrs {
		candidates = append(candidates, Candidate{
			Network: network,
			Address: net.JoinHostPort(addr.String(), strconv.Itoa(port)),
		})
	}

	return candidates, nil
}

// A Connector establishes the one connection the sender will use
type Connector struct {
	Network string

	resolver Resolver
	dialer   Dialer
}

// New returns a Connector using the system resolver and a plain dialer with
// no timeout.
func New(network string) *Connector {
	return NewWithResolver(network, &NetResolver{Resolver: net.DefaultResolver}, &net.Dialer{})
}

// NewWithResolver returns a Connector with the given resolver and dialer
func NewWithResolver(network string, resolver Resolver, dialer Dialer) *Connector {
	return &Connector{
		Network:  network,
		resolver: resolver,
		dialer:   dialer,
	}
}

// Connect resolves the target and returns a connection to the first
// candidate that accepts one. Nothing is retried.
func (c *Connector) Connect(ctx context.Context, host, service string) (net.Conn, error) {
	candidates, err := c.resolver.Resolve(ctx, c.Network, host, service)
	if err != nil {
		return nil, &ResolutionError{Host: host, Service: service, Err: err}
	}

	if len(candidates) < 1 {
		return nil, &ResolutionError{Host: host, Service: service}
	}

	var lastErr error
	for _, candidate := range candidates {
		conn, err := c.dialer.DialContext(ctx, candidate.Network, candidate.Address)
		if err != nil {
			log.Warnf("It was not possible to connect to %s: %s", candidate.Address, err)
			lastErr = err
			continue
		}

		log.Infof("A connection with the target (%s) has been established. Sending events...", peerAddress(conn, candidate))
		return conn, nil
	}

	return nil, &ConnectError{Host: host, Service: service, Attempts: len(candidates), Err: lastErr}
}

// peerAddress reports the IP we actually connected to
func peerAddress(conn net.Conn, candidate Candidate) string {
	if remote := conn.RemoteAddr(); remote != nil {
		if host, _, err := net.SplitHostPort(remote.String()); err == nil {
			return host
		}
	}

	if host, _, err := net.SplitHostPort(candidate.Address); err == nil {
		return host
	}

	return candidate.Address
}
