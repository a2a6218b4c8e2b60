package client

import (
	"errors"
	"net"
	"time"
)

// ErrConnExpired marks a connection past its max lifetime. retryTransport
// replaces it without counting a retry attempt.
var ErrConnExpired = errors.New("connection expired")

// timedConn wraps net.Conn to enforce a max lifetime. After expiry the
// connection fails on the next read or write, forcing http.Transport to dial
// fresh (with a new DNS lookup).
type timedConn struct {
	net.Conn
	createdAt   time.Time
	maxLifetime time.Duration
}

func (c *timedConn) isExpired() bool {
	return time.Since(c.createdAt) > c.maxLifetime
}

func (c *timedConn) Read(b []byte) (n int, err error) {
	if c.isExpired() {
		_ = c.Close() //nolint:errcheck // Best effort cleanup on expiry
		return 0, ErrConnExpired
	}
	return c.Conn.Read(b)
}

func (c *timedConn) Write(b []byte) (n int, err error) {
	if c.isExpired() {
		_ = c.Close() //nolint:errcheck // Best effort cleanup on expiry
		return 0, ErrConnExpired
	}
	return c.Conn.Write(b)
}
