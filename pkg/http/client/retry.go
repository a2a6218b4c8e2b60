package client

import (
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
)

// retryTransport retries transient transport errors immediately, without
// backoff. It targets pod failover: the request most likely succeeds on a
// fresh connection to a healthy pod. After exhausting retries it drops all
// idle connections and tries once more.
type retryTransport struct {
	base       http.RoundTripper
	transport  *http.Transport // for CloseIdleConnections; nil if base is custom
	maxRetries int
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for attempt := 0; attempt <= t.maxRetries; {
		resp, err := t.doRequest(req, attempt)
		if err == nil {
			return resp, nil
		}

		// Expired connections don't count as retries
		if errors.Is(err, ErrConnExpired) {
			continue
		}

		if !isRetryableError(err) {
			return nil, err
		}
		attempt++
	}

	// Pool may be full of dead connections
	if t.transport != nil {
		t.transport.CloseIdleConnections()
	}

	return t.doRequest(req, t.maxRetries+1)
}

func (t *retryTransport) doRequest(req *http.Request, attempt int) (*http.Response, error) {
	reqToSend := req

	// Clone the request on retry, the body may have been consumed
	if attempt > 0 {
		reqToSend = req.Clone(req.Context())
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			reqToSend.Body = body
		}
	}

	return t.base.RoundTrip(reqToSend)
}

// isRetryableError reports whether the error is transient: the peer vanished
// or closed the connection, not a caller mistake.
func isRetryableError(err error) bool {
	transient := []error{
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.ENETUNREACH,
		syscall.EPIPE,
		io.EOF,
		io.ErrUnexpectedEOF,
		net.ErrClosed,
	}
	for _, target := range transient {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
