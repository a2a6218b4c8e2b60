package middleware

import (
	"bufio"
	"net"
	"net/http"
	"runtime/debug"

	"github.com/fwplatform/service-chassis/pkg/http/problems"
)

// trackingWriter records whether the response status line has been sent.
// Once bytes are on the wire the interceptor can no longer substitute a
// problem body.
type trackingWriter struct {
	http.ResponseWriter
	started bool
}

func (w *trackingWriter) WriteHeader(status int) {
	w.started = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *trackingWriter) Write(b []byte) (int, error) {
	w.started = true
	return w.ResponseWriter.Write(b)
}

func (w *trackingWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *trackingWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := w.ResponseWriter.(http.Hijacker); ok {
		w.started = true
		return h.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Intercept wraps a handler so that any panic escaping it is rendered as a
// problem response and then re-raised. Rendering happens only when the
// response has not started; re-raising preserves the panic for the server's
// own accounting and connection teardown.
func Intercept(render problems.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tw := &trackingWriter{ResponseWriter: w}

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err := &problems.PanicError{Value: rec, Stack: debug.Stack()}
				if !tw.started {
					render(tw, r, err)
				}
				panic(err)
			}()

			next.ServeHTTP(tw, r)
		})
	}
}
