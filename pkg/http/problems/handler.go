package problems

import (
	"context"
	"net/http"

	"github.com/fwplatform/service-chassis/pkg/core/logger"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// PreHook runs before a fault is classified. It may block on the context.
type PreHook func(ctx context.Context, r *http.Request, err error) error

// PostHook runs after the problem response has been built and sent. It may
// block on the context.
type PostHook func(ctx context.Context, r *http.Request, p *Problem, err error) error

// Handler converts a fault into a problem response for the given request.
type Handler func(w http.ResponseWriter, r *http.Request, err error)

// Option configures a Handler.
type Option func(*handlerOptions)

type handlerOptions struct {
	preHooks  []PreHook
	postHooks []PostHook
}

// WithPreHook appends a hook that runs before classification. Hooks run in
// registration order; a hook that fails or panics is swallowed so
// instrumentation never breaks error handling.
func WithPreHook(h PreHook) Option {
	return func(o *handlerOptions) {
		o.preHooks = append(o.preHooks, h)
	}
}

// WithPostHook appends a hook that runs after the response is sent. The same
// ordering and swallowing rules as WithPreHook apply.
func WithPostHook(h PostHook) Option {
	return func(o *handlerOptions) {
		o.postHooks = append(o.postHooks, h)
	}
}

// NewHandler returns a Handler running the classify-and-render pipeline:
// pre-hooks, classification, response write, post-hooks. All pre-hooks
// complete before classification begins; all post-hooks complete before the
// handler returns.
func NewHandler(opts ...Option) Handler {
	o := &handlerOptions{}
	for _, opt := range opts {
		opt(o)
	}

	return func(w http.ResponseWriter, r *http.Request, err error) {
		ctx := r.Context()

		for _, hook := range o.preHooks {
			runHook(ctx, func() error { return hook(ctx, r, err) })
		}

		p := Classify(r.URL.Path, err)
		if p.TraceID == "" {
			if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
				p.TraceID = sc.TraceID().String()
			}
		}
		p.Write(w)

		for _, hook := range o.postHooks {
			runHook(ctx, func() error { return hook(ctx, r, p, err) })
		}
	}
}

// runHook executes a hook, logging and discarding any failure or panic.
func runHook(ctx context.Context, fn func() error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Get(ctx).Warn("problem hook panicked", zap.Any("panic", rec))
		}
	}()
	if err := fn(); err != nil {
		logger.Get(ctx).Warn("problem hook failed", zap.Error(err))
	}
}

// LoggingPostHook returns a post-hook that records the classified fault.
func LoggingPostHook() PostHook {
	return func(ctx context.Context, r *http.Request, p *Problem, err error) error {
		logger.Get(ctx).Error("Request error",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.Int("status", p.Status),
			zap.String("type", p.Type),
			zap.Error(err),
		)
		return nil
	}
}

// NewHandlerModule provides the problem Handler with fault logging wired in.
func NewHandlerModule(opts ...Option) fx.Option {
	return fx.Provide(func() Handler {
		all := append([]Option{WithPostHook(LoggingPostHook())}, opts...)
		return NewHandler(all...)
	})
}
