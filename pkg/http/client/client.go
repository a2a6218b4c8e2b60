// Package client builds outbound HTTP clients for calling sibling services.
// Clients propagate the caller's correlation id, rotate connections for pod
// load balancing, and retry transient transport failures.
package client

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	appconfig "github.com/fwplatform/service-chassis/pkg/core/config"
	"github.com/fwplatform/service-chassis/pkg/http/middleware"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Defaults tuned for Kubernetes: MaxConnLifetime forces periodic reconnects
// so traffic rebalances to new pods.
const (
	DefaultTimeout             = 10 * time.Second
	DefaultMaxIdleConnsPerHost = 100
	DefaultIdleConnTimeout     = 90 * time.Second
	DefaultMaxConnLifetime     = 60 * time.Second
	MaxRetriesCap              = 5
)

// ClientConfig holds configuration for an HTTP client loaded from the config
// file.
// yaml example:
//
//	clients:
//	  billing-service:
//	    base-url: http://billing-service:8080
//	    timeout: 10s
//	    max-idle-conns-per-host: 10
//	    idle-conn-timeout: 10s
//	    max-conn-lifetime: 60s
//
// Omit timeout fields to use defaults. Set to 0 to disable.
type ClientConfig struct {
	BaseURL             string         `mapstructure:"base-url"`
	Timeout             *time.Duration `mapstructure:"timeout"`
	MaxIdleConnsPerHost *int           `mapstructure:"max-idle-conns-per-host"`
	IdleConnTimeout     *time.Duration `mapstructure:"idle-conn-timeout"`
	MaxConnLifetime     *time.Duration `mapstructure:"max-conn-lifetime"`
}

func newHTTPClient(cfg ClientConfig, source string) *http.Client {
	dialer := &net.Dialer{
		Timeout: 5 * time.Second,
	}

	maxConnLifetime := *cfg.MaxConnLifetime
	maxIdleConnsPerHost := *cfg.MaxIdleConnsPerHost

	// Custom DialContext only needed when MaxConnLifetime is enabled
	var dialContext func(ctx context.Context, network, addr string) (net.Conn, error)
	if maxConnLifetime > 0 {
		dialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			return &timedConn{
				Conn:        conn,
				createdAt:   time.Now(),
				maxLifetime: maxConnLifetime,
			}, nil
		}
	}

	transport := &http.Transport{
		DialContext:         dialContext,
		MaxIdleConnsPerHost: maxIdleConnsPerHost,
		IdleConnTimeout:     *cfg.IdleConnTimeout,
	}

	// Retries = min(pool size, cap): enough to drain dead connections
	// without excessive attempts.
	rt := &retryTransport{
		base:       transport,
		transport:  transport,
		maxRetries: min(maxIdleConnsPerHost, MaxRetriesCap),
	}

	return &http.Client{
		Timeout:   *cfg.Timeout,
		Transport: &identityTransport{base: rt, source: source},
	}
}

// identityTransport stamps outbound requests with the caller's identity: the
// correlation id bound to the request context and the service name as source.
type identityTransport struct {
	base   http.RoundTripper
	source string
}

func (t *identityTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if out.Header.Get(middleware.CorrelationHeader) == "" {
		if id := middleware.CorrelationID(req.Context()); id != "NONE" {
			out.Header.Set(middleware.CorrelationHeader, id)
		}
	}
	if t.source != "" && out.Header.Get(middleware.SourceHeader) == "" {
		out.Header.Set(middleware.SourceHeader, t.source)
	}
	return t.base.RoundTrip(out)
}

// ProvideHTTPClient returns a provider function that creates an HTTP client
// from the named clients section.
// Usage with fx:
//
//	fx.Provide(fx.Private, client.ProvideHTTPClient("billing-service"))
func ProvideHTTPClient(name string) func(*viper.Viper, appconfig.AppConfig) (*http.Client, ClientConfig, error) {
	return func(cfg *viper.Viper, app appconfig.AppConfig) (*http.Client, ClientConfig, error) {
		var clientCfg ClientConfig
		if err := cfg.UnmarshalKey("clients."+name, &clientCfg); err != nil {
			return nil, ClientConfig{}, fmt.Errorf("failed to unmarshal client config %q: %w", name, err)
		}
		if err := clientCfg.validate(); err != nil {
			return nil, ClientConfig{}, fmt.Errorf("invalid client config %q: %w", name, err)
		}
		clientCfg.applyDefaults()
		return newHTTPClient(clientCfg, app.ServiceName), clientCfg, nil
	}
}

func (c *ClientConfig) applyDefaults() {
	if c.Timeout == nil {
		c.Timeout = lo.ToPtr(DefaultTimeout)
	}
	if c.MaxIdleConnsPerHost == nil {
		c.MaxIdleConnsPerHost = lo.ToPtr(DefaultMaxIdleConnsPerHost)
	}
	if c.IdleConnTimeout == nil {
		c.IdleConnTimeout = lo.ToPtr(DefaultIdleConnTimeout)
	}
	if c.MaxConnLifetime == nil {
		c.MaxConnLifetime = lo.ToPtr(DefaultMaxConnLifetime)
	}
}

func (c ClientConfig) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base-url is required")
	}
	return nil
}
