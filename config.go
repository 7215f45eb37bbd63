package twitter

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-stealth/ratelimit"
)

// Transport selects the HTTP stack under the OAuth signer.
type Transport int

const (
	// TransportHTTP uses net/http.
	TransportHTTP Transport = iota
	// TransportStealth uses a go-stealth browser client.
	TransportStealth
)

// ClientConfig holds all configuration for a Connection.
type ClientConfig struct {
	// BaseURL is the API host. Default: https://api.twitter.com
	BaseURL string

	// Timeout bounds every request, including the OAuth handshake.
	Timeout time.Duration

	// Transport selects the base transport.
	Transport Transport

	// Proxy is an optional proxy URL for the stealth transport.
	Proxy string

	// UserAgent overrides the stealth browser profile's User-Agent.
	UserAgent string

	// HTTPClient, when set, supplies the base transport instead of Transport.
	HTTPClient *http.Client

	// RateLimit configures the per-endpoint limit memory.
	RateLimit ratelimit.Config

	// Logger receives request logs. Default: slog.Default()
	Logger *slog.Logger

	// MetricsHook is called on each API request for external metrics collection.
	// endpoint is the remote method name, success and rateLimited indicate the outcome.
	MetricsHook func(endpoint string, success, rateLimited bool)
}

// defaults fills in zero-value config fields with sensible defaults.
func (cfg *ClientConfig) defaults() {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RateLimit.RequestsPerWindow == 0 {
		cfg.RateLimit = ratelimit.DefaultConfig
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
}
