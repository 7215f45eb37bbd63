package twitter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/anatolykoptev/go-stealth/ratelimit"
	"github.com/dghubble/oauth1"
)

// rateLimitFallback is how long an endpoint is remembered as limited when the
// response carries no reset time.
const rateLimitFallback = 15 * time.Minute

// Connection signs and sends API calls for one credential set and remembers
// the rate-limit state of the latest response.
type Connection struct {
	creds   Credentials
	cfg     ClientConfig
	base    *url.URL
	baseRT  http.RoundTripper
	logger  *slog.Logger
	limiter *ratelimit.Limiter

	mu          sync.Mutex
	consumer    *oauth1.Config
	token       *oauth1.Token
	client      *http.Client
	requestInfo *RequestInfo
}

// NewConnection builds the connection variant matching creds.
// Credentials without a consumer key fail with ErrUnsupportedCredentials.
func NewConnection(creds Credentials, cfg ClientConfig) (*Connection, error) {
	if creds.Kind() != CredentialsIdentified {
		return nil, &Error{Kind: KindUnsupportedCredentials, Message: "connection needs an oauth consumer key"}
	}
	cfg.defaults()

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	rt, err := baseTransport(cfg)
	if err != nil {
		return nil, err
	}
	return &Connection{
		creds:   creds,
		cfg:     cfg,
		base:    base,
		baseRT:  rt,
		logger:  cfg.Logger,
		limiter: ratelimit.NewLimiter(cfg.RateLimit),
	}, nil
}

// Credentials returns the credentials the connection was built with.
func (c *Connection) Credentials() Credentials { return c.creds }

// Consumer returns the memoized OAuth consumer, or nil when the consumer
// key or secret is missing.
func (c *Connection) Consumer() *oauth1.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.consumerLocked()
}

func (c *Connection) consumerLocked() *oauth1.Config {
	if c.consumer == nil && c.creds.HasConsumer() {
		cfg := oauth1.NewConfig(c.creds.ConsumerKey, c.creds.ConsumerSecret)
		cfg.Endpoint = oauthEndpoint(c.base)
		cfg.HTTPClient = &http.Client{Transport: c.baseRT, Timeout: c.cfg.Timeout}
		c.consumer = cfg
	}
	return c.consumer
}

// Token returns the memoized user access token, or nil until both
// token and secret are known.
func (c *Connection) Token() *oauth1.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessTokenLocked()
}

func (c *Connection) accessTokenLocked() *oauth1.Token {
	if c.token == nil && c.creds.HasToken() {
		c.token = oauth1.NewToken(c.creds.Token, c.creds.TokenSecret)
	}
	return c.token
}

// signedClient returns the HTTP client that signs with the access token.
func (c *Connection) signedClient() (*http.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	consumer := c.consumerLocked()
	if consumer == nil {
		return nil, &Error{Kind: KindUnsupportedCredentials, Message: "missing consumer secret"}
	}
	token := c.accessTokenLocked()
	if token == nil {
		return nil, &Error{Kind: KindUnauthorized, Message: "no access token"}
	}
	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, &http.Client{Transport: c.baseRT})
	hc := consumer.Client(ctx, token)
	hc.Timeout = c.cfg.Timeout
	c.client = hc
	return hc, nil
}

// RequestInfo returns the rate-limit snapshot of the latest call, or nil
// before the first call.
func (c *Connection) RequestInfo() *RequestInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requestInfo
}

// RateLimitExceeded reports whether the latest response showed an exhausted
// overall or feature limit.
func (c *Connection) RateLimitExceeded() bool {
	return c.RequestInfo().Exceeded()
}

// EndpointRateLimited reports whether method is remembered as limited.
func (c *Connection) EndpointRateLimited(method string) bool {
	return c.limiter.IsRateLimited(method)
}

// EndpointAvailableAt returns when method may be called again.
func (c *Connection) EndpointAvailableAt(method string) time.Time {
	return c.limiter.AvailableAt(method)
}

// BuildURI returns the absolute URI of method with params in the query string.
func (c *Connection) BuildURI(method string, params Params) *url.URL {
	return buildURI(c.base, method, params)
}

// Get calls method with params in the query string.
func (c *Connection) Get(ctx context.Context, method string, params Params) (Payload, error) {
	return c.do(ctx, http.MethodGet, method, params)
}

// Post calls method with params as a form-encoded body.
func (c *Connection) Post(ctx context.Context, method string, params Params) (Payload, error) {
	return c.do(ctx, http.MethodPost, method, params)
}

func (c *Connection) do(ctx context.Context, httpMethod, method string, params Params) (Payload, error) {
	params = ConvertIDs(params)
	c.logger.Info("twitter request",
		slog.String("method", httpMethod),
		slog.String("endpoint", method),
		slog.Any("params", params))

	hc, err := c.signedClient()
	if err != nil {
		return Payload{}, err
	}
	req, err := c.newRequest(ctx, httpMethod, method, params)
	if err != nil {
		return Payload{}, err
	}

	resp, err := hc.Do(req)
	if err != nil {
		c.setRequestInfo(method, &RequestInfo{})
		c.recordAPICall(method, false, false)
		return Payload{}, transportError(method, err)
	}
	defer resp.Body.Close()

	info := NewRequestInfo(resp.Header)
	c.setRequestInfo(method, info)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordAPICall(method, false, false)
		return Payload{}, transportError(method, fmt.Errorf("read body: %w", err))
	}

	attrs := []slog.Attr{
		slog.String("method", httpMethod),
		slog.String("endpoint", method),
		slog.Int("status", resp.StatusCode),
	}
	if info.Runtime != nil {
		attrs = append(attrs, slog.Float64("runtime", *info.Runtime))
	}
	c.logger.LogAttrs(ctx, slog.LevelInfo, "twitter response", attrs...)
	if resp.StatusCode >= 400 {
		c.logger.Error("twitter error body",
			slog.String("endpoint", method),
			slog.String("body", truncateBytes(body, 500)))
	}

	parsed, parseErr := parseBody(body)
	if kind := kindForStatus(resp.StatusCode); kind != KindNone {
		limited := kind == KindSearchLimitReached || info.Exceeded()
		c.recordAPICall(method, false, limited)
		return Payload{}, &Error{
			Kind:       kind,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(parsed, body),
		}
	}
	if parseErr != nil {
		c.recordAPICall(method, false, false)
		return Payload{}, fmt.Errorf("%s: %w", method, parseErr)
	}
	c.recordAPICall(method, true, false)
	return Payload{value: parsed}, nil
}

func (c *Connection) newRequest(ctx context.Context, httpMethod, method string, params Params) (*http.Request, error) {
	if httpMethod == http.MethodGet {
		return http.NewRequestWithContext(ctx, httpMethod, c.BuildURI(method, params).String(), nil)
	}
	form := encodeParams(params).Encode()
	req, err := http.NewRequestWithContext(ctx, httpMethod, c.BuildURI(method, nil).String(), strings.NewReader(form))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req, nil
}

// setRequestInfo replaces the latest snapshot and remembers exhausted endpoints.
func (c *Connection) setRequestInfo(method string, info *RequestInfo) {
	c.mu.Lock()
	c.requestInfo = info
	c.mu.Unlock()

	if !info.Exceeded() {
		return
	}
	until, ok := info.ResetAt()
	if !ok || !until.After(time.Now()) {
		until = time.Now().Add(rateLimitFallback)
	}
	c.limiter.MarkRateLimited(method, until)
	c.logger.Warn("twitter rate limit exhausted",
		slog.String("endpoint", method),
		slog.Time("until", until))
}

// recordAPICall calls the metrics hook if configured.
func (c *Connection) recordAPICall(endpoint string, success, rateLimited bool) {
	if c.cfg.MetricsHook != nil {
		c.cfg.MetricsHook(endpoint, success, rateLimited)
	}
}

func truncateBytes(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
