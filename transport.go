package twitter

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	stealth "github.com/anatolykoptev/go-stealth"
)

// baseTransport returns the round tripper that signed requests are sent through.
func baseTransport(cfg ClientConfig) (http.RoundTripper, error) {
	if cfg.HTTPClient != nil && cfg.HTTPClient.Transport != nil {
		return cfg.HTTPClient.Transport, nil
	}
	switch cfg.Transport {
	case TransportHTTP:
		return http.DefaultTransport, nil
	case TransportStealth:
		return newStealthTransport(cfg)
	}
	return nil, fmt.Errorf("unknown transport %d", cfg.Transport)
}

// stealthTransport adapts a go-stealth browser client to http.RoundTripper.
type stealthTransport struct {
	bc        *stealth.BrowserClient
	userAgent string
}

func newStealthTransport(cfg ClientConfig) (*stealthTransport, error) {
	profile := stealth.BuiltinProfiles[0]
	opts := []stealth.ClientOption{
		stealth.WithHeaderOrder(restHeaderOrder),
		stealth.WithProfile(profile.TLSProfile),
	}
	if cfg.Proxy != "" {
		opts = append(opts, stealth.WithProxy(cfg.Proxy))
	}
	bc, err := stealth.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("stealth client: %w", err)
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = profile.UserAgent
	}
	return &stealthTransport{bc: bc, userAgent: ua}, nil
}

type stealthResult struct {
	body    []byte
	headers map[string]string
	status  int
	err     error
}

// RoundTrip sends req through the browser client. The call is abandoned when
// the request context ends.
func (t *stealthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body io.Reader
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		body = bytes.NewReader(b)
	}
	headers := mergeHeaders(browserHeaders(t.userAgent), req.Header)

	done := make(chan stealthResult, 1)
	go func() {
		b, h, status, err := t.bc.DoWithHeaderOrder(req.Method, req.URL.String(), headers, body, restHeaderOrder)
		done <- stealthResult{body: b, headers: h, status: status, err: err}
	}()

	select {
	case <-req.Context().Done():
		return nil, req.Context().Err()
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		resp := &http.Response{
			Status:        strconv.Itoa(r.status) + " " + http.StatusText(r.status),
			StatusCode:    r.status,
			Proto:         "HTTP/1.1",
			ProtoMajor:    1,
			ProtoMinor:    1,
			Header:        make(http.Header, len(r.headers)),
			Body:          io.NopCloser(bytes.NewReader(r.body)),
			ContentLength: int64(len(r.body)),
			Request:       req,
		}
		for k, v := range r.headers {
			resp.Header.Set(k, v)
		}
		return resp, nil
	}
}
