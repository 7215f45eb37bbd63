package twitter

import (
	"net/http"
	"strings"

	stealth "github.com/anatolykoptev/go-stealth"
)

// browserHeaders returns the headers the stealth transport adds to every API call.
func browserHeaders(userAgent string) map[string]string {
	h := map[string]string{
		"user-agent":      userAgent,
		"accept":          "application/json",
		"accept-language": "en-US,en;q=0.9",
		"accept-encoding": "gzip, deflate, br",
	}
	if ch := stealth.ClientHintsHeaders(userAgent); ch != nil {
		for k, v := range ch {
			h[k] = v
		}
	}
	return h
}

// mergeHeaders lower-cases request headers over the browser defaults.
// Request headers win, so the OAuth signature and content type are kept.
func mergeHeaders(defaults map[string]string, req http.Header) map[string]string {
	out := make(map[string]string, len(defaults)+len(req))
	for k, v := range defaults {
		out[k] = v
	}
	for k, vs := range req {
		if len(vs) > 0 {
			out[strings.ToLower(k)] = vs[0]
		}
	}
	return out
}

// restHeaderOrder is the header order for TLS fingerprint consistency.
var restHeaderOrder = []string{
	"authorization",
	"content-type",
	"content-length",
	"sec-ch-ua",
	"sec-ch-ua-mobile",
	"sec-ch-ua-platform",
	"user-agent",
	"accept",
	"accept-language",
	"accept-encoding",
}
