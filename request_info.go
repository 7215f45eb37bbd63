package twitter

import (
	"net/http"
	"strconv"
	"time"
)

// RequestInfo is the rate-limit and timing metadata of one response.
// A nil field means the corresponding header was absent.
type RequestInfo struct {
	RateLimitLimit     *int
	RateLimitRemaining *int
	RateLimitReset     *time.Time
	RateLimitClass     *string

	FeatureRateLimitLimit     *int
	FeatureRateLimitRemaining *int
	FeatureRateLimitReset     *time.Time
	FeatureRateLimitClass     *string

	// Runtime is the server-side duration in seconds.
	Runtime *float64
}

// NewRequestInfo reads the rate-limit headers of a response. Each field is
// set only when its own header is present. The v1.1 X-Rate-Limit-* spellings
// fill the overall fields when the v1 headers are missing.
func NewRequestInfo(h http.Header) *RequestInfo {
	ri := &RequestInfo{
		RateLimitLimit:     headerInt(h, "X-RateLimit-Limit", "X-Rate-Limit-Limit"),
		RateLimitRemaining: headerInt(h, "X-RateLimit-Remaining", "X-Rate-Limit-Remaining"),
		RateLimitReset:     headerTime(h, "X-RateLimit-Reset", "X-Rate-Limit-Reset"),
		RateLimitClass:     headerString(h, "X-RateLimit-Class"),

		FeatureRateLimitLimit:     headerInt(h, "X-FeatureRateLimit-Limit"),
		FeatureRateLimitRemaining: headerInt(h, "X-FeatureRateLimit-Remaining"),
		FeatureRateLimitReset:     headerTime(h, "X-FeatureRateLimit-Reset"),
		FeatureRateLimitClass:     headerString(h, "X-FeatureRateLimit-Class"),
	}
	if v, ok := firstHeader(h, "X-Runtime"); ok {
		f, _ := strconv.ParseFloat(v, 64)
		ri.Runtime = &f
	}
	return ri
}

// Exceeded reports whether the overall or the feature limit is configured
// and has nothing remaining.
func (ri *RequestInfo) Exceeded() bool {
	if ri == nil {
		return false
	}
	return exhausted(ri.RateLimitLimit, ri.RateLimitRemaining) ||
		exhausted(ri.FeatureRateLimitLimit, ri.FeatureRateLimitRemaining)
}

// ResetAt returns the earliest time at which an exhausted limit resets.
func (ri *RequestInfo) ResetAt() (time.Time, bool) {
	if ri == nil {
		return time.Time{}, false
	}
	var at time.Time
	if exhausted(ri.FeatureRateLimitLimit, ri.FeatureRateLimitRemaining) && ri.FeatureRateLimitReset != nil {
		at = *ri.FeatureRateLimitReset
	}
	if exhausted(ri.RateLimitLimit, ri.RateLimitRemaining) && ri.RateLimitReset != nil {
		if at.IsZero() || ri.RateLimitReset.Before(at) {
			at = *ri.RateLimitReset
		}
	}
	return at, !at.IsZero()
}

func exhausted(limit, remaining *int) bool {
	return limit != nil && *limit > 0 && remaining != nil && *remaining == 0
}

func firstHeader(h http.Header, names ...string) (string, bool) {
	for _, name := range names {
		if vs := h.Values(name); len(vs) > 0 {
			return vs[0], true
		}
	}
	return "", false
}

func headerInt(h http.Header, names ...string) *int {
	v, ok := firstHeader(h, names...)
	if !ok {
		return nil
	}
	n, _ := strconv.Atoi(v)
	return &n
}

func headerTime(h http.Header, names ...string) *time.Time {
	v, ok := firstHeader(h, names...)
	if !ok {
		return nil
	}
	t, ok := parseRateLimitReset(v)
	if !ok {
		t = time.Unix(0, 0)
	}
	return &t
}

func headerString(h http.Header, name string) *string {
	v, ok := firstHeader(h, name)
	if !ok {
		return nil
	}
	return &v
}
