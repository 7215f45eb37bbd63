package twitter

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestInfo(t *testing.T) {
	h := http.Header{}
	h.Set("X-RateLimit-Limit", "350")
	h.Set("X-RateLimit-Remaining", "342")
	h.Set("X-RateLimit-Reset", "1340631779")
	h.Set("X-RateLimit-Class", "api_identified")
	h.Set("X-FeatureRateLimit-Limit", "180")
	h.Set("X-FeatureRateLimit-Remaining", "176")
	h.Set("X-FeatureRateLimit-Reset", "1340633143")
	h.Set("X-FeatureRateLimit-Class", "usersearch")
	h.Set("X-Runtime", "0.21619")

	ri := NewRequestInfo(h)
	require.NotNil(t, ri.RateLimitLimit)
	assert.Equal(t, 350, *ri.RateLimitLimit)
	assert.Equal(t, 342, *ri.RateLimitRemaining)
	assert.True(t, ri.RateLimitReset.Equal(time.Unix(1340631779, 0)))
	assert.Equal(t, "api_identified", *ri.RateLimitClass)
	assert.Equal(t, 180, *ri.FeatureRateLimitLimit)
	assert.Equal(t, 176, *ri.FeatureRateLimitRemaining)
	assert.True(t, ri.FeatureRateLimitReset.Equal(time.Unix(1340633143, 0)))
	assert.Equal(t, "usersearch", *ri.FeatureRateLimitClass)
	assert.InDelta(t, 0.21619, *ri.Runtime, 1e-9)
	assert.False(t, ri.Exceeded())
}

func TestNewRequestInfoAbsentHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("X-RateLimit-Limit", "350")
	h.Set("X-RateLimit-Remaining", "0")

	ri := NewRequestInfo(h)
	assert.Equal(t, 0, *ri.RateLimitRemaining)
	assert.Nil(t, ri.RateLimitReset)
	assert.Nil(t, ri.RateLimitClass)
	assert.Nil(t, ri.FeatureRateLimitLimit)
	assert.Nil(t, ri.FeatureRateLimitRemaining)
	assert.Nil(t, ri.Runtime)
	assert.True(t, ri.Exceeded())
}

func TestNewRequestInfoV11Headers(t *testing.T) {
	h := http.Header{}
	h.Set("X-Rate-Limit-Limit", "15")
	h.Set("X-Rate-Limit-Remaining", "14")
	h.Set("X-Rate-Limit-Reset", "1340631779")

	ri := NewRequestInfo(h)
	assert.Equal(t, 15, *ri.RateLimitLimit)
	assert.Equal(t, 14, *ri.RateLimitRemaining)
	assert.NotNil(t, ri.RateLimitReset)
}

func TestRequestInfoExceeded(t *testing.T) {
	n := func(v int) *int { return &v }
	tests := []struct {
		name string
		ri   *RequestInfo
		want bool
	}{
		{"nil", nil, false},
		{"empty", &RequestInfo{}, false},
		{"overall exhausted", &RequestInfo{RateLimitLimit: n(350), RateLimitRemaining: n(0)}, true},
		{"overall remaining", &RequestInfo{RateLimitLimit: n(350), RateLimitRemaining: n(1)}, false},
		{"zero limit", &RequestInfo{RateLimitLimit: n(0), RateLimitRemaining: n(0)}, false},
		{"feature exhausted", &RequestInfo{FeatureRateLimitLimit: n(180), FeatureRateLimitRemaining: n(0)}, true},
		{"remaining unset", &RequestInfo{RateLimitLimit: n(350)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ri.Exceeded())
		})
	}
}

func TestRequestInfoResetAt(t *testing.T) {
	n := func(v int) *int { return &v }
	early, late := time.Unix(100, 0), time.Unix(200, 0)

	ri := &RequestInfo{
		RateLimitLimit: n(350), RateLimitRemaining: n(0), RateLimitReset: &late,
		FeatureRateLimitLimit: n(180), FeatureRateLimitRemaining: n(0), FeatureRateLimitReset: &early,
	}
	at, ok := ri.ResetAt()
	assert.True(t, ok)
	assert.True(t, at.Equal(early))

	_, ok = (&RequestInfo{RateLimitLimit: n(350), RateLimitRemaining: n(3), RateLimitReset: &late}).ResetAt()
	assert.False(t, ok)
}
