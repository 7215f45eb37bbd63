package twitter

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOAuthHandshake(t *testing.T) {
	var callback, verifier string
	conn := newTestConnection(t, func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/oauth/request_token":
			callback = between(auth, `oauth_callback="`, `"`)
			w.Write([]byte("oauth_token=rt&oauth_token_secret=rs&oauth_callback_confirmed=true"))
		case "/oauth/access_token":
			verifier = between(auth, `oauth_verifier="`, `"`)
			w.Write([]byte("oauth_token=at&oauth_token_secret=as&user_id=42&screen_name=me"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	rt, err := conn.RequestToken(context.Background(), "http://localhost/callback")
	require.NoError(t, err)
	assert.Equal(t, RequestToken{Token: "rt", Secret: "rs"}, rt)
	assert.Equal(t, "http%3A%2F%2Flocalhost%2Fcallback", callback)

	u, err := conn.AuthorizationURL(rt)
	require.NoError(t, err)
	assert.Equal(t, "/oauth/authenticate", u.Path)
	assert.Equal(t, "rt", u.Query().Get("oauth_token"))

	token, secret, err := conn.AccessToken(context.Background(), rt, "v123")
	require.NoError(t, err)
	assert.Equal(t, "at", token)
	assert.Equal(t, "as", secret)
	assert.Equal(t, "v123", verifier)
}

func TestOAuthHandshakeUnauthorized(t *testing.T) {
	conn := newTestConnection(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("Failed to validate oauth signature and token"))
	})

	_, err := conn.RequestToken(context.Background(), "http://localhost/callback")
	assert.ErrorIs(t, err, ErrOAuthUnauthorized)

	_, _, err = conn.AccessToken(context.Background(), RequestToken{Token: "rt", Secret: "rs"}, "v")
	assert.ErrorIs(t, err, ErrOAuthUnauthorized)
}

func TestOAuthHandshakeCanceled(t *testing.T) {
	conn := newTestConnection(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conn.RequestToken(ctx, "http://localhost/callback")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOAuthEndpointDefault(t *testing.T) {
	conn, err := NewConnection(Credentials{ConsumerKey: "ck", ConsumerSecret: "cs"}, ClientConfig{})
	require.NoError(t, err)
	ep := conn.Consumer().Endpoint
	assert.Equal(t, "https://api.twitter.com/oauth/request_token", ep.RequestTokenURL)
	assert.Equal(t, "https://api.twitter.com/oauth/access_token", ep.AccessTokenURL)
}

func between(s, start, end string) string {
	i := strings.Index(s, start)
	if i < 0 {
		return ""
	}
	s = s[i+len(start):]
	if j := strings.Index(s, end); j >= 0 {
		return s[:j]
	}
	return s
}
