package twitter

import (
	"net/url"
	"testing"
)

func TestPath(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{"users/lookup", "/1/users/lookup.json"},
		{"account/verify_credentials", "/1/account/verify_credentials.json"},
		{"friends/ids", "/1/friends/ids.json"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			if got := Path(tt.method); got != tt.want {
				t.Fatalf("Path(%q) = %q, want %q", tt.method, got, tt.want)
			}
		})
	}
}

func TestBuildURI(t *testing.T) {
	base, _ := url.Parse(DefaultBaseURL)

	u := buildURI(base, "users/lookup", Params{"user_name": "123, 456"})
	if got := u.RequestURI(); got != "/1/users/lookup.json?user_name=123%2C+456" {
		t.Fatalf("RequestURI = %q", got)
	}
	if u.Host != "api.twitter.com" || u.Scheme != "https" {
		t.Fatalf("unexpected host %s://%s", u.Scheme, u.Host)
	}

	u = buildURI(base, "account/verify_credentials", nil)
	if u.String() != "https://api.twitter.com/1/account/verify_credentials.json" {
		t.Fatalf("unexpected uri %s", u)
	}
}

func TestEncodeParams(t *testing.T) {
	v := encodeParams(Params{
		"cursor":           int64(-1),
		"include_entities": false,
		"page":             2,
		"user_id":          "1,2",
		"skip":             nil,
	})
	if got := v.Encode(); got != "cursor=-1&include_entities=false&page=2&user_id=1%2C2" {
		t.Fatalf("Encode = %q", got)
	}
}
