package twitter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// APIVersion is the REST API version in every request path.
	APIVersion = 1
	// Format is the response format suffix of every request path.
	Format = "json"
	// DefaultBaseURL is the API host.
	DefaultBaseURL = "https://api.twitter.com"
)

// Remote method names.
const (
	MethodVerifyCredentials  = "account/verify_credentials"
	MethodFriendshipsCreate  = "friendships/create"
	MethodFriendshipsDestroy = "friendships/destroy"
	MethodFriendsIDs         = "friends/ids"
	MethodUsersLookup        = "users/lookup"
	MethodUsersSearch        = "users/search"
)

// Path returns the absolute request path of a remote method,
// e.g. Path("users/lookup") == "/1/users/lookup.json".
func Path(method string) string {
	return fmt.Sprintf("/%d/%s.%s", APIVersion, method, Format)
}

// buildURI joins base, the method path and the encoded params.
func buildURI(base *url.URL, method string, params Params) *url.URL {
	u := *base
	u.Path = strings.TrimSuffix(base.Path, "/") + Path(method)
	u.RawQuery = ""
	if len(params) > 0 {
		u.RawQuery = encodeParams(params).Encode()
	}
	return &u
}

// encodeParams flattens Params into form values. Slices are joined with commas.
func encodeParams(params Params) url.Values {
	v := make(url.Values, len(params))
	for key, val := range params {
		if val == nil {
			continue
		}
		v.Set(key, paramString(val))
	}
	return v
}

func paramString(val any) string {
	switch x := val.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case []string:
		return strings.Join(x, ",")
	case []int64:
		parts := make([]string, len(x))
		for i, id := range x {
			parts[i] = strconv.FormatInt(id, 10)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(x)
	}
}
