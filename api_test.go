package twitter

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI routes /1/{method}.json to canned handlers and records the last request.
type fakeAPI struct {
	routes map[string]http.HandlerFunc
	last   *http.Request
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.last = r
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h, ok := f.routes[r.Method+" "+r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors":[{"message":"Sorry, that page does not exist","code":34}]}`))
		return
	}
	h(w, r)
}

func jsonBody(s string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(s)) }
}

func newTestClient(t *testing.T, routes map[string]http.HandlerFunc) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{routes: routes}
	conn := newTestConnection(t, api.ServeHTTP)
	return NewClientWithConnection(conn), api
}

func TestVerifyCredentials(t *testing.T) {
	c, api := newTestClient(t, map[string]http.HandlerFunc{
		"GET /1/account/verify_credentials.json": jsonBody(`{"id":42,"screen_name":"me","profile_image_url":"http://x/a_normal.png"}`),
	})

	u, err := c.VerifyCredentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), u.ID)
	assert.Equal(t, "me", u.ScreenName)
	assert.Empty(t, api.last.URL.RawQuery)
}

func TestFriendships(t *testing.T) {
	c, api := newTestClient(t, map[string]http.HandlerFunc{
		"POST /1/friendships/create.json":  jsonBody(`{"id":7,"screen_name":"seven"}`),
		"POST /1/friendships/destroy.json": jsonBody(`{"id":8,"screen_name":"eight"}`),
	})

	u, err := c.CreateFriendship(context.Background(), int64(7))
	require.NoError(t, err)
	assert.Equal(t, "seven", u.ScreenName)
	assert.Equal(t, "7", api.last.PostForm.Get("user_id"))

	u, err = c.DestroyFriendship(context.Background(), "eight")
	require.NoError(t, err)
	assert.Equal(t, int64(8), u.ID)
	assert.Equal(t, "eight", api.last.PostForm.Get("screen_name"))
}

func TestFriendsIDs(t *testing.T) {
	c, api := newTestClient(t, map[string]http.HandlerFunc{
		"GET /1/friends/ids.json": jsonBody(`{"ids":[3,2,1],"previous_cursor":0,"next_cursor":1405}`),
	})

	cur, err := c.FriendsIDs(context.Background(), int64(42), DefaultCursor)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, cur.IDs)
	assert.True(t, cur.IsFirstPage())
	assert.False(t, cur.IsLastPage())
	assert.Equal(t, "42", api.last.URL.Query().Get("user_id"))
	assert.Equal(t, "-1", api.last.URL.Query().Get("cursor"))
}

func TestUsersLookup(t *testing.T) {
	c, api := newTestClient(t, map[string]http.HandlerFunc{
		"POST /1/users/lookup.json": jsonBody(`[{"id":1,"screen_name":"a"},{"id":2,"screen_name":"b","bogus":true}]`),
	})

	users, err := c.UsersLookup(context.Background(), []any{int64(1), int64(2), "c"}, false)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "a", users[0].ScreenName)
	assert.Equal(t, "b", users[1].ScreenName)
	assert.Equal(t, "1,2", api.last.PostForm.Get("user_id"))
	assert.Equal(t, "c", api.last.PostForm.Get("screen_name"))
	assert.Equal(t, "false", api.last.PostForm.Get("include_entities"))
}

func TestUsersLookupWithheldUsers(t *testing.T) {
	c, _ := newTestClient(t, map[string]http.HandlerFunc{
		"POST /1/users/lookup.json": jsonBody(`[
			{"id":1,"screen_name":"a","withheld_in_countries":"GR, HK, MY"},
			{"id":2,"screen_name":"b","withheld_in_countries":["DE"]}
		]`),
	})

	users, err := c.UsersLookup(context.Background(), []int64{1, 2}, false)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "GR, HK, MY", users[0].WithheldInCountries)
	assert.Equal(t, "DE", users[1].WithheldInCountries)
}

func TestUsersSearch(t *testing.T) {
	c, api := newTestClient(t, map[string]http.HandlerFunc{
		"GET /1/users/search.json": jsonBody(`[{"id":9,"screen_name":"gopher"}]`),
	})

	users, err := c.UsersSearch(context.Background(), "go lang", 2, 20, false)
	require.NoError(t, err)
	require.Len(t, users, 1)
	q := api.last.URL.Query()
	assert.Equal(t, "go lang", q.Get("q"))
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "20", q.Get("per_page"))

	_, err = c.UsersSearch(context.Background(), "go", 0, 0, true)
	require.NoError(t, err)
	q = api.last.URL.Query()
	assert.False(t, q.Has("page"))
	assert.False(t, q.Has("per_page"))
	assert.Equal(t, "true", q.Get("include_entities"))
}

func TestClientPropagatesConnectionErrors(t *testing.T) {
	c, _ := newTestClient(t, map[string]http.HandlerFunc{
		"GET /1/account/verify_credentials.json": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Invalid token"}`))
		},
	})

	_, err := c.VerifyCredentials(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	apiErr, ok := err.(*Error)
	require.True(t, ok, "expected unwrapped *Error, got %T", err)
	assert.Equal(t, "Invalid token", apiErr.Message)
}

func TestUsersLookupRejectsObjectPayload(t *testing.T) {
	c, _ := newTestClient(t, map[string]http.HandlerFunc{
		"POST /1/users/lookup.json": jsonBody(`{"id":1}`),
	})

	_, err := c.UsersLookup(context.Background(), []int64{1}, false)
	assert.Error(t, err)
}
