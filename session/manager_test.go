package session

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(store Store) *gin.Engine {
	m := NewManager(store, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/set", func(c *gin.Context) {
		Get(c).Set(KeyOAuthToken, c.Query("v"))
		c.Redirect(http.StatusFound, "/")
	})
	r.GET("/get", func(c *gin.Context) {
		v, _ := Get(c).Get(KeyOAuthToken)
		c.String(http.StatusOK, v)
	})
	r.GET("/flash", func(c *gin.Context) {
		Get(c).AddFlash("notice", "hello")
		Get(c).AddFlash("success", "world")
		c.Status(http.StatusNoContent)
	})
	r.GET("/flashes", func(c *gin.Context) {
		c.JSON(http.StatusOK, Get(c).Flashes())
	})
	r.GET("/reset", func(c *gin.Context) {
		Get(c).Reset()
		Get(c).AddFlash("notice", "signed out")
		c.Redirect(http.StatusFound, "/sign_in")
	})
	return r
}

func do(r http.Handler, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "_jack_of_all_tweets_session" {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func TestMiddlewareRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	r := newTestRouter(store)

	w := do(r, "/set?v=tok", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)

	w = do(r, "/get", []*http.Cookie{cookie})
	assert.Equal(t, "tok", w.Body.String())

	w = do(r, "/get", nil)
	assert.Empty(t, w.Body.String())
	assert.Empty(t, w.Result().Cookies(), "reading must not issue a cookie")
}

func TestMiddlewareIgnoresForeignCookie(t *testing.T) {
	r := newTestRouter(NewMemoryStore())
	w := do(r, "/get", []*http.Cookie{{Name: "_jack_of_all_tweets_session", Value: "not-a-uuid"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestFlashesAreConsumed(t *testing.T) {
	r := newTestRouter(NewMemoryStore())

	w := do(r, "/flash", nil)
	cookie := sessionCookie(t, w)

	w = do(r, "/flashes", []*http.Cookie{cookie})
	assert.JSONEq(t, `[{"kind":"notice","message":"hello"},{"kind":"success","message":"world"}]`, w.Body.String())

	w = do(r, "/flashes", []*http.Cookie{cookie})
	assert.Equal(t, "null", w.Body.String())
}

func TestResetMovesToFreshSession(t *testing.T) {
	store := NewMemoryStore()
	r := newTestRouter(store)

	old := sessionCookie(t, do(r, "/set?v=tok", nil))

	w := do(r, "/reset", []*http.Cookie{old})
	fresh := sessionCookie(t, w)
	require.NotEqual(t, old.Value, fresh.Value)

	values, err := store.Load(t.Context(), old.Value)
	require.NoError(t, err)
	assert.Nil(t, values)

	w = do(r, "/get", []*http.Cookie{fresh})
	assert.Empty(t, w.Body.String())
	w = do(r, "/flashes", []*http.Cookie{fresh})
	assert.JSONEq(t, `[{"kind":"notice","message":"signed out"}]`, w.Body.String())
}

func TestMiddlewareSavesBeforeResponseIsWritten(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	r := gin.New()
	r.Use(m.Middleware())

	var afterRedirect, afterBody map[string]string
	r.GET("/redirect", func(c *gin.Context) {
		s := Get(c)
		s.Set(KeyOAuthToken, "tok")
		c.Redirect(http.StatusFound, "/")
		afterRedirect, _ = store.Load(c, s.ID())
	})
	r.GET("/body", func(c *gin.Context) {
		s := Get(c)
		s.AddFlash("notice", "hello")
		c.String(http.StatusOK, "ok")
		afterBody, _ = store.Load(c, s.ID())
		s.Set(KeyOAuthToken, "late")
	})

	w := do(r, "/redirect", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "tok", afterRedirect[KeyOAuthToken])

	cookie := sessionCookie(t, w)
	do(r, "/body", []*http.Cookie{cookie})
	assert.Contains(t, afterBody, KeyFlash)

	values, err := store.Load(t.Context(), cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "late", values[KeyOAuthToken], "changes after the write are saved when the handler returns")
}
