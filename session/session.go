package session

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const contextKey = "jack.session"

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    string `json:"kind"` // notice, success, warning, error
	Message string `json:"message"`
}

// Session is the state of one browser for the duration of a request.
// It is not safe for concurrent use.
type Session struct {
	m          *Manager
	c          *gin.Context
	id         string
	values     map[string]string
	dirty      bool
	cookieSent bool
	stale      []string
}

// ID returns the current session id.
func (s *Session) ID() string { return s.id }

// Get returns the value of key.
func (s *Session) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key.
func (s *Session) Set(key, value string) {
	s.values[key] = value
	s.touch()
}

// Delete removes key.
func (s *Session) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.touch()
}

// GetJSON decodes the value of key into dst. It reports false when key is
// absent or does not decode.
func (s *Session) GetJSON(key string, dst any) bool {
	v, ok := s.values[key]
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(v), dst) == nil
}

// SetJSON stores v encoded as JSON under key.
func (s *Session) SetJSON(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.Set(key, string(b))
	return nil
}

// Reset drops all values and moves the browser to a fresh session id.
func (s *Session) Reset() {
	s.stale = append(s.stale, s.id)
	s.id = uuid.NewString()
	s.values = map[string]string{}
	s.cookieSent = false
	s.touch()
}

// AddFlash queues a message for the next page.
func (s *Session) AddFlash(kind, message string) {
	var flashes []Flash
	s.GetJSON(KeyFlash, &flashes)
	flashes = append(flashes, Flash{Kind: kind, Message: message})
	if err := s.SetJSON(KeyFlash, flashes); err != nil {
		s.m.logger.Warn("session: encode flash", slog.Any("error", err))
	}
}

// Flashes returns and clears the queued messages.
func (s *Session) Flashes() []Flash {
	var flashes []Flash
	s.GetJSON(KeyFlash, &flashes)
	s.Delete(KeyFlash)
	return flashes
}

// touch marks the session for saving and issues the cookie before the
// response is written.
func (s *Session) touch() {
	s.dirty = true
	if s.cookieSent {
		return
	}
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(s.m.cookieName, s.id, int(s.m.ttl/time.Second), "/", "", s.m.secure, true)
	s.cookieSent = true
}

// Get returns the session of the request. It panics if the middleware is not installed.
func Get(c *gin.Context) *Session {
	return c.MustGet(contextKey).(*Session)
}
