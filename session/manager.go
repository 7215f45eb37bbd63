package session

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Options configure a Manager.
type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
	Logger     *slog.Logger
}

func (o *Options) defaults() {
	if o.CookieName == "" {
		o.CookieName = "_jack_of_all_tweets_session"
	}
	if o.TTL == 0 {
		o.TTL = 14 * 24 * time.Hour
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Manager binds sessions to requests.
type Manager struct {
	store      Store
	cookieName string
	ttl        time.Duration
	secure     bool
	logger     *slog.Logger
}

func NewManager(store Store, opts Options) *Manager {
	opts.defaults()
	return &Manager{
		store:      store,
		cookieName: opts.CookieName,
		ttl:        opts.TTL,
		secure:     opts.Secure,
		logger:     opts.Logger,
	}
}

// Middleware loads the session before the handler and saves it before the
// first byte of the response goes out, so a client following a redirect
// never races the save. Changes made after that are saved once the handler
// returns. A store failure degrades to an empty session rather than failing
// the request.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		s := &Session{m: m, c: c}

		if id, err := c.Cookie(m.cookieName); err == nil {
			if _, perr := uuid.Parse(id); perr == nil {
				values, err := m.store.Load(ctx, id)
				if err != nil {
					m.logger.Error("session load failed", slog.Any("error", err))
				}
				if values != nil {
					s.id = id
					s.values = values
					s.cookieSent = true
				}
			}
		}
		if s.id == "" {
			s.id = uuid.NewString()
			s.values = map[string]string{}
		}

		c.Set(contextKey, s)
		c.Writer = &commitWriter{ResponseWriter: c.Writer, commit: func() { m.commit(c, s) }}
		c.Next()
		m.commit(c, s)
	}
}

// commit persists pending changes. It is a no-op when nothing changed since
// the last call.
func (m *Manager) commit(c *gin.Context, s *Session) {
	ctx := c.Request.Context()
	for _, id := range s.stale {
		if err := m.store.Delete(ctx, id); err != nil {
			m.logger.Error("session delete failed", slog.Any("error", err))
		}
	}
	s.stale = nil
	if !s.dirty {
		return
	}
	s.dirty = false
	var err error
	if len(s.values) == 0 {
		err = m.store.Delete(ctx, s.id)
	} else {
		err = m.store.Save(ctx, s.id, s.values, m.ttl)
	}
	if err != nil {
		m.logger.Error("session save failed", slog.Any("error", err))
	}
}

// commitWriter runs commit once, right before the response is first written.
type commitWriter struct {
	gin.ResponseWriter
	commit func()
	done   bool
}

func (w *commitWriter) before() {
	if !w.done {
		w.done = true
		w.commit()
	}
}

func (w *commitWriter) WriteHeaderNow() {
	w.before()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *commitWriter) Write(b []byte) (int, error) {
	w.before()
	return w.ResponseWriter.Write(b)
}

func (w *commitWriter) WriteString(str string) (int, error) {
	w.before()
	return w.ResponseWriter.WriteString(str)
}

func (w *commitWriter) Flush() {
	w.before()
	w.ResponseWriter.Flush()
}
