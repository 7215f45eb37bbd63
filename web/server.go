// Package web serves the friend browser: OAuth sign-in, the paginated list
// of followed users, user search and bulk follow/unfollow.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	twitter "github.com/anatolykoptev/jackofalltweets"
	"github.com/anatolykoptev/jackofalltweets/config"
	"github.com/anatolykoptev/jackofalltweets/metrics"
	"github.com/anatolykoptev/jackofalltweets/session"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options wire a Server.
type Options struct {
	Settings config.Settings
	Sessions *session.Manager

	// Twitter is the client configuration every per-request client is built with.
	Twitter twitter.ClientConfig
	Metrics *metrics.Metrics // optional
	Logger  *slog.Logger
}

// Server holds the handlers and their dependencies.
type Server struct {
	settings config.Settings
	sessions *session.Manager
	twitter  twitter.ClientConfig
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tmpl     *template.Template
}

// New parses the embedded templates and returns a Server.
func New(opts Options) (*Server, error) {
	if opts.Sessions == nil {
		return nil, fmt.Errorf("web: session manager is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"imageURL": ImageURLWithSize,
		"clock":    func(t time.Time) string { return t.Local().Format("15:04") },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}
	return &Server{
		settings: opts.Settings,
		sessions: opts.Sessions,
		twitter:  opts.Twitter,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		tmpl:     tmpl,
	}, nil
}

// Router returns the gin engine with every route installed.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests())
	r.SetHTMLTemplate(s.tmpl)

	if s.metrics != nil {
		r.Use(s.metrics.Middleware())
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	app := r.Group("/", s.sessions.Middleware())
	app.GET("/sign_in", s.signIn)
	app.GET("/login", s.login)
	app.GET("/callback", s.callback)
	app.GET("/sign_out", s.signOut)

	users := app.Group("/", requireCurrentUser())
	users.GET("/", s.index)
	users.GET("/search", s.search)
	users.POST("/friendships", s.changeFriendships)
	return r
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.Log(c.Request.Context(), level, "http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

// render fills the layout data shared by every page and writes the template.
func (s *Server) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Query"]; !ok {
		data["Query"] = c.Query("q")
	}
	data["CurrentUser"] = currentUser(c)
	data["Flashes"] = append(session.Get(c).Flashes(), nowFlashes(c)...)
	c.HTML(status, name, data)
}

const flashNowKey = "jack.flash_now"

// flashNow queues a message for the page rendered by this request only.
func flashNow(c *gin.Context, kind, message string) {
	flashes := nowFlashes(c)
	c.Set(flashNowKey, append(flashes, session.Flash{Kind: kind, Message: message}))
}

func nowFlashes(c *gin.Context) []session.Flash {
	v, ok := c.Get(flashNowKey)
	if !ok {
		return nil
	}
	return v.([]session.Flash)
}
