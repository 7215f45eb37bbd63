// Package config loads application settings from a YAML file namespaced by
// environment, with .env files and environment variables layered on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// EnvVar selects the settings namespace.
	EnvVar = "JACK_ENV"

	DefaultEnv  = "development"
	fileName    = "application.yml"
	exampleName = "application.example.yml"
)

// Settings is the application's configuration model.
type Settings struct {
	Env  string `yaml:"-"`
	Addr string `yaml:"addr"`
	// BaseURL is the externally visible URL of the app, used for the OAuth callback.
	// Empty means derive it from the incoming request.
	BaseURL string `yaml:"base_url"`

	OAuth   OAuthConfig   `yaml:"oauth"`
	Twitter TwitterConfig `yaml:"twitter"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`

	FollowersPerPage     int `yaml:"followers_per_page"`
	SearchResultsPerPage int `yaml:"search_results_per_page"`

	// FriendshipRate paces follow/unfollow calls, in calls per second.
	FriendshipRate  float64 `yaml:"friendship_rate"`
	FriendshipBurst int     `yaml:"friendship_burst"`
}

type OAuthConfig struct {
	ConsumerKey    string `yaml:"consumer_key"`
	ConsumerSecret string `yaml:"consumer_secret"`
}

type TwitterConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	Transport string        `yaml:"transport"` // "http" or "stealth"
	Proxy     string        `yaml:"proxy"`
}

type SessionConfig struct {
	Backend    string        `yaml:"backend"` // "memory", "redis" or "sqlite"
	CookieName string        `yaml:"cookie_name"`
	TTL        time.Duration `yaml:"ttl"`
	Secure     bool          `yaml:"secure"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	SQLitePath string `yaml:"sqlite_path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns the settings used for keys a file leaves out.
func Default() Settings {
	return Settings{
		Env:  DefaultEnv,
		Addr: ":3000",
		Twitter: TwitterConfig{
			Timeout:   15 * time.Second,
			Transport: "http",
		},
		Session: SessionConfig{
			Backend:    "memory",
			CookieName: "_jack_of_all_tweets_session",
			TTL:        14 * 24 * time.Hour,
			RedisAddr:  "localhost:6379",
			SQLitePath: "./sessions.db",
		},
		Log:                  LogConfig{Level: "info", Format: "text"},
		FollowersPerPage:     20,
		SearchResultsPerPage: 20,
		FriendshipRate:       5,
		FriendshipBurst:      5,
	}
}

// Env returns the current environment name.
func Env() string {
	if env := os.Getenv(EnvVar); env != "" {
		return env
	}
	return DefaultEnv
}

// LoadDotEnvs loads .env files from dir. Earlier files win because godotenv
// never overrides variables that are already set.
func LoadDotEnvs(dir string) {
	env := Env()
	// .env.[env].local has highest priority, usually credentials
	_ = godotenv.Load(filepath.Join(dir, ".env."+env+".local"))
	_ = godotenv.Load(filepath.Join(dir, ".env.local"))
	_ = godotenv.Load(filepath.Join(dir, ".env."+env))
	_ = godotenv.Load(filepath.Join(dir, ".env"))
}

// Load reads the env section of dir/application.yml, falling back to
// dir/application.example.yml, then applies environment overrides.
func Load(dir, env string) (Settings, error) {
	path := filepath.Join(dir, fileName)
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		path = filepath.Join(dir, exampleName)
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	s, err := Parse(b, env)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes the env section of a settings document and applies
// environment overrides.
func Parse(b []byte, env string) (Settings, error) {
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	node, ok := doc[env]
	if !ok {
		return Settings{}, fmt.Errorf("no settings for environment %q", env)
	}
	s := Default()
	if err := node.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("decode %s settings: %w", env, err)
	}
	s.Env = env
	s.ResolveEnv()
	return s, nil
}

// ResolveEnv overrides fields with environment variables that are set.
func (s *Settings) ResolveEnv() {
	override := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	override(&s.OAuth.ConsumerKey, "TWITTER_CONSUMER_KEY")
	override(&s.OAuth.ConsumerSecret, "TWITTER_CONSUMER_SECRET")
	override(&s.Session.RedisAddr, "REDIS_ADDR")
	override(&s.Session.RedisPassword, "REDIS_PASSWD")
	override(&s.Addr, "JACK_ADDR")
}

// Validate reports settings the app cannot start without.
func (s Settings) Validate() error {
	var errs []error
	if s.OAuth.ConsumerKey == "" || s.OAuth.ConsumerSecret == "" {
		errs = append(errs, errors.New("oauth consumer key and secret are required"))
	}
	if s.FollowersPerPage <= 0 {
		errs = append(errs, errors.New("followers_per_page must be positive"))
	}
	if s.SearchResultsPerPage <= 0 || s.SearchResultsPerPage > 20 {
		errs = append(errs, errors.New("search_results_per_page must be between 1 and 20"))
	}
	switch s.Session.Backend {
	case "memory", "redis", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unknown session backend %q", s.Session.Backend))
	}
	switch s.Twitter.Transport {
	case "http", "stealth":
	default:
		errs = append(errs, fmt.Errorf("unknown twitter transport %q", s.Twitter.Transport))
	}
	return errors.Join(errs...)
}
