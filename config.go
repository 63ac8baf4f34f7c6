package sseserver

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultMount             = "/sse/broadcast"
	defaultHeartbeatInterval = 15 * time.Second
)

// Config mirrors the configuration keys described in the external
// interfaces section: bypass-authentication, allowed-origins, and
// allow-credentials, plus the implementation knobs (mount path, heartbeat
// cadence, and an optional server-wide subscribe rate limit shared by all
// clients) that the teacher
// exposed as ServerOptions. Config is loadable from YAML via LoadConfig, or
// can be built up in code and passed to NewServer via WithConfig.
type Config struct {
	Mount                 string        `yaml:"mount"`
	BypassAuthentication  bool          `yaml:"bypass-authentication"`
	AllowedOrigins        []string      `yaml:"allowed-origins"`
	AllowCredentials      bool          `yaml:"allow-credentials"`
	HeartbeatInterval     time.Duration `yaml:"heartbeat-interval"`
	RateLimitPerSecond    float64       `yaml:"rate-limit-rps"`
	RateLimitBurst        int           `yaml:"rate-limit-burst"`
	DisableAdminEndpoints bool          `yaml:"disable-admin-endpoints"`
}

func defaultConfig() Config {
	return Config{
		Mount:             defaultMount,
		HeartbeatInterval: defaultHeartbeatInterval,
	}
}

// LoadConfig reads a YAML file at path and overlays it onto the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Mount == "" {
		cfg.Mount = defaultMount
	}
	if cfg.HeartbeatInterval == 0 {
		cfg.HeartbeatInterval = defaultHeartbeatInterval
	}
	return cfg, nil
}

// ServerOption configures a Server at construction time, following the
// teacher's functional-options pattern (see the original WithCORSAllowOrigin).
type ServerOption func(*Server) error

// WithConfig applies every field of cfg to the Server being constructed.
// Typically the first option passed to NewServer, with later options
// overriding individual fields.
func WithConfig(cfg Config) ServerOption {
	return func(s *Server) error {
		if cfg.Mount != "" {
			s.mount = cfg.Mount
		}
		if cfg.HeartbeatInterval > 0 {
			s.heartbeatInterval = cfg.HeartbeatInterval
		}
		if cfg.BypassAuthentication {
			s.admission = BypassAdmission{}
		} else {
			s.admission = SessionAdmission{}
		}
		s.cors = NewAllowListCORS(cfg.AllowedOrigins, cfg.AllowCredentials)
		if cfg.RateLimitPerSecond > 0 {
			s.setRateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
		}
		s.Options.DisableAdminEndpoints = cfg.DisableAdminEndpoints
		return nil
	}
}

// WithMount overrides the HTTP path the subscriber endpoint is served at.
func WithMount(path string) ServerOption {
	return func(s *Server) error {
		s.mount = path
		return nil
	}
}

// WithAdmission installs adapter, replacing the default deny-by-default
// SessionAdmission.
func WithAdmission(adapter AdmissionAdapter) ServerOption {
	return func(s *Server) error {
		s.admission = adapter
		return nil
	}
}

// WithCORS installs c, replacing the default empty-allow-list CORSAdapter.
func WithCORS(c CORSAdapter) ServerOption {
	return func(s *Server) error {
		s.cors = c
		return nil
	}
}

// WithHeartbeatInterval overrides the default 15s heartbeat cadence.
func WithHeartbeatInterval(d time.Duration) ServerOption {
	return func(s *Server) error {
		s.heartbeatInterval = d
		return nil
	}
}

// WithRateLimit caps new-subscribe admission to rps requests per second with
// the given burst. This guards the registry against connection storms; it
// is an ambient concern, not a spec feature, and defaults to disabled.
func WithRateLimit(rps float64, burst int) ServerOption {
	return func(s *Server) error {
		s.setRateLimit(rps, burst)
		return nil
	}
}
