package server

import (
	"log/slog"
	"time"

	"github.com/counselkit/agentui/pkg/registry"
)

// Config configures the session server.
type Config struct {
	// Addr is the listen address for ListenAndServe.
	Addr string

	// ReadTimeout is the per-message read deadline on producer sockets.
	ReadTimeout time.Duration

	// WriteTimeout is the per-message write deadline.
	WriteTimeout time.Duration

	// PingInterval is how often the server pings idle producers.
	PingInterval time.Duration

	// MaxMessageSize caps inbound WebSocket messages in bytes.
	MaxMessageSize int64

	// Registry is the component catalog sessions resolve against.
	// Defaults to the process-wide registry.
	Registry *registry.Registry

	// Logger is the server's logger. Defaults to slog.Default().
	Logger *slog.Logger

	// Debug enables engine and store diagnostics for every session.
	Debug bool
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		Addr:           ":8090",
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   10 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 1 << 20,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Addr == "" {
		c.Addr = def.Addr
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = def.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.PingInterval == 0 {
		c.PingInterval = def.PingInterval
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = def.MaxMessageSize
	}
	if c.Registry == nil {
		c.Registry = registry.Default()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
