// Package logging wires zerolog for the explorer binaries and libraries.
//
// Setup installs the process-wide logger once; packages then derive their own
// logger with NewLogger so every event carries a "component" field
// (api, explorer, explorer-client, fetch, cache, crawler).
//
// Levels in use:
//
//	debug  cache hits and misses, superseded fetch responses, NFX assembly sizes
//	info   server start and stop, 304 revalidations, finished crawls
//	warn   cache failures, failed fetches, rejected requests
//	error  server failures and recovered panics
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config selects level and encoding of the global logger.
type Config struct {
	// Level is one of debug, info, warn (or warning) and error.
	Level string

	// Pretty switches from JSON lines to zerolog's console writer.
	Pretty bool

	// Output defaults to os.Stderr.
	Output io.Writer

	// Fields are attached to every event, e.g. the network label.
	Fields map[string]string
}

// DefaultConfig logs JSON at info to stderr.
func DefaultConfig() Config {
	return Config{Level: "info", Output: os.Stderr}
}

// ParseLevel maps a level name to zerolog, ignoring case.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	}
	return zerolog.InfoLevel, fmt.Errorf("unknown log level %q", name)
}

// Setup installs the global logger and returns it. An unknown level logs at info.
func Setup(cfg Config) zerolog.Logger {
	level, _ := ParseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out}
	}

	ctx := zerolog.New(out).With().Timestamp()
	for k, v := range cfg.Fields {
		ctx = ctx.Str(k, v)
	}
	log.Logger = ctx.Logger()

	return log.Logger
}

// NewLogger derives a logger tagged with component from the global one.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
