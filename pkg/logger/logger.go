// Package logger owns the process-wide zerolog logger. Call Init once from
// main; components then take child loggers from WithComponent.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures Init.
type Options struct {
	// Level is one of trace, debug, info, warn or error. Anything else is info.
	Level string
	// Pretty writes coloured console lines instead of JSON.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service is stamped on every event as "service" when non-empty.
	Service string
}

var (
	mu    sync.RWMutex
	base  zerolog.Logger
	ready bool
)

// Init builds the shared logger from opts and returns it. Only the first call
// since process start (or since Reset) has an effect.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if ready {
		return base
	}

	var w io.Writer = os.Stdout
	if opts.Output != nil {
		w = opts.Output
	}
	if opts.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	level := parseLevel(opts.Level)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(level)

	fields := zerolog.New(w).Level(level).With().Timestamp().Caller()
	if opts.Service != "" {
		fields = fields.Str("service", opts.Service)
	}
	base = fields.Logger()
	ready = true
	return base
}

// Get returns the shared logger. It panics before Init.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if !ready {
		panic("logger: Get called before Init")
	}
	return base
}

// WithComponent returns a child of the shared logger carrying a "component"
// field, one per service or adapter.
func WithComponent(component string) zerolog.Logger {
	l := Get()
	return l.With().Str("component", component).Logger()
}

// Reset forgets the shared logger so tests can Init again.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	base = zerolog.Logger{}
	ready = false
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	}
	return zerolog.InfoLevel
}
