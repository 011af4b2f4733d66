// Package logger points github.com/rs/zerolog/log at the studio's log sink.
// Call Init once at startup; everything else logs through log.Logger.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultLevel applies when Options.Level is empty or unknown.
const DefaultLevel = zerolog.WarnLevel

// Options configures Init.
type Options struct {
	Level  string    // trace, debug, info, warn, error
	Pretty bool      // console output instead of JSON
	Output io.Writer // os.Stderr when nil; stdout carries command output
}

var once sync.Once

// Init installs the process logger. Later calls are ignored.
func Init(opts Options) {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := opts.Output
		if out == nil {
			out = os.Stderr
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
		}

		lvl := ParseLevel(opts.Level)
		zerolog.SetGlobalLevel(lvl)
		log.Logger = zerolog.New(out).Level(lvl).With().Timestamp().Str("app", "studio").Logger()
	})
}

// Reset undoes Init. Tests only.
func Reset() {
	once = sync.Once{}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}

// ParseLevel reads a level name, accepting "warning" for warn.
func ParseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return DefaultLevel
	}
	return lvl
}
