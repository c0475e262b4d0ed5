// Package logx configures the global zerolog logger for the recruiter
// service. The console chat runs with human-readable output; structured JSON
// is for deployed instances where the log stream is shipped elsewhere.
package logx

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Level is a zerolog level name (trace, debug, info, warn, error).
	// Unknown values fall back to info.
	Level        string `split_words:"true" default:"info"`
	PrettyFormat bool   `split_words:"true" default:"true"`
}

var DefaultConfig = &Config{
	Level:        "info",
	PrettyFormat: true,
}

func safe(opts ...Config) *Config {
	if len(opts) == 0 {
		return DefaultConfig
	}
	return &opts[0]
}

func Init(opts ...Config) {
	conf := safe(opts...)

	if conf.PrettyFormat {
		log.Logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(conf.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)

	// Advisor failures are logged with stack context so a degraded turn can
	// be traced back to the failing collaborator.
	log.Logger = log.Logger.With().Stack().Logger()
}
