package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Debug        bool `split_words:"true" default:"false"`
	PrettyFormat bool `split_words:"true" default:"false"`
}

var DefaultConfig = &Config{
	Debug:        false,
	PrettyFormat: false,
}

func safe(opts ...Config) *Config {
	if len(opts) == 0 {
		return DefaultConfig
	}
	return &opts[0]
}

// Init configures the global logger on stderr; stdout is reserved for answers.
func Init(opts ...Config) {
	InitWriter(os.Stderr, opts...)
}

func InitWriter(w io.Writer, opts ...Config) {
	conf := safe(opts...)

	if conf.PrettyFormat {
		w = zerolog.ConsoleWriter{Out: w}
	}
	logger := zerolog.New(w).With().Timestamp().Logger()

	if conf.Debug {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	log.Logger = logger.With().Caller().Logger()
}
