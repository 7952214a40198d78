// Package logging wires the global zerolog logger from LogConfig. Output
// goes to stdout, optionally pretty-printed, optionally teed into a
// size-capped log file.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"zk-detective-server/internal/config"
)

var output io.Writer = os.Stdout

func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil {
			level = parsed
		}
	}

	output = os.Stdout
	if cfg.File != "" {
		if fw, err := newTruncatingFileWriter(cfg.File, cfg.MaxMB); err == nil {
			output = io.MultiWriter(os.Stdout, fw)
		}
	}

	sink := output
	if cfg.Pretty {
		sink = zerolog.ConsoleWriter{Out: output}
	}

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(sink).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
}

// Writer returns the raw log sink, for handing to other logging frontends
// (the HTTP request logger writes here too).
func Writer() io.Writer {
	return output
}
