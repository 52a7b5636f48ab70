package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New は環境に合わせたロガーを作る。devは人が読む形式、それ以外はJSON。
func New(level string, env string) zerolog.Logger {
	return NewWithWriter(os.Stdout, level, env)
}

func NewWithWriter(w io.Writer, level string, env string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	out := w
	if env == "" || env == "dev" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: w != os.Stdout}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Str("service", "bookstore").Logger()
}
