package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/roach88/camod/internal/telemetry"
)

// Env is the process environment the CLI reads.
type Env struct {
	// Database is the default --db for commands that persist or read runs.
	Database string `env:"CAMOD_DB"`

	// LogLevel is debug, info, warn or error. --verbose forces debug.
	LogLevel string `env:"CAMOD_LOG_LEVEL" envDefault:"warn"`

	Telemetry telemetry.Config
}

// LoadEnv parses Env from the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// LoadEnvFrom parses Env from vars instead of the process environment.
func LoadEnvFrom(vars map[string]string) (Env, error) {
	var e Env
	if err := env.ParseWithOptions(&e, env.Options{Environment: vars}); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// logLevel resolves the slog level for the given settings.
func logLevel(verbose bool, level string) (slog.Level, error) {
	if verbose {
		return slog.LevelDebug, nil
	}
	if level == "" {
		return slog.LevelWarn, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: want debug, info, warn or error", level)
	}
	return l, nil
}

// setupLogging installs a text handler on w as the default logger.
func setupLogging(w io.Writer, verbose bool, level string) error {
	l, err := logLevel(verbose, level)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})))
	return nil
}
