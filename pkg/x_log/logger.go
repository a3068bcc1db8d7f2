// file:pact/pkg/x_log/logger.go
package x_log

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

//---------------------
// LEVELS
//---------------------

// Level is a zerolog severity, reused so Styles can key on it directly.
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

//---------------------
// GLOBAL STATE
//---------------------

type ctxKey struct{}

var (
	activeStyles = DefaultStylesDark()
	global       = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

//---------------------
// INIT
//---------------------

// Init sets up the global logger using the default configuration.
func Init() {
	cfg := defaultConfig
	InitWithConfig(&cfg, "pact")
}

// InitWithConfig wires the global zerolog logger from cfg, tagging every
// entry with a "module" field set to name.
func InitWithConfig(cfg *Config, name string) {
	applyDefaults(cfg)

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	activeStyles = DefaultStylesByName(cfg.Style)

	var writers []io.Writer
	if cfg.ToConsole {
		activeStyles.Out = os.Stdout
		if !stdoutIsTerminal() {
			activeStyles = plainStyles(activeStyles)
		}
		writers = append(writers, ConsoleWriterWithStyles(activeStyles))
	}
	if cfg.ToFile && cfg.LogFile != "" {
		fw := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		if cfg.ColoredFile {
			fileStyles := *activeStyles
			fileStyles.Out = fw
			writers = append(writers, ConsoleWriterWithStyles(&fileStyles))
		} else {
			writers = append(writers, fw)
		}
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	global = zerolog.New(io.MultiWriter(writers...)).
		With().
		Timestamp().
		Str("module", name).
		Logger()
}

// stdoutIsTerminal reports whether stdout is attached to an interactive
// terminal; console styling degrades to plain text otherwise.
func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// plainStyles strips coloring while keeping the same output sink, for
// redirected stdout (pipes, log files, CI runners).
func plainStyles(s *Styles) *Styles {
	return &Styles{Out: s.Out}
}

//---------------------
// SCOPED LOGGERS
//---------------------

// New returns a logger scoped to module, inheriting the global sinks.
func New(module string) zerolog.Logger {
	return global.With().Str("module", module).Logger()
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// From returns the logger stored in ctx, or the global logger if none was attached.
func From(ctx context.Context) zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok && l != nil {
		return *l
	}
	return global
}

//---------------------
// GLOBAL SHORTCUTS
//---------------------

func Debug() *zerolog.Event { return global.Debug() }
func Info() *zerolog.Event  { return global.Info() }
func Warn() *zerolog.Event  { return global.Warn() }
func Error() *zerolog.Event { return global.Error() }
