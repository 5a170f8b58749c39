package log

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with a component attribute
type Logger struct {
	*slog.Logger
	base      slog.Handler // Handler without the component attribute
	component string
}

func newLogger(base slog.Handler, component string) *Logger {
	return &Logger{
		Logger:    slog.New(base).With(FieldComponent, component),
		base:      base,
		component: component,
	}
}

// Config holds logger configuration
type Config struct {
	Level     slog.Level
	Component string
	// JSON selects the JSON handler; text is used otherwise.
	JSON bool
	// Writers receive every record. Stdout is used when empty.
	Writers []io.Writer
	// Handler overrides Level, JSON and Writers when set.
	Handler slog.Handler
}

// DefaultConfig returns sensible defaults for logging
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Component: ComponentApp,
	}
}

// New creates a new logger with the given configuration
func New(config Config) *Logger {
	handler := config.Handler
	if handler == nil {
		var w io.Writer = os.Stdout
		switch len(config.Writers) {
		case 0:
		case 1:
			w = config.Writers[0]
		default:
			w = io.MultiWriter(config.Writers...)
		}
		opts := &slog.HandlerOptions{Level: config.Level}
		if config.JSON {
			handler = slog.NewJSONHandler(w, opts)
		} else {
			handler = slog.NewTextHandler(w, opts)
		}
	}

	component := config.Component
	if component == "" {
		component = ComponentApp
	}
	return newLogger(handler, component)
}

// Discard returns a logger that drops every record, for tests.
func Discard() *Logger {
	return New(Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

// With returns a new logger with the given attributes
func (l *Logger) With(args ...any) *Logger {
	return newLogger(slog.New(l.base).With(args...).Handler(), l.component)
}

// WithComponent returns a new logger with a specific component name.
// The attribute replaces the parent's component in the output.
func (l *Logger) WithComponent(component string) *Logger {
	return newLogger(l.base, component)
}

// SetDefault sets the default logger for the application
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.Logger)
}

// Component returns the logger's component name
func (l *Logger) Component() string {
	return l.component
}
