package sel

import "time"

// LogKind classifies engine log events.
type LogKind string

const (
	LogValidation LogKind = "validation"
	LogRule       LogKind = "rule"
	LogLoadMore   LogKind = "load_more"
	LogActivity   LogKind = "activity"
)

// LogEvent is a structured engine diagnostic.
type LogEvent struct {
	Kind     LogKind
	Message  string
	OptionID string
	Engine   string
	Expr     string
	Duration time.Duration
	Err      error
	Fields   map[string]any
}

// Logger receives engine diagnostics. The engine never writes to a global
// logger; without one configured events are discarded.
type Logger interface {
	Log(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// Log implements Logger.
func (f LoggerFunc) Log(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) Log(LogEvent) {}

// WithLogger attaches a diagnostics logger.
func WithLogger(logger Logger) Setting {
	return func(cfg *settings) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}
