package sel

import "time"

// EvaluatorLogEvent reports one rule evaluation against one option.
type EvaluatorLogEvent struct {
	Engine   string
	Expr     string
	Rule     string
	OptionID string
	// Result is what the rule returned, before any bool check.
	Result   any
	Duration time.Duration
	Err      error
}

// Failed reports whether the evaluation errored.
func (e EvaluatorLogEvent) Failed() bool {
	return e.Err != nil
}

// EvaluatorLogger receives every rule evaluation, successful or not.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation calls f.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvaluatorLogger struct{}

func (noopEvaluatorLogger) LogEvaluation(EvaluatorLogEvent) {}

// WithEvaluatorLogger observes rule evaluations. Nil restores the no-op.
func WithEvaluatorLogger(logger EvaluatorLogger) Setting {
	return func(cfg *settings) {
		if logger == nil {
			logger = noopEvaluatorLogger{}
		}
		cfg.evaluatorLogger = logger
	}
}
