package sel

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoEvaluator is reported when rules are configured but no evaluator
	// could be resolved.
	ErrNoEvaluator = errors.New("sel: evaluator not configured")
	// ErrRuleResult is wrapped when a rule yields something other than a bool.
	ErrRuleResult = errors.New("sel: rule result is not a bool")

	errEmptyExpression = errors.New("expression must not be empty")
)

// EvaluationError ties a rule failure to the engine, expression, rule name
// and, once evaluation reached an option, the option id.
type EvaluationError struct {
	Engine   string
	Expr     string
	Rule     string
	OptionID string
	Err      error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "sel: %s evaluator %s rule=%s", e.Engine, describeExpression(e.Expr), e.Rule)
	if e.OptionID != "" {
		fmt.Fprintf(&b, " option=%s", e.OptionID)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

// wrapEvaluatorError prefixes engine level failures that are not tied to an
// expression.
func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) || strings.HasPrefix(err.Error(), "sel:") {
		return err
	}
	return fmt.Errorf("sel: %s evaluator: %w", engine, err)
}

// wrapEvaluationError returns err as an EvaluationError, filling blanks on an
// existing one rather than nesting it.
func wrapEvaluationError(engine, expr, rule string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		return &EvaluationError{Engine: engine, Expr: expr, Rule: rule, Err: err}
	}
	if evalErr.Engine == "" {
		evalErr.Engine = engine
	}
	if evalErr.Expr == "" {
		evalErr.Expr = expr
	}
	if evalErr.Rule == "" {
		evalErr.Rule = rule
	}
	return evalErr
}

// forOption stamps the option id on an EvaluationError.
func forOption(err error, optionID string) error {
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) && evalErr.OptionID == "" {
		evalErr.OptionID = optionID
	}
	return err
}
