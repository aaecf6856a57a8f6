package sel

import (
	"fmt"
	"time"
)

// RuleSet holds expressions evaluated against every data and live option.
// Disable marks an option disabled when truthy; Visible drops an option from
// the list when it evaluates to false.
type RuleSet struct {
	Disable string `json:"disable,omitempty"`
	Visible string `json:"visible,omitempty"`
}

func (r RuleSet) empty() bool {
	return r.Disable == "" && r.Visible == ""
}

// WithRules configures option rules.
func WithRules(rules RuleSet) Setting {
	return func(cfg *settings) {
		cfg.rules = rules
	}
}

type compiledRule struct {
	label string
	expr  string
	rule  CompiledRule
}

type ruleEngine struct {
	engine     string
	disable    *compiledRule
	visible    *compiledRule
	logger     Logger
	evalLogger EvaluatorLogger
}

// newRuleEngine compiles the configured rules. A rule that fails to compile is
// logged and skipped; nil is returned when nothing is left to evaluate.
func newRuleEngine(cfg settings) *ruleEngine {
	if cfg.rules.empty() {
		return nil
	}
	evaluator, err := resolveEvaluator(cfg)
	if err != nil {
		cfg.logger.Log(LogEvent{Kind: LogRule, Message: "no evaluator for rules", Err: err})
		return nil
	}
	engine := &ruleEngine{
		engine:     evaluatorEngineName(evaluator),
		logger:     cfg.logger,
		evalLogger: cfg.evaluatorLogger,
	}
	engine.disable = engine.compile(evaluator, "disable", cfg.rules.Disable)
	engine.visible = engine.compile(evaluator, "visible", cfg.rules.Visible)
	if engine.disable == nil && engine.visible == nil {
		return nil
	}
	return engine
}

func (r *ruleEngine) compile(evaluator Evaluator, label, expr string) *compiledRule {
	if expr == "" {
		return nil
	}
	rule, err := evaluator.Compile(expr)
	if err != nil {
		r.logger.Log(LogEvent{
			Kind:    LogRule,
			Message: "rule compile failed",
			Engine:  r.engine,
			Expr:    expr,
			Err:     wrapEvaluationError(r.engine, expr, label, err),
		})
		return nil
	}
	return &compiledRule{label: label, expr: expr, rule: rule}
}

// apply evaluates the rules for opt. The boolean result is false when the
// option must be dropped. Failures leave the option unchanged.
func (r *ruleEngine) apply(opt Option) (Option, bool) {
	if r == nil || opt.GroupHeader || opt.LoadMore || opt.placeholder {
		return opt, true
	}
	snapshot := ruleSnapshot(opt)
	if r.visible != nil {
		if visible, ok := r.eval(r.visible, opt.ID, snapshot); ok && !visible {
			return opt, false
		}
	}
	if r.disable != nil && !opt.Disabled {
		if disabled, ok := r.eval(r.disable, opt.ID, snapshot); ok && disabled {
			opt.Disabled = true
		}
	}
	return opt, true
}

func (r *ruleEngine) eval(rule *compiledRule, optionID string, snapshot map[string]any) (bool, bool) {
	ctx := RuleContext{Snapshot: snapshot, Label: rule.label}.withDefaults()
	start := time.Now()
	value, err := rule.rule.Evaluate(ctx)
	duration := time.Since(start)
	err = forOption(wrapEvaluationError(r.engine, rule.expr, rule.label, err), optionID)
	r.evalLogger.LogEvaluation(EvaluatorLogEvent{
		Engine:   r.engine,
		Expr:     rule.expr,
		Rule:     rule.label,
		OptionID: optionID,
		Result:   value,
		Duration: duration,
		Err:      err,
	})
	if err == nil {
		result, ok := value.(bool)
		if ok {
			return result, true
		}
		err = forOption(wrapEvaluationError(r.engine, rule.expr, rule.label, fmt.Errorf("%w: got %T", ErrRuleResult, value)), optionID)
	}
	r.logger.Log(LogEvent{
		Kind:     LogRule,
		Message:  "rule evaluation failed",
		OptionID: optionID,
		Engine:   r.engine,
		Expr:     rule.expr,
		Duration: duration,
		Err:      err,
	})
	return false, false
}

func ruleSnapshot(opt Option) map[string]any {
	return map[string]any{
		"name":     opt.Name,
		"value":    opt.Raw,
		"user_id":  opt.UserID,
		"group":    opt.Group,
		"disabled": opt.Disabled,
		"kind":     string(opt.Type),
		"index":    opt.Index,
		"source":   string(opt.Source),
	}
}

func resolveEvaluator(cfg settings) (Evaluator, error) {
	if cfg.evaluator != nil {
		return cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cfg.programCache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cfg.programCache))
	}
	if cfg.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.functions))
	}
	evaluator := NewExprEvaluator(exprOpts...)
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	return evaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	if named, ok := e.(interface{ engineName() string }); ok {
		return named.engineName()
	}
	return "custom"
}
