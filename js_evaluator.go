//go:build js_eval

package sel

import (
	"fmt"

	"github.com/dop251/goja"
)

// jsEvaluator runs option rules with goja. Each evaluation gets a fresh
// runtime; compiled scripts are shared.
type jsEvaluator struct {
	jsEvaluatorConfig
}

// NewJSEvaluator returns an Evaluator backed by goja.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	return &jsEvaluator{jsEvaluatorConfig: newJSEvaluatorConfig(opts)}
}

func (e *jsEvaluator) engineName() string { return engineJS }

func (e *jsEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	program, err := e.program(expression)
	if err != nil {
		return nil, err
	}
	return e.run(program, expression, ctx)
}

func (e *jsEvaluator) Compile(expression string, _ ...CompileOption) (CompiledRule, error) {
	program, err := e.program(expression)
	if err != nil {
		return nil, err
	}
	return jsRule{evaluator: e, program: program, expression: expression}, nil
}

func (e *jsEvaluator) program(expression string) (*goja.Program, error) {
	if expression == "" {
		return nil, wrapEvaluatorError(engineJS, errEmptyExpression)
	}
	key := programKey(engineJS, expression, nil)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	// Wrapped in a function so statements like `return` stay local.
	program, err := goja.Compile("rule", fmt.Sprintf("(function(){ return (%s); })()", expression), true)
	if err != nil {
		return nil, wrapEvaluationError(engineJS, expression, "", err)
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}

func (e *jsEvaluator) run(program *goja.Program, expression string, ctx RuleContext) (any, error) {
	vm := goja.New()
	for name, value := range newRuleScope(ctx) {
		if err := vm.Set(name, value); err != nil {
			return nil, wrapEvaluationError(engineJS, expression, ctx.label(), err)
		}
	}
	if names := e.registry.Names(); len(names) > 0 {
		_ = vm.Set(callFunction, e.registry.dispatch)
		for _, name := range names {
			_ = vm.Set(name, e.registry.bound(name))
		}
	}
	value, err := vm.RunProgram(program)
	if err != nil {
		return nil, wrapEvaluationError(engineJS, expression, ctx.label(), err)
	}
	return value.Export(), nil
}

type jsRule struct {
	evaluator  *jsEvaluator
	program    *goja.Program
	expression string
}

func (r jsRule) Evaluate(ctx RuleContext) (any, error) {
	return r.evaluator.run(r.program, r.expression, ctx)
}

func jsEvaluatorAvailable() bool { return true }
