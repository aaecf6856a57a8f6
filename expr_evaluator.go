package sel

import (
	"time"

	exprlang "github.com/expr-lang/expr"
	exprtypes "github.com/expr-lang/expr/types"
	exprvm "github.com/expr-lang/expr/vm"
)

const engineExpr = "expr"

// ExprEvaluatorOption configures NewExprEvaluator.
type ExprEvaluatorOption func(*exprEvaluator)

// ExprWithProgramCache reuses compiled programs across rules and instances.
func ExprWithProgramCache(cache ProgramCache) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		e.cache = cache
	}
}

// ExprWithFunctionRegistry exposes registry functions by name and through
// call(name, args...).
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		if registry != nil {
			e.registry = registry.Clone()
		}
	}
}

// exprEvaluator runs option rules with expr-lang/expr. Programs compile
// against the declared rule scope, so scope names win over expr builtins such
// as now; snapshot keys beyond the option fields get programs of their own.
type exprEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewExprEvaluator returns the default rule Evaluator.
func NewExprEvaluator(opts ...ExprEvaluatorOption) Evaluator {
	e := &exprEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *exprEvaluator) engineName() string { return engineExpr }

func (e *exprEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	scope := newRuleScope(ctx)
	program, err := e.program(expression, scope.extras())
	if err != nil {
		return nil, err
	}
	return e.run(program, expression, ctx, scope)
}

func (e *exprEvaluator) Compile(expression string, _ ...CompileOption) (CompiledRule, error) {
	program, err := e.program(expression, nil)
	if err != nil {
		return nil, err
	}
	return exprRule{evaluator: e, program: program, expression: expression}, nil
}

func (e *exprEvaluator) program(expression string, extras []string) (*exprvm.Program, error) {
	if expression == "" {
		return nil, wrapEvaluatorError(engineExpr, errEmptyExpression)
	}
	key := programKey(engineExpr, expression, extras)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	program, err := exprlang.Compile(expression, e.compileOptions(extras)...)
	if err != nil {
		return nil, wrapEvaluationError(engineExpr, expression, "", err)
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}

func (e *exprEvaluator) compileOptions(extras []string) []exprlang.Option {
	options := []exprlang.Option{
		exprlang.Env(exprScope(extras)),
		exprlang.AllowUndefinedVariables(),
	}
	names := e.registry.Names()
	if len(names) == 0 {
		return options
	}
	options = append(options, exprlang.Function(callFunction, e.registry.dispatch))
	for _, name := range names {
		options = append(options, exprlang.Function(name, e.registry.bound(name)))
	}
	return options
}

// exprScope declares every scope name as any, except now.
func exprScope(extras []string) exprtypes.Map {
	scope := exprtypes.Map{}
	for _, group := range [][]string{optionFields, scopeBuiltins, extras} {
		for _, name := range group {
			scope[name] = exprtypes.Any
		}
	}
	scope["now"] = exprtypes.TypeOf(time.Time{})
	return scope
}

func (e *exprEvaluator) run(program *exprvm.Program, expression string, ctx RuleContext, scope ruleScope) (any, error) {
	result, err := exprlang.Run(program, map[string]any(scope))
	if err != nil {
		return nil, wrapEvaluationError(engineExpr, expression, ctx.label(), err)
	}
	return result, nil
}

type exprRule struct {
	evaluator  *exprEvaluator
	program    *exprvm.Program
	expression string
}

func (r exprRule) Evaluate(ctx RuleContext) (any, error) {
	scope := newRuleScope(ctx)
	program := r.program
	if extras := scope.extras(); len(extras) > 0 {
		var err error
		if program, err = r.evaluator.program(r.expression, extras); err != nil {
			return nil, err
		}
	}
	return r.evaluator.run(program, r.expression, ctx, scope)
}
