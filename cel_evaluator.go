package sel

import (
	"fmt"
	"strings"
	"sync"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

const engineCEL = "cel"

// celMaxCallArgs bounds call(name, ...) overloads; CEL has no variadics.
const celMaxCallArgs = 3

// CELEvaluatorOption configures NewCELEvaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache reuses checked programs across rules and instances.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry exposes registry functions through
// call(name, args...).
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		if registry != nil {
			e.registry = registry.Clone()
		}
	}
}

// celEvaluator runs option rules with cel-go. Every option field is declared
// up front as dyn; snapshot keys beyond those get an environment of their own.
type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry

	mu   sync.Mutex
	envs map[string]*celgo.Env
}

// NewCELEvaluator returns an Evaluator backed by cel-go.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{envs: map[string]*celgo.Env{}}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) engineName() string { return engineCEL }

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	if expression == "" {
		return nil, wrapEvaluatorError(engineCEL, errEmptyExpression)
	}
	scope := newRuleScope(ctx)
	program, err := e.program(expression, scope.extras())
	if err != nil {
		return nil, err
	}
	return e.run(program, expression, ctx, scope)
}

// Compile checks expression against the option fields so type errors surface
// before any option is evaluated.
func (e *celEvaluator) Compile(expression string, _ ...CompileOption) (CompiledRule, error) {
	if expression == "" {
		return nil, wrapEvaluatorError(engineCEL, errEmptyExpression)
	}
	program, err := e.program(expression, nil)
	if err != nil {
		return nil, err
	}
	return &celRule{evaluator: e, expression: expression, program: program}, nil
}

func (e *celEvaluator) program(expression string, extras []string) (celgo.Program, error) {
	key := programKey(engineCEL, expression, extras)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(celgo.Program); ok {
				return program, nil
			}
		}
	}
	env, err := e.env(extras)
	if err != nil {
		return nil, wrapEvaluatorError(engineCEL, err)
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, wrapEvaluationError(engineCEL, expression, "", issues.Err())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, wrapEvaluationError(engineCEL, expression, "", err)
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}

func (e *celEvaluator) env(extras []string) (*celgo.Env, error) {
	key := strings.Join(extras, ",")
	e.mu.Lock()
	defer e.mu.Unlock()
	if env, ok := e.envs[key]; ok {
		return env, nil
	}

	opts := []celgo.EnvOption{celgo.Variable("now", celgo.TimestampType)}
	for _, name := range scopeBuiltins {
		if name != "now" {
			opts = append(opts, celgo.Variable(name, celgo.DynType))
		}
	}
	for _, name := range append(append([]string{}, optionFields...), extras...) {
		opts = append(opts, celgo.Variable(name, celgo.DynType))
	}
	if e.registry != nil {
		opts = append(opts, celgo.Function(callFunction, e.callOverloads()...))
	}
	env, err := celgo.NewEnv(opts...)
	if err != nil {
		return nil, err
	}
	e.envs[key] = env
	return env, nil
}

func (e *celEvaluator) run(program celgo.Program, expression string, ctx RuleContext, scope ruleScope) (any, error) {
	out, _, err := program.Eval(map[string]any(scope))
	if err != nil {
		return nil, wrapEvaluationError(engineCEL, expression, ctx.label(), err)
	}
	return out.Value(), nil
}

type celRule struct {
	evaluator  *celEvaluator
	expression string
	program    celgo.Program
}

func (r *celRule) Evaluate(ctx RuleContext) (any, error) {
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

func (e *celEvaluator) callOverloads() []celgo.FunctionOpt {
	binding := celgo.FunctionBinding(e.callBinding)
	overloads := make([]celgo.FunctionOpt, 0, celMaxCallArgs+1)
	params := []*celgo.Type{celgo.StringType}
	for arity := 0; arity <= celMaxCallArgs; arity++ {
		overloads = append(overloads, celgo.Overload(
			fmt.Sprintf("%s_string_dyn%d", callFunction, arity),
			append([]*celgo.Type{}, params...),
			celgo.DynType,
			binding,
		))
		params = append(params, celgo.DynType)
	}
	return overloads
}

func (e *celEvaluator) callBinding(values ...ref.Val) ref.Val {
	args := make([]any, 0, len(values))
	for _, val := range values {
		args = append(args, val.Value())
	}
	result, err := e.registry.dispatch(args...)
	if err != nil {
		return types.NewErr("%s", err.Error())
	}
	if result == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(result)
}
