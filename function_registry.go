package sel

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"
)

// callFunction is the dispatcher every engine exposes: call(name, args...).
const callFunction = "call"

var functionName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Function is a helper option rules can call by name.
type Function func(args ...any) (any, error)

// FunctionRegistry holds rule helpers. Names are case insensitive and must be
// valid identifiers in every engine.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry returns an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: map[string]Function{}}
}

// Register adds fn under name. Duplicates are rejected.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	switch {
	case fn == nil:
		return fmt.Errorf("sel: function %q is nil", name)
	case name == "":
		return fmt.Errorf("sel: function name must not be empty")
	case !functionName.MatchString(name):
		return fmt.Errorf("sel: function name %q is not an identifier", name)
	}
	key := strings.ToLower(name)
	if key == callFunction {
		return fmt.Errorf("sel: function name %q is reserved", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = map[string]Function{}
	}
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("sel: function %q already registered", name)
	}
	r.functions[key] = fn
	return nil
}

// Clone copies the registry so later registrations do not leak into
// evaluators that already hold it.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{functions: make(map[string]Function, len(r.functions))}
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}
	return clone
}

// Call runs the function registered under name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("sel: function registry is nil")
	}
	r.mu.RLock()
	fn := r.functions[strings.ToLower(name)]
	r.mu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("sel: function %q not registered", name)
	}
	return fn(args...)
}

// Names lists registered names in lower case, sorted.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// bound returns a Function that calls name through the registry.
func (r *FunctionRegistry) bound(name string) Function {
	return func(args ...any) (any, error) {
		return r.Call(name, args...)
	}
}

// dispatch implements call(name, args...).
func (r *FunctionRegistry) dispatch(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("sel: %s requires a function name", callFunction)
	}
	name, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("sel: %s name must be a string, got %T", callFunction, args[0])
	}
	return r.Call(name, args[1:]...)
}

// WithFunctionRegistry exposes registry functions to option rules.
func WithFunctionRegistry(registry *FunctionRegistry) Setting {
	return func(cfg *settings) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn under name for option rules. Invalid or
// duplicate names are ignored.
func WithCustomFunction(name string, fn Function) Setting {
	return func(cfg *settings) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}
