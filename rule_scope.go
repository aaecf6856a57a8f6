package sel

import (
	"slices"
	"strings"
)

// optionFields are bound in every rule evaluation, nil when the snapshot
// lacks them, so programs compiled for one option run against any other.
var optionFields = []string{"name", "value", "user_id", "group", "disabled", "kind", "index", "source"}

// scopeBuiltins are bound alongside the option fields.
var scopeBuiltins = []string{"option", "now", "args", "metadata", "rule"}

// ruleScope is the variable set one evaluation sees.
type ruleScope map[string]any

func newRuleScope(ctx RuleContext) ruleScope {
	ctx = ctx.withDefaults()
	snapshot := snapshotAsMap(ctx.Snapshot)
	scope := make(ruleScope, len(optionFields)+len(scopeBuiltins)+len(snapshot))
	for _, field := range optionFields {
		scope[field] = nil
	}
	for key, value := range snapshot {
		scope[key] = value
	}
	scope["option"] = snapshot
	scope["now"] = ctx.timestamp()
	scope["args"] = ctx.Args
	scope["metadata"] = ctx.Metadata
	scope["rule"] = ctx.Label
	return scope
}

// extras returns the sorted snapshot keys that are neither option fields nor
// builtins. Engines with declared environments key programs on them.
func (s ruleScope) extras() []string {
	var out []string
	for key := range s {
		if slices.Contains(optionFields, key) || slices.Contains(scopeBuiltins, key) {
			continue
		}
		out = append(out, key)
	}
	slices.Sort(out)
	return out
}

// programKey namespaces cached programs per engine, so one ProgramCache can
// back several evaluators.
func programKey(engine, expression string, extras []string) string {
	if len(extras) == 0 {
		return engine + "|" + expression
	}
	return engine + "|" + strings.Join(extras, ",") + "|" + expression
}

func snapshotAsMap(value any) map[string]any {
	if m, ok := value.(map[string]any); ok && m != nil {
		return m
	}
	return map[string]any{}
}
