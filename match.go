package sel

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/goliatone/go-select/internal/hydrate"
)

// MatchStrategy names the rule that tied a value to an option.
type MatchStrategy string

const (
	MatchNone       MatchStrategy = "none"
	MatchKept       MatchStrategy = "kept"
	MatchOriginal   MatchStrategy = "original"
	MatchRaw        MatchStrategy = "raw"
	MatchUserID     MatchStrategy = "user_id"
	MatchStructural MatchStrategy = "structural"
)

// MatchTrace records how the last reconciliation resolved a value.
type MatchTrace struct {
	Strategy   MatchStrategy `json:"strategy"`
	OptionID   string        `json:"option_id,omitempty"`
	Candidates int           `json:"candidates"`
}

// ToJSON serialises the trace for logging helpers.
func (t MatchTrace) ToJSON() ([]byte, error) {
	type alias MatchTrace
	return json.Marshal(alias(t))
}

// MatchTraceFromJSON deserialises a payload produced by ToJSON.
func MatchTraceFromJSON(payload []byte) (MatchTrace, error) {
	type alias MatchTrace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return MatchTrace{}, err
	}
	return MatchTrace(trace), nil
}

// FindMatch resolves value against list. Each option is tried by original,
// raw and user id identity; when nothing matches and value is a record or a
// sequence, options are compared structurally. Structural comparison failures
// count as no match.
func FindMatch(list []Option, value any) (Option, MatchTrace, bool) {
	trace := MatchTrace{Strategy: MatchNone}
	if isNil(value) {
		return Option{}, trace, false
	}
	for _, opt := range list {
		if opt.GroupHeader || opt.LoadMore {
			continue
		}
		trace.Candidates++
		if strategy, ok := identityMatch(opt, value); ok {
			trace.Strategy = strategy
			trace.OptionID = opt.ID
			return opt, trace, true
		}
	}

	if !structured(value) {
		return Option{}, trace, false
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return Option{}, trace, false
	}
	for _, opt := range list {
		if opt.GroupHeader || opt.LoadMore || !structured(opt.Original) {
			continue
		}
		if structurallyEqual(opt.Original, encoded) {
			trace.Strategy = MatchStructural
			trace.OptionID = opt.ID
			return opt, trace, true
		}
	}
	return Option{}, trace, false
}

// matches reports whether opt still represents value.
func matches(opt Option, value any) bool {
	if isNil(value) {
		return false
	}
	if _, ok := identityMatch(opt, value); ok {
		return true
	}
	if !structured(value) || !structured(opt.Original) {
		return false
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return false
	}
	return structurallyEqual(opt.Original, encoded)
}

func identityMatch(opt Option, value any) (MatchStrategy, bool) {
	switch {
	case sameValue(opt.Original, value):
		return MatchOriginal, true
	case sameValue(opt.Raw, value):
		return MatchRaw, true
	case sameValue(opt.UserID, value):
		return MatchUserID, true
	}
	return MatchNone, false
}

func structurallyEqual(original any, encoded []byte) bool {
	candidate, err := json.Marshal(original)
	if err != nil {
		return false
	}
	return bytes.Equal(candidate, encoded)
}

func structured(value any) bool {
	if isNil(value) {
		return false
	}
	if _, ok := hydrate.ToSequence(value); ok {
		return true
	}
	_, ok := hydrate.ToRecord(value)
	return ok
}

// sameValue compares by identity: numbers by numeric value, maps, slices and
// pointers by reference, everything else by ==.
func sameValue(a, b any) bool {
	if isNil(a) || isNil(b) {
		return false
	}
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Map:
		return ra.Pointer() == rb.Pointer()
	case reflect.Slice:
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	case reflect.Func:
		return false
	}
	if !ra.Comparable() {
		return false
	}
	return ra.Equal(rb)
}

// equalValues reports whether two prop values are interchangeable.
func equalValues(a, b any) bool {
	if isNil(a) && isNil(b) {
		return true
	}
	if sameValue(a, b) {
		return true
	}
	if !structured(a) || !structured(b) {
		return false
	}
	encoded, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return structurallyEqual(a, encoded)
}
