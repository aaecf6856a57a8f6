package sel

import "testing"

func TestFindMatchStrategies(t *testing.T) {
	source := []any{
		map[string]any{"name": "Header", "group": "G"},
		"plain",
		2,
		map[string]any{"name": "One", "value": "v1"},
		map[string]any{"name": "User", "id": "u1", "value": 5},
		map[string]any{"name": "Record", "id": 9, "tags": []any{"a"}},
	}
	list := Normalize(source, nil, NormalizeConfig{Prefix: "t"}).Options

	tests := []struct {
		name     string
		value    any
		strategy MatchStrategy
		label    string
	}{
		{name: "original", value: "plain", strategy: MatchOriginal, label: "plain"},
		{name: "numeric original", value: 2.0, strategy: MatchOriginal, label: "2"},
		{name: "raw", value: "v1", strategy: MatchRaw, label: "One"},
		{name: "user id", value: "u1", strategy: MatchUserID, label: "User"},
		{name: "structural", value: map[string]any{"name": "Record", "id": 9, "tags": []any{"a"}}, strategy: MatchStructural, label: "Record"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt, trace, ok := FindMatch(list, tt.value)
			if !ok {
				t.Fatalf("expected a match for %#v", tt.value)
			}
			if trace.Strategy != tt.strategy || opt.Name != tt.label || trace.OptionID != opt.ID {
				t.Fatalf("unexpected match %+v trace %+v", opt, trace)
			}
		})
	}
}

func TestFindMatchIdentityWinsForSameRecord(t *testing.T) {
	rec := map[string]any{"name": "A"}
	list := Normalize([]any{map[string]any{"name": "A"}, rec}, nil, NormalizeConfig{Prefix: "t"}).Options

	opt, trace, ok := FindMatch(list, rec)
	if !ok || opt.ID != "t-n-0-1" || trace.Strategy != MatchOriginal {
		t.Fatalf("expected identity match on the second record, got %+v %+v", opt, trace)
	}
}

func TestFindMatchMisses(t *testing.T) {
	list := Normalize([]any{"a", map[string]any{"name": "b"}}, nil, NormalizeConfig{}).Options

	cyclic := map[string]any{}
	cyclic["self"] = cyclic

	for _, value := range []any{nil, "missing", "1", cyclic, []any{"x"}} {
		if _, trace, ok := FindMatch(list, value); ok || trace.Strategy != MatchNone {
			t.Fatalf("expected no match for %#v, got %+v", value, trace)
		}
	}
}

func TestFindMatchSkipsHeadersAndLoadMore(t *testing.T) {
	source := []any{map[string]any{"name": "A", "group": "G"}}
	list := Normalize(source, nil, NormalizeConfig{HasMore: true, LoadButton: true}).Options

	if _, _, ok := FindMatch(list, "G"); ok {
		t.Fatalf("group header must not match")
	}
	_, trace, ok := FindMatch(list, "Load more")
	if ok || trace.Candidates != 1 {
		t.Fatalf("load more entry must not match, trace %+v", trace)
	}
}

func TestMatchTraceJSON(t *testing.T) {
	trace := MatchTrace{Strategy: MatchRaw, OptionID: "sel-n-0-1", Candidates: 4}
	payload, err := trace.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	decoded, err := MatchTraceFromJSON(payload)
	if err != nil {
		t.Fatalf("MatchTraceFromJSON: %v", err)
	}
	if decoded != trace {
		t.Fatalf("decoded %+v, want %+v", decoded, trace)
	}
	if _, err := MatchTraceFromJSON([]byte("{")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestSameValue(t *testing.T) {
	m := map[string]any{"a": 1}
	s := []any{1}
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{name: "numbers across types", a: 1, b: 1.0, want: true},
		{name: "number vs string", a: 1, b: "1", want: false},
		{name: "same map", a: m, b: m, want: true},
		{name: "equal maps", a: m, b: map[string]any{"a": 1}, want: false},
		{name: "same slice", a: s, b: s, want: true},
		{name: "funcs", a: TestSameValue, b: TestSameValue, want: false},
		{name: "nil", a: nil, b: nil, want: false},
		{name: "bools", a: true, b: true, want: true},
		{name: "structs", a: fruit{ID: 1}, b: fruit{ID: 1}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sameValue(tt.a, tt.b); got != tt.want {
				t.Fatalf("sameValue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqualValues(t *testing.T) {
	if !equalValues(nil, nil) {
		t.Fatalf("nil values should be equal")
	}
	if !equalValues([]any{"a"}, []string{"a"}) {
		t.Fatalf("sequences with the same content should be equal")
	}
	if equalValues("a", "b") {
		t.Fatalf("different scalars should differ")
	}
}
