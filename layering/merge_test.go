package layering

import (
	"reflect"
	"testing"
)

type texts struct {
	Placeholder string
	EmptyText   string
}

type settings struct {
	Texts     texts
	LoadAhead *int
	Offset    int
	Labels    map[string]string
	Tags      []string
	Hook      func() string
	Nested    *texts
	hidden    string
}

func intPtr(v int) *int {
	return &v
}

func TestMergeFillsUnsetFields(t *testing.T) {
	defaults := settings{
		Texts:     texts{Placeholder: "Choose option", EmptyText: "No options"},
		LoadAhead: intPtr(3),
		Offset:    100,
		Labels:    map[string]string{"a": "default-a", "b": "default-b"},
		Tags:      []string{"default"},
		Hook:      func() string { return "default" },
		Nested:    &texts{Placeholder: "nested", EmptyText: "nested-empty"},
	}
	caller := settings{
		Texts:     texts{Placeholder: "Pick one"},
		LoadAhead: intPtr(0),
		Labels:    map[string]string{"b": "caller-b"},
		Nested:    &texts{EmptyText: "caller-empty"},
		hidden:    "caller",
	}

	got := Merge(caller, defaults)

	if got.Texts.Placeholder != "Pick one" || got.Texts.EmptyText != "No options" {
		t.Fatalf("unexpected texts: %+v", got.Texts)
	}
	if got.LoadAhead == nil || *got.LoadAhead != 0 {
		t.Fatalf("expected explicit zero pointer to win, got %v", got.LoadAhead)
	}
	if got.Offset != 100 {
		t.Fatalf("expected zero offset to fall back, got %d", got.Offset)
	}
	wantLabels := map[string]string{"a": "default-a", "b": "caller-b"}
	if !reflect.DeepEqual(got.Labels, wantLabels) {
		t.Fatalf("labels = %v, want %v", got.Labels, wantLabels)
	}
	if !reflect.DeepEqual(got.Tags, []string{"default"}) {
		t.Fatalf("expected nil slice to fall back, got %v", got.Tags)
	}
	if got.Hook == nil || got.Hook() != "default" {
		t.Fatalf("expected nil func to fall back")
	}
	if got.Nested.Placeholder != "nested" || got.Nested.EmptyText != "caller-empty" {
		t.Fatalf("unexpected nested merge: %+v", got.Nested)
	}
	if got.hidden != "caller" {
		t.Fatalf("expected unexported field from strongest layer, got %q", got.hidden)
	}
	if caller.Nested.Placeholder != "" {
		t.Fatalf("expected caller layer untouched, got %+v", caller.Nested)
	}
}

func TestMergeLayersOrder(t *testing.T) {
	got := MergeLayers(
		texts{Placeholder: "strong"},
		texts{Placeholder: "middle", EmptyText: "middle"},
		texts{EmptyText: "weak"},
	)
	if got.Placeholder != "strong" || got.EmptyText != "middle" {
		t.Fatalf("unexpected merge: %+v", got)
	}
}

func TestMergeLayersZeroInput(t *testing.T) {
	if got := MergeLayers[texts](); got != (texts{}) {
		t.Fatalf("expected zero value, got %+v", got)
	}
}
