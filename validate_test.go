package sel

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	negative := -1
	noop := func() {}

	tests := []struct {
		name   string
		props  Props
		fields []string
	}{
		{name: "zero value", props: Props{}},
		{name: "sequence options", props: Props{Options: []string{"a"}}},
		{name: "record options", props: Props{Options: map[string]any{"a": 1}}},
		{name: "scalar options", props: Props{Options: 42}, fields: []string{"options"}},
		{name: "has more without callback", props: Props{HasMore: true}, fields: []string{"load_more"}},
		{name: "negative offsets", props: Props{LoadOffset: &negative, LoadAhead: &negative}, fields: []string{"load_offset", "load_ahead"}},
		{name: "multiple with scalar value", props: Props{Multiple: true, Value: "a"}, fields: []string{"value"}},
		{name: "multiple with sequence value", props: Props{Multiple: true, Value: []any{"a"}}},
		{name: "conflicting visibility", props: Props{AlwaysOpen: true, OwnBehavior: true}, fields: []string{"own_behavior"}},
		{name: "button without more", props: Props{LoadButton: true, LoadMore: noop}, fields: []string{"load_button"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.props)
			if len(result.Issues) != len(tt.fields) {
				t.Fatalf("expected %d issues, got %+v", len(tt.fields), result.Issues)
			}
			for i, field := range tt.fields {
				if result.Issues[i].Field != field {
					t.Fatalf("issue %d field = %q, want %q", i, result.Issues[i].Field, field)
				}
			}
			if result.Valid() != (len(tt.fields) == 0) {
				t.Fatalf("Valid() disagrees with issues")
			}
		})
	}
}

func TestValidationResultErr(t *testing.T) {
	if err := (ValidationResult{}).Err(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	result := Validate(Props{HasMore: true, Options: 1})
	err := result.Err()
	if err == nil {
		t.Fatalf("expected joined error")
	}
	var issue Issue
	if !errors.As(err, &issue) || issue.Field != "options" {
		t.Fatalf("expected first issue to unwrap, got %v", err)
	}
}
