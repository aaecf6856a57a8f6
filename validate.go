package sel

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-select/internal/hydrate"
)

// Issue describes a suspicious prop combination.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// ValidationResult collects issues found in Props. Issues never stop the
// engine; they describe inputs that will degrade to a safe default.
type ValidationResult struct {
	Issues []Issue `json:"issues,omitempty"`
}

// Valid reports whether no issues were found.
func (r ValidationResult) Valid() bool {
	return len(r.Issues) == 0
}

// Err joins the issues into one error, nil when valid.
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	errs := make([]error, len(r.Issues))
	for i, issue := range r.Issues {
		errs[i] = issue
	}
	return errors.Join(errs...)
}

func (r *ValidationResult) add(field, message string) {
	r.Issues = append(r.Issues, Issue{Field: field, Message: message})
}

// Validate inspects p without modifying it.
func Validate(p Props) ValidationResult {
	var result ValidationResult

	if !isNil(p.Options) {
		if _, ok := hydrate.ToSequence(p.Options); !ok {
			if _, ok := hydrate.ToRecord(p.Options); !ok {
				result.add("options", fmt.Sprintf("expected a sequence, map or record, got %T", p.Options))
			}
		}
	}
	if p.HasMore && p.LoadMore == nil {
		result.add("load_more", "has_more is set but no load more callback is configured")
	}
	if p.LoadOffset != nil && *p.LoadOffset < 0 {
		result.add("load_offset", fmt.Sprintf("must not be negative, got %d", *p.LoadOffset))
	}
	if p.LoadAhead != nil && *p.LoadAhead < 0 {
		result.add("load_ahead", fmt.Sprintf("must not be negative, got %d", *p.LoadAhead))
	}
	if p.Multiple && p.controlled() && !isNil(p.Value) {
		if _, ok := hydrate.ToSequence(p.Value); !ok {
			result.add("value", fmt.Sprintf("multiple select expects a sequence value, got %T", p.Value))
		}
	}
	if p.AlwaysOpen && p.OwnBehavior {
		result.add("own_behavior", "always_open takes precedence over own_behavior")
	}
	if p.LoadButton && !p.HasMore && p.LoadMore != nil {
		result.add("load_button", "load button is hidden until has_more is set")
	}
	return result
}
