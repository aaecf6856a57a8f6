package sel

import "github.com/goliatone/go-select/internal/hydrate"

// Selection is the resolved selection state.
type Selection struct {
	// SelectedID is the id of the single selected option, empty when none.
	SelectedID string
	// Set holds the selected options in multiple mode, in selection order.
	Set []Option
	// Internal is the value owned by an uncontrolled select.
	Internal any
	// Trace explains the last resolution of SelectedID.
	Trace MatchTrace
}

// Change is the payload reported to the change callback.
type Change struct {
	Value  any
	UserID any
}

// Reconcile re-derives selection from list and the effective value. A
// tracked option is kept while it still matches value; otherwise the value is
// resolved from scratch. An unmatched value yields an empty selection.
func Reconcile(prev Selection, list []Option, value any, multiple bool) Selection {
	next := Selection{Internal: prev.Internal}
	if multiple {
		next.Set = reconcileSet(prev.Set, list, value)
		next.Trace = MatchTrace{Strategy: MatchNone, Candidates: len(list)}
		if len(next.Set) > 0 {
			next.Trace = MatchTrace{Strategy: MatchKept, OptionID: next.Set[0].ID, Candidates: len(list)}
		}
		return next
	}

	if current, ok := findByID(list, prev.SelectedID); ok && matches(current, value) {
		next.SelectedID = current.ID
		next.Trace = MatchTrace{Strategy: MatchKept, OptionID: current.ID, Candidates: len(list)}
		return next
	}
	match, trace, ok := FindMatch(list, value)
	next.Trace = trace
	if ok {
		next.SelectedID = match.ID
	}
	return next
}

func reconcileSet(prev []Option, list []Option, value any) []Option {
	values := valueSequence(value)
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]Option, 0, len(values))
	for _, v := range values {
		var (
			found Option
			ok    bool
		)
		for _, member := range prev {
			if _, taken := seen[member.ID]; taken {
				continue
			}
			if current, exists := findByID(list, member.ID); exists && matches(current, v) {
				found, ok = current, true
				break
			}
		}
		if !ok {
			for _, opt := range list {
				if _, taken := seen[opt.ID]; taken || opt.GroupHeader || opt.LoadMore {
					continue
				}
				if matches(opt, v) {
					found, ok = opt, true
					break
				}
			}
		}
		if !ok {
			continue
		}
		seen[found.ID] = struct{}{}
		out = append(out, found)
	}
	return out
}

// choose applies a selection of opt and returns the change to report.
func choose(prev Selection, opt Option, multiple bool) (Selection, Change) {
	if !multiple {
		next := Selection{
			SelectedID: opt.ID,
			Internal:   opt.Original,
			Trace:      MatchTrace{Strategy: MatchKept, OptionID: opt.ID},
		}
		return next, Change{Value: opt.Original, UserID: opt.UserID}
	}

	set := make([]Option, 0, len(prev.Set)+1)
	removed := false
	for _, member := range prev.Set {
		if member.ID == opt.ID {
			removed = true
			continue
		}
		set = append(set, member)
	}
	if !removed {
		set = append(set, opt)
	}
	values := make([]any, len(set))
	ids := make([]any, len(set))
	for i, member := range set {
		values[i] = member.Original
		ids[i] = member.UserID
	}
	next := Selection{Set: set, Internal: values, Trace: prev.Trace}
	return next, Change{Value: values, UserID: ids}
}

// clearSelection empties the selection.
func clearSelection() (Selection, Change) {
	return Selection{Trace: MatchTrace{Strategy: MatchNone}}, Change{}
}

func valueSequence(value any) []any {
	if isNil(value) {
		return nil
	}
	if items, ok := hydrate.ToSequence(value); ok {
		return items
	}
	return []any{value}
}

func findByID(list []Option, id string) (Option, bool) {
	if id == "" {
		return Option{}, false
	}
	for _, opt := range list {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}
