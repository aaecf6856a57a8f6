package sel

import (
	"testing"
	"time"
)

func navList() []Option {
	return []Option{
		{ID: "h", GroupHeader: true},
		{ID: "a"},
		{ID: "b", Disabled: true},
		{ID: "c"},
		{ID: "d", Hidden: true},
	}
}

func TestControllerMove(t *testing.T) {
	tests := []struct {
		name      string
		start     int
		direction int
		clamp     bool
		want      int
	}{
		{name: "from nothing", start: -1, direction: 1, want: 1},
		{name: "skips disabled", start: 1, direction: 1, want: 3},
		{name: "wraps down", start: 3, direction: 1, want: 1},
		{name: "wraps up", start: 1, direction: -1, want: 3},
		{name: "clamped at end", start: 3, direction: 1, clamp: true, want: 3},
		{name: "clamped at start", start: 1, direction: -1, clamp: true, want: 1},
		{name: "clamp still steps inside", start: 1, direction: 1, clamp: true, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController()
			c.highlight = tt.start
			if got := c.Move(navList(), tt.direction, tt.clamp); got != tt.want {
				t.Fatalf("Move = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestControllerMoveWithoutNavigableEntries(t *testing.T) {
	c := NewController()
	list := []Option{{ID: "x", Disabled: true}, {ID: "y", Loading: true}}
	if got := c.Move(list, 1, false); got != -1 {
		t.Fatalf("expected highlight to stay unset, got %d", got)
	}
	if got := c.Move(nil, 1, false); got != -1 {
		t.Fatalf("expected -1 on empty list, got %d", got)
	}
}

func TestControllerSettle(t *testing.T) {
	c := NewController()
	list := navList()

	if got := c.Settle(list, "c"); got != 3 {
		t.Fatalf("expected selected entry highlighted, got %d", got)
	}
	if got := c.Settle(list, "a"); got != 3 {
		t.Fatalf("expected existing highlight kept, got %d", got)
	}

	list[3].Hidden = true
	if got := c.Settle(list, ""); got != 1 {
		t.Fatalf("expected first navigable entry, got %d", got)
	}

	c.Reset()
	if got := c.Settle(list, "b"); got != 1 {
		t.Fatalf("disabled selection must not be highlighted, got %d", got)
	}
}

func TestControllerHover(t *testing.T) {
	c := NewController()
	list := navList()
	if c.Hover(list, 2) || c.Highlighted() != -1 {
		t.Fatalf("hover on disabled entry must be ignored")
	}
	if c.Hover(list, 9) {
		t.Fatalf("hover out of range must be ignored")
	}
	if !c.Hover(list, 3) || c.Highlighted() != 3 {
		t.Fatalf("expected hover to highlight entry 3")
	}
	if c.Jump(list) != 1 {
		t.Fatalf("expected jump to the first navigable entry")
	}
}

func TestControllerFocusTiming(t *testing.T) {
	c := NewController()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	if !c.FocusAllowed(base) {
		t.Fatalf("focus should be allowed before any window focus")
	}
	c.WindowFocused(base)
	if c.FocusAllowed(base.Add(50 * time.Millisecond)) {
		t.Fatalf("focus right after window focus should be suppressed")
	}
	if !c.FocusAllowed(base.Add(windowFocusDebounce)) {
		t.Fatalf("focus should be allowed after the debounce")
	}

	c.Focused(base)
	if c.ToggleAllowed(base.Add(100 * time.Millisecond)) {
		t.Fatalf("toggle echoing a focus-open should be suppressed")
	}
	if !c.ToggleAllowed(base.Add(focusToggleGuard)) {
		t.Fatalf("toggle should be allowed after the guard")
	}
}
