package sel

import "time"

// Key is a keyboard intent understood by the controller.
type Key string

const (
	KeyEnter     Key = "Enter"
	KeySpace     Key = " "
	KeyEscape    Key = "Escape"
	KeyArrowDown Key = "ArrowDown"
	KeyArrowUp   Key = "ArrowUp"
	KeyTab       Key = "Tab"
)

const (
	// windowFocusDebounce suppresses focus-open right after the host window
	// regained focus.
	windowFocusDebounce = 100 * time.Millisecond
	// focusToggleGuard suppresses the toggle that follows a focus-open.
	focusToggleGuard = 200 * time.Millisecond
)

// Controller tracks highlight and focus timing over a list it does not own.
type Controller struct {
	highlight        int
	lastWindowFocus  time.Time
	justFocusedUntil time.Time
}

// NewController returns a controller with nothing highlighted.
func NewController() *Controller {
	return &Controller{highlight: -1}
}

// Highlighted returns the highlighted index or -1.
func (c *Controller) Highlighted() int {
	return c.highlight
}

// Reset clears the highlight, as on close.
func (c *Controller) Reset() {
	c.highlight = -1
}

// Settle derives the highlight for an open list. A highlight that still
// points at a visible, non header entry is kept; otherwise the first selected
// navigable entry wins, then the first navigable entry.
func (c *Controller) Settle(list []Option, selectedID string) int {
	if c.highlight >= 0 && c.highlight < len(list) {
		current := list[c.highlight]
		if !current.Hidden && !current.GroupHeader {
			return c.highlight
		}
	}
	c.highlight = initialHighlight(list, selectedID)
	return c.highlight
}

// Jump moves the highlight to the first navigable entry.
func (c *Controller) Jump(list []Option) int {
	c.highlight = initialHighlight(list, "")
	return c.highlight
}

// Hover highlights index when it points at an enabled, idle entry.
func (c *Controller) Hover(list []Option, index int) bool {
	if index < 0 || index >= len(list) {
		return false
	}
	if list[index].Disabled || list[index].Loading {
		return false
	}
	c.highlight = index
	return true
}

// Move scans circularly from the highlight in direction for one circuit. With
// clamp set, a scan that would wrap stays at the current boundary instead.
func (c *Controller) Move(list []Option, direction int, clamp bool) int {
	c.highlight = nextIndex(list, c.highlight, direction, clamp)
	return c.highlight
}

// WindowFocused records that the host window regained focus at now.
func (c *Controller) WindowFocused(now time.Time) {
	c.lastWindowFocus = now
}

// FocusAllowed reports whether a focus event at now may open the dropdown.
func (c *Controller) FocusAllowed(now time.Time) bool {
	return c.lastWindowFocus.IsZero() || now.Sub(c.lastWindowFocus) >= windowFocusDebounce
}

// Focused records a focus-open at now.
func (c *Controller) Focused(now time.Time) {
	c.justFocusedUntil = now.Add(focusToggleGuard)
}

// ToggleAllowed reports whether a toggle at now is not the echo of a
// focus-open.
func (c *Controller) ToggleAllowed(now time.Time) bool {
	return !now.Before(c.justFocusedUntil)
}

func initialHighlight(list []Option, selectedID string) int {
	if selectedID != "" {
		for i, opt := range list {
			if opt.ID == selectedID && opt.Navigable() {
				return i
			}
		}
	}
	for i, opt := range list {
		if opt.Navigable() {
			return i
		}
	}
	return -1
}

func nextIndex(list []Option, current, direction int, clamp bool) int {
	n := len(list)
	if n == 0 {
		return -1
	}
	next := current
	for i := 0; i < n; i++ {
		next = ((next+direction)%n + n) % n
		if clamp {
			if direction > 0 && next == 0 {
				return current
			}
			if direction < 0 && next == n-1 {
				return current
			}
		}
		if list[next].Navigable() {
			return next
		}
	}
	return current
}
