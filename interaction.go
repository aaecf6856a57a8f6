package sel

import "github.com/goliatone/go-select/pkg/activity"

// HandleKey applies a keyboard intent. It reports whether the key was
// consumed; Tab closes the dropdown but is never consumed.
func (s *Select) HandleKey(key Key) bool {
	s.mu.Lock()
	if s.props.Disabled {
		s.mu.Unlock()
		return false
	}

	var (
		effects []func()
		handled = true
		open    = s.isOpen()
	)
	switch key {
	case KeyEnter, KeySpace:
		if !open {
			effects = s.setOpen(true)
			break
		}
		visible := s.visible()
		if h := s.ctrl.Highlighted(); h >= 0 && h < len(visible) {
			_, effects = s.activate(visible[h].ID)
		}
	case KeyEscape:
		effects = s.setOpen(false)
	case KeyArrowDown, KeyArrowUp:
		if !open {
			effects = s.setOpen(true)
			break
		}
		direction := 1
		if key == KeyArrowUp {
			direction = -1
		}
		s.ctrl.Move(s.visible(), direction, s.props.HasMore && !s.props.LoadButton)
		effects = s.checkAhead()
	case KeyTab:
		if open {
			effects = s.setOpen(false)
		}
		handled = false
	default:
		handled = false
	}
	s.mu.Unlock()
	run(effects)
	return handled
}

// HandleScroll requests the next page when the list viewport comes within
// LoadOffset pixels of its end. Only infinite mode reacts to scrolling.
func (s *Select) HandleScroll(scroll Scroll) {
	s.mu.Lock()
	var effects []func()
	if s.pager.ScrollTriggers(scroll, s.props.loadOffset(), s.props.HasMore, s.props.LoadButton) {
		effects = s.requestMore(activity.TriggerScroll)
	}
	s.mu.Unlock()
	run(effects)
}

// HandleFocus opens the dropdown on focus unless the host window regained
// focus moments ago.
func (s *Select) HandleFocus() {
	s.mu.Lock()
	now := s.cfg.clock()
	var effects []func()
	if !s.props.Disabled && s.ctrl.FocusAllowed(now) && !s.isOpen() {
		effects = s.setOpen(true)
		s.ctrl.Focused(now)
	}
	s.mu.Unlock()
	run(effects)
}

// HandleBlur closes the dropdown when focus moved outside the select and its
// option list.
func (s *Select) HandleBlur(inside bool) {
	if inside {
		return
	}
	s.SetOpen(false)
}

// HandleToggle flips visibility on a click. Clicks on the clear control and
// the click that follows a focus-open are ignored.
func (s *Select) HandleToggle(onClear bool) {
	s.mu.Lock()
	now := s.cfg.clock()
	var effects []func()
	if !s.props.Disabled && !onClear && s.ctrl.ToggleAllowed(now) {
		effects = s.setOpen(!s.isOpen())
	}
	s.mu.Unlock()
	run(effects)
}

// WindowFocused records that the host window regained focus.
func (s *Select) WindowFocused() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.WindowFocused(s.cfg.clock())
}
