package sel

// Scroll is a snapshot of the option list viewport, in pixels.
type Scroll struct {
	Top    float64
	Height float64
	Client float64
}

// PagerState is the input the in-flight guard is keyed on.
type PagerState struct {
	Length     int
	HasMore    bool
	Button     bool
	ButtonText string
}

// Pager guards the load-more callback so at most one request is outstanding.
// The guard is released only when PagerState changes.
type Pager struct {
	inFlight bool
	loading  bool
	state    PagerState
	primed   bool
}

// Sync records the current state and releases the guard when it changed.
// It reports whether a release happened.
func (p *Pager) Sync(state PagerState) bool {
	if p.primed && p.state == state {
		return false
	}
	p.primed = true
	p.state = state
	p.inFlight = false
	p.loading = false
	return true
}

// InFlight reports whether a request is outstanding.
func (p *Pager) InFlight() bool {
	return p.inFlight
}

// Loading reports whether the load-more entry shows its loading text.
func (p *Pager) Loading() bool {
	return p.loading
}

// SafeLoadMore claims the guard. It returns false while a request is
// outstanding or when no more data is declared.
func (p *Pager) SafeLoadMore(hasMore bool) bool {
	if !hasMore || p.inFlight {
		return false
	}
	p.inFlight = true
	return true
}

// TriggerButton handles activation of the load-more entry.
func (p *Pager) TriggerButton(hasMore bool) bool {
	if p.loading || !p.SafeLoadMore(hasMore) {
		return false
	}
	p.loading = true
	return true
}

// ScrollTriggers reports whether s is within offset pixels of the end in
// infinite mode.
func (p *Pager) ScrollTriggers(s Scroll, offset int, hasMore, button bool) bool {
	if button || !hasMore || p.inFlight {
		return false
	}
	return s.Height-s.Top <= s.Client+float64(offset)
}

// AheadTriggers reports whether keyboard highlight came within ahead entries
// of the end in infinite mode.
func (p *Pager) AheadTriggers(highlight, length, ahead int, open, hasMore, button bool) bool {
	if button || !open || !hasMore || p.inFlight {
		return false
	}
	return highlight >= length-ahead
}
