package sel

import "testing"

func TestPagerButtonGuard(t *testing.T) {
	var p Pager
	state := PagerState{Length: 3, HasMore: true, Button: true, ButtonText: "Load more"}
	if !p.Sync(state) {
		t.Fatalf("first sync should prime the pager")
	}

	if !p.TriggerButton(true) {
		t.Fatalf("first trigger should claim the guard")
	}
	if !p.Loading() || !p.InFlight() {
		t.Fatalf("expected loading and in flight")
	}
	if p.TriggerButton(true) || p.SafeLoadMore(true) {
		t.Fatalf("second trigger must be rejected while in flight")
	}

	if p.Sync(state) {
		t.Fatalf("unchanged state must not release the guard")
	}
	if !p.InFlight() {
		t.Fatalf("guard released without a state change")
	}

	state.Length = 6
	if !p.Sync(state) {
		t.Fatalf("length change should release the guard")
	}
	if p.InFlight() || p.Loading() {
		t.Fatalf("expected guard and loading released")
	}
}

func TestPagerRequiresHasMore(t *testing.T) {
	var p Pager
	if p.SafeLoadMore(false) || p.TriggerButton(false) {
		t.Fatalf("no request may start without more data")
	}
	if p.InFlight() {
		t.Fatalf("failed claim must not mark in flight")
	}
}

func TestPagerScrollTriggers(t *testing.T) {
	tests := []struct {
		name    string
		scroll  Scroll
		offset  int
		hasMore bool
		button  bool
		want    bool
	}{
		{name: "near end", scroll: Scroll{Top: 850, Height: 1000, Client: 100}, offset: 100, hasMore: true, want: true},
		{name: "at top", scroll: Scroll{Top: 0, Height: 1000, Client: 100}, offset: 100, hasMore: true, want: false},
		{name: "exact boundary", scroll: Scroll{Top: 800, Height: 1000, Client: 100}, offset: 100, hasMore: true, want: true},
		{name: "no more data", scroll: Scroll{Top: 900, Height: 1000, Client: 100}, offset: 100, want: false},
		{name: "button mode", scroll: Scroll{Top: 900, Height: 1000, Client: 100}, offset: 100, hasMore: true, button: true, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Pager
			if got := p.ScrollTriggers(tt.scroll, tt.offset, tt.hasMore, tt.button); got != tt.want {
				t.Fatalf("ScrollTriggers = %v, want %v", got, tt.want)
			}
		})
	}

	var p Pager
	p.SafeLoadMore(true)
	if p.ScrollTriggers(Scroll{Top: 900, Height: 1000, Client: 100}, 100, true, false) {
		t.Fatalf("scroll must not trigger while in flight")
	}
}

func TestPagerAheadTriggers(t *testing.T) {
	var p Pager
	if !p.AheadTriggers(7, 10, 3, true, true, false) {
		t.Fatalf("expected trigger within look-ahead")
	}
	if p.AheadTriggers(6, 10, 3, true, true, false) {
		t.Fatalf("unexpected trigger outside look-ahead")
	}
	if p.AheadTriggers(9, 10, 3, false, true, false) {
		t.Fatalf("closed dropdown must not trigger")
	}
	if p.AheadTriggers(9, 10, 3, true, true, true) {
		t.Fatalf("button mode must not trigger on navigation")
	}
}
