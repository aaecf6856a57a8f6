package sel

import (
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-select/internal/hydrate"
	"github.com/goliatone/go-select/layering"
	"github.com/goliatone/go-select/pkg/activity"
	"github.com/goliatone/go-select/pkg/registry"
	"github.com/google/uuid"
)

// Registrar is the capability handed to declarative child collaborators.
type Registrar interface {
	Register(entry registry.Entry) (string, error)
	RegisterGroup(name string) (string, error)
	Unregister(id string) bool
}

// Outcome reports what an activation did.
type Outcome struct {
	// Blocked is set when the originating event must not propagate.
	Blocked bool
	// Close is set when the dropdown closed as a result.
	Close bool
	// Changed is set when the change callback was invoked.
	Changed bool
}

// Select hosts one select instance: it re-normalizes on every input change,
// reconciles the selection and derives interaction state. Callbacks and
// activity hooks run after internal state is committed and outside the lock,
// so they may call back into the Select.
type Select struct {
	mu sync.Mutex

	cfg         settings
	props       Props
	texts       Texts
	prefix      string
	registry    *registry.Registry
	unsubscribe func()
	order       *OrderCache
	groups      *Groups
	rules       *ruleEngine
	emitter     *activity.Emitter

	list      []Option
	infos     map[string]GroupInfo
	selection Selection
	pager     Pager
	ctrl      *Controller
	open      bool
	query     Query
}

// New constructs a Select for props.
func New(props Props, opts ...Setting) *Select {
	cfg := applySettings(opts)
	prefix := cfg.instanceID
	if prefix == "" {
		prefix = uuid.NewString()
	}
	s := &Select{
		cfg:      cfg,
		prefix:   prefix,
		registry: registry.New(),
		order:    NewOrderCache(),
		groups:   NewGroups(),
		rules:    newRuleEngine(cfg),
		emitter:  newEmitter(cfg),
		ctrl:     NewController(),
	}
	s.setProps(props)
	s.selection.Internal = props.DefaultValue
	effects := s.refresh()
	s.unsubscribe = s.registry.Subscribe(s.onRegistryChange)
	run(effects)
	return s
}

// Update replaces the props and reconciles every derived state.
func (s *Select) Update(props Props) {
	s.mu.Lock()
	prevDefault := s.props.DefaultValue
	s.setProps(props)
	if !props.controlled() && !equalValues(prevDefault, props.DefaultValue) {
		s.selection.Internal = props.DefaultValue
	}
	effects := s.refresh()
	s.mu.Unlock()
	run(effects)
}

// Registry returns the live entry registration channel.
func (s *Select) Registry() Registrar {
	return s.registry
}

// Close detaches the select from its registry.
func (s *Select) Close() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Options returns the full normalized list.
func (s *Select) Options() []Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.list)
}

// Visible returns the list narrowed by the current search query. Highlight
// indexes refer to this list.
func (s *Select) Visible() []Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.visible())
}

// Selected returns the single selected option.
func (s *Select) Selected() (Option, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.props.Multiple {
		return Option{}, false
	}
	return findByID(s.list, s.selection.SelectedID)
}

// SelectedSet returns the selected options of a multiple select in
// selection order.
func (s *Select) SelectedSet() []Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.selection.Set)
}

// Trace explains how the current selection was resolved.
func (s *Select) Trace() MatchTrace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Trace
}

// Open reports whether the dropdown is visible.
func (s *Select) Open() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isOpen()
}

// Highlighted returns the highlighted index into Visible, or -1.
func (s *Select) Highlighted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Highlighted()
}

// SetOpen requests a visibility change. Requests are ignored when visibility
// is delegated (AlwaysOpen, OwnBehavior) and opening is ignored while the
// select is not active.
func (s *Select) SetOpen(open bool) {
	s.mu.Lock()
	effects := s.setOpen(open)
	s.mu.Unlock()
	run(effects)
}

// SelectOption activates opt. Headers toggle their group, the load-more entry
// requests the next page, disabled entries are ignored.
func (s *Select) SelectOption(opt Option) Outcome {
	s.mu.Lock()
	outcome, effects := s.activate(opt.ID)
	s.mu.Unlock()
	run(effects)
	return outcome
}

// Clear empties the selection and reports (nil, nil) to the change callback.
func (s *Select) Clear() {
	s.mu.Lock()
	var previous any
	if current, ok := findByID(s.list, s.selection.SelectedID); ok {
		previous = current.Original
	}
	s.selection, _ = clearSelection()
	if s.props.controlled() {
		s.selection = Reconcile(s.selection, s.list, s.props.Value, s.props.Multiple)
	}
	effects := s.changed(Change{})
	input := s.eventInput()
	input.Previous = previous
	effects = append(effects, s.emit(activity.BuildSelectionClearedEvent(input)))
	effects = append(effects, s.settle()...)
	s.mu.Unlock()
	run(effects)
}

// ToggleGroup flips a group between expanded and collapsed.
func (s *Select) ToggleGroup(name string) bool {
	s.mu.Lock()
	expanded, effects := s.toggleGroup(name)
	s.mu.Unlock()
	run(effects)
	return expanded
}

// GroupExpanded reports the current state of a group.
func (s *Select) GroupExpanded(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.infos[name]
	if !ok {
		info = GroupInfo{Name: name, ClosedByDefault: s.props.GroupsClosed}
	}
	return s.groups.Expanded(info)
}

// Search narrows Visible to entries matching query and moves the highlight
// to the first navigable match.
func (s *Select) Search(query string) {
	s.mu.Lock()
	s.query = ParseQuery(query)
	var effects []func()
	if s.isOpen() {
		s.ctrl.Jump(s.visible())
		effects = s.checkAhead()
	}
	s.mu.Unlock()
	run(effects)
}

// Hover highlights the entry at index of Visible.
func (s *Select) Hover(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isOpen() {
		return false
	}
	return s.ctrl.Hover(s.visible(), index)
}

func (s *Select) setProps(props Props) {
	for _, issue := range Validate(props).Issues {
		s.cfg.logger.Log(LogEvent{
			Kind:    LogValidation,
			Message: issue.Message,
			Fields:  map[string]any{"field": issue.Field},
		})
	}
	s.props = props
	s.texts = layering.Merge(props.Texts, DefaultTexts())
}

func (s *Select) onRegistryChange() {
	s.mu.Lock()
	effects := s.refresh()
	s.mu.Unlock()
	run(effects)
}

// refresh runs one update pass: normalize, release the pagination guard when
// its inputs changed, reconcile the selection, then derive interaction state.
func (s *Select) refresh() []func() {
	result := Normalize(s.props.Options, s.registry.Entries(), NormalizeConfig{
		Prefix:        s.prefix,
		Texts:         s.texts,
		ChildrenFirst: s.props.ChildrenFirst,
		GroupsClosed:  s.props.GroupsClosed,
		Expanded:      s.groups.Expanded,
		LoadButton:    s.props.LoadButton,
		HasMore:       s.props.HasMore,
		LoadingMore:   s.pager.Loading(),
		Order:         s.order,
		Transform:     s.transform(),
	})
	s.groups.Observe(result.Groups)
	s.infos = make(map[string]GroupInfo, len(result.Groups))
	for _, info := range result.Groups {
		s.infos[info.Name] = info
	}

	s.list = result.Options
	s.pager.Sync(PagerState{
		Length:     len(s.list),
		HasMore:    s.props.HasMore,
		Button:     s.props.LoadButton,
		ButtonText: s.texts.LoadButtonText,
	})
	s.decorateLoadMore()

	s.selection = Reconcile(s.selection, s.list, s.effectiveValue(), s.props.Multiple)
	if !s.active() {
		s.open = false
	}
	return s.settle()
}

func (s *Select) transform() func(Option) (Option, bool) {
	if s.rules == nil {
		return nil
	}
	return s.rules.apply
}

func (s *Select) decorateLoadMore() {
	if n := len(s.list); n > 0 && s.list[n-1].LoadMore {
		s.list[n-1] = loadMoreOption(s.texts, s.pager.Loading())
	}
}

func (s *Select) visible() []Option {
	return Filter(s.list, s.query)
}

// settle re-derives the highlight for the current visibility.
func (s *Select) settle() []func() {
	if !s.isOpen() {
		s.ctrl.Reset()
		return nil
	}
	s.ctrl.Settle(s.visible(), s.firstSelectedID())
	return s.checkAhead()
}

func (s *Select) checkAhead() []func() {
	visible := s.visible()
	if !s.pager.AheadTriggers(s.ctrl.Highlighted(), len(visible), s.props.loadAhead(), s.isOpen(), s.props.HasMore, s.props.LoadButton) {
		return nil
	}
	return s.requestMore(activity.TriggerKeyboard)
}

func (s *Select) requestMore(trigger string) []func() {
	if s.props.LoadMore == nil || !s.pager.SafeLoadMore(s.props.HasMore) {
		return nil
	}
	return s.loadMoreEffects(trigger)
}

func (s *Select) loadMoreEffects(trigger string) []func() {
	s.cfg.logger.Log(LogEvent{
		Kind:    LogLoadMore,
		Message: "load more requested",
		Fields:  map[string]any{"trigger": trigger, "length": len(s.list)},
	})
	input := s.eventInput()
	input.Trigger = trigger
	input.Loaded = len(s.list)
	return []func(){s.props.LoadMore, s.emit(activity.BuildLoadMoreEvent(input))}
}

func (s *Select) isOpen() bool {
	switch {
	case s.props.AlwaysOpen:
		return true
	case s.props.OwnBehavior:
		return s.props.Visibility
	default:
		return s.open
	}
}

func (s *Select) setOpen(open bool) []func() {
	if s.props.AlwaysOpen || s.props.OwnBehavior {
		return nil
	}
	if open && !s.active() {
		return nil
	}
	if s.open == open {
		return nil
	}
	s.open = open
	return s.settle()
}

func (s *Select) activate(id string) (Outcome, []func()) {
	current, ok := findByID(s.list, id)
	if !ok {
		return Outcome{Blocked: true}, nil
	}

	switch {
	case current.GroupHeader:
		if current.Disabled {
			return Outcome{Blocked: true}, nil
		}
		_, effects := s.toggleGroup(current.Name)
		return Outcome{Blocked: true}, effects
	case current.LoadMore:
		if current.Loading || s.props.LoadMore == nil || !s.pager.TriggerButton(s.props.HasMore) {
			return Outcome{Blocked: true}, nil
		}
		s.decorateLoadMore()
		return Outcome{Blocked: true}, s.loadMoreEffects(activity.TriggerButton)
	case current.Disabled:
		return Outcome{Blocked: true}, nil
	}

	var previous any
	if prev, ok := findByID(s.list, s.selection.SelectedID); ok {
		previous = prev.Original
	}
	next, change := choose(s.selection, current, s.props.Multiple)
	s.selection = next
	if s.props.controlled() {
		s.selection = Reconcile(s.selection, s.list, s.props.Value, s.props.Multiple)
	}

	effects := s.changed(change)
	input := s.eventInput()
	input.OptionID = current.ID
	input.Group = current.Group
	input.Value = current.Raw
	input.Previous = previous
	effects = append(effects, s.emit(activity.BuildSelectionChangedEvent(input)))

	if s.props.Multiple {
		return Outcome{Blocked: true, Changed: true}, effects
	}
	effects = append(effects, s.setOpen(false)...)
	return Outcome{Close: true, Changed: true}, effects
}

func (s *Select) changed(change Change) []func() {
	onChange := s.props.OnChange
	if onChange == nil {
		return nil
	}
	return []func(){func() { onChange(change.Value, change.UserID) }}
}

func (s *Select) toggleGroup(name string) (bool, []func()) {
	info, ok := s.infos[name]
	if !ok {
		info = GroupInfo{Name: name, ClosedByDefault: s.props.GroupsClosed}
	}
	expanded := s.groups.Toggle(info)
	effects := s.refresh()
	input := s.eventInput()
	input.Group = name
	input.Expanded = expanded
	effects = append(effects, s.emit(activity.BuildGroupToggledEvent(input)))
	return expanded, effects
}

func (s *Select) effectiveValue() any {
	if s.props.controlled() {
		return s.props.Value
	}
	return s.selection.Internal
}

func (s *Select) firstSelectedID() string {
	if s.props.Multiple {
		if len(s.selection.Set) > 0 {
			return s.selection.Set[0].ID
		}
		return ""
	}
	return s.selection.SelectedID
}

func (s *Select) active() bool {
	return !s.props.Error && !s.props.Loading && !s.props.Disabled && len(s.list) > 0
}

// Active reports whether the select accepts interaction.
func (s *Select) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active()
}

// HasValue reports whether a non-empty value is present, matched or not.
func (s *Select) HasValue() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return hasActualValue(s.effectiveValue())
}

// ClearVisible reports whether a clear control should be offered.
func (s *Select) ClearVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return hasActualValue(s.effectiveValue()) && s.active()
}

// Title returns the text shown in the closed select.
func (s *Select) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.props.Error:
		return s.texts.ErrorText
	case s.props.Loading:
		return s.texts.LoadingText
	case s.props.Disabled:
		return s.texts.DisabledText
	}

	if s.props.Multiple {
		if len(s.selection.Set) > 0 {
			names := make([]string, len(s.selection.Set))
			for i, opt := range s.selection.Set {
				names[i] = opt.Name
			}
			return strings.Join(names, ", ")
		}
	} else if selected, ok := findByID(s.list, s.selection.SelectedID); ok {
		return selected.Name
	}

	if value := s.effectiveValue(); hasActualValue(value) {
		for _, opt := range s.list {
			if !opt.GroupHeader && sameValue(opt.Raw, value) {
				return opt.Name
			}
		}
		if structured(value) {
			if rec, ok := hydrate.ToRecord(value); ok {
				for _, key := range []string{"name", "label"} {
					if label, ok := rec.Get(key); ok && !isNil(label) {
						return stringify(label)
					}
				}
			}
			return "Selected Object"
		}
		return stringify(value)
	}

	if len(s.list) == 0 {
		return s.texts.EmptyText
	}
	return s.texts.Placeholder
}

func hasActualValue(value any) bool {
	if blank(value) {
		return false
	}
	if items, ok := hydrate.ToSequence(value); ok {
		return len(items) > 0
	}
	if rec, ok := hydrate.ToRecord(value); ok {
		return rec.Len() > 0
	}
	return true
}

func run(effects []func()) {
	for _, effect := range effects {
		if effect != nil {
			effect()
		}
	}
}
