package sel

import (
	"time"

	"github.com/goliatone/go-select/pkg/activity"
)

// OptionType tags how an Option should be presented.
type OptionType string

const (
	TypeNormal  OptionType = "normal"
	TypeBoolean OptionType = "boolean"
	TypeGroup   OptionType = "group"
	TypeSpecial OptionType = "special"
)

// SourceKind records which input produced an Option.
type SourceKind string

const (
	SourceData SourceKind = "data"
	SourceLive SourceKind = "live"
)

// Option is one canonical entry of a normalized list.
type Option struct {
	ID            string     `json:"id"`
	UserID        any        `json:"user_id,omitempty"`
	Name          string     `json:"name"`
	Raw           any        `json:"raw,omitempty"`
	Original      any        `json:"-"`
	Type          OptionType `json:"type"`
	Source        SourceKind `json:"source,omitempty"`
	Index         int        `json:"index"`
	Disabled      bool       `json:"disabled,omitempty"`
	Invalid       bool       `json:"invalid,omitempty"`
	Group         string     `json:"group,omitempty"`
	GroupDisabled bool       `json:"group_disabled,omitempty"`
	GroupHeader   bool       `json:"group_header,omitempty"`
	Expanded      bool       `json:"expanded,omitempty"`
	LoadMore      bool       `json:"load_more,omitempty"`
	Loading       bool       `json:"loading,omitempty"`
	Hidden        bool       `json:"hidden,omitempty"`
	HasContent    bool       `json:"has_content,omitempty"`
	ClassName     string     `json:"class_name,omitempty"`

	placeholder bool
}

// Navigable reports whether keyboard navigation may stop on the option.
func (o Option) Navigable() bool {
	return !o.GroupHeader && !o.Hidden && !o.Disabled && !o.Loading
}

// Selectable reports whether choosing the option commits a selection.
func (o Option) Selectable() bool {
	return !o.GroupHeader && !o.LoadMore && !o.Disabled
}

// Texts holds every user facing string the engine can produce.
type Texts struct {
	Placeholder    string `json:"placeholder,omitempty"`
	EmptyText      string `json:"empty_text,omitempty"`
	DisabledText   string `json:"disabled_text,omitempty"`
	LoadingText    string `json:"loading_text,omitempty"`
	ErrorText      string `json:"error_text,omitempty"`
	DisabledOption string `json:"disabled_option,omitempty"`
	EmptyOption    string `json:"empty_option,omitempty"`
	InvalidOption  string `json:"invalid_option,omitempty"`
	EmptyGroup     string `json:"empty_group,omitempty"`
	LoadButtonText string `json:"load_button_text,omitempty"`
	LoadMoreText   string `json:"load_more_text,omitempty"`
}

// DefaultTexts returns the built-in English texts.
func DefaultTexts() Texts {
	return Texts{
		Placeholder:    "Choose option",
		EmptyText:      "No options",
		DisabledText:   "Disabled",
		LoadingText:    "Loading",
		ErrorText:      "Failed to load",
		DisabledOption: "Disabled option",
		EmptyOption:    "Empty option",
		InvalidOption:  "Invalid option",
		EmptyGroup:     "Empty group",
		LoadButtonText: "Load more",
		LoadMoreText:   "Loading",
	}
}

const (
	DefaultLoadOffset = 100
	DefaultLoadAhead  = 3
)

// ChangeFunc receives the committed value and its caller facing identity. In
// multiple mode both arguments are []any in selection order. Clear reports
// (nil, nil).
type ChangeFunc func(value any, userID any)

// Props mirrors the widget inputs. The zero value is a usable, empty,
// uncontrolled single select.
type Props struct {
	// Options is a sequence, keyed map or single record of option data.
	Options any `json:"options,omitempty"`
	// Value is authoritative when Controlled is set or Value is non-nil.
	Value        any  `json:"value,omitempty"`
	Controlled   bool `json:"controlled,omitempty"`
	DefaultValue any  `json:"default_value,omitempty"`

	Multiple      bool `json:"multiple,omitempty"`
	AlwaysOpen    bool `json:"always_open,omitempty"`
	OwnBehavior   bool `json:"own_behavior,omitempty"`
	Visibility    bool `json:"visibility,omitempty"`
	GroupsClosed  bool `json:"groups_closed,omitempty"`
	ChildrenFirst bool `json:"children_first,omitempty"`

	HasMore    bool `json:"has_more,omitempty"`
	LoadButton bool `json:"load_button,omitempty"`
	LoadOffset *int `json:"load_offset,omitempty"`
	LoadAhead  *int `json:"load_ahead,omitempty"`

	Disabled bool `json:"disabled,omitempty"`
	Loading  bool `json:"loading,omitempty"`
	Error    bool `json:"error,omitempty"`

	Texts

	OnChange ChangeFunc `json:"-"`
	LoadMore func()     `json:"-"`
}

func (p Props) controlled() bool {
	return p.Controlled || p.Value != nil
}

// effectiveValue is the value reconciliation matches against.
func (p Props) effectiveValue() any {
	if p.controlled() {
		return p.Value
	}
	return p.DefaultValue
}

func (p Props) loadOffset() int {
	if p.LoadOffset == nil {
		return DefaultLoadOffset
	}
	return *p.LoadOffset
}

func (p Props) loadAhead() int {
	if p.LoadAhead == nil {
		return DefaultLoadAhead
	}
	return *p.LoadAhead
}

// RuleContext carries inputs needed when evaluating an expression.
type RuleContext struct {
	Snapshot any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
	// Label names the rule being evaluated in errors and logs.
	Label string
}

// withDefaults fills Now and the maps so engines can bind them unchecked.
func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	return *ctx.withDefaults().Now
}

func (ctx RuleContext) label() string {
	if ctx.Label != "" {
		return ctx.Label
	}
	return "unknown"
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption tunes compilation. The built-in engines accept none today.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

// Setting configures collaborators of a Select.
type Setting func(*settings)

type settings struct {
	logger          Logger
	evaluatorLogger EvaluatorLogger
	clock           func() time.Time
	instanceID      string
	rules           RuleSet
	evaluator       Evaluator
	programCache    ProgramCache
	functions       *FunctionRegistry
	activityHooks   activity.Hooks
	activityConfig  *activity.Config
}

func applySettings(opts []Setting) settings {
	cfg := settings{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = noopLogger{}
	}
	if cfg.evaluatorLogger == nil {
		cfg.evaluatorLogger = noopEvaluatorLogger{}
	}
	if cfg.clock == nil {
		cfg.clock = time.Now
	}
	return cfg
}

// WithClock overrides the time source used for focus debouncing.
func WithClock(clock func() time.Time) Setting {
	return func(cfg *settings) {
		cfg.clock = clock
	}
}

// WithInstanceID sets the prefix used for synthetic option ids. Defaults to a
// random uuid per Select.
func WithInstanceID(id string) Setting {
	return func(cfg *settings) {
		cfg.instanceID = id
	}
}

// WithEvaluator configures the rule evaluator. Defaults to expr.
func WithEvaluator(e Evaluator) Setting {
	return func(cfg *settings) {
		cfg.evaluator = e
	}
}
