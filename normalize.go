package sel

import (
	"strconv"

	"github.com/goliatone/go-select/internal/hydrate"
	"github.com/goliatone/go-select/layering"
	"github.com/goliatone/go-select/pkg/registry"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// LoadMoreID is the id of the synthetic pagination entry.
const LoadMoreID = "load-more"

// NormalizeConfig controls a normalization pass.
type NormalizeConfig struct {
	// Prefix scopes synthetic ids of data options. Defaults to "sel".
	Prefix string
	// Texts are layered over DefaultTexts.
	Texts         Texts
	ChildrenFirst bool
	GroupsClosed  bool
	// Expanded reports the current state of a group. Nil uses the default
	// rule: open unless the group is disabled or GroupsClosed is set.
	Expanded func(GroupInfo) bool
	// LoadButton and HasMore together append the load-more entry;
	// LoadingMore marks it as loading.
	LoadButton  bool
	HasMore     bool
	LoadingMore bool
	// Order keeps positions stable between passes when set.
	Order *OrderCache
	// Transform runs on every data and live option before grouping. Returning
	// false drops the option.
	Transform func(Option) (Option, bool)
}

// Result is the outcome of a normalization pass.
type Result struct {
	Options []Option
	// Groups lists the groups in header order.
	Groups []GroupInfo
}

type groupMeta struct {
	info    GroupInfo
	members []Option
}

type normalizer struct {
	cfg    NormalizeConfig
	texts  Texts
	prefix string
	groups *orderedmap.OrderedMap[string, *groupMeta]
	flat   []Option
	// open holds the groups being collected, so a group nested in itself
	// becomes an invalid entry.
	open map[uintptr]bool
}

// Normalize converts source and live entries into one flat, ordered list of
// options. It never fails: malformed items become disabled sentinel entries.
func Normalize(source any, live []registry.Entry, cfg NormalizeConfig) Result {
	n := &normalizer{
		cfg:    cfg,
		texts:  layering.Merge(cfg.Texts, DefaultTexts()),
		prefix: cfg.Prefix,
		groups: orderedmap.New[string, *groupMeta](),
		open:   map[uintptr]bool{},
	}
	if n.prefix == "" {
		n.prefix = "sel"
	}

	if !isNil(source) {
		items, ok := hydrate.ToSequence(source)
		if !ok {
			items = []any{source}
		}
		n.collect(items, "", false, "0")
	}
	liveOptions := n.live(live)

	var combined []Option
	if cfg.ChildrenFirst {
		combined = append(liveOptions, n.flat...)
	} else {
		combined = append(n.flat, liveOptions...)
	}

	kept := combined[:0]
	for i, opt := range combined {
		opt.Index = i
		if cfg.Transform != nil && !opt.placeholder {
			var keep bool
			if opt, keep = cfg.Transform(opt); !keep {
				continue
			}
		}
		kept = append(kept, opt)
	}

	ordered := cfg.Order.Apply(kept)
	return n.assemble(ordered)
}

func (n *normalizer) collect(items []any, parentGroup string, parentDisabled bool, depth string) {
	for i, item := range items {
		path := depth + "-" + strconv.Itoa(i)
		shape, rec := Classify(item)
		switch shape {
		case ShapeGroup:
			ref, tracked := refID(item)
			if tracked && n.open[ref] {
				n.flat = append(n.flat, n.invalid(item, path, parentGroup, parentDisabled))
				continue
			}
			if tracked {
				n.open[ref] = true
			}
			n.collectGroup(rec, parentDisabled, path)
			if tracked {
				delete(n.open, ref)
			}
		case ShapeAnonymousMap:
			for j, key := range rec.Keys {
				n.flat = append(n.flat, n.leaf(rec.Values[key], path+"-"+strconv.Itoa(j), parentGroup, parentDisabled))
			}
		default:
			n.flat = append(n.flat, n.leaf(item, path, parentGroup, parentDisabled))
		}
	}
}

func (n *normalizer) collectGroup(rec hydrate.Record, parentDisabled bool, path string) {
	name, ok := recordLabel(rec, true)
	if !ok {
		name = n.texts.EmptyGroup
	}
	disabled := truthy(rec.Values["disabled"])
	n.meta(name, disabled)

	children, _ := rec.Get("options")
	items, isSeq := hydrate.ToSequence(children)
	if !isSeq && !isNil(children) {
		items = []any{children}
	}
	if len(items) == 0 {
		n.flat = append(n.flat, Option{
			ID:          "empty-" + name + "-" + path,
			Name:        name,
			Group:       name,
			Type:        TypeGroup,
			Source:      SourceData,
			Disabled:    true,
			placeholder: true,
		})
		return
	}
	n.collect(items, name, parentDisabled || disabled, path)
}

func (n *normalizer) leaf(value any, path, group string, groupDisabled bool) Option {
	opt := Option{
		ID:            n.prefix + "-n-" + path,
		Type:          TypeNormal,
		Source:        SourceData,
		Group:         group,
		GroupDisabled: groupDisabled,
		Disabled:      groupDisabled,
	}

	shape, rec := Classify(value)
	switch shape {
	case ShapeEmpty:
		opt.Name = n.texts.EmptyOption
		opt.Disabled = true
	case ShapeInvalid:
		return n.invalid(value, path, group, groupDisabled)
	case ShapePrimitive:
		opt.UserID = value
		opt.Name = stringify(value)
		opt.Raw = value
		opt.Original = value
		if opt.Name == "" {
			opt.Name = n.texts.EmptyOption
			opt.Disabled = true
		}
	default:
		if opt.Group == "" {
			if own, ok := rec.Get("group"); ok && truthy(own) {
				opt.Group = stringify(own)
			}
		}
		explicit, _ := rec.Values["disabled"].(bool)
		opt.Disabled = groupDisabled || explicit
		opt.Original = value
		opt.UserID = recordUserID(rec)
		switch {
		case rec.Has("value"):
			opt.Raw = rec.Values["value"]
		case rec.Has("id"):
			opt.Raw = rec.Values["id"]
		default:
			opt.Raw = value
		}
		label, ok := recordLabel(rec, false)
		switch {
		case ok:
			opt.Name = label
		case opt.Disabled:
			opt.Name = n.texts.DisabledOption
			opt.Raw = nil
		default:
			opt.Name = n.texts.EmptyOption
			opt.Disabled = true
			opt.Raw = nil
		}
	}
	if _, ok := opt.Raw.(bool); ok {
		opt.Type = TypeBoolean
	}
	return opt
}

func (n *normalizer) invalid(value any, path, group string, groupDisabled bool) Option {
	return Option{
		ID:            n.prefix + "-n-" + path,
		Name:          n.texts.InvalidOption,
		Type:          TypeNormal,
		Source:        SourceData,
		Group:         group,
		GroupDisabled: groupDisabled,
		Disabled:      true,
		Invalid:       true,
		Original:      value,
	}
}

func (n *normalizer) live(entries []registry.Entry) []Option {
	out := make([]Option, 0, len(entries))
	for _, entry := range entries {
		if entry.GroupMarker {
			out = append(out, Option{
				ID:          entry.ID,
				Name:        entry.Group,
				Group:       entry.Group,
				Type:        TypeGroup,
				Source:      SourceLive,
				Disabled:    true,
				placeholder: true,
			})
			continue
		}
		opt := Option{
			ID:         "live-" + entry.ID,
			UserID:     entry.ID,
			Raw:        entry.Value,
			Original:   entry.Value,
			Type:       TypeNormal,
			Source:     SourceLive,
			Disabled:   entry.Disabled,
			Group:      entry.Group,
			HasContent: entry.HasContent,
			ClassName:  entry.ClassName,
		}
		if isNil(entry.Value) && entry.Label != "" {
			opt.Raw = entry.Label
			opt.Original = entry.Label
		}
		switch {
		case entry.Label != "":
			opt.Name = entry.Label
		case !blank(entry.Value):
			opt.Name = stringify(entry.Value)
		case entry.HasContent:
			opt.Name = entry.ID
		default:
			opt.Name = n.texts.EmptyOption
			opt.Disabled = true
		}
		if _, ok := opt.Raw.(bool); ok {
			opt.Type = TypeBoolean
		}
		out = append(out, opt)
	}
	return out
}

func (n *normalizer) meta(name string, disabled bool) *groupMeta {
	if meta, ok := n.groups.Get(name); ok {
		return meta
	}
	meta := &groupMeta{info: GroupInfo{
		Name:            name,
		Disabled:        disabled,
		ClosedByDefault: disabled || n.cfg.GroupsClosed,
	}}
	n.groups.Set(name, meta)
	return meta
}

func (n *normalizer) expanded(info GroupInfo) bool {
	if n.cfg.Expanded != nil {
		return n.cfg.Expanded(info)
	}
	return !info.ClosedByDefault
}

// assemble pulls grouped options out of linear position, emitting each group
// as a header followed by its members at the position of its first member.
func (n *normalizer) assemble(ordered []Option) Result {
	type slot struct {
		group string
		opt   Option
	}
	structure := make([]slot, 0, len(ordered))
	seen := make(map[string]struct{})
	for _, opt := range ordered {
		if opt.Group == "" {
			structure = append(structure, slot{opt: opt})
			continue
		}
		meta := n.meta(opt.Group, false)
		if _, ok := seen[opt.Group]; !ok {
			seen[opt.Group] = struct{}{}
			structure = append(structure, slot{group: opt.Group})
		}
		if !opt.placeholder {
			meta.members = append(meta.members, opt)
		}
	}

	result := Result{Options: make([]Option, 0, len(ordered)+len(seen)+1)}
	for _, entry := range structure {
		if entry.group == "" {
			result.Options = append(result.Options, entry.opt)
			continue
		}
		meta, _ := n.groups.Get(entry.group)
		expanded := n.expanded(meta.info)
		result.Groups = append(result.Groups, meta.info)
		result.Options = append(result.Options, Option{
			ID:          "group-header-" + meta.info.Name,
			Name:        meta.info.Name,
			Type:        TypeGroup,
			Index:       -1,
			Disabled:    meta.info.Disabled,
			GroupHeader: true,
			Expanded:    expanded,
		})
		for _, member := range meta.members {
			member.Hidden = !expanded
			if meta.info.Disabled {
				member.Disabled = true
				member.GroupDisabled = true
			}
			result.Options = append(result.Options, member)
		}
	}

	if n.cfg.HasMore && n.cfg.LoadButton {
		result.Options = append(result.Options, loadMoreOption(n.texts, n.cfg.LoadingMore))
	}
	return result
}

func loadMoreOption(texts Texts, loading bool) Option {
	name := texts.LoadButtonText
	if loading {
		name = texts.LoadMoreText
	}
	return Option{
		ID:       LoadMoreID,
		Name:     name,
		Type:     TypeSpecial,
		Index:    -1,
		LoadMore: true,
		Loading:  loading,
	}
}
