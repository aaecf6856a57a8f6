package activity

import (
	"strings"
	"time"
)

// Verbs emitted by a select.
const (
	VerbChanged      = "select.changed"
	VerbCleared      = "select.cleared"
	VerbLoadMore     = "select.load_more"
	VerbGroupToggled = "select.group_toggled"
)

// Object types the verbs act on.
const (
	ObjectTypeSelect = "select"
	ObjectTypeOption = "select.option"
	ObjectTypeGroup  = "select.group"
)

// Load-more triggers.
const (
	TriggerButton   = "button"
	TriggerScroll   = "scroll"
	TriggerKeyboard = "keyboard"
)

// SelectEventInput is what a select knows when it emits.
type SelectEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	InstanceID string
	OptionID   string
	Group      string
	Channel    string
	Metadata   map[string]any
	Value      any
	Previous   any
	Multiple   bool
	Expanded   bool
	// Trigger and Loaded describe a load-more request.
	Trigger    string
	Loaded     int
	OccurredAt time.Time
}

// BuildSelectionChangedEvent reports a committed selection of OptionID.
func BuildSelectionChangedEvent(input SelectEventInput) Event {
	event := newSelectEvent(VerbChanged, ObjectTypeOption, input.OptionID, input)
	setIf(event.Metadata, "value", input.Value, input.Value != nil)
	setIf(event.Metadata, "previous", input.Previous, input.Previous != nil)
	return event
}

// BuildSelectionClearedEvent reports a cleared selection on the instance.
func BuildSelectionClearedEvent(input SelectEventInput) Event {
	event := newSelectEvent(VerbCleared, ObjectTypeSelect, input.InstanceID, input)
	setIf(event.Metadata, "previous", input.Previous, input.Previous != nil)
	return event
}

// BuildLoadMoreEvent reports a page request forwarded to the caller.
func BuildLoadMoreEvent(input SelectEventInput) Event {
	event := newSelectEvent(VerbLoadMore, ObjectTypeSelect, input.InstanceID, input)
	setIf(event.Metadata, "trigger", input.Trigger, input.Trigger != "")
	setIf(event.Metadata, "loaded", input.Loaded, input.Loaded > 0)
	return event
}

// BuildGroupToggledEvent reports a group expanding or collapsing.
func BuildGroupToggledEvent(input SelectEventInput) Event {
	event := newSelectEvent(VerbGroupToggled, ObjectTypeGroup, input.Group, input)
	event.Metadata["expanded"] = input.Expanded
	return event
}

// newSelectEvent builds the shared part of every select event. The object id
// falls back to the instance id, then to the object type. Metadata is always
// non-nil.
func newSelectEvent(verb, objectType, objectID string, input SelectEventInput) Event {
	metadata := make(map[string]any, len(input.Metadata)+3)
	for key, value := range input.Metadata {
		metadata[key] = value
	}
	setIf(metadata, "instance_id", input.InstanceID, input.InstanceID != "")
	setIf(metadata, "group", input.Group, input.Group != "")
	setIf(metadata, "multiple", true, input.Multiple)

	objectID = strings.TrimSpace(objectID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.InstanceID)
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func setIf(metadata map[string]any, key string, value any, ok bool) {
	if ok {
		metadata[key] = value
	}
}
