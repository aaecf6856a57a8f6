package usersink

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-select/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook forwards select activity to a go-users ActivitySink.
type Hook struct {
	Sink usertypes.ActivitySink
	// Verbs limits forwarding, see activity.VerbMatches. Empty forwards
	// everything.
	Verbs []string
	// Actor is recorded when the event has no parseable actor id.
	Actor uuid.UUID
}

// Notify maps event into an ActivityRecord and logs it.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	event = activity.NormalizeEvent(event)
	if !event.Complete() || !activity.VerbMatches(h.Verbs, event.Verb) {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	actor := parseUUID(event.ActorID)
	if actor == uuid.Nil {
		actor = h.Actor
	}
	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}
	return h.Sink.Log(ctx, usertypes.ActivityRecord{
		ActorID:    actor,
		UserID:     parseUUID(event.UserID),
		TenantID:   parseUUID(event.TenantID),
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		Data:       recordData(event.Metadata),
		OccurredAt: occurred,
	})
}

// recordData keeps metadata the sink can persist as JSON. Option values that
// do not encode, such as records holding funcs, are stored in their %v form.
func recordData(metadata map[string]any) map[string]any {
	if len(metadata) == 0 {
		return nil
	}
	data := make(map[string]any, len(metadata))
	for key, value := range metadata {
		if _, err := json.Marshal(value); err != nil {
			data[key] = fmt.Sprintf("%v", value)
			continue
		}
		data[key] = value
	}
	return data
}

func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}
