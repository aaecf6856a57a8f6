package usersink_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-select/pkg/activity"
	"github.com/goliatone/go-select/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsSelectionEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()
	userID := uuid.New()
	tenantID := uuid.New()

	event := activity.BuildSelectionChangedEvent(activity.SelectEventInput{
		ActorID:    actorID.String(),
		UserID:     userID.String(),
		TenantID:   tenantID.String(),
		InstanceID: "country",
		OptionID:   "country-n-0-1",
		Channel:    activity.DefaultChannel,
		Value:      "fr",
		OccurredAt: now,
	})

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID || record.UserID != userID || record.TenantID != tenantID {
		t.Fatalf("unexpected identities: %+v", record)
	}
	if record.Verb != activity.VerbChanged || record.ObjectType != activity.ObjectTypeOption || record.ObjectID != "country-n-0-1" {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.Channel != activity.DefaultChannel {
		t.Fatalf("expected channel %q got %q", activity.DefaultChannel, record.Channel)
	}
	if record.OccurredAt != now {
		t.Fatalf("expected occurred_at %v got %v", now, record.OccurredAt)
	}
	if record.Data["value"] != "fr" || record.Data["instance_id"] != "country" {
		t.Fatalf("expected metadata passthrough got %v", record.Data)
	}
}

func TestHookNotifyStringifiesUnencodableValues(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	type record struct {
		Name   string
		Format func() string
	}
	event := activity.BuildSelectionChangedEvent(activity.SelectEventInput{
		OptionID: "s1-n-0-0",
		Value:    record{Name: "fr"},
		Previous: map[string]any{"name": "de"},
	})
	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}

	data := sink.records[0].Data
	if _, ok := data["value"].(string); !ok {
		t.Fatalf("expected unencodable value stored as text, got %#v", data["value"])
	}
	if previous, ok := data["previous"].(map[string]any); !ok || previous["name"] != "de" {
		t.Fatalf("expected encodable value kept, got %#v", data["previous"])
	}
}

func TestHookNotifyMatchesVerbPrefix(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink, Verbs: []string{"select.*"}}

	_ = hook.Notify(context.Background(), activity.BuildLoadMoreEvent(activity.SelectEventInput{InstanceID: "s1"}))
	_ = hook.Notify(context.Background(), activity.Event{Verb: "users.created", ObjectType: "user", ObjectID: "u1"})

	if len(sink.records) != 1 || sink.records[0].Verb != activity.VerbLoadMore {
		t.Fatalf("expected only select verbs forwarded, got %+v", sink.records)
	}
}

func TestHookNotifySkipsMissingVerb(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	_ = hook.Notify(context.Background(), activity.Event{})

	if len(sink.records) != 0 {
		t.Fatalf("expected no records for empty event, got %d", len(sink.records))
	}
}

func TestHookNotifyFiltersVerbs(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink, Verbs: []string{activity.VerbChanged}}

	_ = hook.Notify(context.Background(), activity.BuildLoadMoreEvent(activity.SelectEventInput{InstanceID: "s1"}))
	_ = hook.Notify(context.Background(), activity.BuildSelectionChangedEvent(activity.SelectEventInput{OptionID: "s1-n-0-0"}))

	if len(sink.records) != 1 || sink.records[0].Verb != activity.VerbChanged {
		t.Fatalf("expected only the changed event, got %+v", sink.records)
	}
}

func TestHookNotifyDefaultsActorAndTimestamp(t *testing.T) {
	sink := &recordingSink{}
	actor := uuid.New()
	hook := usersink.Hook{Sink: sink, Actor: actor}

	err := hook.Notify(context.Background(), activity.Event{
		Verb:       activity.VerbCleared,
		ActorID:    "not-a-uuid",
		ObjectType: activity.ObjectTypeSelect,
		ObjectID:   "s1",
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	if sink.records[0].ActorID != actor {
		t.Fatalf("expected fallback actor %s, got %s", actor, sink.records[0].ActorID)
	}
	if sink.records[0].OccurredAt.IsZero() {
		t.Fatalf("expected occurred_at to be defaulted")
	}
}
