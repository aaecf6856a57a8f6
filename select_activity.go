package sel

import (
	"context"

	"github.com/goliatone/go-select/pkg/activity"
)

// WithActivityHooks attaches activity hooks. Nil hooks are dropped.
// Emission is enabled unless WithActivityConfig disables it.
func WithActivityHooks(hooks activity.Hooks) Setting {
	compacted := activity.Compact(hooks)
	return func(cfg *settings) {
		cfg.activityHooks = compacted
	}
}

// WithActivityConfig overrides the activity emitter configuration.
func WithActivityConfig(config activity.Config) Setting {
	return func(cfg *settings) {
		c := config
		cfg.activityConfig = &c
	}
}

// ActivityHooks returns a copy of the configured hooks.
func (s *Select) ActivityHooks() activity.Hooks {
	if s == nil {
		return nil
	}
	return activity.Compact(s.cfg.activityHooks)
}

func newEmitter(cfg settings) *activity.Emitter {
	config := activity.Config{Enabled: true, Channel: activity.DefaultChannel}
	if cfg.activityConfig != nil {
		config = *cfg.activityConfig
	}
	return activity.NewEmitter(cfg.activityHooks, config)
}

// emit returns a deferred emission so hooks run outside the select lock.
func (s *Select) emit(event activity.Event) func() {
	if !s.emitter.Enabled() {
		return nil
	}
	emitter, logger := s.emitter, s.cfg.logger
	return func() {
		if err := emitter.Emit(context.Background(), event); err != nil {
			logger.Log(LogEvent{
				Kind:    LogActivity,
				Message: "activity hook failed",
				Err:     err,
				Fields:  map[string]any{"verb": event.Verb, "object_id": event.ObjectID},
			})
		}
	}
}

func (s *Select) eventInput() activity.SelectEventInput {
	return activity.SelectEventInput{
		InstanceID: s.prefix,
		Multiple:   s.props.Multiple,
		OccurredAt: s.cfg.clock(),
	}
}
