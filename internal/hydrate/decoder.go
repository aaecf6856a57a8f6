package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
)

// Context names where a payload came from so errors can point at it.
type Context struct {
	Source   string
	Instance string
}

func (c Context) label() string {
	if c.Source == "" {
		return "<unknown>"
	}
	return c.Source
}

// PreHook rewrites the payload before decoding. It receives a top-level copy,
// so adding, renaming or deleting keys never touches the caller's map.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook adjusts or validates the decoded value.
type PostHook[T any] func(Context, *T) error

// DecoderOption configures a Decoder.
type DecoderOption[T any] func(*Decoder[T])

type rawField[T any] struct {
	key string
	set func(*T, any)
}

// Decoder turns generic payloads (props read from JSON, YAML or a template
// context) into T. Fields go through encoding/json except raw fields, whose Go
// values are handed over untouched.
type Decoder[T any] struct {
	preHooks   []PreHook
	postHooks  []PostHook[T]
	raw        []rawField[T]
	useNumber  bool
	strictKeys bool
}

// WithPreHook runs hook before decoding, in registration order.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook runs hook after decoding, in registration order.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithRawField keeps key out of JSON decoding and passes its value to set
// when the key is present, even when the value is nil.
func WithRawField[T any](key string, set func(*T, any)) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.raw = append(d.raw, rawField[T]{key: key, set: set})
	}
}

// WithUseNumber decodes untyped numbers as json.Number.
func WithUseNumber[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.useNumber = true
	}
}

// WithDisallowUnknownFields rejects keys T does not declare.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.strictKeys = true
	}
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts payload into T.
func (d *Decoder[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	var zero T
	if payload == nil {
		return zero, fmt.Errorf("hydrate: payload is nil for source %q", ctx.label())
	}

	current := maps.Clone(payload)
	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: pre-hook for source %q failed: %w", ctx.label(), err)
		}
		if next != nil {
			current = next
		}
	}

	raw := make(map[string]any, len(d.raw))
	for _, field := range d.raw {
		if value, ok := current[field.key]; ok {
			raw[field.key] = value
			delete(current, field.key)
		}
	}

	var result T
	if err := d.decodeJSON(current, &result); err != nil {
		return zero, fmt.Errorf("hydrate: decode source %q: %w", ctx.label(), err)
	}
	for _, field := range d.raw {
		if value, ok := raw[field.key]; ok {
			field.set(&result, value)
		}
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook for source %q failed: %w", ctx.label(), err)
		}
	}
	return result, nil
}

func (d *Decoder[T]) decodeJSON(payload map[string]any, out *T) error {
	buffer, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	decoder := json.NewDecoder(bytes.NewReader(buffer))
	if d.useNumber {
		decoder.UseNumber()
	}
	if d.strictKeys {
		decoder.DisallowUnknownFields()
	}
	return decoder.Decode(out)
}
