package sel

import (
	"strings"
	"unicode"

	"github.com/goliatone/go-select/internal/hydrate"
)

// Option data and values are raw fields so records keep their Go types and
// identity for matching.
var propsDecoder = hydrate.NewDecoder(
	hydrate.WithPreHook[Props](snakeCaseKeys),
	hydrate.WithPreHook[Props](markControlled),
	hydrate.WithRawField("options", func(p *Props, v any) { p.Options = v }),
	hydrate.WithRawField("value", func(p *Props, v any) { p.Value = v }),
	hydrate.WithRawField("default_value", func(p *Props, v any) { p.DefaultValue = v }),
	hydrate.WithPostHook[Props](trimTexts),
)

// DecodeProps builds Props from a generic payload such as decoded JSON or a
// template context. Keys may be snake_case or camelCase. A present "value"
// key, even null, makes the select controlled. Callbacks are not decodable.
func DecodeProps(payload map[string]any) (Props, error) {
	return propsDecoder.Decode(hydrate.Context{Source: "props"}, payload)
}

func snakeCaseKeys(_ hydrate.Context, payload map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(payload))
	for key, value := range payload {
		out[snakeCase(key)] = value
	}
	return out, nil
}

func markControlled(_ hydrate.Context, payload map[string]any) (map[string]any, error) {
	if _, ok := payload["value"]; ok {
		payload["controlled"] = true
	}
	return payload, nil
}

func trimTexts(_ hydrate.Context, props *Props) error {
	texts := []*string{
		&props.Placeholder, &props.EmptyText, &props.DisabledText, &props.LoadingText,
		&props.ErrorText, &props.DisabledOption, &props.EmptyOption, &props.InvalidOption,
		&props.EmptyGroup, &props.LoadButtonText, &props.LoadMoreText,
	}
	for _, text := range texts {
		*text = strings.TrimSpace(*text)
	}
	return nil
}

func snakeCase(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
