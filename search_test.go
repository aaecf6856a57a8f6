package sel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryScore(t *testing.T) {
	candidates := []string{"apple", "banana", "apricot", "Apple pie"}

	tests := []struct {
		query string
		want  []string
	}{
		{query: "", want: candidates},
		{query: "ap", want: []string{"apple", "apricot", "Apple pie"}},
		{query: "'ple", want: []string{"apple", "Apple pie"}},
		{query: "^ap", want: []string{"apple", "apricot", "Apple pie"}},
		{query: "ot$", want: []string{"apricot"}},
		{query: "!an", want: []string{"apple", "apricot", "Apple pie"}},
		{query: "a p", want: []string{"apple", "apricot", "Apple pie"}},
		{query: "pie | ban", want: []string{"banana", "Apple pie"}},
		{query: "Ap", want: []string{"Apple pie"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q := ParseQuery(tt.query)
			var got []string
			for _, candidate := range candidates {
				if _, ok := q.Score(candidate); ok {
					got = append(got, candidate)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryScorePrefersTighterMatches(t *testing.T) {
	q := ParseQuery("app")
	tight, ok := q.Score("apple")
	require.True(t, ok)
	loose, ok := q.Score("a pretty peach")
	require.True(t, ok)
	assert.Greater(t, tight, loose)
}

func TestParseQuery(t *testing.T) {
	q := ParseQuery("  foo   bar | baz ")
	assert.Equal(t, "foo   bar | baz", q.String())
	assert.False(t, q.Empty())
	require.Len(t, q.groups, 2)
	assert.Len(t, q.groups[0].terms, 2)

	assert.True(t, ParseQuery("   ").Empty())

	single := parseTerm("!")
	assert.False(t, single.negated, "a lone bang is a literal term")
}

func TestFilterKeepsStructure(t *testing.T) {
	source := []any{
		map[string]any{"group": "Fruits", "options": []any{"apple", "banana"}},
		"carrot",
	}
	list := Normalize(source, nil, NormalizeConfig{HasMore: true, LoadButton: true}).Options

	assert.Equal(t, []string{"carrot", "Load more"}, names(Filter(list, ParseQuery("car"))))
	assert.Equal(t, []string{"Fruits", "banana", "Load more"}, names(Filter(list, ParseQuery("ban"))))
	assert.Equal(t, names(list), names(Filter(list, ParseQuery(""))))
	assert.Equal(t, []string{"Load more"}, names(Filter(list, ParseQuery("Fruits"))))
}
