package sel

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// Query syntax:
//
//	"foo"    fuzzy subsequence match
//	"'foo"   exact substring match
//	"^foo"   prefix match
//	"foo$"   suffix match
//	"!foo"   negated match, combinable with the forms above
//	"a b"    AND, all space separated terms must match
//	"a | b"  OR, at least one pipe separated group must match
//
// Terms are case-insensitive unless they contain an upper case letter.

func init() {
	algo.Init("default")
}

// slabs hands out fzf scratch space; a slab must not be shared between
// concurrent matches.
var slabs = sync.Pool{
	New: func() any { return util.MakeSlab(100*1024, 2048) },
}

// Query is a parsed search query. Parse once, match many.
type Query struct {
	raw    string
	groups []queryGroup
}

type queryGroup struct {
	terms []queryTerm
}

type termKind int

const (
	termFuzzy termKind = iota
	termExact
	termPrefix
	termSuffix
)

type queryTerm struct {
	runes         []rune
	kind          termKind
	negated       bool
	caseSensitive bool
}

// ParseQuery parses raw into a reusable Query.
func ParseQuery(raw string) Query {
	q := Query{raw: strings.TrimSpace(raw)}
	if q.raw == "" {
		return q
	}
	for _, part := range strings.Split(q.raw, " | ") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		g := queryGroup{terms: make([]queryTerm, 0, len(fields))}
		for _, field := range fields {
			g.terms = append(g.terms, parseTerm(field))
		}
		q.groups = append(q.groups, g)
	}
	return q
}

// String returns the trimmed query text.
func (q Query) String() string {
	return q.raw
}

// Empty reports whether the query has no terms.
func (q Query) Empty() bool {
	return len(q.groups) == 0
}

func parseTerm(tok string) queryTerm {
	t := queryTerm{kind: termFuzzy}

	if len(tok) > 1 && tok[0] == '!' {
		t.negated = true
		tok = tok[1:]
	}

	switch {
	case len(tok) > 1 && tok[0] == '\'':
		t.kind = termExact
		tok = tok[1:]
	case len(tok) > 1 && tok[0] == '^':
		t.kind = termPrefix
		tok = tok[1:]
	case len(tok) > 1 && tok[len(tok)-1] == '$':
		t.kind = termSuffix
		tok = tok[:len(tok)-1]
	}

	t.caseSensitive = hasUppercase(tok)
	if !t.caseSensitive {
		tok = strings.ToLower(tok)
	}
	t.runes = []rune(tok)
	return t
}

func hasUppercase(s string) bool {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsUpper(r) {
			return true
		}
		i += size
	}
	return false
}

// Score matches candidate against the query. Higher scores are better.
func (q Query) Score(candidate string) (int, bool) {
	if len(q.groups) == 0 {
		return 0, true
	}
	slab := slabs.Get().(*util.Slab)
	defer slabs.Put(slab)

	chars := util.ToChars([]byte(candidate))
	best, matched := -1, false
	for _, g := range q.groups {
		score, ok := g.score(&chars, slab)
		if ok && score > best {
			best, matched = score, true
		}
	}
	return best, matched
}

func (g queryGroup) score(chars *util.Chars, slab *util.Slab) (int, bool) {
	total := 0
	for _, t := range g.terms {
		score, ok := t.score(chars, slab)
		if !ok {
			return 0, false
		}
		total += score
	}
	return total, true
}

func (t queryTerm) score(chars *util.Chars, slab *util.Slab) (int, bool) {
	var match func(bool, bool, bool, *util.Chars, []rune, bool, *util.Slab) (algo.Result, *[]int)
	switch t.kind {
	case termExact:
		match = algo.ExactMatchNaive
	case termPrefix:
		match = algo.PrefixMatch
	case termSuffix:
		match = algo.SuffixMatch
	default:
		match = algo.FuzzyMatchV2
	}

	result, _ := match(t.caseSensitive, true, true, chars, t.runes, false, slab)
	matched := result.Start >= 0
	if t.negated {
		return 0, !matched
	}
	if !matched {
		return 0, false
	}
	return result.Score, true
}

// Filter keeps the entries of list whose name matches q, in list order. A
// group header is kept only when one of its members matched; the load-more
// entry is always kept.
func Filter(list []Option, q Query) []Option {
	if q.Empty() {
		return list
	}
	matchedGroups := make(map[string]bool)
	keep := make([]bool, len(list))
	for i, opt := range list {
		switch {
		case opt.LoadMore:
			keep[i] = true
		case opt.GroupHeader:
		default:
			if _, ok := q.Score(opt.Name); ok {
				keep[i] = true
				if opt.Group != "" {
					matchedGroups[opt.Group] = true
				}
			}
		}
	}
	out := make([]Option, 0, len(list))
	for i, opt := range list {
		if keep[i] || (opt.GroupHeader && matchedGroups[opt.Name]) {
			out = append(out, opt)
		}
	}
	return out
}
