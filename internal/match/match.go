package match

import "strings"

// Query is a search term normalized once so it can be tested against many
// filenames.
type Query struct {
	term   string
	tokens []string
}

// Compile normalizes term into a Query.
func Compile(term string) *Query {
	normalized := Normalize(term)
	return &Query{
		term:   normalized,
		tokens: Tokens(normalized),
	}
}

// String returns the normalized term.
func (q *Query) String() string {
	return q.term
}

// Empty reports whether the term normalized to nothing. An empty Query
// matches every name.
func (q *Query) Empty() bool {
	return len(q.tokens) == 0
}

// Matches reports whether name satisfies the query.
//
// The whole normalized term is first tried as a substring of the whole
// normalized name. Failing that, every term token must be contained in,
// or contain, at least one name token.
func (q *Query) Matches(name string) bool {
	n := Normalize(name)
	if strings.Contains(n, q.term) {
		return true
	}

	// Normalize is idempotent, so tokenizing n gives the tokens of name.
	nameTokens := Tokens(n)
	for _, t := range q.tokens {
		if !overlapsAny(t, nameTokens) {
			return false
		}
	}
	return true
}

// Matches reports whether the filename name satisfies the search term.
// An empty term matches everything; callers must reject it first.
func Matches(term, name string) bool {
	return Compile(term).Matches(name)
}

func overlapsAny(token string, candidates []string) bool {
	for _, c := range candidates {
		if strings.Contains(c, token) || strings.Contains(token, c) {
			return true
		}
	}
	return false
}
