package identity

import "github.com/dbsmedya/gomerge/internal/dataset"

// Match tells how two records were correlated.
type Match int

const (
	MatchNone Match = iota
	MatchPrimaryKey
	MatchClientKey
)

func (m Match) String() string {
	switch m {
	case MatchPrimaryKey:
		return "primary_key"
	case MatchClientKey:
		return "client_key"
	default:
		return "none"
	}
}

// Matcher finds the counterpart of a record: primary key first, then the
// correlation token when a token index is present.
type Matcher struct {
	Keys   *Index
	Tokens *TokenIndex
}

// Find returns the counterpart of r and how it was matched.
func (m Matcher) Find(r *dataset.Record) (*dataset.Record, Match) {
	if m.Keys != nil {
		if rec, _, ok := m.Keys.Find(r); ok {
			return rec, MatchPrimaryKey
		}
	}
	if rec, ok := m.Tokens.Get(r.ClientKey()); ok {
		return rec, MatchClientKey
	}
	return nil, MatchNone
}
