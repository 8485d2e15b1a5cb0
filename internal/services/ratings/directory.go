// Package ratings looks up federation members and their ratings.
package ratings

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/mcoot/chessclub/internal/model"
)

// MinQueryLength is the shortest query a directory will search for
const MinQueryLength = 2

// Directory searches a federation membership directory.
// Errors distinguish model.ErrMemberNotFound from model.ErrLookupUnavailable.
type Directory interface {
	// Search returns members matching a name or member ID, in directory order
	Search(ctx context.Context, query string) ([]model.CandidateProfile, error)

	// Lookup returns the member with the given ID
	Lookup(ctx context.Context, memberID string) (*model.CandidateProfile, error)
}

// NormalizeQuery trims the query and reports whether it is long enough to search
func NormalizeQuery(query string) (string, bool) {
	q := strings.TrimSpace(query)
	return q, utf8.RuneCountInString(q) >= MinQueryLength
}
