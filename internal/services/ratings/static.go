package ratings

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/mcoot/chessclub/internal/model"
)

// StaticDirectory is an in-memory member directory, used for local development
// and tests when the federation API is not reachable
type StaticDirectory struct {
	mu      sync.RWMutex
	members []model.CandidateProfile
	byID    map[string]int
	loaded  bool
}

// Ensure StaticDirectory implements Directory
var _ Directory = (*StaticDirectory)(nil)

// NewStaticDirectory creates an empty directory
func NewStaticDirectory() *StaticDirectory {
	return &StaticDirectory{byID: make(map[string]int)}
}

// LoadFromFile loads members from a JSON file in the federation API's format
// (a bare array or an {"items": [...]} envelope)
func (d *StaticDirectory) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	members, err := decodeMemberList(data)
	if err != nil {
		return err
	}
	return d.LoadMembers(members)
}

// LoadMembers replaces the directory contents
func (d *StaticDirectory) LoadMembers(members []model.CandidateProfile) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.members = cloneProfiles(members)
	d.byID = make(map[string]int, len(members))
	for i, m := range d.members {
		d.byID[m.ID] = i
	}
	d.loaded = true
	return nil
}

// IsLoaded returns whether members have been loaded
func (d *StaticDirectory) IsLoaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

// MemberCount returns the number of members in the directory
func (d *StaticDirectory) MemberCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.members)
}

// Search matches members whose ID starts with the query, or whose name
// contains every word of the query (case-insensitive)
func (d *StaticDirectory) Search(ctx context.Context, query string) ([]model.CandidateProfile, error) {
	q, ok := NormalizeQuery(query)
	if !ok {
		return nil, model.ErrQueryTooShort
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.loaded {
		return nil, model.ErrDirectoryNotLoaded
	}

	words := strings.Fields(strings.ToLower(q))
	results := []model.CandidateProfile{}
	for _, m := range d.members {
		if strings.HasPrefix(m.ID, q) || matchesName(&m, words) {
			results = append(results, m)
		}
	}
	return results, nil
}

// Lookup returns the member with the given ID
func (d *StaticDirectory) Lookup(ctx context.Context, memberID string) (*model.CandidateProfile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.loaded {
		return nil, model.ErrDirectoryNotLoaded
	}

	idx, ok := d.byID[strings.TrimSpace(memberID)]
	if !ok {
		return nil, model.ErrMemberNotFound
	}
	m := d.members[idx]
	return &m, nil
}

func matchesName(m *model.CandidateProfile, words []string) bool {
	name := strings.ToLower(m.FullName())
	for _, w := range words {
		if !strings.Contains(name, w) {
			return false
		}
	}
	return true
}
