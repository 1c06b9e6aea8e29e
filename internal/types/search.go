package types

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const (
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortQuickest = "quickest"

	DifficultyAll = "all"

	// SearchCandidateLimit caps the rows fetched before category filtering.
	SearchCandidateLimit = 50
)

// SearchParams is the browse filter state. It round-trips through URL query
// parameters so a shared link reproduces the same search.
type SearchParams struct {
	Query       string      `json:"q"`
	Difficulty  string      `json:"difficulty"`
	CategoryIDs []uuid.UUID `json:"categories"`
	SortBy      string      `json:"sort"`
}

// ParseSearchParams reads q, difficulty, sort and categories (comma separated).
// Malformed category ids are dropped.
func ParseSearchParams(v url.Values) SearchParams {
	p := SearchParams{
		Query:      v.Get("q"),
		Difficulty: v.Get("difficulty"),
		SortBy:     v.Get("sort"),
	}
	for _, raw := range strings.Split(v.Get("categories"), ",") {
		if id, err := uuid.Parse(strings.TrimSpace(raw)); err == nil {
			p.CategoryIDs = append(p.CategoryIDs, id)
		}
	}
	return p.Normalize()
}

// Normalize trims the query, applies defaults and removes duplicate categories.
func (p SearchParams) Normalize() SearchParams {
	out := SearchParams{
		Query:      strings.TrimSpace(p.Query),
		Difficulty: strings.ToLower(strings.TrimSpace(p.Difficulty)),
		SortBy:     strings.ToLower(strings.TrimSpace(p.SortBy)),
	}
	if out.Difficulty == "" {
		out.Difficulty = DifficultyAll
	}
	switch out.SortBy {
	case SortOldest, SortQuickest:
	default:
		out.SortBy = SortNewest
	}
	seen := make(map[uuid.UUID]struct{}, len(p.CategoryIDs))
	for _, id := range p.CategoryIDs {
		if _, dup := seen[id]; dup || id == uuid.Nil {
			continue
		}
		seen[id] = struct{}{}
		out.CategoryIDs = append(out.CategoryIDs, id)
	}
	return out
}

// Values encodes the non-default parts of the filter state.
func (p SearchParams) Values() url.Values {
	p = p.Normalize()
	v := url.Values{}
	if p.Query != "" {
		v.Set("q", p.Query)
	}
	if p.Difficulty != DifficultyAll {
		v.Set("difficulty", p.Difficulty)
	}
	if p.SortBy != SortNewest {
		v.Set("sort", p.SortBy)
	}
	if len(p.CategoryIDs) > 0 {
		ids := make([]string, len(p.CategoryIDs))
		for i, id := range p.CategoryIDs {
			ids[i] = id.String()
		}
		v.Set("categories", strings.Join(ids, ","))
	}
	return v
}

// Encode renders the canonical query string.
func (p SearchParams) Encode() string {
	return p.Values().Encode()
}

// MatchesCategories reports whether any of the given category ids is selected.
// An empty selection matches everything.
func (p SearchParams) MatchesCategories(ids []uuid.UUID) bool {
	if len(p.CategoryIDs) == 0 {
		return true
	}
	for _, want := range p.CategoryIDs {
		for _, have := range ids {
			if want == have {
				return true
			}
		}
	}
	return false
}
