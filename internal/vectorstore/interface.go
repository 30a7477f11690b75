package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks chatgenius-context/internal/vectorstore VectorStore

import "context"

// Match is an equality condition on a single metadata field.
type Match struct {
	Field string
	Value any
}

// Filter is a visibility predicate in disjunctive normal form: a point is
// admitted when at least one group in AnyOf matches, and a group matches when
// every one of its conditions holds. A nil Filter admits everything; a Filter
// with an empty AnyOf admits nothing.
type Filter struct {
	AnyOf [][]Match
}

// Matches reports whether the given metadata satisfies the filter.
func (f *Filter) Matches(meta map[string]any) bool {
	if f == nil {
		return true
	}
	for _, group := range f.AnyOf {
		if groupMatches(group, meta) {
			return true
		}
	}
	return false
}

func groupMatches(group []Match, meta map[string]any) bool {
	for _, m := range group {
		v, ok := meta[m.Field]
		if !ok || !valueEqual(v, m.Value) {
			return false
		}
	}
	return true
}

// valueEqual compares a metadata value against a condition value, tolerating
// the int widths that payload decoding produces.
func valueEqual(a, b any) bool {
	if ai, ok := toInt64(a); ok {
		if bi, ok := toInt64(b); ok {
			return ai == bi
		}
		return false
	}
	return a == b
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

// SearchResult represents a single point returned from the vector index.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// VectorStore defines the interface for vector index operations.
type VectorStore interface {
	// Search performs a similarity search over a collection, returning the
	// top k points admitted by the filter, ordered by descending score.
	Search(ctx context.Context, collection string, query []float32, k int, filter *Filter) ([]SearchResult, error)

	// FetchByFilter retrieves up to limit points matching the filter without
	// a similarity query. Returned scores are zero.
	FetchByFilter(ctx context.Context, collection string, filter *Filter, limit int) ([]SearchResult, error)

	// CollectionExists checks if a collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)
}
