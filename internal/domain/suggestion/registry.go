package suggestion

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/armadillo-os/shell/internal/infrastructure/monitoring"
)

// Suggestion is one launcher entry: a story the user can spawn by name.
type Suggestion struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords"`
	Category    string   `json:"category,omitempty" yaml:"category"`
	Action      string   `json:"action" yaml:"action"`
}

// Registry manages launcher suggestions and relevance queries.
type Registry struct {
	suggestions sync.Map
	metrics     *monitoring.Metrics
}

// NewRegistry creates an empty suggestion registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// WithMetrics attaches a metrics collector.
func (r *Registry) WithMetrics(metrics *monitoring.Metrics) *Registry {
	r.metrics = metrics
	return r
}

// Register adds a suggestion. A missing ID gets a generated one.
func (r *Registry) Register(s Suggestion) (Suggestion, error) {
	if strings.TrimSpace(s.Title) == "" {
		return Suggestion{}, fmt.Errorf("suggestion title cannot be empty")
	}
	if s.Action == "" {
		s.Action = "spawn_story"
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	r.suggestions.Store(s.ID, s)
	return s, nil
}

// Unregister removes a suggestion.
func (r *Registry) Unregister(id string) {
	r.suggestions.Delete(id)
}

// Get retrieves a suggestion by ID.
func (r *Registry) Get(id string) (Suggestion, bool) {
	val, ok := r.suggestions.Load(id)
	if !ok {
		return Suggestion{}, false
	}
	return val.(Suggestion), true
}

// List returns all suggestions, optionally filtered by category,
// ordered by title then ID.
func (r *Registry) List(category *string) []Suggestion {
	var out []Suggestion
	r.suggestions.Range(func(_, value interface{}) bool {
		s := value.(Suggestion)
		if category == nil || s.Category == *category {
			out = append(out, s)
		}
		return true
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Query finds the suggestions most relevant to the typed text, scored
// by title and keyword matches, best first. An empty query lists
// everything up to limit.
func (r *Registry) Query(text string, limit int) []Suggestion {
	if r.metrics != nil {
		r.metrics.SuggestionQueries.Inc()
	}
	if limit <= 0 {
		limit = 10
	}

	query := strings.ToLower(strings.TrimSpace(text))
	if query == "" {
		all := r.List(nil)
		if len(all) > limit {
			all = all[:limit]
		}
		return all
	}

	type scored struct {
		suggestion Suggestion
		score      float64
	}

	var results []scored
	r.suggestions.Range(func(_, value interface{}) bool {
		s := value.(Suggestion)
		if score := relevance(query, s); score > 0 {
			results = append(results, scored{suggestion: s, score: score})
		}
		return true
	})

	// Sort by score descending, ties broken by id for stable output.
	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].suggestion.ID < results[j].suggestion.ID
	})

	out := make([]Suggestion, 0, limit)
	for i := 0; i < len(results) && i < limit; i++ {
		out = append(out, results[i].suggestion)
	}
	return out
}

// Count returns the number of registered suggestions.
func (r *Registry) Count() int {
	var n int
	r.suggestions.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

func relevance(query string, s Suggestion) float64 {
	score := 0.0
	title := strings.ToLower(s.Title)

	if title == query {
		score += 15.0
	} else if strings.Contains(title, query) || strings.Contains(query, title) {
		score += 10.0
	}

	if strings.HasPrefix(title, query) {
		score += 5.0
	}

	for _, kw := range s.Keywords {
		kwClean := strings.ReplaceAll(strings.ToLower(kw), "_", " ")
		if strings.Contains(kwClean, query) || strings.Contains(query, kwClean) {
			score += 3.0
		}
	}

	if s.Category != "" && strings.Contains(query, strings.ToLower(s.Category)) {
		score += 2.0
	}

	return score
}
