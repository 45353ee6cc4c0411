// Package admin exposes the administrative surface: per-entity change
// lists driven by explicit capability configs, the bulk top-rated
// action, and the review-edit policy. Capabilities are plain structs
// registered into a lookup table at process start rather than ambient
// global state.
package admin

import "slices"

// EntityConfig describes what the admin list surface allows for one
// entity: the selected columns, the searchable columns, the equality
// filters, and the permitted orderings.
type EntityConfig struct {
	Name          string            // URL segment, e.g. "books"
	Table         string            // backing table
	ListColumns   []string          // select list; may contain expressions
	SearchColumns []string          // ILIKE targets for ?search=
	Filters       map[string]string // query param -> column for equality filters
	Orderings     []string          // orderable fields
	DefaultOrder  string            // "-field" for descending
	YearFilterCol string            // date column for published_year buckets; empty disables
}

// AllowsOrdering reports whether field (without direction prefix) may
// be used to order the change list.
func (c EntityConfig) AllowsOrdering(field string) bool {
	return slices.Contains(c.Orderings, field)
}

// Registry is the entity lookup table consulted by the admin handlers.
type Registry struct {
	entities map[string]EntityConfig
}

// NewRegistry builds the admin capability table for the three catalog
// entities. Mirrors are intentional: searching and filtering here match
// what the public API offers, plus the publication-year buckets.
func NewRegistry() *Registry {
	r := &Registry{entities: make(map[string]EntityConfig)}

	r.register(EntityConfig{
		Name:  "authors",
		Table: "authors",
		ListColumns: []string{
			"id", "name", "bio", "birth_date",
			"(SELECT COUNT(*) FROM books b WHERE b.author_id = authors.id) AS book_count",
		},
		SearchColumns: []string{"name", "bio"},
		Filters:       map[string]string{},
		Orderings:     []string{"name", "birth_date"},
		DefaultOrder:  "name",
	})

	r.register(EntityConfig{
		Name:  "books",
		Table: "books",
		ListColumns: []string{
			"id", "title", "author_id", "isbn", "published_date", "category", "rating",
			"(SELECT COUNT(*) FROM reviews rv WHERE rv.book_id = books.id) AS review_count",
		},
		SearchColumns: []string{"title", "isbn"},
		Filters: map[string]string{
			"category": "category",
			"author":   "author_id",
		},
		Orderings:     []string{"title", "published_date", "rating", "category"},
		DefaultOrder:  "-published_date",
		YearFilterCol: "published_date",
	})

	r.register(EntityConfig{
		Name:        "reviews",
		Table:       "reviews",
		ListColumns: []string{"id", "book_id", "reviewer_name", "rating", "comment", "created_at"},
		SearchColumns: []string{
			"reviewer_name", "comment",
		},
		Filters: map[string]string{
			"book":   "book_id",
			"rating": "rating",
		},
		Orderings:    []string{"created_at", "rating"},
		DefaultOrder: "-created_at",
	})

	return r
}

func (r *Registry) register(c EntityConfig) {
	r.entities[c.Name] = c
}

// Lookup resolves an entity name to its config.
func (r *Registry) Lookup(name string) (EntityConfig, bool) {
	c, ok := r.entities[name]
	return c, ok
}

// Names returns the registered entity names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entities))
	for name := range r.entities {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
