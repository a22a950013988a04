// Package admin describes how each catalog entity is presented in the
// operator console: which columns are listed, which filters apply, how the
// edit form is grouped and which related records are shown inline.
package admin

import "sort"

// Fieldset is a titled group of form fields. Fields on the same row are
// grouped in an inner slice.
type Fieldset struct {
	Title  string     `json:"title,omitempty"`
	Fields [][]string `json:"fields"`
}

// Inline shows related records of another entity on the edit page.
type Inline struct {
	Entity string `json:"entity"`
	Extra  int    `json:"extra"`
}

// ModelAdmin is the console configuration for one entity.
type ModelAdmin struct {
	Entity       string     `json:"entity"`
	ListDisplay  []string   `json:"list_display"`
	ListFilter   []string   `json:"list_filter,omitempty"`
	DisplayLinks []string   `json:"list_display_links,omitempty"`
	Fieldsets    []Fieldset `json:"fieldsets,omitempty"`
	Inlines      []Inline   `json:"inlines,omitempty"`
}

// Registry holds the configured entities by name.
type Registry struct {
	models map[string]ModelAdmin
}

func NewRegistry(models ...ModelAdmin) *Registry {
	r := &Registry{models: make(map[string]ModelAdmin, len(models))}
	for _, m := range models {
		r.Register(m)
	}
	return r
}

// Register adds m, replacing any earlier entry for the same entity.
func (r *Registry) Register(m ModelAdmin) {
	if len(m.DisplayLinks) == 0 && len(m.ListDisplay) > 0 {
		m.DisplayLinks = m.ListDisplay[:1]
	}
	r.models[m.Entity] = m
}

func (r *Registry) Lookup(entity string) (ModelAdmin, bool) {
	m, ok := r.models[entity]
	return m, ok
}

// ListFilter returns the filters enabled for entity, or nil.
func (r *Registry) ListFilter(entity string) []string {
	return r.models[entity].ListFilter
}

// All returns every entry ordered by entity name.
func (r *Registry) All() []ModelAdmin {
	out := make([]ModelAdmin, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Entity < out[j].Entity })
	return out
}

// Entity names.
const (
	Genre        = "genre"
	Language     = "language"
	Author       = "author"
	Book         = "book"
	BookInstance = "bookinstance"
)

// Default returns the console configuration of the library catalog.
func Default() *Registry {
	return NewRegistry(
		ModelAdmin{Entity: Genre, ListDisplay: []string{"name"}},
		ModelAdmin{Entity: Language, ListDisplay: []string{"name"}},
		ModelAdmin{
			Entity:       Author,
			ListDisplay:  []string{"last_name", "first_name", "date_of_birth", "date_of_death"},
			ListFilter:   []string{"first_name", "last_name"},
			DisplayLinks: []string{"first_name", "last_name"},
			Fieldsets: []Fieldset{{
				Fields: [][]string{{"first_name"}, {"last_name"}, {"date_of_birth", "date_of_death"}},
			}},
			Inlines: []Inline{{Entity: Book}},
		},
		ModelAdmin{
			Entity:      Book,
			ListDisplay: []string{"title", "author", "display_genre"},
			ListFilter:  []string{"genre"},
			Inlines:     []Inline{{Entity: BookInstance}},
		},
		ModelAdmin{
			Entity:      BookInstance,
			ListDisplay: []string{"book", "status", "borrower", "due_back", "id"},
			ListFilter:  []string{"book", "status", "due_back"},
			Fieldsets: []Fieldset{
				{Title: "Book Information", Fields: [][]string{{"book"}, {"imprint"}, {"id"}}},
				{Title: "Availability", Fields: [][]string{{"status"}, {"due_back"}, {"borrower"}}},
			},
		},
	)
}
