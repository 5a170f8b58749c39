package core

// Resolver maps event titles to category names. Matching is exact: names are
// tried before aliases and the first category in configuration order wins.
type Resolver struct {
	categories []CategoryConfig
	names      map[string]string
	aliases    map[string]string
}

func NewResolver(categories []CategoryConfig) *Resolver {
	r := &Resolver{
		categories: categories,
		names:      make(map[string]string, len(categories)),
		aliases:    make(map[string]string),
	}
	for _, c := range categories {
		if _, ok := r.names[c.Name]; !ok {
			r.names[c.Name] = c.Name
		}
	}
	for _, c := range categories {
		for _, a := range c.Aliases {
			if _, ok := r.aliases[a]; !ok {
				r.aliases[a] = c.Name
			}
		}
	}
	return r
}

// Resolve returns the category for title. ok is false when nothing matches,
// which callers treat as an event outside the tracked taxonomy.
func (r *Resolver) Resolve(title string) (name string, ok bool) {
	if name, ok = r.names[title]; ok {
		return name, true
	}
	name, ok = r.aliases[title]
	return name, ok
}

// Restrict returns a resolver limited to the named categories. An empty list
// keeps every category.
func (r *Resolver) Restrict(names []string) *Resolver {
	if len(names) == 0 {
		return r
	}
	allowed := make(map[string]struct{}, len(names))
	for _, n := range names {
		allowed[n] = struct{}{}
	}
	kept := make([]CategoryConfig, 0, len(names))
	for _, c := range r.categories {
		if _, ok := allowed[c.Name]; ok {
			kept = append(kept, c)
		}
	}
	return NewResolver(kept)
}

// Categories returns the categories the resolver matches, in order.
func (r *Resolver) Categories() []CategoryConfig {
	return append([]CategoryConfig(nil), r.categories...)
}
