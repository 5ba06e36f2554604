package application

import (
	"fmt"
	"sort"
	"strings"

	"contestctl/internal/domain"
)

// Registry holds the configured platforms, keyed case-insensitively by name.
type Registry struct {
	platforms map[string]*Platform
}

func NewRegistry(platforms ...*Platform) *Registry {
	r := &Registry{platforms: make(map[string]*Platform, len(platforms))}
	for _, p := range platforms {
		r.platforms[strings.ToLower(p.Name())] = p
	}
	return r
}

func (r *Registry) Get(name string) (*Platform, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("platform name is empty: %w", domain.ErrNotFound)
	}
	platform, ok := r.platforms[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("platform %q is %w, available: %s",
			name, domain.ErrNotFound, strings.Join(r.Names(), ", "))
	}
	return platform, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.platforms))
	for name := range r.platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close shuts every platform down.
func (r *Registry) Close() {
	for _, p := range r.platforms {
		p.Close()
	}
}
