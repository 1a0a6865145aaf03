package models

import (
	"fmt"
	"strings"
)

// Source is a Solidity source file identified by its source name
// (project-relative path, or the import path for node_modules packages)
type Source struct {
	Name    string   `json:"name"`
	Path    string   `json:"path"`
	Content string   `json:"-"`
	Imports []string `json:"imports,omitempty"`
}

// SourceGraph is the set of project sources plus everything they import
type SourceGraph struct {
	// Roots are the project's own sources, in sorted order
	Roots   []string
	Sources map[string]*Source
}

// Closure returns the source names reachable from root, root included, in
// discovery order
func (g *SourceGraph) Closure(root string) ([]string, error) {
	var (
		order []string
		seen  = make(map[string]bool)
		visit func(name string, chain []string) error
	)

	visit = func(name string, chain []string) error {
		if seen[name] {
			return nil
		}
		source, ok := g.Sources[name]
		if !ok {
			return fmt.Errorf("source %s not found (imported via %s)", name, strings.Join(chain, " -> "))
		}
		seen[name] = true
		order = append(order, name)
		for _, imp := range source.Imports {
			if err := visit(imp, append(chain, name)); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(root, nil); err != nil {
		return nil, err
	}
	return order, nil
}
