package fs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/eth-infinitism/aadeploy/internal/domain/models"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

var (
	// importPattern matches `import "x";`, `import "x" as y;`, `import * as y from "x";`
	// and `import {a, b} from "x";`
	importPattern = regexp.MustCompile(`\bimport\s+(?:[^"';]*?\s+from\s+)?["']([^"']+)["']`)

	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComment  = regexp.MustCompile(`(?m)//.*$`)
)

// SourceCollectorAdapter reads project sources and resolves their imports
// against the project root and node_modules
type SourceCollectorAdapter struct {
	projectRoot string
	sourcesDir  string
}

// NewSourceCollectorAdapter creates a new SourceCollectorAdapter
func NewSourceCollectorAdapter(cfg *config.RuntimeConfig) *SourceCollectorAdapter {
	return &SourceCollectorAdapter{
		projectRoot: cfg.ProjectRoot,
		sourcesDir:  cfg.SourcesDir,
	}
}

// Collect walks the sources directory and loads the transitive imports of every file
func (c *SourceCollectorAdapter) Collect(ctx context.Context) (*models.SourceGraph, error) {
	graph := &models.SourceGraph{Sources: make(map[string]*models.Source)}

	err := filepath.WalkDir(c.sourcesDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".sol") {
			return nil
		}
		rel, err := filepath.Rel(c.projectRoot, p)
		if err != nil {
			return err
		}
		graph.Roots = append(graph.Roots, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return graph, nil
		}
		return nil, fmt.Errorf("failed to scan sources: %w", err)
	}
	sort.Strings(graph.Roots)

	queue := append([]string(nil), graph.Roots...)
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := queue[0]
		queue = queue[1:]
		if _, done := graph.Sources[name]; done {
			continue
		}

		source, err := c.load(name)
		if err != nil {
			return nil, err
		}
		graph.Sources[name] = source
		queue = append(queue, source.Imports...)
	}

	return graph, nil
}

// load reads a source and resolves its imports to source names
func (c *SourceCollectorAdapter) load(name string) (*models.Source, error) {
	filePath, err := c.locate(name)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	source := &models.Source{
		Name:    name,
		Path:    filePath,
		Content: string(content),
	}
	for _, imp := range ParseImports(source.Content) {
		source.Imports = append(source.Imports, resolveImport(name, imp))
	}
	return source, nil
}

// locate maps a source name to a file: project files first, then node_modules
func (c *SourceCollectorAdapter) locate(name string) (string, error) {
	candidates := []string{
		filepath.Join(c.projectRoot, filepath.FromSlash(name)),
		filepath.Join(c.projectRoot, "node_modules", filepath.FromSlash(name)),
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("source %s not found in project or node_modules", name)
}

// ParseImports returns the import paths of a Solidity source, in order
func ParseImports(content string) []string {
	content = blockComment.ReplaceAllString(content, "")
	content = lineComment.ReplaceAllString(content, "")

	var imports []string
	for _, match := range importPattern.FindAllStringSubmatch(content, -1) {
		imports = append(imports, match[1])
	}
	return imports
}

// resolveImport turns an import path into a source name. Relative imports are
// resolved against the importing file, everything else is already a source name.
func resolveImport(from, imp string) string {
	if strings.HasPrefix(imp, "./") || strings.HasPrefix(imp, "../") {
		return path.Join(path.Dir(from), imp)
	}
	return path.Clean(imp)
}

// Ensure the adapter implements the interface
var _ usecase.SourceCollector = (*SourceCollectorAdapter)(nil)
