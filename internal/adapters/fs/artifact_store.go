package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/eth-infinitism/aadeploy/internal/domain"
	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/eth-infinitism/aadeploy/internal/domain/models"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// ArtifactStoreAdapter keeps artifacts under artifacts/<sourceName>/<ContractName>.json
type ArtifactStoreAdapter struct {
	root string
}

// NewArtifactStoreAdapter creates a new ArtifactStoreAdapter
func NewArtifactStoreAdapter(cfg *config.RuntimeConfig) *ArtifactStoreAdapter {
	return &ArtifactStoreAdapter{root: cfg.ArtifactsDir}
}

// GetArtifact finds the artifact of a contract by name
func (s *ArtifactStoreAdapter) GetArtifact(_ context.Context, contractName string) (*models.Artifact, error) {
	paths, err := s.artifactPaths()
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, path := range paths {
		if filepath.Base(path) == contractName+".json" {
			matches = append(matches, path)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s (run 'aadeploy compile' first)", domain.ErrContractNotFound, contractName)
	case 1:
		return readArtifact(matches[0])
	default:
		return nil, fmt.Errorf("multiple artifacts named %s: %s", contractName, strings.Join(matches, ", "))
	}
}

// ListArtifacts reads every artifact, sorted by fully qualified name
func (s *ArtifactStoreAdapter) ListArtifacts(_ context.Context) ([]*models.Artifact, error) {
	paths, err := s.artifactPaths()
	if err != nil {
		return nil, err
	}

	artifacts := make([]*models.Artifact, 0, len(paths))
	for _, path := range paths {
		artifact, err := readArtifact(path)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].FullyQualifiedName() < artifacts[j].FullyQualifiedName()
	})
	return artifacts, nil
}

// SaveArtifact writes an artifact
func (s *ArtifactStoreAdapter) SaveArtifact(_ context.Context, artifact *models.Artifact) error {
	dir := filepath.Join(s.root, filepath.FromSlash(artifact.SourceName))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	return writeFileAtomic(filepath.Join(dir, artifact.ContractName+".json"), data)
}

func (s *ArtifactStoreAdapter) artifactPaths() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fs.SkipDir
			}
			return err
		}
		name := d.Name()
		if d.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".dbg.json") || strings.HasPrefix(name, ".") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan artifacts: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

func readArtifact(path string) (*models.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var artifact models.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}
	return &artifact, nil
}

// Ensure the adapter implements the interface
var _ usecase.ArtifactStore = (*ArtifactStoreAdapter)(nil)
