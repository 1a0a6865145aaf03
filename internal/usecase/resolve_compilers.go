package usecase

import (
	"context"
	"fmt"

	"github.com/eth-infinitism/aadeploy/internal/domain/config"
)

// ResolveCompilers resolves every compiler version the project uses
type ResolveCompilers struct {
	config   *config.RuntimeConfig
	resolver BuildResolver
}

// NewResolveCompilers creates a new ResolveCompilers use case
func NewResolveCompilers(cfg *config.RuntimeConfig, resolver BuildResolver) *ResolveCompilers {
	return &ResolveCompilers{
		config:   cfg,
		resolver: resolver,
	}
}

// Run resolves the builds in the order the versions appear in the configuration
func (r *ResolveCompilers) Run(ctx context.Context) ([]*config.CompilerBuild, error) {
	var builds []*config.CompilerBuild
	for _, version := range r.config.Solidity.Versions() {
		build, err := r.resolver.Resolve(ctx, version)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve solc %s: %w", version, err)
		}
		builds = append(builds, build)
	}
	return builds, nil
}
