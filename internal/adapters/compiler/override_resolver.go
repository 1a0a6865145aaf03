package compiler

import (
	"context"
	"path/filepath"

	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// LocalSolcVersion is served from the soljson build vendored in the project
const (
	LocalSolcVersion     = "0.8.23"
	LocalSolcLongVersion = "0.8.23+commit.f704f362"
)

// LocalSolcPath is the vendored soljson build, relative to the project root
var LocalSolcPath = filepath.Join("src", "solc", "soljson-v"+LocalSolcLongVersion+".js")

// OverrideResolver serves a fixed table of local compiler builds and delegates
// every other version to the fallback resolver unchanged
type OverrideResolver struct {
	local    map[string]config.CompilerBuild
	fallback usecase.BuildResolver
}

// NewOverrideResolver creates the resolver with the vendored 0.8.23 soljson build
func NewOverrideResolver(cfg *config.RuntimeConfig, fallback *SolcBinResolver) *OverrideResolver {
	return NewOverrideResolverWithTable(map[string]config.CompilerBuild{
		LocalSolcVersion: {
			CompilerPath: filepath.Join(cfg.ProjectRoot, LocalSolcPath),
			IsSolcJs:     true,
			Version:      LocalSolcVersion,
			LongVersion:  LocalSolcLongVersion,
		},
	}, fallback)
}

// NewOverrideResolverWithTable creates a resolver with a custom table
func NewOverrideResolverWithTable(local map[string]config.CompilerBuild, fallback usecase.BuildResolver) *OverrideResolver {
	return &OverrideResolver{
		local:    local,
		fallback: fallback,
	}
}

// Resolve returns the local build on an exact version match, otherwise whatever
// the fallback returns
func (r *OverrideResolver) Resolve(ctx context.Context, version string) (*config.CompilerBuild, error) {
	if build, ok := r.local[version]; ok {
		return &build, nil
	}
	return r.fallback.Resolve(ctx, version)
}

// Ensure the adapter implements the interface
var _ usecase.BuildResolver = (*OverrideResolver)(nil)
