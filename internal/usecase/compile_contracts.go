package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/eth-infinitism/aadeploy/internal/domain"
	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/eth-infinitism/aadeploy/internal/domain/models"
)

// CompileContracts compiles the project sources and writes their artifacts
type CompileContracts struct {
	config    *config.RuntimeConfig
	sources   SourceCollector
	resolver  BuildResolver
	compiler  SolidityCompiler
	artifacts ArtifactStore
	progress  ProgressSink
	log       *slog.Logger
}

// NewCompileContracts creates a new CompileContracts use case
func NewCompileContracts(
	cfg *config.RuntimeConfig,
	sources SourceCollector,
	resolver BuildResolver,
	compiler SolidityCompiler,
	artifacts ArtifactStore,
	progress ProgressSink,
	log *slog.Logger,
) *CompileContracts {
	return &CompileContracts{
		config:    cfg,
		sources:   sources,
		resolver:  resolver,
		compiler:  compiler,
		artifacts: artifacts,
		progress:  progress,
		log:       log,
	}
}

// CompiledJob summarizes one compile job
type CompiledJob struct {
	Settings  config.CompilerSettings
	Build     *config.CompilerBuild
	Roots     []string
	Contracts []string
	Warnings  []string
}

// CompileContractsResult contains the outcome of a compile run
type CompileContractsResult struct {
	Jobs      []CompiledJob
	Artifacts int
}

// Run compiles all sources
func (c *CompileContracts) Run(ctx context.Context) (*CompileContractsResult, error) {
	graph, err := c.sources.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect sources: %w", err)
	}
	if len(graph.Roots) == 0 {
		return &CompileContractsResult{}, nil
	}

	jobs, err := PlanCompileJobs(c.config.Solidity, graph)
	if err != nil {
		return nil, err
	}

	result := &CompileContractsResult{}
	for i, job := range jobs {
		c.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "compile",
			Current: i + 1,
			Total:   len(jobs),
			Message: fmt.Sprintf("Compiling %d files with solc %s", len(job.Roots), job.Settings.Version),
			Spinner: true,
		})

		compiled, err := c.runJob(ctx, job, graph)
		if err != nil {
			return nil, err
		}
		result.Jobs = append(result.Jobs, *compiled)
		result.Artifacts += len(compiled.Contracts)
	}

	return result, nil
}

func (c *CompileContracts) runJob(ctx context.Context, job CompileJob, graph *models.SourceGraph) (*CompiledJob, error) {
	build, err := c.resolver.Resolve(ctx, job.Settings.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve solc %s: %w", job.Settings.Version, err)
	}

	c.log.Debug("compiling", "version", build.LongVersion, "solcjs", build.IsSolcJs, "viaIR", job.Settings.ViaIR, "roots", len(job.Roots), "sources", len(job.Sources))

	output, err := c.compiler.Compile(ctx, build, job.Input(graph))
	if err != nil {
		return nil, fmt.Errorf("failed to run solc %s: %w", build.LongVersion, err)
	}

	compiled := &CompiledJob{
		Settings: job.Settings,
		Build:    build,
		Roots:    job.Roots,
	}

	var errs []string
	for _, diag := range output.Errors {
		msg := diag.FormattedMessage
		if msg == "" {
			msg = diag.Message
		}
		if diag.IsError() {
			errs = append(errs, msg)
		} else {
			compiled.Warnings = append(compiled.Warnings, msg)
		}
	}
	if len(errs) > 0 {
		return nil, &domain.CompileError{Version: build.LongVersion, Diagnostics: errs}
	}

	for _, root := range job.Roots {
		contracts := output.Contracts[root]
		names := make([]string, 0, len(contracts))
		for name := range contracts {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			contract := contracts[name]
			artifact := &models.Artifact{
				Format:           models.ArtifactFormat,
				ContractName:     name,
				SourceName:       root,
				ABI:              contract.ABI,
				Bytecode:         prefixHex(contract.EVM.Bytecode.Object),
				DeployedBytecode: prefixHex(contract.EVM.DeployedBytecode.Object),
				LinkReferences:   contract.EVM.Bytecode.LinkReferences,
				SolcVersion:      build.LongVersion,
			}
			if err := c.artifacts.SaveArtifact(ctx, artifact); err != nil {
				return nil, fmt.Errorf("failed to write artifact for %s: %w", artifact.FullyQualifiedName(), err)
			}
			compiled.Contracts = append(compiled.Contracts, artifact.FullyQualifiedName())
		}
	}

	return compiled, nil
}

func prefixHex(s string) string {
	if strings.HasPrefix(s, "0x") {
		return s
	}
	return "0x" + s
}
