package usecase

import (
	"fmt"
	"sort"

	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/eth-infinitism/aadeploy/internal/domain/models"
)

// CompileJob is one solc invocation: a set of root sources compiled with the
// same settings, plus everything they import
type CompileJob struct {
	Settings config.CompilerSettings
	// Roots are the sources whose contracts get artifacts from this job
	Roots []string
	// Sources is the import closure of Roots
	Sources []string
}

// PlanCompileJobs groups the project sources into compile jobs. Sources with a
// compiler override get their own job each; every other source goes into the
// job of the default compiler. A single-descriptor configuration compiles
// everything in one job and ignores overrides.
func PlanCompileJobs(solidity config.SolidityConfig, graph *models.SourceGraph) ([]CompileJob, error) {
	defaults, ok := solidity.Default()
	if !ok {
		return nil, fmt.Errorf("no compiler configured")
	}

	var (
		jobs        []CompileJob
		defaultJobs []string
	)

	for _, root := range graph.Roots {
		override, overridden := solidity.Overrides[root]
		if solidity.IsSingle() || !overridden {
			defaultJobs = append(defaultJobs, root)
			continue
		}

		sources, err := graph.Closure(root)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, CompileJob{
			Settings: override,
			Roots:    []string{root},
			Sources:  sortedCopy(sources),
		})
	}

	if len(defaultJobs) > 0 {
		seen := make(map[string]bool)
		var sources []string
		for _, root := range defaultJobs {
			closure, err := graph.Closure(root)
			if err != nil {
				return nil, err
			}
			for _, name := range closure {
				if !seen[name] {
					seen[name] = true
					sources = append(sources, name)
				}
			}
		}
		jobs = append([]CompileJob{{
			Settings: defaults,
			Roots:    defaultJobs,
			Sources:  sortedCopy(sources),
		}}, jobs...)
	}

	return jobs, nil
}

// Input builds the solc standard JSON input for the job
func (j CompileJob) Input(graph *models.SourceGraph) *models.CompilerInput {
	sources := make(map[string]models.SourceContent, len(j.Sources))
	for _, name := range j.Sources {
		sources[name] = models.SourceContent{Content: graph.Sources[name].Content}
	}

	outputSelection := make(map[string]map[string][]string, len(j.Roots))
	for _, root := range j.Roots {
		outputSelection[root] = map[string][]string{
			"*": {"abi", "evm.bytecode.object", "evm.bytecode.linkReferences", "evm.deployedBytecode.object", "evm.deployedBytecode.linkReferences"},
		}
	}

	return &models.CompilerInput{
		Language: "Solidity",
		Sources:  sources,
		Settings: models.CompilerInputSettings{
			Optimizer:       j.Settings.Optimizer,
			ViaIR:           j.Settings.ViaIR,
			EvmVersion:      j.Settings.TargetEvmVersion(),
			OutputSelection: outputSelection,
		},
	}
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}
