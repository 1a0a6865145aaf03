package usecase_test

import (
	"testing"

	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/eth-infinitism/aadeploy/internal/domain/models"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSourceGraph() *models.SourceGraph {
	sources := map[string]*models.Source{
		"contracts/core/EntryPoint.sol": {
			Name:    "contracts/core/EntryPoint.sol",
			Content: "contract EntryPoint {}",
			Imports: []string{"contracts/core/Helpers.sol", "@openzeppelin/contracts/utils/ReentrancyGuard.sol"},
		},
		"contracts/core/Helpers.sol": {
			Name:    "contracts/core/Helpers.sol",
			Content: "library Helpers {}",
		},
		"@openzeppelin/contracts/utils/ReentrancyGuard.sol": {
			Name:    "@openzeppelin/contracts/utils/ReentrancyGuard.sol",
			Content: "abstract contract ReentrancyGuard {}",
		},
		"contracts/samples/SimpleAccount.sol": {
			Name:    "contracts/samples/SimpleAccount.sol",
			Content: "contract SimpleAccount {}",
			Imports: []string{"contracts/core/Helpers.sol"},
		},
		"contracts/samples/SimpleAccountFactory.sol": {
			Name:    "contracts/samples/SimpleAccountFactory.sol",
			Content: "contract SimpleAccountFactory {}",
			Imports: []string{"contracts/samples/SimpleAccount.sol"},
		},
	}
	return &models.SourceGraph{
		Roots: []string{
			"contracts/core/EntryPoint.sol",
			"contracts/core/Helpers.sol",
			"contracts/samples/SimpleAccount.sol",
			"contracts/samples/SimpleAccountFactory.sol",
		},
		Sources: sources,
	}
}

func defaultSolidity() config.SolidityConfig {
	base := config.CompilerSettings{Version: "0.8.23", Optimizer: config.OptimizerSettings{Enabled: true, Runs: 1000000}}
	viaIR := base
	viaIR.ViaIR = true
	return config.SolidityConfig{
		Compilers: []config.CompilerSettings{base},
		Overrides: map[string]config.CompilerSettings{
			"contracts/core/EntryPoint.sol":       viaIR,
			"contracts/samples/SimpleAccount.sol": viaIR,
		},
	}
}

func TestPlanCompileJobs(t *testing.T) {
	t.Run("overridden sources get their own viaIR job", func(t *testing.T) {
		jobs, err := usecase.PlanCompileJobs(defaultSolidity(), testSourceGraph())
		require.NoError(t, err)
		require.Len(t, jobs, 3)

		defaultJob := jobs[0]
		assert.False(t, defaultJob.Settings.ViaIR)
		assert.Equal(t, []string{"contracts/core/Helpers.sol", "contracts/samples/SimpleAccountFactory.sol"}, defaultJob.Roots)
		assert.Equal(t, []string{
			"contracts/core/Helpers.sol",
			"contracts/samples/SimpleAccount.sol",
			"contracts/samples/SimpleAccountFactory.sol",
		}, defaultJob.Sources)

		entryPoint := jobs[1]
		assert.True(t, entryPoint.Settings.ViaIR)
		assert.Equal(t, []string{"contracts/core/EntryPoint.sol"}, entryPoint.Roots)
		assert.Equal(t, []string{
			"@openzeppelin/contracts/utils/ReentrancyGuard.sol",
			"contracts/core/EntryPoint.sol",
			"contracts/core/Helpers.sol",
		}, entryPoint.Sources)

		simpleAccount := jobs[2]
		assert.True(t, simpleAccount.Settings.ViaIR)
		assert.Equal(t, []string{"contracts/samples/SimpleAccount.sol"}, simpleAccount.Roots)
	})

	t.Run("single descriptor compiles everything together", func(t *testing.T) {
		single := config.CompilerSettings{Version: "0.8.23", Optimizer: config.OptimizerSettings{Enabled: true, Runs: 1000000}}
		jobs, err := usecase.PlanCompileJobs(config.SolidityConfig{Single: &single}, testSourceGraph())
		require.NoError(t, err)
		require.Len(t, jobs, 1)

		assert.Equal(t, single, jobs[0].Settings)
		assert.Len(t, jobs[0].Roots, 4)
		assert.Len(t, jobs[0].Sources, 5)
	})

	t.Run("no compiler", func(t *testing.T) {
		_, err := usecase.PlanCompileJobs(config.SolidityConfig{}, testSourceGraph())
		assert.Error(t, err)
	})

	t.Run("missing import", func(t *testing.T) {
		graph := testSourceGraph()
		graph.Sources["contracts/core/Helpers.sol"].Imports = []string{"contracts/core/Missing.sol"}

		_, err := usecase.PlanCompileJobs(defaultSolidity(), graph)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "contracts/core/Missing.sol")
	})
}

func TestCompileJobInput(t *testing.T) {
	graph := testSourceGraph()
	jobs, err := usecase.PlanCompileJobs(defaultSolidity(), graph)
	require.NoError(t, err)

	input := jobs[1].Input(graph)
	assert.Equal(t, "Solidity", input.Language)
	assert.True(t, input.Settings.ViaIR)
	assert.Equal(t, 1000000, input.Settings.Optimizer.Runs)
	assert.Equal(t, "paris", input.Settings.EvmVersion)
	assert.Len(t, input.Sources, 3)
	assert.Equal(t, "contract EntryPoint {}", input.Sources["contracts/core/EntryPoint.sol"].Content)

	// artifacts are only requested for the job's roots
	assert.Contains(t, input.Settings.OutputSelection, "contracts/core/EntryPoint.sol")
	assert.NotContains(t, input.Settings.OutputSelection, "contracts/core/Helpers.sol")
}

func TestCompileJobInput_EvmVersion(t *testing.T) {
	graph := testSourceGraph()
	solidity := defaultSolidity()
	solidity.Compilers[0].EvmVersion = "cancun"

	jobs, err := usecase.PlanCompileJobs(solidity, graph)
	require.NoError(t, err)
	require.NotEmpty(t, jobs)

	for _, job := range jobs {
		input := job.Input(graph)
		if job.Settings.ViaIR {
			assert.Equal(t, config.DefaultEvmVersion, input.Settings.EvmVersion, "override without evm_version")
		} else {
			assert.Equal(t, "cancun", input.Settings.EvmVersion)
		}
	}
}
