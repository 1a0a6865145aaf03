package config

import (
	"github.com/eth-infinitism/aadeploy/internal/domain/config"
)

// SelectSolidity picks the compiler configuration for this run. Coverage
// instrumentation only supports one compiler, so coverage runs collapse the
// configuration to the first compiler entry.
func SelectSolidity(solidity config.SolidityFile, coverage bool) config.SolidityConfig {
	if coverage && len(solidity.Compilers) > 0 {
		single := solidity.Compilers[0]
		return config.SolidityConfig{Single: &single}
	}

	compilers := make([]config.CompilerSettings, len(solidity.Compilers))
	copy(compilers, solidity.Compilers)

	var overrides map[string]config.CompilerSettings
	if len(solidity.Overrides) > 0 {
		overrides = make(map[string]config.CompilerSettings, len(solidity.Overrides))
		for path, settings := range solidity.Overrides {
			overrides[path] = settings
		}
	}

	return config.SolidityConfig{
		Compilers: compilers,
		Overrides: overrides,
	}
}
