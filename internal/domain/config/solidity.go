package config

import "sort"

// DefaultEvmVersion is the target for descriptors without evm_version. solc
// 0.8.20+ defaults to shanghai, whose PUSH0 is missing on many chains.
const DefaultEvmVersion = "paris"

// OptimizerSettings mirrors solc's optimizer settings
type OptimizerSettings struct {
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`
	Runs    int  `toml:"runs" json:"runs" yaml:"runs"`
}

// CompilerSettings is a single compiler descriptor: version plus solc settings
type CompilerSettings struct {
	Version    string            `toml:"version" json:"version" yaml:"version" validate:"required"`
	Optimizer  OptimizerSettings `toml:"optimizer" json:"optimizer" yaml:"optimizer"`
	ViaIR      bool              `toml:"via_ir" json:"viaIR,omitempty" yaml:"viaIR,omitempty"`
	EvmVersion string            `toml:"evm_version" json:"evmVersion,omitempty" yaml:"evmVersion,omitempty"`
}

// TargetEvmVersion returns the EVM version passed to solc
func (c CompilerSettings) TargetEvmVersion() string {
	if c.EvmVersion == "" {
		return DefaultEvmVersion
	}
	return c.EvmVersion
}

// SolidityConfig is either a single descriptor or a list of compilers with per-file overrides.
// Exactly one of Single or Compilers is set.
type SolidityConfig struct {
	Single    *CompilerSettings           `json:"single,omitempty" yaml:"single,omitempty"`
	Compilers []CompilerSettings          `json:"compilers,omitempty" yaml:"compilers,omitempty"`
	Overrides map[string]CompilerSettings `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// IsSingle reports whether the configuration is a single compiler descriptor
func (s SolidityConfig) IsSingle() bool {
	return s.Single != nil
}

// Default returns the settings used for sources without an override
func (s SolidityConfig) Default() (CompilerSettings, bool) {
	if s.Single != nil {
		return *s.Single, true
	}
	if len(s.Compilers) == 0 {
		return CompilerSettings{}, false
	}
	return s.Compilers[0], true
}

// Versions returns every compiler version referenced by the configuration
func (s SolidityConfig) Versions() []string {
	seen := make(map[string]bool)
	var versions []string
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			versions = append(versions, v)
		}
	}

	if s.Single != nil {
		add(s.Single.Version)
		return versions
	}
	for _, c := range s.Compilers {
		add(c.Version)
	}
	paths := make([]string, 0, len(s.Overrides))
	for path := range s.Overrides {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		add(s.Overrides[path].Version)
	}
	return versions
}

// CompilerBuild describes a resolved compiler binary
type CompilerBuild struct {
	CompilerPath string `json:"compilerPath"`
	IsSolcJs     bool   `json:"isSolcJs"`
	Version      string `json:"version"`
	LongVersion  string `json:"longVersion"`
}
