package config

// ProjectFile is the on-disk deploy.toml project configuration
type ProjectFile struct {
	DefaultNetwork string                  `toml:"default_network" json:"defaultNetwork" yaml:"defaultNetwork" validate:"required"`
	Paths          PathsConfig             `toml:"paths" json:"paths" yaml:"paths"`
	Solidity       SolidityFile            `toml:"solidity" json:"solidity" yaml:"solidity"`
	NamedAccounts  map[string]string       `toml:"named_accounts" json:"namedAccounts" yaml:"namedAccounts" validate:"dive,eth_addr"`
	Networks       map[string]NetworkEntry `toml:"networks" json:"networks" yaml:"networks" validate:"required,min=1,dive"`
}

// PathsConfig holds project-relative directories
type PathsConfig struct {
	Sources     string `toml:"sources" json:"sources" yaml:"sources"`
	Artifacts   string `toml:"artifacts" json:"artifacts" yaml:"artifacts"`
	Deployments string `toml:"deployments" json:"deployments" yaml:"deployments"`
	Cache       string `toml:"cache" json:"cache" yaml:"cache"`
}

// SolidityFile is the compiler section of the project file
type SolidityFile struct {
	Compilers []CompilerSettings          `toml:"compilers" json:"compilers" yaml:"compilers" validate:"required,min=1,dive"`
	Overrides map[string]CompilerSettings `toml:"overrides" json:"overrides,omitempty" yaml:"overrides,omitempty" validate:"dive"`
}

// NetworkEntry is a statically configured network.
// URL may contain ${VAR} references that are expanded at resolution time.
type NetworkEntry struct {
	URL     string `toml:"url" json:"url" yaml:"url"`
	ChainID uint64 `toml:"chain_id" json:"chainId,omitempty" yaml:"chainId,omitempty"`
	ZkSync  bool   `toml:"zksync" json:"zksync,omitempty" yaml:"zksync,omitempty"`
	Live    *bool  `toml:"live" json:"live,omitempty" yaml:"live,omitempty"`
}
