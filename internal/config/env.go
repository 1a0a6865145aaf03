package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/eth-infinitism/aadeploy/internal/domain"
	"github.com/joho/godotenv"
)

// Environment variables read at startup
const (
	EnvDeployerPK             = "DEPLOYER_PK"
	EnvNetwork                = "HARDHAT_NETWORK"
	EnvDynamicNetworkName     = "HARDHAT_DYNAMIC_NETWORK_NAME"
	EnvDynamicNetworkURL      = "HARDHAT_DYNAMIC_NETWORK_URL"
	EnvDynamicNoDeterministic = "HARDHAT_DYNAMIC_NETWORK_NO_DETERMINISTIC_DEPLOYMENT"
	EnvSalt                   = "SALT"
	EnvEtherscanAPIKey        = "ETHERSCAN_API_KEY"
	EnvCoverage               = "COVERAGE"
)

// DefaultSalt is the deterministic-deployment salt used when SALT is not set
const DefaultSalt = "0x90d8084deab30c2a37c45e8d47f49f2f7965183cb6990a98943ef94940681de3"

// Env is an immutable snapshot of the environment variables visible to the process
type Env map[string]string

// EnvFromList builds an Env from KEY=VALUE pairs as returned by os.Environ
func EnvFromList(pairs []string) Env {
	env := make(Env, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		env[key] = value
	}
	return env
}

// LoadEnv snapshots the process environment, filling in values from .env files in
// the project root. Variables already set in the process take precedence.
func LoadEnv(projectRoot string) (Env, error) {
	env := EnvFromList(os.Environ())

	envFiles := []string{
		filepath.Join(projectRoot, ".env.local"),
		filepath.Join(projectRoot, ".env"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		values, err := godotenv.Read(envFile)
		if err != nil {
			return nil, err
		}
		for key, value := range values {
			if _, exists := env[key]; !exists {
				env[key] = value
			}
		}
	}

	return env, nil
}

// Lookup returns the value of key and whether it is defined
func (e Env) Lookup(key string) (string, bool) {
	value, ok := e[key]
	return value, ok
}

// Get returns the value of key or "" when unset
func (e Env) Get(key string) string {
	return e[key]
}

// Has reports whether key is defined, even with an empty value
func (e Env) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// Require returns the value of key or a MissingEnvVarError when it is unset or empty
func (e Env) Require(key string) (string, error) {
	value, ok := e[key]
	if !ok || value == "" {
		return "", &domain.MissingEnvVarError{Name: key}
	}
	return value, nil
}

// Expand replaces ${VAR} and $VAR references with values from the snapshot
func (e Env) Expand(s string) string {
	return os.Expand(s, e.Get)
}
