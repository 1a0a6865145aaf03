package config

import (
	"fmt"
	"net"
	"net/url"
	"sort"

	"github.com/eth-infinitism/aadeploy/internal/domain"
	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/sahilm/fuzzy"
)

const maxNetworkSuggestions = 3

// ResolveNetwork turns the selected network name into a Network.
//
// Selecting the "dynamic" network reads its name and url from
// HARDHAT_DYNAMIC_NETWORK_NAME and HARDHAT_DYNAMIC_NETWORK_URL; both must be set.
// HARDHAT_DYNAMIC_NETWORK_NO_DETERMINISTIC_DEPLOYMENT is optional and only the
// literal "true" disables deterministic deployment. Any other name is looked up
// in the static networks, where deterministic deployment is disabled for zksync
// networks only.
func ResolveNetwork(name string, env Env, networks map[string]config.NetworkEntry) (*config.Network, error) {
	if name == config.DynamicNetworkName {
		return resolveDynamicNetwork(env)
	}

	entry, ok := networks[name]
	if !ok {
		return nil, &domain.UnknownNetworkError{
			Name:        name,
			Suggestions: suggestNetworks(name, networks),
		}
	}

	rpcURL := env.Expand(entry.URL)
	if err := validateRPCURL(rpcURL); err != nil {
		return nil, fmt.Errorf("network %s: %w", name, err)
	}

	live := !isLocalURL(rpcURL)
	if entry.Live != nil {
		live = *entry.Live
	}

	return &config.Network{
		Name:                      name,
		URL:                       rpcURL,
		ChainID:                   entry.ChainID,
		IsDynamic:                 false,
		NoDeterministicDeployment: entry.ZkSync,
		ZkSync:                    entry.ZkSync,
		Live:                      live,
	}, nil
}

func resolveDynamicNetwork(env Env) (*config.Network, error) {
	name, err := env.Require(EnvDynamicNetworkName)
	if err != nil {
		return nil, err
	}
	rpcURL, err := env.Require(EnvDynamicNetworkURL)
	if err != nil {
		return nil, err
	}
	if err := validateRPCURL(rpcURL); err != nil {
		return nil, fmt.Errorf("%s: %w", EnvDynamicNetworkURL, err)
	}

	return &config.Network{
		Name:                      name,
		URL:                       rpcURL,
		IsDynamic:                 true,
		NoDeterministicDeployment: env.Get(EnvDynamicNoDeterministic) == "true",
		Live:                      !isLocalURL(rpcURL),
	}, nil
}

// NetworkNames returns the configured network names in sorted order
func NetworkNames(networks map[string]config.NetworkEntry) []string {
	names := make([]string, 0, len(networks))
	for name := range networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func suggestNetworks(name string, networks map[string]config.NetworkEntry) []string {
	matches := fuzzy.Find(name, NetworkNames(networks))
	suggestions := make([]string, 0, maxNetworkSuggestions)
	for i, match := range matches {
		if i == maxNetworkSuggestions {
			break
		}
		suggestions = append(suggestions, match.Str)
	}
	return suggestions
}

func validateRPCURL(rpcURL string) error {
	if rpcURL == "" {
		return fmt.Errorf("rpc url is empty")
	}
	if err := validate.Var(rpcURL, "url"); err != nil {
		return fmt.Errorf("invalid rpc url %q", rpcURL)
	}
	return nil
}

// isLocalURL reports whether the endpoint points at the local machine
func isLocalURL(rpcURL string) bool {
	u, err := url.Parse(rpcURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && (ip.IsLoopback() || ip.IsUnspecified())
}
