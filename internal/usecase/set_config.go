package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/eth-infinitism/aadeploy/internal/domain"
)

// SetConfigParams contains parameters for setting configuration
type SetConfigParams struct {
	Key   string
	Value string
}

// SetConfigResult contains the result of setting configuration
type SetConfigResult struct {
	UpdatedConfig *domain.LocalConfig
	ConfigPath    string
	Key           domain.ConfigKey
	Value         string
}

// SetConfig is a use case for setting configuration values
type SetConfig struct {
	store    LocalConfigStore
	resolver NetworkResolver
}

// NewSetConfig creates a new SetConfig use case
func NewSetConfig(store LocalConfigStore, resolver NetworkResolver) *SetConfig {
	return &SetConfig{
		store:    store,
		resolver: resolver,
	}
}

// Run executes the set config use case
func (uc *SetConfig) Run(ctx context.Context, params SetConfigParams) (*SetConfigResult, error) {
	normalizedKey, err := parseConfigKey(params.Key)
	if err != nil {
		return nil, err
	}

	switch normalizedKey {
	case domain.ConfigKeyNetwork:
		// Only the name is checked; the dynamic network reads its variables when used
		if !lo.Contains(uc.resolver.GetNetworks(ctx), params.Value) {
			if _, err := uc.resolver.ResolveNetwork(ctx, params.Value); err != nil {
				return nil, err
			}
		}
	case domain.ConfigKeyTimeout:
		if _, err := time.ParseDuration(params.Value); err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", params.Value, err)
		}
	}

	config, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	config.Set(normalizedKey, params.Value)

	if err := uc.store.Save(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return &SetConfigResult{
		UpdatedConfig: config,
		ConfigPath:    uc.store.GetPath(),
		Key:           normalizedKey,
		Value:         params.Value,
	}, nil
}

// parseConfigKey validates and normalizes a user supplied key
func parseConfigKey(key string) (domain.ConfigKey, error) {
	key = strings.ToLower(key)
	if !domain.IsValidConfigKey(key) {
		validKeys := []string{}
		for _, k := range domain.ValidConfigKeys() {
			if k == domain.ConfigKeyNetwork {
				validKeys = append(validKeys, string(k)+" (n)")
			} else {
				validKeys = append(validKeys, string(k))
			}
		}
		return "", fmt.Errorf("unknown config key: %s\nAvailable keys: %s", key, strings.Join(validKeys, ", "))
	}
	return domain.NormalizeConfigKey(key), nil
}
