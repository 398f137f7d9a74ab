// Package manager provides chain assembly, configuration, and lifecycle
// management for the Event Chain SDK.
package manager

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/GopherSecurity/eventchain/src/core"
	"github.com/GopherSecurity/eventchain/src/types"
)

// Config is the YAML description of a set of chains.
//
// Example:
//
//	chains:
//	  - name: ingress
//	    filters:
//	      - type: validation
//	        settings:
//	          require_name: true
//	      - type: logging
type Config struct {
	// Chains lists the chains to build, in declaration order.
	Chains []ChainConfig `yaml:"chains"`
}

// ChainConfig describes one chain: its name and its ordered filters.
type ChainConfig struct {
	// Name is the registry name for the chain. Required and unique.
	Name string `yaml:"name"`

	// Filters lists the filter specs in traversal order.
	Filters []FilterSpec `yaml:"filters"`
}

// FilterSpec describes one filter instance inside a chain.
type FilterSpec struct {
	// Type selects the registered filter factory.
	Type string `yaml:"type"`

	// Settings is passed to the factory as-is.
	Settings map[string]interface{} `yaml:"settings"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML config bytes.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the config and returns every problem found rather than
// stopping at the first.
func (c *Config) Validate() []error {
	var errs []error

	seen := make(map[string]bool)
	for i, chain := range c.Chains {
		if chain.Name == "" {
			errs = append(errs, fmt.Errorf("chain %d: name cannot be empty", i))
		}
		if seen[chain.Name] {
			errs = append(errs, fmt.Errorf("chain %q: duplicate name", chain.Name))
		}
		seen[chain.Name] = true

		for j, spec := range chain.Filters {
			if spec.Type == "" {
				errs = append(errs, fmt.Errorf("chain %q: filter %d: type cannot be empty", chain.Name, j))
			}
		}
	}

	return errs
}

// BuildChains materializes every configured chain using the registry's
// filter factories. Each chain is bound to onDisregard; nil installs a
// no-op callback. The returned map is keyed by chain name and is suitable
// for Registry.ReplaceChains.
//
// Returns:
//   - map[string]*core.FilterChain: the built chains
//   - error: InvalidConfiguration wrapping the first validation problem,
//     FilterNotFound for an unknown filter type, or a factory error
func (c *Config) BuildChains(registry *Registry, onDisregard core.DisregardFunc) (map[string]*core.FilterChain, error) {
	if errs := c.Validate(); len(errs) > 0 {
		return nil, types.Errorf(types.InvalidConfiguration, "invalid config: %v", errs[0])
	}

	chains := make(map[string]*core.FilterChain, len(c.Chains))
	for _, chainCfg := range c.Chains {
		builder := NewChainBuilder(chainCfg.Name)
		if onDisregard != nil {
			builder.WithDisregard(onDisregard)
		}

		for _, spec := range chainCfg.Filters {
			filter, err := registry.CreateFilter(spec.Type, spec.Settings)
			if err != nil {
				return nil, fmt.Errorf("chain %q: %w", chainCfg.Name, err)
			}
			builder.Add(filter)
		}

		chain, err := builder.Build()
		if err != nil {
			return nil, fmt.Errorf("chain %q: %w", chainCfg.Name, err)
		}
		chains[chainCfg.Name] = chain
	}

	return chains, nil
}
