// Package manager provides chain assembly, configuration, and lifecycle
// management for the Event Chain SDK.
package manager

import (
	"time"

	"github.com/GopherSecurity/eventchain/src/core"
	"github.com/GopherSecurity/eventchain/src/filters"
)

// RegisterBuiltins registers factories for the built-in filters under
// their canonical type names: "logging", "validation", "ratelimit",
// "dedup". The metrics filter is not registered here because it needs a
// Prometheus registerer with process-wide lifetime, which config reloads
// would re-register; create it explicitly and add it via a builder.
func RegisterBuiltins(registry *Registry) error {
	factories := map[string]FilterFactory{
		"logging": func(settings map[string]interface{}) (core.Filter, error) {
			return filters.NewLoggingFilter(
				stringSetting(settings, "prefix", "chain"),
				boolSetting(settings, "log_payload", false),
			), nil
		},
		"validation": func(settings map[string]interface{}) (core.Filter, error) {
			return filters.NewValidationFilter(filters.ValidationConfig{
				RequireName:      boolSetting(settings, "require_name", false),
				MaxPayloadBytes:  intSetting(settings, "max_payload_bytes", 0),
				RequiredMetadata: stringSliceSetting(settings, "required_metadata"),
			}), nil
		},
		"ratelimit": func(settings map[string]interface{}) (core.Filter, error) {
			return filters.NewRateLimitFilter(
				floatSetting(settings, "rate_per_sec", 100),
				intSetting(settings, "burst", 100),
			), nil
		},
		"dedup": func(settings map[string]interface{}) (core.Filter, error) {
			ttl := time.Duration(intSetting(settings, "ttl_seconds", 60)) * time.Second
			return filters.NewDedupFilter(ttl), nil
		},
	}

	for name, factory := range factories {
		if err := registry.RegisterFilterType(name, factory); err != nil {
			return err
		}
	}
	return nil
}

// Setting helpers tolerate the loose typing of YAML maps: ints arrive as
// int, floats as float64, and lists as []interface{}.

func boolSetting(settings map[string]interface{}, key string, fallback bool) bool {
	if v, ok := settings[key].(bool); ok {
		return v
	}
	return fallback
}

func intSetting(settings map[string]interface{}, key string, fallback int) int {
	switch v := settings[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return fallback
}

func floatSetting(settings map[string]interface{}, key string, fallback float64) float64 {
	switch v := settings[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return fallback
}

func stringSetting(settings map[string]interface{}, key, fallback string) string {
	if v, ok := settings[key].(string); ok {
		return v
	}
	return fallback
}

func stringSliceSetting(settings map[string]interface{}, key string) []string {
	raw, ok := settings[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
