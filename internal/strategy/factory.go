package strategy

import "fmt"

// DefaultStrategy is used when a requested strategy is not registered.
const DefaultStrategy = "COMPOSITE"

// CreateOrDefault builds the named strategy, falling back to
// DefaultStrategy for unknown names.
func CreateOrDefault(registry *Registry, name string, config map[string]interface{}) (Strategy, error) {
	if _, ok := registry.strategies[name]; !ok {
		name = DefaultStrategy
	}

	s, err := registry.Create(name, config)
	if err != nil {
		return nil, fmt.Errorf("create strategy %s: %w", name, err)
	}
	return s, nil
}
