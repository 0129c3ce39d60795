package strategy

import (
	"context"
	"fmt"
	"sort"

	"github.com/assist-by/signalhub/internal/domain"
)

// Strategy turns a candle history into a composite signal.
type Strategy interface {
	// Analyze rates the latest bar of candles.
	Analyze(ctx context.Context, symbol string, candles domain.CandleList) (*domain.CompositeSignal, error)

	// GetName returns the registry name.
	GetName() string

	// GetDescription returns a human readable summary.
	GetDescription() string

	// GetConfig returns a copy of the strategy settings.
	GetConfig() map[string]interface{}
}

// BaseStrategy carries the fields every strategy shares.
type BaseStrategy struct {
	Name        string
	Description string
	Config      map[string]interface{}
}

// GetName returns the registry name.
func (b *BaseStrategy) GetName() string {
	return b.Name
}

// GetDescription returns a human readable summary.
func (b *BaseStrategy) GetDescription() string {
	return b.Description
}

// GetConfig returns a copy of the settings.
func (b *BaseStrategy) GetConfig() map[string]interface{} {
	configCopy := make(map[string]interface{}, len(b.Config))
	for k, v := range b.Config {
		configCopy[k] = v
	}
	return configCopy
}

// Factory builds a strategy from settings.
type Factory func(config map[string]interface{}) (Strategy, error)

// Registry maps strategy names to factories.
type Registry struct {
	strategies map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]Factory),
	}
}

// Register adds a factory under name.
func (r *Registry) Register(name string, factory Factory) {
	r.strategies[name] = factory
}

// Create builds the named strategy.
func (r *Registry) Create(name string, config map[string]interface{}) (Strategy, error) {
	factory, exists := r.strategies[name]
	if !exists {
		return nil, fmt.Errorf("unknown strategy: %s", name)
	}
	return factory(config)
}

// ListStrategies returns the registered names in sorted order.
func (r *Registry) ListStrategies() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
