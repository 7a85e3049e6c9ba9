package indicator

import (
	"sync"

	"github.com/algotradehub/algotrade/internal/types"
	"github.com/algotradehub/algotrade/pkg/errors"
)

// IndicatorRegistry manages the available indicator constructors by name.
type IndicatorRegistry interface {
	RegisterIndicator(constructor func() Indicator) error
	GetIndicator(name types.IndicatorType) (Indicator, error)
	ListIndicators() []types.IndicatorType
	RemoveIndicator(name types.IndicatorType) error
}

// IndicatorRegistryV1 implements IndicatorRegistry with a mutex-guarded map.
type IndicatorRegistryV1 struct {
	constructors map[types.IndicatorType]func() Indicator
	mu           sync.RWMutex
}

// defaultRegistry is the registry BuildSet resolves indicators through.
var defaultRegistry = NewIndicatorRegistry()

// NewIndicatorRegistry creates a registry with every built-in indicator
// already registered.
func NewIndicatorRegistry() IndicatorRegistry {
	r := &IndicatorRegistryV1{
		constructors: make(map[types.IndicatorType]func() Indicator),
		mu:           sync.RWMutex{},
	}

	for _, constructor := range []func() Indicator{
		func() Indicator { return NewRSI() },
		func() Indicator { return NewMA() },
		func() Indicator { return NewEMA() },
		func() Indicator { return NewMACD() },
		func() Indicator { return NewBollingerBands() },
		func() Indicator { return NewStochasticOscillator() },
		func() Indicator { return NewATR() },
		func() Indicator { return NewROC() },
		func() Indicator { return NewTrendStrength() },
	} {
		// built-ins have unique names, registration cannot fail
		_ = r.RegisterIndicator(constructor)
	}

	return r
}

// RegisterIndicator adds an indicator constructor, keyed by the name of the
// indicator it builds.
func (r *IndicatorRegistryV1) RegisterIndicator(constructor func() Indicator) error {
	name := constructor().Name()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.constructors[name]; exists {
		return errors.Newf(errors.ErrCodeIndicatorAlreadyExists, "indicator with name %s already registered", name)
	}

	r.constructors[name] = constructor

	return nil
}

// GetIndicator builds a fresh instance of the named indicator, so callers
// can Config it without affecting each other.
func (r *IndicatorRegistryV1) GetIndicator(name types.IndicatorType) (Indicator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	constructor, exists := r.constructors[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator with name %s not found", name)
	}

	return constructor(), nil
}

// ListIndicators returns a list of all registered indicator names.
func (r *IndicatorRegistryV1) ListIndicators() []types.IndicatorType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]types.IndicatorType, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}

	return names
}

// RemoveIndicator removes an indicator from the registry.
func (r *IndicatorRegistryV1) RemoveIndicator(name types.IndicatorType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.constructors[name]; !exists {
		return errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator with name %s not found", name)
	}

	delete(r.constructors, name)

	return nil
}

// resolve builds the named indicator from the default registry, asserts its
// concrete type and applies the given configuration parameters.
func resolve[T Indicator](name types.IndicatorType, params ...any) (T, error) {
	var zero T

	ind, err := defaultRegistry.GetIndicator(name)
	if err != nil {
		return zero, err
	}

	typed, ok := ind.(T)
	if !ok {
		return zero, errors.Newf(errors.ErrCodeInvalidType, "indicator %s has unexpected implementation %T", name, ind)
	}

	if len(params) > 0 {
		if err := typed.Config(params...); err != nil {
			return zero, err
		}
	}

	return typed, nil
}
