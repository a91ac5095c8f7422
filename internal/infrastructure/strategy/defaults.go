package strategy

import (
	"github.com/freshchain/scms/internal/domain/shared/strategy"
	"github.com/freshchain/scms/internal/infrastructure/strategy/batch"
	"github.com/freshchain/scms/internal/infrastructure/strategy/pricing"
)

// NewRegistryWithDefaults registers FIFO, FEFO and the rule-stacked pricing strategy.
// defaultBatch selects the method used when a request names none; empty means "fefo".
func NewRegistryWithDefaults(defaultBatch string) (*StrategyRegistry, error) {
	r := NewStrategyRegistry()

	fifoBatch := batch.NewFIFOBatchStrategy()
	if err := r.RegisterBatchStrategy(fifoBatch); err != nil {
		return nil, err
	}

	fefoBatch := batch.NewFEFOBatchStrategy()
	if err := r.RegisterBatchStrategy(fefoBatch); err != nil {
		return nil, err
	}

	ruleStacked := pricing.NewRuleStackedPricingStrategy()
	if err := r.RegisterPricingStrategy(ruleStacked); err != nil {
		return nil, err
	}

	if defaultBatch == "" {
		defaultBatch = fefoBatch.Name()
	}
	if err := r.SetDefault(strategy.StrategyTypeBatch, defaultBatch); err != nil {
		return nil, err
	}
	if err := r.SetDefault(strategy.StrategyTypePricing, ruleStacked.Name()); err != nil {
		return nil, err
	}

	return r, nil
}
