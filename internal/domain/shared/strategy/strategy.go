package strategy

// StrategyType groups strategies the registry can hold a default for
type StrategyType string

const (
	StrategyTypeBatch   StrategyType = "batch"
	StrategyTypePricing StrategyType = "pricing"
)

// Strategy is the base interface for batch and pricing strategies
type Strategy interface {
	// Name is the key the strategy is registered and requested under, e.g. "fefo"
	Name() string
	Type() StrategyType
	Description() string
}

// BaseStrategy carries the identifying fields every strategy embeds
type BaseStrategy struct {
	name         string
	strategyType StrategyType
	description  string
}

// NewBaseStrategy creates a new BaseStrategy
func NewBaseStrategy(name string, strategyType StrategyType, description string) BaseStrategy {
	return BaseStrategy{
		name:         name,
		strategyType: strategyType,
		description:  description,
	}
}

func (s BaseStrategy) Name() string {
	return s.name
}

func (s BaseStrategy) Type() StrategyType {
	return s.strategyType
}

func (s BaseStrategy) Description() string {
	return s.description
}
