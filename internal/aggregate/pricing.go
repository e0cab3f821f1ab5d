package aggregate

import "github.com/contentops/benchconsole/internal/models"

// CostEstimator prices one question's token usage in USD.
type CostEstimator interface {
	EstimateCost(model models.ModelConfig, inputTokens, outputTokens int) float64
}

// Rate is a price in USD per million tokens.
type Rate struct {
	InputPerMillion  float64 `json:"inputPerMillion" yaml:"input_per_million"`
	OutputPerMillion float64 `json:"outputPerMillion" yaml:"output_per_million"`
}

// Cost returns the price of the given token counts at this rate.
func (r Rate) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*r.InputPerMillion + float64(outputTokens)*r.OutputPerMillion) / 1_000_000
}

// Pricing is a per-model rate table with a fallback rate. Keys are either
// "provider/name" or a bare model name; the qualified key wins.
type Pricing struct {
	Default Rate            `json:"default" yaml:"default"`
	Models  map[string]Rate `json:"models,omitempty" yaml:"models,omitempty"`
}

// RateFor returns the rate that applies to model.
func (p Pricing) RateFor(model models.ModelConfig) Rate {
	if r, ok := p.Models[model.Key().String()]; ok {
		return r
	}
	if r, ok := p.Models[model.Name]; ok {
		return r
	}
	return p.Default
}

// EstimateCost implements CostEstimator.
func (p Pricing) EstimateCost(model models.ModelConfig, inputTokens, outputTokens int) float64 {
	return p.RateFor(model).Cost(inputTokens, outputTokens)
}

type noCost struct{}

func (noCost) EstimateCost(models.ModelConfig, int, int) float64 { return 0 }

var _ CostEstimator = Pricing{}
