package cost

import (
	"fmt"
	"strings"
)

type PricingTable struct {
	InputPricePerMillion  float64
	OutputPricePerMillion float64
}

type ProviderPricing map[string]map[string]PricingTable

// https://ai.google.dev/gemini-api/docs/pricing
func defaultPricing() ProviderPricing {
	return ProviderPricing{
		"gemini": {
			"gemini-2.5-flash-lite": {InputPricePerMillion: 0.10, OutputPricePerMillion: 0.40},
			"gemini-2.5-flash":      {InputPricePerMillion: 0.30, OutputPricePerMillion: 2.50},
			"gemini-2.5-pro":        {InputPricePerMillion: 1.25, OutputPricePerMillion: 10.00},
		},
	}
}

type Calculator struct {
	pricing ProviderPricing
}

func NewCalculator() *Calculator {
	return &Calculator{pricing: defaultPricing()}
}

// EstimateCost returns the USD cost of a call. Unknown models cost 0.
func (c *Calculator) EstimateCost(provider, model string, inputTokens, outputTokens int) float64 {
	modelPricing, ok := c.lookup(strings.ToLower(provider), strings.ToLower(model))
	if !ok {
		return 0
	}

	inputCost := (float64(inputTokens) / 1_000_000) * modelPricing.InputPricePerMillion
	outputCost := (float64(outputTokens) / 1_000_000) * modelPricing.OutputPricePerMillion

	return inputCost + outputCost
}

// lookup prefers an exact model match, then the longest known name the model starts with,
// so "gemini-2.5-flash-lite-001" never resolves to "gemini-2.5-flash".
func (c *Calculator) lookup(provider, model string) (PricingTable, bool) {
	providerPricing, exists := c.pricing[provider]
	if !exists {
		return PricingTable{}, false
	}

	if modelPricing, exists := providerPricing[model]; exists {
		return modelPricing, true
	}

	var (
		best      PricingTable
		bestMatch string
	)
	for modelName, prices := range providerPricing {
		if strings.HasPrefix(model, modelName) && len(modelName) > len(bestMatch) {
			best = prices
			bestMatch = modelName
		}
	}
	return best, bestMatch != ""
}

// GetPricing returns the pricing table for a provider and model
func (c *Calculator) GetPricing(provider, model string) (PricingTable, error) {
	provider = strings.ToLower(provider)
	model = strings.ToLower(model)

	providerPricing, exists := c.pricing[provider]
	if !exists {
		return PricingTable{}, fmt.Errorf("provider %s not found", provider)
	}

	modelPricing, exists := providerPricing[model]
	if !exists {
		return PricingTable{}, fmt.Errorf("model %s not found for provider %s", model, provider)
	}

	return modelPricing, nil
}

// AddPricing registers or overrides the price of a model.
func (c *Calculator) AddPricing(provider, model string, table PricingTable) {
	provider = strings.ToLower(provider)
	model = strings.ToLower(model)

	if _, exists := c.pricing[provider]; !exists {
		c.pricing[provider] = make(map[string]PricingTable)
	}
	c.pricing[provider][model] = table
}
