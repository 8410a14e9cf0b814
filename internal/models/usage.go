package models

type TokenUsage struct {
	InputTokens  int     `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens int     `json:"output_tokens" yaml:"output_tokens"`
	TotalTokens  int     `json:"total_tokens" yaml:"total_tokens"`
	CostUSD      float64 `json:"cost_usd,omitempty" yaml:"cost_usd,omitempty"`
	Model        string  `json:"model,omitempty" yaml:"model,omitempty"`
	DurationMs   int64   `json:"duration_ms,omitempty" yaml:"duration_ms,omitempty"`
}

// Add accumulates other into u. A nil other is ignored.
func (u *TokenUsage) Add(other *TokenUsage) {
	if other == nil {
		return
	}
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
	u.CostUSD += other.CostUSD
	u.DurationMs += other.DurationMs
	if u.Model == "" {
		u.Model = other.Model
	}
}
