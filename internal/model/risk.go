package model

// RiskConfig drives stop-loss, take-profit and position sizing.
type RiskConfig struct {
	AccountBalance  float64 `json:"account_balance" yaml:"account_balance"`
	RiskPercent     float64 `json:"risk_percent" yaml:"risk_percent"`
	RewardRiskRatio float64 `json:"reward_risk_ratio" yaml:"reward_risk_ratio"`
}

// DefaultRiskConfig is used when nothing else is configured.
func DefaultRiskConfig() RiskConfig {
	return RiskConfig{AccountBalance: 10000, RiskPercent: 1, RewardRiskRatio: 2}
}
