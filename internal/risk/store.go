package risk

import (
	"log"
	"sync"

	"FXSentinel/internal/model"
)

// Store holds the single writable risk configuration. Evaluations read a
// value snapshot so a concurrent update never changes a result mid-way.
type Store struct {
	mu    sync.RWMutex
	state model.RiskConfig
}

// NewStore creates a Store seeded with cfg, filling zero fields from the defaults.
func NewStore(cfg model.RiskConfig) *Store {
	def := model.DefaultRiskConfig()
	if cfg.AccountBalance <= 0 {
		cfg.AccountBalance = def.AccountBalance
	}
	if cfg.RiskPercent <= 0 {
		cfg.RiskPercent = def.RiskPercent
	}
	if cfg.RewardRiskRatio <= 0 {
		cfg.RewardRiskRatio = def.RewardRiskRatio
	}
	return &Store{state: cfg}
}

// Snapshot returns a copy of the current configuration.
func (s *Store) Snapshot() model.RiskConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Set replaces the configuration and returns the previous one.
func (s *Store) Set(cfg model.RiskConfig) model.RiskConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state
	s.state = cfg
	log.Printf("[INFO] risk updated: balance=%.2f risk=%.2f%% rr=%.2f",
		cfg.AccountBalance, cfg.RiskPercent, cfg.RewardRiskRatio)
	return prev
}
