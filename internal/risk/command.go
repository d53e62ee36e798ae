package risk

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"FXSentinel/internal/model"
)

// Usage is the help text for the /setrisk command.
const Usage = "Usage: /setrisk balance risk_percent [reward_risk]\nExample: /setrisk 10000 1 2"

var (
	// ErrUsage is returned when the argument count is wrong.
	ErrUsage = errors.New("wrong number of arguments")
	// ErrFormat is returned when an argument is not a valid number.
	ErrFormat = errors.New("wrong format")
)

// ParseSetRisk parses "/setrisk" arguments on top of current. The reward:risk
// ratio is optional and kept from current when omitted.
func ParseSetRisk(args []string, current model.RiskConfig) (model.RiskConfig, error) {
	if len(args) < 2 || len(args) > 3 {
		return current, ErrUsage
	}
	values := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
		if err != nil {
			return current, fmt.Errorf("%w: %q is not a number", ErrFormat, a)
		}
		values[i] = v
	}

	next := current
	next.AccountBalance = values[0]
	next.RiskPercent = values[1]
	if len(values) == 3 {
		next.RewardRiskRatio = values[2]
	}
	if err := Validate(next); err != nil {
		return current, err
	}
	return next, nil
}

// Validate checks that every field is usable for sizing.
func Validate(cfg model.RiskConfig) error {
	switch {
	case !(cfg.AccountBalance > 0):
		return fmt.Errorf("%w: balance must be positive", ErrFormat)
	case !(cfg.RiskPercent > 0 && cfg.RiskPercent <= 100):
		return fmt.Errorf("%w: risk percent must be in (0, 100]", ErrFormat)
	case !(cfg.RewardRiskRatio > 0):
		return fmt.Errorf("%w: reward:risk must be positive", ErrFormat)
	}
	return nil
}
