package recorder

import "FXSentinel/internal/model"

// SignalSnapshot is one evaluated signal together with what produced it.
type SignalSnapshot struct {
	Result  model.SignalResult
	Trigger model.TriggerType
	Risk    model.RiskConfig
}

// RiskEvent records a change of the process-wide risk configuration.
type RiskEvent struct {
	ChatID int64
	Before model.RiskConfig
	After  model.RiskConfig
}

// Recorder journals signals and risk changes for later analysis.
type Recorder interface {
	RecordSignal(snap *SignalSnapshot) error
	RecordRiskUpdate(evt *RiskEvent) error
	Close() error
}
