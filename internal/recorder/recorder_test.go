package recorder

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FXSentinel/internal/model"
)

func openTemp(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestSQLiteRecorder_RecordSignal(t *testing.T) {
	r := openTemp(t)
	live, sl, tp := 1.1, 1.099, 1.102
	res := model.SignalResult{
		ID:             "sig-1",
		Pair:           "EUR/USD",
		Classification: model.StrongBuy,
		Strength:       3,
		Close:          1.1,
		LiveRate:       &live,
		StopLoss:       &sl,
		TakeProfit:     &tp,
		ATR:            0.001,
		PositionSize:   1,
		Reasons:        []string{"Golden Cross", "near support"},
		Indicators:     model.IndicatorSet{Levels: "extrema"},
		GeneratedAt:    time.Unix(1700000000, 0),
	}
	require.NoError(t, r.RecordSignal(&SignalSnapshot{Result: res, Trigger: model.TriggerSweep, Risk: model.DefaultRiskConfig()}))

	var (
		pair, trigger, class, reasons string
		ts                            int64
		stopLoss                      sql.NullFloat64
	)
	err := r.db.QueryRow(`SELECT pair, trigger_type, classification, reasons, timestamp, stop_loss FROM signals WHERE id = ?`, "sig-1").
		Scan(&pair, &trigger, &class, &reasons, &ts, &stopLoss)
	require.NoError(t, err)
	assert.Equal(t, "EUR/USD", pair)
	assert.Equal(t, "SWEEP", trigger)
	assert.Equal(t, "STRONG_BUY", class)
	assert.Equal(t, "Golden Cross; near support", reasons)
	assert.Equal(t, int64(1700000000), ts)
	assert.True(t, stopLoss.Valid)
	assert.InDelta(t, 1.099, stopLoss.Float64, 1e-12)
}

func TestSQLiteRecorder_NilLevelsStoredAsNull(t *testing.T) {
	r := openTemp(t)
	res := model.SignalResult{Pair: "USD/JPY", Classification: model.Hold, Degraded: model.NoData}
	require.NoError(t, r.RecordSignal(&SignalSnapshot{Result: res, Trigger: model.TriggerManual}))

	var (
		id       string
		stopLoss sql.NullFloat64
		degraded string
	)
	require.NoError(t, r.db.QueryRow(`SELECT id, stop_loss, degraded FROM signals WHERE pair = ?`, "USD/JPY").
		Scan(&id, &stopLoss, &degraded))
	assert.NotEmpty(t, id)
	assert.False(t, stopLoss.Valid)
	assert.Equal(t, "no_data", degraded)
}

func TestSQLiteRecorder_RecordRiskUpdate(t *testing.T) {
	r := openTemp(t)
	evt := &RiskEvent{
		ChatID: 42,
		Before: model.DefaultRiskConfig(),
		After:  model.RiskConfig{AccountBalance: 5000, RiskPercent: 2, RewardRiskRatio: 3},
	}
	require.NoError(t, r.RecordRiskUpdate(evt))
	require.NoError(t, r.RecordRiskUpdate(evt))

	var count int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM risk_history WHERE chat_id = 42`).Scan(&count))
	assert.Equal(t, 2, count)

	var before, after float64
	require.NoError(t, r.db.QueryRow(`SELECT balance_before, balance_after FROM risk_history LIMIT 1`).Scan(&before, &after))
	assert.Equal(t, 10000.0, before)
	assert.Equal(t, 5000.0, after)
}

func TestSQLiteRecorder_ReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.RecordSignal(&SignalSnapshot{Result: model.SignalResult{Pair: "EUR/USD", Classification: model.Hold}, Trigger: model.TriggerManual}))
	require.NoError(t, r.Close())

	r, err = NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()
	var count int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM signals`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordSignal(&SignalSnapshot{}))
	assert.NoError(t, r.RecordRiskUpdate(&RiskEvent{}))
	assert.NoError(t, r.Close())
}
