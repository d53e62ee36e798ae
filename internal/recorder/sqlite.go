package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists signals and risk changes to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id             TEXT PRIMARY KEY,
			timestamp      INTEGER NOT NULL,
			pair           TEXT NOT NULL,
			trigger_type   TEXT NOT NULL,
			classification TEXT NOT NULL,
			strength       INTEGER,
			close          REAL,
			live_rate      REAL,
			stop_loss      REAL,
			take_profit    REAL,
			atr            REAL,
			position_size  REAL,
			degraded       TEXT,
			levels         TEXT,
			reasons        TEXT,
			balance        REAL,
			risk_percent   REAL,
			reward_risk    REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_pair_ts ON signals(pair, timestamp)`,

		`CREATE TABLE IF NOT EXISTS risk_history (
			id              TEXT PRIMARY KEY,
			timestamp       INTEGER NOT NULL,
			chat_id         INTEGER,
			balance_before  REAL,
			balance_after   REAL,
			risk_before     REAL,
			risk_after      REAL,
			reward_before   REAL,
			reward_after    REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_risk_ts ON risk_history(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSignal(snap *SignalSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := snap.Result
	id := res.ID
	if id == "" {
		id = uuid.NewString()
	}
	ts := res.GeneratedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := r.db.Exec(`INSERT INTO signals
		(id, timestamp, pair, trigger_type, classification, strength,
		 close, live_rate, stop_loss, take_profit, atr, position_size,
		 degraded, levels, reasons, balance, risk_percent, reward_risk)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		id, ts.Unix(), res.Pair, string(snap.Trigger), string(res.Classification), int64(res.Strength),
		res.Close, nullable(res.LiveRate), nullable(res.StopLoss), nullable(res.TakeProfit), res.ATR, res.PositionSize,
		string(res.Degraded), res.Indicators.Levels, strings.Join(res.Reasons, "; "),
		snap.Risk.AccountBalance, snap.Risk.RiskPercent, snap.Risk.RewardRiskRatio,
	)
	return err
}

// nullable maps an optional value to NULL.
func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func (r *SQLiteRecorder) RecordRiskUpdate(evt *RiskEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO risk_history
		(id, timestamp, chat_id, balance_before, balance_after,
		 risk_before, risk_after, reward_before, reward_after)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		uuid.NewString(), time.Now().Unix(), evt.ChatID,
		evt.Before.AccountBalance, evt.After.AccountBalance,
		evt.Before.RiskPercent, evt.After.RiskPercent,
		evt.Before.RewardRiskRatio, evt.After.RewardRiskRatio,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
