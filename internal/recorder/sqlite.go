package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/khoon485/toss-stock/internal/model"
)

// SQLiteRecorder persists batch runs to a SQLite database.
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

	// WAL mode for better concurrent read performance (dashboards read
	// while the analyzer writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS batch_runs (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp        INTEGER NOT NULL,
			market           TEXT,
			market_sentiment TEXT,
			vix              REAL,
			holdings         INTEGER,
			analyzed         INTEGER,
			failed           INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON batch_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS analysis_snapshots (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          INTEGER NOT NULL,
			timestamp       INTEGER NOT NULL,
			symbol          TEXT NOT NULL,
			underlying      TEXT,
			market          TEXT,
			current_price   REAL,
			score           REAL,
			combo_bonus     REAL,
			buy_signals     INTEGER,
			sell_signals    INTEGER,
			confidence      TEXT,
			recommendation  TEXT,
			rsi             REAL,
			volume_ratio    REAL,
			from_high_52w   REAL,
			from_low_52w    REAL,
			bitgak_score    REAL,
			bitgak_grade    TEXT,
			strategy_action TEXT,
			position_size   TEXT,
			error           TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_run ON analysis_snapshots(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_symbol ON analysis_snapshots(symbol, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun inserts the batch row and one snapshot row per holding.
func (r *SQLiteRecorder) RecordRun(report *model.Report, market *model.MarketSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()

	analyzed, failed := 0, 0
	for _, a := range report.Holdings {
		if a.Error != "" {
			failed++
		} else {
			analyzed++
		}
	}

	sentiment, vix, marketJSON := "", 0.0, ""
	if market != nil {
		sentiment = string(market.Sentiment)
		vix = market.VIX
		if data, err := json.Marshal(market); err == nil {
			marketJSON = string(data)
		}
	}

	res, err := r.db.Exec(`INSERT INTO batch_runs
		(timestamp, market, market_sentiment, vix, holdings, analyzed, failed)
		VALUES (?,?,?,?,?,?,?)`,
		now, marketJSON, sentiment, vix, len(report.Holdings), analyzed, failed,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	for _, a := range report.Holdings {
		bitgakScore, bitgakGrade := 0.0, ""
		if a.Bitgak != nil {
			bitgakScore = a.Bitgak.Score
			bitgakGrade = string(a.Bitgak.Grade)
		}
		action, positionSize := "", ""
		if a.Strategy != nil {
			action = a.Strategy.Action
			positionSize = a.Strategy.PositionSize
		}

		_, err := r.db.Exec(`INSERT INTO analysis_snapshots
			(run_id, timestamp, symbol, underlying, market, current_price,
			 score, combo_bonus, buy_signals, sell_signals, confidence, recommendation,
			 rsi, volume_ratio, from_high_52w, from_low_52w,
			 bitgak_score, bitgak_grade, strategy_action, position_size, error)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			runID, now, a.Symbol, a.Underlying, a.Market, a.CurrentPrice,
			a.Score, a.ComboBonus, a.BuySignals, a.SellSignals,
			string(a.Confidence), string(a.Recommendation),
			a.Indicators["RSI"], a.Indicators["Volume_Ratio"],
			a.FromHigh52w, a.FromLow52w,
			bitgakScore, bitgakGrade, action, positionSize, a.Error,
		)
		if err != nil {
			return fmt.Errorf("insert snapshot %s: %w", a.Symbol, err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
