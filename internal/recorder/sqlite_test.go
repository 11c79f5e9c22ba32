package recorder

import (
	"path/filepath"
	"testing"

	"github.com/khoon485/toss-stock/internal/model"
)

func TestSQLiteRecorder_RecordRun(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	defer r.Close()

	market := &model.MarketSnapshot{VIX: 18.4, HasVIX: true, Sentiment: model.Greed}
	report := &model.Report{
		AnalyzedAt: "2026-08-28 07:00:00",
		Market:     market,
		Holdings: []*model.Analysis{
			{
				Symbol:         "AAPL",
				CurrentPrice:   230.5,
				Score:          2.5,
				Recommendation: model.Buy,
				Confidence:     model.ConfidenceMedium,
				Indicators:     map[string]float64{"RSI": 55.2, "Volume_Ratio": 1.1},
				Bitgak:         &model.BitgakResult{Score: 1.5, Grade: model.BitgakModerate},
				Strategy:       &model.TradeStrategy{Action: "BUY", PositionSize: "20%"},
			},
			{Symbol: "FAIL", Error: "no data"},
		},
	}

	if err := r.RecordRun(report, market); err != nil {
		t.Fatalf("record run: %v", err)
	}

	var analyzed, failed int
	if err := r.db.QueryRow(`SELECT analyzed, failed FROM batch_runs`).Scan(&analyzed, &failed); err != nil {
		t.Fatalf("query run: %v", err)
	}
	if analyzed != 1 || failed != 1 {
		t.Errorf("expected 1/1, got %d/%d", analyzed, failed)
	}

	var rows int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM analysis_snapshots`).Scan(&rows); err != nil {
		t.Fatalf("query snapshots: %v", err)
	}
	if rows != 2 {
		t.Errorf("expected 2 snapshot rows, got %d", rows)
	}

	var rec string
	var score float64
	if err := r.db.QueryRow(`SELECT recommendation, bitgak_score FROM analysis_snapshots WHERE symbol = 'AAPL'`).Scan(&rec, &score); err != nil {
		t.Fatalf("query AAPL: %v", err)
	}
	if rec != "BUY" || score != 1.5 {
		t.Errorf("unexpected row: %s/%f", rec, score)
	}
}

func TestSQLiteRecorder_SecondRunNewID(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	report := &model.Report{}
	if err := r.RecordRun(report, nil); err != nil {
		t.Fatal(err)
	}
	if err := r.RecordRun(report, nil); err != nil {
		t.Fatal(err)
	}
	var runs int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM batch_runs`).Scan(&runs); err != nil {
		t.Fatal(err)
	}
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}
}
