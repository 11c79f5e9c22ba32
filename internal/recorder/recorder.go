package recorder

import "github.com/khoon485/toss-stock/internal/model"

// Recorder persists batch runs and per-symbol results for later review.
type Recorder interface {
	RecordRun(report *model.Report, market *model.MarketSnapshot) error
	Close() error
}
