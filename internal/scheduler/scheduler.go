package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/khoon485/toss-stock/internal/notifier"
	"github.com/khoon485/toss-stock/internal/portfolio"
	"github.com/khoon485/toss-stock/internal/recorder"
)

// Scheduler runs the portfolio batch on a cron expression and serves
// Telegram commands.
type Scheduler struct {
	Cron       *cron.Cron
	Manager    *portfolio.Manager
	ReportsDir string
	Notifier   *notifier.TelegramNotifier
	Recorder   recorder.Recorder
	Ctx        context.Context

	log     zerolog.Logger
	running sync.Mutex
}

// NewScheduler wires the batch job. Notifier may be nil when Telegram is
// not configured.
func NewScheduler(ctx context.Context, mgr *portfolio.Manager, reportsDir string, tn *notifier.TelegramNotifier, rec recorder.Recorder, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Manager:    mgr,
		ReportsDir: reportsDir,
		Notifier:   tn,
		Recorder:   rec,
		Ctx:        ctx,
		log:        log,
	}
}

// Register schedules the batch analysis.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.RunBatch); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("스케줄러 시작")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.log.Info().Msg("스케줄러 종료")
}

// RunBatch executes one full portfolio analysis: report files, history
// recording, Telegram digest. Overlapping runs are serialized.
func (s *Scheduler) RunBatch() {
	s.running.Lock()
	defer s.running.Unlock()

	s.log.Info().Msg("배치 분석 시작")
	report, err := s.Manager.Run()
	if err != nil {
		s.log.Error().Err(err).Msg("배치 분석 실패")
		s.trySend(fmt.Sprintf("❌ 포트폴리오 분석 실패: %v", err))
		return
	}

	jsonPath, txtPath, err := portfolio.WriteReport(s.ReportsDir, report)
	if err != nil {
		s.log.Error().Err(err).Msg("리포트 저장 실패")
	} else {
		s.log.Info().Str("json", jsonPath).Str("txt", txtPath).Msg("리포트 저장 완료")
	}

	if err := s.Recorder.RecordRun(report, report.Market); err != nil {
		s.log.Error().Err(err).Msg("분석 이력 기록 실패")
	}

	s.trySend(notifier.FormatBatchSummary(report))
}

// HandleCommand processes a Telegram command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "분석", "/analyze":
		s.RunBatch()
		return ""
	case "최근 리포트", "/latest":
		report, err := portfolio.LoadLatestReport(s.ReportsDir)
		if err != nil {
			return fmt.Sprintf("저장된 리포트가 없습니다: %v", err)
		}
		return notifier.FormatBatchSummary(report)
	default:
		return "사용 가능한 명령:\n• /analyze - 포트폴리오 분석 실행\n• /latest - 최근 리포트 요약"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("텔레그램 전송 실패")
	}
}
