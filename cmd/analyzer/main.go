package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/khoon485/toss-stock/internal/collector"
	"github.com/khoon485/toss-stock/internal/config"
	"github.com/khoon485/toss-stock/internal/logging"
	"github.com/khoon485/toss-stock/internal/notifier"
	"github.com/khoon485/toss-stock/internal/portfolio"
	"github.com/khoon485/toss-stock/internal/recorder"
	"github.com/khoon485/toss-stock/internal/scheduler"
)

func main() {
	once := flag.Bool("once", false, "run a single analysis and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		bootLog := logging.Setup("info", "console")
		bootLog.Fatal().Err(err).Msg("설정 로드 실패")
	}
	log := logging.Setup(cfg.Log.Level, cfg.Log.Format)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("설정 검증 실패")
	}

	fetcher := collector.NewYahooFetcher(cfg.Proxy)
	log.Info().Str("source", fetcher.Name()).Msg("toss-stock 시작")

	store := portfolio.NewStore(cfg.Data.PortfolioFile)
	manager := portfolio.NewManager(store, fetcher, cfg.Analysis.HistoryDays, cfg.Analysis.FallbackRate, log)

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("SQLite 초기화 실패, 기록 생략")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	var tn *notifier.TelegramNotifier
	if cfg.Telegram.Enabled {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, manager, cfg.Data.ReportsDir, tn, rec, log)

	if *once {
		sched.RunBatch()
		return
	}

	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatal().Err(err).Msg("스케줄 등록 실패")
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("텔레그램 폴링 시작")
	}

	if cfg.Schedule.RunOnStart {
		go sched.RunBatch()
	}

	log.Info().Str("cron", cfg.Schedule.Cron).Msg("대기 중, Ctrl+C로 종료")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("종료 신호 수신, 정리 중")
	cancel()
}
