package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"FXSentinel/internal/calculator"
	"FXSentinel/internal/collector"
	"FXSentinel/internal/config"
	"FXSentinel/internal/notifier"
	"FXSentinel/internal/recorder"
	"FXSentinel/internal/risk"
	"FXSentinel/internal/scheduler"
	"FXSentinel/internal/strategy"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] FXSentinel starting...")

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] load .env: %v", err)
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	chatIDs, err := cfg.ChatIDs()
	if err != nil {
		log.Fatalf("[FATAL] parse chat ids: %v", err)
	}
	if len(chatIDs) == 0 {
		log.Println("[WARN] no chat ids configured, alert sweep will not push alerts")
	}

	// Init fetcher and collector
	fetcher := collector.NewFrankfurterFetcher(cfg.DataSource.BaseURL, cfg.Proxy, cfg.DataSource.Timeout)
	log.Printf("[INFO] data source: %s (%s)", fetcher.Name(), cfg.DataSource.BaseURL)
	col := collector.NewCollector(fetcher, cfg.DataSource.HistoryDays)

	// Init signal engine
	levels, err := calculator.LevelStrategyByName(cfg.Signal.Levels)
	if err != nil {
		log.Fatalf("[FATAL] support/resistance strategy: %v", err)
	}
	engine := strategy.NewEngine(cfg.Signal.Threshold, levels, cfg.Signal.HoldLevels)
	log.Printf("[INFO] signal engine: threshold=%d levels=%s hold_levels=%v",
		engine.Threshold, levels.Name(), engine.HoldLevels)

	riskStore := risk.NewStore(cfg.Risk)

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, engine, riskStore, tn, rec, chatIDs)
	if err := sched.RegisterAll(cfg.Schedule.AlertCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleUpdate)
	log.Println("[INFO] Telegram polling started")

	go sched.RunAfter(ctx, cfg.Schedule.FirstRunDelay)
	log.Printf("[INFO] first alert sweep in %v, then %s", cfg.Schedule.FirstRunDelay, cfg.Schedule.AlertCron)

	log.Println("[INFO] FXSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] FXSentinel stopped")
}
