package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"FXSentinel/internal/calculator"
	"FXSentinel/internal/chart"
	"FXSentinel/internal/collector"
	"FXSentinel/internal/model"
	"FXSentinel/internal/notifier"
	"FXSentinel/internal/recorder"
	"FXSentinel/internal/risk"
	"FXSentinel/internal/strategy"
)

// DefaultSendRetries bounds SendWithRetry for alert delivery.
const DefaultSendRetries = 3

// Messenger is the subset of the Telegram client the bot shell needs.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string, markup *notifier.InlineKeyboardMarkup) (int, error)
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string, markup *notifier.InlineKeyboardMarkup) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	AnswerCallbackQuery(ctx context.Context, callbackID string) error
	SendPhoto(ctx context.Context, chatID int64, png []byte, caption string) error
}

// Scheduler runs the periodic alert sweep and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Engine    *strategy.Engine
	Risk      *risk.Store
	Messenger Messenger
	Recorder  recorder.Recorder
	ChatIDs   []int64
	Ctx       context.Context

	// SendRetries is the retry budget per chat for sweep alerts.
	SendRetries int
	sweepMu     sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, eng *strategy.Engine, rs *risk.Store,
	msg Messenger, rec recorder.Recorder, chatIDs []int64) *Scheduler {
	logger := cron.PrintfLogger(log.Default())
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.DelayIfStillRunning(logger)),
		),
		Collector: col,
		Engine:    eng,
		Risk:      rs,
		Messenger: msg,
		Recorder:  rec,
		ChatIDs:   chatIDs,
		Ctx:       ctx,

		SendRetries: DefaultSendRetries,
	}
}

// RegisterAll registers the alert sweep.
func (s *Scheduler) RegisterAll(alertCron string) error {
	if _, err := s.Cron.AddFunc(alertCron, s.sweepTask); err != nil {
		return fmt.Errorf("register alert sweep: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunAfter runs one sweep after delay unless ctx ends first.
func (s *Scheduler) RunAfter(ctx context.Context, delay time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(delay):
		s.RunSweepNow()
	}
}

// RunSweepNow executes the alert sweep immediately.
func (s *Scheduler) RunSweepNow() {
	s.sweepTask()
}

func (s *Scheduler) sweepTask() {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()

	log.Println("[INFO] running alert sweep")
	alerts := 0
	for _, pair := range model.Pairs() {
		if s.Ctx.Err() != nil {
			return
		}
		a := s.analyze(s.Ctx, pair, model.TriggerSweep)
		if !a.Result.Classification.Actionable() {
			continue
		}
		alerts++
		s.broadcast(a)
	}
	log.Printf("[INFO] alert sweep done: %d alerts", alerts)
}

// analysis is one evaluated pair with the inputs that produced it.
type analysis struct {
	Result model.SignalResult
	Series model.PriceSeries
	Risk   model.RiskConfig
}

// analyze fetches data for pair and evaluates it. Failures produce a degraded
// HOLD; they never abort the caller.
func (s *Scheduler) analyze(ctx context.Context, pair model.CurrencyPair, trigger model.TriggerType) analysis {
	riskCfg := s.Risk.Snapshot()

	series, err := s.Collector.History(ctx, pair)
	if err != nil {
		log.Printf("[WARN] %s history: %v", pair.Name, err)
		res := s.Engine.Degraded(pair.Name, collector.Classify(err))
		s.record(res, trigger, riskCfg)
		return analysis{Result: res, Series: series, Risk: riskCfg}
	}

	var live *float64
	if rate, err := s.Collector.LiveRate(ctx, pair); err != nil {
		log.Printf("[WARN] %s live rate: %v", pair.Name, err)
	} else {
		live = &rate
	}

	res := s.Engine.Evaluate(series, live, riskCfg)
	log.Printf("[INFO] %s: %s strength=%+d degraded=%q", pair.Name, res.Classification, res.Strength, res.Degraded)
	s.record(res, trigger, riskCfg)
	return analysis{Result: res, Series: series, Risk: riskCfg}
}

func (s *Scheduler) record(res model.SignalResult, trigger model.TriggerType, riskCfg model.RiskConfig) {
	if err := s.Recorder.RecordSignal(&recorder.SignalSnapshot{Result: res, Trigger: trigger, Risk: riskCfg}); err != nil {
		log.Printf("[ERROR] record signal: %v", err)
	}
}

// chartIndicators returns the indicator set to draw. Results scored on a
// short series carry none, so they are computed here for the chart alone.
func (s *Scheduler) chartIndicators(a analysis) model.IndicatorSet {
	if len(a.Result.Indicators.SMA20) == a.Series.Len() {
		return a.Result.Indicators
	}
	return calculator.Compute(a.Series, s.Engine.Levels)
}

// renderChart returns nil when no chart can be drawn.
func (s *Scheduler) renderChart(a analysis) []byte {
	if a.Series.Len() < chart.MinBars {
		return nil
	}
	png, err := chart.Render(a.Series, s.chartIndicators(a))
	if err != nil {
		if !errors.Is(err, chart.ErrTooShort) {
			log.Printf("[WARN] %v", err)
		}
		return nil
	}
	return png
}

// broadcast pushes an alert to every configured chat. A failing chat does not
// stop delivery to the others.
func (s *Scheduler) broadcast(a analysis) {
	res := a.Result
	text := notifier.FormatSignal(res, a.Risk)
	png := s.renderChart(a)
	caption := fmt.Sprintf("<b>%s</b> | %s", res.Pair, res.Classification.Label())

	for _, chatID := range s.ChatIDs {
		if png != nil {
			err := notifier.SendWithRetry(s.Ctx, s.SendRetries, func() error {
				return s.Messenger.SendPhoto(s.Ctx, chatID, png, caption)
			})
			if err != nil {
				log.Printf("[ERROR] send chart to %d: %v", chatID, err)
			}
		}
		err := notifier.SendWithRetry(s.Ctx, s.SendRetries, func() error {
			_, err := s.Messenger.SendMessage(s.Ctx, chatID, text, nil)
			return err
		})
		if err != nil {
			log.Printf("[ERROR] send alert to %d: %v", chatID, err)
		}
	}
}
