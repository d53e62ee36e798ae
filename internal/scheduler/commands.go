package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"FXSentinel/internal/model"
	"FXSentinel/internal/notifier"
	"FXSentinel/internal/recorder"
	"FXSentinel/internal/risk"
)

// HandleUpdate routes one polled update to the command or callback handler.
func (s *Scheduler) HandleUpdate(ctx context.Context, u notifier.Update) {
	switch {
	case u.CallbackQuery != nil:
		s.HandleCallback(ctx, u.CallbackQuery)
	case u.Message != nil:
		s.HandleMessage(ctx, u.Message)
	}
}

// HandleMessage answers a text command.
func (s *Scheduler) HandleMessage(ctx context.Context, m *notifier.Message) {
	fields := strings.Fields(m.Text)
	if len(fields) == 0 {
		return
	}
	command := strings.ToLower(fields[0])
	if i := strings.IndexByte(command, '@'); i > 0 {
		command = command[:i]
	}
	args := fields[1:]
	chatID := m.Chat.ID

	switch command {
	case "/start":
		s.reply(ctx, chatID, notifier.FormatWelcome(), notifier.MainMenu())
	case "/risk":
		s.reply(ctx, chatID, notifier.FormatRisk(s.Risk.Snapshot()), nil)
	case "/setrisk":
		s.reply(ctx, chatID, s.setRisk(chatID, args), nil)
	default: // /help and anything unrecognised
		s.reply(ctx, chatID, notifier.FormatHelp(), nil)
	}
}

// setRisk applies /setrisk arguments and returns the reply text. Bad input
// leaves the stored configuration untouched.
func (s *Scheduler) setRisk(chatID int64, args []string) string {
	current := s.Risk.Snapshot()
	next, err := risk.ParseSetRisk(args, current)
	if err != nil {
		log.Printf("[WARN] /setrisk from %d rejected: %v", chatID, err)
		if errors.Is(err, risk.ErrUsage) {
			return risk.Usage
		}
		return fmt.Sprintf("❌ %v\n\n%s", err, risk.Usage)
	}
	prev := s.Risk.Set(next)
	if err := s.Recorder.RecordRiskUpdate(&recorder.RiskEvent{ChatID: chatID, Before: prev, After: next}); err != nil {
		log.Printf("[ERROR] record risk update: %v", err)
	}
	return notifier.FormatRiskUpdated(next)
}

// HandleCallback answers an inline keyboard press.
func (s *Scheduler) HandleCallback(ctx context.Context, q *notifier.CallbackQuery) {
	if err := s.Messenger.AnswerCallbackQuery(ctx, q.ID); err != nil {
		log.Printf("[WARN] answer callback: %v", err)
	}
	if q.Message == nil {
		return
	}
	chatID, msgID := q.Message.Chat.ID, q.Message.MessageID

	switch data := q.Data; {
	case data == notifier.CallbackMain:
		s.edit(ctx, chatID, msgID, notifier.FormatWelcome(), notifier.MainMenu())
	case data == notifier.CallbackLiveMenu:
		s.edit(ctx, chatID, msgID, "💱 Choose a pair for the live rate:", notifier.PairMenu(notifier.PrefixLive))
	case data == notifier.CallbackChartMenu:
		s.edit(ctx, chatID, msgID, "📈 Choose a pair to chart and analyze:", notifier.PairMenu(notifier.PrefixChart))
	case strings.HasPrefix(data, notifier.PrefixLive):
		s.sendLiveRate(ctx, chatID, strings.TrimPrefix(data, notifier.PrefixLive))
	case strings.HasPrefix(data, notifier.PrefixChart):
		s.sendAnalysis(ctx, chatID, strings.TrimPrefix(data, notifier.PrefixChart))
	default:
		log.Printf("[WARN] unknown callback data %q", data)
	}
}

func (s *Scheduler) sendLiveRate(ctx context.Context, chatID int64, name string) {
	pair, ok := model.LookupPair(name)
	if !ok {
		s.reply(ctx, chatID, fmt.Sprintf("Unknown pair %q.", name), notifier.MainMenu())
		return
	}
	rate, err := s.Collector.LiveRate(ctx, pair)
	if err != nil {
		log.Printf("[WARN] %s live rate: %v", pair.Name, err)
	}
	s.reply(ctx, chatID, notifier.FormatLiveRate(pair.Name, rate, err), notifier.PairMenu(notifier.PrefixLive))
}

func (s *Scheduler) sendAnalysis(ctx context.Context, chatID int64, name string) {
	pair, ok := model.LookupPair(name)
	if !ok {
		s.reply(ctx, chatID, fmt.Sprintf("Unknown pair %q.", name), notifier.MainMenu())
		return
	}
	pending, err := s.Messenger.SendMessage(ctx, chatID, fmt.Sprintf("⏳ Analyzing %s...", pair.Name), nil)
	if err != nil {
		log.Printf("[WARN] send placeholder to %d: %v", chatID, err)
	}

	a := s.analyze(ctx, pair, model.TriggerManual)
	res := a.Result

	if pending != 0 {
		if err := s.Messenger.DeleteMessage(ctx, chatID, pending); err != nil {
			log.Printf("[WARN] delete placeholder: %v", err)
		}
	}
	if png := s.renderChart(a); png != nil {
		caption := fmt.Sprintf("<b>%s</b> | %s", res.Pair, res.Classification.Label())
		if err := s.Messenger.SendPhoto(ctx, chatID, png, caption); err != nil {
			log.Printf("[ERROR] send chart to %d: %v", chatID, err)
		}
	}
	s.reply(ctx, chatID, notifier.FormatSignal(res, a.Risk), notifier.PairMenu(notifier.PrefixChart))
}

func (s *Scheduler) reply(ctx context.Context, chatID int64, text string, markup *notifier.InlineKeyboardMarkup) {
	if _, err := s.Messenger.SendMessage(ctx, chatID, text, markup); err != nil {
		log.Printf("[ERROR] reply to %d: %v", chatID, err)
	}
}

func (s *Scheduler) edit(ctx context.Context, chatID int64, msgID int, text string, markup *notifier.InlineKeyboardMarkup) {
	if err := s.Messenger.EditMessageText(ctx, chatID, msgID, text, markup); err != nil {
		log.Printf("[ERROR] edit message %d: %v", msgID, err)
	}
}
