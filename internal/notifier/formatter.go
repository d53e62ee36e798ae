package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"FXSentinel/internal/calculator"
	"FXSentinel/internal/model"
	"FXSentinel/internal/strategy"
)

// Callback data understood by the command router.
const (
	CallbackLiveMenu  = "live_menu"
	CallbackChartMenu = "chart_menu"
	CallbackMain      = "main"
	PrefixLive        = "live_"
	PrefixChart       = "chart_"
)

// priceDigits picks display precision; yen crosses quote with fewer decimals.
func priceDigits(pair string) int32 {
	if strings.HasSuffix(pair, "/JPY") {
		return 3
	}
	return 5
}

// FormatPrice renders a rate at the pair's precision, or "n/a" for NaN.
func FormatPrice(pair string, v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return decimal.NewFromFloat(v).StringFixed(priceDigits(pair))
}

// FormatLots renders a position size in lots.
func FormatLots(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatBalance renders an account balance with thousands separators.
func FormatBalance(v float64) string {
	return "$" + humanize.Commaf(math.Round(v*100)/100)
}

func classificationIcon(c model.Classification) string {
	switch c {
	case model.StrongBuy:
		return "🟢"
	case model.StrongSell:
		return "🔴"
	default:
		return "⚪"
	}
}

// FormatSignal renders a signal result into a Telegram HTML message.
func FormatSignal(r model.SignalResult, risk model.RiskConfig) string {
	var b strings.Builder
	pair := html.EscapeString(r.Pair)

	b.WriteString(fmt.Sprintf("%s <b>%s | %s</b>\n", classificationIcon(r.Classification), pair, r.Classification.Label()))
	b.WriteString(fmt.Sprintf("%s UTC\n\n", r.GeneratedAt.UTC().Format("2006-01-02 15:04")))

	if r.Degraded == model.NoData || r.Degraded == model.MalformedData || r.Degraded == model.InsufficientData {
		b.WriteString(fmt.Sprintf("⚠️ No analysis available: %s\n", degradedText(r.Degraded)))
		return b.String()
	}

	if r.LiveRate != nil {
		b.WriteString(fmt.Sprintf("Live rate: %s\n", FormatPrice(r.Pair, *r.LiveRate)))
	}
	b.WriteString(fmt.Sprintf("Last close: %s\n", FormatPrice(r.Pair, r.Close)))
	b.WriteString(fmt.Sprintf("SMA20: %s | SMA50: %s\n",
		FormatPrice(r.Pair, model.LastValue(r.Indicators.SMA20)),
		FormatPrice(r.Pair, model.LastValue(r.Indicators.SMA50))))
	b.WriteString(fmt.Sprintf("ATR(14): %s | RSI(14): %.1f\n",
		FormatPrice(r.Pair, r.ATR), model.LastValue(r.Indicators.RSI)))

	price := r.Close
	if r.LiveRate != nil {
		price = *r.LiveRate
	}
	if s, ok := calculator.Nearest(r.Indicators.Support, price); ok {
		b.WriteString(fmt.Sprintf("Support: %s", FormatPrice(r.Pair, s)))
		if res, ok := calculator.Nearest(r.Indicators.Resistance, price); ok {
			b.WriteString(fmt.Sprintf(" | Resistance: %s", FormatPrice(r.Pair, res)))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n📊 <b>Signal strength:</b> %+d\n", r.Strength))
	for _, reason := range r.Reasons {
		b.WriteString(fmt.Sprintf("  • %s\n", html.EscapeString(reason)))
	}

	b.WriteString("\n💰 <b>Risk management</b>\n")
	if r.HasLevels() {
		b.WriteString(fmt.Sprintf("Stop loss: %s\n", FormatPrice(r.Pair, *r.StopLoss)))
		b.WriteString(fmt.Sprintf("Take profit: %s\n", FormatPrice(r.Pair, *r.TakeProfit)))
		if rr, ok := strategy.RiskReward(r); ok {
			b.WriteString(fmt.Sprintf("RR: 1:%.1f\n", rr))
		}
	} else {
		b.WriteString("No SL/TP suggested in HOLD condition.\n")
	}
	b.WriteString(fmt.Sprintf("Position size: %s lots (balance %s, risk %s%%)\n",
		FormatLots(r.PositionSize), FormatBalance(risk.AccountBalance), humanize.Ftoa(risk.RiskPercent)))

	if r.Degraded == model.LiveRateUnavailable {
		b.WriteString("\n⚠️ Live rate unavailable, signal held.\n")
	}
	return b.String()
}

func degradedText(reason model.DegradeReason) string {
	switch reason {
	case model.NoData:
		return "no price data returned"
	case model.MalformedData:
		return "price data could not be parsed"
	case model.InsufficientData:
		return "not enough history"
	case model.LiveRateUnavailable:
		return "live rate unavailable"
	default:
		return string(reason)
	}
}

// FormatLiveRate renders the live rate reply for a pair.
func FormatLiveRate(pair string, rate float64, err error) string {
	if err != nil {
		return fmt.Sprintf("⚠️ Live rate for <b>%s</b> is unavailable right now.", html.EscapeString(pair))
	}
	return fmt.Sprintf("💱 <b>%s</b> live rate: <code>%s</code>", html.EscapeString(pair), FormatPrice(pair, rate))
}

// FormatRisk renders the current risk settings.
func FormatRisk(cfg model.RiskConfig) string {
	var b strings.Builder
	b.WriteString("⚙️ <b>Risk settings</b>\n\n")
	b.WriteString(fmt.Sprintf("Account balance: %s\n", FormatBalance(cfg.AccountBalance)))
	b.WriteString(fmt.Sprintf("Risk per trade: %s%%\n", humanize.Ftoa(cfg.RiskPercent)))
	b.WriteString(fmt.Sprintf("Reward:risk: %s\n", humanize.Ftoa(cfg.RewardRiskRatio)))
	return b.String()
}

// FormatRiskUpdated confirms a /setrisk change.
func FormatRiskUpdated(cfg model.RiskConfig) string {
	return "✅ Risk settings updated.\n\n" + FormatRisk(cfg)
}

// FormatWelcome is the /start greeting.
func FormatWelcome() string {
	return "👋 <b>FXSentinel</b>\n\nForex signals from SMA crossovers and support/resistance.\nChoose an option below."
}

// FormatHelp lists the available commands.
func FormatHelp() string {
	return `📖 <b>Commands</b>

/start - main menu
/risk - show risk settings
/setrisk &lt;balance&gt; &lt;risk%&gt; [reward:risk] - update risk settings
/help - this message

Strong signals are pushed automatically.`
}

// MainMenu is the keyboard shown by /start.
func MainMenu() *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
		{{Text: "💱 Live rates", CallbackData: CallbackLiveMenu}},
		{{Text: "📈 Charts & signals", CallbackData: CallbackChartMenu}},
	}}
}

// PairMenu lists every pair, two per row, with callback data prefix+pair.
func PairMenu(prefix string) *InlineKeyboardMarkup {
	var rows [][]InlineKeyboardButton
	var row []InlineKeyboardButton
	for _, p := range model.Pairs() {
		row = append(row, InlineKeyboardButton{Text: p.Name, CallbackData: prefix + p.Name})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []InlineKeyboardButton{{Text: "⬅️ Back", CallbackData: CallbackMain}})
	return &InlineKeyboardMarkup{InlineKeyboard: rows}
}
