package notifier

import (
	"fmt"
	"strings"
	"time"

	"PeakSentinel/internal/model"
)

// fmtPrice picks a precision fitting the price's magnitude. Futures symbols
// range from five-figure majors to sub-cent memecoins.
func fmtPrice(p float64) string {
	switch {
	case p >= 100:
		return fmt.Sprintf("%.2f", p)
	case p >= 1:
		return fmt.Sprintf("%.4f", p)
	default:
		return fmt.Sprintf("%.6f", p)
	}
}

func alertTitle(event model.TrackEvent) string {
	switch event {
	case model.EventExhaustion:
		return "⚠️ <b>UPTREND EXHAUSTION</b>"
	case model.EventDowntrendConfirmed:
		return "🔻 <b>DOWNTREND CONFIRMED</b>"
	case model.EventNewHigh:
		return "📈 <b>NEW HIGH</b>"
	default:
		return "<b>UPDATE</b>"
	}
}

// FormatAlert renders one tracker event into a Telegram message.
func FormatAlert(event model.TrackEvent, result *model.AnalysisResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s | %s\n", alertTitle(event), result.Symbol))
	b.WriteString(fmt.Sprintf("Price: %s", fmtPrice(result.Price)))
	if result.HighestPrice > result.Price {
		b.WriteString(fmt.Sprintf(" (-%.1f%% from high %s)", result.DropPercent, fmtPrice(result.HighestPrice)))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Reversal probability: %.1f%%\n", result.Probability))

	if len(result.Signals) > 0 {
		b.WriteString("Signals:\n")
		for _, s := range result.Signals {
			b.WriteString(fmt.Sprintf("  • %s (%.2f): %s\n", s.Name, s.Weight, s.Detail))
		}
	}

	b.WriteString(result.Timestamp.UTC().Format("2006-01-02 15:04 MST"))
	return b.String()
}

// FormatScanSummary renders one scan's outcome: counts, duration and the top
// reversal candidates.
func FormatScanSummary(results []model.AnalysisResult, trackedCount int, duration time.Duration) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Scan summary</b> | %s\n", time.Now().UTC().Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Analyzed %d gainers in %.1fs, tracking %d symbols\n",
		len(results), duration.Seconds(), trackedCount))

	shown := 0
	for _, r := range results {
		if r.Probability <= 0 {
			continue
		}
		if shown == 0 {
			b.WriteString("Top reversal candidates:\n")
		}
		b.WriteString(fmt.Sprintf("  %s  %.1f%%  [%s]\n",
			r.Symbol, r.Probability, strings.Join(r.SignalNames(), ", ")))
		shown++
		if shown >= 5 {
			break
		}
	}
	if shown == 0 {
		b.WriteString("No reversal signals this scan.")
	}
	return b.String()
}

// FormatStatus renders the tracked-symbol overview for the /status command.
func FormatStatus(symbols []model.TrackedSymbol) string {
	if len(symbols) == 0 {
		return "No symbols tracked yet."
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📦 <b>Tracked symbols</b> (%d)\n\n", len(symbols)))
	for _, ts := range symbols {
		state := "tracking"
		if ts.DowntrendConfirmed {
			state = "downtrend confirmed"
		} else if ts.Downtrend {
			state = "exhaustion"
		}
		b.WriteString(fmt.Sprintf("%s: last %s, high %s (-%.1f%%) | %s\n",
			ts.Symbol, fmtPrice(ts.LastPrice), fmtPrice(ts.HighestPrice), ts.DropPercent(), state))
	}
	return b.String()
}

// FormatTop renders the last scan's results for the /top command.
func FormatTop(results []model.AnalysisResult) string {
	if len(results) == 0 {
		return "No scan results yet."
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🚀 <b>Last scan</b> (%d symbols)\n\n", len(results)))
	for _, r := range results {
		b.WriteString(fmt.Sprintf("%s  %s  prob %.1f%%", r.Symbol, fmtPrice(r.Price), r.Probability))
		if names := r.SignalNames(); len(names) > 0 {
			b.WriteString("  [" + strings.Join(names, ", ") + "]")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatUsage is the fallback reply for unknown commands.
func FormatUsage() string {
	return "Commands:\n/status - tracked symbols\n/top - last scan results\n/scan - run a scan now"
}
