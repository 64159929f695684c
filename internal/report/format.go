package report

import (
	"fmt"
	"strings"
)

// DefaultCurrencySymbol is used when FormatText gets an empty symbol.
const DefaultCurrencySymbol = "£"

// FormatText renders the human-readable report with two decimal places.
// The weekly section appears only when the summary carries a trend.
func FormatText(s *Summary, currency string) string {
	if s == nil {
		return ""
	}
	if currency == "" {
		currency = DefaultCurrencySymbol
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Total Daily Imbalance Cost: %s%s\n", currency, s.TotalCost.StringFixed(2))
	fmt.Fprintf(&b, "Daily Imbalance Unit Rate: %s%s/MWh\n", currency, s.UnitRate.StringFixed(2))
	fmt.Fprintf(&b, "Hour with Highest Imbalance Volume: %d:00\n", s.PeakHour)
	b.WriteString("\n\nExtra analysis:\n")
	fmt.Fprintf(&b, "Daily Average Net Imbalance Volume: %s MWh\n", s.DailyAverageVolume.StringFixed(2))
	fmt.Fprintf(&b, "Peak Hourly Imbalance Cost: %s%s at hour %d\n", currency, s.PeakHourlyCost.StringFixed(2), s.PeakHourlyCostHour)

	if len(s.WeeklyTrend) > 0 {
		b.WriteString("\nWeekly Imbalance Cost Trend:\n")
		for _, w := range s.WeeklyTrend {
			fmt.Fprintf(&b, "%s  %s%s\n", w.WeekEnding.Format("2006-01-02"), currency, w.Cost.StringFixed(2))
		}
	}
	return b.String()
}
