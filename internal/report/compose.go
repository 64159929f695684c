// Package report composes engine outputs into a Summary and renders that
// summary into the artifacts written by the CLI and API.
package report

import (
	"fmt"
	"time"

	"imbalance-report/internal/analysis"

	"github.com/shopspring/decimal"
)

// Summary is the structured daily imbalance report. Values are raw numbers;
// currency and date formatting belong to the renderers.
type Summary struct {
	ID          string    `json:"id,omitempty" yaml:"id,omitempty"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`

	Start         time.Time `json:"start" yaml:"start"`
	End           time.Time `json:"end" yaml:"end"`
	IntervalCount int       `json:"interval_count" yaml:"interval_count"`

	TotalCost          decimal.Decimal `json:"total_cost" yaml:"total_cost"`
	TotalAbsVolume     decimal.Decimal `json:"total_abs_volume" yaml:"total_abs_volume"`
	UnitRate           decimal.Decimal `json:"unit_rate" yaml:"unit_rate"`
	PeakHour           int             `json:"peak_hour" yaml:"peak_hour"`
	DailyAverageVolume decimal.Decimal `json:"daily_average_volume" yaml:"daily_average_volume"`
	PeakHourlyCost     decimal.Decimal `json:"peak_hourly_cost" yaml:"peak_hourly_cost"`
	PeakHourlyCostHour int             `json:"peak_hourly_cost_hour" yaml:"peak_hourly_cost_hour"`

	HourlyCost  []analysis.HourCost `json:"hourly_cost" yaml:"hourly_cost"`
	WeeklyTrend []analysis.WeekCost `json:"weekly_trend,omitempty" yaml:"weekly_trend,omitempty"`
	Prices      analysis.PriceStats `json:"prices" yaml:"prices"`
}

// now is swapped in tests.
var now = time.Now

// Compose runs the engine over s in a fixed order: total cost, unit rate,
// peak hour, daily average volume, hourly cost and, when requested, the
// weekly trend. The first failing step aborts with no partial summary.
// An empty series fails at the peak hour step with model.ErrEmptySeries.
func Compose(s *analysis.Series, includeWeeklyTrend bool) (*Summary, error) {
	total, err := analysis.TotalCost(s)
	if err != nil {
		return nil, fmt.Errorf("total cost: %w", err)
	}
	rate, err := analysis.UnitRate(s)
	if err != nil {
		return nil, fmt.Errorf("unit rate: %w", err)
	}
	peakHour, err := analysis.PeakImbalanceHour(s)
	if err != nil {
		return nil, fmt.Errorf("peak hour: %w", err)
	}
	avg, err := analysis.DailyAverageVolume(s)
	if err != nil {
		return nil, fmt.Errorf("daily average volume: %w", err)
	}
	hourly, err := analysis.HourlyCost(s)
	if err != nil {
		return nil, fmt.Errorf("hourly cost: %w", err)
	}
	peakCost, _ := analysis.PeakHourlyCost(hourly)

	var weekly []analysis.WeekCost
	if includeWeeklyTrend {
		weekly, err = analysis.WeeklyTrend(s)
		if err != nil {
			return nil, fmt.Errorf("weekly trend: %w", err)
		}
	}

	start, end := s.Window()
	return &Summary{
		GeneratedAt:        now().UTC(),
		Start:              start,
		End:                end,
		IntervalCount:      s.Len(),
		TotalCost:          total,
		TotalAbsVolume:     analysis.TotalAbsVolume(s),
		UnitRate:           rate,
		PeakHour:           peakHour,
		DailyAverageVolume: avg,
		PeakHourlyCost:     peakCost.Cost,
		PeakHourlyCostHour: peakCost.Hour,
		HourlyCost:         hourly,
		WeeklyTrend:        weekly,
		Prices:             analysis.ComputePriceStats(s),
	}, nil
}
