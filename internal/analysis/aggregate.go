package analysis

import (
	"sort"
	"time"

	"imbalance-report/internal/model"

	"github.com/shopspring/decimal"
)

// HourCost is the summed imbalance cost of all intervals starting in one UTC hour-of-day.
type HourCost struct {
	Hour int             `json:"hour" yaml:"hour"`
	Cost decimal.Decimal `json:"cost" yaml:"cost"`
}

// DayCost is the summed imbalance cost of one UTC calendar day.
type DayCost struct {
	Date time.Time       `json:"date" yaml:"date"`
	Cost decimal.Decimal `json:"cost" yaml:"cost"`
}

// WeekCost is the summed imbalance cost of a calendar week ending on WeekEnding (a Sunday).
type WeekCost struct {
	WeekEnding time.Time       `json:"week_ending" yaml:"week_ending"`
	Cost       decimal.Decimal `json:"cost" yaml:"cost"`
}

// PeakImbalanceHour returns the hour-of-day whose summed signed volume has the
// largest absolute value. Ties go to the lowest hour.
// An empty series has no peak and returns model.ErrEmptySeries.
func PeakImbalanceHour(s *Series) (int, error) {
	if err := s.validate(); err != nil {
		return 0, err
	}
	if s.Len() == 0 {
		return 0, model.ErrEmptySeries
	}

	var sums [24]decimal.Decimal
	var seen [24]bool
	for _, it := range s.intervals {
		h := it.Hour()
		sums[h] = sums[h].Add(it.NetImbalanceVolume)
		seen[h] = true
	}

	peak := -1
	var best decimal.Decimal
	for h := 0; h < 24; h++ {
		if !seen[h] {
			continue
		}
		abs := sums[h].Abs()
		if peak < 0 || abs.GreaterThan(best) {
			peak, best = h, abs
		}
	}
	return peak, nil
}

// HourlyCost sums interval costs per hour-of-day, ascending by hour.
// Hours without intervals are left out.
func HourlyCost(s *Series) ([]HourCost, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	costs := s.ensureCosts()

	var sums [24]decimal.Decimal
	var seen [24]bool
	for i, it := range s.intervals {
		h := it.Hour()
		sums[h] = sums[h].Add(costs[i])
		seen[h] = true
	}

	out := make([]HourCost, 0, 24)
	for h := 0; h < 24; h++ {
		if seen[h] {
			out = append(out, HourCost{Hour: h, Cost: sums[h]})
		}
	}
	return out, nil
}

// PeakHourlyCost returns the most expensive hour, lowest hour on ties.
// ok is false when hourly is empty.
func PeakHourlyCost(hourly []HourCost) (peak HourCost, ok bool) {
	for i, hc := range hourly {
		if i == 0 || hc.Cost.GreaterThan(peak.Cost) {
			peak = hc
		}
	}
	return peak, len(hourly) > 0
}

// DailyAverageVolume is the mean signed net imbalance volume, rounded to two
// decimal places half away from zero. An empty series averages 0.
func DailyAverageVolume(s *Series) (decimal.Decimal, error) {
	if err := s.validate(); err != nil {
		return decimal.Zero, err
	}
	n := s.Len()
	if n == 0 {
		return decimal.Zero, nil
	}
	sum := decimal.Zero
	for _, it := range s.intervals {
		sum = sum.Add(it.NetImbalanceVolume)
	}
	return sum.Div(decimal.NewFromInt(int64(n))).Round(2), nil
}

// DailyCost sums interval costs per UTC calendar day, ascending by date.
func DailyCost(s *Series) ([]DayCost, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	costs := s.ensureCosts()

	byDay := make(map[time.Time]decimal.Decimal)
	for i, it := range s.intervals {
		d := it.Date()
		byDay[d] = byDay[d].Add(costs[i])
	}

	out := make([]DayCost, 0, len(byDay))
	for d, c := range byDay {
		out = append(out, DayCost{Date: d, Cost: c})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

// WeeklyTrend sums daily costs into calendar weeks ending on Sunday.
// Every week from the first to the last observed one is present, in order;
// weeks without data carry a zero cost.
func WeeklyTrend(s *Series) ([]WeekCost, error) {
	days, err := DailyCost(s)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return []WeekCost{}, nil
	}

	first := weekEnding(days[0].Date)
	last := weekEnding(days[len(days)-1].Date)

	out := []WeekCost{}
	idx := map[time.Time]int{}
	for w := first; !w.After(last); w = w.AddDate(0, 0, 7) {
		idx[w] = len(out)
		out = append(out, WeekCost{WeekEnding: w, Cost: decimal.Zero})
	}
	for _, d := range days {
		i := idx[weekEnding(d.Date)]
		out[i].Cost = out[i].Cost.Add(d.Cost)
	}
	return out, nil
}

// weekEnding returns the Sunday on or after the given midnight-UTC date.
func weekEnding(d time.Time) time.Time {
	return d.AddDate(0, 0, (7-int(d.Weekday()))%7)
}
