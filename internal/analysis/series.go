// Package analysis is the imbalance report engine: pure aggregation over a
// half-hourly price/volume series.
//
// A Series owns its intervals and a side-table of derived per-interval costs.
// Only the cost calculator and the aggregators in this package write that
// table; everything else reads copies through Intervals, Costs and Rows.
// A Series is not safe for concurrent use.
package analysis

import (
	"time"

	"imbalance-report/internal/model"

	"github.com/shopspring/decimal"
)

// Series is an ordered collection of intervals sharing one reporting window.
// The interval count is not fixed; a day is usually 48 settlement periods.
type Series struct {
	intervals []model.Interval

	// costs[i] is IntervalCost(intervals[i]); nil until first computed.
	// intervals cannot change after construction, so a populated table is never stale.
	costs []decimal.Decimal
}

// NewSeries copies intervals into a new series. Order is preserved as given.
func NewSeries(intervals []model.Interval) *Series {
	cp := make([]model.Interval, len(intervals))
	copy(cp, intervals)
	return &Series{intervals: cp}
}

// Len returns the number of intervals. A nil series is empty.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.intervals)
}

// Intervals returns a copy of the intervals.
func (s *Series) Intervals() []model.Interval {
	if s == nil {
		return nil
	}
	out := make([]model.Interval, len(s.intervals))
	copy(out, s.intervals)
	return out
}

// Window returns the first and last interval start times.
func (s *Series) Window() (start, end time.Time) {
	if s.Len() == 0 {
		return time.Time{}, time.Time{}
	}
	start, end = s.intervals[0].Start, s.intervals[0].Start
	for _, it := range s.intervals[1:] {
		if it.Start.Before(start) {
			start = it.Start
		}
		if it.Start.After(end) {
			end = it.Start
		}
	}
	return start, end
}

// Costs returns a copy of the cached per-interval costs, or nil if they have
// not been computed yet.
func (s *Series) Costs() []decimal.Decimal {
	if s == nil || s.costs == nil {
		return nil
	}
	out := make([]decimal.Decimal, len(s.costs))
	copy(out, s.costs)
	return out
}

// Row is a read-only view of one interval with its derived columns.
type Row struct {
	model.Interval
	ImbalanceCost decimal.Decimal
	Hour          int
}

// Rows returns the populated series for renderers and sinks, computing costs
// on demand.
func (s *Series) Rows() ([]Row, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	costs := s.ensureCosts()
	out := make([]Row, len(s.intervals))
	for i, it := range s.intervals {
		out[i] = Row{Interval: it, ImbalanceCost: costs[i], Hour: it.Hour()}
	}
	return out, nil
}

// validate enforces that every interval has a timestamp.
func (s *Series) validate() error {
	if s == nil {
		return nil
	}
	for i, it := range s.intervals {
		if it.Start.IsZero() {
			return &model.RecordError{Index: i, Field: model.FieldStartTime, Err: model.ErrMissingField}
		}
	}
	return nil
}

// ensureCosts populates (or refreshes) the cost table and returns it.
func (s *Series) ensureCosts() []decimal.Decimal {
	if s == nil {
		return nil
	}
	if s.costs == nil || len(s.costs) != len(s.intervals) {
		s.refreshCosts()
	}
	return s.costs
}

func (s *Series) refreshCosts() {
	costs := make([]decimal.Decimal, len(s.intervals))
	for i, it := range s.intervals {
		costs[i] = IntervalCost(it)
	}
	s.costs = costs
}
