package analysis

import (
	"imbalance-report/internal/model"

	"github.com/shopspring/decimal"
)

// IntervalCost is |volume| * price, where price is the system sell price for a
// net sell position (volume < 0) and the system buy price otherwise.
// A zero volume takes the buy branch and always costs 0. Negative system
// prices are passed through, so such an interval can cost less than 0.
func IntervalCost(it model.Interval) decimal.Decimal {
	price := it.SystemBuyPrice
	if it.NetImbalanceVolume.IsNegative() {
		price = it.SystemSellPrice
	}
	return it.NetImbalanceVolume.Abs().Mul(price)
}

// TotalCost sums IntervalCost over the series and refreshes the cached
// per-interval costs. An empty series costs 0.
func TotalCost(s *Series) (decimal.Decimal, error) {
	if err := s.validate(); err != nil {
		return decimal.Zero, err
	}
	if s.Len() == 0 {
		return decimal.Zero, nil
	}
	s.refreshCosts()
	return decimal.Sum(decimal.Zero, s.costs...), nil
}

// TotalAbsVolume is the sum of |net imbalance volume| over the series.
func TotalAbsVolume(s *Series) decimal.Decimal {
	total := decimal.Zero
	if s == nil {
		return total
	}
	for _, it := range s.intervals {
		total = total.Add(it.NetImbalanceVolume.Abs())
	}
	return total
}

// UnitRate is total cost per MWh of absolute imbalance.
// A series with zero absolute volume (including an empty one) has rate 0.
func UnitRate(s *Series) (decimal.Decimal, error) {
	total, err := TotalCost(s)
	if err != nil {
		return decimal.Zero, err
	}
	volume := TotalAbsVolume(s)
	if volume.IsZero() {
		return decimal.Zero, nil
	}
	return total.Div(volume), nil
}
