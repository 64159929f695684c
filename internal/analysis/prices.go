package analysis

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PriceStats summarises the system prices of a series.
// Market data may show sell above buy; SellAboveBuy counts those intervals.
type PriceStats struct {
	Count int `json:"count" yaml:"count"`

	MinSell  decimal.Decimal `json:"min_sell" yaml:"min_sell"`
	MaxSell  decimal.Decimal `json:"max_sell" yaml:"max_sell"`
	MeanSell decimal.Decimal `json:"mean_sell" yaml:"mean_sell"`

	MinBuy  decimal.Decimal `json:"min_buy" yaml:"min_buy"`
	MaxBuy  decimal.Decimal `json:"max_buy" yaml:"max_buy"`
	MeanBuy decimal.Decimal `json:"mean_buy" yaml:"mean_buy"`

	// P05Buy/P95Buy use linear interpolation between order statistics.
	P05Buy decimal.Decimal `json:"p05_buy" yaml:"p05_buy"`
	P95Buy decimal.Decimal `json:"p95_buy" yaml:"p95_buy"`

	// MeanSpread is the mean of (buy - sell).
	MeanSpread   decimal.Decimal `json:"mean_spread" yaml:"mean_spread"`
	SellAboveBuy int             `json:"sell_above_buy" yaml:"sell_above_buy"`
}

// ComputePriceStats returns the zero value for an empty series.
func ComputePriceStats(s *Series) PriceStats {
	p := PriceStats{}
	if s.Len() == 0 {
		return p
	}
	p.Count = s.Len()

	first := s.intervals[0]
	p.MinSell, p.MaxSell = first.SystemSellPrice, first.SystemSellPrice
	p.MinBuy, p.MaxBuy = first.SystemBuyPrice, first.SystemBuyPrice

	sumSell, sumBuy, sumSpread := decimal.Zero, decimal.Zero, decimal.Zero
	buys := make([]decimal.Decimal, 0, p.Count)
	for _, it := range s.intervals {
		sell, buy := it.SystemSellPrice, it.SystemBuyPrice
		p.MinSell = decimal.Min(p.MinSell, sell)
		p.MaxSell = decimal.Max(p.MaxSell, sell)
		p.MinBuy = decimal.Min(p.MinBuy, buy)
		p.MaxBuy = decimal.Max(p.MaxBuy, buy)

		sumSell = sumSell.Add(sell)
		sumBuy = sumBuy.Add(buy)
		sumSpread = sumSpread.Add(buy.Sub(sell))
		if sell.GreaterThan(buy) {
			p.SellAboveBuy++
		}
		buys = append(buys, buy)
	}

	n := decimal.NewFromInt(int64(p.Count))
	p.MeanSell = sumSell.Div(n)
	p.MeanBuy = sumBuy.Div(n)
	p.MeanSpread = sumSpread.Div(n)

	sort.Slice(buys, func(i, j int) bool { return buys[i].LessThan(buys[j]) })
	p.P05Buy = percentileSorted(buys, 0.05)
	p.P95Buy = percentileSorted(buys, 0.95)
	return p
}

func percentileSorted(sorted []decimal.Decimal, q float64) decimal.Decimal {
	if len(sorted) == 0 {
		return decimal.Zero
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := decimal.NewFromFloat(q).Mul(decimal.NewFromInt(int64(len(sorted) - 1)))
	lo := int(pos.Floor().IntPart())
	hi := int(pos.Ceil().IntPart())
	if lo == hi {
		return sorted[lo]
	}
	frac := pos.Sub(decimal.NewFromInt(int64(lo)))
	return sorted[lo].Mul(decimal.NewFromInt(1).Sub(frac)).Add(sorted[hi].Mul(frac))
}
