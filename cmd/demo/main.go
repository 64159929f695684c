package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"imbalance-report/internal/analysis"
	"imbalance-report/internal/data"
	"imbalance-report/internal/model"
	"imbalance-report/internal/report"

	"github.com/shopspring/decimal"
)

// Demo:
// - Load a saved system prices response, or build a synthetic day
// - Price each settlement period with the directional rule
// - Compose and print the daily report to show how the pieces fit together
func main() {
	dataPath := flag.String("data", "", "Path to saved system prices JSON (default: synthetic day)")
	n := flag.Int("n", 12, "Number of intervals to print")
	outCSV := flag.String("out", "", "Optional path to write intervals CSV (e.g. output/intervals.csv)")
	flag.Parse()

	var intervals []model.Interval
	if *dataPath != "" {
		resp, err := data.LoadSystemPricesJSON(*dataPath)
		if err != nil {
			panic(err)
		}
		intervals, err = model.ParseResponse(resp)
		if err != nil {
			panic(err)
		}
	} else {
		intervals = syntheticDay(time.Date(2023, 10, 24, 0, 0, 0, 0, time.UTC))
	}
	if len(intervals) == 0 {
		panic("no intervals")
	}

	series := analysis.NewSeries(intervals)
	rows, err := series.Rows()
	if err != nil {
		panic(err)
	}

	start, end := series.Window()
	fmt.Printf("Loaded %d intervals from %s to %s\n\n", series.Len(), start.Format(time.RFC3339), end.Format(time.RFC3339))

	cum := decimal.Zero
	for i := 0; i < min(*n, len(rows)); i++ {
		r := rows[i]
		cum = cum.Add(r.ImbalanceCost)
		side, price := "buy ", r.SystemBuyPrice
		if r.NetImbalanceVolume.IsNegative() {
			side, price = "sell", r.SystemSellPrice
		}
		fmt.Printf(
			"%s niv=%9s  %s=%8s  cost=%11s  cum=%12s\n",
			r.Start.Format("2006-01-02 15:04"),
			r.NetImbalanceVolume.StringFixed(2),
			side,
			price.StringFixed(2),
			r.ImbalanceCost.StringFixed(2),
			cum.StringFixed(2),
		)
	}

	if *outCSV != "" {
		// ensure output dir exists
		if err := os.MkdirAll(filepath.Dir(*outCSV), 0o755); err != nil {
			panic(err)
		}
		if err := report.WriteIntervalsCSV(*outCSV, rows); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}

	summary, err := report.Compose(series, true)
	if err != nil {
		panic(err)
	}
	fmt.Printf("\n%s", report.FormatText(summary, report.DefaultCurrencySymbol))
}

// syntheticDay is 48 settlement periods with an evening peak and a
// long system overnight.
func syntheticDay(day time.Time) []model.Interval {
	out := make([]model.Interval, 0, 48)
	for i := 0; i < 48; i++ {
		hour := i / 2
		vol := int64(150 - 12*hour)
		sell := int64(45 + hour)
		buy := sell + 8
		if hour >= 16 && hour <= 19 {
			vol, sell, buy = 320, 110, 140
		}
		out = append(out, model.Interval{
			Start:              day.Add(time.Duration(i) * 30 * time.Minute),
			SettlementDate:     day.Format("2006-01-02"),
			SettlementPeriod:   i + 1,
			SystemSellPrice:    decimal.NewFromInt(sell),
			SystemBuyPrice:     decimal.NewFromInt(buy),
			NetImbalanceVolume: decimal.NewFromInt(vol),
		})
	}
	return out
}
