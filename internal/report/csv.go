package report

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"imbalance-report/internal/analysis"

	"github.com/shopspring/decimal"
)

// WriteIntervalsCSV writes one row per interval including the derived cost.
// A failed flush or close is reported.
func WriteIntervalsCSV(path string, rows []analysis.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeIntervals(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeIntervals(out io.Writer, rows []analysis.Row) error {
	w := csv.NewWriter(out)

	header := []string{
		"index",
		"start_time",
		"settlement_date",
		"settlement_period",
		"hour",
		"system_sell_price",
		"system_buy_price",
		"net_imbalance_volume",
		"imbalance_cost",
		"cum_imbalance_cost",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	cum := decimal.Zero
	for i, r := range rows {
		cum = cum.Add(r.ImbalanceCost)
		row := []string{
			strconv.Itoa(i),
			fmtTime(r.Start),
			r.SettlementDate,
			strconv.Itoa(r.SettlementPeriod),
			strconv.Itoa(r.Hour),
			fmtDecimal(r.SystemSellPrice),
			fmtDecimal(r.SystemBuyPrice),
			fmtDecimal(r.NetImbalanceVolume),
			fmtDecimal(r.ImbalanceCost),
			fmtDecimal(cum),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func fmtDecimal(d decimal.Decimal) string {
	return d.StringFixed(6)
}
