package handlers

import (
	"imbalance-report/internal/analysis"
	"imbalance-report/internal/api/models"
	"imbalance-report/internal/report"
	"imbalance-report/internal/store"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

func buildSummary(s *report.Summary) models.ReportSummary {
	out := models.ReportSummary{
		GeneratedAt:        s.GeneratedAt,
		Window:             models.TimeWindow{Start: s.Start, End: s.End},
		IntervalCount:      s.IntervalCount,
		TotalCost:          s.TotalCost.InexactFloat64(),
		TotalAbsVolume:     s.TotalAbsVolume.InexactFloat64(),
		UnitRate:           s.UnitRate.InexactFloat64(),
		PeakHour:           s.PeakHour,
		DailyAverageVolume: s.DailyAverageVolume.InexactFloat64(),
		PeakHourlyCost:     s.PeakHourlyCost.InexactFloat64(),
		PeakHourlyCostHour: s.PeakHourlyCostHour,
		HourlyCost:         make([]models.HourCost, 0, len(s.HourlyCost)),
		Prices:             buildPrices(s.Prices),
	}
	for _, h := range s.HourlyCost {
		out.HourlyCost = append(out.HourlyCost, models.HourCost{Hour: h.Hour, Cost: h.Cost.InexactFloat64()})
	}
	for _, w := range s.WeeklyTrend {
		out.WeeklyTrend = append(out.WeeklyTrend, models.WeekCost{
			WeekEnding: w.WeekEnding.Format(dateLayout),
			Cost:       w.Cost.InexactFloat64(),
		})
	}
	return out
}

func buildPrices(p analysis.PriceStats) models.PriceSummary {
	return models.PriceSummary{
		Count:        p.Count,
		MinSell:      p.MinSell.InexactFloat64(),
		MaxSell:      p.MaxSell.InexactFloat64(),
		MeanSell:     p.MeanSell.InexactFloat64(),
		MinBuy:       p.MinBuy.InexactFloat64(),
		MaxBuy:       p.MaxBuy.InexactFloat64(),
		MeanBuy:      p.MeanBuy.InexactFloat64(),
		P05Buy:       p.P05Buy.InexactFloat64(),
		P95Buy:       p.P95Buy.InexactFloat64(),
		MeanSpread:   p.MeanSpread.InexactFloat64(),
		SellAboveBuy: p.SellAboveBuy,
	}
}

func convertRows(rows []analysis.Row) []models.IntervalRow {
	out := make([]models.IntervalRow, 0, len(rows))
	cum := decimal.Zero
	for i, r := range rows {
		cum = cum.Add(r.ImbalanceCost)
		out = append(out, models.IntervalRow{
			Index:              i,
			StartTime:          r.Start,
			SettlementDate:     r.SettlementDate,
			SettlementPeriod:   r.SettlementPeriod,
			Hour:               r.Hour,
			SystemSellPrice:    r.SystemSellPrice.InexactFloat64(),
			SystemBuyPrice:     r.SystemBuyPrice.InexactFloat64(),
			NetImbalanceVolume: r.NetImbalanceVolume.InexactFloat64(),
			ImbalanceCost:      r.ImbalanceCost.InexactFloat64(),
			CumImbalanceCost:   cum.InexactFloat64(),
		})
	}
	return out
}

func convertRecords(recs []store.Record) []models.ReportListItem {
	out := make([]models.ReportListItem, 0, len(recs))
	for _, r := range recs {
		item := models.ReportListItem{
			ID:             r.ID,
			SettlementDate: r.SettlementDate,
			CreatedAt:      r.CreatedAt,
		}
		if r.Summary != nil {
			item.TotalCost = r.Summary.TotalCost.InexactFloat64()
			item.UnitRate = r.Summary.UnitRate.InexactFloat64()
			item.PeakHour = r.Summary.PeakHour
		}
		out = append(out, item)
	}
	return out
}
