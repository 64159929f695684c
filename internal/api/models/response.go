package models

import "time"

// ReportResponse is returned by both GET and POST /api/v1/report
type ReportResponse struct {
	ID             string        `json:"id"`
	SettlementDate string        `json:"settlement_date,omitempty"`
	Archived       bool          `json:"archived"`
	Summary        ReportSummary `json:"summary"`
	Text           string        `json:"text"` // Human-readable report
	Intervals      []IntervalRow `json:"intervals,omitempty"`
}

// ReportSummary mirrors report.Summary with float figures for JSON consumers
type ReportSummary struct {
	GeneratedAt        time.Time    `json:"generated_at"`
	Window             TimeWindow   `json:"window"`
	IntervalCount      int          `json:"interval_count"`
	TotalCost          float64      `json:"total_cost"`
	TotalAbsVolume     float64      `json:"total_abs_volume"`
	UnitRate           float64      `json:"unit_rate"`
	PeakHour           int          `json:"peak_hour"`
	DailyAverageVolume float64      `json:"daily_average_volume"`
	PeakHourlyCost     float64      `json:"peak_hourly_cost"`
	PeakHourlyCostHour int          `json:"peak_hourly_cost_hour"`
	HourlyCost         []HourCost   `json:"hourly_cost"`
	WeeklyTrend        []WeekCost   `json:"weekly_trend,omitempty"`
	Prices             PriceSummary `json:"prices"`
}

// TimeWindow represents a time range
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type HourCost struct {
	Hour int     `json:"hour"`
	Cost float64 `json:"cost"`
}

type WeekCost struct {
	WeekEnding string  `json:"week_ending"` // YYYY-MM-DD (Sunday)
	Cost       float64 `json:"cost"`
}

// PriceSummary contains system price statistics for the window
type PriceSummary struct {
	Count        int     `json:"count"`
	MinSell      float64 `json:"min_sell"`
	MaxSell      float64 `json:"max_sell"`
	MeanSell     float64 `json:"mean_sell"`
	MinBuy       float64 `json:"min_buy"`
	MaxBuy       float64 `json:"max_buy"`
	MeanBuy      float64 `json:"mean_buy"`
	P05Buy       float64 `json:"p05_buy"`
	P95Buy       float64 `json:"p95_buy"`
	MeanSpread   float64 `json:"mean_spread"`
	SellAboveBuy int     `json:"sell_above_buy"`
}

// IntervalRow represents one settlement period with its imbalance cost
type IntervalRow struct {
	Index              int       `json:"index"`
	StartTime          time.Time `json:"start_time"`
	SettlementDate     string    `json:"settlement_date,omitempty"`
	SettlementPeriod   int       `json:"settlement_period,omitempty"`
	Hour               int       `json:"hour"`
	SystemSellPrice    float64   `json:"system_sell_price"`
	SystemBuyPrice     float64   `json:"system_buy_price"`
	NetImbalanceVolume float64   `json:"net_imbalance_volume"`
	ImbalanceCost      float64   `json:"imbalance_cost"`
	CumImbalanceCost   float64   `json:"cum_imbalance_cost"`
}

// ReportListResponse is returned by GET /api/v1/reports
type ReportListResponse struct {
	Reports []ReportListItem `json:"reports"`
}

// ReportListItem is one archived report without its full summary
type ReportListItem struct {
	ID             string    `json:"id"`
	SettlementDate string    `json:"settlement_date"`
	CreatedAt      time.Time `json:"created_at"`
	TotalCost      float64   `json:"total_cost"`
	UnitRate       float64   `json:"unit_rate"`
	PeakHour       int       `json:"peak_hour"`
}

// RankResponse represents the response from ranking days
type RankResponse struct {
	Rankings []Ranking `json:"rankings"`
}

// Ranking represents one ranked settlement day
type Ranking struct {
	Rank int     `json:"rank"`
	Date string  `json:"date"` // YYYY-MM-DD
	Cost float64 `json:"cost"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
