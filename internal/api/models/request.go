package models

import "encoding/json"

// ReportQuery is the query string of GET /api/v1/report
type ReportQuery struct {
	Date             string `form:"date" binding:"required"` // YYYY-MM-DD
	To               string `form:"to,omitempty"`            // YYYY-MM-DD, inclusive; default: date
	Weekly           bool   `form:"weekly,omitempty"`
	IncludeIntervals bool   `form:"include_intervals,omitempty"`
}

// ComposeRequest is the body of POST /api/v1/report. Records use the
// market data wire shape (startTime, systemSellPrice, systemBuyPrice,
// netImbalanceVolume).
type ComposeRequest struct {
	Records            []json.RawMessage `json:"records" binding:"required"`
	SettlementDate     string            `json:"settlement_date,omitempty"`
	IncludeWeeklyTrend bool              `json:"include_weekly_trend,omitempty"`
	IncludeIntervals   bool              `json:"include_intervals,omitempty"`
}

// ListReportsQuery is the query string of GET /api/v1/reports
type ListReportsQuery struct {
	Limit int `form:"limit,omitempty"` // default: 20
}

// RankRequest is the query string of GET /api/v1/rank
type RankRequest struct {
	From  string `form:"from" binding:"required"`
	To    string `form:"to" binding:"required"`
	Limit int    `form:"limit,omitempty"` // default: 10
}
