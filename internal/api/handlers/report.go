package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"imbalance-report/internal/analysis"
	"imbalance-report/internal/api/models"
	"imbalance-report/internal/data"
	"imbalance-report/internal/metrics"
	"imbalance-report/internal/model"
	"imbalance-report/internal/report"
	"imbalance-report/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaxComposeBodyBytes caps POST /api/v1/report bodies. 31 days of
// settlement periods fit in well under a megabyte.
const MaxComposeBodyBytes = 4 << 20

// Source provides raw system price records for a settlement date range.
type Source interface {
	FetchRange(ctx context.Context, from, to string) (*model.SystemPricesResponse, error)
}

// Archive stores composed summaries.
type Archive interface {
	Save(ctx context.Context, settlementDate string, summary *report.Summary) (string, error)
	Get(ctx context.Context, id string) (*store.Record, error)
	List(ctx context.Context, limit int) ([]store.Record, error)
}

// ReportHandler handles report, archive and ranking requests
type ReportHandler struct {
	source   Source
	archive  Archive // nil disables the archive endpoints
	metrics  *metrics.Metrics
	logger   *slog.Logger
	currency string
}

// NewReportHandler creates a new report handler. archive, m and logger may be nil.
func NewReportHandler(source Source, archive Archive, m *metrics.Metrics, logger *slog.Logger, currency string) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if currency == "" {
		currency = report.DefaultCurrencySymbol
	}
	return &ReportHandler{
		source:   source,
		archive:  archive,
		metrics:  m,
		logger:   logger,
		currency: currency,
	}
}

// GetReport handles GET /api/v1/report
func (h *ReportHandler) GetReport(c *gin.Context) {
	var req models.ReportQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}
	if _, err := data.DateRange(req.Date, req.To); err != nil {
		badRequest(c, "INVALID_DATE", err.Error())
		return
	}

	resp, err := h.source.FetchRange(c.Request.Context(), req.Date, req.To)
	if err != nil {
		h.fail(c, err)
		return
	}
	label := req.Date
	if req.To != "" && req.To != req.Date {
		label = req.Date + ".." + req.To
	}
	h.respond(c, "bmrs", label, resp.Data, req.Weekly, req.IncludeIntervals)
}

// ComposeReport handles POST /api/v1/report
func (h *ReportHandler) ComposeReport(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxComposeBodyBytes)
	var req models.ComposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "REQUEST_TOO_LARGE",
					Message: err.Error(),
					Details: map[string]interface{}{"limit_bytes": tooLarge.Limit},
				},
			})
			return
		}
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}
	h.respond(c, "request", req.SettlementDate, req.Records, req.IncludeWeeklyTrend, req.IncludeIntervals)
}

func (h *ReportHandler) respond(c *gin.Context, source, settlementDate string, records []json.RawMessage, weekly, includeIntervals bool) {
	intervals, err := model.ParseRecords(records)
	if err != nil {
		h.fail(c, err)
		return
	}
	series := analysis.NewSeries(intervals)
	summary, err := report.Compose(series, weekly)
	if err != nil {
		h.fail(c, err)
		return
	}
	if settlementDate == "" {
		start, _ := series.Window()
		settlementDate = start.Format(dateLayout)
	}

	archived := false
	if h.archive != nil {
		if _, err := h.archive.Save(c.Request.Context(), settlementDate, summary); err != nil {
			// The report is still useful without the archive copy.
			h.logger.Error("archive save failed", slog.Any("err", err), slog.String("date", settlementDate))
		} else {
			archived = true
		}
	}
	if summary.ID == "" {
		summary.ID = uuid.NewString()
	}

	out := models.ReportResponse{
		ID:             summary.ID,
		SettlementDate: settlementDate,
		Archived:       archived,
		Summary:        buildSummary(summary),
		Text:           report.FormatText(summary, h.currency),
	}
	if includeIntervals {
		rows, err := series.Rows()
		if err != nil {
			h.fail(c, err)
			return
		}
		out.Intervals = convertRows(rows)
	}

	h.metrics.ReportGenerated(source)
	h.logger.Info("report composed",
		slog.String("id", summary.ID),
		slog.String("source", source),
		slog.Int("intervals", summary.IntervalCount),
		slog.String("total_cost", summary.TotalCost.StringFixed(2)))
	c.JSON(http.StatusOK, out)
}

// ListReports handles GET /api/v1/reports
func (h *ReportHandler) ListReports(c *gin.Context) {
	if !h.archiveEnabled(c) {
		return
	}
	var req models.ListReportsQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	recs, err := h.archive.List(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ReportListResponse{Reports: convertRecords(recs)})
}

// GetArchivedReport handles GET /api/v1/reports/:id
func (h *ReportHandler) GetArchivedReport(c *gin.Context) {
	if !h.archiveEnabled(c) {
		return
	}
	rec, err := h.archive.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ReportResponse{
		ID:             rec.ID,
		SettlementDate: rec.SettlementDate,
		Archived:       true,
		Summary:        buildSummary(rec.Summary),
		Text:           report.FormatText(rec.Summary, h.currency),
	})
}

// RankDays handles GET /api/v1/rank
func (h *ReportHandler) RankDays(c *gin.Context) {
	var req models.RankRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}
	if _, err := data.DateRange(req.From, req.To); err != nil {
		badRequest(c, "INVALID_DATE", err.Error())
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}

	resp, err := h.source.FetchRange(c.Request.Context(), req.From, req.To)
	if err != nil {
		h.fail(c, err)
		return
	}
	intervals, err := model.ParseResponse(resp)
	if err != nil {
		h.fail(c, err)
		return
	}
	ranked, err := analysis.RankDaysByCost(analysis.NewSeries(intervals))
	if err != nil {
		h.fail(c, err)
		return
	}
	if limit < len(ranked) {
		ranked = ranked[:limit]
	}

	rankings := make([]models.Ranking, 0, len(ranked))
	for i, d := range ranked {
		rankings = append(rankings, models.Ranking{
			Rank: i + 1,
			Date: d.Date.Format(dateLayout),
			Cost: d.Cost.InexactFloat64(),
		})
	}
	c.JSON(http.StatusOK, models.RankResponse{Rankings: rankings})
}

func (h *ReportHandler) archiveEnabled(c *gin.Context) bool {
	if h.archive != nil {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "ARCHIVE_DISABLED",
			Message: "report archive is not configured",
		},
	})
	return false
}

func (h *ReportHandler) fail(c *gin.Context, err error) {
	kind := writeError(c, err)
	h.metrics.ReportFailed(kind)
	h.logger.Warn("request failed",
		slog.String("path", c.Request.URL.Path),
		slog.String("kind", kind),
		slog.Int("status", c.Writer.Status()),
		slog.Any("err", err))
}
