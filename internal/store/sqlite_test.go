package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imbalance-report/internal/analysis"
	"imbalance-report/internal/report"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "db", "reports.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleSummary() *report.Summary {
	return &report.Summary{
		GeneratedAt:        time.Date(2023, 10, 25, 6, 0, 0, 0, time.UTC),
		Start:              time.Date(2023, 10, 24, 0, 0, 0, 0, time.UTC),
		End:                time.Date(2023, 10, 24, 23, 30, 0, 0, time.UTC),
		IntervalCount:      48,
		TotalCost:          decimal.NewFromInt(300000),
		UnitRate:           decimal.RequireFromString("62.5"),
		PeakHour:           7,
		DailyAverageVolume: decimal.RequireFromString("-12.34"),
		HourlyCost: []analysis.HourCost{
			{Hour: 0, Cost: decimal.NewFromInt(12500)},
		},
	}
}

func TestSaveAndGet(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	summary := sampleSummary()
	id, err := s.Save(ctx, "2023-10-24", summary)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, summary.ID)

	rec, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2023-10-24", rec.SettlementDate)
	assert.Equal(t, id, rec.Summary.ID)
	assert.Equal(t, "300000", rec.Summary.TotalCost.String())
	assert.Equal(t, "62.5", rec.Summary.UnitRate.String())
	assert.Equal(t, "-12.34", rec.Summary.DailyAverageVolume.String())
	assert.Equal(t, 7, rec.Summary.PeakHour)
	require.Len(t, rec.Summary.HourlyCost, 1)
	assert.Equal(t, "12500", rec.Summary.HourlyCost[0].Cost.String())
	assert.True(t, rec.Summary.Start.Equal(summary.Start))
}

func TestSaveKeepsExistingID(t *testing.T) {
	s := openTemp(t)
	summary := sampleSummary()
	summary.ID = "fixed-id"
	id, err := s.Save(context.Background(), "2023-10-24", summary)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)

	_, err = s.Save(context.Background(), "2023-10-24", summary)
	assert.Error(t, err, "duplicate ids are rejected")
}

func TestSaveNil(t *testing.T) {
	s := openTemp(t)
	_, err := s.Save(context.Background(), "2023-10-24", nil)
	assert.Error(t, err)
}

func TestGetNotFound(t *testing.T) {
	s := openTemp(t)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	clock := time.Date(2023, 10, 25, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	var ids []string
	for _, date := range []string{"2023-10-22", "2023-10-23", "2023-10-24"} {
		id, err := s.Save(ctx, date, sampleSummary())
		require.NoError(t, err)
		ids = append(ids, id)
		clock = clock.Add(time.Minute)
	}

	recs, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, ids[2], recs[0].ID)
	assert.Equal(t, "2023-10-24", recs[0].SettlementDate)
	assert.Equal(t, ids[0], recs[2].ID)

	recs, err = s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestListEmpty(t *testing.T) {
	s := openTemp(t)
	recs, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	require.NoError(t, err)
	id, err := s.Save(ctx, "2023-10-24", sampleSummary())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	rec, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2023-10-24", rec.SettlementDate)
}
