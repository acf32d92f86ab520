package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/web/models"
	"portfolio/web/utils"
)

type fakePageViews struct {
	total     uint64
	topPages  []models.PageCount
	referrers []models.ReferrerCount
	series    []models.TimeBucketCount
}

func (f *fakePageViews) TotalViews(context.Context, time.Time, time.Time) (uint64, error) {
	return f.total, nil
}

func (f *fakePageViews) TopPages(_ context.Context, _, _ time.Time, _ uint64) ([]models.PageCount, error) {
	return f.topPages, nil
}

func (f *fakePageViews) TopReferrers(_ context.Context, _, _ time.Time, _ uint64) ([]models.ReferrerCount, error) {
	return f.referrers, nil
}

func (f *fakePageViews) ViewsOverTime(_ context.Context, interval string, _, _ time.Time) ([]models.TimeBucketCount, error) {
	if !utils.IsValidInterval(interval) {
		return nil, fmt.Errorf("invalid interval: %s", interval)
	}
	return f.series, nil
}

func (f *fakePageViews) UniqueSessionsOverTime(_ context.Context, interval string, _, _ time.Time) ([]models.TimeBucketCount, error) {
	if !utils.IsValidInterval(interval) {
		return nil, fmt.Errorf("invalid interval: %s", interval)
	}
	return f.series, nil
}

type fakeVisitors struct {
	unique uint64
	active uint64
}

func (f *fakeVisitors) CountUnique(context.Context) (uint64, error) { return f.unique, nil }

func (f *fakeVisitors) CountUniqueSince(context.Context, time.Time) (uint64, error) {
	return f.active, nil
}

func newAnalyticsRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	views := &fakePageViews{
		total: 1234,
		topPages: []models.PageCount{
			{PagePath: "/", Count: 900},
			{PagePath: "/about", Count: 334},
		},
		referrers: []models.ReferrerCount{
			{Referrer: "https://news.example.com/", Count: 77},
		},
		series: []models.TimeBucketCount{
			{Time: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), Count: 600},
			{Time: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC), Count: 634},
		},
	}
	h := NewAnalyticsHandlers(views, &fakeVisitors{unique: 321, active: 45})

	r := gin.New()
	r.LoadHTMLGlob("../templates/*.html")
	r.GET("/admin/analytics", h.Dashboard)
	r.GET("/admin/analytics/data", h.ChartData)
	return r
}

func TestDashboardRendersAggregates(t *testing.T) {
	w := get(newAnalyticsRouter(), "/admin/analytics")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "1234")
	assert.Contains(t, body, "321")
	assert.Contains(t, body, "45")
	assert.Contains(t, body, "/about")
	assert.Contains(t, body, "https://news.example.com/")
}

func TestDashboardRejectsBadStart(t *testing.T) {
	w := get(newAnalyticsRouter(), "/admin/analytics?start=yesterday")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChartDataDefaults(t *testing.T) {
	w := get(newAnalyticsRouter(), "/admin/analytics/data")

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Interval       string                   `json:"interval"`
		Views          []models.TimeBucketCount `json:"views"`
		UniqueSessions []models.TimeBucketCount `json:"uniqueSessions"`
		TopPages       []models.PageCount       `json:"topPages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "Day", resp.Interval)
	require.Len(t, resp.Views, 2)
	assert.Equal(t, uint64(600), resp.Views[0].Count)
	assert.Len(t, resp.UniqueSessions, 2)
	assert.Len(t, resp.TopPages, 2)
}

func TestChartDataRejectsBadInterval(t *testing.T) {
	w := get(newAnalyticsRouter(), "/admin/analytics/data?interval=fortnight")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChartDataRejectsBadLimit(t *testing.T) {
	w := get(newAnalyticsRouter(), "/admin/analytics/data?limit=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChartDataHonorsTimeRange(t *testing.T) {
	path := fmt.Sprintf("/admin/analytics/data?start=%s&end=%s",
		"2026-08-01T00:00:00Z", "2026-08-03T00:00:00Z")
	w := get(newAnalyticsRouter(), path)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2026-08-01T00:00:00Z")

	w = get(newAnalyticsRouter(), "/admin/analytics/data?end=not-a-time")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
