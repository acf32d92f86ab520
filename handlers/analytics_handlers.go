package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio/web/models"
	"portfolio/web/utils"
)

// PageViewSource is the read side of the page-view log.
type PageViewSource interface {
	TotalViews(ctx context.Context, start, end time.Time) (uint64, error)
	TopPages(ctx context.Context, start, end time.Time, limit uint64) ([]models.PageCount, error)
	TopReferrers(ctx context.Context, start, end time.Time, limit uint64) ([]models.ReferrerCount, error)
	ViewsOverTime(ctx context.Context, interval string, start, end time.Time) ([]models.TimeBucketCount, error)
	UniqueSessionsOverTime(ctx context.Context, interval string, start, end time.Time) ([]models.TimeBucketCount, error)
}

// VisitorSource is the read side of the unique-visitor aggregate.
type VisitorSource interface {
	CountUnique(ctx context.Context) (uint64, error)
	CountUniqueSince(ctx context.Context, since time.Time) (uint64, error)
}

type AnalyticsHandlers struct {
	Views    PageViewSource
	Visitors VisitorSource
}

func NewAnalyticsHandlers(views PageViewSource, visitors VisitorSource) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		Views:    views,
		Visitors: visitors,
	}
}

// parseTimeRange reads the optional start/end query parameters (RFC3339).
// The window defaults to the last 7 days. Returns ok=false after writing a
// 400 response when a parameter is malformed.
func parseTimeRange(c *gin.Context) (start, end time.Time, ok bool) {
	var err error

	start = time.Now().UTC().Add(-7 * 24 * time.Hour)
	if startParam := c.Query("start"); startParam != "" {
		start, err = time.Parse(time.RFC3339, startParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'start' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)"})
			return start, end, false
		}
	}

	end = time.Now().UTC()
	if endParam := c.Query("end"); endParam != "" {
		end, err = time.Parse(time.RFC3339, endParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'end' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)"})
			return start, end, false
		}
	}

	return start, end, true
}

// Dashboard renders the analytics summary page: total views, unique
// visitors, top pages and top referrers over the requested window.
func (h *AnalyticsHandlers) Dashboard(c *gin.Context) {
	start, end, ok := parseTimeRange(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	totalViews, err := h.Views.TotalViews(ctx, start, end)
	if err != nil {
		log.Printf("Dashboard: failed to count views: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve view statistics"})
		return
	}

	uniqueVisitors, err := h.Visitors.CountUnique(ctx)
	if err != nil {
		log.Printf("Dashboard: failed to count unique visitors: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve visitor statistics"})
		return
	}

	activeVisitors, err := h.Visitors.CountUniqueSince(ctx, start)
	if err != nil {
		log.Printf("Dashboard: failed to count recent visitors: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve visitor statistics"})
		return
	}

	topPages, err := h.Views.TopPages(ctx, start, end, 10)
	if err != nil {
		log.Printf("Dashboard: failed to query top pages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve top pages"})
		return
	}

	topReferrers, err := h.Views.TopReferrers(ctx, start, end, 10)
	if err != nil {
		log.Printf("Dashboard: failed to query top referrers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve top referrers"})
		return
	}

	c.HTML(http.StatusOK, "admin_analytics.html", gin.H{
		"StartDate":      start.Format(time.RFC3339),
		"EndDate":        end.Format(time.RFC3339),
		"TotalViews":     totalViews,
		"UniqueVisitors": uniqueVisitors,
		"ActiveVisitors": activeVisitors,
		"TopPages":       topPages,
		"TopReferrers":   topReferrers,
	})
}

// ChartData returns the time-bucketed series the dashboard charts are drawn
// from, as JSON.
func (h *AnalyticsHandlers) ChartData(c *gin.Context) {
	interval := c.DefaultQuery("interval", "Day")
	if !utils.IsValidInterval(interval) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'interval' parameter (e.g., 'Day', 'Hour')"})
		return
	}

	start, end, ok := parseTimeRange(c)
	if !ok {
		return
	}

	var limit uint64 = 10
	if limitParam := c.Query("limit"); limitParam != "" {
		parsedLimit, err := strconv.ParseUint(limitParam, 10, 64)
		if err != nil || parsedLimit == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'limit' parameter. Must be a positive integer."})
			return
		}
		limit = parsedLimit
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	views, err := h.Views.ViewsOverTime(ctx, interval, start, end)
	if err != nil {
		log.Printf("ChartData: failed to query views over time: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve view series"})
		return
	}

	sessions, err := h.Views.UniqueSessionsOverTime(ctx, interval, start, end)
	if err != nil {
		log.Printf("ChartData: failed to query unique sessions over time: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve visitor series"})
		return
	}

	topPages, err := h.Views.TopPages(ctx, start, end, limit)
	if err != nil {
		log.Printf("ChartData: failed to query top pages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve top pages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"interval":       interval,
		"startDate":      start.Format(time.RFC3339),
		"endDate":        end.Format(time.RFC3339),
		"views":          views,
		"uniqueSessions": sessions,
		"topPages":       topPages,
	})
}
