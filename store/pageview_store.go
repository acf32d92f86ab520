package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"portfolio/web/database"
	"portfolio/web/models"
	"portfolio/web/utils"
)

// PageViewStore is the append-only page-view log backed by ClickHouse, plus
// the aggregate queries the dashboard reads from it.
type PageViewStore struct {
	DB *database.ClickHouseClient
}

func NewPageViewStore(chClient *database.ClickHouseClient) *PageViewStore {
	return &PageViewStore{DB: chClient}
}

// Init creates the page_views table if it does not exist yet.
func (s *PageViewStore) Init(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS page_views (
			view_id    String,
			session_id String,
			page_path  String,
			ip_address String,
			user_agent String,
			referrer   String,
			timestamp  DateTime64(3, 'UTC')
		)
		ENGINE = MergeTree
		ORDER BY (timestamp, session_id)
	`
	if err := s.DB.Conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create page_views table: %w", err)
	}
	return nil
}

// InsertPageView appends one view row. Rows are immutable once written.
func (s *PageViewStore) InsertPageView(ctx context.Context, view models.PageView) error {
	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO page_views (
			view_id, session_id, page_path, ip_address, user_agent, referrer, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare page view insert: %w", err)
	}

	err = batch.Append(
		view.ViewID,
		view.SessionID,
		view.PagePath,
		view.IPAddress,
		view.UserAgent,
		view.Referrer,
		view.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append page view (ViewID: %s): %w", view.ViewID, err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send page view batch: %w", err)
	}

	return nil
}

// TotalViews counts page views inside the time window.
func (s *PageViewStore) TotalViews(ctx context.Context, start, end time.Time) (uint64, error) {
	query := `SELECT count() FROM page_views WHERE timestamp >= ? AND timestamp <= ?`

	var total uint64
	if err := s.DB.Conn.QueryRow(ctx, query, start, end).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to query total page views: %w", err)
	}

	return total, nil
}

// TopPages returns the most-viewed page paths in the window, busiest first.
func (s *PageViewStore) TopPages(ctx context.Context, start, end time.Time, limit uint64) ([]models.PageCount, error) {
	if limit == 0 {
		limit = 10
	}

	query := `
		SELECT page_path, count() as view_count
		FROM page_views
		WHERE timestamp >= ? AND timestamp <= ?
		GROUP BY page_path
		ORDER BY view_count DESC
		LIMIT ?
	`
	rows, err := s.DB.Conn.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top pages: %w", err)
	}
	defer rows.Close()

	var results []models.PageCount
	for rows.Next() {
		var pagePath string
		var count uint64
		if err := rows.Scan(&pagePath, &count); err != nil {
			log.Printf("Error scanning row for top pages: %v", err)
			continue
		}
		results = append(results, models.PageCount{
			PagePath: pagePath,
			Count:    count,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows for top pages: %w", err)
	}

	return results, nil
}

// TopReferrers returns the most common non-empty referrers in the window.
func (s *PageViewStore) TopReferrers(ctx context.Context, start, end time.Time, limit uint64) ([]models.ReferrerCount, error) {
	if limit == 0 {
		limit = 10
	}

	query := `
		SELECT referrer, count() as hit_count
		FROM page_views
		WHERE referrer != '' AND timestamp >= ? AND timestamp <= ?
		GROUP BY referrer
		ORDER BY hit_count DESC
		LIMIT ?
	`
	rows, err := s.DB.Conn.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top referrers: %w", err)
	}
	defer rows.Close()

	var results []models.ReferrerCount
	for rows.Next() {
		var referrer string
		var count uint64
		if err := rows.Scan(&referrer, &count); err != nil {
			log.Printf("Error scanning row for top referrers: %v", err)
			continue
		}
		results = append(results, models.ReferrerCount{
			Referrer: referrer,
			Count:    count,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows for top referrers: %w", err)
	}

	return results, nil
}

// ViewsOverTime buckets view counts by the given interval for chart data.
// The interval is validated before being interpolated into the query.
func (s *PageViewStore) ViewsOverTime(ctx context.Context, interval string, start, end time.Time) ([]models.TimeBucketCount, error) {
	if !utils.IsValidInterval(interval) {
		return nil, fmt.Errorf("invalid interval: %s", interval)
	}

	query := fmt.Sprintf(`
		SELECT toStartOf%s(timestamp) AS time_bucket, count() AS total_views
		FROM page_views
		WHERE timestamp >= ? AND timestamp <= ?
		GROUP BY time_bucket
		ORDER BY time_bucket ASC
	`, interval)

	rows, err := s.DB.Conn.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query views over time: %w", err)
	}
	defer rows.Close()

	var results []models.TimeBucketCount
	for rows.Next() {
		var timeBucket time.Time
		var count uint64
		if err := rows.Scan(&timeBucket, &count); err != nil {
			log.Printf("Error scanning row for views over time: %v", err)
			continue
		}
		results = append(results, models.TimeBucketCount{
			Time:  timeBucket,
			Count: count,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows for views over time: %w", err)
	}

	return results, nil
}

// UniqueSessionsOverTime buckets distinct visiting sessions by interval.
func (s *PageViewStore) UniqueSessionsOverTime(ctx context.Context, interval string, start, end time.Time) ([]models.TimeBucketCount, error) {
	if !utils.IsValidInterval(interval) {
		return nil, fmt.Errorf("invalid interval: %s", interval)
	}

	query := fmt.Sprintf(`
		SELECT toStartOf%s(timestamp) AS time_bucket, uniq(session_id) AS unique_sessions
		FROM page_views
		WHERE timestamp >= ? AND timestamp <= ?
		GROUP BY time_bucket
		ORDER BY time_bucket ASC
	`, interval)

	rows, err := s.DB.Conn.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query unique sessions over time: %w", err)
	}
	defer rows.Close()

	var results []models.TimeBucketCount
	for rows.Next() {
		var timeBucket time.Time
		var count uint64
		if err := rows.Scan(&timeBucket, &count); err != nil {
			log.Printf("Error scanning row for unique sessions: %v", err)
			continue
		}
		results = append(results, models.TimeBucketCount{
			Time:  timeBucket,
			Count: count,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows for unique sessions: %w", err)
	}

	return results, nil
}
