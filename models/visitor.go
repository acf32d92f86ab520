package models

import "time"

// PageView is a single recorded request to a trackable page, tied to a
// Session (a visitor identity correlated across requests by the session
// cookie). Immutable once inserted.
type PageView struct {
	ViewID    string    `json:"viewId"`
	SessionID string    `json:"sessionId"`
	PagePath  string    `json:"pagePath"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	Referrer  string    `json:"referrer"`
	Timestamp time.Time `json:"timestamp"`
}

type PageCount struct {
	PagePath string `json:"pagePath"`
	Count    uint64 `json:"count"`
}

type ReferrerCount struct {
	Referrer string `json:"referrer"`
	Count    uint64 `json:"count"`
}

type TimeBucketCount struct {
	Time  time.Time `json:"time"`
	Count uint64    `json:"count"`
}
