package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"portfolio/web/config"
	"portfolio/web/models"
	"portfolio/web/utils"
)

// SessionCookieName carries the opaque visitor identifier.
const SessionCookieName = "visitor_session"

// Session cookies outlive the browser session so returning visitors keep
// counting as one.
const sessionCookieMaxAge = int(365 * 24 * time.Hour / time.Second)

// SessionToucher creates or refreshes a visitor's aggregate row.
type SessionToucher interface {
	Touch(ctx context.Context, sessionID string, now time.Time) error
}

// PageViewWriter appends one page-view row.
type PageViewWriter interface {
	InsertPageView(ctx context.Context, view models.PageView) error
}

// TrackVisitor identifies the visitor by cookie (issuing a fresh id when the
// cookie is absent or malformed), touches the Session row, and records one
// PageView before the page renders. Storage failures abort the request; there
// are no retries.
//
// trackable decides whether a request path resolves to a real page; requests
// for anything else (favicon probes, typos) pass through unrecorded so they
// cannot pollute the aggregates.
func TrackVisitor(visitors SessionToucher, views PageViewWriter, cfg *config.Config, trackable func(path string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !trackable(c.Request.URL.Path) {
			c.Next()
			return
		}

		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || !utils.IsValidSessionID(sessionID) {
			sessionID, err = utils.GenerateSessionID()
			if err != nil {
				log.Printf("TrackVisitor: failed to generate session id: %v", err)
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			// Secure is dropped in debug mode so local plain-HTTP testing works.
			c.SetCookie(SessionCookieName, sessionID, sessionCookieMaxAge, "/", "", !cfg.Debug, true)
		}

		now := time.Now().UTC()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := visitors.Touch(ctx, sessionID, now); err != nil {
			log.Printf("TrackVisitor: failed to touch session: %v", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		view := models.PageView{
			ViewID:    uuid.New().String(),
			SessionID: sessionID,
			PagePath:  c.Request.URL.Path,
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Referrer:  c.Request.Referer(),
			Timestamp: now,
		}
		if err := views.InsertPageView(ctx, view); err != nil {
			log.Printf("TrackVisitor: failed to record page view: %v", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set("session_id", sessionID)
		c.Next()
	}
}
