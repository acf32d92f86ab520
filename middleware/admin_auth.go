package middleware

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"portfolio/web/config"
	"portfolio/web/utils"
)

// AdminTokenCookie holds the short-lived dashboard token issued after a
// successful Basic auth exchange, so the browser is not challenged on every
// dashboard request.
const AdminTokenCookie = "admin_token"

// AdminRequired gates the analytics dashboard: the client IP must be on the
// allowlist, and the request must carry either a valid dashboard token or
// Basic credentials matching the configured admin account.
func AdminRequired(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ipAllowed(cfg.AllowedIPs, c.ClientIP()) {
			log.Printf("AdminRequired: rejected IP %s", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}

		if token, err := c.Cookie(AdminTokenCookie); err == nil {
			if claims, err := utils.ValidateAdminToken(token, cfg.SecretKey); err == nil {
				c.Set("admin_user", claims.Username)
				c.Next()
				return
			}
			// Expired or tampered token: fall through to the Basic challenge.
		}

		username, password, ok := c.Request.BasicAuth()
		if !ok || !credentialsMatch(cfg, username, password) {
			c.Header("WWW-Authenticate", `Basic realm="analytics"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		token, err := utils.GenerateAdminToken(username, cfg.SecretKey)
		if err != nil {
			log.Printf("AdminRequired: failed to issue dashboard token: %v", err)
		} else {
			c.SetCookie(AdminTokenCookie, token, int(utils.AdminTokenTTL/time.Second), "/admin", "", !cfg.Debug, true)
		}

		c.Set("admin_user", username)
		c.Next()
	}
}

// credentialsMatch compares the presented pair against the configured admin
// account in constant time. ADMIN_PASSWORD may hold either a plaintext value
// or a bcrypt digest.
func credentialsMatch(cfg *config.Config, username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.AdminUsername)) == 1

	var passOK bool
	if strings.HasPrefix(cfg.AdminPassword, "$2a$") || strings.HasPrefix(cfg.AdminPassword, "$2b$") {
		passOK = bcrypt.CompareHashAndPassword([]byte(cfg.AdminPassword), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(cfg.AdminPassword)) == 1
	}

	return userOK && passOK
}

func ipAllowed(allowed []string, ip string) bool {
	for _, a := range allowed {
		if a == ip {
			return true
		}
	}
	return false
}
