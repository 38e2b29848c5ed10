package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"moltbook/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AgentKey is the context key the authenticated agent is stored under.
const AgentKey = "agent"

// AgentAuth resolves the X-Api-Key header to an agent. Keys are stored as
// SHA-256 hashes, so the lookup hashes first and never touches plaintext.
// Suspended agents authenticate but are refused.
func AgentAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-Api-Key")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "unauthorized", "message": "missing X-Api-Key header"},
			})
			return
		}

		sum := sha256.Sum256([]byte(raw))
		hash := hex.EncodeToString(sum[:])

		var key models.APIKey
		err := db.Preload("Agent").Where("key_hash = ?", hash).First(&key).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "unauthorized", "message": "invalid API key"},
			})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"code": "internal", "message": "auth lookup failed"},
			})
			return
		}

		if key.Agent.Status == models.AgentSuspended {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"code": "forbidden", "message": "agent is suspended"},
			})
			return
		}

		// Best effort; a failed touch never blocks the request.
		now := time.Now()
		db.Model(&models.APIKey{}).Where("id = ?", key.ID).UpdateColumn("last_used_at", now)

		c.Set(AgentKey, &key.Agent)
		c.Next()
	}
}

// CurrentAgent returns the authenticated agent set by AgentAuth.
func CurrentAgent(c *gin.Context) *models.Agent {
	val, ok := c.Get(AgentKey)
	if !ok {
		return nil
	}
	agent, _ := val.(*models.Agent)
	return agent
}
