package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/geosubmit-api/store"
)

const contextAPIKey = "api_key"

// apiKeyMiddleware resolves the `key` query parameter. Submissions are
// accepted without a key; an unknown key, or one not allowed to submit, is
// treated as no key at all.
func (s *Server) apiKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Query("key")
		if key == "" {
			c.Next()
			return
		}

		if s.apiKeys == nil {
			c.Set(contextAPIKey, key)
			c.Next()
			return
		}

		k, err := s.apiKeys.GetAPIKey(key)
		if errors.Is(err, store.ErrAPIKeyNotFound) {
			log.WithField("key", key).Debug("unknown api key")
			c.Next()
			return
		} else if shouldInterupt(err, c) {
			return
		}

		if k.CanSubmit() {
			c.Set(contextAPIKey, k.ValidKey)
		}
		c.Next()
	}
}

// apiKeyFromContext returns the resolved api key, or nil.
func apiKeyFromContext(c *gin.Context) *string {
	key := c.GetString(contextAPIKey)
	if key == "" {
		return nil
	}
	return &key
}

func (s *Server) apikeyAuthentication(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiToken := c.GetHeader("Api-Token")
		if apiToken == "" || apiToken != key {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
