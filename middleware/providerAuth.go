package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sokoni/services/provider"
	"sokoni/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	providerCachePrefix = "provider_of:"
	providerCacheTTL    = 10 * time.Minute
)

// ProviderContextMiddleware resolves the provider record behind the authenticated
// user and stores its id under "providerID". Lookups are cached in Redis when a
// cache client is given.
func ProviderContextMiddleware(providers provider.ProviderService, cache *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := zap.L()
		userID := UserID(c)
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cacheKey := providerCachePrefix + userID
		if cache != nil {
			if cached, err := cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
				c.Set(ctxProviderID, cached)
				c.Next()
				return
			} else if err != nil && !errors.Is(err, redis.Nil) {
				logger.Error("Error checking provider cache", zap.Error(err))
			}
		}

		p, err := providers.GetByUser(ctx, userID)
		if errors.Is(err, provider.ErrNotRegistered) {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{
				Message: "Provider profile required",
				Details: "complete provider registration first",
			})
			return
		}
		if err != nil {
			logger.Error("Provider lookup failed", zap.String("user", userID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, utils.ErrorResponse{Message: "Could not verify provider"})
			return
		}

		if cache != nil {
			if err := cache.Set(ctx, cacheKey, p.ID, providerCacheTTL).Err(); err != nil {
				logger.Warn("Failed to set provider cache", zap.Error(err))
			}
		}
		c.Set(ctxProviderID, p.ID)
		c.Next()
	}
}
