package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"playhub/internal/economy" // Transaction engine
	"playhub/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// RedeemRequest carries the code to redeem
type RedeemRequest struct {
	Code string `json:"code" binding:"required"` // Promo code, any casing
}

// RedeemHandler fronts the transaction engine's redemption operation
func RedeemHandler(engine *economy.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID") // Authenticated user
		var req RedeemRequest           // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code required"})
			return
		}
		result, err := engine.RedeemCode(c.Request.Context(), userID, req.Code)
		if err != nil {
			// Not-found failures are reported distinctly from rule violations
			status := http.StatusBadRequest
			switch {
			case errors.Is(err, economy.ErrCodeNotFound):
				status = http.StatusNotFound
			case errors.Is(err, economy.ErrCodeExhausted),
				errors.Is(err, economy.ErrCodeExpired),
				errors.Is(err, economy.ErrAlreadyRedeemed):
				status = http.StatusBadRequest
			default:
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		// The cached profile now holds a stale balance
		_ = utils.DeleteCache(context.Background(), rdb, utils.ProfileKey(userID))
		// Return coins granted and the new balance
		c.JSON(http.StatusOK, gin.H{"success": true, "coinsAdded": result.CoinsAdded, "balance": result.Balance})
	}
}
