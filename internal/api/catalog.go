package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"time"     // Time durations

	"playhub/internal/domain"  // Importing domain models
	"playhub/internal/economy" // Transaction engine
	"playhub/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// ListCatalogHandler returns catalog items, cached briefly in Redis per type filter
func ListCatalogHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemType := c.Query("type")               // Optional type filter
		ctx := context.Background()               // Context for Redis operations
		cacheKey := utils.CatalogKey(itemType)    // Cache key per filter
		var items []domain.CatalogItem            // Items to return
		found, err := utils.GetCache(ctx, rdb, cacheKey, &items)
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, items)
			return
		}
		query := db.Order("type, name") // Stable ordering
		if itemType != "" {
			query = query.Where("type = ?", itemType)
		}
		// Fetch from DB
		if err := query.Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list catalog"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, items, 5*time.Minute) // Catalog is seed data, cache longer
		c.JSON(http.StatusOK, items)                                 // Return items
	}
}

// InventoryItem is one owned item with its purchase time
type InventoryItem struct {
	ID          string `json:"id"`           // Catalog item id
	Name        string `json:"name"`         // Item name
	Type        string `json:"type"`         // Item type
	AssetURL    string `json:"asset_url"`    // Asset location
	PurchasedAt int64  `json:"purchased_at"` // Purchase time
}

// GetInventoryHandler returns the authenticated user's owned items
func GetInventoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")              // Authenticated user
		ctx := context.Background()                  // Context for Redis operations
		cacheKey := utils.InventoryKey(userID)       // Inventory cache key
		var items []InventoryItem                    // Items to return
		found, err := utils.GetCache(ctx, rdb, cacheKey, &items)
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, items)
			return
		}
		// Join inventory entries back to their catalog items
		err = db.Model(&domain.InventoryEntry{}).
			Select("catalog_items.id, catalog_items.name, catalog_items.type, catalog_items.asset_url, inventory_entries.purchased_at").
			Joins("JOIN catalog_items ON catalog_items.id = inventory_entries.catalog_item_id").
			Where("inventory_entries.user_id = ?", userID).
			Order("inventory_entries.purchased_at DESC").
			Scan(&items).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list inventory"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, items, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, items)                                  // Return items
	}
}

// PurchaseRequest carries the item to buy
type PurchaseRequest struct {
	ItemID string `json:"itemId" binding:"required"` // Catalog item id
}

// PurchaseHandler fronts the transaction engine's purchase operation
func PurchaseHandler(engine *economy.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID") // Authenticated buyer
		var req PurchaseRequest         // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "itemId required"})
			return
		}
		result, err := engine.PurchaseItem(c.Request.Context(), userID, req.ItemID)
		if err != nil {
			// Not-found failures are reported distinctly from rule violations
			status := http.StatusBadRequest
			switch {
			case errors.Is(err, economy.ErrItemNotFound), errors.Is(err, economy.ErrUserNotFound):
				status = http.StatusNotFound
			case errors.Is(err, economy.ErrInsufficientFunds),
				errors.Is(err, economy.ErrAlreadyOwned):
				status = http.StatusBadRequest
			default:
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		// Invalidate caches that now hold a stale balance or inventory
		ctx := context.Background()
		_ = utils.DeleteCache(ctx, rdb, utils.ProfileKey(userID))
		_ = utils.DeleteCache(ctx, rdb, utils.InventoryKey(userID))
		// Return the new balance
		c.JSON(http.StatusOK, gin.H{"success": true, "balance": result.Balance})
	}
}
