package api

import (
	"net/http"     // HTTP status codes
	"strconv"      // String conversion
	"strings"      // String manipulation
	"unicode/utf8" // Rune-safe truncation

	"playhub/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"   // UUID generation
	"gorm.io/gorm"             // GORM ORM library
)

// GameListing is one row of the public games index
type GameListing struct {
	ID                 string `json:"id"`                   // Game id
	CreatorID          string `json:"creator_id"`           // Creator user id
	Name               string `json:"name"`                 // Game name
	Description        string `json:"description"`          // Description
	ThumbnailURL       string `json:"thumbnail_url"`        // Thumbnail
	PlaysCount         int64  `json:"plays_count"`          // Total plays
	LikesCount         int64  `json:"likes_count"`          // Total likes
	CreatedAt          int64  `json:"created_at"`           // Creation time
	UpdatedAt          int64  `json:"updated_at"`           // Last update time
	CreatorUsername    string `json:"creator_username"`     // Creator login name
	CreatorDisplayName string `json:"creator_display_name"` // Creator public name
}

// ListGamesHandler returns public games with search, sort and pagination
func ListGamesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 24 // Default page size
		if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
			limit = v // Set limit if valid
		}
		offset := 0 // Default offset
		if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
			offset = v // Set offset if valid
		}
		orderBy := "games.created_at DESC" // Default sort: newest
		switch c.Query("sort") {
		case "popular":
			orderBy = "games.plays_count DESC"
		case "likes":
			orderBy = "games.likes_count DESC"
		}
		query := db.Model(&domain.Game{}).
			Select("games.*, users.username AS creator_username, users.display_name AS creator_display_name").
			Joins("JOIN users ON users.id = games.creator_id").
			Where("games.is_public = ?", true)
		// Optional substring search over name and description
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + q + "%"
			query = query.Where("games.name LIKE ? OR games.description LIKE ?", like, like)
		}
		var total int64 // Total matching games for pagination
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count games"})
			return
		}
		var games []GameListing
		if err := query.Order(orderBy).Limit(limit).Offset(offset).Scan(&games).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list games"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"games": games, "total": total}) // Return page
	}
}

// MyGamesHandler lists the authenticated user's own games
func MyGamesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID") // Authenticated user
		var games []domain.Game
		if err := db.Where("creator_id = ?", userID).Order("updated_at DESC").Find(&games).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list games"})
			return
		}
		c.JSON(http.StatusOK, games) // Includes game_data for the editor
	}
}

// GetGameHandler returns one game with its creator names
func GetGameHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var game struct {
			domain.Game
			CreatorUsername    string `json:"creator_username"`     // Creator login name
			CreatorDisplayName string `json:"creator_display_name"` // Creator public name
		}
		err := db.Model(&domain.Game{}).
			Select("games.*, users.username AS creator_username, users.display_name AS creator_display_name").
			Joins("JOIN users ON users.id = games.creator_id").
			Where("games.id = ?", c.Param("id")).
			First(&game).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		c.JSON(http.StatusOK, game) // Return the game
	}
}

// GameRequest carries a game create or update body
type GameRequest struct {
	Name         string  `json:"name"`          // Game name
	Description  *string `json:"description"`   // Optional description
	ThumbnailURL *string `json:"thumbnail_url"` // Optional thumbnail
	GameData     *string `json:"game_data"`     // Scene data JSON, opaque
	IsPublic     *bool   `json:"is_public"`     // Optional listing flag
}

// truncate bounds a string to max bytes without splitting a rune
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// CreateGameHandler publishes a new game
func CreateGameHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID") // Authenticated creator
		var req GameRequest             // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		name := strings.TrimSpace(req.Name) // Game name
		if name == "" || len(name) > domain.GameNameMax {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid name"})
			return
		}
		// Scene data is required to publish
		if req.GameData == nil || *req.GameData == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "game_data required"})
			return
		}
		game := domain.Game{
			ID:        uuid.NewString(), // Fresh game id
			CreatorID: userID,           // Owner
			Name:      name,             // Bounded name
			GameData:  *req.GameData,    // Opaque scene JSON
			IsPublic:  true,             // Listed by default
		}
		if req.Description != nil {
			game.Description = truncate(*req.Description, domain.GameDescMax)
		}
		if req.ThumbnailURL != nil {
			game.ThumbnailURL = *req.ThumbnailURL
		}
		if req.IsPublic != nil {
			game.IsPublic = *req.IsPublic
		}
		// Save the game
		if err := db.Create(&game).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create game"})
			return
		}
		c.JSON(http.StatusCreated, game) // Return the new game
	}
}

// UpdateGameHandler patches a game, creator only
func UpdateGameHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID") // Authenticated user
		var game domain.Game            // Existing game
		if err := db.First(&game, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		// Only the creator may mutate their game
		if game.CreatorID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
			return
		}
		var req GameRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		updates := map[string]any{} // Only provided fields change
		if name := strings.TrimSpace(req.Name); name != "" {
			updates["name"] = truncate(name, domain.GameNameMax)
		}
		if req.Description != nil {
			updates["description"] = truncate(*req.Description, domain.GameDescMax)
		}
		if req.ThumbnailURL != nil {
			updates["thumbnail_url"] = *req.ThumbnailURL
		}
		if req.GameData != nil {
			updates["game_data"] = *req.GameData
		}
		if req.IsPublic != nil {
			updates["is_public"] = *req.IsPublic
		}
		if len(updates) > 0 {
			if err := db.Model(&game).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update game"})
				return
			}
		}
		c.JSON(http.StatusOK, game) // Return the updated game
	}
}

// PlayGameHandler bumps the play counter
func PlayGameHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Conditional increment keyed by id, missing rows are a 404
		res := db.Model(&domain.Game{}).
			Where("id = ?", c.Param("id")).
			Update("plays_count", gorm.Expr("plays_count + 1"))
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record play"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
