package api

import (
	"encoding/json" // Avatar descriptor (de)serialization
	"net/http"      // HTTP status codes

	"playhub/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// Avatar is the avatar descriptor stored per user
type Avatar struct {
	SkinColor   string   `json:"skinColor"`   // Hex skin color
	Accessories []string `json:"accessories"` // Equipped catalog item ids
}

// defaultAvatar is the descriptor for users who never customized
func defaultAvatar() Avatar {
	return Avatar{SkinColor: "#E8BEAC", Accessories: []string{}}
}

// parseAvatar decodes stored avatar JSON over the defaults
func parseAvatar(data string) Avatar {
	avatar := defaultAvatar()
	if data == "" {
		return avatar
	}
	// Corrupt descriptors fall back to the defaults
	if err := json.Unmarshal([]byte(data), &avatar); err != nil {
		return defaultAvatar()
	}
	if avatar.Accessories == nil {
		avatar.Accessories = []string{}
	}
	return avatar
}

// GetAvatarHandler returns a user's avatar descriptor
func GetAvatarHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId") // Target user
		// Missing userId falls back to the authenticated user
		if userID == "" {
			userID = c.GetString("userID")
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, parseAvatar(user.AvatarData)) // Return descriptor
	}
}

// UpdateAvatarRequest carries a partial avatar update
type UpdateAvatarRequest struct {
	SkinColor   *string  `json:"skinColor"`   // Optional new skin color
	Accessories []string `json:"accessories"` // Optional new accessory set
}

// UpdateAvatarHandler merges an update over the current avatar, owner only
func UpdateAvatarHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID") // Authenticated user
		var req UpdateAvatarRequest     // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Current record
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		avatar := parseAvatar(user.AvatarData) // Merge over current values
		if req.SkinColor != nil {
			avatar.SkinColor = *req.SkinColor
		}
		if req.Accessories != nil {
			avatar.Accessories = req.Accessories
		}
		data, err := json.Marshal(avatar) // Serialize the merged descriptor
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update avatar"})
			return
		}
		// Persist the descriptor
		if err := db.Model(&user).Update("avatar_data", string(data)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update avatar"})
			return
		}
		c.JSON(http.StatusOK, avatar) // Return the merged descriptor
	}
}
