package api

import (
	"net/http" // HTTP status codes

	"playhub/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"   // UUID generation
	"gorm.io/gorm"             // GORM ORM library
)

// orderPair stores an unordered user pair ordered, smaller id first
func orderPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// FriendEntry is one row of the friends listing
type FriendEntry struct {
	ID          string `json:"id"`           // Friend's user id
	Username    string `json:"username"`     // Friend's login name
	DisplayName string `json:"display_name"` // Friend's public name
	AvatarData  string `json:"avatar_data"`  // Friend's avatar descriptor
	Status      string `json:"status"`       // Friendship status
}

// ListFriendsHandler returns accepted friendships of the authenticated user
func ListFriendsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID") // Authenticated user
		var friends []FriendEntry
		// Join the friendship pair back to the other user's row
		err := db.Raw(`
			SELECT u.id, u.username, u.display_name, u.avatar_data, f.status
			FROM friendships f
			JOIN users u ON u.id = CASE WHEN f.user_id = ? THEN f.friend_id ELSE f.user_id END
			WHERE (f.user_id = ? OR f.friend_id = ?) AND f.status = ?`,
			userID, userID, userID, domain.FriendAccepted).Scan(&friends).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list friends"})
			return
		}
		c.JSON(http.StatusOK, friends) // Return friend list
	}
}

// AddFriendHandler creates a pending friendship request
func AddFriendHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID") // Authenticated user
		friendID := c.Param("id")       // Target user
		// A user cannot befriend themselves
		if friendID == userID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot add yourself"})
			return
		}
		var friend domain.User // Target must exist
		if err := db.First(&friend, "id = ?", friendID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		first, second := orderPair(userID, friendID) // Canonical pair order
		var existing domain.Friendship
		// At most one record per unordered pair
		if err := db.Where("user_id = ? AND friend_id = ?", first, second).First(&existing).Error; err == nil {
			if existing.Status == domain.FriendAccepted {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Already friends"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Request already sent"})
			return
		}
		friendship := domain.Friendship{
			ID:       uuid.NewString(),     // Fresh friendship id
			UserID:   first,                // Smaller id first
			FriendID: second,               // Larger id second
			Status:   domain.FriendPending, // Starts pending
		}
		// Save the request
		if err := db.Create(&friendship).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add friend"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true})
	}
}

// AcceptFriendHandler marks a pending friendship as accepted
func AcceptFriendHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")              // Authenticated user
		first, second := orderPair(userID, c.Param("id")) // Canonical pair order
		var friendship domain.Friendship
		// Look up the pair's record
		if err := db.Where("user_id = ? AND friend_id = ?", first, second).First(&friendship).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
			return
		}
		// Flip to accepted
		if err := db.Model(&friendship).Update("status", domain.FriendAccepted).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// RemoveFriendHandler deletes a friendship or pending request
func RemoveFriendHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")              // Authenticated user
		first, second := orderPair(userID, c.Param("id")) // Canonical pair order
		// Delete by pair, missing rows are a 404
		res := db.Where("user_id = ? AND friend_id = ?", first, second).Delete(&domain.Friendship{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove friend"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Friendship not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
