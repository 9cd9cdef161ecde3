package api

import (
	"net/http" // HTTP status codes
	"regexp"   // Regular expressions
	"strings"  // String manipulation
	"time"     // Timestamps

	"playhub/internal/domain" // Importing domain models
	"playhub/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // UUID generation
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// cookieMaxAge matches the 7 day token lifetime
const cookieMaxAge = 7 * 24 * 60 * 60

// Request struct for registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Request struct for login
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" binding:"required"` // Username or email
	Password        string `json:"password" binding:"required"`        // Password must be provided
}

var (
	usernameRe = regexp.MustCompile(`^[a-z0-9_]+$`) // Lowercase alphanumerics and underscore only
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// isValidUsername checks length and allowed characters
func isValidUsername(username string) bool {
	if len(username) < domain.UsernameMin || len(username) > domain.UsernameMax {
		return false
	}
	return usernameRe.MatchString(username)
}

// publicUser is the user shape returned by auth endpoints
func publicUser(u *domain.User) gin.H {
	return gin.H{
		"id":           u.ID,          // User id
		"username":     u.Username,    // Login name
		"display_name": u.DisplayName, // Public name
		"coins":        u.Coins,       // Balance
		"avatar_data":  u.AvatarData,  // Avatar descriptor
	}
}

// RegisterHandler creates a new user and signs them in
func RegisterHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
			return
		}
		username := strings.ToLower(strings.TrimSpace(req.Username)) // Canonical username
		email := strings.ToLower(strings.TrimSpace(req.Email))       // Canonical email
		// Validate username
		if !isValidUsername(username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be 3-20 characters: letters, numbers and underscore"})
			return
		}
		// Validate email shape
		if !emailRe.MatchString(email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email"})
			return
		}
		// Validate password length
		if len(req.Password) < domain.PasswordMin {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters"})
			return
		}
		// Reject duplicate username or email before hashing
		var count int64
		db.Model(&domain.User{}).Where("username = ? OR email = ?", username, email).Count(&count)
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already exists"})
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user := domain.User{
			ID:           uuid.NewString(), // Fresh user id
			Username:     username,         // Canonical username
			Email:        email,            // Canonical email
			PasswordHash: string(hash),     // Bcrypt hash
			DisplayName:  username,         // Display name starts as the username
		}
		// Attempt to create the user in the database
		if err := db.Create(&user).Error; err != nil {
			// Unique index race, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already exists"})
			return
		}
		// Issue the token and cookie
		token, err := utils.GenerateJWT(user.ID, user.Username, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie("token", token, cookieMaxAge, "/", "", false, true)
		// Return the new user and token
		c.JSON(http.StatusCreated, gin.H{"user": publicUser(&user), "token": token})
	}
}

// LoginHandler authenticates a user by username or email
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing credentials"})
			return
		}
		identifier := strings.ToLower(strings.TrimSpace(req.UsernameOrEmail)) // Canonical identifier
		column := "username"
		if strings.Contains(identifier, "@") {
			column = "email" // Looks like an email
		}
		var user domain.User // Fetch user from database
		if err := db.Where(column+" = ?", identifier).First(&user).Error; err != nil {
			// If user not found, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Record the login time, not fatal on failure
		db.Model(&user).Update("last_login", time.Now().UnixMilli())
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, user.Username, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie("token", token, cookieMaxAge, "/", "", false, true)
		// Return the user and token in the response
		c.JSON(http.StatusOK, gin.H{"user": publicUser(&user), "token": token})
	}
}

// LogoutHandler clears the session cookie
func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie("token", "", -1, "/", "", false, true) // Expire the cookie
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// MeHandler returns the authenticated user's own record
func MeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			// Token refers to a deleted user, clear the cookie
			c.SetCookie("token", "", -1, "/", "", false, true)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, publicUser(&user)) // Return the user
	}
}
