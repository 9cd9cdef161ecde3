package domain

// User Model
type User struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`                 // UUID primary key
	Username     string `gorm:"uniqueIndex;size:20;not null" json:"username"` // Unique login name (lowercase)
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"-"`       // Unique email (lowercase)
	PasswordHash string `gorm:"not null" json:"-"`                            // Bcrypt hash, never serialized
	DisplayName  string `gorm:"uniqueIndex;size:20" json:"display_name"`      // Unique public name
	Coins        int64  `gorm:"not null;default:0" json:"coins"`              // Currency balance, never negative
	AvatarData   string `gorm:"type:text" json:"avatar_data"`                 // Avatar descriptor as JSON
	LastLogin    int64  `json:"last_login"`                                   // Last login in unix milliseconds
	CreatedAt    int64  `gorm:"autoCreateTime:milli" json:"created_at"`       // Timestamp of creation in milliseconds
}
