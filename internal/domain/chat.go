package domain

// ChatMessage Model: durable record of server chat, mirrored in the in-memory history cache
type ChatMessage struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`        // UUID assigned at send time
	ServerID  string `gorm:"size:36;not null;index" json:"-"`     // Chat room identifier (currently "main")
	UserID    string `gorm:"size:36;not null" json:"userId"`      // Author user id
	Username  string `gorm:"size:20;not null" json:"username"`    // Author display name at time of send
	Message   string `gorm:"size:500;not null" json:"message"`    // Message body, bounded length
	CreatedAt int64  `gorm:"not null;index" json:"createdAt"`     // Send time in unix milliseconds
}
