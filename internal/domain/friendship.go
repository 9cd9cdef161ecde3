package domain

// Friendship status values
const (
	FriendPending  = "pending"  // Request sent, not yet accepted
	FriendAccepted = "accepted" // Both sides are friends
)

// Friendship Model: unordered pair stored ordered (smaller user id first)
type Friendship struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`                            // UUID primary key
	UserID    string `gorm:"size:36;not null;uniqueIndex:idx_pair" json:"user_id"`    // Smaller id of the pair
	FriendID  string `gorm:"size:36;not null;uniqueIndex:idx_pair" json:"friend_id"`  // Larger id of the pair
	Status    string `gorm:"size:10;not null;default:pending" json:"status"`          // pending or accepted
	CreatedAt int64  `gorm:"autoCreateTime:milli" json:"created_at"`                  // Timestamp of creation in milliseconds
}
