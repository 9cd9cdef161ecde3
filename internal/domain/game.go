package domain

// Game Model: a published 2D scene built in the editor
type Game struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`           // UUID primary key
	CreatorID    string `gorm:"size:36;not null;index" json:"creator_id"` // Owning user
	Name         string `gorm:"size:50;not null" json:"name"`           // Game name
	Description  string `gorm:"size:500" json:"description"`            // Short description
	ThumbnailURL string `gorm:"size:500" json:"thumbnail_url"`          // Optional thumbnail
	GameData     string `gorm:"type:text;not null" json:"game_data"`    // Scene data as JSON (opaque to the server)
	IsPublic     bool   `gorm:"not null;default:true" json:"is_public"` // Listed in the public index
	PlaysCount   int64  `gorm:"not null;default:0" json:"plays_count"`  // Incremented per play
	LikesCount   int64  `gorm:"not null;default:0" json:"likes_count"`  // Reserved for likes
	CreatedAt    int64  `gorm:"autoCreateTime:milli" json:"created_at"` // Timestamp of creation in milliseconds
	UpdatedAt    int64  `gorm:"autoUpdateTime:milli" json:"updated_at"` // Timestamp of last update in milliseconds
}
