package domain

// CatalogItem Model (immutable seed data, read-only at runtime)
type CatalogItem struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`           // UUID primary key
	Name        string `gorm:"size:100;not null" json:"name"`          // Display name
	Type        string `gorm:"size:20;index" json:"type"`              // Item type: hat, shirt, accessory
	Description string `gorm:"size:500" json:"description"`            // Short description
	PriceCoins  int64  `gorm:"not null" json:"price_coins"`            // Price in coins, non-negative
	AssetURL    string `gorm:"size:500" json:"asset_url"`              // Optional asset location
	CreatedAt   int64  `gorm:"autoCreateTime:milli" json:"created_at"` // Timestamp of creation in milliseconds
}

// InventoryEntry Model: one row per (user, item), purchases are non-repeatable
type InventoryEntry struct {
	ID            string `gorm:"primaryKey;size:36" json:"id"`                          // UUID primary key
	UserID        string `gorm:"size:36;not null;uniqueIndex:idx_user_item" json:"user_id"` // Owning user
	CatalogItemID string `gorm:"size:36;not null;uniqueIndex:idx_user_item" json:"catalog_item_id"` // Purchased item
	PurchasedAt   int64  `gorm:"not null" json:"purchased_at"`                          // Purchase time in milliseconds
}
