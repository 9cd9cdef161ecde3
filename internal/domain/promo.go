package domain

// PromoCode Model: codes are stored upper-case, uses_left never drops below zero
type PromoCode struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`           // UUID primary key
	Code        string `gorm:"uniqueIndex;size:50;not null" json:"code"` // Canonical (upper-case) code
	CoinsAmount int64  `gorm:"not null" json:"coins_amount"`           // Coins granted per redemption
	UsesTotal   int64  `gorm:"not null" json:"uses_total"`             // Total redemptions allowed
	UsesLeft    int64  `gorm:"not null" json:"uses_left"`              // Remaining redemptions, floor 0
	ExpiresAt   *int64 `json:"expires_at"`                             // Optional expiry in milliseconds
	CreatedAt   int64  `gorm:"autoCreateTime:milli" json:"created_at"` // Timestamp of creation in milliseconds
}

// PromoRedemption Model: one row per (user, code)
type PromoRedemption struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`                          // UUID primary key
	UserID     string `gorm:"size:36;not null;uniqueIndex:idx_user_code" json:"user_id"` // Redeeming user
	Code       string `gorm:"size:50;not null;uniqueIndex:idx_user_code" json:"code"`    // Canonical code redeemed
	RedeemedAt int64  `gorm:"not null" json:"redeemed_at"`                           // Redemption time in milliseconds
}
