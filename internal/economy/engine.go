package economy

import (
	"context" // Context for DB operations
	"errors"  // Sentinel errors
	"strings" // Code normalization
	"time"    // Timestamps

	"playhub/internal/domain" // Importing domain models

	"github.com/google/uuid"     // UUID generation
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Business-rule failures, surfaced verbatim to callers. None are retried.
var (
	ErrItemNotFound      = errors.New("item not found")      // Unknown catalog item
	ErrUserNotFound      = errors.New("user not found")      // Unknown user
	ErrInsufficientFunds = errors.New("insufficient funds")  // Balance below price
	ErrAlreadyOwned      = errors.New("already owned")       // Duplicate purchase
	ErrCodeNotFound      = errors.New("invalid code")        // Unknown promo code
	ErrCodeExhausted     = errors.New("exhausted")           // No uses left
	ErrCodeExpired       = errors.New("expired")             // Past expiry
	ErrAlreadyRedeemed   = errors.New("already redeemed")    // Duplicate redemption
)

// Engine performs purchases and promo-code redemptions against the ledger.
// Each operation runs in a single DB transaction with conditional updates,
// so a balance is never debited without its inventory row and a uses-left
// counter never goes negative under concurrent redemptions.
type Engine struct {
	db *gorm.DB // Ledger store handle
}

// NewEngine creates a transaction engine over the given database
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// PurchaseResult is returned on a successful purchase
type PurchaseResult struct {
	Balance int64 `json:"balance"` // Balance after the debit
}

// RedeemResult is returned on a successful redemption
type RedeemResult struct {
	CoinsAdded int64 `json:"coinsAdded"` // Coins granted by the code
	Balance    int64 `json:"balance"`    // Balance after the credit
}

// PurchaseItem buys a catalog item for a user. Preconditions are checked in
// order, first failure wins: item exists, user exists, sufficient balance,
// not already owned.
func (e *Engine) PurchaseItem(ctx context.Context, userID, itemID string) (*PurchaseResult, error) {
	var result PurchaseResult
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item domain.CatalogItem // Look up the item first
		if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}
		var user domain.User // Then the buyer
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		// Balance check before the duplicate check, matching precondition order
		if user.Coins < item.PriceCoins {
			return ErrInsufficientFunds
		}
		var owned int64 // Purchases are non-repeatable
		if err := tx.Model(&domain.InventoryEntry{}).
			Where("user_id = ? AND catalog_item_id = ?", userID, itemID).
			Count(&owned).Error; err != nil {
			return err
		}
		if owned > 0 {
			return ErrAlreadyOwned
		}
		// Conditional debit: the WHERE clause keeps coins non-negative even if
		// another purchase drained the balance since the read above
		debit := tx.Model(&domain.User{}).
			Where("id = ? AND coins >= ?", userID, item.PriceCoins).
			Update("coins", gorm.Expr("coins - ?", item.PriceCoins))
		if debit.Error != nil {
			return debit.Error
		}
		if debit.RowsAffected == 0 {
			return ErrInsufficientFunds
		}
		// Insert inventory entry in the same transaction
		entry := domain.InventoryEntry{
			ID:            uuid.NewString(),          // Fresh entry id
			UserID:        userID,                    // Buyer
			CatalogItemID: itemID,                    // Item bought
			PurchasedAt:   time.Now().UnixMilli(),    // Purchase time
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		// Re-read for the post-debit balance; a concurrent debit may have
		// moved it since the read above
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		result.Balance = user.Coins
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Log successful purchase
	logrus.WithFields(logrus.Fields{
		"user_id": userID,         // Buyer
		"item_id": itemID,         // Item bought
		"balance": result.Balance, // New balance
		"type":    "purchase",     // Transaction type
	}).Info("Purchase transaction")
	return &result, nil
}

// NormalizeCode trims and upper-cases a promo code; lookups are case-insensitive
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// RedeemCode redeems a promo code for a user. Checks in order: code exists,
// uses remain, not expired, not already redeemed by this user.
func (e *Engine) RedeemCode(ctx context.Context, userID, code string) (*RedeemResult, error) {
	cleanCode := NormalizeCode(code)
	var result RedeemResult
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var promo domain.PromoCode // Look up the canonical code
		if err := tx.First(&promo, "code = ?", cleanCode).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCodeNotFound
			}
			return err
		}
		if promo.UsesLeft <= 0 {
			return ErrCodeExhausted
		}
		if promo.ExpiresAt != nil && *promo.ExpiresAt < time.Now().UnixMilli() {
			return ErrCodeExpired
		}
		var redeemed int64 // One redemption per (user, code)
		if err := tx.Model(&domain.PromoRedemption{}).
			Where("user_id = ? AND code = ?", userID, cleanCode).
			Count(&redeemed).Error; err != nil {
			return err
		}
		if redeemed > 0 {
			return ErrAlreadyRedeemed
		}
		// Conditional decrement: uses_left can never go negative, a concurrent
		// redemption of the last use makes this a zero-row update
		dec := tx.Model(&domain.PromoCode{}).
			Where("id = ? AND uses_left > 0", promo.ID).
			Update("uses_left", gorm.Expr("uses_left - 1"))
		if dec.Error != nil {
			return dec.Error
		}
		if dec.RowsAffected == 0 {
			return ErrCodeExhausted
		}
		// Credit the user in the same transaction
		credit := tx.Model(&domain.User{}).
			Where("id = ?", userID).
			Update("coins", gorm.Expr("coins + ?", promo.CoinsAmount))
		if credit.Error != nil {
			return credit.Error
		}
		if credit.RowsAffected == 0 {
			return ErrUserNotFound
		}
		// Insert redemption record
		redemption := domain.PromoRedemption{
			ID:         uuid.NewString(),       // Fresh redemption id
			UserID:     userID,                 // Redeeming user
			Code:       cleanCode,              // Canonical code
			RedeemedAt: time.Now().UnixMilli(), // Redemption time
		}
		if err := tx.Create(&redemption).Error; err != nil {
			return err
		}
		var user domain.User // Re-read for the post-credit balance
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		result.CoinsAdded = promo.CoinsAmount
		result.Balance = user.Coins
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Log successful redemption
	logrus.WithFields(logrus.Fields{
		"user_id": userID,            // Redeeming user
		"code":    cleanCode,         // Canonical code
		"coins":   result.CoinsAdded, // Coins granted
		"type":    "redeem",          // Transaction type
	}).Info("Redemption transaction")
	return &result, nil
}
