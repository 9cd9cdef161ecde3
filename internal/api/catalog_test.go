package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"playhub/internal/domain"
	"playhub/internal/economy"
	"playhub/internal/middleware"
	"playhub/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := conn.AutoMigrate(
		&domain.User{},
		&domain.CatalogItem{},
		&domain.InventoryEntry{},
		&domain.PromoCode{},
		&domain.PromoRedemption{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return conn
}

func setupRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := economy.NewEngine(db)
	r := gin.New()
	required := middleware.JWTAuthMiddleware(testSecret)
	r.GET("/api/catalog", ListCatalogHandler(db, nil))
	r.GET("/api/catalog/inventory", required, GetInventoryHandler(db, nil))
	r.POST("/api/catalog/purchase", required, PurchaseHandler(engine, nil))
	r.POST("/api/codes/redeem", required, RedeemHandler(engine, nil))
	return r
}

func seedUser(t *testing.T, db *gorm.DB, coins int64) (string, string) {
	t.Helper()
	user := domain.User{
		ID:           uuid.NewString(),
		Username:     "u_" + uuid.NewString()[:8],
		Email:        uuid.NewString() + "@test.local",
		PasswordHash: "x",
		DisplayName:  "d_" + uuid.NewString()[:8],
		Coins:        coins,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	token, err := utils.GenerateJWT(user.ID, user.Username, testSecret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return user.ID, token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPurchaseEndpoint(t *testing.T) {
	db := setupDB(t)
	r := setupRouter(db)
	_, token := seedUser(t, db, 100)
	item := domain.CatalogItem{ID: uuid.NewString(), Name: "Hat", Type: "hat", PriceCoins: 75}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to create item: %v", err)
	}

	w := doJSON(t, r, http.MethodPost, "/api/catalog/purchase", token, gin.H{"itemId": item.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool  `json:"success"`
		Balance int64 `json:"balance"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.Balance != 25 {
		t.Errorf("response: got %+v, want success with balance 25", resp)
	}

	// Second purchase fails with the business-rule error, balance untouched
	w = doJSON(t, r, http.MethodPost, "/api/catalog/purchase", token, gin.H{"itemId": item.ID})
	if w.Code != http.StatusBadRequest {
		t.Errorf("repeat purchase status: got %d, want 400", w.Code)
	}
	var errResp struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &errResp)
	if errResp.Error != "already owned" {
		t.Errorf("repeat purchase error: got %q, want %q", errResp.Error, "already owned")
	}
}

func TestPurchaseStatusMapping(t *testing.T) {
	db := setupDB(t)
	r := setupRouter(db)
	_, token := seedUser(t, db, 10)
	item := domain.CatalogItem{ID: uuid.NewString(), Name: "Crown", Type: "hat", PriceCoins: 500}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to create item: %v", err)
	}

	// Unknown item is a 404, distinct from rule violations
	w := doJSON(t, r, http.MethodPost, "/api/catalog/purchase", token, gin.H{"itemId": "missing"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown item status: got %d, want 404", w.Code)
	}
	// Insufficient funds is a 400
	w = doJSON(t, r, http.MethodPost, "/api/catalog/purchase", token, gin.H{"itemId": item.ID})
	if w.Code != http.StatusBadRequest {
		t.Errorf("insufficient funds status: got %d, want 400", w.Code)
	}
	// Missing body field is a 400 before the engine runs
	w = doJSON(t, r, http.MethodPost, "/api/catalog/purchase", token, gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing itemId status: got %d, want 400", w.Code)
	}
	// No token at all is a 401
	w = doJSON(t, r, http.MethodPost, "/api/catalog/purchase", "", gin.H{"itemId": item.ID})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status: got %d, want 401", w.Code)
	}
}

func TestRedeemEndpoint(t *testing.T) {
	db := setupDB(t)
	r := setupRouter(db)
	_, tokenB := seedUser(t, db, 0)
	_, tokenC := seedUser(t, db, 0)
	promo := domain.PromoCode{ID: uuid.NewString(), Code: "WELCOME10", CoinsAmount: 10, UsesTotal: 1, UsesLeft: 1}
	if err := db.Create(&promo).Error; err != nil {
		t.Fatalf("failed to create promo: %v", err)
	}

	w := doJSON(t, r, http.MethodPost, "/api/codes/redeem", tokenB, gin.H{"code": "welcome10"})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", w.Code, w.Body.String())
	}
	var resp struct {
		Success    bool  `json:"success"`
		CoinsAdded int64 `json:"coinsAdded"`
		Balance    int64 `json:"balance"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.CoinsAdded != 10 || resp.Balance != 10 {
		t.Errorf("response: got %+v, want +10 -> 10", resp)
	}

	// The next user hits the exhausted code
	w = doJSON(t, r, http.MethodPost, "/api/codes/redeem", tokenC, gin.H{"code": "WELCOME10"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("exhausted status: got %d, want 400", w.Code)
	}
	var errResp struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &errResp)
	if errResp.Error != "exhausted" {
		t.Errorf("exhausted error: got %q, want %q", errResp.Error, "exhausted")
	}

	// Unknown codes are a 404
	w = doJSON(t, r, http.MethodPost, "/api/codes/redeem", tokenC, gin.H{"code": "NOPE"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown code status: got %d, want 404", w.Code)
	}
}

func TestInventoryAfterPurchase(t *testing.T) {
	db := setupDB(t)
	r := setupRouter(db)
	_, token := seedUser(t, db, 100)
	item := domain.CatalogItem{ID: uuid.NewString(), Name: "Hat", Type: "hat", PriceCoins: 50}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to create item: %v", err)
	}

	doJSON(t, r, http.MethodPost, "/api/catalog/purchase", token, gin.H{"itemId": item.ID})
	w := doJSON(t, r, http.MethodGet, "/api/catalog/inventory", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("inventory status: got %d (%s)", w.Code, w.Body.String())
	}
	var items []InventoryItem
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("failed to decode inventory: %v", err)
	}
	if len(items) != 1 || items[0].ID != item.ID {
		t.Errorf("inventory: got %+v, want the purchased item", items)
	}
}
