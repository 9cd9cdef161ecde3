package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"playhub/internal/domain"
	"playhub/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func setupAuthRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/auth/register", RegisterHandler(db, testSecret))
	r.POST("/api/auth/login", LoginHandler(db, testSecret))
	r.GET("/api/auth/me", middleware.JWTAuthMiddleware(testSecret), MeHandler(db))
	return r
}

func TestRegisterLoginMe(t *testing.T) {
	db := setupDB(t)
	r := setupAuthRouter(db)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice_01",
		"email":    "Alice@Test.Local",
		"password": "hunter22",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status: got %d (%s)", w.Code, w.Body.String())
	}
	var reg struct {
		Token string `json:"token"`
		User  struct {
			ID          string `json:"id"`
			Username    string `json:"username"`
			DisplayName string `json:"display_name"`
			Coins       int64  `json:"coins"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &reg); err != nil {
		t.Fatalf("failed to decode register response: %v", err)
	}
	if reg.Token == "" || reg.User.Username != "alice_01" || reg.User.DisplayName != "alice_01" {
		t.Errorf("register response: got %+v", reg)
	}
	if reg.User.Coins != 0 {
		t.Errorf("new user coins: got %d, want 0", reg.User.Coins)
	}

	// Login by username, then by the email with different casing
	for _, ident := range []string{"alice_01", "ALICE@test.local"} {
		w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
			"usernameOrEmail": ident,
			"password":        "hunter22",
		})
		if w.Code != http.StatusOK {
			t.Errorf("login as %q status: got %d (%s)", ident, w.Code, w.Body.String())
		}
	}

	// Wrong password is rejected without leaking which part was wrong
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"usernameOrEmail": "alice_01",
		"password":        "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password status: got %d, want 401", w.Code)
	}

	// The issued token works against /me
	w = doJSON(t, r, http.MethodGet, "/api/auth/me", reg.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me status: got %d (%s)", w.Code, w.Body.String())
	}
	var me struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
		t.Fatalf("failed to decode me response: %v", err)
	}
	if me.ID != reg.User.ID {
		t.Errorf("me id: got %q, want %q", me.ID, reg.User.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	db := setupDB(t)
	r := setupAuthRouter(db)

	cases := []struct {
		name string
		body gin.H
	}{
		{"short username", gin.H{"username": "ab", "email": "a@b.co", "password": "hunter22"}},
		{"bad characters", gin.H{"username": "Bad Name!", "email": "a@b.co", "password": "hunter22"}},
		{"bad email", gin.H{"username": "alice_01", "email": "not-an-email", "password": "hunter22"}},
		{"short password", gin.H{"username": "alice_01", "email": "a@b.co", "password": "12345"}},
		{"missing fields", gin.H{"username": "alice_01"}},
	}
	for _, tc := range cases {
		w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", tc.body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: got %d, want 400", tc.name, w.Code)
		}
	}
	var count int64
	db.Model(&domain.User{}).Count(&count)
	if count != 0 {
		t.Errorf("users created by invalid requests: %d", count)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	db := setupDB(t)
	r := setupAuthRouter(db)

	body := gin.H{"username": "alice_01", "email": "a@b.co", "password": "hunter22"}
	if w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", body); w.Code != http.StatusCreated {
		t.Fatalf("first register status: got %d (%s)", w.Code, w.Body.String())
	}
	// Same username, different email
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{"username": "alice_01", "email": "other@b.co", "password": "hunter22"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate username status: got %d, want 400", w.Code)
	}
	// Same email, different username
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{"username": "bob_02", "email": "A@B.CO", "password": "hunter22"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate email status: got %d, want 400", w.Code)
	}
}
