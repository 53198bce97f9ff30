package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"devcircle/rollcall/internal/auth"
	"devcircle/rollcall/internal/config"
	"devcircle/rollcall/internal/constants"
	"devcircle/rollcall/internal/db/repositories"
	models "devcircle/rollcall/internal/models/gorm"
)

const testSecret = "test-secret"

func setupUserRepo(t *testing.T) (*repositories.UserRepository, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return repositories.NewUserRepository(db), db
}

func signToken(t *testing.T, userID string, role constants.Role) string {
	claims := &auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserUUID:  userID,
		RoleValue: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}

func claimsEcho(got *auth.UserClaims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = auth.GetUserClaims(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_ValidJWT(t *testing.T) {
	repo, _ := setupUserRepo(t)
	cfg := config.AuthConfig{JWTSecret: testSecret, BotAPIKey: "bot-key"}

	var got auth.UserClaims
	handler := AuthMiddleware(cfg, repo)(claimsEcho(&got))

	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-1", constants.RoleModerator))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if got == nil {
		t.Fatal("Expected claims in context")
	}
	if got.UserID() != "user-1" {
		t.Errorf("Expected user-1, got %s", got.UserID())
	}
	if got.Role() != constants.RoleModerator {
		t.Errorf("Expected moderator role, got %s", got.Role())
	}
	if got.Source() != "JWT" {
		t.Errorf("Expected JWT source, got %s", got.Source())
	}
}

func TestAuthMiddleware_InvalidJWT(t *testing.T) {
	repo, _ := setupUserRepo(t)
	cfg := config.AuthConfig{JWTSecret: testSecret}

	var got auth.UserClaims
	handler := AuthMiddleware(cfg, repo)(claimsEcho(&got))

	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rr.Code)
	}
}

func TestAuthMiddleware_BotAPIKey(t *testing.T) {
	repo, db := setupUserRepo(t)
	cfg := config.AuthConfig{JWTSecret: testSecret, BotAPIKey: "bot-key"}

	discordID := "discord-42"
	user := &models.User{
		ID:        uuid.NewString(),
		Username:  "alice",
		DiscordID: &discordID,
		Role:      constants.RoleContributor,
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}

	var got auth.UserClaims
	handler := AuthMiddleware(cfg, repo)(claimsEcho(&got))

	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("X-API-Key", "bot-key")
	req.Header.Set("X-Discord-Id", discordID)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if got.UserID() != user.ID {
		t.Errorf("Expected resolved user %s, got %s", user.ID, got.UserID())
	}
	if got.Source() != "API_KEY" {
		t.Errorf("Expected API_KEY source, got %s", got.Source())
	}
}

func TestAuthMiddleware_WrongAPIKey(t *testing.T) {
	repo, _ := setupUserRepo(t)
	cfg := config.AuthConfig{JWTSecret: testSecret, BotAPIKey: "bot-key"}

	handler := AuthMiddleware(cfg, repo)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("X-API-Key", "wrong-key")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rr.Code)
	}
}

func TestAuthMiddleware_MissingCredentials(t *testing.T) {
	repo, _ := setupUserRepo(t)
	cfg := config.AuthConfig{JWTSecret: testSecret}

	handler := AuthMiddleware(cfg, repo)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rr.Code)
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		role constants.Role
		min  constants.Role
		want int
	}{
		{constants.RoleNewbie, constants.RoleModerator, http.StatusForbidden},
		{constants.RoleMember, constants.RoleModerator, http.StatusForbidden},
		{constants.RoleModerator, constants.RoleModerator, http.StatusOK},
		{constants.RoleAdmin, constants.RoleModerator, http.StatusOK},
		{constants.RoleModerator, constants.RoleAdmin, http.StatusForbidden},
		{constants.RoleAdmin, constants.RoleAdmin, http.StatusOK},
	}

	for _, tc := range cases {
		handler := RequireRole(tc.min)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/api/v1/events", nil)
		claims := &auth.BotClaims{UserUUID: "user-1", RoleValue: tc.role}
		req = req.WithContext(auth.SetUserClaims(req.Context(), claims))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != tc.want {
			t.Errorf("Role %s with min %s: expected %d, got %d", tc.role, tc.min, tc.want, rr.Code)
		}
	}
}

func TestRequireRole_NoClaims(t *testing.T) {
	handler := RequireRole(constants.RoleModerator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/api/v1/events", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rr.Code)
	}
}
