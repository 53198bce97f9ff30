package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"devcircle/rollcall/internal/auth"
	"devcircle/rollcall/internal/config"
	"devcircle/rollcall/internal/constants"
	"devcircle/rollcall/internal/db/repositories"
)

// AuthMiddleware authenticates every API call: a Bearer JWT for web clients,
// or the bot API key plus an X-Discord-Id header for the companion bot. The
// resolved claims land in the request context; nothing downstream re-checks
// credentials.
func AuthMiddleware(cfg config.AuthConfig, userRepo *repositories.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			apiKey := r.Header.Get("X-API-Key")

			var claims auth.UserClaims

			switch {
			case strings.HasPrefix(authHeader, "Bearer "):
				tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
				parsed, err := parseJWT(tokenStr, cfg.JWTSecret)
				if err != nil {
					http.Error(w, "Unauthorized. Invalid token", http.StatusUnauthorized)
					return
				}
				claims = parsed

			case apiKey != "":
				if cfg.BotAPIKey == "" || apiKey != cfg.BotAPIKey {
					http.Error(w, "Unauthorized. Invalid API Key", http.StatusUnauthorized)
					return
				}

				discordID := r.Header.Get("X-Discord-Id")
				user, err := userRepo.GetByDiscordID(r.Context(), discordID)
				if err != nil {
					http.Error(w, "Unauthorized. Unknown Discord user", http.StatusUnauthorized)
					return
				}

				claims = &auth.BotClaims{
					UserUUID:   user.ID,
					RoleValue:  user.Role,
					DiscordUID: discordID,
				}

			default:
				http.Error(w, "Unauthorized. Missing credentials", http.StatusUnauthorized)
				return
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseJWT(tokenStr, secret string) (*auth.JWTClaims, error) {
	claims := &auth.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserUUID == "" {
		return nil, errors.New("invalid claims")
	}
	if !claims.RoleValue.Valid() {
		claims.RoleValue = constants.RoleNewbie
	}
	return claims, nil
}
