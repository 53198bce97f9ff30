package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"devcircle/rollcall/internal/auth"
	"devcircle/rollcall/internal/constants"
	"devcircle/rollcall/internal/models/dtos/requests"
	"devcircle/rollcall/internal/services"
)

// GetMeHandler handles GET /api/v1/users/me
func GetMeHandler(svc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			respondError(w, initTime, "Unauthorized: missing claims", constants.CodeValidation, http.StatusUnauthorized)
			return
		}

		user, err := svc.GetByID(r.Context(), claims.UserID())
		if err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "User fetched", user)
	}
}

// UpdateRoleHandler handles PUT /api/v1/users/{id}/role (admin)
func UpdateRoleHandler(svc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		userID := chi.URLParam(r, "id")

		var req requests.UpdateRoleReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, initTime, "Invalid request body", constants.CodeValidation, http.StatusBadRequest)
			return
		}

		if err := svc.UpdateRole(r.Context(), userID, constants.Role(req.Role)); err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "Role updated", nil)
	}
}

// LinkDiscordHandler handles POST /api/v1/users/me/link-discord. The access
// token comes from the caller's OAuth exchange and is only forwarded to the
// guild-join call, never stored.
func LinkDiscordHandler(svc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			respondError(w, initTime, "Unauthorized: missing claims", constants.CodeValidation, http.StatusUnauthorized)
			return
		}

		var req requests.LinkDiscordReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DiscordID == "" {
			respondError(w, initTime, "Invalid request body", constants.CodeValidation, http.StatusBadRequest)
			return
		}

		if err := svc.LinkDiscord(r.Context(), claims.UserID(), req.DiscordID, req.AccessToken); err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "Discord account linked", nil)
	}
}

// SyncRoleHandler handles POST /api/v1/users/{id}/sync-role (moderator+).
// Manual repair action for Discord drift.
func SyncRoleHandler(svc *services.RoleSyncService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		userID := chi.URLParam(r, "id")

		result, err := svc.SyncUserRole(r.Context(), userID)
		if err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "Role sync completed", result)
	}
}
