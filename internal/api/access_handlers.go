package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"devcircle/rollcall/internal/auth"
	"devcircle/rollcall/internal/constants"
	"devcircle/rollcall/internal/models/dtos/requests"
	"devcircle/rollcall/internal/models/dtos/responses"
)

// AccessService is the coordinator surface the access handlers need. Declared
// here so handler tests can mock it.
type AccessService interface {
	RequestEventAccess(ctx context.Context, eventID, userID string) (*responses.AccessRequestResult, error)
	RevokeEventAccess(ctx context.Context, eventID, userID, reason string) error
	EndEvent(ctx context.Context, eventID string) (*responses.CleanupStats, error)
	DeleteEvent(ctx context.Context, eventID string) (*responses.CleanupStats, error)
	GetUserAccessStatus(ctx context.Context, eventID, userID string) (*responses.AccessStatus, error)
}

// EligibilityChecker is the eligibility surface exposed over HTTP.
type EligibilityChecker interface {
	CheckEligibility(ctx context.Context, eventID, userID string) (*responses.EligibilityResult, error)
}

// RequestAccessHandler handles POST /api/v1/events/{id}/request-access
func RequestAccessHandler(svc AccessService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			respondError(w, initTime, "Unauthorized: missing claims", constants.CodeValidation, http.StatusUnauthorized)
			return
		}
		eventID := chi.URLParam(r, "id")

		result, err := svc.RequestEventAccess(r.Context(), eventID, claims.UserID())
		if err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "Access request processed", result)
	}
}

// RevokeAccessHandler handles DELETE /api/v1/events/{id}/revoke-access.
// Callers revoke their own access; moderators may revoke another user with
// the user_id query parameter.
func RevokeAccessHandler(svc AccessService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			respondError(w, initTime, "Unauthorized: missing claims", constants.CodeValidation, http.StatusUnauthorized)
			return
		}
		eventID := chi.URLParam(r, "id")

		targetUser := claims.UserID()
		if other := r.URL.Query().Get("user_id"); other != "" && other != targetUser {
			if !claims.Role().AtLeast(constants.RoleModerator) {
				respondError(w, initTime, "Forbidden: cannot revoke another user's access", constants.CodeValidation, http.StatusForbidden)
				return
			}
			targetUser = other
		}

		var req requests.RevokeAccessReq
		if r.Body != nil {
			// Body is optional; a bare DELETE means no reason given.
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		if err := svc.RevokeEventAccess(r.Context(), eventID, targetUser, req.Reason); err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "Access revoked", nil)
	}
}

// AccessStatusHandler handles GET /api/v1/events/{id}/access-status
func AccessStatusHandler(svc AccessService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			respondError(w, initTime, "Unauthorized: missing claims", constants.CodeValidation, http.StatusUnauthorized)
			return
		}
		eventID := chi.URLParam(r, "id")

		status, err := svc.GetUserAccessStatus(r.Context(), eventID, claims.UserID())
		if err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "Access status fetched", status)
	}
}

// EligibilityHandler handles GET /api/v1/events/{id}/eligibility
func EligibilityHandler(svc EligibilityChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			respondError(w, initTime, "Unauthorized: missing claims", constants.CodeValidation, http.StatusUnauthorized)
			return
		}
		eventID := chi.URLParam(r, "id")

		result, err := svc.CheckEligibility(r.Context(), eventID, claims.UserID())
		if err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "Eligibility computed", result)
	}
}

// EndEventHandler handles POST /api/v1/events/{id}/end (moderator+)
func EndEventHandler(svc AccessService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		eventID := chi.URLParam(r, "id")

		stats, err := svc.EndEvent(r.Context(), eventID)
		if err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "Event ended", stats)
	}
}

// DeleteEventHandler handles DELETE /api/v1/events/{id} (moderator+)
func DeleteEventHandler(svc AccessService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		eventID := chi.URLParam(r, "id")

		stats, err := svc.DeleteEvent(r.Context(), eventID)
		if err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "Event deleted", stats)
	}
}
