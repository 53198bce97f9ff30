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

// ListTagsHandler handles GET /api/v1/tags
func ListTagsHandler(svc *services.TagService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		activeOnly := r.URL.Query().Get("include_inactive") != "true"
		tags, err := svc.ListTags(r.Context(), activeOnly)
		if err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "Tags fetched", tags)
	}
}

// CreateTagHandler handles POST /api/v1/tags (admin)
func CreateTagHandler(svc *services.TagService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req requests.CreateTagReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, initTime, "Invalid request body", constants.CodeValidation, http.StatusBadRequest)
			return
		}

		tag, err := svc.CreateTag(r.Context(), &req)
		if err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "Tag created", tag, http.StatusCreated)
	}
}

// UpdateTagHandler handles PUT /api/v1/tags/{id} (admin)
func UpdateTagHandler(svc *services.TagService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		tagID := chi.URLParam(r, "id")

		var req requests.CreateTagReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, initTime, "Invalid request body", constants.CodeValidation, http.StatusBadRequest)
			return
		}

		tag, err := svc.UpdateTag(r.Context(), tagID, &req)
		if err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "Tag updated", tag)
	}
}

// DeactivateTagHandler handles DELETE /api/v1/tags/{id} (admin). Soft delete,
// historical assignments stay resolvable.
func DeactivateTagHandler(svc *services.TagService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		tagID := chi.URLParam(r, "id")

		if err := svc.DeactivateTag(r.Context(), tagID); err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "Tag deactivated", nil)
	}
}

// AssignTagHandler handles POST /api/v1/users/{id}/tags (moderator+)
func AssignTagHandler(svc *services.TagService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			respondError(w, initTime, "Unauthorized: missing claims", constants.CodeValidation, http.StatusUnauthorized)
			return
		}
		userID := chi.URLParam(r, "id")

		var req requests.AssignTagReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TagName == "" {
			respondError(w, initTime, "Invalid request body", constants.CodeValidation, http.StatusBadRequest)
			return
		}

		assignedBy := claims.UserID()
		assignment, err := svc.AssignTag(r.Context(), userID, &assignedBy, &req)
		if err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "Tag assigned", assignment, http.StatusCreated)
	}
}

// RevokeTagHandler handles DELETE /api/v1/users/{id}/tags/{tagName} (moderator+)
func RevokeTagHandler(svc *services.TagService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		userID := chi.URLParam(r, "id")
		tagName := chi.URLParam(r, "tagName")

		if err := svc.RevokeTag(r.Context(), userID, tagName); err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "Tag revoked", nil)
	}
}

// UserTagsHandler handles GET /api/v1/users/{id}/tags
func UserTagsHandler(svc *services.TagService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		userID := chi.URLParam(r, "id")

		tags, err := svc.UserTags(r.Context(), userID)
		if err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "User tags fetched", tags)
	}
}
