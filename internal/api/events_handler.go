package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"devcircle/rollcall/internal/auth"
	"devcircle/rollcall/internal/constants"
	"devcircle/rollcall/internal/db/repositories"
	"devcircle/rollcall/internal/models/dtos/requests"
	"devcircle/rollcall/internal/services"
)

// CreateEventHandler handles POST /api/v1/events (moderator+)
func CreateEventHandler(svc *services.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			respondError(w, initTime, "Unauthorized: missing claims", constants.CodeValidation, http.StatusUnauthorized)
			return
		}

		var req requests.CreateEventReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, initTime, "Invalid request body", constants.CodeValidation, http.StatusBadRequest)
			return
		}

		event, err := svc.Create(r.Context(), &req, claims.UserID())
		if err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "Event created", event, http.StatusCreated)
	}
}

// UpdateEventHandler handles PUT /api/v1/events/{id} (moderator+)
func UpdateEventHandler(svc *services.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		eventID := chi.URLParam(r, "id")

		var req requests.UpdateEventReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, initTime, "Invalid request body", constants.CodeValidation, http.StatusBadRequest)
			return
		}

		event, err := svc.Update(r.Context(), eventID, &req)
		if err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "Event updated", event)
	}
}

// ActivateEventHandler handles POST /api/v1/events/{id}/activate (moderator+)
func ActivateEventHandler(svc *services.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		eventID := chi.URLParam(r, "id")

		event, err := svc.Activate(r.Context(), eventID)
		if err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "Event activated", event)
	}
}

// GetEventHandler handles GET /api/v1/events/{id}
func GetEventHandler(svc *services.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		eventID := chi.URLParam(r, "id")

		event, err := svc.Get(r.Context(), eventID)
		if err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "Event fetched", event)
	}
}

// ListEventsHandler handles GET /api/v1/events?status=active
func ListEventsHandler(svc *services.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		status := constants.EventStatus(r.URL.Query().Get("status"))
		if status == "" {
			status = constants.EventStatusActive
		}

		events, err := svc.ListByStatus(r.Context(), status)
		if err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "Events fetched", events)
	}
}

// ListParticipantsHandler handles GET /api/v1/events/{id}/participants (moderator+)
func ListParticipantsHandler(repo *repositories.EventParticipantRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		eventID := chi.URLParam(r, "id")

		participants, err := repo.ListByEvent(r.Context(), eventID)
		if err != nil {
			respondDomainError(w, initTime, err)
			return
		}

		respondSuccess(w, initTime, "Participants fetched", participants)
	}
}
