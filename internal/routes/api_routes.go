package routes

import (
	"github.com/go-chi/chi/v5"

	"devcircle/rollcall/internal/api"
	"devcircle/rollcall/internal/config"
	"devcircle/rollcall/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers.
// This keeps API route registration separate from the main router setup.
func RegisterAPIRoutes(r chi.Router, cfg *config.Config, deps *api.Dependencies) {

	svcs := deps.Services

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.AuthMiddleware(cfg.Auth, deps.Repo.Users)) // global: all routes must be authenticated

		// Any authenticated user
		v1.Get("/events", api.ListEventsHandler(svcs.Events))
		v1.Get("/events/{id}", api.GetEventHandler(svcs.Events))
		v1.Get("/events/{id}/eligibility", api.EligibilityHandler(svcs.Eligibility))
		v1.Get("/events/{id}/access-status", api.AccessStatusHandler(svcs.Access))
		v1.Post("/events/{id}/request-access", api.RequestAccessHandler(svcs.Access))
		v1.Delete("/events/{id}/revoke-access", api.RevokeAccessHandler(svcs.Access))

		v1.Get("/tags", api.ListTagsHandler(svcs.Tags))
		v1.Get("/users/me", api.GetMeHandler(svcs.Users))
		v1.Post("/users/me/link-discord", api.LinkDiscordHandler(svcs.Users))
		v1.Get("/users/{id}/tags", api.UserTagsHandler(svcs.Tags))

		// Moderator group
		v1.Group(func(mod chi.Router) {
			mod.Use(middleware.IsModeratorMiddleware())

			mod.Post("/events", api.CreateEventHandler(svcs.Events))
			mod.Put("/events/{id}", api.UpdateEventHandler(svcs.Events))
			mod.Post("/events/{id}/activate", api.ActivateEventHandler(svcs.Events))
			mod.Post("/events/{id}/end", api.EndEventHandler(svcs.Access))
			mod.Delete("/events/{id}", api.DeleteEventHandler(svcs.Access))
			mod.Get("/events/{id}/participants", api.ListParticipantsHandler(deps.Repo.Participants))

			mod.Post("/users/{id}/tags", api.AssignTagHandler(svcs.Tags))
			mod.Delete("/users/{id}/tags/{tagName}", api.RevokeTagHandler(svcs.Tags))
			mod.Post("/users/{id}/sync-role", api.SyncRoleHandler(svcs.RoleSync))

			// Admin group
			mod.Group(func(admin chi.Router) {
				admin.Use(middleware.IsAdminMiddleware())

				admin.Post("/tags", api.CreateTagHandler(svcs.Tags))
				admin.Put("/tags/{id}", api.UpdateTagHandler(svcs.Tags))
				admin.Delete("/tags/{id}", api.DeactivateTagHandler(svcs.Tags))
				admin.Put("/users/{id}/role", api.UpdateRoleHandler(svcs.Users))
			})
		})
	})
}
