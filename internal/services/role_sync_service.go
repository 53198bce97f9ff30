package services

import (
	"context"
	"fmt"

	"devcircle/rollcall/internal/constants"
	"devcircle/rollcall/internal/db/repositories"
	"devcircle/rollcall/internal/discord"
	"devcircle/rollcall/internal/logging"
	"devcircle/rollcall/internal/metrics"
	"devcircle/rollcall/internal/models/dtos/responses"
)

// RoleSyncService reconciles a user's local role with their Discord role
// assignment. It touches only the platform's managed role set.
type RoleSyncService struct {
	users     *repositories.UserRepository
	directory discord.DirectoryService
	metrics   *metrics.MetricsRegistry
}

func NewRoleSyncService(users *repositories.UserRepository, directory discord.DirectoryService, metricsReg *metrics.MetricsRegistry) *RoleSyncService {
	return &RoleSyncService{
		users:     users,
		directory: directory,
		metrics:   metricsReg,
	}
}

// SyncUserRole strips all managed roles and grants the one matching the
// user's current local role. A user with no linked Discord identity is
// reported as not synced, not as an error. Individual removal failures are
// collected and do not abort the run.
func (s *RoleSyncService) SyncUserRole(ctx context.Context, userID string) (*responses.RoleSyncResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.DiscordLinked() {
		s.metrics.IncRoleSync("skipped_unlinked")
		return &responses.RoleSyncResult{Synced: false}, nil
	}

	removal, err := s.directory.RemoveAllManagedRoles(ctx, *user.DiscordID)
	if err != nil {
		s.metrics.IncRoleSync("failed")
		s.metrics.IncDiscordFailure("remove_managed_roles")
		return nil, fmt.Errorf("%w: removing managed roles", constants.ErrExternalFailure)
	}

	target := user.Role.ManagedDiscordRole()
	if err := s.directory.AssignRole(ctx, *user.DiscordID, target); err != nil {
		s.metrics.IncRoleSync("failed")
		s.metrics.IncDiscordFailure("assign_role")
		logging.Error("role assignment failed after removal pass",
			"user_id", userID,
			"role", target,
			"removed", removal.Removed,
			"error", err.Error(),
		)
		return nil, fmt.Errorf("%w: assigning role %s", constants.ErrExternalFailure, target)
	}

	if len(removal.Failed) > 0 {
		logging.Warn("role sync completed with partial removal failures",
			"user_id", userID,
			"failed_roles", removal.Failed,
		)
	}

	s.metrics.IncRoleSync("synced")
	return &responses.RoleSyncResult{
		Synced:       true,
		AssignedRole: target,
		Removed:      removal.Removed,
		Failed:       removal.Failed,
	}, nil
}
