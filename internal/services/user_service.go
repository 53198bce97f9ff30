package services

import (
	"context"
	"fmt"

	"devcircle/rollcall/internal/constants"
	"devcircle/rollcall/internal/db/repositories"
	"devcircle/rollcall/internal/discord"
	"devcircle/rollcall/internal/logging"
	models "devcircle/rollcall/internal/models/gorm"
)

// UserService handles user lookups, role changes, and Discord linking.
type UserService struct {
	users     *repositories.UserRepository
	roleSync  *RoleSyncService
	directory discord.DirectoryService
}

func NewUserService(users *repositories.UserRepository, roleSync *RoleSyncService, directory discord.DirectoryService) *UserService {
	return &UserService{
		users:     users,
		roleSync:  roleSync,
		directory: directory,
	}
}

// GetByID returns one user.
func (s *UserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// GetByDiscordID returns the user owning a Discord identity.
func (s *UserService) GetByDiscordID(ctx context.Context, discordID string) (*models.User, error) {
	return s.users.GetByDiscordID(ctx, discordID)
}

// UpdateRole persists the new role and triggers a role sync. The local role
// is authoritative; a failed sync is logged for the manual repair endpoint
// rather than rolling the role back.
func (s *UserService) UpdateRole(ctx context.Context, userID string, role constants.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", constants.ErrInvalidRole, role)
	}

	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		return err
	}

	if _, err := s.roleSync.SyncUserRole(ctx, userID); err != nil {
		logging.Warn("role sync failed after role update, discord will drift until manual sync",
			"user_id", userID,
			"role", role.String(),
			"error", err.Error(),
		)
	}

	return nil
}

// LinkDiscord attaches a Discord identity, joins the user to the guild using
// their OAuth access token, and syncs roles for the fresh member.
func (s *UserService) LinkDiscord(ctx context.Context, userID, discordID, accessToken string) error {
	if err := s.users.LinkDiscord(ctx, userID, discordID); err != nil {
		return err
	}

	if err := s.directory.AddMemberToGuild(ctx, accessToken, discordID); err != nil {
		logging.Warn("guild join failed, user may already be a member",
			"user_id", userID,
			"error", err.Error(),
		)
	}

	if _, err := s.roleSync.SyncUserRole(ctx, userID); err != nil {
		logging.Warn("initial role sync failed after discord link",
			"user_id", userID,
			"error", err.Error(),
		)
	}

	return nil
}
