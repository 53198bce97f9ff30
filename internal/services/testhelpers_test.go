package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"devcircle/rollcall/internal/common"
	"devcircle/rollcall/internal/constants"
	"devcircle/rollcall/internal/db/repositories"
	"devcircle/rollcall/internal/discord"
	models "devcircle/rollcall/internal/models/gorm"
)

// Mock DirectoryService
type mockDirectory struct {
	grantFunc      func(ctx context.Context, discordUserID, channelID string) error
	revokeFunc     func(ctx context.Context, discordUserID, channelID string) error
	assignRoleFunc func(ctx context.Context, discordUserID, roleName string) error
	removeAllFunc  func(ctx context.Context, discordUserID string) (*discord.RoleRemoval, error)
	listVoiceFunc  func(ctx context.Context) ([]discord.Channel, error)
	addMemberFunc  func(ctx context.Context, accessToken, discordUserID string) error

	grantCalls  int
	revokeCalls int
}

func (m *mockDirectory) GrantChannelAccess(ctx context.Context, discordUserID, channelID string) error {
	m.grantCalls++
	if m.grantFunc != nil {
		return m.grantFunc(ctx, discordUserID, channelID)
	}
	return nil
}

func (m *mockDirectory) RevokeChannelAccess(ctx context.Context, discordUserID, channelID string) error {
	m.revokeCalls++
	if m.revokeFunc != nil {
		return m.revokeFunc(ctx, discordUserID, channelID)
	}
	return nil
}

func (m *mockDirectory) AssignRole(ctx context.Context, discordUserID, roleName string) error {
	if m.assignRoleFunc != nil {
		return m.assignRoleFunc(ctx, discordUserID, roleName)
	}
	return nil
}

func (m *mockDirectory) RemoveAllManagedRoles(ctx context.Context, discordUserID string) (*discord.RoleRemoval, error) {
	if m.removeAllFunc != nil {
		return m.removeAllFunc(ctx, discordUserID)
	}
	return &discord.RoleRemoval{}, nil
}

func (m *mockDirectory) ListVoiceChannels(ctx context.Context) ([]discord.Channel, error) {
	if m.listVoiceFunc != nil {
		return m.listVoiceFunc(ctx)
	}
	return []discord.Channel{{ID: "chan-1", Name: "General Voice", Type: 2}}, nil
}

func (m *mockDirectory) AddMemberToGuild(ctx context.Context, accessToken, discordUserID string) error {
	if m.addMemberFunc != nil {
		return m.addMemberFunc(ctx, accessToken, discordUserID)
	}
	return nil
}

// Mock RequestLimiter
type mockLimiter struct {
	allowFunc func(ctx context.Context, key string) (bool, error)
}

func (m *mockLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if m.allowFunc != nil {
		return m.allowFunc(ctx, key)
	}
	return true, nil
}

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Postgres always enforces the FK constraints AutoMigrate creates; sqlite
	// only does when asked.
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.UserTag{},
		&models.Event{},
		&models.EventRequiredTag{},
		&models.EventParticipant{},
		&models.EventVoiceAccess{},
	); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	// Same partial unique indexes the postgres migration creates, so the
	// duplicate-active paths behave like production.
	stmts := []string{
		`CREATE UNIQUE INDEX uq_event_participants_active ON event_participants (event_id, user_id) WHERE status IN ('requested','granted')`,
		`CREATE UNIQUE INDEX uq_event_voice_access_active ON event_voice_access (event_id, user_id) WHERE status = 'active'`,
		`CREATE UNIQUE INDEX uq_user_tags_active ON user_tags (user_id, tag_id) WHERE is_active`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("Failed to create index: %v", err)
		}
	}

	return db
}

type testRepos struct {
	users        *repositories.UserRepository
	tags         *repositories.TagRepository
	userTags     *repositories.UserTagRepository
	events       *repositories.EventRepository
	participants *repositories.EventParticipantRepository
	voiceAccess  *repositories.EventVoiceAccessRepository
}

func newTestRepos(db *gorm.DB) *testRepos {
	return &testRepos{
		users:        repositories.NewUserRepository(db),
		tags:         repositories.NewTagRepository(db),
		userTags:     repositories.NewUserTagRepository(db),
		events:       repositories.NewEventRepository(db),
		participants: repositories.NewEventParticipantRepository(db),
		voiceAccess:  repositories.NewEventVoiceAccessRepository(db),
	}
}

func newAccessService(repos *testRepos, dir *mockDirectory, limiter common.RequestLimiter) *EventAccessService {
	eligibility := NewEligibilityService(repos.events, repos.userTags, repos.participants)
	return NewEventAccessService(
		repos.events,
		repos.participants,
		repos.voiceAccess,
		repos.users,
		nil, // sqlx status projection not exercised here
		eligibility,
		dir,
		limiter,
		nil, // metrics registry is nil-safe
	)
}

func seedUser(t *testing.T, db *gorm.DB, username string, discordID *string) *models.User {
	user := &models.User{
		ID:        uuid.NewString(),
		Username:  username,
		DiscordID: discordID,
		Role:      constants.RoleMember,
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user %s: %v", username, err)
	}
	return user
}

func seedTag(t *testing.T, db *gorm.DB, name string) *models.Tag {
	tag := &models.Tag{
		ID:           uuid.NewString(),
		Name:         name,
		DisplayName:  name,
		Category:     "skill",
		IsActive:     true,
		IsAssignable: true,
		IsEarnable:   true,
	}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("Failed to seed tag %s: %v", name, err)
	}
	return tag
}

func seedUserTag(t *testing.T, db *gorm.DB, userID, tagID string) {
	ut := &models.UserTag{
		ID:       uuid.NewString(),
		UserID:   userID,
		TagID:    tagID,
		IsActive: true,
	}
	if err := db.Create(ut).Error; err != nil {
		t.Fatalf("Failed to seed user tag: %v", err)
	}
}

func seedEvent(t *testing.T, db *gorm.DB, status constants.EventStatus, maxParticipants *int, requiredTagIDs ...string) *models.Event {
	event := &models.Event{
		ID:              uuid.NewString(),
		Title:           "Systems Design Deep Dive",
		EventType:       constants.EventTypeSession,
		Status:          status,
		StartTime:       time.Now().UTC().Add(time.Hour),
		VoiceChannelID:  "chan-1",
		MaxParticipants: maxParticipants,
		CreatedBy:       uuid.NewString(),
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("Failed to seed event: %v", err)
	}
	for _, tagID := range requiredTagIDs {
		if err := db.Create(&models.EventRequiredTag{EventID: event.ID, TagID: tagID}).Error; err != nil {
			t.Fatalf("Failed to seed required tag: %v", err)
		}
	}
	return event
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }
