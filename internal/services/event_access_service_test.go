package services

import (
	"context"
	"errors"
	"testing"

	"devcircle/rollcall/internal/constants"
	models "devcircle/rollcall/internal/models/gorm"
)

func TestEventAccessService_RequestEventAccess_GrantsAccess(t *testing.T) {
	db := setupTestDB(t)
	repos := newTestRepos(db)
	dir := &mockDirectory{}
	svc := newAccessService(repos, dir, nil)

	tag := seedTag(t, db, "golang")
	user := seedUser(t, db, "alice", strPtr("discord-alice"))
	seedUserTag(t, db, user.ID, tag.ID)
	event := seedEvent(t, db, constants.EventStatusActive, intPtr(10), tag.ID)

	ctx := context.Background()
	result, err := svc.RequestEventAccess(ctx, event.ID, user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Status != "granted" {
		t.Errorf("Expected status granted, got %s", result.Status)
	}
	if result.GrantPending {
		t.Error("Expected grant not pending")
	}
	if result.ProcessedAt == nil {
		t.Error("Expected processed_at to be set")
	}
	if dir.grantCalls != 1 {
		t.Errorf("Expected 1 grant call, got %d", dir.grantCalls)
	}

	var access models.EventVoiceAccess
	err = db.Where("event_id = ? AND user_id = ? AND status = ?", event.ID, user.ID, "active").First(&access).Error
	if err != nil {
		t.Fatalf("Voice access record not found: %v", err)
	}
	if access.DiscordUserID != "discord-alice" {
		t.Errorf("Expected discord user discord-alice, got %s", access.DiscordUserID)
	}
}

func TestEventAccessService_RequestEventAccess_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	repos := newTestRepos(db)
	dir := &mockDirectory{}
	svc := newAccessService(repos, dir, nil)

	user := seedUser(t, db, "alice", strPtr("discord-alice"))
	event := seedEvent(t, db, constants.EventStatusActive, nil)

	ctx := context.Background()
	first, err := svc.RequestEventAccess(ctx, event.ID, user.ID)
	if err != nil {
		t.Fatalf("First request failed: %v", err)
	}

	second, err := svc.RequestEventAccess(ctx, event.ID, user.ID)
	if err != nil {
		t.Fatalf("Second request failed: %v", err)
	}

	if first.ParticipantID != second.ParticipantID {
		t.Errorf("Expected same participant, got %s and %s", first.ParticipantID, second.ParticipantID)
	}
	if dir.grantCalls != 1 {
		t.Errorf("Expected 1 grant call, got %d", dir.grantCalls)
	}

	var count int64
	db.Model(&models.EventParticipant{}).Where("event_id = ? AND user_id = ?", event.ID, user.ID).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 participant row, got %d", count)
	}
}

func TestEventAccessService_RequestEventAccess_MissingTags(t *testing.T) {
	db := setupTestDB(t)
	repos := newTestRepos(db)
	dir := &mockDirectory{}
	svc := newAccessService(repos, dir, nil)

	golang := seedTag(t, db, "golang")
	postgres := seedTag(t, db, "postgres")
	user := seedUser(t, db, "alice", strPtr("discord-alice"))
	seedUserTag(t, db, user.ID, golang.ID)
	event := seedEvent(t, db, constants.EventStatusActive, nil, golang.ID, postgres.ID)

	_, err := svc.RequestEventAccess(context.Background(), event.ID, user.ID)
	if !errors.Is(err, constants.ErrMissingTags) {
		t.Fatalf("Expected missing tags error, got %v", err)
	}

	var missing *constants.MissingTagsError
	if !errors.As(err, &missing) {
		t.Fatal("Expected MissingTagsError")
	}
	if len(missing.MissingTags) != 1 || missing.MissingTags[0] != "postgres" {
		t.Errorf("Expected missing [postgres], got %v", missing.MissingTags)
	}
	if dir.grantCalls != 0 {
		t.Error("Directory should not be called for ineligible user")
	}
}

func TestEventAccessService_RequestEventAccess_EventStates(t *testing.T) {
	db := setupTestDB(t)
	repos := newTestRepos(db)
	svc := newAccessService(repos, &mockDirectory{}, nil)

	user := seedUser(t, db, "alice", strPtr("discord-alice"))
	ctx := context.Background()

	draft := seedEvent(t, db, constants.EventStatusDraft, nil)
	if _, err := svc.RequestEventAccess(ctx, draft.ID, user.ID); !errors.Is(err, constants.ErrEventTooEarly) {
		t.Errorf("Expected too-early error for draft event, got %v", err)
	}

	completed := seedEvent(t, db, constants.EventStatusCompleted, nil)
	if _, err := svc.RequestEventAccess(ctx, completed.ID, user.ID); !errors.Is(err, constants.ErrEventNotActive) {
		t.Errorf("Expected not-active error for completed event, got %v", err)
	}

	cancelled := seedEvent(t, db, constants.EventStatusCancelled, nil)
	if _, err := svc.RequestEventAccess(ctx, cancelled.ID, user.ID); !errors.Is(err, constants.ErrEventNotActive) {
		t.Errorf("Expected not-active error for cancelled event, got %v", err)
	}

	if _, err := svc.RequestEventAccess(ctx, "no-such-event", user.ID); !errors.Is(err, constants.ErrEventNotFound) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}

func TestEventAccessService_RequestEventAccess_DiscordNotLinked(t *testing.T) {
	db := setupTestDB(t)
	repos := newTestRepos(db)
	svc := newAccessService(repos, &mockDirectory{}, nil)

	user := seedUser(t, db, "alice", nil)
	event := seedEvent(t, db, constants.EventStatusActive, nil)

	_, err := svc.RequestEventAccess(context.Background(), event.ID, user.ID)
	if !errors.Is(err, constants.ErrDiscordNotLinked) {
		t.Fatalf("Expected discord-not-linked error, got %v", err)
	}
}

func TestEventAccessService_RequestEventAccess_EventFull(t *testing.T) {
	db := setupTestDB(t)
	repos := newTestRepos(db)
	dir := &mockDirectory{}
	svc := newAccessService(repos, dir, nil)

	event := seedEvent(t, db, constants.EventStatusActive, intPtr(1))
	alice := seedUser(t, db, "alice", strPtr("discord-alice"))
	bob := seedUser(t, db, "bob", strPtr("discord-bob"))

	ctx := context.Background()
	if _, err := svc.RequestEventAccess(ctx, event.ID, alice.ID); err != nil {
		t.Fatalf("First request failed: %v", err)
	}

	_, err := svc.RequestEventAccess(ctx, event.ID, bob.ID)
	if !errors.Is(err, constants.ErrEventFull) {
		t.Fatalf("Expected event-full error, got %v", err)
	}

	// The holder's repeat request still succeeds at capacity.
	if _, err := svc.RequestEventAccess(ctx, event.ID, alice.ID); err != nil {
		t.Errorf("Holder repeat request failed: %v", err)
	}
}

func TestEventAccessService_RequestEventAccess_RateLimited(t *testing.T) {
	db := setupTestDB(t)
	repos := newTestRepos(db)
	limiter := &mockLimiter{
		allowFunc: func(ctx context.Context, userID string) (bool, error) {
			return false, nil
		},
	}
	svc := newAccessService(repos, &mockDirectory{}, limiter)

	user := seedUser(t, db, "alice", strPtr("discord-alice"))
	event := seedEvent(t, db, constants.EventStatusActive, nil)

	_, err := svc.RequestEventAccess(context.Background(), event.ID, user.ID)
	if !errors.Is(err, constants.ErrRateLimited) {
		t.Fatalf("Expected rate-limited error, got %v", err)
	}
}

func TestEventAccessService_RequestEventAccess_GrantFailureLeavesRequested(t *testing.T) {
	db := setupTestDB(t)
	repos := newTestRepos(db)
	grantErr := errors.New("discord 502")
	dir := &mockDirectory{
		grantFunc: func(ctx context.Context, discordUserID, channelID string) error {
			return grantErr
		},
	}
	svc := newAccessService(repos, dir, nil)

	user := seedUser(t, db, "alice", strPtr("discord-alice"))
	event := seedEvent(t, db, constants.EventStatusActive, nil)

	ctx := context.Background()
	_, err := svc.RequestEventAccess(ctx, event.ID, user.ID)
	if !errors.Is(err, constants.ErrExternalFailure) {
		t.Fatalf("Expected external-failure error, got %v", err)
	}

	var participant models.EventParticipant
	if err := db.Where("event_id = ? AND user_id = ?", event.ID, user.ID).First(&participant).Error; err != nil {
		t.Fatalf("Participant row missing after failed grant: %v", err)
	}
	if participant.Status != constants.ParticipantRequested {
		t.Errorf("Expected participant left requested, got %s", participant.Status)
	}

	var accessCount int64
	db.Model(&models.EventVoiceAccess{}).Where("event_id = ?", event.ID).Count(&accessCount)
	if accessCount != 0 {
		t.Errorf("Expected no voice access rows after failed grant, got %d", accessCount)
	}

	// Discord recovers; the retry promotes the same participant to granted.
	dir.grantFunc = nil
	result, err := svc.RequestEventAccess(ctx, event.ID, user.ID)
	if err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if result.ParticipantID != participant.ID {
		t.Errorf("Expected retry to reuse participant %s, got %s", participant.ID, result.ParticipantID)
	}
	if result.Status != "granted" {
		t.Errorf("Expected granted after retry, got %s", result.Status)
	}
}

func TestEventAccessService_RevokeEventAccess_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	repos := newTestRepos(db)
	dir := &mockDirectory{}
	svc := newAccessService(repos, dir, nil)

	user := seedUser(t, db, "alice", strPtr("discord-alice"))
	event := seedEvent(t, db, constants.EventStatusActive, nil)

	ctx := context.Background()
	if _, err := svc.RequestEventAccess(ctx, event.ID, user.ID); err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if err := svc.RevokeEventAccess(ctx, event.ID, user.ID, "left early"); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	var access models.EventVoiceAccess
	if err := db.Where("event_id = ? AND user_id = ?", event.ID, user.ID).First(&access).Error; err != nil {
		t.Fatalf("Voice access row missing: %v", err)
	}
	if access.Status != constants.VoiceAccessRevoked {
		t.Errorf("Expected access revoked, got %s", access.Status)
	}
	if access.RevokedAt == nil {
		t.Error("Expected revoked_at to be set")
	}
	if access.RevokeReason != "left early" {
		t.Errorf("Expected revoke reason recorded, got %q", access.RevokeReason)
	}

	var participant models.EventParticipant
	if err := db.Where("event_id = ? AND user_id = ?", event.ID, user.ID).First(&participant).Error; err != nil {
		t.Fatalf("Participant row missing: %v", err)
	}
	if participant.Status != constants.ParticipantRevoked {
		t.Errorf("Expected participant revoked, got %s", participant.Status)
	}

	// Second revoke is a no-op success, not a second directory call.
	if err := svc.RevokeEventAccess(ctx, event.ID, user.ID, "again"); err != nil {
		t.Fatalf("Second revoke failed: %v", err)
	}
	if dir.revokeCalls != 1 {
		t.Errorf("Expected 1 revoke call, got %d", dir.revokeCalls)
	}
}

func TestEventAccessService_RevokeEventAccess_NoActiveGrant(t *testing.T) {
	db := setupTestDB(t)
	repos := newTestRepos(db)
	svc := newAccessService(repos, &mockDirectory{}, nil)

	event := seedEvent(t, db, constants.EventStatusActive, nil)
	user := seedUser(t, db, "alice", strPtr("discord-alice"))

	if err := svc.RevokeEventAccess(context.Background(), event.ID, user.ID, ""); err != nil {
		t.Fatalf("Expected no-op success, got %v", err)
	}
}

func TestEventAccessService_Revoke_DiscordFailureStillRevokesLocally(t *testing.T) {
	db := setupTestDB(t)
	repos := newTestRepos(db)
	dir := &mockDirectory{}
	svc := newAccessService(repos, dir, nil)

	user := seedUser(t, db, "alice", strPtr("discord-alice"))
	event := seedEvent(t, db, constants.EventStatusActive, nil)

	ctx := context.Background()
	if _, err := svc.RequestEventAccess(ctx, event.ID, user.ID); err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	dir.revokeFunc = func(ctx context.Context, discordUserID, channelID string) error {
		return errors.New("discord 500")
	}

	if err := svc.RevokeEventAccess(ctx, event.ID, user.ID, "kick"); err != nil {
		t.Fatalf("Expected revoke to succeed despite discord failure, got %v", err)
	}

	var access models.EventVoiceAccess
	if err := db.Where("event_id = ? AND user_id = ?", event.ID, user.ID).First(&access).Error; err != nil {
		t.Fatalf("Voice access row missing: %v", err)
	}
	if access.Status != constants.VoiceAccessRevoked {
		t.Errorf("Expected local row revoked even when discord fails, got %s", access.Status)
	}
}

func TestEventAccessService_EndEvent_CleansUpAndCompletes(t *testing.T) {
	db := setupTestDB(t)
	repos := newTestRepos(db)
	dir := &mockDirectory{}
	svc := newAccessService(repos, dir, nil)

	event := seedEvent(t, db, constants.EventStatusActive, nil)
	alice := seedUser(t, db, "alice", strPtr("discord-alice"))
	bob := seedUser(t, db, "bob", strPtr("discord-bob"))

	ctx := context.Background()
	for _, u := range []*models.User{alice, bob} {
		if _, err := svc.RequestEventAccess(ctx, event.ID, u.ID); err != nil {
			t.Fatalf("Request for %s failed: %v", u.Username, err)
		}
	}

	stats, err := svc.EndEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("EndEvent failed: %v", err)
	}
	if stats.Revoked != 2 || stats.Failed != 0 {
		t.Errorf("Expected 2 revoked / 0 failed, got %d / %d", stats.Revoked, stats.Failed)
	}

	var updated models.Event
	if err := db.First(&updated, "id = ?", event.ID).Error; err != nil {
		t.Fatalf("Event missing: %v", err)
	}
	if updated.Status != constants.EventStatusCompleted {
		t.Errorf("Expected event completed, got %s", updated.Status)
	}

	var activeCount int64
	db.Model(&models.EventVoiceAccess{}).Where("event_id = ? AND status = ?", event.ID, "active").Count(&activeCount)
	if activeCount != 0 {
		t.Errorf("Expected no active access after end, got %d", activeCount)
	}

	// Ending again re-runs cleanup against zero rows.
	again, err := svc.EndEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("Second EndEvent failed: %v", err)
	}
	if again.Revoked != 0 || again.Failed != 0 {
		t.Errorf("Expected idempotent second end, got %d / %d", again.Revoked, again.Failed)
	}
}

func TestEventAccessService_DeleteEvent_CleansUpAndRemoves(t *testing.T) {
	db := setupTestDB(t)
	repos := newTestRepos(db)
	svc := newAccessService(repos, &mockDirectory{}, nil)

	event := seedEvent(t, db, constants.EventStatusActive, nil)
	user := seedUser(t, db, "alice", strPtr("discord-alice"))

	ctx := context.Background()
	if _, err := svc.RequestEventAccess(ctx, event.ID, user.ID); err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	stats, err := svc.DeleteEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}
	if stats.Revoked != 1 {
		t.Errorf("Expected 1 revoked, got %d", stats.Revoked)
	}

	var count int64
	db.Model(&models.Event{}).Where("id = ?", event.ID).Count(&count)
	if count != 0 {
		t.Error("Expected event row deleted")
	}

	// Participant and voice-access history must go with the event; the rows
	// hold foreign keys back to it.
	db.Model(&models.EventParticipant{}).Where("event_id = ?", event.ID).Count(&count)
	if count != 0 {
		t.Errorf("Expected participant history deleted, got %d rows", count)
	}
	db.Model(&models.EventVoiceAccess{}).Where("event_id = ?", event.ID).Count(&count)
	if count != 0 {
		t.Errorf("Expected voice access records deleted, got %d rows", count)
	}

	if _, err := svc.DeleteEvent(ctx, event.ID); !errors.Is(err, constants.ErrEventNotFound) {
		t.Errorf("Expected not-found on second delete, got %v", err)
	}
}

func TestEventAccessService_EndEvent_DraftRejected(t *testing.T) {
	db := setupTestDB(t)
	repos := newTestRepos(db)
	svc := newAccessService(repos, &mockDirectory{}, nil)

	event := seedEvent(t, db, constants.EventStatusDraft, nil)

	if _, err := svc.EndEvent(context.Background(), event.ID); !errors.Is(err, constants.ErrEventNotActive) {
		t.Fatalf("Expected not-active error for draft event, got %v", err)
	}

	var updated models.Event
	if err := db.First(&updated, "id = ?", event.ID).Error; err != nil {
		t.Fatalf("Event missing: %v", err)
	}
	if updated.Status != constants.EventStatusDraft {
		t.Errorf("Expected event to stay draft, got %s", updated.Status)
	}
}
