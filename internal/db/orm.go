package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	models "devcircle/rollcall/internal/models/gorm"
)

// ConnectORM opens the GORM connection used by the entity repositories.
func ConnectORM(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}

// Migrate runs AutoMigrate for all entities, then installs the partial unique
// indexes GORM cannot express. Those indexes are the store-level half of the
// at-most-one-active invariants: same-pair writes race through the database,
// not an in-process lock.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.UserTag{},
		&models.Event{},
		&models.EventRequiredTag{},
		&models.EventParticipant{},
		&models.EventVoiceAccess{},
	); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}

	// Services set IDs explicitly; the defaults cover manual inserts. Kept out
	// of the model tags because gen_random_uuid() is Postgres-only.
	idDefaults := []string{
		`ALTER TABLE users ALTER COLUMN id SET DEFAULT gen_random_uuid()`,
		`ALTER TABLE tags ALTER COLUMN id SET DEFAULT gen_random_uuid()`,
		`ALTER TABLE user_tags ALTER COLUMN id SET DEFAULT gen_random_uuid()`,
		`ALTER TABLE events ALTER COLUMN id SET DEFAULT gen_random_uuid()`,
		`ALTER TABLE event_participants ALTER COLUMN id SET DEFAULT gen_random_uuid()`,
		`ALTER TABLE event_voice_access ALTER COLUMN id SET DEFAULT gen_random_uuid()`,
	}
	for _, stmt := range idDefaults {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to set id default: %w", err)
		}
	}

	partialIndexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_event_participants_active
		 ON event_participants (event_id, user_id)
		 WHERE status IN ('requested', 'granted')`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_event_voice_access_active
		 ON event_voice_access (event_id, user_id)
		 WHERE status = 'active'`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_user_tags_active
		 ON user_tags (user_id, tag_id)
		 WHERE is_active`,
	}

	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create partial index: %w", err)
		}
	}

	return nil
}
