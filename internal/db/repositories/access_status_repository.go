package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"devcircle/rollcall/internal/constants"
)

// AccessStatusRow is the raw-SQL projection behind GET /access-status.
type AccessStatusRow struct {
	ParticipantStatus string     `db:"participant_status"`
	RequestedAt       time.Time  `db:"requested_at"`
	ProcessedAt       *time.Time `db:"processed_at"`
	VoiceStatus       string     `db:"voice_status"`
	GrantedAt         *time.Time `db:"granted_at"`
	RevokedAt         *time.Time `db:"revoked_at"`
}

// AccessStatusRepository serves read projections over the access tables with
// sqlx. Writes stay on the GORM side; these queries exist because the join
// shape is easier to keep honest as SQL.
type AccessStatusRepository struct {
	db *sqlx.DB
}

func NewAccessStatusRepository(db *sqlx.DB) *AccessStatusRepository {
	return &AccessStatusRepository{db}
}

// GetAccessStatus returns the newest lifecycle row for the pair, or nil when
// the user never requested access.
func (r *AccessStatusRepository) GetAccessStatus(ctx context.Context, eventID, userID string) (*AccessStatusRow, error) {
	var row AccessStatusRow

	err := r.db.QueryRowxContext(ctx, constants.GetAccessStatus, eventID, userID).StructScan(&row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &row, nil
}

// CountGranted returns the granted count for an event.
func (r *AccessStatusRepository) CountGranted(ctx context.Context, eventID string) (int, error) {
	var count int

	err := r.db.QueryRowxContext(ctx, constants.CountGrantedParticipants, eventID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}
