package constants

const (
	// Granted-count per event, used by the capacity check projection.
	CountGrantedParticipants = `
	SELECT COUNT(*) FROM event_participants
	WHERE event_id = $1 AND status = 'granted'
	`

	// Access-status projection joining the participant row with its voice
	// access record, newest lifecycle instance first.
	GetAccessStatus = `
	SELECT
		ep.status            AS participant_status,
		ep.requested_at      AS requested_at,
		ep.processed_at      AS processed_at,
		COALESCE(eva.status, '') AS voice_status,
		eva.granted_at       AS granted_at,
		eva.revoked_at       AS revoked_at
	FROM event_participants ep
	LEFT JOIN event_voice_access eva
		ON eva.event_id = ep.event_id
		AND eva.user_id = ep.user_id
		AND eva.status = 'active'
	WHERE ep.event_id = $1 AND ep.user_id = $2
	ORDER BY ep.requested_at DESC
	LIMIT 1
	`
)
