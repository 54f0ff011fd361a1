package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventflow/internal/domain"
)

const inviteColumns = `id, event_id, invite_code, attendee_name, attendee_email, status,
		qr_code_data, accepted_at, scanned_at, created_at`

type inviteRepository struct {
	DB *sql.DB
}

func NewInviteRepository(db *sql.DB) domain.InviteRepository {
	return &inviteRepository{
		DB: db,
	}
}

func scanInvite(row rowScanner, extra ...any) (*domain.Invite, error) {
	inv := &domain.Invite{}
	var nameNull, emailNull, qrNull sql.NullString
	var acceptedNull, scannedNull sql.NullTime
	var status string
	dest := []any{
		&inv.ID, &inv.EventID, &inv.InviteCode, &nameNull, &emailNull, &status,
		&qrNull, &acceptedNull, &scannedNull, &inv.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	inv.Status = domain.InviteStatus(status)
	if nameNull.Valid {
		inv.AttendeeName = &nameNull.String
	}
	if emailNull.Valid {
		inv.AttendeeEmail = &emailNull.String
	}
	if qrNull.Valid {
		inv.QRCodeData = &qrNull.String
	}
	if acceptedNull.Valid {
		inv.AcceptedAt = &acceptedNull.Time
	}
	if scannedNull.Valid {
		inv.ScannedAt = &scannedNull.Time
	}
	return inv, nil
}

func (r *inviteRepository) Create(ctx context.Context, inv *domain.Invite) error {
	query := `
		INSERT INTO invites (event_id, invite_code, attendee_name, attendee_email, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, inv.EventID, inv.InviteCode, inv.AttendeeName, inv.AttendeeEmail, string(inv.Status), inv.CreatedAt).
		Scan(&inv.ID)
}

func (r *inviteRepository) GetByCode(ctx context.Context, code string) (*domain.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE invite_code = $1`
	inv, err := scanInvite(r.DB.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *inviteRepository) GetByCodeWithEvent(ctx context.Context, code string) (*domain.InviteWithEvent, error) {
	query := `
		SELECT i.id, i.event_id, i.invite_code, i.attendee_name, i.attendee_email, i.status,
			i.qr_code_data, i.accepted_at, i.scanned_at, i.created_at,
			e.user_id, e.title, e.description, e.location,
			to_char(e.event_date, 'YYYY-MM-DD"T"HH24:MI'), e.created_at, e.updated_at
		FROM invites i
		JOIN events e ON e.id = i.event_id
		WHERE i.invite_code = $1
	`
	ev := &domain.Event{}
	var descNull, locNull sql.NullString
	inv, err := scanInvite(r.DB.QueryRowContext(ctx, query, code),
		&ev.UserID, &ev.Title, &descNull, &locNull, &ev.EventDate, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	ev.ID = inv.EventID
	if descNull.Valid {
		ev.Description = &descNull.String
	}
	if locNull.Valid {
		ev.Location = &locNull.String
	}
	return &domain.InviteWithEvent{Invite: inv, Event: ev}, nil
}

func (r *inviteRepository) ListByEventID(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Invite, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM invites WHERE event_id = $1`, eventID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + inviteColumns + `
		FROM invites
		WHERE event_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, eventID, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	invs := make([]*domain.Invite, 0)
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, 0, err
		}
		invs = append(invs, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return invs, total, nil
}

func (r *inviteRepository) Transition(ctx context.Context, inv *domain.Invite, from domain.InviteStatus) error {
	query := `
		UPDATE invites
		SET status = $1, attendee_name = $2, attendee_email = $3, qr_code_data = $4,
			accepted_at = $5, scanned_at = $6
		WHERE invite_code = $7 AND status = $8
	`
	res, err := r.DB.ExecContext(ctx, query,
		string(inv.Status), inv.AttendeeName, inv.AttendeeEmail, inv.QRCodeData,
		inv.AcceptedAt, inv.ScannedAt, inv.InviteCode, string(from))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrInviteStale
	}
	return nil
}
