package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventflow/internal/domain"
)

const mediaColumns = `id, event_id, uploaded_by, file_path, file_name, file_type, file_size, caption, created_at`

type mediaRepository struct {
	DB *sql.DB
}

func NewMediaRepository(db *sql.DB) domain.MediaRepository {
	return &mediaRepository{
		DB: db,
	}
}

func scanMedia(row rowScanner) (*domain.Media, error) {
	m := &domain.Media{}
	var captionNull sql.NullString
	if err := row.Scan(&m.ID, &m.EventID, &m.UploadedBy, &m.FilePath, &m.FileName, &m.FileType, &m.FileSize, &captionNull, &m.CreatedAt); err != nil {
		return nil, err
	}
	if captionNull.Valid {
		m.Caption = &captionNull.String
	}
	return m, nil
}

func (r *mediaRepository) Create(ctx context.Context, m *domain.Media) error {
	query := `
		INSERT INTO media (event_id, uploaded_by, file_path, file_name, file_type, file_size, caption, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, m.EventID, m.UploadedBy, m.FilePath, m.FileName, m.FileType, m.FileSize, m.Caption, m.CreatedAt).
		Scan(&m.ID)
}

func (r *mediaRepository) GetByID(ctx context.Context, id string) (*domain.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE id = $1`
	m, err := scanMedia(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *mediaRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE event_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.Media, 0)
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *mediaRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
