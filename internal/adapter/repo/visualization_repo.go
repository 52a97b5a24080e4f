package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"envision/internal/domain"
)

// SQLExecutor is the subset of pgxpool.Pool the repository needs. Tests
// substitute a fake.
type SQLExecutor interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

// VisualizationRepositoryPG implements domain.VisualizationRepository using
// PostgreSQL. Upserts are keyed by the caller-generated record id, so a
// retried save is a no-op overwrite rather than a duplicate.
type VisualizationRepositoryPG struct {
	pool SQLExecutor
}

func NewVisualizationRepository(pool SQLExecutor) *VisualizationRepositoryPG {
	return &VisualizationRepositoryPG{pool: pool}
}

// Upsert inserts or replaces the record.
func (r *VisualizationRepositoryPG) Upsert(ctx context.Context, v *domain.Visualization) error {
	query := `
INSERT INTO visualizations (id, owner_id, created_at, input_text, text, image_url, audio_url, video_url, video_job_id, video_status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
    input_text   = EXCLUDED.input_text,
    text         = EXCLUDED.text,
    image_url    = EXCLUDED.image_url,
    audio_url    = EXCLUDED.audio_url,
    video_url    = EXCLUDED.video_url,
    video_job_id = EXCLUDED.video_job_id,
    video_status = EXCLUDED.video_status,
    updated_at   = NOW();
`
	_, err := r.pool.Exec(ctx, query,
		v.ID,
		v.OwnerID,
		v.CreatedAt,
		v.InputText,
		nullable(v.Text),
		nullable(v.ImageURL),
		nullable(v.AudioURL),
		nullable(v.VideoURL),
		nullable(v.VideoJobID),
		nullable(string(v.VideoStatus)),
	)
	return err
}

// GetByID fetches a record by its identifier.
func (r *VisualizationRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Visualization, error) {
	query := `
SELECT id, owner_id, created_at, input_text, text, image_url, audio_url, video_url, video_job_id, video_status
FROM visualizations
WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, query, id)
	v, err := scanVisualization(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

// ListByOwner returns the owner's records, newest first.
func (r *VisualizationRepositoryPG) ListByOwner(ctx context.Context, ownerID string, limit int) ([]domain.Visualization, error) {
	query := `
SELECT id, owner_id, created_at, input_text, text, image_url, audio_url, video_url, video_job_id, video_status
FROM visualizations
WHERE owner_id = $1
ORDER BY created_at DESC
LIMIT $2;
`
	rows, err := r.pool.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVisualizations(rows)
}

// ListPendingVideo returns records whose video job is still pending, oldest
// first, for background resumption.
func (r *VisualizationRepositoryPG) ListPendingVideo(ctx context.Context, limit int) ([]domain.Visualization, error) {
	query := `
SELECT id, owner_id, created_at, input_text, text, image_url, audio_url, video_url, video_job_id, video_status
FROM visualizations
WHERE video_status = 'pending' AND video_job_id IS NOT NULL
ORDER BY created_at ASC
LIMIT $1;
`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVisualizations(rows)
}

// UpdateVideo applies a resume outcome. The job id is retained for audit.
func (r *VisualizationRepositoryPG) UpdateVideo(ctx context.Context, id string, status domain.VideoStatus, videoURL string) error {
	query := `
UPDATE visualizations
SET video_status = $2,
    video_url    = COALESCE(NULLIF($3, ''), video_url),
    updated_at   = NOW()
WHERE id = $1;
`
	tag, err := r.pool.Exec(ctx, query, id, string(status), videoURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVisualization(row rowScanner) (*domain.Visualization, error) {
	var v domain.Visualization
	var text, imageURL, audioURL, videoURL, videoJobID, videoStatus *string
	if err := row.Scan(
		&v.ID,
		&v.OwnerID,
		&v.CreatedAt,
		&v.InputText,
		&text,
		&imageURL,
		&audioURL,
		&videoURL,
		&videoJobID,
		&videoStatus,
	); err != nil {
		return nil, err
	}
	v.Text = deref(text)
	v.ImageURL = deref(imageURL)
	v.AudioURL = deref(audioURL)
	v.VideoURL = deref(videoURL)
	v.VideoJobID = deref(videoJobID)
	v.VideoStatus = domain.VideoStatus(deref(videoStatus))
	return &v, nil
}

func collectVisualizations(rows pgx.Rows) ([]domain.Visualization, error) {
	var out []domain.Visualization
	for rows.Next() {
		v, err := scanVisualization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
