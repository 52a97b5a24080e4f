package repo

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS visualizations (
    id           TEXT PRIMARY KEY,
    owner_id     TEXT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL,
    input_text   TEXT NOT NULL,
    text         TEXT,
    image_url    TEXT,
    audio_url    TEXT,
    video_url    TEXT,
    video_job_id TEXT,
    video_status TEXT,
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_visualizations_owner_created
    ON visualizations (owner_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_visualizations_pending_video
    ON visualizations (created_at)
    WHERE video_status = 'pending' AND video_job_id IS NOT NULL;
`

// EnsureSchema creates the visualizations table and its indexes if missing.
// Both binaries call it at startup so either can run against a fresh database.
func EnsureSchema(ctx context.Context, db SQLExecutor) error {
	_, err := db.Exec(ctx, schemaSQL)
	return err
}
