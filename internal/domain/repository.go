package domain

import "context"

// VisualizationRepository persists visualization records. Upsert is keyed by
// record id and safe to retry.
type VisualizationRepository interface {
	Upsert(ctx context.Context, v *Visualization) error
	GetByID(ctx context.Context, id string) (*Visualization, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]Visualization, error)
	// ListPendingVideo returns records whose video job is still pending, for
	// background resumption.
	ListPendingVideo(ctx context.Context, limit int) ([]Visualization, error)
	// UpdateVideo applies a resume outcome to an existing record.
	UpdateVideo(ctx context.Context, id string, status VideoStatus, videoURL string) error
}
