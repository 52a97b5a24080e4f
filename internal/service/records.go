package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"envision/internal/domain"
	"envision/internal/events"
	"envision/internal/provider/video"
)

// VideoPoller performs a single status check against a video job.
type VideoPoller interface {
	Poll(ctx context.Context, req video.StatusRequest) (domain.VideoJob, error)
}

// EventPublisher emits lifecycle events; a nil publisher disables emission.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Records is the record store: it writes one consistent Visualization record
// per generation attempt, even under partial failure, and resumes video jobs
// that were still pending when the user left.
type Records struct {
	repo      domain.VisualizationRepository
	poller    VideoPoller
	publisher EventPublisher
	logger    zerolog.Logger
	clock     func() time.Time
}

func NewRecords(repo domain.VisualizationRepository, poller VideoPoller, publisher EventPublisher, logger zerolog.Logger) *Records {
	return &Records{
		repo:      repo,
		poller:    poller,
		publisher: publisher,
		logger:    logger,
		clock:     time.Now,
	}
}

// Save upserts the record for a (possibly partial) result. The video status
// is computed as ready when a video URL exists, otherwise carried over from
// the job's reported status.
func (s *Records) Save(ctx context.Context, recordID, ownerID, inputText string, result *domain.GenerationResult) (*domain.Visualization, error) {
	rec := &domain.Visualization{
		ID:        recordID,
		OwnerID:   ownerID,
		CreatedAt: s.clock().UTC(),
		InputText: inputText,
		Text:      result.TextOutput(),
	}

	if asset, ok := result.Assets[domain.KindImage]; ok {
		rec.ImageURL = hostedURL(asset.Payload)
	}
	if asset, ok := result.Assets[domain.KindAudio]; ok {
		rec.AudioURL = hostedURL(asset.Payload)
	}
	if asset, ok := result.Assets[domain.KindVideo]; ok {
		rec.VideoURL = hostedURL(asset.Payload)
		if asset.Job != nil {
			rec.VideoJobID = asset.Job.JobID
		}
		switch {
		case rec.VideoURL != "":
			rec.VideoStatus = domain.VideoReady
		case asset.Status == domain.StatusPending:
			rec.VideoStatus = domain.VideoPending
		case asset.Status == domain.StatusFailed:
			rec.VideoStatus = domain.VideoFailed
		}
	}

	if err := s.repo.Upsert(ctx, rec); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:        events.TypeSaved,
		RecordID:    rec.ID,
		OwnerID:     rec.OwnerID,
		VideoStatus: string(rec.VideoStatus),
	})
	return rec, nil
}

// Resume re-polls a still-pending video job once and applies the outcome.
// It is idempotent: records whose video is already ready or failed (or that
// never had a job) are returned unchanged.
func (s *Records) Resume(ctx context.Context, rec *domain.Visualization) (*domain.Visualization, error) {
	if !rec.Resumable() {
		return rec, nil
	}

	job, err := s.poller.Poll(ctx, video.StatusRequest{
		JobID:   rec.VideoJobID,
		OwnerID: rec.OwnerID,
	})
	if err != nil {
		var detail *domain.ErrorDetail
		if errors.As(err, &detail) && domain.TransientCode(detail.Code) {
			// Transient poll errors leave the job pending; a later resume
			// will try again.
			s.logger.Warn().
				Err(err).
				Str("record_id", rec.ID).
				Msg("records: transient resume failure, job stays pending")
			return rec, nil
		}
		if err := s.repo.UpdateVideo(ctx, rec.ID, domain.VideoFailed, ""); err != nil {
			return nil, err
		}
		updated := *rec
		updated.VideoStatus = domain.VideoFailed
		s.publish(ctx, events.Event{
			Type:        events.TypeVideoFailed,
			RecordID:    rec.ID,
			OwnerID:     rec.OwnerID,
			VideoStatus: string(domain.VideoFailed),
		})
		return &updated, nil
	}

	switch job.Status {
	case domain.JobCompleted:
		if err := s.repo.UpdateVideo(ctx, rec.ID, domain.VideoReady, job.ResultURL); err != nil {
			return nil, err
		}
		updated := *rec
		updated.VideoStatus = domain.VideoReady
		updated.VideoURL = job.ResultURL
		s.publish(ctx, events.Event{
			Type:        events.TypeVideoReady,
			RecordID:    rec.ID,
			OwnerID:     rec.OwnerID,
			VideoStatus: string(domain.VideoReady),
		})
		return &updated, nil
	default:
		// Still queued or in progress.
		return rec, nil
	}
}

// ResumeByID loads the record and resumes it; used by the manual "check now"
// action and the background worker.
func (s *Records) ResumeByID(ctx context.Context, id string) (*domain.Visualization, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Resume(ctx, rec)
}

func (s *Records) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn().
			Err(err).
			Str("record_id", event.RecordID).
			Str("type", event.Type).
			Msg("records: event publish failed")
	}
}

func hostedURL(p domain.Payload) string {
	if hosted, ok := p.(domain.Hosted); ok {
		return hosted.URL
	}
	return ""
}
