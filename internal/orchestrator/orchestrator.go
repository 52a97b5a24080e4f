package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"envision/internal/domain"
	"envision/internal/provider/video"
)

// TextGenerator produces the narrative text.
type TextGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest, correlationID string) (string, error)
}

// ImageGenerator produces the still image payload.
type ImageGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest, correlationID string) (domain.Payload, error)
}

// SpeechGenerator narrates the text output when present, else the raw prompt.
type SpeechGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest, narrative, correlationID string) (domain.Payload, error)
}

// VideoGenerator runs the bounded create-and-poll loop.
type VideoGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest, correlationID string) (video.Result, error)
}

// Orchestrator invokes the enabled generators in the fixed order
// text → image → audio → video and aggregates one result with an independent
// status per kind. A failing kind never aborts the others; retries belong to
// the leaves, not here.
type Orchestrator struct {
	text   TextGenerator
	image  ImageGenerator
	speech SpeechGenerator
	video  VideoGenerator
	logger zerolog.Logger

	newAttemptID func() string
}

func New(text TextGenerator, image ImageGenerator, speech SpeechGenerator, videoGen VideoGenerator, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		text:         text,
		image:        image,
		speech:       speech,
		video:        videoGen,
		logger:       logger,
		newAttemptID: uuid.NewString,
	}
}

// Generate runs one attempt. Input errors fail fast before any provider call.
// The returned result holds exactly the enabled kinds, each with one status.
func (o *Orchestrator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result := &domain.GenerationResult{
		AttemptID: o.newAttemptID(),
		Assets:    make(map[domain.AssetKind]domain.AssetResult, len(req.EnabledKinds)),
	}

	for _, kind := range domain.GenerationOrder {
		if !req.Enabled(kind) {
			continue
		}
		correlationID := fmt.Sprintf("%s.%s", result.AttemptID, kind)

		var asset domain.AssetResult
		switch kind {
		case domain.KindText:
			asset = o.generateText(ctx, req, correlationID)
		case domain.KindImage:
			asset = o.generateImage(ctx, req, correlationID)
		case domain.KindAudio:
			asset = o.generateAudio(ctx, req, result.TextOutput(), correlationID)
		case domain.KindVideo:
			asset = o.generateVideo(ctx, req, correlationID)
		}
		result.Assets[kind] = asset

		if asset.Status == domain.StatusFailed {
			o.logger.Warn().
				Str("attempt_id", result.AttemptID).
				Str("kind", string(kind)).
				Str("code", asset.Error.Code).
				Str("correlation_id", asset.Error.CorrelationID).
				Msg("orchestrator: asset generation failed, continuing")
		}
	}

	return result, nil
}

func (o *Orchestrator) generateText(ctx context.Context, req domain.GenerationRequest, correlationID string) domain.AssetResult {
	narrative, err := o.text.Generate(ctx, req, correlationID)
	if err != nil {
		return failed(domain.KindText, err, correlationID)
	}
	return domain.AssetResult{Payload: domain.TextContent{Content: narrative}, Status: domain.StatusCompleted}
}

func (o *Orchestrator) generateImage(ctx context.Context, req domain.GenerationRequest, correlationID string) domain.AssetResult {
	payload, err := o.image.Generate(ctx, req, correlationID)
	if err != nil {
		return failed(domain.KindImage, err, correlationID)
	}
	return domain.AssetResult{Payload: payload, Status: domain.StatusCompleted}
}

func (o *Orchestrator) generateAudio(ctx context.Context, req domain.GenerationRequest, narrative, correlationID string) domain.AssetResult {
	payload, err := o.speech.Generate(ctx, req, narrative, correlationID)
	if err != nil {
		return failed(domain.KindAudio, err, correlationID)
	}
	return domain.AssetResult{Payload: payload, Status: domain.StatusCompleted}
}

func (o *Orchestrator) generateVideo(ctx context.Context, req domain.GenerationRequest, correlationID string) domain.AssetResult {
	res, err := o.video.Generate(ctx, req, correlationID)
	if err != nil {
		asset := failed(domain.KindVideo, err, correlationID)
		asset.Job = res.Job
		return asset
	}
	if res.Payload != nil {
		return domain.AssetResult{Payload: res.Payload, Status: domain.StatusCompleted, Job: res.Job}
	}
	// Job still pending after the bounded loop; the caller persists the job
	// id and resumes later.
	return domain.AssetResult{Status: domain.StatusPending, Job: res.Job}
}

func failed(kind domain.AssetKind, err error, correlationID string) domain.AssetResult {
	return domain.AssetResult{
		Status: domain.StatusFailed,
		Error:  domain.AsErrorDetail(err, domain.NetworkCode(kind), correlationID),
	}
}
