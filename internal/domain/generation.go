package domain

import "strings"

// AssetKind enumerates the independently generated pieces of a visualization.
type AssetKind string

const (
	KindText  AssetKind = "text"
	KindImage AssetKind = "image"
	KindAudio AssetKind = "audio"
	KindVideo AssetKind = "video"
)

// GenerationOrder is the fixed invocation order: audio depends on the text
// output, so text always runs first.
var GenerationOrder = []AssetKind{KindText, KindImage, KindAudio, KindVideo}

// AssetStatus is the per-kind outcome within a single generation attempt.
// Pending is valid only for video, whose job may outlive the attempt.
type AssetStatus string

const (
	StatusIdle      AssetStatus = "idle"
	StatusCompleted AssetStatus = "completed"
	StatusFailed    AssetStatus = "failed"
	StatusPending   AssetStatus = "pending"
)

// ImageQuality selects the image model tier.
type ImageQuality string

const (
	QualityMedium ImageQuality = "medium"
	QualityHigh   ImageQuality = "high"
)

const (
	MinVideoDurationSeconds = 2
	MaxVideoDurationSeconds = 6
	MaxReferenceImages      = 3
)

// Profile carries the requesting user's descriptor fields that influence
// generation (narration voice, locale) without coupling providers to the
// account model.
type Profile struct {
	OwnerID     string
	DisplayName string
	Locale      string
}

// GenerationRequest describes one user request for a visualization. Kinds
// absent from EnabledKinds are never invoked and never appear in the result.
type GenerationRequest struct {
	Prompt               string
	ReferenceImages      []Inline
	Profile              Profile
	EnabledKinds         []AssetKind
	ImageQuality         ImageQuality
	VideoDurationSeconds int
}

// Validate fails fast on input errors; these are never retried and never
// reach a provider.
func (r *GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return ErrEmptyPrompt
	}
	if len(r.EnabledKinds) == 0 {
		return ErrNoKindsEnabled
	}
	if len(r.ReferenceImages) > MaxReferenceImages {
		return ErrTooManyRefs
	}
	return nil
}

// Enabled reports whether the request asked for the given kind.
func (r *GenerationRequest) Enabled(kind AssetKind) bool {
	for _, k := range r.EnabledKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ClampVideoDuration bounds the requested duration to the provider-supported
// window.
func (r *GenerationRequest) ClampVideoDuration() int {
	d := r.VideoDurationSeconds
	if d < MinVideoDurationSeconds {
		return MinVideoDurationSeconds
	}
	if d > MaxVideoDurationSeconds {
		return MaxVideoDurationSeconds
	}
	return d
}

// Payload is the tagged union of generated content: either inline ephemeral
// bytes or an already hosted URL. Persistence branches on the concrete type
// instead of sniffing fields.
type Payload interface {
	isPayload()
}

// Inline holds ephemeral bytes returned directly by a provider, not yet
// durably stored.
type Inline struct {
	Data        []byte
	ContentType string
}

// Hosted points at a durable, fetchable address.
type Hosted struct {
	URL string
}

// TextContent is the narrative text payload; it is persisted on the record
// itself rather than in object storage.
type TextContent struct {
	Content string
}

func (Inline) isPayload()      {}
func (Hosted) isPayload()      {}
func (TextContent) isPayload() {}

// AssetResult is the outcome for one enabled kind.
type AssetResult struct {
	Payload Payload
	Status  AssetStatus
	Error   *ErrorDetail
	// Job is set for the video kind when the provider job outlived the
	// attempt or finished asynchronously.
	Job *VideoJob
}

// GenerationResult aggregates one attempt. The map holds exactly the enabled
// kinds; it is created per attempt and discarded once persisted or abandoned.
type GenerationResult struct {
	AttemptID string
	Assets    map[AssetKind]AssetResult
}

// TextOutput returns the completed narrative text, if any.
func (r *GenerationResult) TextOutput() string {
	if r == nil {
		return ""
	}
	asset, ok := r.Assets[KindText]
	if !ok || asset.Status != StatusCompleted {
		return ""
	}
	if tc, ok := asset.Payload.(TextContent); ok {
		return tc.Content
	}
	return ""
}

// VideoJobStatus is the closed job-state enum; provider-specific strings are
// normalized into it at the boundary and never propagate further.
type VideoJobStatus string

const (
	JobQueued     VideoJobStatus = "queued"
	JobInProgress VideoJobStatus = "in_progress"
	JobCompleted  VideoJobStatus = "completed"
	JobFailed     VideoJobStatus = "failed"
	JobUnknown    VideoJobStatus = "unknown"
)

// Terminal reports whether the job reached a final state.
func (s VideoJobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// VideoJob tracks an asynchronous video generation job. Completed implies
// ResultURL is set; every other status implies it is empty.
type VideoJob struct {
	JobID     string
	Status    VideoJobStatus
	ResultURL string
}
