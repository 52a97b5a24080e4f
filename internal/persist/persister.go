package persist

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"envision/internal/domain"
)

// ObjectStore is the primary upload path.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// FallbackSaver is the server-mediated upload path, tried exactly once when
// the primary path fails.
type FallbackSaver interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Canonical content types per asset kind, used when an inline payload does
// not declare one.
var defaultContentTypes = map[domain.AssetKind]string{
	domain.KindImage: "image/jpeg",
	domain.KindAudio: "audio/wav",
	domain.KindVideo: "video/mp4",
}

// Persister promotes inline/ephemeral payloads to durably stored, shareable
// assets. Exhausting both upload paths is uniformly soft across all kinds:
// the payload stays inline in the result and the record save proceeds
// without that URL.
type Persister struct {
	store    ObjectStore
	fallback FallbackSaver
	logger   zerolog.Logger
}

func New(store ObjectStore, fallback FallbackSaver, logger zerolog.Logger) *Persister {
	return &Persister{store: store, fallback: fallback, logger: logger}
}

// Outcome reports which payloads were promoted. Warnings carry one
// human-readable line per asset that could not be durably stored.
type Outcome struct {
	Result   *domain.GenerationResult
	Warnings []string
}

// Persist uploads every inline payload in the result, keyed by
// (ownerID, recordID, kind). Hosted payloads and text pass through untouched;
// text lives on the record itself. The input result is not mutated.
func (p *Persister) Persist(ctx context.Context, result *domain.GenerationResult, ownerID, recordID string) Outcome {
	out := Outcome{Result: &domain.GenerationResult{
		AttemptID: result.AttemptID,
		Assets:    make(map[domain.AssetKind]domain.AssetResult, len(result.Assets)),
	}}

	for kind, asset := range result.Assets {
		inline, ok := asset.Payload.(domain.Inline)
		if !ok {
			out.Result.Assets[kind] = asset
			continue
		}

		contentType := inline.ContentType
		if contentType == "" {
			contentType = defaultContentTypes[kind]
		}
		key := assetKey(ownerID, recordID, kind)

		url, err := p.upload(ctx, key, inline.Data, contentType)
		if err != nil {
			p.logger.Warn().
				Err(err).
				Str("record_id", recordID).
				Str("kind", string(kind)).
				Msg("persist: both upload paths failed, keeping payload ephemeral")
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s asset was generated but could not be durably stored", kind))
			out.Result.Assets[kind] = asset
			continue
		}

		asset.Payload = domain.Hosted{URL: url}
		out.Result.Assets[kind] = asset
	}

	return out
}

// upload tries the primary store, then the fallback exactly once.
func (p *Persister) upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	url, primaryErr := p.store.Upload(ctx, key, data, contentType)
	if primaryErr == nil {
		return url, nil
	}
	if p.fallback == nil {
		return "", primaryErr
	}

	p.logger.Warn().
		Err(primaryErr).
		Str("key", key).
		Msg("persist: primary upload failed, trying fallback path")

	url, fallbackErr := p.fallback.Save(ctx, key, data, contentType)
	if fallbackErr != nil {
		return "", fmt.Errorf("primary: %v; fallback: %w", primaryErr, fallbackErr)
	}
	return url, nil
}

func assetKey(ownerID, recordID string, kind domain.AssetKind) string {
	return fmt.Sprintf("%s/%s/%s", ownerID, recordID, kind)
}
