package image

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"envision/internal/domain"
	"envision/internal/provider/genai"
)

const (
	mediumModel = "imagen-3.0-fast"
	highModel   = "imagen-3.0"
)

// Generator renders the still image for a visualization. Up to three
// reference images condition the output; the quality tier picks the model.
type Generator struct {
	client      *genai.Client
	mediumModel string
	highModel   string
	logger      zerolog.Logger
}

// Options overrides the default model tiers.
type Options struct {
	MediumModel string
	HighModel   string
}

func New(client *genai.Client, opts Options, logger zerolog.Logger) *Generator {
	g := &Generator{client: client, mediumModel: mediumModel, highModel: highModel, logger: logger}
	if opts.MediumModel != "" {
		g.mediumModel = opts.MediumModel
	}
	if opts.HighModel != "" {
		g.highModel = opts.HighModel
	}
	return g
}

// Generate returns the image payload: inline bytes when the provider embeds
// the result, or a hosted URL when it returns a file reference. Callers must
// branch on the payload type, never assume one or the other.
func (g *Generator) Generate(ctx context.Context, req domain.GenerationRequest, correlationID string) (domain.Payload, error) {
	parts := []genai.Part{{Text: buildPrompt(req)}}
	for _, ref := range req.ReferenceImages {
		parts = append(parts, genai.Part{InlineData: &genai.InlineData{
			MimeType: ref.ContentType,
			Data:     base64.StdEncoding.EncodeToString(ref.Data),
		}})
	}

	payload := genai.GenerateContentRequest{
		Contents: []genai.Content{{Role: "user", Parts: parts}},
		GenerationConfig: &genai.GenerationConfig{
			CandidateCount:     1,
			ResponseModalities: []string{"IMAGE"},
		},
	}

	var response genai.GenerateContentResponse
	path := fmt.Sprintf("/models/%s:generateContent", url.PathEscape(g.model(req.ImageQuality)))
	if err := g.client.InvokeWithRetry(ctx, http.MethodPost, path, payload, &response); err != nil {
		return nil, genai.Normalize(err, domain.KindImage, correlationID)
	}

	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
				if err != nil || len(data) == 0 {
					continue
				}
				contentType := part.InlineData.MimeType
				if contentType == "" {
					contentType = "image/jpeg"
				}
				g.logger.Debug().
					Str("correlation_id", correlationID).
					Int("bytes", len(data)).
					Msg("image: inline asset generated")
				return domain.Inline{Data: data, ContentType: contentType}, nil
			}
			if part.FileData != nil && part.FileData.FileURI != "" {
				g.logger.Debug().
					Str("correlation_id", correlationID).
					Str("uri", part.FileData.FileURI).
					Msg("image: hosted asset generated")
				return domain.Hosted{URL: part.FileData.FileURI}, nil
			}
		}
	}

	return nil, &domain.ErrorDetail{
		Code:          domain.CodeEmptyResponse,
		Message:       "image provider returned no content",
		CorrelationID: correlationID,
	}
}

func (g *Generator) model(quality domain.ImageQuality) string {
	if quality == domain.QualityHigh {
		return g.highModel
	}
	return g.mediumModel
}

func buildPrompt(req domain.GenerationRequest) string {
	var b strings.Builder
	b.WriteString("A photorealistic scene depicting this aspiration as already achieved: ")
	b.WriteString(strings.TrimSpace(req.Prompt))
	if len(req.ReferenceImages) > 0 {
		b.WriteString("\nKeep the person from the reference images recognizable in the scene.")
	}
	return b.String()
}
