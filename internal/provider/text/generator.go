package text

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"envision/internal/domain"
	"envision/internal/provider/genai"
)

const defaultModel = "gemini-2.0-flash"

// Generator produces the narrative for a visualization: a short first-person
// passage describing the aspiration as already achieved.
type Generator struct {
	client *genai.Client
	model  string
	logger zerolog.Logger
}

func New(client *genai.Client, model string, logger zerolog.Logger) *Generator {
	if model == "" {
		model = defaultModel
	}
	return &Generator{client: client, model: model, logger: logger}
}

// Generate returns the narrative text or a normalized ErrorDetail. The retry
// policy lives in the shared client.
func (g *Generator) Generate(ctx context.Context, req domain.GenerationRequest, correlationID string) (string, error) {
	payload := genai.GenerateContentRequest{
		Contents: []genai.Content{{
			Role:  "user",
			Parts: []genai.Part{{Text: buildPrompt(req)}},
		}},
		GenerationConfig: &genai.GenerationConfig{
			CandidateCount:  1,
			MaxOutputTokens: 512,
		},
	}

	var response genai.GenerateContentResponse
	path := fmt.Sprintf("/models/%s:generateContent", url.PathEscape(g.model))
	if err := g.client.InvokeWithRetry(ctx, http.MethodPost, path, payload, &response); err != nil {
		return "", genai.Normalize(err, domain.KindText, correlationID)
	}

	narrative := firstText(response)
	if narrative == "" {
		return "", &domain.ErrorDetail{
			Code:          domain.CodeEmptyResponse,
			Message:       "text provider returned no content",
			CorrelationID: correlationID,
		}
	}

	g.logger.Debug().
		Str("correlation_id", correlationID).
		Str("model", g.model).
		Int("chars", len(narrative)).
		Msg("text: narrative generated")
	return narrative, nil
}

func buildPrompt(req domain.GenerationRequest) string {
	var b strings.Builder
	b.WriteString("Write a short, vivid first-person narrative describing the following aspiration as if it has already been achieved. Present tense, two or three sentences, no preamble.\n\nAspiration: ")
	b.WriteString(strings.TrimSpace(req.Prompt))
	if name := strings.TrimSpace(req.Profile.DisplayName); name != "" {
		b.WriteString("\nThe narrator's name is ")
		b.WriteString(name)
		b.WriteString(".")
	}
	if locale := strings.TrimSpace(req.Profile.Locale); locale != "" {
		b.WriteString("\nWrite in the language of locale ")
		b.WriteString(locale)
		b.WriteString(".")
	}
	return b.String()
}

func firstText(resp genai.GenerateContentResponse) string {
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if text := strings.TrimSpace(part.Text); text != "" {
				return text
			}
		}
	}
	return ""
}
