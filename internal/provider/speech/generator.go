package speech

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

const defaultModel = "gemini-2.0-flash-tts"

// Generator synthesizes the narrated audio. It reads the narrative text when
// the text kind completed, otherwise it narrates the raw prompt.
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

// Generate returns inline WAV bytes or a hosted URL for the narration.
// narrative may be empty; the raw prompt is the fallback script.
func (g *Generator) Generate(ctx context.Context, req domain.GenerationRequest, narrative, correlationID string) (domain.Payload, error) {
	script := strings.TrimSpace(narrative)
	if script == "" {
		script = strings.TrimSpace(req.Prompt)
	}
	voice, languageCode := VoiceForLocale(req.Profile.Locale)

	payload := genai.GenerateContentRequest{
		Contents: []genai.Content{{
			Role:  "user",
			Parts: []genai.Part{{Text: script}},
		}},
		GenerationConfig: &genai.GenerationConfig{
			ResponseModalities: []string{"AUDIO"},
		},
		SpeechConfig: &genai.SpeechConfig{
			VoiceName:    voice,
			LanguageCode: languageCode,
		},
	}

	var response genai.GenerateContentResponse
	path := fmt.Sprintf("/models/%s:generateContent", url.PathEscape(g.model))
	if err := g.client.InvokeWithRetry(ctx, http.MethodPost, path, payload, &response); err != nil {
		return nil, genai.Normalize(err, domain.KindAudio, correlationID)
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
					contentType = "audio/wav"
				}
				g.logger.Debug().
					Str("correlation_id", correlationID).
					Str("voice", voice).
					Int("bytes", len(data)).
					Msg("speech: inline narration generated")
				return domain.Inline{Data: data, ContentType: contentType}, nil
			}
			if part.FileData != nil && part.FileData.FileURI != "" {
				return domain.Hosted{URL: part.FileData.FileURI}, nil
			}
		}
	}

	return nil, &domain.ErrorDetail{
		Code:          domain.CodeEmptyResponse,
		Message:       "speech provider returned no content",
		CorrelationID: correlationID,
	}
}
