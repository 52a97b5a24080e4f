package genai

import (
	"errors"

	"envision/internal/domain"
)

// Wire shapes shared by the generateContent-style endpoints.

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts,omitempty"`
}

type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
	FileData   *FileData   `json:"fileData,omitempty"`
}

type InlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type FileData struct {
	MimeType string `json:"mimeType,omitempty"`
	FileURI  string `json:"fileUri,omitempty"`
}

type GenerationConfig struct {
	CandidateCount     int      `json:"candidateCount,omitempty"`
	ResponseModalities []string `json:"responseModalities,omitempty"`
	Temperature        float64  `json:"temperature,omitempty"`
	MaxOutputTokens    int      `json:"maxOutputTokens,omitempty"`
}

type GenerateContentRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
	SpeechConfig     *SpeechConfig     `json:"speechConfig,omitempty"`
}

type SpeechConfig struct {
	VoiceName    string `json:"voiceName,omitempty"`
	LanguageCode string `json:"languageCode,omitempty"`
}

type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Normalize converts a provider failure into the closed ErrorDetail model at
// the boundary, so provider-specific strings never leak past the leaf
// generator.
func Normalize(err error, kind domain.AssetKind, correlationID string) *domain.ErrorDetail {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		code := domain.NetworkCode(kind)
		if apiErr.StatusCode != 0 {
			code = domain.HTTPCode(kind, apiErr.StatusCode)
		}
		return &domain.ErrorDetail{Code: code, Message: apiErr.Message, CorrelationID: correlationID}
	}
	return domain.AsErrorDetail(err, domain.NetworkCode(kind), correlationID)
}
