package persist

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ServerSaver is the fallback upload path: the same logical payload routed
// through an authenticated server-mediated endpoint instead of a direct
// storage call.
type ServerSaver struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

func NewServerSaver(baseURL, authToken string, httpClient *http.Client) *ServerSaver {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &ServerSaver{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authToken:  authToken,
		httpClient: httpClient,
	}
}

type saveRequest struct {
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Data        string `json:"data"`
}

type saveResponse struct {
	URL string `json:"url"`
}

// Save uploads the payload through the media-save endpoint and returns the
// canonical URL.
func (s *ServerSaver) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	body, err := json.Marshal(saveRequest{
		Key:         key,
		ContentType: contentType,
		Data:        base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return "", fmt.Errorf("marshal save request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/internal/media", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create save request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fallback save: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("fallback save status %d", resp.StatusCode)
	}

	var out saveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode save response: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("fallback save returned no url")
	}
	return out.URL, nil
}
