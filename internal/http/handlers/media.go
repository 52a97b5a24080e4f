package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
)

type mediaSaveRequest struct {
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Data        string `json:"data"` // base64
}

// MediaSave is the second-stage persistence endpoint. Another instance calls
// it with a bearer token when its own object store write fails; we write the
// bytes to local storage and hand back the canonical URL.
func (a *App) MediaSave(w http.ResponseWriter, r *http.Request) {
	if a.MediaSaveToken == "" || bearerToken(r) != a.MediaSaveToken {
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid token")
		return
	}

	var req mediaSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Key == "" || req.Data == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "key and data are required")
		return
	}
	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "data is not valid base64")
		return
	}

	url, err := a.Store.Upload(r.Context(), req.Key, data, req.ContentType)
	if err != nil {
		a.Logger.Error().Err(err).Str("key", req.Key).Msg("handlers: media save failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store media")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"url": url})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
