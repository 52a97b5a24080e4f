package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"envision/internal/domain"
	"envision/internal/middleware"
)

type referenceImageRequest struct {
	Data        string `json:"data"` // base64
	ContentType string `json:"content_type"`
}

type generateRequest struct {
	Prompt               string                  `json:"prompt"`
	EnabledKinds         []string                `json:"enabled_kinds"`
	ImageQuality         string                  `json:"image_quality"`
	VideoDurationSeconds int                     `json:"video_duration_seconds"`
	ReferenceImages      []referenceImageRequest `json:"reference_images"`
}

type assetResponse struct {
	Status string              `json:"status"`
	Error  *domain.ErrorDetail `json:"error,omitempty"`
}

type visualizationResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	InputText   string    `json:"input_text"`
	Text        string    `json:"text,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	AudioURL    string    `json:"audio_url,omitempty"`
	VideoURL    string    `json:"video_url,omitempty"`
	VideoJobID  string    `json:"video_job_id,omitempty"`
	VideoStatus string    `json:"video_status,omitempty"`
}

type generateResponse struct {
	Visualization visualizationResponse              `json:"visualization"`
	Assets        map[domain.AssetKind]assetResponse `json:"assets"`
	Warnings      []string                           `json:"warnings,omitempty"`
}

// VisualizationsGenerate runs the full pipeline for one request: generate the
// enabled kinds, promote inline payloads to storage, save one record. Partial
// failure still saves; per-kind outcomes are reported in the response.
func (a *App) VisualizationsGenerate(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.UserIDFromContext(r.Context())
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	genReq, err := a.buildGenerationRequest(r, ownerID, req)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	recordID := domain.NewVisualizationID(time.Now())

	result, err := a.Orchestrator.Generate(r.Context(), genReq)
	if err != nil {
		// Only input errors surface here; provider failures are per-kind.
		a.error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	outcome := a.Persister.Persist(r.Context(), result, ownerID, recordID)

	rec, err := a.Records.Save(r.Context(), recordID, ownerID, genReq.Prompt, outcome.Result)
	if err != nil {
		a.Logger.Error().Err(err).Str("record_id", recordID).Msg("handlers: record save failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save visualization")
		return
	}

	assets := make(map[domain.AssetKind]assetResponse, len(outcome.Result.Assets))
	for kind, asset := range outcome.Result.Assets {
		assets[kind] = assetResponse{Status: string(asset.Status), Error: asset.Error}
	}

	a.json(w, http.StatusCreated, generateResponse{
		Visualization: toResponse(rec),
		Assets:        assets,
		Warnings:      outcome.Warnings,
	})
}

// VisualizationsGet returns one record; foreign records read as absent.
func (a *App) VisualizationsGet(w http.ResponseWriter, r *http.Request) {
	rec, ok := a.loadRecord(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, toResponse(rec))
}

// VisualizationsList returns the caller's records, newest first.
func (a *App) VisualizationsList(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.UserIDFromContext(r.Context())
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	records, err := a.Repo.ListByOwner(r.Context(), ownerID, 50)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to list visualizations")
		return
	}
	out := make([]visualizationResponse, len(records))
	for i := range records {
		out[i] = toResponse(&records[i])
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}

// VisualizationsResume is the manual "check now" action for a pending video.
func (a *App) VisualizationsResume(w http.ResponseWriter, r *http.Request) {
	rec, ok := a.loadRecord(w, r)
	if !ok {
		return
	}
	updated, err := a.Records.Resume(r.Context(), rec)
	if err != nil {
		a.Logger.Error().Err(err).Str("record_id", rec.ID).Msg("handlers: resume failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to resume video job")
		return
	}
	a.json(w, http.StatusOK, toResponse(updated))
}

func (a *App) loadRecord(w http.ResponseWriter, r *http.Request) (*domain.Visualization, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "id required")
		return nil, false
	}
	rec, err := a.Repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "visualization not found")
		} else {
			a.error(w, http.StatusInternalServerError, "internal", "failed to load visualization")
		}
		return nil, false
	}
	if !a.requireOwner(r.Context(), w, rec) {
		return nil, false
	}
	return rec, true
}

func (a *App) buildGenerationRequest(r *http.Request, ownerID string, req generateRequest) (domain.GenerationRequest, error) {
	kinds := make([]domain.AssetKind, 0, len(req.EnabledKinds))
	for _, raw := range req.EnabledKinds {
		switch kind := domain.AssetKind(raw); kind {
		case domain.KindText, domain.KindImage, domain.KindAudio, domain.KindVideo:
			kinds = append(kinds, kind)
		default:
			return domain.GenerationRequest{}, fmt.Errorf("unsupported asset kind %q", raw)
		}
	}

	refs := make([]domain.Inline, 0, len(req.ReferenceImages))
	for _, ref := range req.ReferenceImages {
		data, err := base64.StdEncoding.DecodeString(ref.Data)
		if err != nil {
			return domain.GenerationRequest{}, fmt.Errorf("reference image is not valid base64")
		}
		contentType := ref.ContentType
		if contentType == "" {
			contentType = "image/jpeg"
		}
		refs = append(refs, domain.Inline{Data: data, ContentType: contentType})
	}

	quality := domain.QualityMedium
	if req.ImageQuality == string(domain.QualityHigh) {
		quality = domain.QualityHigh
	}

	genReq := domain.GenerationRequest{
		Prompt:          req.Prompt,
		ReferenceImages: refs,
		Profile: domain.Profile{
			OwnerID:     ownerID,
			DisplayName: middleware.UserNameFromContext(r.Context()),
			Locale:      middleware.LocaleFromContext(r.Context()),
		},
		EnabledKinds:         kinds,
		ImageQuality:         quality,
		VideoDurationSeconds: req.VideoDurationSeconds,
	}
	if err := genReq.Validate(); err != nil {
		return domain.GenerationRequest{}, err
	}
	return genReq, nil
}

func toResponse(rec *domain.Visualization) visualizationResponse {
	return visualizationResponse{
		ID:          rec.ID,
		OwnerID:     rec.OwnerID,
		CreatedAt:   rec.CreatedAt,
		InputText:   rec.InputText,
		Text:        rec.Text,
		ImageURL:    rec.ImageURL,
		AudioURL:    rec.AudioURL,
		VideoURL:    rec.VideoURL,
		VideoJobID:  rec.VideoJobID,
		VideoStatus: string(rec.VideoStatus),
	}
}
