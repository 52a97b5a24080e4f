package video

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"envision/internal/domain"
	"envision/internal/provider/genai"
)

const (
	defaultModel = "veo-2.0"

	// The bounded loop checks job status every pollInterval and gives up
	// polling (not the job) after pollBudget of wall clock.
	defaultPollInterval = 5 * time.Second
	defaultPollBudget   = 45 * time.Second
)

// Controller owns the video generation job lifecycle: creation, single status
// polls, and the bounded convenience loop. Video is the one kind produced by a
// long-running asynchronous provider job.
type Controller struct {
	client       *genai.Client
	model        string
	logger       zerolog.Logger
	pollInterval time.Duration
	pollBudget   time.Duration

	// Injectable time hooks keep the bounded-loop tests off the wall clock.
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// Options overrides controller defaults.
type Options struct {
	Model        string
	PollInterval time.Duration
	PollBudget   time.Duration
}

func New(client *genai.Client, opts Options, logger zerolog.Logger) *Controller {
	c := &Controller{
		client:       client,
		model:        defaultModel,
		logger:       logger,
		pollInterval: defaultPollInterval,
		pollBudget:   defaultPollBudget,
		sleep:        sleepContext,
		now:          time.Now,
	}
	if opts.Model != "" {
		c.model = opts.Model
	}
	if opts.PollInterval > 0 {
		c.pollInterval = opts.PollInterval
	}
	if opts.PollBudget > 0 {
		c.pollBudget = opts.PollBudget
	}
	return c
}

// CreateResult is the outcome of job creation. Exactly one of Payload (the
// provider finished inline) or Job (asynchronous job to poll) is set.
type CreateResult struct {
	Payload domain.Payload
	Job     *domain.VideoJob
}

// Result is the outcome of the bounded Generate loop. Payload is set when the
// job completed within budget. Job carries the provider job whenever one was
// created: still pending so the caller can persist the job id and resume
// later, or completed/failed so the job id is retained for audit.
type Result struct {
	Payload domain.Payload
	Job     *domain.VideoJob
}

// StatusRequest identifies a job at the provider's status endpoint.
type StatusRequest struct {
	JobID                   string
	OwnerID                 string
	ExpectedDurationSeconds int
}

type createRequest struct {
	Prompt          string            `json:"prompt"`
	DurationSeconds int               `json:"durationSeconds"`
	ReferenceImage  *genai.InlineData `json:"referenceImage,omitempty"`
}

type createResponse struct {
	JobID      string `json:"jobId"`
	Done       bool   `json:"done"`
	VideoURL   string `json:"videoUrl"`
	VideoBytes string `json:"videoBytes"`
	MimeType   string `json:"mimeType"`
}

type statusRequestBody struct {
	JobID                   string `json:"jobId"`
	OwnerID                 string `json:"ownerId,omitempty"`
	ExpectedDurationSeconds int    `json:"expectedDurationSeconds,omitempty"`
}

type statusResponse struct {
	Status       string `json:"status"`
	VideoURL     string `json:"videoUrl,omitempty"`
	ErrorCode    string `json:"errorCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	RequestID    string `json:"requestId,omitempty"`
}

type resultResponse struct {
	VideoURL string `json:"videoUrl"`
}

// Create submits the generation job. A provider that embeds a finished result
// returns it inline with no job id; a pending response without a job id is the
// terminal VIDEO_ID_MISSING failure.
func (c *Controller) Create(ctx context.Context, req domain.GenerationRequest, correlationID string) (CreateResult, error) {
	body := createRequest{
		Prompt:          buildPrompt(req),
		DurationSeconds: req.ClampVideoDuration(),
	}
	if len(req.ReferenceImages) > 0 {
		ref := req.ReferenceImages[0]
		body.ReferenceImage = &genai.InlineData{
			MimeType: ref.ContentType,
			Data:     base64.StdEncoding.EncodeToString(ref.Data),
		}
	}

	var resp createResponse
	path := fmt.Sprintf("/models/%s:predictLongRunning", url.PathEscape(c.model))
	if err := c.client.InvokeWithRetry(ctx, http.MethodPost, path, body, &resp); err != nil {
		return CreateResult{}, genai.Normalize(err, domain.KindVideo, correlationID)
	}

	if resp.Done {
		if resp.VideoBytes != "" {
			data, err := base64.StdEncoding.DecodeString(resp.VideoBytes)
			if err == nil && len(data) > 0 {
				contentType := resp.MimeType
				if contentType == "" {
					contentType = "video/mp4"
				}
				return CreateResult{Payload: domain.Inline{Data: data, ContentType: contentType}}, nil
			}
		}
		if resp.VideoURL != "" {
			return CreateResult{Payload: domain.Hosted{URL: resp.VideoURL}}, nil
		}
	}

	if resp.JobID == "" {
		return CreateResult{}, &domain.ErrorDetail{
			Code:          domain.CodeVideoIDMissing,
			Message:       "provider returned neither a finished result nor a job id",
			CorrelationID: correlationID,
		}
	}

	c.logger.Info().
		Str("correlation_id", correlationID).
		Str("job_id", resp.JobID).
		Msg("video: job created")
	return CreateResult{Job: &domain.VideoJob{JobID: resp.JobID, Status: domain.JobQueued}}, nil
}

// Poll performs a single status check and normalizes the provider status into
// the closed job enum. On completion a second call fetches the result
// content; if that fetch fails but the status payload already carried a
// usable URL, the URL is used instead of failing the poll.
func (c *Controller) Poll(ctx context.Context, req StatusRequest) (domain.VideoJob, error) {
	body := statusRequestBody{
		JobID:                   req.JobID,
		OwnerID:                 req.OwnerID,
		ExpectedDurationSeconds: req.ExpectedDurationSeconds,
	}

	var resp statusResponse
	if err := c.client.Invoke(ctx, http.MethodPost, "/video/jobs:status", body, &resp); err != nil {
		return domain.VideoJob{JobID: req.JobID, Status: domain.JobUnknown}, genai.Normalize(err, domain.KindVideo, "")
	}

	status := normalizeStatus(resp.Status)
	job := domain.VideoJob{JobID: req.JobID, Status: status}

	switch status {
	case domain.JobCompleted:
		resultURL, err := c.fetchResultURL(ctx, req.JobID)
		if err != nil || resultURL == "" {
			// The status payload's URL is the fallback when the content
			// fetch fails.
			resultURL = resp.VideoURL
		}
		if resultURL == "" {
			job.Status = domain.JobFailed
			return job, &domain.ErrorDetail{
				Code:          domain.CodeVideoJobFailed,
				Message:       "job completed but no result url was available",
				CorrelationID: resp.RequestID,
			}
		}
		job.ResultURL = resultURL
		return job, nil

	case domain.JobFailed:
		code := resp.ErrorCode
		if code == "" {
			code = domain.CodeVideoJobFailed
		}
		message := resp.ErrorMessage
		if message == "" {
			message = "video job failed"
		}
		return job, &domain.ErrorDetail{Code: code, Message: message, CorrelationID: resp.RequestID}

	default:
		return job, nil
	}
}

// Generate is the bounded convenience op: create, then poll every
// pollInterval until a terminal state or the wall-clock budget elapses.
// Exhausting the budget — including via repeated transient errors — is not a
// failure: the still-pending job is returned so the caller can persist the
// job id and resume later. Context cancellation behaves the same way; the
// persisted job id is sufficient to resume.
func (c *Controller) Generate(ctx context.Context, req domain.GenerationRequest, correlationID string) (Result, error) {
	created, err := c.Create(ctx, req, correlationID)
	if err != nil {
		return Result{}, err
	}
	if created.Payload != nil {
		return Result{Payload: created.Payload}, nil
	}

	job := *created.Job
	statusReq := StatusRequest{
		JobID:                   job.JobID,
		OwnerID:                 req.Profile.OwnerID,
		ExpectedDurationSeconds: req.ClampVideoDuration(),
	}
	deadline := c.now().Add(c.pollBudget)

	for {
		if !c.now().Before(deadline) {
			c.logger.Info().
				Str("correlation_id", correlationID).
				Str("job_id", job.JobID).
				Msg("video: poll budget elapsed, leaving job pending")
			return Result{Job: pendingJob(job)}, nil
		}
		if err := c.sleep(ctx, c.pollInterval); err != nil {
			return Result{Job: pendingJob(job)}, nil
		}

		polled, err := c.Poll(ctx, statusReq)
		if err != nil {
			var detail *domain.ErrorDetail
			if errors.As(err, &detail) && !domain.TransientCode(detail.Code) {
				if detail.CorrelationID == "" {
					detail.CorrelationID = correlationID
				}
				failed := domain.VideoJob{JobID: job.JobID, Status: domain.JobFailed}
				return Result{Job: &failed}, detail
			}
			// Transient poll errors keep the job pending within budget.
			c.logger.Warn().
				Err(err).
				Str("job_id", job.JobID).
				Msg("video: transient poll failure")
			continue
		}

		switch polled.Status {
		case domain.JobCompleted:
			return Result{Payload: domain.Hosted{URL: polled.ResultURL}, Job: &polled}, nil
		case domain.JobQueued, domain.JobInProgress:
			job = polled
		case domain.JobUnknown:
			// Keep the last definite status for the pending outcome.
		}
	}
}

// pendingJob maps an indeterminate last-seen status to in_progress so callers
// persist one of the two pending states.
func pendingJob(job domain.VideoJob) *domain.VideoJob {
	if job.Status != domain.JobQueued && job.Status != domain.JobInProgress {
		job.Status = domain.JobInProgress
	}
	job.ResultURL = ""
	return &job
}

func (c *Controller) fetchResultURL(ctx context.Context, jobID string) (string, error) {
	var resp resultResponse
	path := fmt.Sprintf("/video/jobs/%s:result", url.PathEscape(jobID))
	if err := c.client.Invoke(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.VideoURL, nil
}

func normalizeStatus(raw string) domain.VideoJobStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "queued", "pending", "in_queue":
		return domain.JobQueued
	case "in_progress", "running", "processing":
		return domain.JobInProgress
	case "completed", "succeeded", "done":
		return domain.JobCompleted
	case "failed", "error", "cancelled":
		return domain.JobFailed
	default:
		return domain.JobUnknown
	}
}

func buildPrompt(req domain.GenerationRequest) string {
	var b strings.Builder
	b.WriteString("A short cinematic clip depicting this aspiration as already achieved: ")
	b.WriteString(strings.TrimSpace(req.Prompt))
	return b.String()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
