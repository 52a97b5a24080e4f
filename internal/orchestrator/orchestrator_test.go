package orchestrator

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"envision/internal/domain"
	"envision/internal/provider/video"
)

func newTestOrchestrator() (*Orchestrator, *TextMock, *ImageMock, *SpeechMock, *VideoMock) {
	text := new(TextMock)
	image := new(ImageMock)
	speech := new(SpeechMock)
	videoGen := new(VideoMock)
	o := New(text, image, speech, videoGen, zerolog.Nop())
	o.newAttemptID = func() string { return "attempt-1" }
	return o, text, image, speech, videoGen
}

func request(kinds ...domain.AssetKind) domain.GenerationRequest {
	return domain.GenerationRequest{
		Prompt:       "run a marathon",
		Profile:      domain.Profile{OwnerID: "user-1"},
		EnabledKinds: kinds,
	}
}

func TestGenerateOnlyEnabledKinds(t *testing.T) {
	o, text, image, speech, videoGen := newTestOrchestrator()

	text.On("Generate", mock.Anything, mock.Anything, "attempt-1.text").
		Return("The finish line is behind me.", nil).Once()
	speech.On("Generate", mock.Anything, mock.Anything, "The finish line is behind me.", "attempt-1.audio").
		Return(domain.Payload(domain.Inline{Data: []byte("wav")}), nil).Once()

	result, err := o.Generate(context.Background(), request(domain.KindText, domain.KindAudio))
	require.NoError(t, err)
	require.Len(t, result.Assets, 2)
	require.Contains(t, result.Assets, domain.KindText)
	require.Contains(t, result.Assets, domain.KindAudio)

	image.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	videoGen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	text.AssertExpectations(t)
	speech.AssertExpectations(t)
}

func TestGenerateInputErrorFailsFast(t *testing.T) {
	o, text, _, _, _ := newTestOrchestrator()

	_, err := o.Generate(context.Background(), domain.GenerationRequest{
		Prompt:       "   ",
		EnabledKinds: []domain.AssetKind{domain.KindText},
	})
	require.ErrorIs(t, err, domain.ErrEmptyPrompt)
	text.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateIsolatesFailures(t *testing.T) {
	o, text, image, speech, _ := newTestOrchestrator()

	text.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return("", &domain.ErrorDetail{Code: "TEXT_HTTP_500", Message: "boom", CorrelationID: "attempt-1.text"}).Once()
	image.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(domain.Payload(domain.Hosted{URL: "https://cdn.example.com/i.jpg"}), nil).Once()
	// With no narrative, the speech generator receives an empty script hint.
	speech.On("Generate", mock.Anything, mock.Anything, "", mock.Anything).
		Return(domain.Payload(domain.Inline{Data: []byte("wav")}), nil).Once()

	result, err := o.Generate(context.Background(), request(domain.KindText, domain.KindImage, domain.KindAudio))
	require.NoError(t, err)

	textAsset := result.Assets[domain.KindText]
	require.Equal(t, domain.StatusFailed, textAsset.Status)
	require.NotNil(t, textAsset.Error)
	require.Equal(t, "TEXT_HTTP_500", textAsset.Error.Code)

	require.Equal(t, domain.StatusCompleted, result.Assets[domain.KindImage].Status)
	require.Equal(t, domain.StatusCompleted, result.Assets[domain.KindAudio].Status)
}

func TestGenerateVideoPendingCarriesJob(t *testing.T) {
	o, _, _, _, videoGen := newTestOrchestrator()

	job := &domain.VideoJob{JobID: "job-1", Status: domain.JobInProgress}
	videoGen.On("Generate", mock.Anything, mock.Anything, "attempt-1.video").
		Return(video.Result{Job: job}, nil).Once()

	result, err := o.Generate(context.Background(), request(domain.KindVideo))
	require.NoError(t, err)

	asset := result.Assets[domain.KindVideo]
	require.Equal(t, domain.StatusPending, asset.Status)
	require.Nil(t, asset.Payload)
	require.Equal(t, job, asset.Job)
}

func TestGenerateVideoFailureKeepsJobForAudit(t *testing.T) {
	o, _, _, _, videoGen := newTestOrchestrator()

	job := &domain.VideoJob{JobID: "job-1", Status: domain.JobFailed}
	detail := &domain.ErrorDetail{Code: domain.CodeVideoJobFailed, Message: "rejected"}
	videoGen.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(video.Result{Job: job}, detail).Once()

	result, err := o.Generate(context.Background(), request(domain.KindVideo))
	require.NoError(t, err)

	asset := result.Assets[domain.KindVideo]
	require.Equal(t, domain.StatusFailed, asset.Status)
	require.Equal(t, domain.CodeVideoJobFailed, asset.Error.Code)
	require.Equal(t, job, asset.Job)
}

func TestGenerateNarrativeFlowsIntoAudio(t *testing.T) {
	o, text, _, speech, _ := newTestOrchestrator()

	text.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return("I cross the line.", nil).Once()
	speech.On("Generate", mock.Anything, mock.Anything, "I cross the line.", mock.Anything).
		Return(domain.Payload(domain.Inline{Data: []byte("wav")}), nil).Once()

	_, err := o.Generate(context.Background(), request(domain.KindText, domain.KindAudio))
	require.NoError(t, err)
	speech.AssertExpectations(t)
}
