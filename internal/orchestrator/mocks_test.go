package orchestrator

import (
	"context"

	"github.com/stretchr/testify/mock"

	"envision/internal/domain"
	"envision/internal/provider/video"
)

type TextMock struct {
	mock.Mock
}

func (m *TextMock) Generate(ctx context.Context, req domain.GenerationRequest, correlationID string) (string, error) {
	args := m.Called(ctx, req, correlationID)
	return args.String(0), args.Error(1)
}

type ImageMock struct {
	mock.Mock
}

func (m *ImageMock) Generate(ctx context.Context, req domain.GenerationRequest, correlationID string) (domain.Payload, error) {
	args := m.Called(ctx, req, correlationID)
	if v := args.Get(0); v != nil {
		return v.(domain.Payload), args.Error(1)
	}
	return nil, args.Error(1)
}

type SpeechMock struct {
	mock.Mock
}

func (m *SpeechMock) Generate(ctx context.Context, req domain.GenerationRequest, narrative, correlationID string) (domain.Payload, error) {
	args := m.Called(ctx, req, narrative, correlationID)
	if v := args.Get(0); v != nil {
		return v.(domain.Payload), args.Error(1)
	}
	return nil, args.Error(1)
}

type VideoMock struct {
	mock.Mock
}

func (m *VideoMock) Generate(ctx context.Context, req domain.GenerationRequest, correlationID string) (video.Result, error) {
	args := m.Called(ctx, req, correlationID)
	return args.Get(0).(video.Result), args.Error(1)
}
