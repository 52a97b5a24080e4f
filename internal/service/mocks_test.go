package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"envision/internal/domain"
	"envision/internal/events"
	"envision/internal/provider/video"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) Upsert(ctx context.Context, v *domain.Visualization) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *RepoMock) GetByID(ctx context.Context, id string) (*domain.Visualization, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Visualization), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RepoMock) ListByOwner(ctx context.Context, ownerID string, limit int) ([]domain.Visualization, error) {
	args := m.Called(ctx, ownerID, limit)
	if v := args.Get(0); v != nil {
		return v.([]domain.Visualization), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RepoMock) ListPendingVideo(ctx context.Context, limit int) ([]domain.Visualization, error) {
	args := m.Called(ctx, limit)
	if v := args.Get(0); v != nil {
		return v.([]domain.Visualization), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RepoMock) UpdateVideo(ctx context.Context, id string, status domain.VideoStatus, videoURL string) error {
	args := m.Called(ctx, id, status, videoURL)
	return args.Error(0)
}

type PollerMock struct {
	mock.Mock
}

func (m *PollerMock) Poll(ctx context.Context, req video.StatusRequest) (domain.VideoJob, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.VideoJob), args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
