package app

import (
	"context"

	"video_processing_service/internal/processing/domain"

	"github.com/stretchr/testify/mock"
)

// MockMediaTool is a MediaTool mock
type MockMediaTool struct {
	mock.Mock
}

func (m *MockMediaTool) Verify(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockMediaTool) Probe(ctx context.Context, inputPath string) ([]byte, error) {
	args := m.Called(ctx, inputPath)
	if data, ok := args.Get(0).([]byte); ok {
		return data, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMediaTool) ExtractFrame(ctx context.Context, inputPath, outputPath string, offsetSeconds float64) error {
	args := m.Called(ctx, inputPath, outputPath, offsetSeconds)
	return args.Error(0)
}

func (m *MockMediaTool) Transcode(ctx context.Context, inputPath, outputPath string, rung domain.Rung) error {
	args := m.Called(ctx, inputPath, outputPath, rung)
	return args.Error(0)
}

// MockObjectStore is an ObjectStore mock
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) UploadFile(ctx context.Context, objectName, filePath, contentType string) error {
	args := m.Called(ctx, objectName, filePath, contentType)
	return args.Error(0)
}

func (m *MockObjectStore) DownloadFile(ctx context.Context, objectName, destPath string) error {
	args := m.Called(ctx, objectName, destPath)
	return args.Error(0)
}

func (m *MockObjectStore) SetCacheControl(ctx context.Context, objectName, value string) error {
	args := m.Called(ctx, objectName, value)
	return args.Error(0)
}

// MockStatusAPI is a StatusAPIClient mock
type MockStatusAPI struct {
	mock.Mock
}

func (m *MockStatusAPI) UpdateByFile(ctx context.Context, originalFile string, update domain.JobUpdate) error {
	args := m.Called(ctx, originalFile, update)
	return args.Error(0)
}

// MockJobRepo is a JobRepository mock
type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, originalFile string) (*domain.VideoProcessingJob, error) {
	args := m.Called(ctx, originalFile)
	if job, ok := args.Get(0).(*domain.VideoProcessingJob); ok {
		return job, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJobRepo) GetByID(ctx context.Context, jobID string) (*domain.VideoProcessingJob, error) {
	args := m.Called(ctx, jobID)
	if job, ok := args.Get(0).(*domain.VideoProcessingJob); ok {
		return job, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJobRepo) GetByOriginalFile(ctx context.Context, originalFile string) (*domain.VideoProcessingJob, error) {
	args := m.Called(ctx, originalFile)
	if job, ok := args.Get(0).(*domain.VideoProcessingJob); ok {
		return job, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJobRepo) UpdateByJobID(ctx context.Context, jobID string, update domain.JobUpdate) (int64, error) {
	args := m.Called(ctx, jobID, update)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobRepo) UpdateByOriginalFile(ctx context.Context, originalFile string, update domain.JobUpdate) (int64, error) {
	args := m.Called(ctx, originalFile, update)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobRepo) SelectThumbnail(ctx context.Context, jobID, thumbnailID string) (int64, error) {
	args := m.Called(ctx, jobID, thumbnailID)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotifier is a Notifier mock
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) PublishStatus(ctx context.Context, jobID, status string) error {
	args := m.Called(ctx, jobID, status)
	return args.Error(0)
}
