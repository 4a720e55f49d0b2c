package app

import (
	"context"
	"errors"
	"os"
	"testing"

	"video_processing_service/internal/processing/domain"
	"video_processing_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// stubScratchDir swaps the filesystem seams for one test and reports whether
// the directory was removed before the test ended.
func stubScratchDir(t *testing.T) (string, *bool) {
	t.Helper()

	dir, err := os.MkdirTemp(t.TempDir(), "scratch-")
	if err != nil {
		t.Fatalf("failed to create scratch dir: %v", err)
	}

	removed := false
	origMake, origRemove := makeScratchDir, removeScratchDir
	makeScratchDir = func() (string, error) { return dir, nil }
	removeScratchDir = func(path string) error {
		if path == dir {
			removed = true
		}
		return os.RemoveAll(path)
	}
	t.Cleanup(func() {
		makeScratchDir, removeScratchDir = origMake, origRemove
	})
	return dir, &removed
}

func TestPipelineProcess(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	event := domain.UploadEvent{Bucket: "videos", ObjectKey: "uploads/clip.mp4"}

	t.Run("full run completes the job and cleans the scratch dir", func(t *testing.T) {
		_, removed := stubScratchDir(t)

		mockTool := new(MockMediaTool)
		mockStore := new(MockObjectStore)
		mockAPI := new(MockStatusAPI)
		mockRepo := new(MockJobRepo)
		mockNotifier := new(MockNotifier)

		mockTool.On("Verify", ctx).Return(nil).Once()
		mockStore.On("DownloadFile", ctx, "uploads/clip.mp4", mock.Anything).Return(nil).Once()
		mockTool.On("Probe", ctx, mock.Anything).Return([]byte(sampleProbeJSON), nil).Once()
		mockTool.On("ExtractFrame", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(5)
		mockTool.On("Transcode", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(2)
		mockStore.On("UploadFile", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(7)
		mockStore.On("SetCacheControl", ctx, mock.Anything, domain.DerivedCacheControl).Return(nil).Times(7)

		var synced domain.JobUpdate
		mockAPI.On("UpdateByFile", ctx, "uploads/clip.mp4", mock.Anything).
			Run(func(args mock.Arguments) { synced = args.Get(2).(domain.JobUpdate) }).
			Return(nil).Once()
		mockNotifier.On("PublishStatus", ctx, "uploads/clip.mp4", string(domain.JobCompleted)).Return(nil).Once()

		p := NewPipeline(mockTool, mockStore, NewStatusSynchronizer(mockAPI, mockRepo), mockNotifier)
		err := p.Process(ctx, event)

		assert.NoError(t, err)
		assert.True(t, *removed)
		assert.Equal(t, domain.JobCompleted, synced.Status)
		assert.Equal(t, 20.0, synced.Metadata.DurationSeconds)
		assert.Len(t, synced.ThumbnailOptions, 5)
		assert.Len(t, synced.ProcessedFormats, 2)
		mockTool.AssertExpectations(t)
		mockStore.AssertExpectations(t)
		mockAPI.AssertExpectations(t)
		mockNotifier.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "UpdateByOriginalFile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-video extension is skipped with no side effects", func(t *testing.T) {
		mockTool := new(MockMediaTool)
		mockStore := new(MockObjectStore)
		mockAPI := new(MockStatusAPI)
		mockRepo := new(MockJobRepo)

		p := NewPipeline(mockTool, mockStore, NewStatusSynchronizer(mockAPI, mockRepo), nil)
		err := p.Process(ctx, domain.UploadEvent{Bucket: "videos", ObjectKey: "uploads/readme.txt"})

		assert.NoError(t, err)
		mockTool.AssertNotCalled(t, "Verify", mock.Anything)
		mockStore.AssertNotCalled(t, "DownloadFile", mock.Anything, mock.Anything, mock.Anything)
		mockAPI.AssertNotCalled(t, "UpdateByFile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("objects outside the upload prefix are skipped", func(t *testing.T) {
		mockTool := new(MockMediaTool)
		mockStore := new(MockObjectStore)
		mockAPI := new(MockStatusAPI)
		mockRepo := new(MockJobRepo)

		p := NewPipeline(mockTool, mockStore, NewStatusSynchronizer(mockAPI, mockRepo), nil)
		err := p.Process(ctx, domain.UploadEvent{Bucket: "videos", ObjectKey: "processed/clip_720p.mp4"})

		assert.NoError(t, err)
		mockTool.AssertNotCalled(t, "Verify", mock.Anything)
		mockStore.AssertNotCalled(t, "DownloadFile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing ffmpeg marks the job failed", func(t *testing.T) {
		mockTool := new(MockMediaTool)
		mockStore := new(MockObjectStore)
		mockAPI := new(MockStatusAPI)
		mockRepo := new(MockJobRepo)

		mockTool.On("Verify", ctx).Return(errors.New("ffmpeg not found in PATH")).Once()

		var synced domain.JobUpdate
		mockAPI.On("UpdateByFile", ctx, "uploads/clip.mp4", mock.Anything).
			Run(func(args mock.Arguments) { synced = args.Get(2).(domain.JobUpdate) }).
			Return(nil).Once()

		p := NewPipeline(mockTool, mockStore, NewStatusSynchronizer(mockAPI, mockRepo), nil)
		err := p.Process(ctx, event)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ffmpeg not available")
		assert.Equal(t, domain.JobFailed, synced.Status)
		assert.Contains(t, synced.ErrorMessage, "ffmpeg not available")
		mockStore.AssertNotCalled(t, "DownloadFile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("probe failure records failed status, returns the cause, cleans up", func(t *testing.T) {
		_, removed := stubScratchDir(t)

		mockTool := new(MockMediaTool)
		mockStore := new(MockObjectStore)
		mockAPI := new(MockStatusAPI)
		mockRepo := new(MockJobRepo)

		mockTool.On("Verify", ctx).Return(nil).Once()
		mockStore.On("DownloadFile", ctx, "uploads/clip.mp4", mock.Anything).Return(nil).Once()
		mockTool.On("Probe", ctx, mock.Anything).
			Return([]byte(`{"format": {}, "streams": [{"codec_type": "audio"}]}`), nil).Once()

		var synced domain.JobUpdate
		mockAPI.On("UpdateByFile", ctx, "uploads/clip.mp4", mock.Anything).
			Run(func(args mock.Arguments) { synced = args.Get(2).(domain.JobUpdate) }).
			Return(nil).Once()

		p := NewPipeline(mockTool, mockStore, NewStatusSynchronizer(mockAPI, mockRepo), nil)
		err := p.Process(ctx, event)

		assert.ErrorIs(t, err, ErrNoVideoStream)
		assert.True(t, *removed)
		assert.Equal(t, domain.JobFailed, synced.Status)
		assert.NotEmpty(t, synced.ErrorMessage)
		mockTool.AssertNotCalled(t, "ExtractFrame", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockTool.AssertNotCalled(t, "Transcode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("download failure marks the job failed and cleans up", func(t *testing.T) {
		_, removed := stubScratchDir(t)

		mockTool := new(MockMediaTool)
		mockStore := new(MockObjectStore)
		mockAPI := new(MockStatusAPI)
		mockRepo := new(MockJobRepo)

		mockTool.On("Verify", ctx).Return(nil).Once()
		mockStore.On("DownloadFile", ctx, "uploads/clip.mp4", mock.Anything).
			Return(errors.New("object not found")).Once()

		var synced domain.JobUpdate
		mockAPI.On("UpdateByFile", ctx, "uploads/clip.mp4", mock.Anything).
			Run(func(args mock.Arguments) { synced = args.Get(2).(domain.JobUpdate) }).
			Return(nil).Once()

		p := NewPipeline(mockTool, mockStore, NewStatusSynchronizer(mockAPI, mockRepo), nil)
		err := p.Process(ctx, event)

		assert.Error(t, err)
		assert.True(t, *removed)
		assert.Equal(t, domain.JobFailed, synced.Status)
	})

	t.Run("notifier failure never fails the job", func(t *testing.T) {
		_, removed := stubScratchDir(t)

		mockTool := new(MockMediaTool)
		mockStore := new(MockObjectStore)
		mockAPI := new(MockStatusAPI)
		mockRepo := new(MockJobRepo)
		mockNotifier := new(MockNotifier)

		mockTool.On("Verify", ctx).Return(nil).Once()
		mockStore.On("DownloadFile", ctx, "uploads/clip.mp4", mock.Anything).Return(nil).Once()
		mockTool.On("Probe", ctx, mock.Anything).Return([]byte(sampleProbeJSON), nil).Once()
		mockTool.On("ExtractFrame", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(5)
		mockTool.On("Transcode", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(2)
		mockStore.On("UploadFile", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(7)
		mockStore.On("SetCacheControl", ctx, mock.Anything, domain.DerivedCacheControl).Return(nil).Times(7)
		mockAPI.On("UpdateByFile", ctx, "uploads/clip.mp4", mock.Anything).Return(nil).Once()
		mockNotifier.On("PublishStatus", ctx, "uploads/clip.mp4", string(domain.JobCompleted)).
			Return(errors.New("redis down")).Once()

		p := NewPipeline(mockTool, mockStore, NewStatusSynchronizer(mockAPI, mockRepo), mockNotifier)
		err := p.Process(ctx, event)

		assert.NoError(t, err)
		assert.True(t, *removed)
		mockNotifier.AssertExpectations(t)
	})
}
