package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"video_processing_service/internal/processing/domain"
	"video_processing_service/pkg"
	"video_processing_service/pkg/database"
	errprocess "video_processing_service/pkg/err"
	"video_processing_service/pkg/logger"

	"go.uber.org/zap"
)

// Pipeline definition one pipeline execution per finalized upload
type Pipeline interface {
	Process(ctx context.Context, event domain.UploadEvent) error
}

type pipeline struct {
	tool     MediaTool
	store    database.ObjectStore
	prober   *Prober
	thumbs   *ThumbnailGenerator
	ladder   *TranscodeEngine
	status   *StatusSynchronizer
	notifier database.Notifier // optional, best-effort
}

// NewPipeline create a Pipeline
func NewPipeline(tool MediaTool, store database.ObjectStore, status *StatusSynchronizer, notifier database.Notifier) Pipeline {
	return &pipeline{
		tool:     tool,
		store:    store,
		prober:   NewProber(tool),
		thumbs:   NewThumbnailGenerator(tool, store),
		ladder:   NewTranscodeEngine(tool, store),
		status:   status,
		notifier: notifier,
	}
}

// test seams for the filesystem, swapped in unit tests
var (
	makeScratchDir = func() (string, error) {
		return os.MkdirTemp("", "video-processing-")
	}

	removeScratchDir = func(path string) error {
		return os.RemoveAll(path)
	}
)

// Process run the whole pipeline for one upload event:
// filter, preflight, download, probe, thumbnails, ladder, status write.
// The scratch directory is removed on every exit path. Probe failure or any
// escaping error marks the job failed and is returned to the caller so the
// triggering runtime sees it too.
func (p *pipeline) Process(ctx context.Context, event domain.UploadEvent) error {
	fileName := event.ObjectKey

	if !strings.HasPrefix(fileName, domain.UploadPrefix) || !isVideoFile(fileName) {
		logger.Log.Info("skipping non-video file", zap.String("object_key", fileName))
		return nil
	}

	logger.Log.Info("starting video processing",
		zap.String("bucket", event.Bucket),
		zap.String("object_key", fileName),
	)

	if err := p.tool.Verify(ctx); err != nil {
		return p.failJob(ctx, fileName, errprocess.Set(fmt.Sprintf("ffmpeg not available: %v", err)))
	}

	tmpDir, err := makeScratchDir()
	if err != nil {
		return p.failJob(ctx, fileName, errprocess.Set(fmt.Sprintf("failed to create scratch directory: %v", err)))
	}
	defer func() {
		if err := removeScratchDir(tmpDir); err != nil {
			logger.Log.Warn("failed to clean up scratch directory", zap.String("path", tmpDir), zap.Error(err))
		} else {
			logger.Log.Info("cleaned up scratch directory", zap.String("path", tmpDir))
		}
	}()

	inputPath := filepath.Join(tmpDir, "input_video")
	if err := p.store.DownloadFile(ctx, fileName, inputPath); err != nil {
		return p.failJob(ctx, fileName, errprocess.Set(fmt.Sprintf("failed to download source [%s]: %v", fileName, err)))
	}

	metadata, err := p.prober.Extract(ctx, inputPath)
	if err != nil {
		return p.failJob(ctx, fileName, err)
	}
	logger.Log.Info("extracted metadata",
		zap.String("object_key", fileName),
		zap.Float64("duration_seconds", metadata.DurationSeconds),
		zap.Int("width", metadata.Width),
		zap.Int("height", metadata.Height),
	)

	// thumbnails and ladder rungs tolerate partial failure, the job still
	// completes with whatever subset succeeded
	thumbnails := p.thumbs.Generate(ctx, inputPath, tmpDir, fileName, metadata.DurationSeconds)
	logger.Log.Infof("generated thumbnails:", len(thumbnails))

	processedFormats := p.ladder.Run(ctx, inputPath, tmpDir, fileName)
	logger.Log.Infof("generated video formats:", len(processedFormats))

	if err := p.status.Sync(ctx, fileName, domain.JobUpdate{
		Status:           domain.JobCompleted,
		Metadata:         metadata,
		ThumbnailOptions: thumbnails,
		ProcessedFormats: processedFormats,
	}); err != nil {
		return err
	}

	p.notify(ctx, fileName, domain.JobCompleted)
	logger.Log.Info("video processing completed", zap.String("object_key", fileName))
	return nil
}

// failJob record the failed status then hand the original error back
func (p *pipeline) failJob(ctx context.Context, fileName string, cause error) error {
	if err := p.status.Sync(ctx, fileName, domain.JobUpdate{
		Status:       domain.JobFailed,
		ErrorMessage: cause.Error(),
	}); err != nil {
		logger.Log.Error("failed to record failed status", zap.String("object_key", fileName), zap.Error(err))
	}
	p.notify(ctx, fileName, domain.JobFailed)
	return cause
}

func (p *pipeline) notify(ctx context.Context, fileName string, status domain.JobStatus) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.PublishStatus(ctx, fileName, string(status)); err != nil {
		logger.Log.Warn("failed to publish status notification", zap.String("object_key", fileName), zap.Error(err))
	}
}

// isVideoFile check the extension against the allowlist
func isVideoFile(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	return pkg.Contains(domain.VideoExtensions, ext)
}
