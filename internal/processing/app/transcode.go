package app

import (
	"context"
	"fmt"
	"path/filepath"

	"video_processing_service/internal/processing/domain"
	"video_processing_service/pkg/database"
	"video_processing_service/pkg/logger"

	"go.uber.org/zap"
)

// TranscodeEngine run the fixed quality ladder against one source file
type TranscodeEngine struct {
	tool  MediaTool
	store database.ObjectStore
}

// NewTranscodeEngine create a TranscodeEngine
func NewTranscodeEngine(tool MediaTool, store database.ObjectStore) *TranscodeEngine {
	return &TranscodeEngine{tool: tool, store: store}
}

// Run encode and publish one output per ladder rung. Rungs are independent:
// one encoder failure is logged and skipped, the siblings still run.
func (e *TranscodeEngine) Run(ctx context.Context, inputPath, tmpDir, originalFile string) []domain.ProcessedFormat {
	processedFormats := []domain.ProcessedFormat{}
	baseName := baseNameOf(originalFile)

	for _, rung := range domain.Ladder {
		outputFilename := fmt.Sprintf("%s%s.mp4", baseName, rung.Suffix)
		outputPath := filepath.Join(tmpDir, outputFilename)

		logger.Log.Info("transcoding", zap.String("original_file", originalFile), zap.String("format", rung.Name))

		if err := e.tool.Transcode(ctx, inputPath, outputPath, rung); err != nil {
			logger.Log.Error("transcode failed",
				zap.String("original_file", originalFile),
				zap.String("format", rung.Name),
				zap.Error(err),
			)
			continue
		}

		objectName := "processed/" + outputFilename
		if err := e.store.UploadFile(ctx, objectName, outputPath, "video/mp4"); err != nil {
			logger.Log.Error("transcode upload failed",
				zap.String("object", objectName),
				zap.Error(err),
			)
			continue
		}
		if err := e.store.SetCacheControl(ctx, objectName, domain.DerivedCacheControl); err != nil {
			logger.Log.Warn("transcode cache-control not set",
				zap.String("object", objectName),
				zap.Error(err),
			)
		}

		processedFormats = append(processedFormats, domain.ProcessedFormat{
			Format: rung.Name,
			URL:    "/uploads/" + objectName,
			Width:  rung.Width,
			Height: rung.Height,
		})

		logger.Log.Info("transcoded", zap.String("original_file", originalFile), zap.String("format", rung.Name))
	}

	return processedFormats
}
