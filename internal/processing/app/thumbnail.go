package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"video_processing_service/internal/processing/domain"
	"video_processing_service/pkg/database"
	"video_processing_service/pkg/logger"

	"go.uber.org/zap"
)

// ThumbnailGenerator produce candidate thumbnails at proportional timestamps
type ThumbnailGenerator struct {
	tool  MediaTool
	store database.ObjectStore
}

// NewThumbnailGenerator create a ThumbnailGenerator
func NewThumbnailGenerator(tool MediaTool, store database.ObjectStore) *ThumbnailGenerator {
	return &ThumbnailGenerator{tool: tool, store: store}
}

// Generate extract, publish and describe up to ThumbnailCount thumbnails.
// A failure at one timestamp is logged and skipped, it never aborts the rest:
// the result is whatever subset succeeded, possibly empty.
func (g *ThumbnailGenerator) Generate(ctx context.Context, inputPath, tmpDir, originalFile string, durationSeconds float64) []domain.ThumbnailOption {
	thumbnails := []domain.ThumbnailOption{}
	baseName := baseNameOf(originalFile)

	for i, fraction := range domain.ThumbnailFractions {
		timestamp := durationSeconds * fraction

		thumbnailFilename := fmt.Sprintf("%s_thumb_%d.jpg", baseName, i)
		thumbnailPath := filepath.Join(tmpDir, thumbnailFilename)

		if err := g.tool.ExtractFrame(ctx, inputPath, thumbnailPath, timestamp); err != nil {
			logger.Log.Error("thumbnail extract failed",
				zap.String("original_file", originalFile),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}

		objectName := "thumbnails/" + thumbnailFilename
		if err := g.store.UploadFile(ctx, objectName, thumbnailPath, "image/jpeg"); err != nil {
			logger.Log.Error("thumbnail upload failed",
				zap.String("object", objectName),
				zap.Error(err),
			)
			continue
		}
		if err := g.store.SetCacheControl(ctx, objectName, domain.DerivedCacheControl); err != nil {
			logger.Log.Warn("thumbnail cache-control not set",
				zap.String("object", objectName),
				zap.Error(err),
			)
		}

		thumbnails = append(thumbnails, domain.ThumbnailOption{
			// id comes from the integer timestamp so re-runs keep stable ids
			ID:               fmt.Sprintf("thumb_%ds", int(timestamp)),
			URL:              "/uploads/" + objectName,
			TimestampSeconds: timestamp,
			IsCustom:         false,
		})

		logger.Log.Info(fmt.Sprintf("generated thumbnail %d/%d at %.1fs", i+1, domain.ThumbnailCount, timestamp),
			zap.String("original_file", originalFile))
	}

	return thumbnails
}

// baseNameOf file name without directory and extension
func baseNameOf(fileName string) string {
	base := filepath.Base(fileName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
