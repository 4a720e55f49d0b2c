package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"video_processing_service/internal/processing/domain"
	"video_processing_service/internal/processing/repository"
	errprocess "video_processing_service/pkg/err"
	"video_processing_service/pkg/logger"

	"go.uber.org/zap"
)

// StatusAPIClient definition the primary (network API) status path
type StatusAPIClient interface {
	UpdateByFile(ctx context.Context, originalFile string, update domain.JobUpdate) error
}

type httpStatusAPIClient struct {
	baseURL string
	client  *http.Client
}

// NewStatusAPIClient create a StatusAPIClient against the job API base URL
func NewStatusAPIClient(baseURL string) StatusAPIClient {
	return &httpStatusAPIClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// updateByFileRequest wire shape of the PATCH body
type updateByFileRequest struct {
	OriginalFile string           `json:"original_file"`
	UpdateData   domain.JobUpdate `json:"update_data"`
}

// UpdateByFile PATCH the partial update keyed by original_file; 2xx = success
func (c *httpStatusAPIClient) UpdateByFile(ctx context.Context, originalFile string, update domain.JobUpdate) error {
	body, err := json.Marshal(updateByFileRequest{
		OriginalFile: originalFile,
		UpdateData:   update,
	})
	if err != nil {
		return fmt.Errorf("marshal status update failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		c.baseURL+"/video-processing/jobs/by-file", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build status request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("status API call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status API returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// StatusSynchronizer persist lifecycle transitions: primary API call first,
// direct datastore write when the primary path fails
type StatusSynchronizer struct {
	api  StatusAPIClient
	repo repository.JobRepository
}

// NewStatusSynchronizer create a StatusSynchronizer
func NewStatusSynchronizer(api StatusAPIClient, repo repository.JobRepository) *StatusSynchronizer {
	return &StatusSynchronizer{api: api, repo: repo}
}

// Sync write the update through the primary API, falling back to the
// datastore keyed on the same original_file. A fallback matching zero jobs is
// a visibility gap, not a pipeline failure: logged as warning only.
func (s *StatusSynchronizer) Sync(ctx context.Context, originalFile string, update domain.JobUpdate) error {
	err := s.api.UpdateByFile(ctx, originalFile, update)
	if err == nil {
		logger.Log.Info("job status updated via API",
			zap.String("original_file", originalFile),
			zap.String("status", string(update.Status)),
		)
		return nil
	}

	logger.Log.Warn("status API update failed, falling back to datastore",
		zap.String("original_file", originalFile),
		zap.Error(err),
	)

	matched, err := s.repo.UpdateByOriginalFile(ctx, originalFile, update)
	if err != nil {
		return errprocess.Set(fmt.Sprintf("fallback status update for [%s] failed: %v", originalFile, err))
	}
	if matched == 0 {
		logger.Log.Warn("no job found for file", zap.String("original_file", originalFile))
		return nil
	}

	logger.Log.Info("job status updated via datastore",
		zap.String("original_file", originalFile),
		zap.String("status", string(update.Status)),
	)
	return nil
}
