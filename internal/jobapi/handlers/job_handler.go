package handlers

import (
	"net/http"

	"video_processing_service/internal/processing/domain"
	"video_processing_service/internal/processing/repository"
	"video_processing_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// JobHandler definition video processing job handler
type JobHandler struct {
	Repo repository.JobRepository
}

// createJobRequest body of POST /video-processing/jobs
type createJobRequest struct {
	OriginalFile string `json:"original_file"`
}

// updateByFileRequest body of PATCH /video-processing/jobs/by-file
type updateByFileRequest struct {
	OriginalFile string           `json:"original_file"`
	UpdateData   domain.JobUpdate `json:"update_data"`
}

// selectThumbnailRequest body of PUT /video-processing/jobs/:id/thumbnail
type selectThumbnailRequest struct {
	ThumbnailID string `json:"thumbnail_id"`
}

// CreateJob create a new processing job for an accepted upload
func (h *JobHandler) CreateJob(c *fiber.Ctx) error {
	var req createJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.OriginalFile == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "original_file is required"})
	}

	job, err := h.Repo.Create(c.Context(), req.OriginalFile)
	if err != nil {
		logger.Log.Errorf("create job failed:", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create job"})
	}

	return c.JSON(fiber.Map{
		"job_id":  job.JobID,
		"status":  job.Status,
		"message": "Video processing job created successfully",
	})
}

// GetJob fetch one job by job_id
func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	jobID := c.Params("id")

	job, err := h.Repo.GetByID(c.Context(), jobID)
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
	}
	return c.JSON(job)
}

// UpdateByFile apply a partial update keyed by original_file.
// This is the pipeline's primary status path.
func (h *JobHandler) UpdateByFile(c *fiber.Ctx) error {
	var req updateByFileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.OriginalFile == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "original_file is required"})
	}

	matched, err := h.Repo.UpdateByOriginalFile(c.Context(), req.OriginalFile, req.UpdateData)
	if err != nil {
		logger.Log.Errorf("update job by file failed:", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update job"})
	}
	if matched == 0 {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "no job found for file"})
	}

	return c.JSON(fiber.Map{
		"status":  "ok",
		"message": "Video processing job updated successfully",
	})
}

// SelectThumbnail record the consumer's chosen thumbnail id
func (h *JobHandler) SelectThumbnail(c *fiber.Ctx) error {
	jobID := c.Params("id")

	var req selectThumbnailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.ThumbnailID == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "thumbnail_id is required"})
	}

	matched, err := h.Repo.SelectThumbnail(c.Context(), jobID, req.ThumbnailID)
	if err != nil {
		logger.Log.Errorf("select thumbnail failed:", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to select thumbnail"})
	}
	if matched == 0 {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
	}

	return c.JSON(fiber.Map{
		"status":       "ok",
		"thumbnail_id": req.ThumbnailID,
		"message":      "Thumbnail selected successfully",
	})
}
