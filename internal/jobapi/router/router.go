package router

import (
	"video_processing_service/internal/jobapi/handlers"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes bind the job API routes
func RegisterRoutes(app *fiber.App, h *handlers.JobHandler) {
	jobs := app.Group("/video-processing/jobs")

	jobs.Post("/", h.CreateJob)
	jobs.Patch("/by-file", h.UpdateByFile)
	jobs.Get("/:id", h.GetJob)
	jobs.Put("/:id/thumbnail", h.SelectThumbnail)
}
