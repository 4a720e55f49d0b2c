package domain

import "time"

// JobStatus definition job status
type JobStatus string

const (
	// JobPending job record created, upload not finalized
	JobPending JobStatus = "pending"
	// JobStarted upload accepted, waiting for the pipeline
	JobStarted JobStatus = "started"
	// JobProcessing pipeline is running
	JobProcessing JobStatus = "processing"
	// JobCompleted pipeline finished, derived assets recorded
	JobCompleted JobStatus = "completed"
	// JobFailed pipeline failed, error_message set
	JobFailed JobStatus = "failed"
)

// VideoMetadata video file metadata from the probe step
type VideoMetadata struct {
	DurationSeconds float64   `bson:"duration_seconds" json:"duration_seconds"`
	Width           int       `bson:"width" json:"width"`
	Height          int       `bson:"height" json:"height"`
	FileSize        int64     `bson:"file_size" json:"file_size"`
	ContentType     string    `bson:"content_type" json:"content_type"`
	UploadTime      time.Time `bson:"upload_time" json:"upload_time"`
}

// ThumbnailOption one candidate thumbnail for a video
type ThumbnailOption struct {
	ID               string  `bson:"id" json:"id"`
	URL              string  `bson:"url" json:"url"`
	TimestampSeconds float64 `bson:"timestamp_seconds" json:"timestamp_seconds"`
	IsCustom         bool    `bson:"is_custom" json:"is_custom"`
}

// ProcessedFormat one transcoded output of the quality ladder
type ProcessedFormat struct {
	Format string `bson:"format" json:"format"`
	URL    string `bson:"url" json:"url"`
	Width  int    `bson:"width" json:"width"`
	Height int    `bson:"height" json:"height"`
}

// VideoProcessingJob tracks one upload's processing lifecycle
type VideoProcessingJob struct {
	JobID               string            `bson:"job_id" json:"job_id"`
	OriginalFile        string            `bson:"original_file" json:"original_file"`
	Status              JobStatus         `bson:"status" json:"status"`
	CreatedAt           time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time         `bson:"updated_at" json:"updated_at"`
	Metadata            *VideoMetadata    `bson:"metadata,omitempty" json:"metadata,omitempty"`
	ThumbnailOptions    []ThumbnailOption `bson:"thumbnail_options" json:"thumbnail_options"`
	SelectedThumbnailID string            `bson:"selected_thumbnail_id" json:"selected_thumbnail_id"`
	ProcessedFormats    []ProcessedFormat `bson:"processed_formats" json:"processed_formats"`
	ErrorMessage        string            `bson:"error_message" json:"error_message"`
}

// JobUpdate partial-update document for a job. Nil fields are left untouched;
// updated_at is always rewritten by the repository.
type JobUpdate struct {
	Status           JobStatus         `bson:"status,omitempty" json:"status,omitempty"`
	Metadata         *VideoMetadata    `bson:"metadata,omitempty" json:"metadata,omitempty"`
	ThumbnailOptions []ThumbnailOption `bson:"thumbnail_options,omitempty" json:"thumbnail_options,omitempty"`
	ProcessedFormats []ProcessedFormat `bson:"processed_formats,omitempty" json:"processed_formats,omitempty"`
	ErrorMessage     string            `bson:"error_message,omitempty" json:"error_message,omitempty"`
}

// UploadEvent trigger message for one finalized upload object
type UploadEvent struct {
	Bucket    string `json:"bucket"`
	ObjectKey string `json:"object_key"`
}

const (
	// QueueName upload event queue
	QueueName = "video-uploads"
	// UploadPrefix only objects under this prefix are processed
	UploadPrefix = "uploads/"
	// StatusChannel redis pub/sub channel for status transitions
	StatusChannel = "video:jobs:status"
)

// VideoExtensions supported source containers
var VideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".webm", ".quicktime"}
