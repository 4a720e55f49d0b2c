package repository

import (
	"context"
	"time"

	"video_processing_service/internal/processing/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// JobRepository definition persistence for video processing jobs
type JobRepository interface {
	Create(ctx context.Context, originalFile string) (*domain.VideoProcessingJob, error)
	GetByID(ctx context.Context, jobID string) (*domain.VideoProcessingJob, error)
	GetByOriginalFile(ctx context.Context, originalFile string) (*domain.VideoProcessingJob, error)
	// UpdateByJobID apply a partial update keyed by job_id, returns matched count
	UpdateByJobID(ctx context.Context, jobID string, update domain.JobUpdate) (int64, error)
	// UpdateByOriginalFile apply a partial update keyed by original_file, returns matched count
	UpdateByOriginalFile(ctx context.Context, originalFile string, update domain.JobUpdate) (int64, error)
	SelectThumbnail(ctx context.Context, jobID, thumbnailID string) (int64, error)
}

type jobRepository struct {
	coll *mongo.Collection
}

// NewMongoJobRepository create a JobRepository backed by Mongo
func NewMongoJobRepository(db *mongo.Database) JobRepository {
	return &jobRepository{
		coll: db.Collection("video_processing_jobs"),
	}
}

// Create insert a new pending job; job_id is generated here, exactly once
func (r *jobRepository) Create(ctx context.Context, originalFile string) (*domain.VideoProcessingJob, error) {
	now := time.Now().UTC()
	job := &domain.VideoProcessingJob{
		JobID:            "job_" + uuid.NewString(),
		OriginalFile:     originalFile,
		Status:           domain.JobPending,
		CreatedAt:        now,
		UpdatedAt:        now,
		ThumbnailOptions: []domain.ThumbnailOption{},
		ProcessedFormats: []domain.ProcessedFormat{},
	}

	if _, err := r.coll.InsertOne(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (r *jobRepository) GetByID(ctx context.Context, jobID string) (*domain.VideoProcessingJob, error) {
	return r.findOne(ctx, bson.M{"job_id": jobID})
}

func (r *jobRepository) GetByOriginalFile(ctx context.Context, originalFile string) (*domain.VideoProcessingJob, error) {
	return r.findOne(ctx, bson.M{"original_file": originalFile})
}

func (r *jobRepository) findOne(ctx context.Context, filter bson.M) (*domain.VideoProcessingJob, error) {
	var job domain.VideoProcessingJob
	if err := r.coll.FindOne(ctx, filter).Decode(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) UpdateByJobID(ctx context.Context, jobID string, update domain.JobUpdate) (int64, error) {
	return r.updateOne(ctx, bson.M{"job_id": jobID}, update)
}

func (r *jobRepository) UpdateByOriginalFile(ctx context.Context, originalFile string, update domain.JobUpdate) (int64, error) {
	return r.updateOne(ctx, bson.M{"original_file": originalFile}, update)
}

// updateOne $set the populated update fields plus a fresh updated_at.
// Field overwrites keep the write idempotent for repeated deliveries.
func (r *jobRepository) updateOne(ctx context.Context, filter bson.M, update domain.JobUpdate) (int64, error) {
	set := UpdateDocument(update)
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (r *jobRepository) SelectThumbnail(ctx context.Context, jobID, thumbnailID string) (int64, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"job_id": jobID},
		bson.M{"$set": bson.M{
			"selected_thumbnail_id": thumbnailID,
			"updated_at":            time.Now().UTC(),
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// UpdateDocument build the $set document for a partial job update.
// Exported so tests can assert the exact write shape.
func UpdateDocument(update domain.JobUpdate) bson.M {
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Status != "" {
		set["status"] = update.Status
	}
	if update.Metadata != nil {
		set["metadata"] = update.Metadata
	}
	if update.ThumbnailOptions != nil {
		set["thumbnail_options"] = update.ThumbnailOptions
	}
	if update.ProcessedFormats != nil {
		set["processed_formats"] = update.ProcessedFormats
	}
	if update.ErrorMessage != "" {
		set["error_message"] = update.ErrorMessage
	}
	return set
}
