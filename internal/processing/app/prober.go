package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"video_processing_service/internal/processing/domain"
	errprocess "video_processing_service/pkg/err"
)

// ErrNoVideoStream the source has no decodable video stream, always fatal
var ErrNoVideoStream = errors.New("no video stream found")

// Prober extract video metadata through the MediaTool
type Prober struct {
	tool MediaTool
}

// NewProber create a Prober
func NewProber(tool MediaTool) *Prober {
	return &Prober{tool: tool}
}

// Extract probe the local file and return its metadata
func (p *Prober) Extract(ctx context.Context, inputPath string) (*domain.VideoMetadata, error) {
	data, err := p.tool.Probe(ctx, inputPath)
	if err != nil {
		return nil, errprocess.Set(fmt.Sprintf("failed to extract video metadata: %v", err))
	}

	metadata, err := ParseProbe(data)
	if err != nil {
		if errors.Is(err, ErrNoVideoStream) {
			return nil, err
		}
		return nil, errprocess.Set(fmt.Sprintf("failed to extract video metadata: %v", err))
	}
	return metadata, nil
}

// --- ffprobe JSON wire types (numbers arrive as strings) ---

type probeOutput struct {
	Format  probeFormat   `json:"format"`
	Streams []probeStream `json:"streams"`
}

type probeFormat struct {
	Duration string `json:"duration"`
	Size     string `json:"size"`
}

type probeStream struct {
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// ParseProbe convert raw ffprobe JSON into VideoMetadata.
// Exported for testing without a real ffprobe binary.
// Missing numeric fields default to zero; a missing video stream is fatal.
func ParseProbe(data []byte) (*domain.VideoMetadata, error) {
	var raw probeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	var videoStream *probeStream
	for i := range raw.Streams {
		if raw.Streams[i].CodecType == "video" {
			videoStream = &raw.Streams[i]
			break
		}
	}
	if videoStream == nil {
		return nil, ErrNoVideoStream
	}

	return &domain.VideoMetadata{
		DurationSeconds: parseFloat(raw.Format.Duration),
		Width:           videoStream.Width,
		Height:          videoStream.Height,
		FileSize:        parseInt64(raw.Format.Size),
		ContentType:     "video/mp4",
		UploadTime:      time.Now().UTC(),
	}, nil
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}
