package app

import (
	"context"
	"fmt"
	"os/exec"

	"video_processing_service/internal/processing/domain"
)

// MediaTool capability interface over the external media binaries, so the
// execution mechanism stays swappable without touching pipeline logic.
type MediaTool interface {
	Verify(ctx context.Context) error
	Probe(ctx context.Context, inputPath string) ([]byte, error)
	ExtractFrame(ctx context.Context, inputPath, outputPath string, offsetSeconds float64) error
	Transcode(ctx context.Context, inputPath, outputPath string, rung domain.Rung) error
}

// FFmpegTool MediaTool implementation shelling out to ffmpeg/ffprobe
type FFmpegTool struct {
	FFmpegPath  string
	FFprobePath string
}

// NewFFmpegTool create a FFmpegTool, empty paths fall back to $PATH lookup
func NewFFmpegTool(ffmpegPath, ffprobePath string) *FFmpegTool {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpegTool{FFmpegPath: ffmpegPath, FFprobePath: ffprobePath}
}

// Verify check both binaries are present and executable
func (t *FFmpegTool) Verify(ctx context.Context) error {
	for _, bin := range []string{t.FFprobePath, t.FFmpegPath} {
		cmd := exec.CommandContext(ctx, bin, "-version")
		if output, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("%s not available: %v, output: %s", bin, err, string(output))
		}
	}
	return nil
}

// Probe run ffprobe and return its raw JSON output
func (t *FFmpegTool) Probe(ctx context.Context, inputPath string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, t.FFprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		inputPath,
	)
	output, err := cmd.Output()
	if err != nil {
		diag := ""
		if exitErr, ok := err.(*exec.ExitError); ok {
			diag = string(exitErr.Stderr)
		}
		return nil, fmt.Errorf("ffprobe failed: %v, output: %s", err, diag)
	}
	return output, nil
}

// ExtractFrame grab one frame at offsetSeconds, scaled to the thumbnail size
func (t *FFmpegTool) ExtractFrame(ctx context.Context, inputPath, outputPath string, offsetSeconds float64) error {
	cmdArgs := []string{
		"-ss", fmt.Sprintf("%.3f", offsetSeconds),
		"-i", inputPath,
		"-vframes", "1",
		"-vf", fmt.Sprintf("scale=%d:%d", domain.ThumbnailWidth, domain.ThumbnailHeight),
		"-q:v", "2",
		"-y",
		outputPath,
	}
	cmd := exec.CommandContext(ctx, t.FFmpegPath, cmdArgs...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg frame extract failed: %v, output: %s", err, string(output))
	}
	return nil
}

// Transcode encode the source into one ladder rung, web-streaming layout
func (t *FFmpegTool) Transcode(ctx context.Context, inputPath, outputPath string, rung domain.Rung) error {
	cmdArgs := []string{
		"-i", inputPath,
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "23",
		"-maxrate", fmt.Sprintf("%dk", rung.BitrateK),
		"-bufsize", fmt.Sprintf("%dk", rung.BufsizeK()),
		"-vf", fmt.Sprintf("scale=%d:%d", rung.Width, rung.Height),
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		"-y",
		outputPath,
	}
	cmd := exec.CommandContext(ctx, t.FFmpegPath, cmdArgs...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg transcode to %s failed: %v, output: %s", rung.Name, err, string(output))
	}
	return nil
}
