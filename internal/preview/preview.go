package preview

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Config controls preview frame extraction.
type Config struct {
	// FrameRate samples the video at this many frames per second.
	FrameRate float64 `json:"frame_rate"`

	// MaxWidth downscales wider frames, preserving aspect ratio.
	MaxWidth int `json:"max_width"`
}

func DefaultConfig() Config {
	return Config{FrameRate: 2, MaxWidth: 960}
}

// Extract writes sampled preview frames for a video as JPEGs under
// previewRoot/<video name>/frame_%05d.jpg and returns that directory.
// Previews let a client inspect a clip and pick marking frames without
// streaming the full video.
func Extract(videoPath, previewRoot string, cfg Config) (string, error) {
	base := filepath.Base(videoPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	dir := filepath.Join(previewRoot, name)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create preview dir: %w", err)
	}

	rate := cfg.FrameRate
	if rate <= 0 {
		rate = DefaultConfig().FrameRate
	}
	width := cfg.MaxWidth
	if width <= 0 {
		width = DefaultConfig().MaxWidth
	}

	fpsStr := strconv.FormatFloat(rate, 'f', -1, 64)
	// -2 keeps the height even, which the JPEG encoder requires.
	scaleStr := fmt.Sprintf("'min(%d,iw)':-2", width)
	pattern := filepath.Join(dir, "frame_%05d.jpg")

	err := ffmpeg.
		Input(videoPath).
		Filter("fps", ffmpeg.Args{fpsStr}).
		Filter("scale", ffmpeg.Args{scaleStr}).
		Output(pattern, ffmpeg.KwArgs{"qscale:v": 2}).
		OverWriteOutput().
		Run()
	if err != nil {
		return "", fmt.Errorf("extract preview frames for %s: %w", videoPath, err)
	}
	return dir, nil
}

// CountFrames returns the number of extracted preview frames in dir.
func CountFrames(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read preview dir: %w", err)
	}
	count := 0
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "frame_") && strings.HasSuffix(e.Name(), ".jpg") {
			count++
		}
	}
	return count, nil
}
