package export

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	"playtrack/internal/project"
	"playtrack/internal/render"
	"playtrack/internal/video"
)

// Exporter renders tracked markers onto a video and muxes the original
// audio back in. One exporter is reusable across projects.
type Exporter struct {
	// Codecs are tried in order when opening the video writer.
	Codecs []string

	renderer *render.Renderer
}

func NewExporter() *Exporter {
	return &Exporter{
		Codecs:   []string{"avc1", "mp4v"},
		renderer: render.NewRenderer(),
	}
}

// Export writes the rendered video for p into outputDir and returns the
// final path. Frames are rendered to a silent temp file first; audio
// from the source video is muxed in afterwards.
func (e *Exporter) Export(ctx context.Context, p *project.Project, outputDir string, progress func(done, total int)) (string, error) {
	if !p.Results.HasData() {
		return "", fmt.Errorf("no tracking data for %s", p.VideoPath)
	}

	dir, err := EnsureWritable(outputDir, p.VideoPath)
	if err != nil {
		return "", err
	}
	outPath := filepath.Join(dir, OutputName(p.VideoPath))

	src, err := video.Open(p.VideoPath)
	if err != nil {
		return "", err
	}
	defer src.Close()
	meta := src.Metadata()

	tmpDir, err := os.MkdirTemp("", "playtrack_export_*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)
	silentPath := filepath.Join(tmpDir, "tracked_no_audio.mp4")

	writer, codec, err := e.openWriter(silentPath, meta)
	if err != nil {
		return "", err
	}
	log.Printf("exporting %s with codec %s to %s", p.VideoPath, codec, outPath)

	start, end := p.Range()
	if end < 0 || end >= meta.FrameCount {
		end = meta.FrameCount - 1
	}

	if err := e.writeFrames(ctx, src, writer, p, start, end, progress); err != nil {
		writer.Close()
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close video writer: %w", err)
	}

	if err := MuxAudio(p.VideoPath, silentPath, outPath); err != nil {
		return "", fmt.Errorf("mux audio: %w", err)
	}
	return outPath, nil
}

// openWriter tries each configured codec until one opens.
func (e *Exporter) openWriter(path string, meta video.Metadata) (*gocv.VideoWriter, string, error) {
	for _, codec := range e.Codecs {
		writer, err := gocv.VideoWriterFile(path, codec, meta.FPS, meta.Width, meta.Height, true)
		if err != nil {
			log.Printf("codec %s unavailable: %v", codec, err)
			continue
		}
		if !writer.IsOpened() {
			writer.Close()
			log.Printf("codec %s failed to open writer", codec)
			continue
		}
		return writer, codec, nil
	}
	return nil, "", fmt.Errorf("no usable codec among %v", e.Codecs)
}

// writeFrames renders markers over every frame in [start, end] and
// writes the result. Frames outside the trim range are skipped so the
// output covers only the trimmed clip.
func (e *Exporter) writeFrames(ctx context.Context, src *video.Source, writer *gocv.VideoWriter, p *project.Project, start, end int, progress func(done, total int)) error {
	frame := gocv.NewMat()
	defer frame.Close()

	if start > 0 {
		if err := src.Seek(start); err != nil {
			return fmt.Errorf("seek to frame %d: %w", start, err)
		}
	}

	total := end - start + 1
	written := 0
	for idx := start; idx <= end; idx++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !src.Next(&frame) {
			log.Printf("source ended at frame %d, expected %d", idx, end)
			break
		}

		overlays := e.overlaysAt(p, idx)
		if len(overlays) > 0 {
			e.renderer.DrawAll(&frame, overlays)
		}
		if err := writer.Write(frame); err != nil {
			return fmt.Errorf("write frame %d: %w", idx, err)
		}

		written++
		if progress != nil {
			progress(written, total)
		}
	}
	if written == 0 {
		return fmt.Errorf("no frames written for %s", p.VideoPath)
	}
	return nil
}

// overlaysAt collects the drawable markers for one frame. Lost samples
// produce no overlay; the marker simply disappears until tracking
// recovers.
func (e *Exporter) overlaysAt(p *project.Project, idx int) []render.Overlay {
	var overlays []render.Overlay
	for _, t := range p.Targets {
		s, ok := p.Results.At(t.ID, idx)
		if !ok || !s.OK {
			continue
		}
		overlays = append(overlays, render.Overlay{
			Box:         s.Box,
			OriginalBox: s.OriginalBox,
			Style:       t.Style,
			Label:       t.Name,
			Color:       t.Style.DefaultColor(),
		})
	}
	return overlays
}
