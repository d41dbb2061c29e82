package export

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// HasAudioStream probes the input and reports whether it carries audio.
// Probe failures are treated as "no audio" so export can still finish.
func HasAudioStream(path string) bool {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		log.Printf("probe %s for audio failed: %v", path, err)
		return false
	}
	return audioStreamPresent([]byte(out))
}

func audioStreamPresent(probe []byte) bool {
	var doc struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(probe, &doc); err != nil {
		return false
	}
	for _, s := range doc.Streams {
		if s.CodecType == "audio" {
			return true
		}
	}
	return false
}

// MuxAudio merges the original video's audio track into the silently
// rendered file at silentPath, writing the result to outPath. Three
// strategies are tried in order: copy the rendered video stream and
// re-encode audio to AAC, re-encode everything with libx264, and as a
// last resort copy the silent file so the export still produces output.
func MuxAudio(originalPath, silentPath, outPath string) error {
	if !HasAudioStream(originalPath) {
		log.Printf("%s has no audio stream, exporting silent video", originalPath)
		return copyFile(silentPath, outPath)
	}

	if err := muxStreamCopy(originalPath, silentPath, outPath); err == nil {
		return nil
	} else {
		log.Printf("audio mux with stream copy failed: %v, re-encoding", err)
	}

	if err := muxReencode(originalPath, silentPath, outPath); err == nil {
		return nil
	} else {
		log.Printf("audio mux with re-encode failed: %v, keeping silent export", err)
	}

	return copyFile(silentPath, outPath)
}

// muxStreamCopy copies the rendered video stream as-is and transcodes
// the original audio to AAC. The optional audio map tolerates inputs
// whose audio disappears between probe and mux.
func muxStreamCopy(originalPath, silentPath, outPath string) error {
	video := ffmpeg.Input(silentPath)
	audio := ffmpeg.Input(originalPath)
	return ffmpeg.Output(
		[]*ffmpeg.Stream{video, audio},
		outPath,
		ffmpeg.KwArgs{
			"c:v":      "copy",
			"c:a":      "aac",
			"b:a":      "192k",
			"map":      []string{"0:v:0", "1:a:0?"},
			"shortest": "",
		},
	).OverWriteOutput().Run()
}

// muxReencode re-encodes the rendered stream with libx264, for players
// that reject the stream-copied container.
func muxReencode(originalPath, silentPath, outPath string) error {
	video := ffmpeg.Input(silentPath)
	audio := ffmpeg.Input(originalPath)
	return ffmpeg.Output(
		[]*ffmpeg.Stream{video, audio},
		outPath,
		ffmpeg.KwArgs{
			"c:v":      "libx264",
			"preset":   "fast",
			"crf":      "18",
			"c:a":      "aac",
			"b:a":      "192k",
			"map":      []string{"0:v:0", "1:a:0?"},
			"shortest": "",
		},
	).OverWriteOutput().Run()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Close()
}
