package export

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// EnsureWritable picks a directory the export can actually write to.
// The requested directory is tried first, then the input video's
// directory, the user's home directory and finally the working
// directory.
func EnsureWritable(requested, videoPath string) (string, error) {
	var candidates []string
	if requested != "" {
		candidates = append(candidates, requested)
	}
	if videoPath != "" {
		candidates = append(candidates, filepath.Dir(videoPath))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, home)
	}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, cwd)
	}

	for i, dir := range candidates {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			continue
		}
		if !dirWritable(dir) {
			continue
		}
		if i > 0 && requested != "" {
			log.Printf("output directory %s not writable, using %s instead", requested, dir)
		}
		return dir, nil
	}
	return "", fmt.Errorf("no writable output directory found")
}

// dirWritable verifies write access by creating and removing a temp file.
func dirWritable(dir string) bool {
	f, err := os.CreateTemp(dir, ".write_check_*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}

// OutputName derives the exported file name from the input video.
func OutputName(videoPath string) string {
	base := filepath.Base(videoPath)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)] + "_tracked.mp4"
}
