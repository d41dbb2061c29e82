package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMarks(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "marks.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMarks(t *testing.T) {
	path := writeMarks(t, `{
		"videos": [
			{
				"path": "/v/a.mp4",
				"trim_start_frame": 10,
				"targets": [
					{
						"name": "player 7",
						"style": "arrow",
						"frame": 10,
						"box": [100, 50, 60, 120],
						"key_frames": [
							{"frame": 90, "box": [180, 50, 60, 120]}
						]
					}
				]
			}
		]
	}`)

	marks, err := LoadMarks(path)
	require.NoError(t, err)
	require.Len(t, marks.Videos, 1)
	vm := marks.Videos[0]
	assert.Equal(t, "/v/a.mp4", vm.Path)
	require.NotNil(t, vm.TrimStart)
	assert.Equal(t, 10, *vm.TrimStart)
	require.Len(t, vm.Targets, 1)
	assert.Len(t, vm.Targets[0].KeyFrames, 1)
}

func TestLoadMarksErrors(t *testing.T) {
	_, err := LoadMarks(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadMarks(writeMarks(t, "{not json"))
	assert.Error(t, err)

	_, err = LoadMarks(writeMarks(t, `{"videos": []}`))
	assert.Error(t, err)
}

func TestApplyMarks(t *testing.T) {
	m := NewManager(stubProbe(shortClip()))
	marks := &MarksFile{Videos: []VideoMarks{
		{
			Path: "/v/a.mp4",
			Targets: []TargetMark{
				{Name: "player", Style: "arrow", Frame: 0, Box: [4]int{10, 10, 50, 100}},
			},
		},
	}}

	loaded, err := m.ApplyMarks(marks)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	p := loaded[0]
	assert.Equal(t, StatusMarked, p.Status)
	require.Len(t, p.Targets, 1)
	assert.Equal(t, 50, p.Targets[0].Box.Dx())
	// Loading marks is initial state; nothing needs recomputing.
	assert.Equal(t, 0, p.ResumeStart(0))
}

func TestApplyMarksSkipsBadVideos(t *testing.T) {
	m := NewManager(stubProbe(shortClip()))
	marks := &MarksFile{Videos: []VideoMarks{
		{Path: "/v/bad.avi"},
		{
			Path: "/v/badstyle.mp4",
			Targets: []TargetMark{
				{Name: "x", Style: "sparkles", Frame: 0, Box: [4]int{0, 0, 10, 10}},
			},
		},
		{
			Path: "/v/good.mp4",
			Targets: []TargetMark{
				{Name: "x", Style: "rectangle", Frame: 0, Box: [4]int{0, 0, 10, 10}},
			},
		},
	}}

	loaded, err := m.ApplyMarks(marks)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "/v/good.mp4", loaded[0].VideoPath)
	// The video with the bad target was removed again.
	assert.Equal(t, 1, m.Len())
}

func TestApplyMarksAllBad(t *testing.T) {
	m := NewManager(stubProbe(shortClip()))
	marks := &MarksFile{Videos: []VideoMarks{{Path: "/v/bad.avi"}}}
	_, err := m.ApplyMarks(marks)
	assert.Error(t, err)
}
