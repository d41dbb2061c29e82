package track

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playtrack/internal/project"
	"playtrack/internal/render"
	"playtrack/internal/video"
)

func reviewProject(t *testing.T) (*project.Project, *project.Target) {
	t.Helper()
	p := project.New("/v/a.mp4")
	tgt, err := p.AddTarget("subject", render.StyleArrow, 0, image.Rect(100, 100, 150, 200), image.Rectangle{})
	require.NoError(t, err)
	return p, tgt
}

func TestAnalyzeCleanRunHasNoIssues(t *testing.T) {
	p, tgt := reviewProject(t)
	p.Results.Set(tgt.ID, 0, project.Sample{Box: image.Rect(100, 100, 150, 200), OK: true, Confidence: 1, KeyFrame: true})
	p.Results.Set(tgt.ID, 1, project.Sample{Box: image.Rect(105, 100, 155, 200), OK: true, Confidence: 0.8})
	p.Results.Set(tgt.ID, 2, project.Sample{Box: image.Rect(110, 100, 160, 200), OK: true, Confidence: 0.8})

	reports := NewAnalyzer(DefaultAnalyzerConfig()).Analyze(p)
	require.Len(t, reports, 1)
	rep := reports[0]
	assert.Empty(t, rep.Issues)
	assert.Empty(t, rep.Gaps)
	assert.Empty(t, rep.SuggestedFrames)
	assert.Greater(t, rep.Quality, 0.9)
}

func TestAnalyzeLostFramesFormGapsAndSuggestions(t *testing.T) {
	p, tgt := reviewProject(t)
	p.Results.Set(tgt.ID, 0, project.Sample{Box: image.Rect(100, 100, 150, 200), OK: true, Confidence: 1, KeyFrame: true})
	p.Results.Set(tgt.ID, 1, project.Sample{Box: image.Rect(105, 100, 155, 200), OK: true, Confidence: 0.8})
	p.Results.Set(tgt.ID, 2, project.Sample{Box: image.Rect(110, 100, 160, 200), OK: true, Confidence: 0.4})
	p.Results.Set(tgt.ID, 3, project.Sample{})
	p.Results.Set(tgt.ID, 4, project.Sample{})

	reports := NewAnalyzer(DefaultAnalyzerConfig()).Analyze(p)
	require.Len(t, reports, 1)
	rep := reports[0]

	assert.Equal(t, [][2]int{{3, 4}}, rep.Gaps)
	assert.Equal(t, 2, rep.ByType[IssueLost])
	assert.Equal(t, 1, rep.ByType[IssueLowConfidence])
	assert.Equal(t, 2, rep.BySeverity[SeverityCritical])
	assert.Equal(t, 3, rep.FramesAffected)

	// Lost frames are critical and always suggested; a single high
	// severity issue is not.
	assert.Equal(t, []int{3, 4}, rep.SuggestedFrames)

	// 5 samples, 2 lost, avg confidence 2.2/3, two critical and one
	// high issue.
	assert.InDelta(t, 0.64, rep.Quality, 1e-9)
}

func TestAnalyzeFlagsSuddenJumps(t *testing.T) {
	p, tgt := reviewProject(t)
	p.Results.Set(tgt.ID, 0, project.Sample{Box: image.Rect(100, 100, 150, 200), OK: true, Confidence: 1, KeyFrame: true})
	p.Results.Set(tgt.ID, 1, project.Sample{Box: image.Rect(400, 100, 450, 200), OK: true, Confidence: 0.45})

	reports := NewAnalyzer(DefaultAnalyzerConfig()).Analyze(p)
	require.Len(t, reports, 1)
	rep := reports[0]

	assert.Equal(t, 1, rep.ByType[IssueSuddenJump])
	assert.Equal(t, 1, rep.ByType[IssueLowConfidence])
	// Jump plus low confidence on the same frame earns a suggestion.
	assert.Equal(t, []int{1}, rep.SuggestedFrames)
}

func TestAnalyzeKeyFrameResetsBaseline(t *testing.T) {
	p, tgt := reviewProject(t)
	p.Results.Set(tgt.ID, 0, project.Sample{Box: image.Rect(100, 100, 150, 200), OK: true, Confidence: 0.8})
	// A correction far away is not a jump; it is ground truth.
	p.Results.Set(tgt.ID, 1, project.Sample{Box: image.Rect(500, 500, 550, 600), OK: true, Confidence: 1, KeyFrame: true})
	p.Results.Set(tgt.ID, 2, project.Sample{Box: image.Rect(505, 500, 555, 600), OK: true, Confidence: 0.8})

	reports := NewAnalyzer(DefaultAnalyzerConfig()).Analyze(p)
	require.Len(t, reports, 1)
	assert.Empty(t, reports[0].Issues)
}

func TestAnalyzeFlagsSizeChangesAndEdges(t *testing.T) {
	p, tgt := reviewProject(t)
	p.Meta = &video.Metadata{Width: 640, Height: 360}
	p.Results.Set(tgt.ID, 0, project.Sample{Box: image.Rect(100, 100, 150, 200), OK: true, Confidence: 1, KeyFrame: true})
	// Area grows 4x: a high severity size change.
	p.Results.Set(tgt.ID, 1, project.Sample{Box: image.Rect(100, 100, 200, 300), OK: true, Confidence: 0.8})
	// Hugging the frame border.
	p.Results.Set(tgt.ID, 2, project.Sample{Box: image.Rect(5, 5, 105, 205), OK: true, Confidence: 0.8})

	reports := NewAnalyzer(DefaultAnalyzerConfig()).Analyze(p)
	require.Len(t, reports, 1)
	rep := reports[0]

	assert.Equal(t, 1, rep.ByType[IssueNearEdge])
	require.GreaterOrEqual(t, rep.ByType[IssueSizeChange], 1)
	var sizeIssue *Issue
	for i := range rep.Issues {
		if rep.Issues[i].Type == IssueSizeChange && rep.Issues[i].Frame == 1 {
			sizeIssue = &rep.Issues[i]
		}
	}
	require.NotNil(t, sizeIssue)
	assert.Equal(t, SeverityHigh, sizeIssue.Severity)
}

func TestAnalyzeSkipsTargetsWithoutData(t *testing.T) {
	p, _ := reviewProject(t)
	assert.Empty(t, NewAnalyzer(DefaultAnalyzerConfig()).Analyze(p))
}
