package track

import (
	"fmt"
	"image"
	"math"
	"sort"

	"playtrack/internal/project"
)

// IssueType classifies a suspicious tracking sample.
type IssueType string

const (
	IssueLost          IssueType = "lost"
	IssueLowConfidence IssueType = "low_confidence"
	IssueSuddenJump    IssueType = "sudden_jump"
	IssueSizeChange    IssueType = "size_change"
	IssueNearEdge      IssueType = "edge"
)

// Severity grades how badly an issue needs a manual correction.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
)

// AnalyzerConfig tunes the post-run quality review.
type AnalyzerConfig struct {
	// LowConfidence flags samples below this score; CriticalConfidence
	// escalates them.
	LowConfidence      float64
	CriticalConfidence float64

	// MaxJumpPerFrame is the allowed center movement in pixels per
	// frame of gap between consecutive samples.
	MaxJumpPerFrame float64

	// SizeRatioMax flags area growth beyond this ratio (or shrinkage
	// beyond its inverse) between consecutive samples.
	SizeRatioMax float64

	// EdgeMarginPx flags boxes within this distance of the frame
	// border, where the subject is about to leave the shot.
	EdgeMarginPx int
}

// DefaultAnalyzerConfig returns the review thresholds used by the
// interactive tool.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		LowConfidence:      0.5,
		CriticalConfidence: 0.3,
		MaxJumpPerFrame:    100.0,
		SizeRatioMax:       2.0,
		EdgeMarginPx:       20,
	}
}

// Issue is one suspicious sample found during review.
type Issue struct {
	Frame    int       `json:"frame"`
	Type     IssueType `json:"type"`
	Severity Severity  `json:"severity"`
	Detail   string    `json:"detail"`
}

// Report summarizes the review of one target's tracking results.
type Report struct {
	TargetID   int    `json:"target_id"`
	TargetName string `json:"target_name"`

	Issues []Issue `json:"issues"`

	// Gaps are inclusive frame ranges where the target was lost.
	Gaps [][2]int `json:"gaps"`

	// SuggestedFrames are frames where a key-frame correction would
	// help most, in ascending order.
	SuggestedFrames []int `json:"suggested_frames"`

	// Quality is an overall score in [0, 1].
	Quality float64 `json:"quality"`

	ByType         map[IssueType]int `json:"by_type"`
	BySeverity     map[Severity]int  `json:"by_severity"`
	FramesAffected int               `json:"frames_affected"`
}

// Analyzer reviews finished tracking results and points at frames worth
// correcting before export.
type Analyzer struct {
	cfg AnalyzerConfig
}

func NewAnalyzer(cfg AnalyzerConfig) *Analyzer {
	if cfg.LowConfidence <= 0 {
		cfg = DefaultAnalyzerConfig()
	}
	return &Analyzer{cfg: cfg}
}

// Analyze produces one report per target with tracking data.
func (a *Analyzer) Analyze(p *project.Project) []Report {
	reports := make([]Report, 0, len(p.Targets))
	for _, t := range p.Targets {
		if len(p.Results[t.ID]) == 0 {
			continue
		}
		reports = append(reports, a.analyzeTarget(p, t))
	}
	return reports
}

func (a *Analyzer) analyzeTarget(p *project.Project, t *project.Target) Report {
	rep := Report{
		TargetID:   t.ID,
		TargetName: t.Name,
		Issues:     []Issue{},
		Gaps:       [][2]int{},
		ByType:     map[IssueType]int{},
		BySeverity: map[Severity]int{},
	}

	frames := make([]int, 0, len(p.Results[t.ID]))
	for f := range p.Results[t.ID] {
		frames = append(frames, f)
	}
	sort.Ints(frames)

	var prev project.Sample
	prevFrame := -1
	hasPrev := false
	gapStart := -1
	lost := 0
	confSum := 0.0
	tracked := 0

	for _, f := range frames {
		s := p.Results[t.ID][f]

		if !s.OK {
			lost++
			if gapStart < 0 {
				gapStart = f
			}
			rep.add(Issue{Frame: f, Type: IssueLost, Severity: SeverityCritical, Detail: "target lost"})
			continue
		}
		if gapStart >= 0 {
			rep.Gaps = append(rep.Gaps, [2]int{gapStart, f - 1})
			gapStart = -1
		}
		tracked++
		confSum += s.Confidence

		// User corrections are ground truth; only let them reset the
		// comparison baseline.
		if s.KeyFrame {
			prev, prevFrame, hasPrev = s, f, true
			continue
		}

		if s.Confidence < a.cfg.CriticalConfidence {
			rep.add(Issue{Frame: f, Type: IssueLowConfidence, Severity: SeverityCritical,
				Detail: fmt.Sprintf("confidence %.2f", s.Confidence)})
		} else if s.Confidence < a.cfg.LowConfidence {
			rep.add(Issue{Frame: f, Type: IssueLowConfidence, Severity: SeverityHigh,
				Detail: fmt.Sprintf("confidence %.2f", s.Confidence)})
		}

		if hasPrev {
			gap := f - prevFrame
			if gap < 1 {
				gap = 1
			}
			if dist := CenterDistance(prev.Box, s.Box); dist > a.cfg.MaxJumpPerFrame*float64(gap) {
				rep.add(Issue{Frame: f, Type: IssueSuddenJump, Severity: SeverityHigh,
					Detail: fmt.Sprintf("center moved %.0fpx over %d frame(s)", dist, gap)})
			}
			if ratio := areaRatio(prev.Box, s.Box); ratio > a.cfg.SizeRatioMax || ratio < 1/a.cfg.SizeRatioMax {
				sev := SeverityMedium
				if ratio > a.cfg.SizeRatioMax*1.5 || ratio < 1/(a.cfg.SizeRatioMax*1.5) {
					sev = SeverityHigh
				}
				rep.add(Issue{Frame: f, Type: IssueSizeChange, Severity: sev,
					Detail: fmt.Sprintf("area ratio %.2f", ratio)})
			}
		}

		if p.Meta != nil && nearEdge(s.Box, p.Meta.Width, p.Meta.Height, a.cfg.EdgeMarginPx) {
			rep.add(Issue{Frame: f, Type: IssueNearEdge, Severity: SeverityMedium, Detail: "box near frame edge"})
		}

		prev, prevFrame, hasPrev = s, f, true
	}
	if gapStart >= 0 {
		rep.Gaps = append(rep.Gaps, [2]int{gapStart, frames[len(frames)-1]})
	}

	rep.SuggestedFrames = suggestCorrections(rep.Issues)
	rep.Quality = qualityScore(len(frames), lost, tracked, confSum, rep.BySeverity)
	return rep
}

func (r *Report) add(issue Issue) {
	if len(r.Issues) == 0 || r.Issues[len(r.Issues)-1].Frame != issue.Frame {
		r.FramesAffected++
	}
	r.Issues = append(r.Issues, issue)
	r.ByType[issue.Type]++
	r.BySeverity[issue.Severity]++
}

// suggestCorrections picks the frames worth a manual key frame: every
// critical issue, frames with two or more high-severity issues, and
// frames where a jump coincides with low confidence.
func suggestCorrections(issues []Issue) []int {
	perFrame := map[int][]Issue{}
	for _, is := range issues {
		perFrame[is.Frame] = append(perFrame[is.Frame], is)
	}

	var out []int
	for f, list := range perFrame {
		high := 0
		hasCritical, hasJump, hasLowConf := false, false, false
		for _, is := range list {
			switch is.Severity {
			case SeverityCritical:
				hasCritical = true
			case SeverityHigh:
				high++
			}
			switch is.Type {
			case IssueSuddenJump:
				hasJump = true
			case IssueLowConfidence:
				hasLowConf = true
			}
		}
		if hasCritical || high >= 2 || (hasJump && hasLowConf) {
			out = append(out, f)
		}
	}
	sort.Ints(out)
	return out
}

// qualityScore blends lost fraction, average confidence and issue
// severity counts into a single score in [0, 1].
func qualityScore(total, lost, tracked int, confSum float64, bySeverity map[Severity]int) float64 {
	if total == 0 {
		return 0
	}
	score := 1.0
	score -= float64(lost) / float64(total) * 0.5

	avgConf := 1.0
	if tracked > 0 {
		avgConf = confSum / float64(tracked)
	}
	score -= (1 - avgConf) * 0.3

	n := float64(total)
	score -= float64(bySeverity[SeverityCritical]) / n * 0.15
	score -= float64(bySeverity[SeverityHigh]) / n * 0.10
	score -= float64(bySeverity[SeverityMedium]) / n * 0.05

	return math.Max(0, math.Min(1, score))
}

func areaRatio(prev, cur image.Rectangle) float64 {
	prevArea := float64(prev.Dx() * prev.Dy())
	if prevArea <= 0 {
		return 1
	}
	return float64(cur.Dx()*cur.Dy()) / prevArea
}

func nearEdge(box image.Rectangle, width, height, margin int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	return box.Min.X < margin || box.Min.Y < margin ||
		box.Max.X > width-margin || box.Max.Y > height-margin
}
