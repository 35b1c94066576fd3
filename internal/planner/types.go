package planner

import "fmt"

// Target canvas. Every converted file comes out at exactly this size.
const (
	TargetWidth  = 1920
	TargetHeight = 1080
)

// Action describes the per-file processing decision.
type Action int

const (
	// ActionConvert scales the video into the target canvas with padding.
	ActionConvert Action = iota
	// ActionSkip means the file is already at the target resolution.
	ActionSkip
)

// String returns the action name for logs and the analyze table.
func (a Action) String() string {
	switch a {
	case ActionConvert:
		return "convert"
	case ActionSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Plan holds the geometry decision for a single file: the scaled dimensions
// of the source inside the target canvas and the black padding around it.
// Produced by BuildPlan and consumed by the ffmpeg package.
//
// For ActionConvert the fields always satisfy
// ScaledWidth+PadLeft+PadRight == TargetWidth and
// ScaledHeight+PadTop+PadBottom == TargetHeight, with even positive scaled
// dimensions.
type Plan struct {
	Action Action

	ScaledWidth  int
	ScaledHeight int
	PadLeft      int
	PadRight     int
	PadTop       int
	PadBottom    int
}

// Summary returns a short human description of the plan for logs and the
// analyze table.
func (p *Plan) Summary() string {
	if p.Action == ActionSkip {
		return fmt.Sprintf("already %dx%d", TargetWidth, TargetHeight)
	}
	padW := p.PadLeft + p.PadRight
	padH := p.PadTop + p.PadBottom
	base := fmt.Sprintf("scale to %dx%d", p.ScaledWidth, p.ScaledHeight)
	switch {
	case padW == 0 && padH == 0:
		return base
	case padH == 0:
		return base + fmt.Sprintf(", pillarbox %d+%d", p.PadLeft, p.PadRight)
	case padW == 0:
		return base + fmt.Sprintf(", letterbox %d+%d", p.PadTop, p.PadBottom)
	default:
		return base + fmt.Sprintf(", pad %dx%d", padW, padH)
	}
}
