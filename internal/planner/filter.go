package planner

import (
	"fmt"
	"strings"
)

// Filter constructs the comma-joined ffmpeg video filter chain for the
// convert path: scale to the fitted dimensions, reset the sample aspect
// ratio, pad to the full canvas with black bars.
//
// setsar=1 sits between scale and pad so anamorphic sources don't carry a
// stale SAR into the padded output. The pad offsets place the scaled frame
// at PadLeft/PadTop; the right/bottom bars are implied by the canvas size.
func (p *Plan) Filter() string {
	parts := []string{
		fmt.Sprintf("scale=%d:%d", p.ScaledWidth, p.ScaledHeight),
		"setsar=1",
		fmt.Sprintf("pad=%d:%d:%d:%d:black", TargetWidth, TargetHeight, p.PadLeft, p.PadTop),
	}
	return strings.Join(parts, ",")
}
