package planner

import (
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/probe"
)

// BuildPlan produces the geometry Plan for a probed file. This is pure
// arithmetic with no failure path: any file with valid dimensions gets a
// plan.
//
// Flow:
//  1. Already at the target resolution -> ActionSkip
//  2. Fit the source inside the canvas (aspect preserved, even dimensions)
//  3. Split the leftover canvas into centered padding; with an odd leftover
//     the extra pixel goes right/bottom
//
// Sources with the target aspect ratio but a different size (e.g. 1280x720)
// scale to the full canvas with zero padding and still convert.
func BuildPlan(info *probe.MediaInfo) *Plan {
	if info.Width == TargetWidth && info.Height == TargetHeight {
		return &Plan{Action: ActionSkip}
	}

	sw, sh := fitDimensions(info.Width, info.Height)
	padW := TargetWidth - sw
	padH := TargetHeight - sh

	return &Plan{
		Action:       ActionConvert,
		ScaledWidth:  sw,
		ScaledHeight: sh,
		PadLeft:      padW / 2,
		PadRight:     padW - padW/2,
		PadTop:       padH / 2,
		PadBottom:    padH - padH/2,
	}
}
