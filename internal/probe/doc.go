// Package probe provides ffprobe-based media inspection. A single JSON call
// per file (-show_format -show_streams) yields the [MediaInfo] the planner
// and display consume: dimensions and duration, plus codec, bitrate, size,
// and frame rate for reporting.
//
// Cover art embedded as an attached-picture video stream is skipped when
// picking the primary video stream. Files without a usable video stream
// surface [ErrNoVideoStream] or [ErrBadDimensions]; both are per-file
// errors, never batch-fatal.
package probe
