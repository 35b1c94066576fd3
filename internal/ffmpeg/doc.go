// Package ffmpeg builds and executes the conversion commands. One
// invocation per file: the argument skeleton maps the probed video stream,
// applies the planner's scale/pad filter with the selected encoder backend,
// and stream-copies audio.
//
// Progress is read from ffmpeg's own machine-readable stream (-progress
// pipe:1) with the classic stderr stats line as a secondary source, and the
// encode writes to a hidden work file that only becomes the real output via
// rename after a clean exit.
package ffmpeg
