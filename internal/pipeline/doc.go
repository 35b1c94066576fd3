// Package pipeline orchestrates a batch run: discover the MP4 files in the
// input directory, push each one through probe → plan → convert, and tally
// the outcome. Per-file errors never abort the batch; the summary is always
// printed.
//
// Files are processed strictly in order by default. With --jobs N the
// per-file work fans out over a bounded worker pool; the tally is then
// mutex-guarded and the live progress line stays off because parallel
// encodes would fight over the terminal row.
package pipeline
