package encoder

import "strconv"

// QualityArgs returns the encoder-specific speed/quality flags for a
// constant-quality encode around the given value (0-51, lower is better).
// Every backend speaks its own dialect for the same intent; the presets lean
// fast because geometry conversion is the job, not archival quality.
func (c Choice) QualityArgs(quality int) []string {
	q := strconv.Itoa(quality)
	switch c.Name {
	case "h264_nvenc":
		return []string{"-preset", "p1", "-tune", "hq", "-rc", "vbr", "-cq", q}
	case "h264_amf":
		return []string{"-usage", "transcoding", "-rc", "cqp", "-qp_i", q, "-qp_p", q}
	case "h264_qsv":
		return []string{"-preset", "veryfast", "-global_quality", q}
	default:
		return []string{"-preset", "ultrafast", "-crf", q}
	}
}
