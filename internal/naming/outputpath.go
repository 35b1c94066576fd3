package naming

import "path/filepath"

// OutputPrefix marks converted files. The prefix keeps the output name
// distinct from the source even when both end up listed side by side, and
// skip-existing detection keys on the exact prefixed name.
const OutputPrefix = "converted_"

// OutputPath builds the destination path for an input file: the source base
// name under outputDir with [OutputPrefix] applied.
//
//	/videos/holiday.mp4 -> <outputDir>/converted_holiday.mp4
func OutputPath(outputDir, inputPath string) string {
	return filepath.Join(outputDir, OutputPrefix+filepath.Base(inputPath))
}
