// Package naming derives output file paths. Converted files keep their
// original base name under a fixed "converted_" prefix, and every encode
// targets a hidden work path that is renamed over the final name only on
// success.
package naming
