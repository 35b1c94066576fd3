package display

import (
	"testing"
	"time"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"small bytes", 512, "512 B"},
		{"exactly 1 KiB", 1024, "1.0 KiB"},
		{"1.5 KiB", 1536, "1.5 KiB"},
		{"1 MiB", 1024 * 1024, "1.0 MiB"},
		{"1 GiB", 1024 * 1024 * 1024, "1.0 GiB"},
		{"typical file 700 MiB", 734003200, "700.0 MiB"},
		{"4.7 GiB", 5046586572, "4.7 GiB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatBytesWithSign(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"positive", 1024 * 1024, "+ 1.0 MiB"},
		{"negative", -1024 * 1024, "- 1.0 MiB"},
		{"zero", 0, "0 B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBytesWithSign(tt.bytes)
			if got != tt.want {
				t.Errorf("FormatBytesWithSign(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatBitrateLabel(t *testing.T) {
	tests := []struct {
		name string
		kbps int64
		want string
	}{
		{"sub-megabit", 800, "800 kbps"},
		{"exactly 1 Mbps", 1000, "1.0 Mbps"},
		{"typical video", 5000, "5.0 Mbps"},
		{"high bitrate", 25000, "25.0 Mbps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBitrateLabel(tt.kbps)
			if got != tt.want {
				t.Errorf("FormatBitrateLabel(%d) = %q, want %q", tt.kbps, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"zero", 0, "0:00"},
		{"under a minute", 42.4, "0:42"},
		{"rounds up", 59.6, "1:00"},
		{"minutes", 754, "12:34"},
		{"exactly one hour", 3600, "1:00:00"},
		{"movie length", 7384, "2:03:04"},
		{"negative clamps to zero", -5, "0:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDuration(tt.seconds)
			if got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestFormatETA(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"seconds only", 42 * time.Second, "42s"},
		{"minutes", 83 * time.Second, "1m23s"},
		{"hours", 2*time.Hour + 3*time.Minute + 4*time.Second, "2h03m04s"},
		{"sub-second rounds", 400 * time.Millisecond, "0s"},
		{"negative clamps to zero", -time.Minute, "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatETA(tt.d)
			if got != tt.want {
				t.Errorf("FormatETA(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}
