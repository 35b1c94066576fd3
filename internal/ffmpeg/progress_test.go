package ffmpeg

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feedBlock feeds a full key=value block to the parser and returns the
// snapshot produced by its progress= marker.
func feedBlock(t *testing.T, pp *progressParser, block string) Progress {
	t.Helper()
	var (
		snap Progress
		done bool
	)
	for _, line := range strings.Split(strings.TrimSpace(block), "\n") {
		pr, ok := pp.Feed(line)
		if ok {
			require.False(t, done, "more than one snapshot in a single block")
			snap, done = pr, true
		}
	}
	require.True(t, done, "block did not produce a snapshot")
	return snap
}

func TestProgressParser_FullBlock(t *testing.T) {
	var pp progressParser
	snap := feedBlock(t, &pp, `
frame=250
fps=124.50
stream_0_0_q=23.0
bitrate=2033.7kbits/s
total_size=2621440
out_time_us=10312000
out_time_ms=10312000
out_time=00:00:10.312000
dup_frames=0
drop_frames=0
speed=5.12x
progress=continue
`)

	assert.Equal(t, int64(250), snap.Frame)
	assert.InDelta(t, 124.5, snap.FPS, 0.001)
	assert.Equal(t, "2033.7kbits/s", snap.Bitrate)
	assert.Equal(t, int64(2621440), snap.TotalSize)
	assert.Equal(t, int64(10312000), snap.OutTimeUs)
	assert.InDelta(t, 5.12, snap.Speed, 0.001)
	assert.False(t, snap.End)
}

func TestProgressParser_EndMarkerAndStickyValues(t *testing.T) {
	var pp progressParser
	feedBlock(t, &pp, `
frame=100
speed=4.20x
out_time_us=4000000
progress=continue
`)

	// ffmpeg reports N/A for speed and bitrate around stream edges; the
	// previous values must survive so the display does not flicker.
	snap := feedBlock(t, &pp, `
frame=220
speed=N/A
bitrate=N/A
out_time_us=9000000
progress=end
`)

	assert.True(t, snap.End)
	assert.Equal(t, int64(220), snap.Frame)
	assert.Equal(t, int64(9000000), snap.OutTimeUs)
	assert.InDelta(t, 4.2, snap.Speed, 0.001)
}

func TestProgressParser_OutTimeFallbackForms(t *testing.T) {
	// Only the HH:MM:SS form present.
	var pp progressParser
	snap := feedBlock(t, &pp, `
out_time=00:01:00.500000
progress=continue
`)
	assert.Equal(t, int64(60500000), snap.OutTimeUs)

	// Junk lines and unknown keys are ignored.
	var pp2 progressParser
	snap = feedBlock(t, &pp2, `
not a key value line
totally_unknown=42
out_time_ms=1250000
progress=continue
`)
	assert.Equal(t, int64(1250000), snap.OutTimeUs)
}

func TestParseOutTime(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"00:00:41.73", 41730000},
		{"01:02:03.456789", 3723456789},
		{"00:00:00.000000", 0},
		{"00:00:05", 5000000},
		{"10:00:00.000001", 36000000000001},
		{"N/A", -1},
		{"", -1},
		{"12:34", -1},
		{"garbage", -1},
		{"-01:00:00.000000", -1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseOutTime(tt.in))
		})
	}
}

func TestParseStatsLine(t *testing.T) {
	line := "frame=  512 fps=120.3 q=23.0 size=   10496KiB time=00:00:41.73 bitrate=2060.3kbits/s speed=4.05x"
	snap, ok := parseStatsLine(line)
	require.True(t, ok)
	assert.Equal(t, int64(41730000), snap.OutTimeUs)
	assert.InDelta(t, 120.3, snap.FPS, 0.001)
	assert.InDelta(t, 4.05, snap.Speed, 0.001)
}

func TestParseStatsLine_Rejects(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"plain log line", "Press [q] to stop, [?] for help"},
		{"error line", "[matroska,webm @ 0x55] Format detection failed"},
		{"stats without time", "frame=  100 fps= 30 q=-1.0 Lsize=    2048KiB"},
		{"stats before first frame", "frame=0 fps=0.0 q=0.0 size=0KiB time=N/A bitrate=N/A speed=N/A"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := parseStatsLine(tt.line)
			assert.False(t, ok)
		})
	}
}

func TestProgressPercent(t *testing.T) {
	assert.InDelta(t, 50.0, Progress{OutTimeUs: 30_000_000}.Percent(60), 0.001)
	assert.Equal(t, 0.0, Progress{OutTimeUs: 30_000_000}.Percent(0))
	assert.Equal(t, 0.0, Progress{}.Percent(60))
	// Output running past the container duration clamps at 100.
	assert.Equal(t, 100.0, Progress{OutTimeUs: 70_000_000}.Percent(60))
}

func TestProgressETA(t *testing.T) {
	eta, ok := Progress{OutTimeUs: 30_000_000, Speed: 2.0}.ETA(90)
	require.True(t, ok)
	assert.Equal(t, 30*time.Second, eta)

	_, ok = Progress{OutTimeUs: 30_000_000}.ETA(90)
	assert.False(t, ok, "no ETA without a speed sample")

	eta, ok = Progress{OutTimeUs: 95_000_000, Speed: 2.0}.ETA(90)
	require.True(t, ok)
	assert.Equal(t, time.Duration(0), eta, "past the end means nothing remains")
}

func TestScanCRLines(t *testing.T) {
	input := "Input #0, mov\nframe=1 time=00:00:01.00\rframe=2 time=00:00:02.00\rvideo:1024KiB\r\nmuxing overhead: 0.5%"

	sc := bufio.NewScanner(strings.NewReader(input))
	sc.Split(scanCRLines)

	var got []string
	for sc.Scan() {
		got = append(got, sc.Text())
	}
	require.NoError(t, sc.Err())

	want := []string{
		"Input #0, mov",
		"frame=1 time=00:00:01.00",
		"frame=2 time=00:00:02.00",
		"video:1024KiB",
		"muxing overhead: 0.5%",
	}
	assert.Equal(t, want, got)
}

func TestTailBufferKeepsTail(t *testing.T) {
	var tb tailBuffer
	for i := 0; i < tailLines+5; i++ {
		tb.add(fmt.Sprintf("line %d", i))
	}

	lines := strings.Split(tb.String(), "\n")
	require.Len(t, lines, tailLines)
	assert.Equal(t, "line 5", lines[0])
	assert.Equal(t, fmt.Sprintf("line %d", tailLines+4), lines[len(lines)-1])
}

func TestLastDiagnostic(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   string
	}{
		{
			name:   "last line wins",
			stderr: "Input #0, mov\nStream mapping:\nError opening encoder: device not found",
			want:   "Error opening encoder: device not found",
		},
		{
			name:   "trailing blanks and stats skipped",
			stderr: "Conversion failed!\nframe=  100 fps=0 time=00:00:01.00\n\n  \n",
			want:   "Conversion failed!",
		},
		{
			name:   "empty input",
			stderr: "",
			want:   "no diagnostic output",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LastDiagnostic(tt.stderr))
		})
	}
}

func TestLastDiagnostic_CapsLongLines(t *testing.T) {
	long := strings.Repeat("x", 300) + "the actual reason"
	got := LastDiagnostic("some earlier line\n" + long)
	assert.Len(t, got, maxDiagnosticLen)
	assert.True(t, strings.HasSuffix(got, "the actual reason"))
}

func TestProgressRenderer_ThrottlesToWholePercents(t *testing.T) {
	var buf bytes.Buffer
	r := newProgressRenderer(&buf, 100) // one second of media per percent

	r.update(Progress{OutTimeUs: 500_000}) // 0.5%
	first := buf.String()
	assert.NotEmpty(t, first)

	r.update(Progress{OutTimeUs: 900_000}) // +0.4%, below the redraw step
	assert.Equal(t, first, buf.String())

	r.update(Progress{OutTimeUs: 2_000_000, FPS: 110, Speed: 3.5})
	assert.Contains(t, buf.String(), "2.0%")
	assert.Contains(t, buf.String(), "110 fps")
	assert.Contains(t, buf.String(), "3.5x")

	// The end snapshot always redraws, even sub-percent.
	r.update(Progress{OutTimeUs: 2_100_000, End: true})
	assert.Contains(t, buf.String(), "2.1%")

	r.finish()
	assert.True(t, strings.HasSuffix(buf.String(), "\r"))
}

func TestProgressRenderer_FinishWithoutDrawWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	r := newProgressRenderer(&buf, 100)
	r.finish()
	assert.Zero(t, buf.Len())
}
