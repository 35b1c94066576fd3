package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into encoding, behavior, display, and utility.
// Negated flags (e.g. --no-progress) are applied after Parse so Config defaults hold unless set.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and exits.
// On error it returns non-nil (e.g. unknown flag, too many positional args).
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("mp4conv", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	// Negated/override flags: we capture bools then apply to cfg after Parse,
	// so that defaults from DefaultConfig() hold unless the user passes the flag.
	var negated negatedFlags

	defineEncodingFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg, &negated)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, cfg, &negated)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if negated.showVersion {
		fmt.Fprintln(os.Stdout, "mp4conv v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either invert a default (e.g. noProgress -> ShowProgress=false) or trigger exit (showHelp, showVersion).
type negatedFlags struct {
	noProgress  bool
	noStats     bool
	force       bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineEncodingFlags registers -m/--mode and -q/--quality.
func defineEncodingFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&encoderModeValue{&cfg.Mode}, "mode", "Encoder: auto | nvidia | amd | intel | cpu")
	fs.Var(&encoderModeValue{&cfg.Mode}, "m", "Same as --mode")
	fs.IntVar(&cfg.Quality, "quality", cfg.Quality, "Quality value (CQ/QP/CRF) for the chosen encoder")
	fs.IntVar(&cfg.Quality, "q", cfg.Quality, "Same as --quality")
}

// defineBehaviorFlags registers force, dry-run, jobs.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.force, "force", false, "Overwrite existing output files")
	fs.BoolVar(&n.force, "f", false, "Same as --force")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not convert")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.IntVar(&cfg.Jobs, "jobs", cfg.Jobs, "Convert up to n files in parallel")
	fs.IntVar(&cfg.Jobs, "j", cfg.Jobs, "Same as --jobs")
}

// defineDisplayFlags registers progress/stats toggles, color modes, verbose.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.noProgress, "no-progress", false, "Disable the live progress line")
	fs.BoolVar(&n.noStats, "no-stats", false, "Hide per-file source stats")
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
}

// defineUtilityFlags registers analyze, check, log, version, help.
func defineUtilityFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&cfg.AnalyzeOnly, "analyze", false, "Probe inputs and print the conversion plan")
	fs.BoolVar(&cfg.AnalyzeOnly, "a", false, "Same as --analyze")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated and override flag values into cfg (e.g. noProgress -> ShowProgress=false).
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noProgress {
		cfg.ShowProgress = false
	}
	if n.noStats {
		cfg.ShowFileStats = false
	}
	if n.force {
		cfg.SkipExisting = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets InputDir and OutputDir from the optional positional
// args when not in CheckOnly mode, then fills in path defaults. Positional
// args win over MP4CONV_* env values already present in cfg.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	switch len(args) {
	case 0:
		// Keep env-provided paths, else defaults apply below.
	case 1:
		cfg.InputDir = NormalizeDirArg(args[0])
		cfg.OutputDir = ""
	case 2:
		cfg.InputDir = NormalizeDirArg(args[0])
		cfg.OutputDir = NormalizeDirArg(args[1])
	default:
		return fmt.Errorf("expected at most [input_dir] [output_dir], got %d args", len(args))
	}
	cfg.ApplyPathDefaults()
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 28 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "mp4conv v" + version + " - batch MP4 to 1080p converter"},
		{"", ""},
		{"  mp4conv [OPTIONS] [input_dir] [output_dir]", ""},
		{"", ""},
		{"  Converts every .mp4 in input_dir to 1920x1080 (aspect preserved,", ""},
		{"  black padding) using the best available H.264 encoder.", ""},
		{"  Defaults: input_dir is the current directory, output_dir is", ""},
		{"  input_dir/converted. Existing outputs are skipped unless --force.", ""},
		{"", ""},
		{"Encoding", ""},
		{"  -m, --mode <name>", "Encoder: auto | nvidia | amd | intel | cpu (default: auto)"},
		{"  -q, --quality <0-51>", "Quality (CQ/QP/CRF) for the chosen encoder (default: 23)"},
		{"", ""},
		{"Behavior", ""},
		{"  -f, --force", "Overwrite existing output files"},
		{"  -d, --dry-run", "Preview only; do not convert"},
		{"  -j, --jobs <n>", "Convert up to n files in parallel (default: 1)"},
		{"", ""},
		{"Display", ""},
		{"  --no-progress", "Disable the live progress line"},
		{"  --no-stats", "Hide per-file source stats"},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output (full ffmpeg commands)"},
		{"", ""},
		{"Utility", ""},
		{"  -a, --analyze", "Probe inputs and print the conversion plan"},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (ffmpeg, ffprobe, encoders)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapter so the EncoderMode enum works with flag.Var.

type encoderModeValue struct{ p *EncoderMode }

func (e *encoderModeValue) String() string { return string(*e.p) }
func (e *encoderModeValue) Set(s string) error {
	m, err := parseEncoderMode(s)
	if err != nil {
		return err
	}
	*e.p = m
	return nil
}

// parseEncoderMode converts a user-supplied string into an EncoderMode.
// Shared by the flag adapter and the MP4CONV_MODE env override.
func parseEncoderMode(s string) (EncoderMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		return ModeAuto, nil
	case "nvidia", "nvenc":
		return ModeNvidia, nil
	case "amd", "amf":
		return ModeAMD, nil
	case "intel", "qsv":
		return ModeIntel, nil
	case "cpu", "software":
		return ModeCPU, nil
	default:
		return "", fmt.Errorf("invalid mode %q (use 'auto', 'nvidia', 'amd', 'intel' or 'cpu')", s)
	}
}
