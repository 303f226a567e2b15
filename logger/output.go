package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - User-facing output only: results, diagnostics, final status
//	1 (-v)      - + Progress, startup info, per-file generation summaries
//	2 (-vv)     - + Directive expansion details, timing, config loaded
//	3 (-vvv)    - + Slot resolution, package loading, internal flow
//	4 (-vvvv)   - + Full generated-file contents and payload dumps

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults    OutputCategory = iota // Generated file paths, command output
	OutputErrors                           // Diagnostics with positions and hints
	OutputUserStatus                       // Final success/failure status

	// Level 1 (-v) - Informational
	OutputProgress // Per-directory progress
	OutputStartup  // Config summary, watched directories
	OutputFiles    // Generated file write/skip summaries

	// Level 2 (-vv) - Detailed
	OutputDirectives // Directive scanning and expansion details
	OutputTiming     // Generation timing
	OutputConfig     // Config values loaded/applied

	// Level 3 (-vvv) - Debug
	OutputResolution // Slot resolution and package loading
	OutputInternalOp // Internal operation flow

	// Level 4 (-vvvv) - Full dump
	OutputDataDump // Full generated contents and payloads
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:    VerbosityUser,
	OutputErrors:     VerbosityUser,
	OutputUserStatus: VerbosityUser,

	OutputProgress: VerbosityInfo,
	OutputStartup:  VerbosityInfo,
	OutputFiles:    VerbosityInfo,

	OutputDirectives: VerbosityDebug,
	OutputTiming:     VerbosityDebug,
	OutputConfig:     VerbosityDebug,

	OutputResolution: VerbosityTrace,
	OutputInternalOp: VerbosityTrace,

	OutputDataDump: VerbosityAll,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityAll
	}
	return verbosity >= minLevel
}

// categoryNames provides human-readable names for output categories
var categoryNames = map[OutputCategory]string{
	OutputResults:    "results",
	OutputErrors:     "errors",
	OutputUserStatus: "status",
	OutputProgress:   "progress",
	OutputStartup:    "startup",
	OutputFiles:      "files",
	OutputDirectives: "directives",
	OutputTiming:     "timing",
	OutputConfig:     "config",
	OutputResolution: "resolution",
	OutputInternalOp: "internal",
	OutputDataDump:   "data-dump",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}

// EnabledCategories returns all output categories enabled at the given verbosity
func EnabledCategories(verbosity int) []OutputCategory {
	var enabled []OutputCategory
	for cat, minLevel := range categoryLevels {
		if verbosity >= minLevel {
			enabled = append(enabled, cat)
		}
	}
	return enabled
}

// VerbosityDescription returns a description of what's shown at each level
func VerbosityDescription(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "results and errors only"
	case VerbosityInfo:
		return "results, errors, progress, and status"
	case VerbosityDebug:
		return "above + directive details, timing, config"
	case VerbosityTrace:
		return "above + slot resolution and internal flow"
	case VerbosityAll:
		return "full output including generated contents"
	default:
		if verbosity > VerbosityAll {
			return "maximum verbosity"
		}
		return "unknown verbosity level"
	}
}
