package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - User-facing output only: rendered text, errors with hints
//	1 (-v)      - + Progress, startup info, which config files were merged
//	2 (-vv)     - + Timing, effective config values, HTTP requests
//	3 (-vvv)    - + Per-rule render trace, WebSocket messages
//	4 (-vvvv)   - + Full request/response bodies, data structure dumps

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults    OutputCategory = iota // Rendered text, command output
	OutputErrors                           // Errors with hints and resolution steps
	OutputUserStatus                       // Final success/failure status

	// Level 1 (-v) - Informational
	OutputProgress     // Watch re-renders, export progress
	OutputStartup      // Startup banners, listen address
	OutputConfigSource // Which am.toml files were merged

	// Level 2 (-vv) - Detailed
	OutputTiming    // Operation timing (e.g., "render took 42µs")
	OutputConfig    // Config values loaded/applied
	OutputHTTPCalls // HTTP requests served

	// Level 3 (-vvv) - Debug
	OutputRenderTrace // Every rule that changed the notation
	OutputWebSocket   // WebSocket messages in and out

	// Level 4 (-vvvv) - Full dump
	OutputRequestBody  // Full HTTP/WebSocket request bodies
	OutputResponseBody // Full HTTP/WebSocket response bodies
	OutputDataDump     // Full data structure contents
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:    VerbosityUser,
	OutputErrors:     VerbosityUser,
	OutputUserStatus: VerbosityUser,

	OutputProgress:     VerbosityInfo,
	OutputStartup:      VerbosityInfo,
	OutputConfigSource: VerbosityInfo,

	OutputTiming:    VerbosityDebug,
	OutputConfig:    VerbosityDebug,
	OutputHTTPCalls: VerbosityDebug,

	OutputRenderTrace: VerbosityTrace,
	OutputWebSocket:   VerbosityTrace,

	OutputRequestBody:  VerbosityAll,
	OutputResponseBody: VerbosityAll,
	OutputDataDump:     VerbosityAll,
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
	OutputResults:      "results",
	OutputErrors:       "errors",
	OutputUserStatus:   "status",
	OutputProgress:     "progress",
	OutputStartup:      "startup",
	OutputConfigSource: "config-source",
	OutputTiming:       "timing",
	OutputConfig:       "config",
	OutputHTTPCalls:    "http",
	OutputRenderTrace:  "render-trace",
	OutputWebSocket:    "websocket",
	OutputRequestBody:  "request-body",
	OutputResponseBody: "response-body",
	OutputDataDump:     "data-dump",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}

// VerbosityDescription returns a description of what's shown at each level
func VerbosityDescription(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "results and errors only"
	case VerbosityInfo:
		return "results, errors, progress, and status"
	case VerbosityDebug:
		return "above + timing, config details, HTTP requests"
	case VerbosityTrace:
		return "above + render trace, WebSocket messages"
	case VerbosityAll:
		return "full output including request/response bodies"
	default:
		if verbosity > VerbosityAll {
			return "maximum verbosity"
		}
		return "unknown verbosity level"
	}
}
