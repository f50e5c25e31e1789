package defaults

// Exit codes for the CLI.
const (
	ExitSuccess       = 0   // Report written
	ExitInputError    = 1   // Input could not be parsed or the scan failed
	ExitUserError     = 2   // Invalid arguments or configuration
	ExitToolMissing   = 3   // Scanner executable not on PATH
	ExitInternalError = 4   // Unexpected internal error
	ExitInterrupted   = 130 // Second interrupt during shutdown
)
