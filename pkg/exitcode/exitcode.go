// Package exitcode provides standardized exit codes for stylelint-provision
package exitcode

// Exit codes for the stylelint-provision CLI
const (
	Success         = 0
	GeneralError    = 1
	ConfigError     = 2
	ValidationError = 3
	FileSystemError = 4
	ManifestError   = 5
	PromptError     = 6
	HookError       = 7
	DirtyWorktree   = 8
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case ValidationError:
		return "Validation error"
	case FileSystemError:
		return "File system error"
	case ManifestError:
		return "Malformed manifest"
	case PromptError:
		return "Prompt error"
	case HookError:
		return "Post-provision command failed"
	case DirtyWorktree:
		return "Worktree has uncommitted changes"
	default:
		return "Unknown error"
	}
}
