package platform

// BinaryName is the base name of the Claude CLI executable.
const BinaryName = "claude"

// ExecutableNames returns the candidate file names for the CLI in preference order.
func ExecutableNames(goos string) []string {
	if goos == Windows {
		return []string{
			BinaryName + ".exe",
			BinaryName + ".cmd",
			BinaryName + ".bat",
			BinaryName,
		}
	}

	return []string{BinaryName}
}

// LookupTool returns the native program that locates a command in PATH.
func LookupTool(goos string) string {
	if goos == Windows {
		return "where"
	}

	return "which"
}

// ShellCandidates returns login shells to try when SHELL is unset or missing.
func ShellCandidates(goos string) []string {
	if goos == Darwin {
		return []string{"/bin/zsh", "/bin/bash", "/bin/sh"}
	}

	return []string{"/bin/bash", "/bin/sh", "/bin/zsh"}
}

// SpawnsLoginShell reports whether the environment is derived from a login
// shell on goos. Windows has no reliable non-interactive login semantics.
func SpawnsLoginShell(goos string) bool {
	return goos != Windows
}
