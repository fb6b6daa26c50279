package shellenv

import (
	"strings"

	"github.com/wagiedev/claude-cli-env/internal/process"
)

// ParseEnv parses the line-oriented KEY=VALUE output of an environment dump.
// Lines are split at the first '='; lines without a key are ignored.
func ParseEnv(output string) process.Env {
	env := make(process.Env, 64)

	for line := range strings.SplitSeq(output, "\n") {
		if key, value, ok := process.ParseLine(strings.TrimSuffix(line, "\r")); ok {
			env[key] = value
		}
	}

	return env
}
