package shellenv

import (
	"strings"

	"github.com/wagiedev/claude-cli-env/internal/process"
)

// DefaultSensitiveKeys are stripped from every derived environment. They carry
// API credentials or switch the CLI to a cloud provider, and must come from the
// CLI's own configuration rather than leak in from a shell profile.
var DefaultSensitiveKeys = []string{
	"ANTHROPIC_API_KEY",
	"ANTHROPIC_AUTH_TOKEN",
	"CLAUDE_CODE_OAUTH_TOKEN",
	"CLAUDE_CODE_USE_BEDROCK",
	"CLAUDE_CODE_USE_VERTEX",
	"CLAUDE_CODE_USE_FOUNDRY",
}

// stripSensitive deletes keys from env in place, ignoring case.
func stripSensitive(env process.Env, keys []string) {
	for name := range env {
		for _, key := range keys {
			if strings.EqualFold(name, key) {
				delete(env, name)

				break
			}
		}
	}
}
