package config

import "strings"

// NormalizePlatform maps common platform spellings to GOOS values.
//
// Mappings:
//   - "macos", "mac", "osx" -> "darwin"
//   - "win32", "win" -> "windows"
func NormalizePlatform(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	switch name {
	case "macos", "mac", "osx":
		return "darwin"
	case "win32", "win":
		return "windows"
	default:
		return name
	}
}
