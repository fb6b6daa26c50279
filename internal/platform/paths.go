package platform

import (
	"path"
	"strings"
)

// GOOS values with special handling.
const (
	Windows = "windows"
	Darwin  = "darwin"
)

// PathInputs are the process variables BuildPath reads.
type PathInputs struct {
	Path            string
	Home            string
	SystemRoot      string
	ProgramFiles    string
	ProgramFilesX86 string
	AppData         string
	LocalAppData    string
}

// InputsFromEnv collects PathInputs through getenv, typically os.Getenv or a
// lookup on an already captured environment.
func InputsFromEnv(getenv func(string) string) PathInputs {
	home := getenv("HOME")
	if home == "" {
		home = getenv("USERPROFILE")
	}

	return PathInputs{
		Path:            getenv("PATH"),
		Home:            home,
		SystemRoot:      getenv("SystemRoot"),
		ProgramFiles:    getenv("ProgramFiles"),
		ProgramFilesX86: getenv("ProgramFiles(x86)"),
		AppData:         getenv("APPDATA"),
		LocalAppData:    getenv("LOCALAPPDATA"),
	}
}

// ListSeparator returns the PATH list separator for goos.
func ListSeparator(goos string) string {
	if goos == Windows {
		return ";"
	}

	return ":"
}

// BuildPath returns a PATH value made of the existing entries followed by the
// well-known install directories for goos. Empty entries are dropped and
// duplicates are skipped using a case-insensitive comparison of the normalized
// directory. Directories are listed whether or not they exist.
func BuildPath(in PathInputs, goos string) string {
	sep := ListSeparator(goos)
	seen := make(map[string]struct{}, 16)
	dirs := make([]string, 0, 16)

	add := func(dir string) {
		if strings.TrimSpace(dir) == "" {
			return
		}

		key := strings.ToLower(normalizeDir(dir, goos))
		if _, dup := seen[key]; dup {
			return
		}

		seen[key] = struct{}{}
		dirs = append(dirs, dir)
	}

	for dir := range strings.SplitSeq(in.Path, sep) {
		add(dir)
	}

	for _, dir := range candidateDirs(in, goos) {
		add(normalizeDir(dir, goos))
	}

	return strings.Join(dirs, sep)
}

// candidateDirs lists speculative install locations. Entries whose base
// variable is unset are omitted.
func candidateDirs(in PathInputs, goos string) []string {
	var dirs []string

	if goos == Windows {
		if in.Home != "" {
			dirs = append(dirs, winJoin(in.Home, ".local", "bin"))
		}

		if in.AppData != "" {
			dirs = append(dirs, winJoin(in.AppData, "npm"))
		}

		if in.LocalAppData != "" {
			dirs = append(dirs, winJoin(in.LocalAppData, "Programs", "claude"))
		}

		if in.ProgramFiles != "" {
			dirs = append(dirs, winJoin(in.ProgramFiles, "nodejs"))
		}

		if in.ProgramFilesX86 != "" {
			dirs = append(dirs, winJoin(in.ProgramFilesX86, "nodejs"))
		}

		root := in.SystemRoot
		if root == "" {
			root = `C:\Windows`
		}

		return append(dirs,
			winJoin(root, "System32"),
			root,
			winJoin(root, "System32", "Wbem"),
		)
	}

	if in.Home != "" {
		dirs = append(dirs,
			path.Join(in.Home, ".local", "bin"),
			path.Join(in.Home, ".claude", "local"),
			path.Join(in.Home, ".npm-global", "bin"),
		)
	}

	if goos == Darwin {
		dirs = append(dirs, "/opt/homebrew/bin")
	}

	return append(dirs, "/usr/local/bin", "/usr/bin", "/bin")
}

// normalizeDir cleans dir using the separator conventions of goos rather than
// those of the host.
func normalizeDir(dir string, goos string) string {
	dir = strings.TrimSpace(dir)

	if goos != Windows {
		return path.Clean(dir)
	}

	dir = strings.ReplaceAll(dir, "/", `\`)

	unc := strings.HasPrefix(dir, `\\`)
	for strings.Contains(dir, `\\`) {
		dir = strings.ReplaceAll(dir, `\\`, `\`)
	}

	if unc {
		dir = `\` + dir
	}

	// Keep the separator of a drive root such as C:\.
	if len(dir) > 3 || (len(dir) == 3 && dir[1] != ':') {
		dir = strings.TrimRight(dir, `\`)
	}

	return dir
}

func winJoin(base string, elem ...string) string {
	return strings.TrimRight(base, `\/`) + `\` + strings.Join(elem, `\`)
}
