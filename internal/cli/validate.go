package cli

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/wagiedev/claude-cli-env/internal/errors"
)

// ValidatePath checks that path is safe to execute as the CLI. It returns nil
// or a *errors.ValidationError naming the first rule that failed.
func ValidatePath(path string) error {
	return validatePath(path, runtime.GOOS, os.Stat)
}

func validatePath(path string, goos string, stat func(string) (os.FileInfo, error)) error {
	if !filepath.IsAbs(path) {
		return &errors.ValidationError{
			Path:   path,
			Rule:   errors.RuleNotAbsolute,
			Reason: fmt.Sprintf("CLI path must be absolute: %q", path),
		}
	}

	if clean := filepath.Clean(path); clean != path {
		return &errors.ValidationError{
			Path:   path,
			Rule:   errors.RuleNotNormalized,
			Reason: fmt.Sprintf("CLI path is not in canonical form (expected %q)", clean),
		}
	}

	if err := validateSegments(path); err != nil {
		return err
	}

	info, err := stat(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return &errors.ValidationError{
				Path:   path,
				Rule:   errors.RuleNotExist,
				Reason: "CLI path does not exist: " + path,
				Err:    err,
			}
		}

		return &errors.ValidationError{
			Path:   path,
			Rule:   errors.RuleAccess,
			Reason: fmt.Sprintf("cannot access CLI path: %v", err),
			Err:    err,
		}
	}

	if info.IsDir() {
		return &errors.ValidationError{
			Path:   path,
			Rule:   errors.RuleDirectory,
			Reason: "CLI path is a directory, not an executable file: " + path,
		}
	}

	if !info.Mode().IsRegular() {
		return &errors.ValidationError{
			Path:   path,
			Rule:   errors.RuleNotRegular,
			Reason: "CLI path is not a regular file: " + path,
		}
	}

	// Windows has no owner execute bit; the version probe is the executability test there.
	if goos != "windows" && info.Mode().Perm()&0o100 == 0 {
		return &errors.ValidationError{
			Path:   path,
			Rule:   errors.RuleNotExecutable,
			Reason: "CLI path is not executable (owner execute permission is not set): " + path,
		}
	}

	return nil
}

// validateSegments rejects "." and ".." path segments.
func validateSegments(path string) error {
	for _, segment := range strings.FieldsFunc(path, isSeparator) {
		if segment == "." || segment == ".." {
			return &errors.ValidationError{
				Path:   path,
				Rule:   errors.RuleTraversal,
				Reason: "CLI path must not contain '.' or '..' segments",
			}
		}
	}

	return nil
}

// IsPermissionFailure reports whether a validation error is about access
// rights rather than the shape or type of the path.
func IsPermissionFailure(err error) bool {
	verr, ok := stderrors.AsType[*errors.ValidationError](err)
	if !ok {
		return false
	}

	switch verr.Rule {
	case errors.RuleNotExecutable:
		return true
	case errors.RuleAccess:
		return stderrors.Is(verr.Err, fs.ErrPermission)
	default:
		return false
	}
}

func isSeparator(r rune) bool {
	return r == '/' || r == filepath.Separator
}
