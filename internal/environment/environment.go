// Package environment reads runtime environment configuration.
package environment

import (
	"os"
	"strings"
)

// LocalizedStringKitPathVariable names the fallback for --localized-string-kit-path.
const LocalizedStringKitPathVariable = "LOCALIZED_STRING_KIT_PATH"

// LocalizedStringKitPath returns the resource tree path from the environment.
// Blank values count as unset.
func LocalizedStringKitPath() (string, bool) {
	path, present := os.LookupEnv(LocalizedStringKitPathVariable)
	if !present || strings.TrimSpace(path) == "" {
		return "", false
	}

	return path, true
}

func AppVersion() string {
	return "REPL_VERSION"
}

func HelpURL() string {
	return "REPL_HELP_URL"
}
