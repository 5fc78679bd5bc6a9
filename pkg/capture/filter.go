package capture

import "strings"

// Apps that are never captured. Credential managers and banking apps are
// excluded at the ingest boundary so their content never enters the queue.
var excludedApps = []string{
	"keychain",
	"keychain access",
	"password manager",
	"1password",
	"lastpass",
	"dashlane",
	"bitwarden",
	"keepass",
	"banking",
}

// ShouldCapture reports whether an event from the given app may enter the
// pipeline.
func ShouldCapture(appName string) bool {
	name := strings.ToLower(strings.TrimSpace(appName))
	for _, excluded := range excludedApps {
		if strings.Contains(name, excluded) {
			return false
		}
	}
	return true
}
