package clipboard

import (
	"fmt"
	"regexp"
)

var copySuffix = regexp.MustCompile(` \(copy(?: \d+)?\)$`)

// BaseName strips trailing " (copy)" or " (copy N)" suffixes.
func BaseName(name string) string {
	for copySuffix.MatchString(name) {
		name = copySuffix.ReplaceAllString(name, "")
	}
	return name
}

// UniqueName returns the first of "base (copy)", "base (copy 2)", "base (copy 3)", ...
// that is not in taken, where base is name without any copy suffix.
func UniqueName(name string, taken map[string]bool) string {
	base := BaseName(name)
	candidate := base + " (copy)"
	for i := 2; taken[candidate]; i++ {
		candidate = fmt.Sprintf("%s (copy %d)", base, i)
	}
	return candidate
}
