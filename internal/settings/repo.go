package settings

import (
	"regexp"
	"strings"
)

var (
	repoURLPattern  = regexp.MustCompile(`(?i)github\.com[/]([^/]+[/][^/?#]+?)(?:\.git)?(?:[/?#].*)?$`)
	repoSlugPattern = regexp.MustCompile(`^[\w.-]+/[\w.-]+$`)
)

// ParseRepo extracts an "owner/repo" slug from user input, accepting either
// the bare slug or a full GitHub URL. Returns "" when the input does not
// name a repository.
func ParseRepo(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	if strings.Contains(strings.ToLower(trimmed), "github.com") {
		if m := repoURLPattern.FindStringSubmatch(trimmed); m != nil {
			return m[1]
		}
		return ""
	}
	if repoSlugPattern.MatchString(trimmed) {
		return trimmed
	}
	return ""
}
