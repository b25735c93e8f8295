package registry

import (
	"regexp"
	"strings"
)

var githubRepoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^https?://(?:www\.)?github\.com/([^/]+)/([^/#?]+?)(?:\.git)?(?:[/?#].*)?$`),
	regexp.MustCompile(`(?i)^git@github\.com:([^/]+)/([^/#?]+?)(?:\.git)?$`),
	regexp.MustCompile(`(?i)^ssh://git@github\.com/([^/]+)/([^/#?]+?)(?:\.git)?(?:[/?#].*)?$`),
	regexp.MustCompile(`(?i)^git://github\.com/([^/]+)/([^/#?]+?)(?:\.git)?(?:[/?#].*)?$`),
	regexp.MustCompile(`^([^/\s:]+)/([^/\s]+)$`),
}

// ParseGitHubRepo extracts the owner and repository name from the many
// shapes a repository URL takes in package manifests: "github:owner/repo",
// "git+https://github.com/owner/repo.git", "git@github.com:owner/repo.git",
// "ssh://git@github.com/owner/repo" and the bare "owner/repo" shorthand.
func ParseGitHubRepo(raw string) (owner, repo string, ok bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "github:")
	s = strings.TrimPrefix(s, "git+")
	if s == "" {
		return "", "", false
	}

	for _, re := range githubRepoPatterns {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		owner, repo = m[1], strings.TrimSuffix(m[2], ".git")
		if owner == "" || repo == "" {
			return "", "", false
		}
		return owner, repo, true
	}
	return "", "", false
}
