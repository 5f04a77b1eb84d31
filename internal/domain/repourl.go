package domain

import (
	"strings"

	apperrors "github.com/naka-gawa/gitclawd/pkg/errors"
)

// InvalidURLMessage is shown when a repository URL cannot be used.
const InvalidURLMessage = "❌ Invalid URL. Use: `https://github.com/owner/repo`"

// RepositoryRef identifies the repository a request is about.
type RepositoryRef struct {
	Owner string
	Name  string
	URL   string
}

func (r RepositoryRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// ParseRepositoryURL extracts owner and repository name from a URL of the form
// https://github.com/<owner>/<repo>[?query]. The URL needs at least five
// slash-separated segments and a github.com host segment.
func ParseRepositoryURL(raw string) (RepositoryRef, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, "/")
	if len(parts) < 5 || !isGitHubHost(parts[2]) {
		return RepositoryRef{}, invalidURL(raw)
	}

	owner := parts[3]
	name, _, _ := strings.Cut(parts[4], "?")
	name, _, _ = strings.Cut(name, "#")
	name = strings.TrimSuffix(name, ".git")
	if owner == "" || name == "" {
		return RepositoryRef{}, invalidURL(raw)
	}

	return RepositoryRef{Owner: owner, Name: name, URL: raw}, nil
}

func isGitHubHost(host string) bool {
	host = strings.ToLower(host)
	return host == "github.com" || host == "www.github.com"
}

func invalidURL(raw string) error {
	return apperrors.New(
		apperrors.RefInvalidURL,
		InvalidURLMessage,
		"could not parse repository URL "+raw,
		nil,
		apperrors.LevelInfo,
	)
}
