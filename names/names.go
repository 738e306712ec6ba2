package names

import (
	"fmt"
	"regexp"
	"strings"

	"shakeup-scraper/models"
)

// DefaultPattern captures the competition name between c/ and /leaderboard
const DefaultPattern = `(?:^|/)c/([^/?#]+)/leaderboard`

// Resolver extracts competition names from leaderboard URLs.
// The pattern is compiled once and never changes afterwards.
type Resolver struct {
	re *regexp.Regexp
}

// NewResolver compiles pattern, which must contain exactly one capture group
func NewResolver(pattern string) (*Resolver, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to compile name pattern: %w", err)
	}
	if re.NumSubexp() != 1 {
		return nil, fmt.Errorf("name pattern must have exactly one capture group, got %d", re.NumSubexp())
	}
	return &Resolver{re: re}, nil
}

// Resolve returns the competition name embedded in url
func (r *Resolver) Resolve(url string) (string, error) {
	m := r.re.FindStringSubmatch(url)
	if len(m) < 2 || m[1] == "" {
		return "", models.NewNameFormatError(url)
	}
	return m[1], nil
}

// PageURLs returns the private and public leaderboard URLs under root
func PageURLs(root string) (private, public string) {
	root = strings.TrimRight(strings.TrimSpace(root), "/")
	return root + "/private", root + "/public"
}
