// Package scraper holds the parsing helpers shared by the site clients.
package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	scoreRegex    = regexp.MustCompile(`(\d+)\s*[-:–]\s*(\d+)`)
	teamNameRegex = regexp.MustCompile(`[^\p{L}\p{N}\s\-]`)
	urlRegex      = regexp.MustCompile(`(?i)^https?://(?:(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,6}\.?|localhost|\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})(?::\d+)?(?:/?|[/?]\S+)$`)
)

// ParseDate parses a date string in the given layout, returning the zero
// time when it does not parse.
func ParseDate(s, layout string) (time.Time, bool) {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CleanTeamName collapses whitespace and strips punctuation while keeping
// accented letters and hyphens.
func CleanTeamName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	name = teamNameRegex.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// ParseScore splits a scoreline like "2-1" or "3:0" into home and away goals.
func ParseScore(s string) (home, away int, ok bool) {
	matches := scoreRegex.FindStringSubmatch(s)
	if len(matches) < 3 {
		return 0, 0, false
	}
	home, _ = strconv.Atoi(matches[1])
	away, _ = strconv.Atoi(matches[2])
	return home, away, true
}

// ValidateURL reports whether s looks like a proper http(s) URL.
func ValidateURL(s string) bool {
	return urlRegex.MatchString(s)
}
