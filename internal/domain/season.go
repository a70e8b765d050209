package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Season is the starting year of a campaign, e.g. 2025 for 2025-26.
type Season int

// ParseSeason accepts either the bare year ("2025") or the FBRef span form
// ("2025-2026").
func ParseSeason(s string) (Season, error) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "-"); i > 0 {
		s = s[:i]
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid season %q: %w", s, err)
	}
	return Season(year), nil
}

// FBRef renders the season the way FBRef URLs expect: "2025-2026".
func (s Season) FBRef() string {
	return fmt.Sprintf("%d-%d", int(s), int(s)+1)
}

// Understat renders the season the way Understat URLs expect: "2025".
func (s Season) Understat() string {
	return strconv.Itoa(int(s))
}

func (s Season) String() string {
	return s.FBRef()
}
