package explorer

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KOFI-GYIMAH/github-tail/internal/models"
)

// NormalizeTerm trims and lower-cases a search term. Filter applies it itself,
// so callers may pass raw user input.
func NormalizeTerm(term string) string {
	return lower(strings.TrimSpace(term))
}

func lower(s string) string {
	if s == "" {
		return ""
	}
	// a Caser keeps state between calls, so one per call
	return cases.Lower(language.Und).String(s)
}

// Matches reports whether repo passes both predicates. term must already be
// normalized.
func Matches(repo models.Repository, term string, minStars int) bool {
	if repo.Stars() < minStars {
		return false
	}
	if term == "" {
		return true
	}
	return strings.Contains(lower(repo.DisplayName()), term) ||
		strings.Contains(lower(repo.DescriptionText()), term)
}

// Filter returns the records of collection that have at least minStars stars
// and whose name or description contains searchTerm, case-insensitively. The
// result is a new slice in collection order.
func Filter(collection []models.Repository, searchTerm string, minStars int) []models.Repository {
	term := NormalizeTerm(searchTerm)

	out := make([]models.Repository, 0, len(collection))
	for _, repo := range collection {
		if Matches(repo, term, minStars) {
			out = append(out, repo)
		}
	}
	return out
}

// ParseMinStars reads the leading integer of raw the way a browser parseInt
// does. Empty, non-numeric and negative input all yield 0.
func ParseMinStars(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	if s[0] == '+' || s[0] == '-' {
		if s[0] == '-' {
			return 0
		}
		s = s[1:]
	}
	if s == "" {
		return 0
	}

	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) || r > unicode.MaxASCII })
	if end == 0 {
		return 0
	}
	if end > 0 {
		s = s[:end]
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		// only overflow gets here
		return int(^uint(0) >> 1)
	}
	return n
}
