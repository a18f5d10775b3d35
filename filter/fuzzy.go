// Package filter scores try-directory names against a query and marks up
// the matched characters for display.
package filter

import (
	"math"
	"strings"
	"time"
)

// datePrefixLen is the length of the "YYYY-MM-DD-" prefix dated tries carry.
const datePrefixLen = 11

// HasDatePrefix reports whether name starts with a YYYY-MM-DD- prefix.
func HasDatePrefix(name string) bool {
	if len(name) < datePrefixLen {
		return false
	}
	for i := 0; i < 10; i++ {
		switch i {
		case 4, 7:
			if name[i] != '-' {
				return false
			}
		default:
			if name[i] < '0' || name[i] > '9' {
				return false
			}
		}
	}
	return name[10] == '-'
}

func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Score computes the fuzzy match score of name against query, folding in
// the recency of mtime. A zero score means "no match; hide unless the
// query is empty". The query must match as a case-insensitive subsequence;
// each matched byte earns a base point, a word-boundary bonus, and a
// proximity bonus of 1/sqrt(gap+1). Dense matches in short names win via
// the density and length factors.
func Score(name, query string, mtime time.Time) float64 {
	var score float64

	if HasDatePrefix(name) {
		score += 2.0
	}

	if query != "" {
		queryIdx := 0
		lastPos := -1

		for pos := 0; pos < len(name) && queryIdx < len(query); pos++ {
			if lowerByte(name[pos]) != lowerByte(query[queryIdx]) {
				continue
			}
			score += 1.0
			if pos == 0 || !isAlnum(name[pos-1]) {
				score += 1.0
			}
			if lastPos >= 0 {
				gap := pos - lastPos - 1
				score += 1.0 / math.Sqrt(float64(gap+1))
			}
			lastPos = pos
			queryIdx++
		}

		if queryIdx < len(query) {
			return 0
		}

		if lastPos >= 0 {
			score *= float64(len(query)) / float64(lastPos+1)
		}
		score *= 10.0 / float64(len(name)+10)
	}

	switch age := time.Since(mtime); {
	case age < time.Hour:
		score += 0.5
	case age < 24*time.Hour:
		score += 0.3
	case age < 7*24*time.Hour:
		score += 0.1
	}

	return score
}

// Highlight returns name with every query-matched byte wrapped in
// {highlight}…{text} markup. The original byte keeps its case; unmatched
// bytes pass through untouched.
func Highlight(name, query string) string {
	if query == "" {
		return name
	}

	var sb strings.Builder
	sb.Grow(len(name) + len(query)*len("{highlight}{text}"))

	queryIdx := 0
	for i := 0; i < len(name); i++ {
		if queryIdx < len(query) && lowerByte(name[i]) == lowerByte(query[queryIdx]) {
			sb.WriteString("{highlight}")
			sb.WriteByte(name[i])
			sb.WriteString("{text}")
			queryIdx++
		} else {
			sb.WriteByte(name[i])
		}
	}
	return sb.String()
}
