// Package tries models the flat directory of dated, throwaway project
// folders and provides the snapshot scan the picker works from.
package tries

import (
	"time"

	"github.com/try-sh/try/filter"
)

// Entry is one directory under the tries root.
//
// Name never contains a path separator and never begins with a dot;
// Path is always root joined with Name.
type Entry struct {
	Name  string
	Path  string
	Mtime time.Time

	// Score is the current fuzzy score against the picker's filter.
	// It is rewritten on every filter change.
	Score float64
}

// Rescore recomputes the entry's score against query.
func (e *Entry) Rescore(query string) {
	e.Score = filter.Score(e.Name, query, e.Mtime)
}

// HasDatePrefix reports whether the entry carries the YYYY-MM-DD- prefix.
func (e *Entry) HasDatePrefix() bool {
	return filter.HasDatePrefix(e.Name)
}

// entryLess orders entries by name for the scan btree.
func entryLess(a, b *Entry) bool {
	return a.Name < b.Name
}
