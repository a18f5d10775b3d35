package util

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultTriesPath returns $HOME/src/tries.
func DefaultTriesPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "could not determine home directory")
	}
	return filepath.Join(home, "src", "tries"), nil
}

// ExpandTilde resolves a leading ~/ against the user's home directory.
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// SanitizeName replaces whitespace runs with single dashes so a filter
// string becomes a usable directory name.
func SanitizeName(s string) string {
	return strings.Join(strings.Fields(s), "-")
}

// DatedName prefixes name with now's YYYY-MM-DD- date.
func DatedName(now time.Time, name string) string {
	return now.Format("2006-01-02") + "-" + name
}

// CloneName derives a directory label from a git URL: the basename minus
// any .git suffix. "git@host:user/repo.git" and "https://host/user/repo"
// both yield "repo".
func CloneName(url string) string {
	s := strings.TrimSuffix(url, "/")
	s = strings.TrimSuffix(s, ".git")
	if i := strings.LastIndexAny(s, "/:"); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// IsRepoURL reports whether arg looks like a cloneable repository URL.
func IsRepoURL(arg string) bool {
	return strings.HasPrefix(arg, "https://") ||
		strings.HasPrefix(arg, "http://") ||
		strings.HasPrefix(arg, "git@")
}

// FormatRelativeTime renders mtime as a coarse "Nh ago" style string.
func FormatRelativeTime(mtime time.Time) string {
	diff := time.Since(mtime)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return itoa(int(diff/time.Minute)) + "m ago"
	case diff < 24*time.Hour:
		return itoa(int(diff/time.Hour)) + "h ago"
	default:
		return itoa(int(diff/(24*time.Hour))) + "d ago"
	}
}

func itoa(n int) string {
	if n <= 0 {
		return "0"
	}
	var b [20]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	return string(b[i:])
}
