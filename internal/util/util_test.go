package util

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type statusErr struct{ status int }

func (e statusErr) Error() string   { return "boom" }
func (e statusErr) ExitStatus() int { return e.status }

func TestGetExitStatus(t *testing.T) {
	st, ok := GetExitStatus(errors.Wrap(statusErr{status: 3}, "wrapped"))
	assert.True(t, ok)
	assert.Equal(t, 3, st)

	st, ok = GetExitStatus(errors.New("plain"))
	assert.False(t, ok)
	assert.Equal(t, 1, st)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "foo-bar", SanitizeName("foo bar"))
	assert.Equal(t, "foo-bar-baz", SanitizeName("  foo \t bar  baz "))
	assert.Equal(t, "foo", SanitizeName("foo"))
	assert.Equal(t, "", SanitizeName("   "))
}

func TestDatedName(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-01-foo", DatedName(now, "foo"))
}

func TestCloneName(t *testing.T) {
	cases := map[string]string{
		"https://github.com/user/repo.git": "repo",
		"https://github.com/user/repo":     "repo",
		"git@github.com:user/repo.git":     "repo",
		"git@host:repo":                    "repo",
		"https://host/x/y/deep.git/":       "deep",
	}
	for url, want := range cases {
		assert.Equal(t, want, CloneName(url), "url %s", url)
	}
}

func TestIsRepoURL(t *testing.T) {
	assert.True(t, IsRepoURL("https://github.com/u/r"))
	assert.True(t, IsRepoURL("http://host/r"))
	assert.True(t, IsRepoURL("git@host:u/r.git"))
	assert.False(t, IsRepoURL("clone"))
	assert.False(t, IsRepoURL("my-query"))
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "just now", FormatRelativeTime(now.Add(-10*time.Second)))
	assert.Equal(t, "5m ago", FormatRelativeTime(now.Add(-5*time.Minute)))
	assert.Equal(t, "3h ago", FormatRelativeTime(now.Add(-3*time.Hour)))
	assert.Equal(t, "2d ago", FormatRelativeTime(now.Add(-49*time.Hour)))
}
