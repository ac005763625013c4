package adapter

import (
	"strings"

	"github.com/mattn/go-zglob"
)

// MatchGlob matches a project relative slash path against a zglob pattern.
// A leading **/ also matches files at the top level.
func MatchGlob(pattern, path string) (bool, error) {
	matched, err := zglob.Match(pattern, path)
	if err != nil || matched {
		return matched, err
	}

	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		return zglob.Match(rest, path)
	}

	return false, nil
}
