package search

import (
	"regexp"
	"strings"
)

// Matcher reports whether a single line matches the search pattern.
type Matcher func(line string) bool

// buildMatcher compiles the pattern into a line predicate. In literal mode
// the predicate is case-sensitive substring containment. In regex mode the
// pattern is compiled once up front; a compile failure is returned as a
// PatternError so the caller can reject the request before dispatching work.
func buildMatcher(pattern string, regex bool) (Matcher, error) {
	if !regex {
		return func(line string) bool {
			return strings.Contains(line, pattern)
		}, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, NewPatternError(pattern, err)
	}

	return re.MatchString, nil
}
