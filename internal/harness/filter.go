package harness

import (
	"fmt"
	"regexp"
)

// Filter decides whether to run a specific scenario.
type Filter func(ScenarioID) bool

// NewRegexFilter builds a Filter from run/skip patterns. Empty patterns match
// everything / exclude nothing.
func NewRegexFilter(runPattern, skipPattern string) (Filter, error) {
	var runRx, skipRx *regexp.Regexp
	var err error

	if runPattern != "" {
		runRx, err = regexp.Compile(runPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid -run regex: %w", err)
		}
	}
	if skipPattern != "" {
		skipRx, err = regexp.Compile(skipPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid -skip regex: %w", err)
		}
	}

	return func(id ScenarioID) bool {
		name := id.String()
		if runRx != nil && !runRx.MatchString(name) {
			return false
		}
		if skipRx != nil && skipRx.MatchString(name) {
			return false
		}
		return true
	}, nil
}
