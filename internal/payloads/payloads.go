// Package payloads is the central registry of named invalid request bodies
// for negative testing. Each template violates exactly one validation rule of
// a user-account endpoint, so "missing field", "wrong type", "oversized", and
// "injection attempt" scenarios are defined once and reused everywhere.
package payloads

import (
	"fmt"
	"sort"
	"strings"

	"github.com/NoodlesKamiSama/reap/internal/errs"
	"github.com/NoodlesKamiSama/reap/internal/obs"
)

// Template tags. Tags are the only lookup key; the shapes behind them are
// fixed for the life of the process.
const (
	TagEmptyObject     = "emptyObject"
	TagNullValues      = "nullValues"
	TagMissingUserName = "missingUserName"
	TagMissingPassword = "missingPassword"
	TagWrongTypes      = "wrongTypes"
	TagTooLong         = "tooLong"
	TagSpecialChars    = "specialChars"
	TagSQLInjection    = "sqlInjection"
	TagXSSAttempt      = "xssAttempt"
	TagExtraFields     = "extraFields"
)

var log = obs.Pkg("payloads")

var templates = map[string]map[string]any{
	TagEmptyObject: {},
	TagNullValues: {
		"userName": nil,
		"password": nil,
	},
	TagMissingUserName: {
		"password": "ValidPass123!",
	},
	TagMissingPassword: {
		"userName": "validUser",
	},
	TagWrongTypes: {
		"userName": 12345,
		"password": true,
	},
	TagTooLong: {
		"userName": strings.Repeat("a", 300),
		"password": strings.Repeat("Pp1!", 128),
	},
	TagSpecialChars: {
		"userName": "user\x00name\n\t🚀",
		"password": "Pass word123!™",
	},
	TagSQLInjection: {
		"userName": "admin'; DROP TABLE users; --",
		"password": "' OR '1'='1",
	},
	TagXSSAttempt: {
		"userName": "<script>alert('xss')</script>",
		"password": "ValidPass123!",
	},
	TagExtraFields: {
		"userName": "validUser",
		"password": "ValidPass123!",
		"isAdmin":  true,
		"role":     "superuser",
	},
}

// Get returns the template for tag. An unknown tag falls back to the
// emptyObject template instead of failing, so a typo in a scenario never
// blocks the whole run; the fallback is logged so the typo is still visible.
// Use Lookup when a typo should fail loudly.
func Get(tag string) map[string]any {
	template, ok := templates[tag]
	if !ok {
		log.Warn("unknown payload tag, falling back to emptyObject", "tag", tag)
		template = templates[TagEmptyObject]
	}
	return clone(template)
}

// Lookup is the fail-fast variant of Get: an unknown tag returns a NotFound
// error instead of the emptyObject fallback.
func Lookup(tag string) (map[string]any, error) {
	template, ok := templates[tag]
	if !ok {
		return nil, errs.New(errs.NotFound, fmt.Sprintf("unknown payload tag %q (known: %s)", tag, strings.Join(Tags(), ", ")))
	}
	return clone(template), nil
}

// Tags returns every registered tag, sorted.
func Tags() []string {
	tags := make([]string, 0, len(templates))
	for tag := range templates {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// clone keeps the registry immutable: callers get their own shallow copy and
// can decorate it (unique emails, extra fields) without poisoning later
// lookups. Template values are scalars, so a shallow copy is enough.
func clone(template map[string]any) map[string]any {
	out := make(map[string]any, len(template))
	for k, v := range template {
		out[k] = v
	}
	return out
}
