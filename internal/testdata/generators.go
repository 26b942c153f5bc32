// Package testdata produces synthetic, constraint-satisfying input values for
// probe scenarios: unique emails, policy-conforming passwords, plausible
// names and phone numbers. Generators are pure and never fail; uniqueness is
// practical (per test run), not cryptographic.
package testdata

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserProfile is one synthetic sign-up submission. Instances are built per
// test invocation and never mutated afterwards.
type UserProfile struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	CompanyName string
	Phone       string
}

const (
	// PasswordFloor is the minimum password length the generator will emit.
	// Truncating below it would break the very policy the password is built
	// to satisfy.
	PasswordFloor = 8

	defaultEmailPrefix = "reap"
	defaultEmailDomain = "example.com"
)

// UniqueEmail returns an address that is pairwise distinct within a process:
// prefix, a millisecond wall-clock timestamp, and a random suffix. Collisions
// across processes started in the same millisecond with identical random
// state are theoretically possible and acceptable at test volumes.
func UniqueEmail(prefix, domain string) string {
	if prefix == "" {
		prefix = defaultEmailPrefix
	}
	if domain == "" {
		domain = defaultEmailDomain
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s.%d.%s@%s", prefix, time.Now().UnixMilli(), suffix, domain)
}

// passwordBase carries one of each required character class in its first four
// characters, so any truncation at or above PasswordFloor keeps the policy
// guarantee intact.
const passwordBase = "Wd4$kq7!"

// passwordPadUnit pads long passwords without diluting any character class.
const passwordPadUnit = "m2#"

// SecurePassword builds a password guaranteed to contain at least one
// uppercase letter, one lowercase letter, one digit, and one special
// character. Deliberately deterministic: known-good fragments beat
// reject-and-retry sampling when the goal is satisfying a known policy, not
// entropy. Lengths below PasswordFloor are rounded up to it.
func SecurePassword(length int) string {
	if length <= PasswordFloor {
		return passwordBase
	}
	var b strings.Builder
	b.Grow(length + len(passwordPadUnit))
	b.WriteString(passwordBase)
	for b.Len() < length {
		b.WriteString(passwordPadUnit)
	}
	return b.String()[:length]
}

var companyNames = []string{
	"Acme Holdings",
	"Globex Industrial",
	"Initech Systems",
	"Umbrella Logistics",
	"Stark Fabrication",
	"Wayne Analytics",
	"Tyrell Dynamics",
	"Aperture Labs",
}

var firstNames = []string{"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Radia", "Ken"}
var lastNames = []string{"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth", "Perlman", "Thompson"}

// CompanyName picks a plausible company name from a fixed vocabulary.
func CompanyName() string {
	return companyNames[rand.Intn(len(companyNames))]
}

// FirstName picks a plausible first name from a fixed vocabulary.
func FirstName() string {
	return firstNames[rand.Intn(len(firstNames))]
}

// LastName picks a plausible last name from a fixed vocabulary.
func LastName() string {
	return lastNames[rand.Intn(len(lastNames))]
}

// DefaultPhoneFormat is a US-style number; '#' positions are filled with
// random digits.
const DefaultPhoneFormat = "+1-###-###-####"

// PhoneNumber fills every '#' in format with a random digit. An empty format
// uses DefaultPhoneFormat. The first digit position is kept non-zero so the
// result looks plausible for the target locale.
func PhoneNumber(format string) string {
	if format == "" {
		format = DefaultPhoneFormat
	}
	var b strings.Builder
	b.Grow(len(format))
	first := true
	for _, r := range format {
		if r != '#' {
			b.WriteRune(r)
			continue
		}
		if first {
			b.WriteByte(byte('1' + rand.Intn(9)))
			first = false
			continue
		}
		b.WriteByte(byte('0' + rand.Intn(10)))
	}
	return b.String()
}

// Overrides selects UserProfile fields to pin instead of generating. Pointer
// fields distinguish "not overridden" from an explicit empty value, so a
// scenario can submit one deliberately invalid field from otherwise valid
// data.
type Overrides struct {
	Email       *string
	Password    *string
	FirstName   *string
	LastName    *string
	CompanyName *string
	Phone       *string
}

// String returns a pointer to s, for building Overrides literals.
func String(s string) *string {
	return &s
}

// UserData composes a full profile from the individual generators, then
// applies overrides last. Overrides always win.
func UserData(overrides Overrides) UserProfile {
	profile := UserProfile{
		Email:       UniqueEmail("", ""),
		Password:    SecurePassword(12),
		FirstName:   FirstName(),
		LastName:    LastName(),
		CompanyName: CompanyName(),
		Phone:       PhoneNumber(""),
	}
	if overrides.Email != nil {
		profile.Email = *overrides.Email
	}
	if overrides.Password != nil {
		profile.Password = *overrides.Password
	}
	if overrides.FirstName != nil {
		profile.FirstName = *overrides.FirstName
	}
	if overrides.LastName != nil {
		profile.LastName = *overrides.LastName
	}
	if overrides.CompanyName != nil {
		profile.CompanyName = *overrides.CompanyName
	}
	if overrides.Phone != nil {
		profile.Phone = *overrides.Phone
	}
	return profile
}
