package testdata

import "pgregory.net/rapid"

// Shared rapid generators for property-based tests. Scenario tests should use
// these instead of defining their own.

// EmailGenerator generates valid email addresses.
func EmailGenerator() *rapid.Generator[string] {
	return rapid.StringMatching(`[a-z]{5,10}@example\.com`)
}

// PasswordGenerator generates policy-conforming passwords (8+ chars, mixed types).
func PasswordGenerator() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Z][a-z]{4,8}[0-9]{2,4}[!@#]{1,3}`)
}

// WeakPasswordGenerator generates passwords below the policy floor, for
// exercising validation rejections.
func WeakPasswordGenerator() *rapid.Generator[string] {
	return rapid.StringMatching(`[a-z]{1,7}`)
}

// UserNameGenerator generates valid account user names.
func UserNameGenerator() *rapid.Generator[string] {
	return rapid.StringMatching(`[a-z][a-z0-9_]{4,20}`)
}

// PhoneFormatGenerator generates phone format strings with 4 to 12 digit slots.
func PhoneFormatGenerator() *rapid.Generator[string] {
	return rapid.StringMatching(`\+[0-9]{1,2}(-#{3,4}){2,3}`)
}
