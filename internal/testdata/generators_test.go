package testdata

import (
	"strings"
	"testing"
	"unicode"

	"pgregory.net/rapid"
)

func passwordClasses(p string) (upper, lower, digit, special bool) {
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	return
}

func testSecurePassword_PolicyHolds(t *rapid.T) {
	length := rapid.IntRange(0, 64).Draw(t, "length")
	p := SecurePassword(length)

	if length > PasswordFloor {
		if len(p) != length {
			t.Fatalf("len(SecurePassword(%d)) = %d, want exactly %d", length, len(p), length)
		}
	} else if len(p) < PasswordFloor {
		t.Fatalf("len(SecurePassword(%d)) = %d, below floor %d", length, len(p), PasswordFloor)
	}

	upper, lower, digit, special := passwordClasses(p)
	if !upper || !lower || !digit || !special {
		t.Fatalf("SecurePassword(%d) = %q missing a required class (upper=%v lower=%v digit=%v special=%v)",
			length, p, upper, lower, digit, special)
	}
}

func TestSecurePassword_PolicyHolds(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testSecurePassword_PolicyHolds)
}

func TestSecurePassword_NeverBelowFloor(t *testing.T) {
	t.Parallel()
	for _, length := range []int{-5, 0, 1, 7, 8} {
		if got := SecurePassword(length); len(got) != PasswordFloor {
			t.Errorf("SecurePassword(%d) length = %d, want floor %d", length, len(got), PasswordFloor)
		}
	}
}

func TestPasswordGenerator_SatisfiesPolicy(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(rt *rapid.T) {
		p := PasswordGenerator().Draw(rt, "password")
		if len(p) < PasswordFloor {
			rt.Fatalf("generated password %q below floor %d", p, PasswordFloor)
		}
		upper, lower, digit, special := passwordClasses(p)
		if !upper || !lower || !digit || !special {
			rt.Fatalf("generated password %q missing a required class", p)
		}
	})
}

func TestUniqueEmail_PairwiseDistinct(t *testing.T) {
	t.Parallel()
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		email := UniqueEmail("dup", "test.local")
		if _, dup := seen[email]; dup {
			t.Fatalf("duplicate email after %d generations: %s", i, email)
		}
		seen[email] = struct{}{}
	}
}

func TestUniqueEmail_Shape(t *testing.T) {
	t.Parallel()
	email := UniqueEmail("signup", "example.org")
	if !strings.HasPrefix(email, "signup.") {
		t.Errorf("missing prefix: %s", email)
	}
	if !strings.HasSuffix(email, "@example.org") {
		t.Errorf("missing domain: %s", email)
	}

	// Defaults kick in for empty arguments.
	email = UniqueEmail("", "")
	if !strings.HasPrefix(email, "reap.") || !strings.HasSuffix(email, "@example.com") {
		t.Errorf("default prefix/domain not applied: %s", email)
	}
}

func TestUserData_OverrideIsolation(t *testing.T) {
	t.Parallel()
	profile := UserData(Overrides{FirstName: String("John")})

	if profile.FirstName != "John" {
		t.Errorf("FirstName = %q, want override %q", profile.FirstName, "John")
	}
	for name, value := range map[string]string{
		"Email":       profile.Email,
		"Password":    profile.Password,
		"LastName":    profile.LastName,
		"CompanyName": profile.CompanyName,
		"Phone":       profile.Phone,
	} {
		if value == "" {
			t.Errorf("%s should be a non-empty default", name)
		}
	}
}

func TestUserData_ExplicitEmptyOverride(t *testing.T) {
	t.Parallel()
	profile := UserData(Overrides{Email: String("")})
	if profile.Email != "" {
		t.Errorf("explicit empty override lost: %q", profile.Email)
	}
}

func testPhoneNumber_FillsEveryDigitSlot(t *rapid.T) {
	format := PhoneFormatGenerator().Draw(t, "format")
	phone := PhoneNumber(format)

	if len(phone) != len(format) {
		t.Fatalf("len(PhoneNumber(%q)) = %d, want %d", format, len(phone), len(format))
	}
	if strings.ContainsRune(phone, '#') {
		t.Fatalf("unfilled digit slot in %q", phone)
	}
	for i, r := range format {
		if r == '#' && !unicode.IsDigit(rune(phone[i])) {
			t.Fatalf("position %d of %q is not a digit", i, phone)
		}
		if r != '#' && rune(phone[i]) != r {
			t.Fatalf("literal character changed at %d: %q vs %q", i, phone, format)
		}
	}
}

func TestPhoneNumber_FillsEveryDigitSlot(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testPhoneNumber_FillsEveryDigitSlot)
}

func TestCompanyName_FromVocabulary(t *testing.T) {
	t.Parallel()
	vocab := make(map[string]struct{}, len(companyNames))
	for _, name := range companyNames {
		vocab[name] = struct{}{}
	}
	for i := 0; i < 50; i++ {
		if _, ok := vocab[CompanyName()]; !ok {
			t.Fatal("CompanyName returned a value outside the fixed vocabulary")
		}
	}
}
