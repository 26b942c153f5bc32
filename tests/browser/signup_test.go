package browser

import (
	"strings"
	"testing"

	"github.com/playwright-community/playwright-go"

	"github.com/NoodlesKamiSama/reap/internal/testdata"
)

// fillSignupForm fills every field of the signup form from profile and checks
// the terms box.
func fillSignupForm(t *testing.T, page playwright.Page, profile testdata.UserProfile, confirm string) {
	t.Helper()

	fields := []struct {
		selector string
		value    string
	}{
		{"input[name='email']", profile.Email},
		{"input[name='password']", profile.Password},
		{"input[name='confirm_password']", confirm},
		{"input[name='first_name']", profile.FirstName},
		{"input[name='last_name']", profile.LastName},
		{"input[name='company']", profile.CompanyName},
		{"input[name='phone']", profile.Phone},
	}
	for _, field := range fields {
		if err := page.Locator(field.selector).Fill(field.value); err != nil {
			t.Fatalf("Failed to fill %s: %v", field.selector, err)
		}
	}
	if err := page.Locator("input[name='terms']").Check(); err != nil {
		t.Fatalf("Failed to check terms: %v", err)
	}
}

func TestSignupFormSuccess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)
	page := env.NewPage(t)
	defer page.Close()

	before := env.Target.Accounts()

	Navigate(t, page, env.BaseURL, "/signup")
	WaitForSelector(t, page, "#signup-form")

	profile := testdata.UserData(testdata.Overrides{})
	fillSignupForm(t, page, profile, profile.Password)
	SubmitForm(t, page)

	if !strings.Contains(page.URL(), "/welcome") {
		t.Fatalf("Expected redirect to /welcome, got %s", page.URL())
	}
	WaitForSelector(t, page, "#signup-success")

	if got := env.Target.Accounts(); got != before+1 {
		t.Errorf("Account count = %d, want %d", got, before+1)
	}
}

func TestSignupFormPasswordMismatch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)
	page := env.NewPage(t)
	defer page.Close()

	Navigate(t, page, env.BaseURL, "/signup")
	WaitForSelector(t, page, "#signup-form")

	profile := testdata.UserData(testdata.Overrides{})
	fillSignupForm(t, page, profile, profile.Password+"-different")
	SubmitForm(t, page)

	text := VisibleErrorText(t, page)
	if !strings.Contains(text, "match") {
		t.Errorf("Expected a mismatch message, got %q", text)
	}
	if !strings.Contains(page.URL(), "/signup") {
		t.Errorf("Should stay on the signup page, got %s", page.URL())
	}
}

func TestSignupFormInvalidEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)
	page := env.NewPage(t)
	defer page.Close()

	Navigate(t, page, env.BaseURL, "/signup")
	WaitForSelector(t, page, "#signup-form")

	// "probe@nodomain" passes the browser's native email check but fails the
	// server's, so the red server-side error is what renders.
	profile := testdata.UserData(testdata.Overrides{Email: testdata.String("probe@nodomain")})
	fillSignupForm(t, page, profile, profile.Password)
	SubmitForm(t, page)

	text := VisibleErrorText(t, page)
	if !strings.Contains(strings.ToLower(text), "email") {
		t.Errorf("Expected an email validation message, got %q", text)
	}
}

func TestSignupFormDuplicateEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)
	page := env.NewPage(t)
	defer page.Close()

	profile := testdata.UserData(testdata.Overrides{})

	for attempt := 0; attempt < 2; attempt++ {
		Navigate(t, page, env.BaseURL, "/signup")
		WaitForSelector(t, page, "#signup-form")
		fillSignupForm(t, page, profile, profile.Password)
		SubmitForm(t, page)
	}

	text := VisibleErrorText(t, page)
	if !strings.Contains(text, "already exists") {
		t.Errorf("Expected a duplicate-account message, got %q", text)
	}
}

func TestSignupFormTermsNotAccepted(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)
	page := env.NewPage(t)
	defer page.Close()

	Navigate(t, page, env.BaseURL, "/signup")
	WaitForSelector(t, page, "#signup-form")

	profile := testdata.UserData(testdata.Overrides{})
	for selector, value := range map[string]string{
		"input[name='email']":            profile.Email,
		"input[name='password']":         profile.Password,
		"input[name='confirm_password']": profile.Password,
	} {
		if err := page.Locator(selector).Fill(value); err != nil {
			t.Fatalf("Failed to fill %s: %v", selector, err)
		}
	}
	SubmitForm(t, page)

	text := VisibleErrorText(t, page)
	if !strings.Contains(text, "terms") {
		t.Errorf("Expected a terms message, got %q", text)
	}
}

func TestSignupFormWeakPassword(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)
	page := env.NewPage(t)
	defer page.Close()

	Navigate(t, page, env.BaseURL, "/signup")
	WaitForSelector(t, page, "#signup-form")

	profile := testdata.UserData(testdata.Overrides{Password: testdata.String("short")})
	fillSignupForm(t, page, profile, profile.Password)
	SubmitForm(t, page)

	text := VisibleErrorText(t, page)
	if !strings.Contains(strings.ToLower(text), "password") {
		t.Errorf("Expected a password policy message, got %q", text)
	}
}
