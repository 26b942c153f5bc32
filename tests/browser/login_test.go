package browser

import (
	"strings"
	"testing"

	"github.com/NoodlesKamiSama/reap/internal/testdata"
)

func TestLoginWrongCredentials(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)
	page := env.NewPage(t)
	defer page.Close()

	Navigate(t, page, env.BaseURL, "/login")
	WaitForSelector(t, page, "#login-form")

	if err := page.Locator("input[name='email']").Fill(testdata.UniqueEmail("nobody", "")); err != nil {
		t.Fatalf("Failed to fill email: %v", err)
	}
	if err := page.Locator("input[name='password']").Fill(testdata.SecurePassword(12)); err != nil {
		t.Fatalf("Failed to fill password: %v", err)
	}
	SubmitForm(t, page)

	text := VisibleErrorText(t, page)
	if !strings.Contains(text, "Invalid email or password") {
		t.Errorf("Expected a credentials message, got %q", text)
	}
	if !strings.Contains(page.URL(), "/login") {
		t.Errorf("Should stay on the login page, got %s", page.URL())
	}
}

func TestLoginSuccessAfterSignup(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)
	page := env.NewPage(t)
	defer page.Close()

	// Register through the real form first, then log in with the same
	// credentials.
	profile := testdata.UserData(testdata.Overrides{})
	Navigate(t, page, env.BaseURL, "/signup")
	WaitForSelector(t, page, "#signup-form")
	fillSignupForm(t, page, profile, profile.Password)
	SubmitForm(t, page)

	Navigate(t, page, env.BaseURL, "/login")
	WaitForSelector(t, page, "#login-form")
	if err := page.Locator("input[name='email']").Fill(profile.Email); err != nil {
		t.Fatalf("Failed to fill email: %v", err)
	}
	if err := page.Locator("input[name='password']").Fill(profile.Password); err != nil {
		t.Fatalf("Failed to fill password: %v", err)
	}
	SubmitForm(t, page)

	if !strings.Contains(page.URL(), "/welcome") {
		t.Fatalf("Expected redirect to /welcome, got %s", page.URL())
	}
	message := WaitForSelector(t, page, "#welcome-message")
	text, err := message.TextContent()
	if err != nil {
		t.Fatalf("Failed to read welcome message: %v", err)
	}
	if !strings.Contains(text, profile.Email) {
		t.Errorf("Welcome message should name the signed-in user, got %q", text)
	}
}

func TestLoginWrongPasswordForExistingUser(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)
	page := env.NewPage(t)
	defer page.Close()

	profile := testdata.UserData(testdata.Overrides{})
	Navigate(t, page, env.BaseURL, "/signup")
	WaitForSelector(t, page, "#signup-form")
	fillSignupForm(t, page, profile, profile.Password)
	SubmitForm(t, page)

	Navigate(t, page, env.BaseURL, "/login")
	WaitForSelector(t, page, "#login-form")
	if err := page.Locator("input[name='email']").Fill(profile.Email); err != nil {
		t.Fatalf("Failed to fill email: %v", err)
	}
	if err := page.Locator("input[name='password']").Fill(profile.Password + "-wrong"); err != nil {
		t.Fatalf("Failed to fill password: %v", err)
	}
	SubmitForm(t, page)

	text := VisibleErrorText(t, page)
	if !strings.Contains(text, "Invalid email or password") {
		t.Errorf("Expected a credentials message, got %q", text)
	}
}
