// Package ui holds the browser-driven scenario suite for the target's
// sign-up and login pages. Scenarios fill forms through playwright the way a
// user would and assert on what renders, including the red validation error
// text. When playwright or a browser is unavailable the whole subset is
// skipped rather than failed, so API-only environments still get a clean run.
package ui

import (
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/NoodlesKamiSama/reap/internal/config"
	"github.com/NoodlesKamiSama/reap/internal/harness"
	"github.com/NoodlesKamiSama/reap/internal/testdata"
)

const maxTimeoutMS = 5000

type runner struct {
	browser playwright.Browser
	baseURL string
	cfg     *config.Config
}

// Run executes the UI scenario suite against the application at baseURL.
func Run(c *harness.Context, baseURL string, cfg *config.Config) {
	c.Run("ui", func(c *harness.Context) {
		pw, err := playwright.Run()
		if err != nil {
			c.Skip("playwright not available: " + err.Error())
		}
		browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(cfg.Headless),
		})
		if err != nil {
			_ = pw.Stop()
			c.Skip("could not launch browser: " + err.Error())
		}
		defer func() {
			_ = browser.Close()
			_ = pw.Stop()
		}()

		r := &runner{browser: browser, baseURL: strings.TrimRight(baseURL, "/"), cfg: cfg}

		c.Run("signup/success", r.scenarioSignupSuccess)
		c.Run("signup/password-mismatch", r.scenarioSignupPasswordMismatch)
		c.Run("signup/invalid-email", r.scenarioSignupInvalidEmail)
		c.Run("signup/duplicate-email", r.scenarioSignupDuplicate)
		c.Run("signup/terms-not-accepted", r.scenarioSignupNoTerms)
		c.Run("login/wrong-credentials", r.scenarioLoginWrongCredentials)
		c.Run("login/success", r.scenarioLoginSuccess)
	})
}

func (r *runner) newPage(c *harness.Context) playwright.Page {
	page, err := r.browser.NewPage(playwright.BrowserNewPageOptions{
		Viewport: &playwright.Size{
			Width:  r.cfg.ViewportWidth,
			Height: r.cfg.ViewportHeight,
		},
	})
	c.RequireNoError(err, "create page")
	page.SetDefaultTimeout(maxTimeoutMS)
	page.SetDefaultNavigationTimeout(maxTimeoutMS)
	return page
}

// fillSignupForm fills every field of the signup form from profile and checks
// the terms box.
func (r *runner) fillSignupForm(c *harness.Context, page playwright.Page, profile testdata.UserProfile, confirm string) {
	c.RequireNoError(page.Locator("input[name='email']").Fill(profile.Email), "fill email")
	c.RequireNoError(page.Locator("input[name='password']").Fill(profile.Password), "fill password")
	c.RequireNoError(page.Locator("input[name='confirm_password']").Fill(confirm), "fill confirm password")
	c.RequireNoError(page.Locator("input[name='first_name']").Fill(profile.FirstName), "fill first name")
	c.RequireNoError(page.Locator("input[name='last_name']").Fill(profile.LastName), "fill last name")
	c.RequireNoError(page.Locator("input[name='company']").Fill(profile.CompanyName), "fill company")
	c.RequireNoError(page.Locator("input[name='phone']").Fill(profile.Phone), "fill phone")
	c.RequireNoError(page.Locator("input[name='terms']").Check(), "check terms")
}

func (r *runner) submit(c *harness.Context, page playwright.Page) {
	c.RequireNoError(page.Locator("button[type='submit']").Click(), "click submit")
	err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateDomcontentloaded,
	})
	c.RequireNoError(err, "wait for navigation")
}

// visibleRedError waits for the server-rendered validation error, verifies it
// is actually red (the computed style, not just the class name), and returns
// its text.
func visibleRedError(c *harness.Context, page playwright.Page) string {
	errorText := page.Locator(".form-error").First()
	err := errorText.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(maxTimeoutMS),
	})
	c.RequireNoError(err, "wait for validation error text")

	colorValue, err := errorText.Evaluate("el => getComputedStyle(el).color", nil)
	c.RequireNoError(err, "read error text color")
	if colorStr, ok := colorValue.(string); !ok || !isRedColor(colorStr) {
		c.Errorf("validation error text is not red: %v", colorValue)
	}

	text, err := errorText.TextContent()
	c.RequireNoError(err, "read error text")
	return text
}

// isRedColor reports whether a computed "rgb(r, g, b)" value reads as red:
// the red channel dominates the other two combined.
func isRedColor(computed string) bool {
	var red, green, blue int
	trimmed := strings.TrimSuffix(strings.TrimPrefix(computed, "rgb("), ")")
	parts := strings.Split(trimmed, ",")
	if len(parts) < 3 {
		return false
	}
	for i, target := range []*int{&red, &green, &blue} {
		n := 0
		for _, ch := range strings.TrimSpace(parts[i]) {
			if ch < '0' || ch > '9' {
				return false
			}
			n = n*10 + int(ch-'0')
		}
		*target = n
	}
	return red >= 128 && red > green+blue
}

func (r *runner) scenarioSignupSuccess(c *harness.Context) {
	page := r.newPage(c)
	defer page.Close()

	_, err := page.Goto(r.baseURL + "/signup")
	c.RequireNoError(err, "open signup page")

	profile := testdata.UserData(testdata.Overrides{})
	r.fillSignupForm(c, page, profile, profile.Password)
	r.submit(c, page)

	if !strings.Contains(page.URL(), "/welcome") {
		c.Fatalf("expected redirect to /welcome, got %s", page.URL())
	}
	success := page.Locator("#signup-success")
	err = success.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(maxTimeoutMS),
	})
	c.RequireNoError(err, "wait for signup confirmation")
}

func (r *runner) scenarioSignupPasswordMismatch(c *harness.Context) {
	page := r.newPage(c)
	defer page.Close()

	_, err := page.Goto(r.baseURL + "/signup")
	c.RequireNoError(err, "open signup page")

	profile := testdata.UserData(testdata.Overrides{})
	r.fillSignupForm(c, page, profile, profile.Password+"-different")
	r.submit(c, page)

	text := visibleRedError(c, page)
	if !strings.Contains(text, "match") {
		c.Errorf("expected a mismatch message, got %q", text)
	}
}

func (r *runner) scenarioSignupInvalidEmail(c *harness.Context) {
	page := r.newPage(c)
	defer page.Close()

	_, err := page.Goto(r.baseURL + "/signup")
	c.RequireNoError(err, "open signup page")

	// "probe@nodomain" passes the browser's native email check but fails the
	// server's, so the red server-side error is what renders.
	profile := testdata.UserData(testdata.Overrides{Email: testdata.String("probe@nodomain")})
	r.fillSignupForm(c, page, profile, profile.Password)
	r.submit(c, page)

	text := visibleRedError(c, page)
	if !strings.Contains(strings.ToLower(text), "email") {
		c.Errorf("expected an email validation message, got %q", text)
	}
}

func (r *runner) scenarioSignupDuplicate(c *harness.Context) {
	page := r.newPage(c)
	defer page.Close()

	profile := testdata.UserData(testdata.Overrides{})

	for attempt := 0; attempt < 2; attempt++ {
		_, err := page.Goto(r.baseURL + "/signup")
		c.RequireNoError(err, "open signup page")
		r.fillSignupForm(c, page, profile, profile.Password)
		r.submit(c, page)
	}

	text := visibleRedError(c, page)
	if !strings.Contains(text, "already exists") {
		c.Errorf("expected a duplicate-account message, got %q", text)
	}
}

func (r *runner) scenarioSignupNoTerms(c *harness.Context) {
	page := r.newPage(c)
	defer page.Close()

	_, err := page.Goto(r.baseURL + "/signup")
	c.RequireNoError(err, "open signup page")

	profile := testdata.UserData(testdata.Overrides{})
	c.RequireNoError(page.Locator("input[name='email']").Fill(profile.Email), "fill email")
	c.RequireNoError(page.Locator("input[name='password']").Fill(profile.Password), "fill password")
	c.RequireNoError(page.Locator("input[name='confirm_password']").Fill(profile.Password), "fill confirm password")
	r.submit(c, page)

	text := visibleRedError(c, page)
	if !strings.Contains(text, "terms") {
		c.Errorf("expected a terms message, got %q", text)
	}
}

func (r *runner) scenarioLoginWrongCredentials(c *harness.Context) {
	page := r.newPage(c)
	defer page.Close()

	_, err := page.Goto(r.baseURL + "/login")
	c.RequireNoError(err, "open login page")

	c.RequireNoError(page.Locator("input[name='email']").Fill(testdata.UniqueEmail("nobody", "")), "fill email")
	c.RequireNoError(page.Locator("input[name='password']").Fill(testdata.SecurePassword(12)), "fill password")
	r.submit(c, page)

	text := visibleRedError(c, page)
	if !strings.Contains(text, "Invalid email or password") {
		c.Errorf("expected a credentials message, got %q", text)
	}
}

func (r *runner) scenarioLoginSuccess(c *harness.Context) {
	page := r.newPage(c)
	defer page.Close()

	// Register through the real form first, then log in with the same
	// credentials.
	profile := testdata.UserData(testdata.Overrides{})
	_, err := page.Goto(r.baseURL + "/signup")
	c.RequireNoError(err, "open signup page")
	r.fillSignupForm(c, page, profile, profile.Password)
	r.submit(c, page)

	_, err = page.Goto(r.baseURL + "/login")
	c.RequireNoError(err, "open login page")
	c.RequireNoError(page.Locator("input[name='email']").Fill(profile.Email), "fill email")
	c.RequireNoError(page.Locator("input[name='password']").Fill(profile.Password), "fill password")
	r.submit(c, page)

	if !strings.Contains(page.URL(), "/welcome") {
		c.Fatalf("expected redirect to /welcome, got %s", page.URL())
	}
	message := page.Locator("#welcome-message")
	err = message.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(maxTimeoutMS),
	})
	c.RequireNoError(err, "wait for welcome message")
	text, err := message.TextContent()
	c.RequireNoError(err, "read welcome message")
	if !strings.Contains(text, profile.Email) {
		c.Errorf("welcome message should name the signed-in user, got %q", text)
	}
}
