// Package browser provides shared test utilities for Playwright browser tests.
// All browser test files use BrowserTestEnv via SetupBrowserTestEnv(t).
package browser

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/NoodlesKamiSama/reap/internal/target"
)

const (
	// CODING AGENT RULE: Always use these timeout constants for browser tests.
	// Never introduce a larger timeout value anywhere in tests/browser.
	browserMaxTimeoutMS = 5000
	browserMaxTimeout   = 5 * time.Second
)

var browserFixtureMu sync.Mutex
var browserSharedFixture *BrowserTestEnv

// BrowserTestEnv is the shared test environment for all browser tests: one
// stand-in target server and one Chromium instance reused across test files.
type BrowserTestEnv struct {
	Server  *httptest.Server
	BaseURL string
	Target  *target.Server

	pw        *playwright.Playwright
	browser   playwright.Browser
	browserMu sync.Mutex
}

// SetupBrowserTestEnv returns the shared fixture, creating it on first use.
func SetupBrowserTestEnv(t *testing.T) *BrowserTestEnv {
	t.Helper()

	browserFixtureMu.Lock()
	defer browserFixtureMu.Unlock()

	if browserSharedFixture != nil {
		return browserSharedFixture
	}

	// High rate limits so form-driven tests never trip the limiter.
	standIn := target.NewServer(target.RateLimitConfig{
		RPS:             10000,
		Burst:           100000,
		CleanupInterval: time.Hour,
	})
	server := httptest.NewServer(standIn.Handler())

	browserSharedFixture = &BrowserTestEnv{
		Server:  server,
		BaseURL: server.URL,
		Target:  standIn,
	}
	return browserSharedFixture
}

func cleanupSharedBrowserTestEnv() {
	browserFixtureMu.Lock()
	defer browserFixtureMu.Unlock()

	if browserSharedFixture == nil {
		return
	}
	if browserSharedFixture.browser != nil {
		_ = browserSharedFixture.browser.Close()
	}
	if browserSharedFixture.pw != nil {
		_ = browserSharedFixture.pw.Stop()
	}
	if browserSharedFixture.Server != nil {
		browserSharedFixture.Server.Close()
	}
	if browserSharedFixture.Target != nil {
		browserSharedFixture.Target.Close()
	}
	browserSharedFixture = nil
}

// InitBrowser initializes Playwright and launches Chromium. Skips the test if not available.
func (env *BrowserTestEnv) InitBrowser(t *testing.T) {
	t.Helper()

	env.browserMu.Lock()
	defer env.browserMu.Unlock()

	if env.browser != nil {
		return
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Skip("Playwright not available:", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		_ = pw.Stop()
		t.Skip("Could not launch browser:", err)
	}
	env.pw = pw
	env.browser = browser
}

// NewPage creates a new browser page with default 5s timeout.
func (env *BrowserTestEnv) NewPage(t *testing.T) playwright.Page {
	t.Helper()

	page, err := env.browser.NewPage()
	if err != nil {
		t.Fatalf("could not create page: %v", err)
	}
	page.SetDefaultTimeout(browserMaxTimeoutMS)
	page.SetDefaultNavigationTimeout(browserMaxTimeoutMS)
	return page
}

// Navigate navigates to a path on the test server and waits for DOMContentLoaded.
func Navigate(t *testing.T, page playwright.Page, baseURL, path string) {
	t.Helper()

	_, err := page.Goto(baseURL+path, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(browserMaxTimeoutMS),
	})
	if err != nil {
		t.Fatalf("Failed to navigate to %s: %v", path, err)
	}
}

// WaitForSelector waits for an element to be visible and returns its locator.
func WaitForSelector(t *testing.T, page playwright.Page, selector string) playwright.Locator {
	t.Helper()

	locator := page.Locator(selector).First()
	err := locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(browserMaxTimeoutMS),
	})
	if err != nil {
		currentURL := page.URL()
		content, _ := page.Content()
		if len(content) > 500 {
			content = content[:500] + "..."
		}
		t.Logf("Current URL: %s", currentURL)
		t.Logf("Content preview: %s", content)
		t.Fatalf("Failed to wait for selector %s: %v", selector, err)
	}
	return locator
}

// SubmitForm clicks the submit button and waits for the resulting navigation.
func SubmitForm(t *testing.T, page playwright.Page) {
	t.Helper()

	if err := page.Locator("button[type='submit']").Click(); err != nil {
		t.Fatalf("Failed to click submit: %v", err)
	}
	err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateDomcontentloaded,
	})
	if err != nil {
		t.Fatalf("Failed to wait for page load after submit: %v", err)
	}
}

// VisibleErrorText waits for the server-rendered validation error, asserts the
// computed color is red, and returns the error text.
func VisibleErrorText(t *testing.T, page playwright.Page) string {
	t.Helper()

	errorText := WaitForSelector(t, page, ".form-error")

	colorValue, err := errorText.Evaluate("el => getComputedStyle(el).color", nil)
	if err != nil {
		t.Fatalf("Failed to read error text color: %v", err)
	}
	colorStr, ok := colorValue.(string)
	if !ok || !isRedColor(colorStr) {
		t.Errorf("validation error text is not red: %v", colorValue)
	}

	text, err := errorText.TextContent()
	if err != nil {
		t.Fatalf("Failed to read error text: %v", err)
	}
	return text
}

// isRedColor reports whether a computed "rgb(r, g, b)" value reads as red:
// the red channel dominates the other two combined.
func isRedColor(computed string) bool {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(computed, "rgb("), ")")
	parts := strings.Split(trimmed, ",")
	if len(parts) < 3 {
		return false
	}
	channels := [3]int{}
	for i := 0; i < 3; i++ {
		n := 0
		for _, ch := range strings.TrimSpace(parts[i]) {
			if ch < '0' || ch > '9' {
				return false
			}
			n = n*10 + int(ch-'0')
		}
		channels[i] = n
	}
	return channels[0] >= 128 && channels[0] > channels[1]+channels[2]
}
