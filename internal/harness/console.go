package harness

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Logger receives scenario lifecycle events during a run.
type Logger interface {
	ScenarioStarted(id ScenarioID)
	ScenarioError(id ScenarioID, err error)
	ScenarioFinished(id ScenarioID, failed bool)
	ScenarioSkipped(id ScenarioID, reason string)
}

type nullLogger struct{}

func (n nullLogger) ScenarioStarted(ScenarioID)         {}
func (n nullLogger) ScenarioError(ScenarioID, error)    {}
func (n nullLogger) ScenarioFinished(ScenarioID, bool)  {}
func (n nullLogger) ScenarioSkipped(ScenarioID, string) {}

var (
	passMarker = color.New(color.FgGreen).SprintFunc()
	failMarker = color.New(color.FgRed, color.Bold).SprintFunc()
	skipMarker = color.New(color.FgYellow).SprintFunc()
)

// ConsoleLogger prints scenario progress to w as the run executes.
type ConsoleLogger struct {
	W io.Writer
	// Verbose prints every scenario line; otherwise only failures and skips.
	Verbose bool
}

func (c *ConsoleLogger) ScenarioStarted(id ScenarioID) {
	if c.Verbose {
		fmt.Fprintf(c.W, "[%s]\n", id)
	}
}

func (c *ConsoleLogger) ScenarioError(id ScenarioID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(c.W, "  %s\n", line)
	}
}

func (c *ConsoleLogger) ScenarioFinished(id ScenarioID, failed bool) {
	if failed {
		fmt.Fprintf(c.W, "  %s: %s\n", failMarker("FAILED"), id)
	} else if c.Verbose {
		fmt.Fprintf(c.W, "  %s: %s\n", passMarker("PASSED"), id)
	}
}

func (c *ConsoleLogger) ScenarioSkipped(id ScenarioID, reason string) {
	if reason == "" {
		fmt.Fprintf(c.W, "  %s: %s\n", skipMarker("SKIPPED"), id)
		return
	}
	fmt.Fprintf(c.W, "  %s: %s (%s)\n", skipMarker("SKIPPED"), id, reason)
}

// PrintReport writes the human-readable end-of-run report.
func PrintReport(w io.Writer, results Results) {
	fmt.Fprintln(w)
	var skipped int
	for _, scenario := range results.Scenarios {
		if scenario.Skipped {
			skipped++
		}
	}
	fmt.Fprintf(w, "Scenarios run: %d", len(results.Scenarios))
	if skipped > 0 {
		fmt.Fprintf(w, " (%d skipped)", skipped)
	}
	fmt.Fprintln(w)

	if results.OK() {
		fmt.Fprintf(w, "%s: all scenarios passed\n", passMarker("PASS"))
		return
	}

	fmt.Fprintf(w, "%s: %d scenario(s) failed\n", failMarker("FAIL"), len(results.Failures))
	for _, failure := range results.Failures {
		fmt.Fprintf(w, "  [%s]\n", failure.ID)
		for _, err := range failure.Errors {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}
}
