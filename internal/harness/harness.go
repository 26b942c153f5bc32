// Package harness runs named probe scenarios outside the go test runner, so
// the suite can execute against an arbitrary deployment from the CLI. It is
// a small scenario tree: each scenario gets a Context for assertions, errors
// accumulate into Results, and panics (including Require* bailouts) are
// contained at the scenario boundary.
package harness

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// ScenarioID identifies one scenario by its path in the run tree.
type ScenarioID struct {
	Path []string
}

func (s ScenarioID) String() string {
	out := ""
	for i, part := range s.Path {
		if i > 0 {
			out += "/"
		}
		out += part
	}
	return out
}

// ScenarioResult is the outcome of one scenario.
type ScenarioResult struct {
	ID      ScenarioID
	Errors  []error
	Skipped bool
}

// Results accumulates every scenario outcome of a run.
type Results struct {
	Scenarios []ScenarioResult
	Failures  []ScenarioResult
}

// OK reports whether the run had no failures.
func (r Results) OK() bool {
	return len(r.Failures) == 0
}

type environment struct {
	results Results
	logger  Logger
	filter  Filter
}

// Context is the per-scenario assertion scope.
type Context struct {
	env        *environment
	id         ScenarioID
	failed     bool
	skipped    bool
	skipReason string
	errors     []error
}

// Run executes action as the root of a scenario tree and returns the
// accumulated results.
func Run(filter Filter, logger Logger, action func(*Context)) Results {
	if logger == nil {
		logger = nullLogger{}
	}
	env := &environment{
		filter: filter,
		logger: logger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil && !c.skipped {
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				if len(c.errors) == 0 {
					addError = errors.New("scenario failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in scenario: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.logger.ScenarioError(c.id, addError)
			}
		}
		// Skipped scenarios are recorded too, so report counts include them.
		result := ScenarioResult{ID: c.id, Errors: c.errors, Skipped: c.skipped}
		c.env.results.Scenarios = append(c.env.results.Scenarios, result)
		if c.failed {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	action(c)
}

// ID returns this scenario's identifier.
func (c *Context) ID() ScenarioID {
	return c.id
}

// Run executes a named child scenario.
func (c *Context) Run(name string, action func(*Context)) {
	id := ScenarioID{Path: append(append([]string{}, c.id.Path...), name)}

	c.env.logger.ScenarioStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.logger.ScenarioSkipped(id, "excluded by filter parameters")
		return
	}
	child := &Context{
		id:  id,
		env: c.env,
	}
	child.run(action)
	if child.skipped {
		c.env.logger.ScenarioSkipped(id, child.skipReason)
	} else {
		c.env.logger.ScenarioFinished(id, child.failed)
	}
}

// Errorf records a failure and continues the scenario.
func (c *Context) Errorf(format string, args ...any) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.logger.ScenarioError(c.id, err)
}

// FailNow aborts the scenario immediately.
func (c *Context) FailNow() {
	c.failed = true
	panic(c)
}

// Fatalf records a failure and aborts the scenario.
func (c *Context) Fatalf(format string, args ...any) {
	c.Errorf(format, args...)
	c.FailNow()
}

// RequireNoError aborts the scenario when err is non-nil.
func (c *Context) RequireNoError(err error, context string) {
	if err == nil {
		return
	}
	c.Fatalf("%s: %s", context, err)
}

// Skip marks the scenario as skipped with a reason.
func (c *Context) Skip(reason string) {
	c.skipped = true
	c.skipReason = reason
	panic(c)
}
