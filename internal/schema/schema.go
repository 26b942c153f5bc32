// Package schema asserts the shape of captured probe results. It is a
// presence and equality checker, not a schema language: status equality,
// property presence, and required non-null fields, failing on the first
// unmet condition with the literal expected and actual values.
package schema

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/NoodlesKamiSama/reap/internal/errs"
	"github.com/NoodlesKamiSama/reap/internal/probe"
)

// Expected describes the asserted response shape. Zero-value fields are not
// checked.
type Expected struct {
	// Status asserts exact status-code equality when non-nil.
	Status *int
	// Properties asserts each named property exists on the body; a JSON null
	// still counts as present.
	Properties []string
	// RequiredFields asserts each field exists and is not null.
	RequiredFields []string
}

// Status returns a pointer to code, for building Expected literals.
func Status(code int) *int {
	return &code
}

// Validate checks result against exp and returns a coded AssertionFailed
// error on the first unmet condition. There is no partial-result reporting.
func Validate(result *probe.Result, exp Expected) error {
	if result == nil {
		return errs.New(errs.AssertionFailed, "no response captured")
	}

	if exp.Status != nil && result.StatusCode != *exp.Status {
		return errs.New(errs.AssertionFailed,
			fmt.Sprintf("status code: expected %d, got %d (body: %s)", *exp.Status, result.StatusCode, result.Body))
	}

	for _, property := range exp.Properties {
		if !result.HasField(property) {
			return errs.New(errs.AssertionFailed,
				fmt.Sprintf("property %q missing from body: %s", property, result.Body))
		}
	}

	for _, field := range exp.RequiredFields {
		value := result.Field(field)
		if !value.Exists() {
			return errs.New(errs.AssertionFailed,
				fmt.Sprintf("required field %q missing from body: %s", field, result.Body))
		}
		if value.Type == gjson.Null {
			return errs.New(errs.AssertionFailed,
				fmt.Sprintf("required field %q is null in body: %s", field, result.Body))
		}
	}

	return nil
}
