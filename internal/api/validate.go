package api

import (
	"fmt"
	"math"
)

// FieldSpec declares one input field of an entrypoint. The same table
// drives validation and the published manifest, so the contract callers
// see is the contract that is enforced.
type FieldSpec struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // "string", "integer", "string[]"
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
	// Min/Max bound integer values, or item counts for string[].
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// validateInput checks in against the declared field specs, applying
// defaults in place. It returns all failures, not just the first.
func validateInput(specs []FieldSpec, in map[string]any) []FieldError {
	var errs []FieldError

	for _, spec := range specs {
		val, present := in[spec.Name]

		if !present || val == nil {
			if spec.Required {
				errs = append(errs, FieldError{spec.Name, "field is required"})
				continue
			}
			if spec.Default != nil {
				in[spec.Name] = spec.Default
			}
			continue
		}

		switch spec.Type {
		case "string":
			s, ok := val.(string)
			if !ok {
				errs = append(errs, FieldError{spec.Name, "must be a string"})
				continue
			}
			if spec.Required && s == "" {
				errs = append(errs, FieldError{spec.Name, "must not be empty"})
			}

		case "integer":
			// JSON numbers arrive as float64
			f, ok := val.(float64)
			if !ok || f != math.Trunc(f) {
				errs = append(errs, FieldError{spec.Name, "must be an integer"})
				continue
			}
			n := int(f)
			if spec.Min != nil && n < *spec.Min {
				errs = append(errs, FieldError{spec.Name, fmt.Sprintf("must be at least %d", *spec.Min)})
				continue
			}
			if spec.Max != nil && n > *spec.Max {
				errs = append(errs, FieldError{spec.Name, fmt.Sprintf("must be at most %d", *spec.Max)})
				continue
			}
			in[spec.Name] = n

		case "string[]":
			items, ok := val.([]any)
			if !ok {
				errs = append(errs, FieldError{spec.Name, "must be an array of strings"})
				continue
			}
			strs := make([]string, 0, len(items))
			bad := false
			for _, item := range items {
				s, ok := item.(string)
				if !ok || s == "" {
					errs = append(errs, FieldError{spec.Name, "must contain non-empty strings"})
					bad = true
					break
				}
				strs = append(strs, s)
			}
			if bad {
				continue
			}
			if spec.Min != nil && len(strs) < *spec.Min {
				errs = append(errs, FieldError{spec.Name, fmt.Sprintf("must contain at least %d items", *spec.Min)})
				continue
			}
			if spec.Max != nil && len(strs) > *spec.Max {
				errs = append(errs, FieldError{spec.Name, fmt.Sprintf("must contain at most %d items", *spec.Max)})
				continue
			}
			in[spec.Name] = strs
		}
	}

	return errs
}

func intPtr(n int) *int { return &n }
