// Package validation gates mutation payloads before any store write.
// Payloads arrive as decoded JSON objects so that presence and JSON types
// can be checked independently of Go struct binding.
package validation

import (
	"fmt"
	"time"

	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/domain"
)

// DueDateLayout is the only accepted due_date format.
const DueDateLayout = "2006-01-02"

type Validator struct {
	rules          *config.APIRules
	maxListNameLen int
}

func New(rules *config.APIRules, maxListNameLen int) *Validator {
	return &Validator{rules: rules, maxListNameLen: maxListNameLen}
}

// Required checks that every mandatory property for the kind is present.
// replace selects the full-replacement (PUT) property set, which for tasks
// additionally demands completed.
func (v *Validator) Required(kind string, payload map[string]interface{}, replace bool) error {
	for _, p := range v.rules.Required(kind, replace) {
		if _, ok := payload[p]; !ok {
			return domain.ErrRequiredPropertyMissing
		}
	}
	return nil
}

// TaskProperties validates the field-level constraints of a task payload.
// The completed type check applies only to full replacements; PATCH leaves
// completed untouched.
func (v *Validator) TaskProperties(payload map[string]interface{}, replace bool) error {
	if raw, ok := payload["due_date"]; ok {
		s, isString := raw.(string)
		if !isString {
			return domain.ErrInvalidDueDate
		}
		if _, err := time.Parse(DueDateLayout, s); err != nil {
			return domain.ErrInvalidDueDate
		}
	}

	if replace {
		if raw, ok := payload["completed"]; ok {
			if _, isBool := raw.(bool); !isBool {
				return domain.ErrInvalidCompleted
			}
		}
	}
	return nil
}

// ListProperties validates the field-level constraints of a list payload.
func (v *Validator) ListProperties(payload map[string]interface{}) error {
	if raw, ok := payload["name"]; ok {
		s, isString := raw.(string)
		if !isString || len(s) > v.maxListNameLen {
			return domain.NewError("invalid_list_name",
				fmt.Sprintf("The list name exceeds %d characters.", v.maxListNameLen), 400)
		}
	}

	if raw, ok := payload["public"]; ok {
		if _, isBool := raw.(bool); !isBool {
			return domain.ErrInvalidPublic
		}
	}
	return nil
}
