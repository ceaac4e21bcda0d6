// Package validate runs the field rules declared by request bodies.
package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

// engine caches parsed tags and is safe for concurrent use.
var engine = validator.New(validator.WithRequiredStructEnabled())

// Check evaluates every rule of body and reports all failures at once.
// Each failing rule adds a "field: message" entry, in declaration order.
func Check(body domain.Validatable) error {
	var failures []string
	for _, rule := range body.Rules() {
		if err := engine.Var(rule.Value, rule.Tag); err != nil {
			failures = append(failures, rule.Field+": "+rule.Message)
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return domain.ValidationError(strings.Join(failures, ", "))
}
