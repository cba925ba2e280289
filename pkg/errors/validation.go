package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// TemplateSlot is the substitution slot a split target template must
// contain exactly once; it is replaced by the 0-based component index.
const TemplateSlot = "{}"

// predicateNameRegex matches valid fact predicate names: a lowercase letter
// followed by letters, digits, or underscores.
var predicateNameRegex = regexp.MustCompile(`^[a-z][A-Za-z0-9_]*$`)

// ValidatePredicateName validates an edge predicate name.
// Predicate names follow the usual ASP convention: lowercase first letter,
// then letters, digits, or underscores.
func ValidatePredicateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPredicate, "edge predicate cannot be empty")
	}
	if !predicateNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPredicate, "invalid edge predicate: %q", name)
	}
	return nil
}

// ValidateTargetTemplate validates a split target template.
//
// The template names the per-component output files and must contain the
// {} substitution slot exactly once. It is checked eagerly, before any
// component is computed or written, so a misconfigured call never produces
// partial output.
func ValidateTargetTemplate(template string) error {
	if template == "" {
		return New(ErrCodeInvalidTemplate, "target template cannot be empty")
	}
	switch strings.Count(template, TemplateSlot) {
	case 0:
		return New(ErrCodeInvalidTemplate, "target template %q must contain the %s slot", template, TemplateSlot)
	case 1:
	default:
		return New(ErrCodeInvalidTemplate, "target template %q must contain the %s slot exactly once", template, TemplateSlot)
	}
	for _, r := range template {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidTemplate, "target template contains invalid characters")
		}
	}
	return nil
}

// ValidateResourcePath validates a source or target resource path.
func ValidateResourcePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "resource path cannot be empty")
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "resource path contains invalid characters")
		}
	}
	return nil
}
