// Package validate checks a draft submission against the submit schema
// before it is allowed anywhere near the wire.
package validate

import (
	"strings"

	"github.com/pvcodes/tuf-judge-cli/internal/subm"
)

// FieldError is one schema violation on a single draft field.
type FieldError struct {
	Field   string
	Message string
}

// FieldErrors collects every schema violation of a draft. All failing
// fields are reported at once so the user can fix them in one pass.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return strings.Join(msgs, ", ")
}

// Draft validates a draft against the submit schema. It returns nil when
// the draft may be transmitted, and FieldErrors otherwise. It never
// short-circuits on the first failing field.
func Draft(d subm.Draft) error {
	var errs FieldErrors

	switch {
	case d.Username == "":
		errs = append(errs, FieldError{"username", "is required"})
	case !isAlphanumeric(d.Username):
		errs = append(errs, FieldError{"username", "must only contain alphanumeric characters"})
	}

	if d.Language == "" {
		errs = append(errs, FieldError{"language", "is required"})
	}
	if d.LanguageID == 0 {
		errs = append(errs, FieldError{"languageId", "is required"})
	}
	if d.SourceCode == "" {
		errs = append(errs, FieldError{"sourceCode", "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !ok {
			return false
		}
	}
	return true
}
