package validation

import (
	"fmt"

	"github.com/scan-io-git/sariflint/internal/jsonpath"
)

// UnknownTemplateError is raised, by panic, when a rule emits a message template
// it does not define. It is a bug in the rule, never a document defect.
type UnknownTemplateError struct {
	RuleID     string
	TemplateID string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("rule %s has no message template %q", e.RuleID, e.TemplateID)
}

// RuleFault describes a panic raised by one rule while analyzing one node.
type RuleFault struct {
	RuleID string
	Kind   NodeKind
	Path   jsonpath.Path
	Value  interface{}
	Stack  []byte
}

func (e *RuleFault) Error() string {
	return fmt.Sprintf("rule %s failed analyzing %s at %q: %v", e.RuleID, e.Kind, e.Path.Pointer(), e.Value)
}

// Unwrap exposes the panic value when it was an error.
func (e *RuleFault) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// IsInvariantViolation reports whether a recovered panic value signals a bug in
// the validator or a rule rather than a fault to isolate.
func IsInvariantViolation(v interface{}) bool {
	switch v.(type) {
	case *UnknownTemplateError, *jsonpath.PathNotFoundError:
		return true
	}
	return false
}
