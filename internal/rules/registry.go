// Package rules holds the built-in validation rules and the registry the driver
// instantiates them from.
package rules

import (
	"errors"
	"fmt"
	"sort"

	"github.com/scan-io-git/sariflint/internal/validation"
)

const (
	sarifSpecURI          = "https://docs.oasis-open.org/sarif/sarif/v2.1.0/os/sarif-v2.1.0-os.html"
	githubSarifSupportURI = "https://docs.github.com/en/code-security/code-scanning/integrating-with-code-scanning/sarif-support-for-code-scanning"
)

// ErrDuplicateRule is returned when two registered rules share an id.
var ErrDuplicateRule = errors.New("duplicate rule id")

// Factory returns a new rule instance. Rules may keep per-document state, so
// every validated document gets its own instances.
type Factory func() validation.Rule

// Registry knows every available rule by id. Register is meant to be called at
// startup; once populated, a Registry may be used from several goroutines.
type Registry struct {
	factories map[string]Factory
	ids       []string
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Builtin returns a registry holding the rules shipped with sariflint.
func Builtin() *Registry {
	return NewRegistry().MustRegister(
		NewExpressURIBaseIDsCorrectly,
		NewRegionsMustBeConsistent,
		NewIndexPropertiesMustBeConsistentWithArrays,
		NewRuleIDMustBeConsistent,
		NewMessageArgumentsMustBeConsistentWithRule,
		NewReportingDescriptorReferencesMustResolve,
		NewAuthorHighQualityMessages,
		NewProvideToolProperties,
		NewReviewArraysThatExceedConfigurableDefaults,
		NewProvideCheckoutPath,
	)
}

// Register adds the rule built by factory after checking its metadata.
func (r *Registry) Register(factory Factory) error {
	if factory == nil {
		return errors.New("nil rule factory")
	}
	rule := factory()
	if rule == nil {
		return errors.New("rule factory returned nil")
	}
	if err := validation.CheckRule(rule); err != nil {
		return err
	}
	id := rule.ID()
	if _, exists := r.factories[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRule, id)
	}

	r.factories[id] = factory
	r.ids = append(r.ids, id)
	sort.Strings(r.ids)
	return nil
}

// MustRegister registers every factory and panics on the first failure.
func (r *Registry) MustRegister(factories ...Factory) *Registry {
	for _, factory := range factories {
		if err := r.Register(factory); err != nil {
			panic(fmt.Sprintf("registering rule: %v", err))
		}
	}
	return r
}

// IDs returns the registered rule ids in sorted order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.ids...)
}

// Has reports whether a rule with id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.factories[id]
	return ok
}

// New returns a fresh instance of rule id.
func (r *Registry) New(id string) (validation.Rule, bool) {
	factory, ok := r.factories[id]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// Instantiate returns a fresh instance of every registered rule, sorted by id.
func (r *Registry) Instantiate() []validation.Rule {
	rules := make([]validation.Rule, 0, len(r.ids))
	for _, id := range r.ids {
		rules = append(rules, r.factories[id]())
	}
	return rules
}
