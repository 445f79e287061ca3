package rules

import (
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/sariflint/internal/jsonpath"
	sariflog "github.com/scan-io-git/sariflint/internal/sarif"
	"github.com/scan-io-git/sariflint/internal/validation"
)

const (
	resultRuleIDMustBeConsistent = "Error_ResultRuleIdMustBeConsistent"
	resultMustSpecifyRuleID      = "Error_ResultMustSpecifyRuleId"
)

// RuleIDMustBeConsistent checks that a result names its rule, and that
// result.ruleId and result.rule.id agree when both are given.
type RuleIDMustBeConsistent struct {
	validation.RuleBase
}

func NewRuleIDMustBeConsistent() validation.Rule {
	return &RuleIDMustBeConsistent{RuleBase: validation.RuleBase{
		RuleID:   "SARIF1010",
		RuleName: "RuleIdMustBeConsistent",
		Summary: "Every result must contain at least one of the properties 'ruleId' and 'rule.id'. " +
			"If both are present, they must be equal.",
		Help:  sarifSpecURI + "#_Toc34317643",
		Level: validation.LevelError,
		Templates: map[string]string{
			resultRuleIDMustBeConsistent: "{0}: This result contains both the 'ruleId' property '{1}' and the " +
				"'rule.id' property '{2}', but they are not equal.",
			resultMustSpecifyRuleID: "{0}: This result contains neither of the properties 'ruleId' or 'rule.id'. " +
				"At least one of them must be present.",
		},
	}}
}

func (r *RuleIDMustBeConsistent) AnalyzeResult(ctx *validation.Context, result *sarif.Result, p jsonpath.Path) {
	var refID *string
	if result.Rule != nil {
		refID = result.Rule.Id
	}

	switch {
	case result.RuleID == nil && refID == nil:
		r.LogResult(ctx, p, resultMustSpecifyRuleID)
	case result.RuleID != nil && refID != nil && *result.RuleID != *refID:
		r.LogResult(ctx, p.Property(sariflog.PropRuleID), resultRuleIDMustBeConsistent, *result.RuleID, *refID)
	}
}
