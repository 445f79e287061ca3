package rules

import (
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/sariflint/internal/jsonpath"
	sariflog "github.com/scan-io-git/sariflint/internal/sarif"
	"github.com/scan-io-git/sariflint/internal/validation"
)

const (
	messageIDMustExist           = "Error_MessageIdMustExist"
	supplyEnoughMessageArguments = "Error_SupplyEnoughMessageArguments"
)

// MessageArgumentsMustBeConsistentWithRule checks result messages that refer to
// a message string of their rule by id.
//
// The descriptors of the current run's driver are indexed once per run, so an
// instance must not be shared between documents validated concurrently.
type MessageArgumentsMustBeConsistentWithRule struct {
	validation.RuleBase

	driver *sarif.ToolComponent
	byID   map[string]*sarif.ReportingDescriptor
}

func NewMessageArgumentsMustBeConsistentWithRule() validation.Rule {
	return &MessageArgumentsMustBeConsistentWithRule{RuleBase: validation.RuleBase{
		RuleID:   "SARIF1012",
		RuleName: "MessageArgumentsMustBeConsistentWithRule",
		Summary: "The properties of a result's 'message' property must be consistent with the properties " +
			"of the rule that the result refers to.",
		Help:  sarifSpecURI + "#_Toc34317459",
		Level: validation.LevelError,
		Templates: map[string]string{
			messageIDMustExist: "{0}: This message object refers to the message with id '{1}' in rule '{2}', " +
				"but that rule does not define a message with that id.",
			supplyEnoughMessageArguments: "{0}: The message with id '{3}' in rule '{2}' requires {4} arguments, " +
				"but this message object provides only {1}.",
		},
	}}
}

func (r *MessageArgumentsMustBeConsistentWithRule) AnalyzeRun(_ *validation.Context, run *sarif.Run, _ jsonpath.Path) {
	r.driver = run.Tool.Driver
	r.byID = make(map[string]*sarif.ReportingDescriptor)
	if r.driver == nil {
		return
	}
	for _, rule := range r.driver.Rules {
		if rule == nil {
			continue
		}
		if _, dup := r.byID[rule.ID]; !dup {
			r.byID[rule.ID] = rule
		}
	}
}

func (r *MessageArgumentsMustBeConsistentWithRule) AnalyzeResult(ctx *validation.Context, result *sarif.Result, p jsonpath.Path) {
	message := result.Message
	if message.ID == nil {
		return
	}

	component, rule := r.ruleOf(ctx, result, p)
	if rule == nil {
		return
	}

	messagePath := p.Property(sariflog.PropMessage)
	template, ok := sariflog.LookupMessageString(rule, *message.ID)
	if !ok && component != nil {
		if s, global := component.GlobalMessageStrings[*message.ID]; global {
			template, ok = sariflog.MessageString(s), true
		}
	}
	if !ok {
		r.LogResult(ctx, messagePath.Property(sariflog.PropID), messageIDMustExist, *message.ID, rule.ID)
		return
	}

	highest, err := sariflog.Placeholders(template)
	if err != nil {
		ctx.Logger.Debug("skipping malformed message string", "rule", rule.ID, "id", *message.ID, "error", err)
		return
	}
	if required := highest + 1; len(message.Arguments) < required {
		r.LogResult(ctx, messagePath, supplyEnoughMessageArguments,
			len(message.Arguments), rule.ID, *message.ID, required)
	}
}

// ruleOf finds the descriptor a result refers to, by ruleIndex first and then
// by id. A ruleIndex of -1 counts as absent. Hierarchical ids such as "CA1000/1" fall back to their first component.
func (r *MessageArgumentsMustBeConsistentWithRule) ruleOf(ctx *validation.Context, result *sarif.Result, p jsonpath.Path) (*sarif.ToolComponent, *sarif.ReportingDescriptor) {
	component, byID := r.driver, r.byID
	if result.Rule != nil && result.Rule.ToolComponent != nil {
		refPath := p.Property(sariflog.PropRule).Property(sariflog.PropToolComponent)
		resolved, ok := resolveToolComponent(ctx, result.Rule.ToolComponent, refPath, validation.ReferenceKindRule)
		if !ok {
			return nil, nil
		}
		if resolved != r.driver {
			component, byID = resolved, nil
		}
	}
	if component == nil {
		return nil, nil
	}

	if index, ok := ctx.Document.Integer(p, sariflog.PropRuleIndex); ok && index != notSpecified {
		if index >= 0 && index < int64(len(component.Rules)) {
			return component, component.Rules[index]
		}
		return component, nil
	}

	id := deref(result.RuleID)
	if id == "" && result.Rule != nil {
		id = deref(result.Rule.Id)
	}
	if id == "" {
		return component, nil
	}
	for _, candidate := range []string{id, strings.SplitN(id, "/", 2)[0]} {
		if byID != nil {
			if rule, ok := byID[candidate]; ok {
				return component, rule
			}
			continue
		}
		for _, rule := range component.Rules {
			if rule != nil && rule.ID == candidate {
				return component, rule
			}
		}
	}
	return component, nil
}
