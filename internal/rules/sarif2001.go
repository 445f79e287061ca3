package rules

import (
	"regexp"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/sariflint/internal/jsonpath"
	sariflog "github.com/scan-io-git/sariflint/internal/sarif"
	"github.com/scan-io-git/sariflint/internal/validation"
)

const (
	enquoteDynamicContent = "Warning_EnquoteDynamicContent"
	includeDynamicContent = "Warning_IncludeDynamicContent"
	terminateWithPeriod   = "Warning_TerminateWithPeriod"
)

var (
	dynamicContent         = regexp.MustCompile(`\{[0-9]+\}`)
	nonEnquotedDynamicText = regexp.MustCompile(`(^|[^'])\{[0-9]+\}`)
)

// AuthorHighQualityMessages reviews the plain text message strings of the
// driver's rules. Markdown messages are not checked.
type AuthorHighQualityMessages struct {
	validation.RuleBase
}

func NewAuthorHighQualityMessages() validation.Rule {
	return &AuthorHighQualityMessages{RuleBase: validation.RuleBase{
		RuleID:   "SARIF2001",
		RuleName: "AuthorHighQualityMessages",
		Summary: "Follow authoring practices that make your rule messages readable, understandable, and " +
			"actionable: include dynamic content, enclose it in single quotes, and end every message with a period.",
		Help:  sarifSpecURI + "#_Toc34317593",
		Level: validation.LevelWarning,
		Templates: map[string]string{
			enquoteDynamicContent: "{0}: In rule '{1}', the message with id '{2}' includes dynamic content " +
				"that is not enclosed in single quotes.",
			includeDynamicContent: "{0}: In rule '{1}', the message with id '{2}' does not include any " +
				"dynamic content.",
			terminateWithPeriod: "{0}: In rule '{1}', the message with id '{2}' does not end in a period.",
		},
	}}
}

func (r *AuthorHighQualityMessages) AnalyzeTool(ctx *validation.Context, tool *sarif.Tool, p jsonpath.Path) {
	if tool.Driver == nil {
		return
	}
	rulesPath := p.Property(sariflog.PropDriver).Property(sariflog.PropRules)
	for i, rule := range tool.Driver.Rules {
		if rule == nil || rule.MessageStrings == nil {
			continue
		}
		stringsPath := rulesPath.Index(i).Property(sariflog.PropMessageStrings)
		for _, key := range memberNames(ctx, stringsPath) {
			s, ok := (*rule.MessageStrings)[key]
			if !ok || s.Text == nil {
				continue
			}
			r.analyzeMessageString(ctx, rule.ID, key, *s.Text, stringsPath.Property(key).Property(sariflog.PropText))
		}
	}
}

func (r *AuthorHighQualityMessages) analyzeMessageString(ctx *validation.Context, ruleID, key, text string, p jsonpath.Path) {
	if text == "" {
		return
	}
	if !dynamicContent.MatchString(text) {
		r.LogResult(ctx, p, includeDynamicContent, ruleID, key)
	}
	if nonEnquotedDynamicText.MatchString(text) {
		r.LogResult(ctx, p, enquoteDynamicContent, ruleID, key)
	}
	if !strings.HasSuffix(text, ".") {
		r.LogResult(ctx, p, terminateWithPeriod, ruleID, key)
	}
}
