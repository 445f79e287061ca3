package rules

import (
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/sariflint/internal/jsonpath"
	sariflog "github.com/scan-io-git/sariflint/internal/sarif"
	"github.com/scan-io-git/sariflint/internal/validation"
)

const arrayExceedsDefaultLimit = "Error_ArrayExceedsDefaultLimit"

// Options of SARIF2020, each an array size limit.
const (
	OptionMaxRunsPerLog             = "max_runs_per_log"
	OptionMaxRulesPerRun            = "max_rules_per_run"
	OptionMaxResultsPerRun          = "max_results_per_run"
	OptionMaxLocationsPerResult     = "max_locations_per_result"
	OptionMaxCodeFlowsPerResult     = "max_code_flows_per_result"
	OptionMaxLocationsPerThreadFlow = "max_locations_per_thread_flow"
)

// DefaultArrayLimits are the display limits of GitHub code scanning.
var DefaultArrayLimits = map[string]int{
	OptionMaxRunsPerLog:             5,
	OptionMaxRulesPerRun:            1000,
	OptionMaxResultsPerRun:          1000,
	OptionMaxLocationsPerResult:     10,
	OptionMaxCodeFlowsPerResult:     100,
	OptionMaxLocationsPerThreadFlow: 100,
}

// ReviewArraysThatExceedConfigurableDefaults flags arrays longer than what
// GitHub code scanning displays by default.
type ReviewArraysThatExceedConfigurableDefaults struct {
	validation.RuleBase
}

func NewReviewArraysThatExceedConfigurableDefaults() validation.Rule {
	return &ReviewArraysThatExceedConfigurableDefaults{RuleBase: validation.RuleBase{
		RuleID:   "SARIF2020",
		RuleName: "ReviewArraysThatExceedConfigurableDefaults",
		Summary: "GitHub code scanning limits the number of runs per log file, rules per run, results per " +
			"run, locations per result, code flows per result, and steps per thread flow. A configuration " +
			"file at the root of the repository can raise these limits.",
		Help:     githubSarifSupportURI,
		Level:    validation.LevelError,
		Disabled: true,
		Templates: map[string]string{
			arrayExceedsDefaultLimit: "{0}: This array contains {1} elements, which exceeds the default limit " +
				"of {2} imposed by GitHub code scanning. Only that many elements will be displayed.",
		},
	}}
}

func (r *ReviewArraysThatExceedConfigurableDefaults) check(ctx *validation.Context, p jsonpath.Path, count int, option string) {
	limit := optionInt(ctx, r, option, DefaultArrayLimits[option])
	if count > limit {
		r.LogResult(ctx, p, arrayExceedsDefaultLimit, count, limit)
	}
}

func (r *ReviewArraysThatExceedConfigurableDefaults) AnalyzeLog(ctx *validation.Context, log *sarif.Report, p jsonpath.Path) {
	r.check(ctx, p.Property(sariflog.PropRuns), len(log.Runs), OptionMaxRunsPerLog)
}

func (r *ReviewArraysThatExceedConfigurableDefaults) AnalyzeRun(ctx *validation.Context, run *sarif.Run, p jsonpath.Path) {
	if run.Tool.Driver != nil {
		rules := p.Property(sariflog.PropTool).Property(sariflog.PropDriver).Property(sariflog.PropRules)
		r.check(ctx, rules, len(run.Tool.Driver.Rules), OptionMaxRulesPerRun)
	}
	r.check(ctx, p.Property(sariflog.PropResults), len(run.Results), OptionMaxResultsPerRun)
}

func (r *ReviewArraysThatExceedConfigurableDefaults) AnalyzeResult(ctx *validation.Context, result *sarif.Result, p jsonpath.Path) {
	r.check(ctx, p.Property(sariflog.PropLocations), len(result.Locations), OptionMaxLocationsPerResult)
	r.check(ctx, p.Property(sariflog.PropCodeFlows), len(result.CodeFlows), OptionMaxCodeFlowsPerResult)
}

func (r *ReviewArraysThatExceedConfigurableDefaults) AnalyzeThreadFlow(ctx *validation.Context, flow *sarif.ThreadFlow, p jsonpath.Path) {
	r.check(ctx, p.Property(sariflog.PropLocations), len(flow.Locations), OptionMaxLocationsPerThreadFlow)
}
