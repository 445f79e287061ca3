package rules

import (
	"net/url"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/sariflint/internal/jsonpath"
	sariflog "github.com/scan-io-git/sariflint/internal/sarif"
	"github.com/scan-io-git/sariflint/internal/validation"
)

const provideCheckoutPath = "Error_ProvideCheckoutPath"

// ProvideCheckoutPath flags absolute file URIs in result locations that GitHub
// code scanning cannot relate to the repository root. A location under the
// working directory of one of the run's invocations is accepted.
type ProvideCheckoutPath struct {
	validation.RuleBase

	checkoutPaths []string
}

func NewProvideCheckoutPath() validation.Rule {
	return &ProvideCheckoutPath{RuleBase: validation.RuleBase{
		RuleID:   "GH1006",
		RuleName: "ProvideCheckoutPath",
		Summary: "GitHub code scanning rejects result locations expressed as absolute 'file' URIs unless it " +
			"can determine the repository root. Express locations relative to the checkout path, or place " +
			"the checkout path in 'invocations[].workingDirectory'.",
		Help:     githubSarifSupportURI,
		Level:    validation.LevelError,
		Disabled: true,
		Templates: map[string]string{
			provideCheckoutPath: "{0}: This result location is expressed as the absolute 'file' URI '{1}', " +
				"which is not under any invocation's 'workingDirectory'. GitHub code scanning will reject it.",
		},
	}}
}

func (r *ProvideCheckoutPath) AnalyzeRun(_ *validation.Context, run *sarif.Run, _ jsonpath.Path) {
	r.checkoutPaths = r.checkoutPaths[:0]
	for _, invocation := range run.Invocations {
		if invocation == nil || invocation.WorkingDirectory == nil || invocation.WorkingDirectory.URI == nil {
			continue
		}
		uri, err := url.Parse(*invocation.WorkingDirectory.URI)
		if err != nil || !uri.IsAbs() {
			continue
		}
		dir := uri.String()
		if !strings.HasSuffix(dir, "/") {
			dir += "/"
		}
		r.checkoutPaths = append(r.checkoutPaths, dir)
	}
}

func (r *ProvideCheckoutPath) AnalyzeResult(ctx *validation.Context, result *sarif.Result, p jsonpath.Path) {
	r.checkLocations(ctx, result.Locations, p.Property(sariflog.PropLocations))
	r.checkLocations(ctx, result.RelatedLocations, p.Property(sariflog.PropRelatedLocations))
}

func (r *ProvideCheckoutPath) checkLocations(ctx *validation.Context, locations []*sarif.Location, p jsonpath.Path) {
	for i, location := range locations {
		if location == nil || location.PhysicalLocation == nil ||
			location.PhysicalLocation.ArtifactLocation == nil ||
			location.PhysicalLocation.ArtifactLocation.URI == nil {
			continue
		}
		raw := *location.PhysicalLocation.ArtifactLocation.URI
		uri, err := url.Parse(raw)
		if err != nil || !uri.IsAbs() || uri.Scheme != "file" {
			continue
		}
		if r.underCheckoutPath(uri.String()) {
			continue
		}
		at := p.Index(i).
			Property(sariflog.PropPhysicalLocation).
			Property(sariflog.PropArtifactLocation).
			Property(sariflog.PropURI)
		r.LogResult(ctx, at, provideCheckoutPath, raw)
	}
}

func (r *ProvideCheckoutPath) underCheckoutPath(uri string) bool {
	for _, dir := range r.checkoutPaths {
		if strings.HasPrefix(uri, dir) {
			return true
		}
	}
	return false
}
