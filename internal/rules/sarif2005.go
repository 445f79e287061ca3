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
	provideToolVersion        = "Warning_ProvideToolVersion"
	provideConciseToolName    = "Warning_ProvideConciseToolName"
	useNumericToolVersions    = "Warning_UseNumericToolVersions"
	provideToolInformationURI = "Warning_ProvideToolInformationUri"
)

// Options of SARIF2005.
const (
	OptionInformationURIRequired      = "information_uri_required"
	OptionAcceptableVersionProperties = "acceptable_version_properties"
)

const maxToolNameWords = 3

var numericVersion = regexp.MustCompile(`^\d+`)

var defaultVersionProperties = []string{
	sariflog.PropVersion,
	sariflog.PropSemanticVersion,
	sariflog.PropDottedQuadFileVersion,
}

// ProvideToolProperties asks for a short tool name, a version, and a link to
// more information about the tool.
type ProvideToolProperties struct {
	validation.RuleBase
}

func NewProvideToolProperties() validation.Rule {
	return &ProvideToolProperties{RuleBase: validation.RuleBase{
		RuleID:   "SARIF2005",
		RuleName: "ProvideToolProperties",
		Summary: "Provide information that makes it easy to identify the name and version of your tool. " +
			"The tool's 'name' should be no more than three words long, and the tool should provide " +
			"'version', 'semanticVersion' or 'dottedQuadFileVersion'.",
		Help:  sarifSpecURI + "#_Toc34317533",
		Level: validation.LevelWarning,
		Templates: map[string]string{
			provideToolVersion: "{0}: The tool '{1}' does not provide any of the version-related properties {2}.",
			provideConciseToolName: "{0}: The tool name '{1}' contains {2} words, which is more than the " +
				"recommended maximum of {3} words.",
			useNumericToolVersions: "{0}: The tool '{1}' contains the 'version' property '{2}', which is not " +
				"numeric.",
			provideToolInformationURI: "{0}: The tool '{1}' does not provide 'informationUri'.",
		},
	}}
}

func (r *ProvideToolProperties) AnalyzeTool(ctx *validation.Context, tool *sarif.Tool, p jsonpath.Path) {
	if tool.Driver == nil {
		return
	}
	driver := tool.Driver
	driverPath := p.Property(sariflog.PropDriver)

	if words := len(strings.Fields(driver.Name)); words > maxToolNameWords {
		r.LogResult(ctx, driverPath.Property(sariflog.PropName), provideConciseToolName,
			driver.Name, words, maxToolNameWords)
	}

	if optionBool(ctx, r, OptionInformationURIRequired, true) && driver.InformationURI == nil {
		r.LogResult(ctx, driverPath, provideToolInformationURI, driver.Name)
	}

	acceptable := optionList(ctx, r, OptionAcceptableVersionProperties, defaultVersionProperties)
	values := map[string]*string{
		sariflog.PropVersion:               driver.Version,
		sariflog.PropSemanticVersion:       driver.SemanticVersion,
		sariflog.PropDottedQuadFileVersion: driver.DottedQuadFileVersion,
	}
	provided := false
	for _, property := range acceptable {
		if v := values[property]; v != nil && strings.TrimSpace(*v) != "" {
			provided = true
			break
		}
	}
	if !provided {
		r.LogResult(ctx, driverPath, provideToolVersion, driver.Name, "'"+strings.Join(acceptable, "', '")+"'")
		return
	}

	if driver.Version != nil && strings.TrimSpace(*driver.Version) != "" && !numericVersion.MatchString(*driver.Version) {
		r.LogResult(ctx, driverPath.Property(sariflog.PropVersion), useNumericToolVersions, driver.Name, *driver.Version)
	}
}
