package rules

import (
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/sariflint/internal/jsonpath"
	sariflog "github.com/scan-io-git/sariflint/internal/sarif"
	"github.com/scan-io-git/sariflint/internal/validation"
)

const (
	endLineMustNotPrecedeStartLine     = "Error_EndLineMustNotPrecedeStartLine"
	endColumnMustNotPrecedeStartColumn = "Error_EndColumnMustNotPrecedeStartColumn"
	regionStartPropertyMustBePresent   = "Error_RegionStartPropertyMustBePresent"
)

// RegionsMustBeConsistent checks the line and column properties of a region
// against each other.
type RegionsMustBeConsistent struct {
	validation.RuleBase
}

func NewRegionsMustBeConsistent() validation.Rule {
	return &RegionsMustBeConsistent{RuleBase: validation.RuleBase{
		RuleID:   "SARIF1007",
		RuleName: "RegionsMustBeConsistent",
		Summary: "The properties of a 'region' object must be consistent. A region must specify where it " +
			"starts and must not end before it starts.",
		Help:  sarifSpecURI + "#_Toc34317685",
		Level: validation.LevelError,
		Templates: map[string]string{
			endLineMustNotPrecedeStartLine: "{0}: In this 'region' object, the 'endLine' property '{1}' is less " +
				"than the 'startLine' property '{2}'.",
			endColumnMustNotPrecedeStartColumn: "{0}: In this 'region' object, which occupies a single line, the " +
				"'endColumn' property '{1}' is less than the 'startColumn' property '{2}'.",
			regionStartPropertyMustBePresent: "{0}: This 'region' object does not specify 'startLine', " +
				"'charOffset', or 'byteOffset'. As a result, it is impossible to determine whether it is a " +
				"text or binary region, or where it starts.",
		},
	}}
}

func (r *RegionsMustBeConsistent) AnalyzeRegion(ctx *validation.Context, region *sarif.Region, p jsonpath.Path) {
	if region.StartLine == nil && region.CharOffset == nil && region.ByteOffset == nil {
		r.LogResult(ctx, p, regionStartPropertyMustBePresent)
		return
	}
	if region.StartLine == nil {
		return
	}

	startLine := *region.StartLine
	endLine := startLine
	if region.EndLine != nil {
		endLine = *region.EndLine
		if endLine < startLine {
			r.LogResult(ctx, p.Property(sariflog.PropEndLine), endLineMustNotPrecedeStartLine, endLine, startLine)
			return
		}
	}

	if endLine == startLine && region.StartColumn != nil && region.EndColumn != nil &&
		*region.EndColumn < *region.StartColumn {
		r.LogResult(ctx, p.Property(sariflog.PropEndColumn), endColumnMustNotPrecedeStartColumn,
			*region.EndColumn, *region.StartColumn)
	}
}
