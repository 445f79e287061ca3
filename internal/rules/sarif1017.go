package rules

import (
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/sariflint/internal/jsonpath"
	sariflog "github.com/scan-io-git/sariflint/internal/sarif"
	"github.com/scan-io-git/sariflint/internal/validation"
)

const (
	referenceIndexMustBeInRange       = "Error_ReferenceIndexMustBeInRange"
	referenceIDMustMatchDescriptor    = "Error_ReferenceIdMustMatchDescriptor"
	toolComponentReferenceMustResolve = "Error_ToolComponentReferenceMustResolve"
)

// ReportingDescriptorReferencesMustResolve checks that the index of a
// reportingDescriptorReference lies inside the descriptor array it refers to.
// Which array that is depends on where the reference occurs: result.rule refers
// to rules, notification.descriptor to notifications, result.taxa to taxa.
type ReportingDescriptorReferencesMustResolve struct {
	validation.RuleBase
}

func NewReportingDescriptorReferencesMustResolve() validation.Rule {
	return &ReportingDescriptorReferencesMustResolve{RuleBase: validation.RuleBase{
		RuleID:   "SARIF1017",
		RuleName: "ReportingDescriptorReferencesMustResolve",
		Summary: "A 'reportingDescriptorReference' must identify an existing descriptor: its 'index' must " +
			"lie within the 'rules', 'notifications' or 'taxa' array it refers to, and its 'id', if " +
			"present, must match the descriptor at that index.",
		Help:  sarifSpecURI + "#_Toc34317862",
		Level: validation.LevelError,
		Templates: map[string]string{
			referenceIndexMustBeInRange: "{0}: This 'reportingDescriptorReference' has 'index' {1}, but the " +
				"'{2}' array of the tool component it refers to contains only {3} elements.",
			referenceIDMustMatchDescriptor: "{0}: This 'reportingDescriptorReference' has 'id' '{1}', but the " +
				"element at index {2} of the '{3}' array has 'id' '{4}'.",
			toolComponentReferenceMustResolve: "{0}: This 'toolComponentReference' does not identify any " +
				"element of '{1}', which contains {2} elements.",
		},
	}}
}

func (r *ReportingDescriptorReferencesMustResolve) AnalyzeReportingDescriptorReference(ctx *validation.Context, ref *sarif.ReportingDescriptorReference, p jsonpath.Path) {
	kind := ctx.CurrentReportingDescriptorReferenceKind
	if kind == validation.ReferenceKindNone || ctx.CurrentRun == nil {
		return
	}

	componentPath := p.Property(sariflog.PropToolComponent)
	component, ok := resolveToolComponent(ctx, ref.ToolComponent, componentPath, kind)
	if !ok {
		if ref.ToolComponent != nil {
			r.reportUnresolvedComponent(ctx, componentPath, kind)
		}
		return
	}

	index, ok := ctx.Document.Integer(p, sariflog.PropIndex)
	if !ok || index == notSpecified {
		return
	}
	array := descriptors(component, kind)
	if index < 0 || index >= int64(len(array)) {
		r.LogResult(ctx, p.Property(sariflog.PropIndex), referenceIndexMustBeInRange,
			index, kind.ArrayName(), len(array))
		return
	}

	if descriptor := array[index]; ref.Id != nil && descriptor != nil && *ref.Id != descriptor.ID {
		r.LogResult(ctx, p.Property(sariflog.PropID), referenceIDMustMatchDescriptor,
			*ref.Id, index, kind.ArrayName(), descriptor.ID)
	}
}

func (r *ReportingDescriptorReferencesMustResolve) reportUnresolvedComponent(ctx *validation.Context, p jsonpath.Path, kind validation.ReferenceKind) {
	property, count := sariflog.PropExtensions, len(ctx.CurrentRun.Tool.Extensions)
	array := runPath(ctx).Property(sariflog.PropTool).Property(property)
	if kind == validation.ReferenceKindTaxon {
		property, count = sariflog.PropTaxonomies, len(ctx.CurrentRun.Taxonomies)
		array = runPath(ctx).Property(property)
	}
	r.LogResult(ctx, p, toolComponentReferenceMustResolve, array.Accessor(), count)
}
