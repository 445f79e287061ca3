package rules

import (
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/sariflint/internal/jsonpath"
	sariflog "github.com/scan-io-git/sariflint/internal/sarif"
	"github.com/scan-io-git/sariflint/internal/validation"
)

const (
	targetArrayMustExist        = "Error_TargetArrayMustExist"
	targetArrayMustBeLongEnough = "Error_TargetArrayMustBeLongEnough"
)

// IndexPropertiesMustBeConsistentWithArrays checks that every index-valued
// property points at an element of an array that exists.
//
// Index values are read from the raw tree. go-sarif declares most of them
// unsigned, so a negative index never reaches the typed model.
type IndexPropertiesMustBeConsistentWithArrays struct {
	validation.RuleBase
}

func NewIndexPropertiesMustBeConsistentWithArrays() validation.Rule {
	return &IndexPropertiesMustBeConsistentWithArrays{RuleBase: validation.RuleBase{
		RuleID:   "SARIF1009",
		RuleName: "IndexPropertiesMustBeConsistentWithArrays",
		Summary: "If an object contains a property that is used as an array index (an \"index-valued " +
			"property\"), then that array must be present and must contain at least \"index + 1\" elements.",
		Help:  sarifSpecURI + "#_Toc34317497",
		Level: validation.LevelError,
		Templates: map[string]string{
			targetArrayMustExist: "{0}: This '{1}' object contains a property '{2}' with value {3}, but '{4}' " +
				"does not exist. An index-valued property always refers to an array, so the array must be present.",
			targetArrayMustBeLongEnough: "{0}: This '{1}' object contains a property '{2}' with value {3}, but " +
				"'{4}' has fewer than {5} elements. An index-valued property must be valid for the array that it refers to.",
		},
	}}
}

// target describes the array an index property refers to.
type target struct {
	object   string
	property string
	exists   bool
	length   int
	array    string
}

func (r *IndexPropertiesMustBeConsistentWithArrays) check(ctx *validation.Context, p jsonpath.Path, t target) {
	index, ok := ctx.Document.Integer(p, t.property)
	if !ok || index == notSpecified {
		return
	}
	at := p.Property(t.property)
	if !t.exists {
		r.LogResult(ctx, at, targetArrayMustExist, t.object, t.property, index, t.array)
		return
	}
	if index < 0 || index >= int64(t.length) {
		r.LogResult(ctx, at, targetArrayMustBeLongEnough, t.object, t.property, index, t.array, index+1)
	}
}

func (r *IndexPropertiesMustBeConsistentWithArrays) AnalyzeAddress(ctx *validation.Context, _ *sarif.Address, p jsonpath.Path) {
	run := ctx.CurrentRun
	if run == nil {
		return
	}
	for _, property := range []string{sariflog.PropIndex, sariflog.PropParentIndex} {
		r.check(ctx, p, target{
			object:   "address",
			property: property,
			exists:   run.Addresses != nil,
			length:   len(run.Addresses),
			array:    runArray(ctx, sariflog.PropAddresses),
		})
	}
}

func (r *IndexPropertiesMustBeConsistentWithArrays) AnalyzeArtifact(ctx *validation.Context, _ *sarif.Artifact, p jsonpath.Path) {
	run := ctx.CurrentRun
	if run == nil {
		return
	}
	r.check(ctx, p, target{
		object:   "artifact",
		property: sariflog.PropParentIndex,
		exists:   run.Artifacts != nil,
		length:   len(run.Artifacts),
		array:    runArray(ctx, sariflog.PropArtifacts),
	})
}

func (r *IndexPropertiesMustBeConsistentWithArrays) AnalyzeArtifactLocation(ctx *validation.Context, _ *sarif.ArtifactLocation, p jsonpath.Path) {
	run := ctx.CurrentRun
	if run == nil {
		return
	}
	r.check(ctx, p, target{
		object:   "artifactLocation",
		property: sariflog.PropIndex,
		exists:   run.Artifacts != nil,
		length:   len(run.Artifacts),
		array:    runArray(ctx, sariflog.PropArtifacts),
	})
}

func (r *IndexPropertiesMustBeConsistentWithArrays) AnalyzeGraphTraversal(ctx *validation.Context, _ *sarif.GraphTraversal, p jsonpath.Path) {
	run := ctx.CurrentRun
	if run == nil {
		return
	}
	r.check(ctx, p, target{
		object:   "graphTraversal",
		property: sariflog.PropRunGraphIndex,
		exists:   run.Graphs != nil,
		length:   len(run.Graphs),
		array:    runArray(ctx, sariflog.PropGraphs),
	})

	result := ctx.CurrentResult
	if result == nil {
		return
	}
	graphs := runPath(ctx).
		Property(sariflog.PropResults).Index(ctx.CurrentResultIndex).
		Property(sariflog.PropGraphs)
	r.check(ctx, p, target{
		object:   "graphTraversal",
		property: sariflog.PropResultGraphIndex,
		exists:   result.Graphs != nil,
		length:   len(result.Graphs),
		array:    graphs.Accessor(),
	})
}

func (r *IndexPropertiesMustBeConsistentWithArrays) AnalyzeLogicalLocation(ctx *validation.Context, _ *sarif.LogicalLocation, p jsonpath.Path) {
	run := ctx.CurrentRun
	if run == nil {
		return
	}
	for _, property := range []string{sariflog.PropIndex, sariflog.PropParentIndex} {
		r.check(ctx, p, target{
			object:   "logicalLocation",
			property: property,
			exists:   run.LogicalLocations != nil,
			length:   len(run.LogicalLocations),
			array:    runArray(ctx, sariflog.PropLogicalLocations),
		})
	}
}

// AnalyzeResult checks ruleIndex against the rules of the component named by
// result.rule.toolComponent, which is the driver unless stated otherwise.
func (r *IndexPropertiesMustBeConsistentWithArrays) AnalyzeResult(ctx *validation.Context, result *sarif.Result, p jsonpath.Path) {
	run := ctx.CurrentRun
	if run == nil {
		return
	}

	var ref *sarif.ToolComponentReference
	refPath := p.Property(sariflog.PropRule).Property(sariflog.PropToolComponent)
	if result.Rule != nil {
		ref = result.Rule.ToolComponent
	}
	component, ok := resolveToolComponent(ctx, ref, refPath, validation.ReferenceKindRule)
	if !ok && ref != nil {
		// SARIF1017 reports references to unknown tool components.
		return
	}

	array := runArray(ctx, sariflog.PropTool, sariflog.PropDriver, sariflog.PropRules)
	if ref != nil && component != run.Tool.Driver {
		if index, ok := ctx.Document.Integer(refPath, sariflog.PropIndex); ok {
			array = runPath(ctx).Property(sariflog.PropTool).Property(sariflog.PropExtensions).
				Index(int(index)).Property(sariflog.PropRules).Accessor()
		}
	}

	var rules []*sarif.ReportingDescriptor
	if component != nil {
		rules = component.Rules
	}
	r.check(ctx, p, target{
		object:   "result",
		property: sariflog.PropRuleIndex,
		exists:   rules != nil,
		length:   len(rules),
		array:    array,
	})
}

func (r *IndexPropertiesMustBeConsistentWithArrays) AnalyzeResultProvenance(ctx *validation.Context, _ *sarif.ResultProvenance, p jsonpath.Path) {
	run := ctx.CurrentRun
	if run == nil {
		return
	}
	r.check(ctx, p, target{
		object:   "resultProvenance",
		property: sariflog.PropInvocationIndex,
		exists:   run.Invocations != nil,
		length:   len(run.Invocations),
		array:    runArray(ctx, sariflog.PropInvocations),
	})
}

func (r *IndexPropertiesMustBeConsistentWithArrays) AnalyzeThreadFlowLocation(ctx *validation.Context, _ *sarif.ThreadFlowLocation, p jsonpath.Path) {
	run := ctx.CurrentRun
	if run == nil {
		return
	}
	r.check(ctx, p, target{
		object:   "threadFlowLocation",
		property: sariflog.PropIndex,
		exists:   run.ThreadFlowLocations != nil,
		length:   len(run.ThreadFlowLocations),
		array:    runArray(ctx, sariflog.PropThreadFlowLocations),
	})
}

func (r *IndexPropertiesMustBeConsistentWithArrays) AnalyzeWebRequest(ctx *validation.Context, _ *sarif.WebRequest, p jsonpath.Path) {
	run := ctx.CurrentRun
	if run == nil {
		return
	}
	r.check(ctx, p, target{
		object:   "webRequest",
		property: sariflog.PropIndex,
		exists:   run.WebRequests != nil,
		length:   len(run.WebRequests),
		array:    runArray(ctx, sariflog.PropWebRequests),
	})
}

func (r *IndexPropertiesMustBeConsistentWithArrays) AnalyzeWebResponse(ctx *validation.Context, _ *sarif.WebResponse, p jsonpath.Path) {
	run := ctx.CurrentRun
	if run == nil {
		return
	}
	r.check(ctx, p, target{
		object:   "webResponse",
		property: sariflog.PropIndex,
		exists:   run.WebResponses != nil,
		length:   len(run.WebResponses),
		array:    runArray(ctx, sariflog.PropWebResponses),
	})
}
