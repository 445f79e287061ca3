package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/owenrumney/go-sarif/v2/sarif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/sariflint/internal/jsonpath"
	sariflog "github.com/scan-io-git/sariflint/internal/sarif"
)

const walkLog = `{
  "version": "2.1.0",
  "runs": [
    {
      "tool": {
        "driver": {
          "name": "demo",
          "rules": [
            { "id": "R1", "shortDescription": { "text": "short" }, "messageStrings": { "default": { "text": "{0}" } } }
          ]
        }
      },
      "originalUriBaseIds": { "SRC ROOT": { "uri": "file:///src/" } },
      "artifacts": [ { "location": { "uri": "a.c", "uriBaseId": "SRC ROOT" } } ],
      "results": [
        {
          "ruleId": "R1",
          "rule": { "id": "R1", "index": 0 },
          "message": { "text": "m" },
          "locations": [
            { "physicalLocation": { "artifactLocation": { "uri": "a.c" }, "region": { "startLine": 1 } } }
          ],
          "codeFlows": [
            { "threadFlows": [ { "locations": [ { "location": { "message": { "text": "step" } } } ] } ] }
          ],
          "taxa": [ { "index": 0 } ]
        }
      ]
    }
  ]
}`

const runPropertiesLog = `{
  "version": "2.1.0",
  "runs": [
    {
      "tool": {
        "driver": {
          "name": "demo",
          "translationMetadata": { "name": "tm", "shortDescription": { "text": "s" }, "fullDescription": { "text": "f" } }
        }
      },
      "invocations": [ { "executionSuccessful": true, "workingDirectory": { "uri": "file:///src/" } } ],
      "conversion": { "tool": { "driver": { "name": "converter" } } },
      "versionControlProvenance": [ { "repositoryUri": "https://example.com/repo.git" } ],
      "originalUriBaseIds": { "SRC": { "uri": "file:///src/" } },
      "artifacts": [ { "location": { "uri": "a.c" } } ],
      "logicalLocations": [ { "name": "f" } ],
      "graphs": [ { "description": { "text": "g" } } ],
      "results": [ { "ruleId": "R1", "message": { "text": "m" } } ],
      "automationDetails": { "id": "nightly/", "description": { "text": "nightly" } },
      "runAggregates": [ { "id": "all/", "description": { "text": "aggregate" } } ],
      "externalPropertyFileReferences": {
        "conversion": { "location": { "uri": "conversion.sarif-external-properties" } },
        "results": [ { "location": { "uri": "results.sarif-external-properties" } } ],
        "driver": { "location": { "uri": "driver.sarif-external-properties" } }
      },
      "threadFlowLocations": [ { "location": { "message": { "text": "step" } } } ],
      "taxonomies": [ { "name": "CWE" } ],
      "addresses": [ { "absoluteAddress": 4096 } ],
      "translations": [ { "name": "fr" } ],
      "policies": [ { "name": "policy" } ],
      "webRequests": [ { "method": "GET" } ],
      "webResponses": [ { "statusCode": 200 } ],
      "specialLocations": { "displayBase": { "uri": "file:///src/" } }
    }
  ]
}`

type visit struct {
	kind    NodeKind
	pointer string
}

func mustParse(t *testing.T, source string) *sariflog.Document {
	t.Helper()
	doc, err := sariflog.ParseDocument([]byte(source))
	require.NoError(t, err)
	return doc
}

func mustPointer(t *testing.T, pointer string) jsonpath.Path {
	t.Helper()
	p, err := jsonpath.ParsePointer(pointer)
	require.NoError(t, err)
	return p
}

func collect(diagnostics *[]Diagnostic) Sink {
	return SinkFunc(func(d Diagnostic) {
		*diagnostics = append(*diagnostics, d)
	})
}

func TestEngineVisitsEveryNodeOnceInDocumentOrder(t *testing.T) {
	doc := mustParse(t, walkLog)

	var visits []visit
	engine := NewEngine(nil, WithTrace(func(kind NodeKind, p jsonpath.Path) {
		visits = append(visits, visit{kind: kind, pointer: p.Pointer()})
	}))
	engine.Run(NewContext(doc, nil))

	want := []visit{
		{NodeLog, ""},
		{NodeRun, "/runs/0"},
		{NodeTool, "/runs/0/tool"},
		{NodeToolComponent, "/runs/0/tool/driver"},
		{NodeReportingDescriptor, "/runs/0/tool/driver/rules/0"},
		{NodeMultiformatMessageString, "/runs/0/tool/driver/rules/0/shortDescription"},
		{NodeMultiformatMessageString, "/runs/0/tool/driver/rules/0/messageStrings/default"},
		{NodeArtifactLocation, "/runs/0/originalUriBaseIds/SRC ROOT"},
		{NodeArtifact, "/runs/0/artifacts/0"},
		{NodeArtifactLocation, "/runs/0/artifacts/0/location"},
		{NodeResult, "/runs/0/results/0"},
		{NodeReportingDescriptorReference, "/runs/0/results/0/rule"},
		{NodeMessage, "/runs/0/results/0/message"},
		{NodeLocation, "/runs/0/results/0/locations/0"},
		{NodePhysicalLocation, "/runs/0/results/0/locations/0/physicalLocation"},
		{NodeArtifactLocation, "/runs/0/results/0/locations/0/physicalLocation/artifactLocation"},
		{NodeRegion, "/runs/0/results/0/locations/0/physicalLocation/region"},
		{NodeCodeFlow, "/runs/0/results/0/codeFlows/0"},
		{NodeThreadFlow, "/runs/0/results/0/codeFlows/0/threadFlows/0"},
		{NodeThreadFlowLocation, "/runs/0/results/0/codeFlows/0/threadFlows/0/locations/0"},
		{NodeLocation, "/runs/0/results/0/codeFlows/0/threadFlows/0/locations/0/location"},
		{NodeMessage, "/runs/0/results/0/codeFlows/0/threadFlows/0/locations/0/location/message"},
		{NodeReportingDescriptorReference, "/runs/0/results/0/taxa/0"},
	}
	assert.Equal(t, want, visits)

	seen := make(map[string]bool)
	for _, v := range visits {
		assert.False(t, seen[v.pointer], "visited twice: %s", v.pointer)
		seen[v.pointer] = true
	}
}

func TestEngineVisitsEveryRunProperty(t *testing.T) {
	doc := mustParse(t, runPropertiesLog)

	var visits []visit
	NewEngine(nil, WithTrace(func(kind NodeKind, p jsonpath.Path) {
		visits = append(visits, visit{kind: kind, pointer: p.Pointer()})
	})).Run(NewContext(doc, nil))

	want := []visit{
		{NodeLog, ""},
		{NodeRun, "/runs/0"},
		{NodeTool, "/runs/0/tool"},
		{NodeToolComponent, "/runs/0/tool/driver"},
		{NodeMultiformatMessageString, "/runs/0/tool/driver/translationMetadata/shortDescription"},
		{NodeMultiformatMessageString, "/runs/0/tool/driver/translationMetadata/fullDescription"},
		{NodeInvocation, "/runs/0/invocations/0"},
		{NodeArtifactLocation, "/runs/0/invocations/0/workingDirectory"},
		{NodeTool, "/runs/0/conversion/tool"},
		{NodeToolComponent, "/runs/0/conversion/tool/driver"},
		{NodeVersionControlDetails, "/runs/0/versionControlProvenance/0"},
		{NodeArtifactLocation, "/runs/0/originalUriBaseIds/SRC"},
		{NodeArtifact, "/runs/0/artifacts/0"},
		{NodeArtifactLocation, "/runs/0/artifacts/0/location"},
		{NodeLogicalLocation, "/runs/0/logicalLocations/0"},
		{NodeGraph, "/runs/0/graphs/0"},
		{NodeMessage, "/runs/0/graphs/0/description"},
		{NodeResult, "/runs/0/results/0"},
		{NodeMessage, "/runs/0/results/0/message"},
		{NodeMessage, "/runs/0/automationDetails/description"},
		{NodeMessage, "/runs/0/runAggregates/0/description"},
		{NodeArtifactLocation, "/runs/0/externalPropertyFileReferences/conversion/location"},
		{NodeArtifactLocation, "/runs/0/externalPropertyFileReferences/results/0/location"},
		{NodeArtifactLocation, "/runs/0/externalPropertyFileReferences/driver/location"},
		{NodeThreadFlowLocation, "/runs/0/threadFlowLocations/0"},
		{NodeLocation, "/runs/0/threadFlowLocations/0/location"},
		{NodeMessage, "/runs/0/threadFlowLocations/0/location/message"},
		{NodeToolComponent, "/runs/0/taxonomies/0"},
		{NodeAddress, "/runs/0/addresses/0"},
		{NodeToolComponent, "/runs/0/translations/0"},
		{NodeToolComponent, "/runs/0/policies/0"},
		{NodeWebRequest, "/runs/0/webRequests/0"},
		{NodeWebResponse, "/runs/0/webResponses/0"},
		{NodeArtifactLocation, "/runs/0/specialLocations/displayBase"},
	}
	assert.Equal(t, want, visits)

	for _, v := range visits {
		_, err := doc.Node(mustPointer(t, v.pointer))
		assert.NoError(t, err, v.pointer)
	}
}

func TestEngineVisitedPathsResolveToSourcePositions(t *testing.T) {
	doc := mustParse(t, walkLog)

	var paths []jsonpath.Path
	NewEngine(nil, WithTrace(func(_ NodeKind, p jsonpath.Path) {
		paths = append(paths, p)
	})).Run(NewContext(doc, nil))
	require.NotEmpty(t, paths)

	for _, p := range paths {
		node, err := doc.Node(p)
		require.NoError(t, err, p.Pointer())
		_, _, ok := node.LineInfo()
		assert.True(t, ok, p.Pointer())
	}

	region, err := doc.Node(jsonpath.Root().Property("runs").Index(0).Property("results").Index(0).
		Property("locations").Index(0).Property("physicalLocation").Property("region"))
	require.NoError(t, err)
	line, column, _ := region.LineInfo()
	assert.Equal(t, 21, line)
	assert.Equal(t, 85, column)
}

func TestEngineEmptyDocument(t *testing.T) {
	for _, source := range []string{
		`{"version": "2.1.0", "runs": []}`,
		`{"version": "2.1.0"}`,
	} {
		t.Run(source, func(t *testing.T) {
			doc := mustParse(t, source)
			rule := &recordingRule{RuleBase: testRuleBase("T1")}

			var diagnostics []Diagnostic
			assert.NotPanics(t, func() {
				NewEngine([]Rule{rule}).Run(NewContext(doc, collect(&diagnostics)))
			})
			assert.Empty(t, diagnostics)
			assert.Empty(t, rule.regions)
		})
	}
}

func TestEngineDispatchesInRuleIDOrder(t *testing.T) {
	doc := mustParse(t, walkLog)

	var order []string
	rules := []Rule{
		&orderRule{RuleBase: testRuleBase("SARIF2000"), order: &order},
		&orderRule{RuleBase: testRuleBase("SARIF1000"), order: &order},
		&orderRule{RuleBase: testRuleBase("GH1000"), order: &order},
	}
	engine := NewEngine(rules)
	engine.Run(NewContext(doc, nil))

	assert.Equal(t, []string{"GH1000", "SARIF1000", "SARIF2000"}, order)
	assert.Equal(t, "GH1000", engine.Rules()[0].ID())
}

func TestEngineTracksReferenceKind(t *testing.T) {
	doc := mustParse(t, `{
  "version": "2.1.0",
  "runs": [{
    "tool": {"driver": {"name": "x"}},
    "invocations": [{
      "executionSuccessful": true,
      "ruleConfigurationOverrides": [{"descriptor": {"index": 0}, "configuration": {}}],
      "notificationConfigurationOverrides": [{"descriptor": {"index": 1}, "configuration": {}}],
      "toolExecutionNotifications": [{"message": {"text": "n"}, "descriptor": {"index": 2}, "associatedRule": {"index": 3}}]
    }],
    "results": [{
      "message": {"text": "m"},
      "rule": {"index": 4},
      "taxa": [{"index": 5}],
      "codeFlows": [{"threadFlows": [{"locations": [{"taxa": [{"index": 6}]}]}]}]
    }]
  }]
}`)

	rule := &recordingRule{RuleBase: testRuleBase("T1"), kinds: map[string]ReferenceKind{}}
	ctx := NewContext(doc, nil)
	NewEngine([]Rule{rule}).Run(ctx)

	assert.Equal(t, map[string]ReferenceKind{
		"/runs/0/invocations/0/ruleConfigurationOverrides/0/descriptor":         ReferenceKindRule,
		"/runs/0/invocations/0/notificationConfigurationOverrides/0/descriptor": ReferenceKindNotification,
		"/runs/0/invocations/0/toolExecutionNotifications/0/descriptor":         ReferenceKindNotification,
		"/runs/0/invocations/0/toolExecutionNotifications/0/associatedRule":     ReferenceKindRule,
		"/runs/0/results/0/rule":                                                ReferenceKindRule,
		"/runs/0/results/0/taxa/0":                                              ReferenceKindTaxon,
		"/runs/0/results/0/codeFlows/0/threadFlows/0/locations/0/taxa/0":        ReferenceKindTaxon,
	}, rule.kinds)
	assert.Equal(t, ReferenceKindNone, ctx.CurrentReportingDescriptorReferenceKind)
}

func TestEngineTracksCurrentRunAndResult(t *testing.T) {
	doc := mustParse(t, `{"version": "2.1.0", "runs": [
  {"tool": {"driver": {"name": "a"}}, "results": [{"message": {"text": "1"}}, {"message": {"text": "2"}}]},
  {"tool": {"driver": {"name": "b"}}, "results": [{"message": {"text": "3"}}]}
]}`)

	rule := &recordingRule{RuleBase: testRuleBase("T1")}
	ctx := NewContext(doc, nil)
	NewEngine([]Rule{rule}).Run(ctx)

	assert.Equal(t, []string{"a/0/0:1", "a/0/1:2", "b/1/0:3"}, rule.messages)
	assert.Nil(t, ctx.CurrentRun)
	assert.Equal(t, -1, ctx.CurrentRunIndex)
	assert.Nil(t, ctx.CurrentResult)
	assert.Equal(t, -1, ctx.CurrentResultIndex)
}

func TestContextRestoredWhenRuleFaults(t *testing.T) {
	doc := mustParse(t, walkLog)

	t.Run("top level", func(t *testing.T) {
		ctx := NewContext(doc, nil)
		engine := NewEngine([]Rule{&panicRule{RuleBase: testRuleBase("BAD")}})

		assert.Panics(t, func() { engine.Run(ctx) })
		assert.Nil(t, ctx.CurrentRun)
		assert.Equal(t, -1, ctx.CurrentRunIndex)
		assert.Nil(t, ctx.CurrentResult)
		assert.Equal(t, ReferenceKindNone, ctx.CurrentReportingDescriptorReferenceKind)
	})

	t.Run("pre-seeded", func(t *testing.T) {
		ctx := NewContext(doc, nil)
		outer := &sarif.Run{}
		restore := ctx.EnterRun(outer, 7)
		defer restore()

		engine := NewEngine([]Rule{&panicRule{RuleBase: testRuleBase("BAD")}})
		assert.Panics(t, func() { engine.Run(ctx) })
		assert.Same(t, outer, ctx.CurrentRun)
		assert.Equal(t, 7, ctx.CurrentRunIndex)
	})
}

func TestDispatchHookIsolatesFaultingRule(t *testing.T) {
	doc := mustParse(t, `{"version": "2.1.0", "runs": [{"tool": {"driver": {"name": "x"}}, "results": [
  {"message": {"text": "a"}, "locations": [{"physicalLocation": {"region": {"startLine": 1}}}]},
  {"message": {"text": "b"}, "locations": [{"physicalLocation": {"region": {"startLine": 2}}}]}
]}]}`)

	runAlone := func() []Diagnostic {
		var diagnostics []Diagnostic
		rule := &recordingRule{RuleBase: testRuleBase("GOOD")}
		NewEngine([]Rule{rule}).Run(NewContext(doc, collect(&diagnostics)))
		return diagnostics
	}

	var diagnostics []Diagnostic
	var faults []string
	good := &recordingRule{RuleBase: testRuleBase("GOOD")}
	bad := &panicRule{RuleBase: testRuleBase("BAD")}
	engine := NewEngine([]Rule{bad, good}, WithDispatch(func(rule Rule, kind NodeKind, p jsonpath.Path, analyze func()) {
		defer func() {
			if r := recover(); r != nil {
				faults = append(faults, fmt.Sprintf("%s %s %s", rule.ID(), kind, p.Pointer()))
			}
		}()
		analyze()
	}))
	engine.Run(NewContext(doc, collect(&diagnostics)))

	assert.Equal(t, []string{
		"BAD result /runs/0/results/0",
		"BAD result /runs/0/results/1",
	}, faults)
	assert.Len(t, good.regions, 2)
	assert.Equal(t, runAlone(), diagnostics)
}

func TestLogResult(t *testing.T) {
	doc := mustParse(t, walkLog)
	rule := testRuleBase("T1")
	rule.Templates["pair"] = "{0}: {1} then {2}"
	region := jsonpath.Root().Property("runs").Index(0).Property("results").Index(0).
		Property("locations").Index(0).Property("physicalLocation").Property("region")

	t.Run("renders location and arguments", func(t *testing.T) {
		var diagnostics []Diagnostic
		ctx := NewContext(doc, collect(&diagnostics))
		LogResult(ctx, &rule, region, "pair", 5, "x")

		require.Len(t, diagnostics, 1)
		d := diagnostics[0]
		assert.Equal(t, KindResult, d.Kind)
		assert.Equal(t, "T1", d.RuleID)
		assert.Equal(t, LevelError, d.Level)
		assert.Equal(t, "/runs/0/results/0/locations/0/physicalLocation/region", d.Pointer)
		assert.Equal(t, "runs[0].results[0].locations[0].physicalLocation.region", d.Accessor)
		assert.Equal(t, "runs[0].results[0].locations[0].physicalLocation.region: 5 then x", d.Message)
		assert.Equal(t, []string{d.Accessor, "5", "x"}, d.Arguments)
		assert.Equal(t, 21, d.Line)
		assert.Equal(t, 85, d.Column)
	})

	t.Run("root location", func(t *testing.T) {
		var diagnostics []Diagnostic
		LogResult(NewContext(doc, collect(&diagnostics)), &rule, jsonpath.Root(), "default")

		require.Len(t, diagnostics, 1)
		assert.Equal(t, "(root): found", diagnostics[0].Message)
		assert.Equal(t, 1, diagnostics[0].Line)
	})

	t.Run("absent leaf has no position", func(t *testing.T) {
		var diagnostics []Diagnostic
		LogResult(NewContext(doc, collect(&diagnostics)), &rule, region.Property("endLine"), "default")

		require.Len(t, diagnostics, 1)
		assert.False(t, diagnostics[0].HasPosition())
	})

	t.Run("level override", func(t *testing.T) {
		var diagnostics []Diagnostic
		ctx := NewContext(doc, collect(&diagnostics), WithLevel("T1", LevelNote))
		LogResult(ctx, &rule, region, "default")

		require.Len(t, diagnostics, 1)
		assert.Equal(t, LevelNote, diagnostics[0].Level)
	})

	t.Run("unknown template", func(t *testing.T) {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(*UnknownTemplateError)
			require.True(t, ok)
			assert.Equal(t, "missing", err.TemplateID)
			assert.True(t, IsInvariantViolation(r))
		}()
		LogResult(NewContext(doc, nil), &rule, region, "missing")
	})

	t.Run("unresolvable path", func(t *testing.T) {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(error)
			require.True(t, ok)
			var notFound *jsonpath.PathNotFoundError
			assert.True(t, errors.As(err, &notFound))
			assert.True(t, IsInvariantViolation(r))
		}()
		LogResult(NewContext(doc, nil), &rule, jsonpath.Root().Property("runs").Index(4).Property("results"), "default")
	})
}

func TestCheckRule(t *testing.T) {
	valid := testRuleBase("T1")
	assert.NoError(t, CheckRule(&valid))

	tests := []struct {
		name   string
		mutate func(r *RuleBase)
	}{
		{name: "empty id", mutate: func(r *RuleBase) { r.RuleID = "" }},
		{name: "empty name", mutate: func(r *RuleBase) { r.RuleName = "" }},
		{name: "no templates", mutate: func(r *RuleBase) { r.Templates = nil }},
		{name: "bad placeholder", mutate: func(r *RuleBase) { r.Templates["x"] = "{0} {one}" }},
		{name: "unbalanced brace", mutate: func(r *RuleBase) { r.Templates["x"] = "{0} }" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := testRuleBase("T1")
			tt.mutate(&rule)
			assert.Error(t, CheckRule(&rule))
		})
	}
}

func TestParseLevel(t *testing.T) {
	for _, level := range []Level{LevelNone, LevelNote, LevelWarning, LevelError} {
		parsed, err := ParseLevel(level.String())
		require.NoError(t, err)
		assert.Equal(t, level, parsed)
	}
	parsed, err := ParseLevel(" Warning ")
	require.NoError(t, err)
	assert.Equal(t, LevelWarning, parsed)

	_, err = ParseLevel("high")
	assert.Error(t, err)
}

func testRuleBase(id string) RuleBase {
	return RuleBase{
		RuleID:    id,
		RuleName:  "Test" + id,
		Summary:   "test rule",
		Level:     LevelError,
		Templates: map[string]string{"default": "{0}: found"},
	}
}

type recordingRule struct {
	RuleBase
	regions  []string
	messages []string
	kinds    map[string]ReferenceKind
}

func (r *recordingRule) AnalyzeRegion(ctx *Context, region *sarif.Region, p jsonpath.Path) {
	r.regions = append(r.regions, p.Pointer())
	r.LogResult(ctx, p, "default")
}

func (r *recordingRule) AnalyzeMessage(ctx *Context, message *sarif.Message, p jsonpath.Path) {
	if ctx.CurrentResult == nil || message != &ctx.CurrentResult.Message || message.Text == nil {
		return
	}
	r.messages = append(r.messages, fmt.Sprintf("%s/%d/%d:%s",
		ctx.CurrentRun.Tool.Driver.Name, ctx.CurrentRunIndex, ctx.CurrentResultIndex, *message.Text))
}

func (r *recordingRule) AnalyzeReportingDescriptorReference(ctx *Context, _ *sarif.ReportingDescriptorReference, p jsonpath.Path) {
	if r.kinds != nil {
		r.kinds[p.Pointer()] = ctx.CurrentReportingDescriptorReferenceKind
	}
}

type orderRule struct {
	RuleBase
	order *[]string
}

func (r *orderRule) AnalyzeRun(_ *Context, _ *sarif.Run, _ jsonpath.Path) {
	*r.order = append(*r.order, r.ID())
}

type panicRule struct {
	RuleBase
}

func (r *panicRule) AnalyzeResult(_ *Context, _ *sarif.Result, p jsonpath.Path) {
	panic(fmt.Sprintf("cannot analyze %s", p.Pointer()))
}
