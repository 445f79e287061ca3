package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sariflog "github.com/scan-io-git/sariflint/internal/sarif"
	"github.com/scan-io-git/sariflint/internal/validation"
)

func analyze(t *testing.T, rule validation.Rule, source string, opts ...validation.ContextOption) []validation.Diagnostic {
	t.Helper()
	doc, err := sariflog.ParseDocument([]byte(source))
	require.NoError(t, err)

	var got []validation.Diagnostic
	sink := validation.SinkFunc(func(d validation.Diagnostic) {
		got = append(got, d)
	})
	validation.NewEngine([]validation.Rule{rule}).Run(validation.NewContext(doc, sink, opts...))
	return got
}

// withRun wraps the members of a single run into a log.
func withRun(members string) string {
	return `{"version":"2.1.0","runs":[{` + members + `}]}`
}

func templates(diagnostics []validation.Diagnostic) []string {
	ids := make([]string, 0, len(diagnostics))
	for _, d := range diagnostics {
		ids = append(ids, d.TemplateID)
	}
	return ids
}

func TestRegionsMustBeConsistent(t *testing.T) {
	region := func(r string) string {
		return withRun(`"tool":{"driver":{"name":"demo"}},"results":[{"ruleId":"R1","message":{"text":"m"},` +
			`"locations":[{"physicalLocation":{"artifactLocation":{"uri":"a.c"},"region":` + r + `}}]}]`)
	}

	t.Run("end line before start line", func(t *testing.T) {
		got := analyze(t, NewRegionsMustBeConsistent(), region(`{"startLine":5,"endLine":3}`))
		require.Len(t, got, 1)

		d := got[0]
		assert.Equal(t, "SARIF1007", d.RuleID)
		assert.Equal(t, validation.LevelError, d.Level)
		assert.Equal(t, "runs[0].results[0].locations[0].physicalLocation.region.endLine", d.Accessor)
		assert.Equal(t, "/runs/0/results/0/locations/0/physicalLocation/region/endLine", d.Pointer)
		assert.Equal(t, []string{d.Accessor, "3", "5"}, d.Arguments)
		assert.Contains(t, d.Message, "'3'")
		assert.Contains(t, d.Message, "'5'")
		assert.True(t, d.HasPosition())
	})

	tests := []struct {
		name   string
		region string
		want   []string
	}{
		{name: "consistent", region: `{"startLine":3,"endLine":5,"startColumn":9,"endColumn":2}`},
		{name: "single line", region: `{"startLine":3,"startColumn":1,"endColumn":4}`},
		{name: "end column before start column", region: `{"startLine":3,"endLine":3,"startColumn":9,"endColumn":2}`,
			want: []string{endColumnMustNotPrecedeStartColumn}},
		{name: "implicit end line", region: `{"startLine":3,"startColumn":9,"endColumn":2}`,
			want: []string{endColumnMustNotPrecedeStartColumn}},
		{name: "binary region", region: `{"byteOffset":10,"byteLength":2}`},
		{name: "no start", region: `{"endLine":3}`, want: []string{regionStartPropertyMustBePresent}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyze(t, NewRegionsMustBeConsistent(), region(tt.region))
			assert.ElementsMatch(t, tt.want, templates(got))
		})
	}
}

func TestRuleIDMustBeConsistent(t *testing.T) {
	result := func(r string) string {
		return withRun(`"tool":{"driver":{"name":"demo"}},"results":[` + r + `]`)
	}

	t.Run("mismatched ids", func(t *testing.T) {
		got := analyze(t, NewRuleIDMustBeConsistent(), result(`{"ruleId":"R1","rule":{"id":"R2"},"message":{"text":"m"}}`))
		require.Len(t, got, 1)

		d := got[0]
		assert.Equal(t, resultRuleIDMustBeConsistent, d.TemplateID)
		assert.Equal(t, "runs[0].results[0].ruleId", d.Accessor)
		assert.Equal(t, []string{d.Accessor, "R1", "R2"}, d.Arguments)
		assert.Contains(t, d.Message, "R1")
		assert.Contains(t, d.Message, "R2")
	})

	tests := []struct {
		name   string
		result string
		want   []string
	}{
		{name: "rule id only", result: `{"ruleId":"R1","message":{"text":"m"}}`},
		{name: "reference id only", result: `{"rule":{"id":"R1"},"message":{"text":"m"}}`},
		{name: "equal ids", result: `{"ruleId":"R1","rule":{"id":"R1"},"message":{"text":"m"}}`},
		{name: "no id", result: `{"ruleIndex":0,"message":{"text":"m"}}`, want: []string{resultMustSpecifyRuleID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyze(t, NewRuleIDMustBeConsistent(), result(tt.result))
			assert.Equal(t, tt.want, nilIfEmpty(templates(got)))
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

const threeRules = `"tool":{"driver":{"name":"demo","rules":[{"id":"R1"},{"id":"R2"},{"id":"R3"}],` +
	`"notifications":[{"id":"N1"}]}}`

func TestReportingDescriptorReferencesMustResolve(t *testing.T) {
	t.Run("rule index out of range", func(t *testing.T) {
		source := withRun(threeRules + `,"results":[{"ruleId":"R1","rule":{"index":5},"message":{"text":"m"}}]`)
		got := analyze(t, NewReportingDescriptorReferencesMustResolve(), source)
		require.Len(t, got, 1)

		d := got[0]
		assert.Equal(t, "SARIF1017", d.RuleID)
		assert.Equal(t, "runs[0].results[0].rule.index", d.Accessor)
		assert.Equal(t, []string{d.Accessor, "5", "rules", "3"}, d.Arguments)
	})

	t.Run("notification descriptor resolves against notifications", func(t *testing.T) {
		source := withRun(threeRules + `,"invocations":[{"executionSuccessful":true,"toolExecutionNotifications":[` +
			`{"message":{"text":"m"},"descriptor":{"index":2},"associatedRule":{"index":2}}]}],"results":[]`)
		got := analyze(t, NewReportingDescriptorReferencesMustResolve(), source)
		require.Len(t, got, 1)

		d := got[0]
		assert.Equal(t, "runs[0].invocations[0].toolExecutionNotifications[0].descriptor.index", d.Accessor)
		assert.Equal(t, []string{d.Accessor, "2", "notifications", "1"}, d.Arguments)
	})

	t.Run("taxa resolve against taxonomies", func(t *testing.T) {
		source := withRun(threeRules + `,"taxonomies":[{"name":"CWE","taxa":[{"id":"79"}]}],` +
			`"results":[{"ruleId":"R1","message":{"text":"m"},"taxa":[{"index":0,"toolComponent":{"index":0}},` +
			`{"index":1,"toolComponent":{"index":0}}]}]`)
		got := analyze(t, NewReportingDescriptorReferencesMustResolve(), source)
		require.Len(t, got, 1)

		d := got[0]
		assert.Equal(t, "runs[0].results[0].taxa[1].index", d.Accessor)
		assert.Equal(t, []string{d.Accessor, "1", "taxa", "1"}, d.Arguments)
	})

	t.Run("id must match descriptor", func(t *testing.T) {
		source := withRun(threeRules + `,"results":[{"rule":{"id":"R9","index":1},"message":{"text":"m"}}]`)
		got := analyze(t, NewReportingDescriptorReferencesMustResolve(), source)
		require.Len(t, got, 1)
		assert.Equal(t, referenceIDMustMatchDescriptor, got[0].TemplateID)
		assert.Equal(t, []string{"runs[0].results[0].rule.id", "R9", "1", "rules", "R2"}, got[0].Arguments)
	})

	t.Run("unknown tool component", func(t *testing.T) {
		source := withRun(threeRules + `,"results":[{"rule":{"id":"R1","index":0,"toolComponent":{"index":3}},"message":{"text":"m"}}]`)
		got := analyze(t, NewReportingDescriptorReferencesMustResolve(), source)
		require.Len(t, got, 1)
		assert.Equal(t, toolComponentReferenceMustResolve, got[0].TemplateID)
		assert.Equal(t, []string{"runs[0].results[0].rule.toolComponent", "runs[0].tool.extensions", "0"}, got[0].Arguments)
	})

	t.Run("unspecified tool component index matches by name", func(t *testing.T) {
		extension := func(name string) string {
			return withRun(`"tool":{"driver":{"name":"demo"},"extensions":[{"name":"ext","rules":[{"id":"X1"}]}]},` +
				`"results":[{"rule":{"id":"X1","index":0,"toolComponent":{"name":"` + name + `","index":-1}},"message":{"text":"m"}}]`)
		}
		assert.Empty(t, analyze(t, NewReportingDescriptorReferencesMustResolve(), extension("ext")))

		got := analyze(t, NewReportingDescriptorReferencesMustResolve(), extension("other"))
		assert.Equal(t, []string{toolComponentReferenceMustResolve}, templates(got))
	})

	t.Run("valid and unspecified indexes", func(t *testing.T) {
		source := withRun(threeRules + `,"results":[{"rule":{"id":"R3","index":2},"message":{"text":"m"}},` +
			`{"ruleId":"R1","rule":{"index":-1},"message":{"text":"m"}}]`)
		assert.Empty(t, analyze(t, NewReportingDescriptorReferencesMustResolve(), source))
	})
}

func TestIndexPropertiesMustBeConsistentWithArrays(t *testing.T) {
	tests := []struct {
		name     string
		run      string
		accessor string
		want     []string
	}{
		{
			name:     "rule index past the end",
			run:      threeRules + `,"results":[{"ruleId":"R1","ruleIndex":3,"message":{"text":"m"}}]`,
			accessor: "runs[0].results[0].ruleIndex",
			want:     []string{"result", "ruleIndex", "3", "runs[0].tool.driver.rules", "4"},
		},
		{
			name:     "artifact location without artifacts",
			run:      `"tool":{"driver":{"name":"demo"}},"results":[{"ruleId":"R1","message":{"text":"m"},"locations":[{"physicalLocation":{"artifactLocation":{"index":0}}}]}]`,
			accessor: "runs[0].results[0].locations[0].physicalLocation.artifactLocation.index",
			want:     []string{"artifactLocation", "index", "0", "runs[0].artifacts"},
		},
		{
			name:     "negative index other than -1",
			run:      `"tool":{"driver":{"name":"demo"}},"artifacts":[{"location":{"uri":"a.c"},"parentIndex":-2}],"results":[]`,
			accessor: "runs[0].artifacts[0].parentIndex",
			want:     []string{"artifact", "parentIndex", "-2", "runs[0].artifacts", "-1"},
		},
		{
			name:     "thread flow location",
			run:      `"tool":{"driver":{"name":"demo"}},"threadFlowLocations":[{}],"results":[{"ruleId":"R1","message":{"text":"m"},"codeFlows":[{"threadFlows":[{"locations":[{"index":1}]}]}]}]`,
			accessor: "runs[0].results[0].codeFlows[0].threadFlows[0].locations[0].index",
			want:     []string{"threadFlowLocation", "index", "1", "runs[0].threadFlowLocations", "2"},
		},
		{
			name:     "result graph index",
			run:      `"tool":{"driver":{"name":"demo"}},"results":[{"ruleId":"R1","message":{"text":"m"},"graphTraversals":[{"resultGraphIndex":0}]}]`,
			accessor: "runs[0].results[0].graphTraversals[0].resultGraphIndex",
			want:     []string{"graphTraversal", "resultGraphIndex", "0", "runs[0].results[0].graphs"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyze(t, NewIndexPropertiesMustBeConsistentWithArrays(), withRun(tt.run))
			require.Len(t, got, 1)
			assert.Equal(t, tt.accessor, got[0].Accessor)
			assert.Equal(t, append([]string{tt.accessor}, tt.want...), got[0].Arguments)
		})
	}

	t.Run("consistent indexes", func(t *testing.T) {
		source := withRun(threeRules + `,"artifacts":[{"location":{"uri":"a.c","index":0}}],` +
			`"results":[{"ruleId":"R2","ruleIndex":1,"message":{"text":"m"},` +
			`"locations":[{"physicalLocation":{"artifactLocation":{"uri":"a.c","index":0}}}]},` +
			`{"ruleId":"R2","ruleIndex":-1,"message":{"text":"m"}}]`)
		assert.Empty(t, analyze(t, NewIndexPropertiesMustBeConsistentWithArrays(), source))
	})
}

func TestMessageArgumentsMustBeConsistentWithRule(t *testing.T) {
	driver := `"tool":{"driver":{"name":"demo","globalMessageStrings":{"shared":{"text":"{0}"}},"rules":[` +
		`{"id":"R1","messageStrings":{"default":{"text":"'{0}' then '{2}'."},"plain":{"text":"Nothing."}}}]}}`

	tests := []struct {
		name    string
		index   string
		message string
		want    []string
		args    []string
	}{
		{name: "enough arguments", message: `{"id":"default","arguments":["a","b","c"]}`},
		{name: "literal text", message: `{"text":"m"}`},
		{name: "no placeholders", message: `{"id":"plain"}`},
		{name: "global message string", message: `{"id":"shared","arguments":["x"]}`},
		{
			name:    "too few arguments",
			message: `{"id":"default","arguments":["a"]}`,
			want:    []string{supplyEnoughMessageArguments},
			args:    []string{"runs[0].results[0].message", "1", "R1", "default", "3"},
		},
		{
			name:    "unknown message id",
			message: `{"id":"missing"}`,
			want:    []string{messageIDMustExist},
			args:    []string{"runs[0].results[0].message.id", "missing", "R1"},
		},
		{
			name:    "rule found by index",
			index:   `,"ruleIndex":0`,
			message: `{"id":"missing"}`,
			want:    []string{messageIDMustExist},
		},
		{
			name:    "unspecified rule index falls back to rule id",
			index:   `,"ruleIndex":-1`,
			message: `{"id":"missing"}`,
			want:    []string{messageIDMustExist},
			args:    []string{"runs[0].results[0].message.id", "missing", "R1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := withRun(driver + `,"results":[{"ruleId":"R1/sub"` + tt.index + `,"message":` + tt.message + `}]`)
			got := analyze(t, NewMessageArgumentsMustBeConsistentWithRule(), source)
			assert.Equal(t, tt.want, nilIfEmpty(templates(got)))
			if tt.args != nil {
				require.Len(t, got, 1)
				assert.Equal(t, tt.args, got[0].Arguments)
			}
		})
	}

	t.Run("rules are looked up per run", func(t *testing.T) {
		source := `{"version":"2.1.0","runs":[` +
			`{"tool":{"driver":{"name":"a","rules":[{"id":"R1","messageStrings":{"m":{"text":"'{0}'."}}}]}},"results":[]},` +
			`{"tool":{"driver":{"name":"b"}},"results":[{"ruleId":"R1","message":{"id":"m"}}]}]}`
		assert.Empty(t, analyze(t, NewMessageArgumentsMustBeConsistentWithRule(), source))
	})
}

func TestExpressURIBaseIDsCorrectly(t *testing.T) {
	tests := []struct {
		name     string
		run      string
		want     []string
		accessor string
	}{
		{
			name: "well formed bases",
			run:  `"originalUriBaseIds":{"SRCROOT":{"uri":"file:///src/"},"LIB":{"uri":"lib/","uriBaseId":"SRCROOT"}}`,
		},
		{
			name:     "relative top-level base",
			run:      `"originalUriBaseIds":{"SRCROOT":{"uri":"src/"}}`,
			want:     []string{topLevelURIBaseIDMustBeAbsolute},
			accessor: "runs[0].originalUriBaseIds.SRCROOT",
		},
		{
			name:     "missing trailing slash",
			run:      `"originalUriBaseIds":{"SRC ROOT":{"uri":"file:///src"}}`,
			want:     []string{uriBaseIDValueMustEndWithSlash},
			accessor: "runs[0].originalUriBaseIds['SRC ROOT']",
		},
		{
			name:     "dot dot segment",
			run:      `"originalUriBaseIds":{"SRCROOT":{"uri":"file:///src/../lib/"}}`,
			want:     []string{uriBaseIDValueMustNotContainDotDot},
			accessor: "runs[0].originalUriBaseIds.SRCROOT",
		},
		{
			name:     "query",
			run:      `"originalUriBaseIds":{"SRCROOT":{"uri":"https://example.com/src/?v=1"}}`,
			want:     []string{uriBaseIDValueMustEndWithSlash, uriBaseIDValueMustNotContainQueryOrFrag},
			accessor: "runs[0].originalUriBaseIds.SRCROOT",
		},
		{
			name:     "absolute uri with base id",
			run:      `"artifacts":[{"location":{"uri":"file:///src/a.c","uriBaseId":"SRCROOT"}}]`,
			want:     []string{uriBaseIDRequiresRelativeURI},
			accessor: "runs[0].artifacts[0].location",
		},
		{
			name:     "relative reference with leading slash",
			run:      `"artifacts":[{"location":{"uri":"/src/a.c","uriBaseId":"SRCROOT"}}]`,
			want:     []string{relativeReferenceMustNotBeginWithSlash},
			accessor: "runs[0].artifacts[0].location.uri",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := withRun(`"tool":{"driver":{"name":"demo"}},"results":[],` + tt.run)
			got := analyze(t, NewExpressURIBaseIDsCorrectly(), source)
			assert.Equal(t, tt.want, nilIfEmpty(templates(got)))
			for _, d := range got {
				assert.Equal(t, tt.accessor, d.Accessor)
			}
		})
	}
}

func TestAuthorHighQualityMessages(t *testing.T) {
	source := withRun(`"tool":{"driver":{"name":"demo","rules":[{"id":"R1","messageStrings":{` +
		`"good":{"text":"The value '{0}' is bad."},` +
		`"static":{"text":"Something is bad."},` +
		`"bare":{"text":"The value {0} is bad."},` +
		`"noPeriod":{"text":"The value '{0}' is bad"},` +
		`"markdown":{"markdown":"no **period**"}}}]}},"results":[]`)

	got := analyze(t, NewAuthorHighQualityMessages(), source)
	require.Len(t, got, 3)

	assert.Equal(t, includeDynamicContent, got[0].TemplateID)
	assert.Equal(t, "runs[0].tool.driver.rules[0].messageStrings.static.text", got[0].Accessor)
	assert.Equal(t, []string{got[0].Accessor, "R1", "static"}, got[0].Arguments)
	assert.Equal(t, enquoteDynamicContent, got[1].TemplateID)
	assert.Equal(t, "runs[0].tool.driver.rules[0].messageStrings.bare.text", got[1].Accessor)
	assert.Equal(t, terminateWithPeriod, got[2].TemplateID)
	assert.Equal(t, validation.LevelWarning, got[2].Level)
}

func TestProvideToolProperties(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		options map[string]string
		want    []string
	}{
		{name: "complete", driver: `{"name":"Demo Lint","version":"1.2.0","informationUri":"https://example.com"}`},
		{
			name:   "long name",
			driver: `{"name":"The Best Demo Linter Ever","semanticVersion":"1.0.0","informationUri":"https://example.com"}`,
			want:   []string{provideConciseToolName},
		},
		{name: "no version", driver: `{"name":"demo","informationUri":"https://example.com"}`, want: []string{provideToolVersion}},
		{name: "no information uri", driver: `{"name":"demo","version":"1"}`, want: []string{provideToolInformationURI}},
		{
			name:    "information uri optional",
			driver:  `{"name":"demo","version":"1"}`,
			options: map[string]string{OptionInformationURIRequired: "false"},
		},
		{
			name:   "non numeric version",
			driver: `{"name":"demo","version":"v1.2","informationUri":"https://example.com"}`,
			want:   []string{useNumericToolVersions},
		},
		{
			name:    "only semantic version accepted",
			driver:  `{"name":"demo","version":"1.2","informationUri":"https://example.com"}`,
			options: map[string]string{OptionAcceptableVersionProperties: "semanticVersion"},
			want:    []string{provideToolVersion},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []validation.ContextOption
			if tt.options != nil {
				opts = append(opts, validation.WithOptions("SARIF2005", tt.options))
			}
			got := analyze(t, NewProvideToolProperties(), withRun(`"tool":{"driver":`+tt.driver+`},"results":[]`), opts...)
			assert.Equal(t, tt.want, nilIfEmpty(templates(got)))
		})
	}

	t.Run("version message lists acceptable properties", func(t *testing.T) {
		got := analyze(t, NewProvideToolProperties(), withRun(`"tool":{"driver":{"name":"demo","informationUri":"https://example.com"}},"results":[]`))
		require.Len(t, got, 1)
		assert.Equal(t, "runs[0].tool.driver", got[0].Accessor)
		assert.Equal(t, "'version', 'semanticVersion', 'dottedQuadFileVersion'", got[0].Arguments[2])
	})
}

func TestReviewArraysThatExceedConfigurableDefaults(t *testing.T) {
	results := strings.Repeat(`{"ruleId":"R1","message":{"text":"m"}},`, 3)
	source := withRun(`"tool":{"driver":{"name":"demo"}},"results":[` + strings.TrimSuffix(results, ",") + `]`)

	assert.Empty(t, analyze(t, NewReviewArraysThatExceedConfigurableDefaults(), source))

	got := analyze(t, NewReviewArraysThatExceedConfigurableDefaults(), source,
		validation.WithOptions("SARIF2020", map[string]string{OptionMaxResultsPerRun: "2"}))
	require.Len(t, got, 1)
	assert.Equal(t, "runs[0].results", got[0].Accessor)
	assert.Equal(t, []string{"runs[0].results", "3", "2"}, got[0].Arguments)
}

func TestProvideCheckoutPath(t *testing.T) {
	source := withRun(`"tool":{"driver":{"name":"demo"}},` +
		`"invocations":[{"executionSuccessful":true,"workingDirectory":{"uri":"file:///repo"}}],` +
		`"results":[{"ruleId":"R1","message":{"text":"m"},"locations":[` +
		`{"physicalLocation":{"artifactLocation":{"uri":"file:///repo/a.c"}}},` +
		`{"physicalLocation":{"artifactLocation":{"uri":"file:///elsewhere/b.c"}}},` +
		`{"physicalLocation":{"artifactLocation":{"uri":"src/c.c"}}}]}]`)

	got := analyze(t, NewProvideCheckoutPath(), source)
	require.Len(t, got, 1)
	assert.Equal(t, "runs[0].results[0].locations[1].physicalLocation.artifactLocation.uri", got[0].Accessor)
	assert.Equal(t, "file:///elsewhere/b.c", got[0].Arguments[1])
}
