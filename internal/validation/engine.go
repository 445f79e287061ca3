package validation

import (
	"sort"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/sariflint/internal/jsonpath"
	"github.com/scan-io-git/sariflint/internal/jsontree"
	sariflog "github.com/scan-io-git/sariflint/internal/sarif"
)

// DispatchFunc performs a single rule invocation by calling analyze. It lets the
// caller intercept each invocation on its own, e.g. to recover from a rule that
// panics or to skip a rule that has been switched off.
type DispatchFunc func(rule Rule, kind NodeKind, p jsonpath.Path, analyze func())

// TraceFunc observes every visited node before its rules run.
type TraceFunc func(kind NodeKind, p jsonpath.Path)

type handler struct {
	rule Rule
	call func(ctx *Context, node interface{}, p jsonpath.Path)
}

type binder func(r Rule) (NodeKind, handler, bool)

func bind[A any, T any](kind NodeKind, analyze func(A, *Context, T, jsonpath.Path)) binder {
	return func(r Rule) (NodeKind, handler, bool) {
		a, ok := r.(A)
		if !ok {
			return kind, handler{}, false
		}
		return kind, handler{
			rule: r,
			call: func(ctx *Context, node interface{}, p jsonpath.Path) {
				analyze(a, ctx, node.(T), p)
			},
		}, true
	}
}

var binders = []binder{
	bind(NodeLog, LogAnalyzer.AnalyzeLog),
	bind(NodeRun, RunAnalyzer.AnalyzeRun),
	bind(NodeTool, ToolAnalyzer.AnalyzeTool),
	bind(NodeToolComponent, ToolComponentAnalyzer.AnalyzeToolComponent),
	bind(NodeToolComponentReference, ToolComponentReferenceAnalyzer.AnalyzeToolComponentReference),
	bind(NodeReportingDescriptor, ReportingDescriptorAnalyzer.AnalyzeReportingDescriptor),
	bind(NodeReportingDescriptorReference, ReportingDescriptorReferenceAnalyzer.AnalyzeReportingDescriptorReference),
	bind(NodeResult, ResultAnalyzer.AnalyzeResult),
	bind(NodeLocation, LocationAnalyzer.AnalyzeLocation),
	bind(NodePhysicalLocation, PhysicalLocationAnalyzer.AnalyzePhysicalLocation),
	bind(NodeRegion, RegionAnalyzer.AnalyzeRegion),
	bind(NodeAddress, AddressAnalyzer.AnalyzeAddress),
	bind(NodeArtifact, ArtifactAnalyzer.AnalyzeArtifact),
	bind(NodeArtifactLocation, ArtifactLocationAnalyzer.AnalyzeArtifactLocation),
	bind(NodeLogicalLocation, LogicalLocationAnalyzer.AnalyzeLogicalLocation),
	bind(NodeCodeFlow, CodeFlowAnalyzer.AnalyzeCodeFlow),
	bind(NodeThreadFlow, ThreadFlowAnalyzer.AnalyzeThreadFlow),
	bind(NodeThreadFlowLocation, ThreadFlowLocationAnalyzer.AnalyzeThreadFlowLocation),
	bind(NodeGraph, GraphAnalyzer.AnalyzeGraph),
	bind(NodeNode, NodeAnalyzer.AnalyzeNode),
	bind(NodeEdge, EdgeAnalyzer.AnalyzeEdge),
	bind(NodeGraphTraversal, GraphTraversalAnalyzer.AnalyzeGraphTraversal),
	bind(NodeEdgeTraversal, EdgeTraversalAnalyzer.AnalyzeEdgeTraversal),
	bind(NodeStack, StackAnalyzer.AnalyzeStack),
	bind(NodeStackFrame, StackFrameAnalyzer.AnalyzeStackFrame),
	bind(NodeMessage, MessageAnalyzer.AnalyzeMessage),
	bind(NodeMultiformatMessageString, MultiformatMessageStringAnalyzer.AnalyzeMultiformatMessageString),
	bind(NodeInvocation, InvocationAnalyzer.AnalyzeInvocation),
	bind(NodeNotification, NotificationAnalyzer.AnalyzeNotification),
	bind(NodeConfigurationOverride, ConfigurationOverrideAnalyzer.AnalyzeConfigurationOverride),
	bind(NodeException, ExceptionAnalyzer.AnalyzeException),
	bind(NodeVersionControlDetails, VersionControlDetailsAnalyzer.AnalyzeVersionControlDetails),
	bind(NodeWebRequest, WebRequestAnalyzer.AnalyzeWebRequest),
	bind(NodeWebResponse, WebResponseAnalyzer.AnalyzeWebResponse),
	bind(NodeSuppression, SuppressionAnalyzer.AnalyzeSuppression),
	bind(NodeFix, FixAnalyzer.AnalyzeFix),
	bind(NodeAttachment, AttachmentAnalyzer.AnalyzeAttachment),
	bind(NodeResultProvenance, ResultProvenanceAnalyzer.AnalyzeResultProvenance),
}

// Engine walks a SARIF document depth first and calls every rule that analyzes
// the type of each node it reaches. Rules run in id order, before the children
// of the node are visited. The engine does not recover from rule panics; see
// WithDispatch.
type Engine struct {
	rules    []Rule
	handlers [numNodeKinds][]handler
	dispatch DispatchFunc
	trace    TraceFunc
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithDispatch routes every rule invocation through fn.
func WithDispatch(fn DispatchFunc) EngineOption {
	return func(e *Engine) {
		e.dispatch = fn
	}
}

// WithTrace reports every visited node to fn.
func WithTrace(fn TraceFunc) EngineOption {
	return func(e *Engine) {
		e.trace = fn
	}
}

// NewEngine prepares the dispatch tables for rules.
func NewEngine(rules []Rule, opts ...EngineOption) *Engine {
	sorted := append([]Rule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID() < sorted[j].ID()
	})

	e := &Engine{
		rules: sorted,
		dispatch: func(_ Rule, _ NodeKind, _ jsonpath.Path, analyze func()) {
			analyze()
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, r := range sorted {
		for _, b := range binders {
			if kind, h, ok := b(r); ok {
				e.handlers[kind] = append(e.handlers[kind], h)
			}
		}
	}
	return e
}

// Rules returns the rules of the engine in dispatch order.
func (e *Engine) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

// Run traverses the document of ctx once.
func (e *Engine) Run(ctx *Context) {
	if ctx.Document == nil || ctx.Document.Report == nil {
		return
	}
	w := &walker{engine: e, ctx: ctx}
	w.log(ctx.Document.Report, jsonpath.Root())
}

type walker struct {
	engine *Engine
	ctx    *Context
}

func (w *walker) visit(kind NodeKind, node interface{}, p jsonpath.Path) {
	if w.engine.trace != nil {
		w.engine.trace(kind, p)
	}
	for _, h := range w.engine.handlers[kind] {
		h := h
		w.engine.dispatch(h.rule, kind, p, func() {
			h.call(w.ctx, node, p)
		})
	}
}

// node returns the raw tree node at p, or nil when there is none.
func (w *walker) node(p jsonpath.Path) *jsontree.Node {
	if w.ctx.Document.Tree == nil {
		return nil
	}
	node, err := w.ctx.Document.Tree.Resolve(p)
	if err != nil {
		return nil
	}
	return node
}

// present reports whether the object at p has member name. The typed model
// cannot tell for struct-valued fields.
func (w *walker) present(p jsonpath.Path, name string) bool {
	if w.ctx.Document.Tree == nil {
		return true
	}
	return w.ctx.Document.HasProperty(p, name)
}

func each[T any](items []*T, p jsonpath.Path, fn func(*T, jsonpath.Path)) {
	for i, item := range items {
		if item == nil {
			continue
		}
		fn(item, p.Index(i))
	}
}

func eachEntry[T any](w *walker, m map[string]*T, p jsonpath.Path, fn func(*T, jsonpath.Path)) {
	for _, key := range orderedKeys(w, p, m) {
		if v := m[key]; v != nil {
			fn(v, p.Property(key))
		}
	}
}

// orderedKeys lists the keys of m in document order, falling back to sorted
// order when the document has no raw tree.
func orderedKeys[V any](w *walker, p jsonpath.Path, m map[string]V) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	if node := w.node(p); node != nil && node.Kind == jsontree.Object {
		seen := make(map[string]bool, len(m))
		for _, member := range node.Members {
			if _, ok := m[member.Name]; ok && !seen[member.Name] {
				seen[member.Name] = true
				keys = append(keys, member.Name)
			}
		}
		return keys
	}
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// The walk methods below follow the property order of the SARIF 2.1.0 schema.

func (w *walker) log(report *sarif.Report, p jsonpath.Path) {
	w.visit(NodeLog, report, p)
	runs := p.Property(sariflog.PropRuns)
	for i, run := range report.Runs {
		if run == nil {
			continue
		}
		w.run(run, runs.Index(i), i)
	}
}

func (w *walker) run(run *sarif.Run, p jsonpath.Path, index int) {
	defer w.ctx.EnterRun(run, index)()
	w.visit(NodeRun, run, p)

	if w.present(p, sariflog.PropTool) {
		w.tool(&run.Tool, p.Property(sariflog.PropTool))
	}
	each(run.Invocations, p.Property(sariflog.PropInvocations), w.invocation)
	if run.Conversion != nil {
		w.conversion(run.Conversion, p.Property(sariflog.PropConversion))
	}
	each(run.VersionControlProvenance, p.Property(sariflog.PropVersionControlProvenance), w.versionControlDetails)
	eachEntry(w, run.OriginalUriBaseIDs, p.Property(sariflog.PropOriginalURIBaseIDs), w.artifactLocation)
	each(run.Artifacts, p.Property(sariflog.PropArtifacts), w.artifact)
	each(run.LogicalLocations, p.Property(sariflog.PropLogicalLocations), w.logicalLocation)
	each(run.Graphs, p.Property(sariflog.PropGraphs), w.graph)

	results := p.Property(sariflog.PropResults)
	for i, result := range run.Results {
		if result == nil {
			continue
		}
		w.result(result, results.Index(i), i)
	}

	if run.AutomationDetails != nil {
		w.automationDetails(run.AutomationDetails, p.Property(sariflog.PropAutomationDetails))
	}
	each(run.RunAggregates, p.Property(sariflog.PropRunAggregates), w.automationDetails)
	if run.ExternalPropertyFileReferences != nil {
		w.externalPropertyFileReferences(run.ExternalPropertyFileReferences, p.Property(sariflog.PropExternalPropertyFileReferences))
	}
	each(run.ThreadFlowLocations, p.Property(sariflog.PropThreadFlowLocations), w.threadFlowLocation)
	each(run.Taxonomies, p.Property(sariflog.PropTaxonomies), w.toolComponent)
	each(run.Addresses, p.Property(sariflog.PropAddresses), w.address)
	each(run.Translations, p.Property(sariflog.PropTranslations), w.toolComponent)
	each(run.Policies, p.Property(sariflog.PropPolicies), w.toolComponent)
	each(run.WebRequests, p.Property(sariflog.PropWebRequests), w.webRequest)
	each(run.WebResponses, p.Property(sariflog.PropWebResponses), w.webResponse)
	if run.SpecialLocations != nil && run.SpecialLocations.DisplayBase != nil {
		displayBase := p.Property(sariflog.PropSpecialLocations).Property(sariflog.PropDisplayBase)
		w.artifactLocation(run.SpecialLocations.DisplayBase, displayBase)
	}
}

func (w *walker) automationDetails(details *sarif.RunAutomationDetails, p jsonpath.Path) {
	if details.Description != nil {
		w.message(details.Description, p.Property(sariflog.PropDescription))
	}
}

func (w *walker) externalPropertyFileReferences(refs *sarif.ExternalPropertyFileReferences, p jsonpath.Path) {
	one := func(ref *sarif.ExternalPropertyFileReference, name string) {
		if ref != nil {
			w.externalPropertyFileReference(ref, p.Property(name))
		}
	}
	many := func(items []*sarif.ExternalPropertyFileReference, name string) {
		each(items, p.Property(name), w.externalPropertyFileReference)
	}

	one(refs.Conversion, sariflog.PropConversion)
	many(refs.Graphs, sariflog.PropGraphs)
	one(refs.ExternalizedProperties, sariflog.PropExternalizedProperties)
	many(refs.Artifacts, sariflog.PropArtifacts)
	many(refs.Invocations, sariflog.PropInvocations)
	many(refs.LogicalLocations, sariflog.PropLogicalLocations)
	many(refs.ThreadFlowLocations, sariflog.PropThreadFlowLocations)
	many(refs.Results, sariflog.PropResults)
	many(refs.Taxonomies, sariflog.PropTaxonomies)
	many(refs.Addresses, sariflog.PropAddresses)
	one(refs.Driver, sariflog.PropDriver)
	many(refs.Extensions, sariflog.PropExtensions)
	many(refs.Policies, sariflog.PropPolicies)
	many(refs.Translations, sariflog.PropTranslations)
	many(refs.WebRequests, sariflog.PropWebRequests)
	many(refs.WebResponses, sariflog.PropWebResponses)
}

func (w *walker) externalPropertyFileReference(ref *sarif.ExternalPropertyFileReference, p jsonpath.Path) {
	if ref.Location != nil {
		w.artifactLocation(ref.Location, p.Property(sariflog.PropLocation))
	}
}

func (w *walker) conversion(conversion *sarif.Conversion, p jsonpath.Path) {
	if conversion.Tool != nil {
		w.tool(conversion.Tool, p.Property(sariflog.PropTool))
	}
	if conversion.Invocation != nil {
		w.invocation(conversion.Invocation, p.Property(sariflog.PropInvocation))
	}
	each(conversion.AnalysisToolLogFiles, p.Property(sariflog.PropAnalysisToolLogFiles), w.artifactLocation)
}

func (w *walker) tool(tool *sarif.Tool, p jsonpath.Path) {
	w.visit(NodeTool, tool, p)
	if tool.Driver != nil {
		w.toolComponent(tool.Driver, p.Property(sariflog.PropDriver))
	}
	each(tool.Extensions, p.Property(sariflog.PropExtensions), w.toolComponent)
}

func (w *walker) toolComponent(component *sarif.ToolComponent, p jsonpath.Path) {
	w.visit(NodeToolComponent, component, p)

	if component.ShortDescription != nil {
		w.multiformatMessageString(component.ShortDescription, p.Property(sariflog.PropShortDescription))
	}
	if component.FullDescription != nil {
		w.multiformatMessageString(component.FullDescription, p.Property(sariflog.PropFullDescription))
	}
	eachEntry(w, component.GlobalMessageStrings, p.Property(sariflog.PropGlobalMessageStrings), w.multiformatMessageString)
	each(component.Notifications, p.Property(sariflog.PropNotifications), w.reportingDescriptor)
	each(component.Rules, p.Property(sariflog.PropRules), w.reportingDescriptor)
	each(component.Taxa, p.Property(sariflog.PropTaxa), w.reportingDescriptor)
	each(component.Locations, p.Property(sariflog.PropLocations), w.artifactLocation)
	if component.AssociatedComponent != nil {
		w.toolComponentReference(component.AssociatedComponent, p.Property(sariflog.PropAssociatedComponent))
	}
	if metadata := component.TranslationMetadata; metadata != nil {
		at := p.Property(sariflog.PropTranslationMetadata)
		if metadata.ShortDescription != nil {
			w.multiformatMessageString(metadata.ShortDescription, at.Property(sariflog.PropShortDescription))
		}
		if metadata.FullDescription != nil {
			w.multiformatMessageString(metadata.FullDescription, at.Property(sariflog.PropFullDescription))
		}
	}
	each(component.SupportedTaxonomies, p.Property(sariflog.PropSupportedTaxonomies), w.toolComponentReference)
}

func (w *walker) toolComponentReference(ref *sarif.ToolComponentReference, p jsonpath.Path) {
	w.visit(NodeToolComponentReference, ref, p)
}

func (w *walker) reportingDescriptor(descriptor *sarif.ReportingDescriptor, p jsonpath.Path) {
	w.visit(NodeReportingDescriptor, descriptor, p)

	if descriptor.ShortDescription != nil {
		w.multiformatMessageString(descriptor.ShortDescription, p.Property(sariflog.PropShortDescription))
	}
	if descriptor.FullDescription != nil {
		w.multiformatMessageString(descriptor.FullDescription, p.Property(sariflog.PropFullDescription))
	}
	if descriptor.MessageStrings != nil {
		messages := *descriptor.MessageStrings
		sp := p.Property(sariflog.PropMessageStrings)
		for _, key := range orderedKeys(w, sp, messages) {
			s := messages[key]
			w.multiformatMessageString(&s, sp.Property(key))
		}
	}
	if descriptor.Help != nil {
		w.multiformatMessageString(descriptor.Help, p.Property(sariflog.PropHelp))
	}
}

func (w *walker) reference(ref *sarif.ReportingDescriptorReference, p jsonpath.Path, kind ReferenceKind) {
	defer w.ctx.EnterReferenceKind(kind)()
	w.visit(NodeReportingDescriptorReference, ref, p)

	if ref.ToolComponent != nil {
		w.toolComponentReference(ref.ToolComponent, p.Property(sariflog.PropToolComponent))
	}
}

func (w *walker) ruleReference(ref *sarif.ReportingDescriptorReference, p jsonpath.Path) {
	w.reference(ref, p, ReferenceKindRule)
}

func (w *walker) notificationReference(ref *sarif.ReportingDescriptorReference, p jsonpath.Path) {
	w.reference(ref, p, ReferenceKindNotification)
}

func (w *walker) taxonReference(ref *sarif.ReportingDescriptorReference, p jsonpath.Path) {
	w.reference(ref, p, ReferenceKindTaxon)
}

func (w *walker) result(result *sarif.Result, p jsonpath.Path, index int) {
	defer w.ctx.EnterResult(result, index)()
	w.visit(NodeResult, result, p)

	if result.Rule != nil {
		w.ruleReference(result.Rule, p.Property(sariflog.PropRule))
	}
	if w.present(p, sariflog.PropMessage) {
		w.message(&result.Message, p.Property(sariflog.PropMessage))
	}
	if result.AnalysisTarget != nil {
		w.artifactLocation(result.AnalysisTarget, p.Property(sariflog.PropAnalysisTarget))
	}
	each(result.Locations, p.Property(sariflog.PropLocations), w.location)
	each(result.Stacks, p.Property(sariflog.PropStacks), w.stack)
	each(result.CodeFlows, p.Property(sariflog.PropCodeFlows), w.codeFlow)
	each(result.Graphs, p.Property(sariflog.PropGraphs), w.graph)
	each(result.GraphTraversals, p.Property(sariflog.PropGraphTraversals), w.graphTraversal)
	each(result.RelatedLocations, p.Property(sariflog.PropRelatedLocations), w.location)
	each(result.Suppressions, p.Property(sariflog.PropSuppressions), w.suppression)
	each(result.Attachments, p.Property(sariflog.PropAttachments), w.attachment)
	if result.Provenance != nil {
		w.resultProvenance(result.Provenance, p.Property(sariflog.PropProvenance))
	}
	each(result.Fixes, p.Property(sariflog.PropFixes), w.fix)
	each(result.Taxa, p.Property(sariflog.PropTaxa), w.taxonReference)
	if result.WebRequest != nil {
		w.webRequest(result.WebRequest, p.Property(sariflog.PropWebRequest))
	}
	if result.WebResponse != nil {
		w.webResponse(result.WebResponse, p.Property(sariflog.PropWebResponse))
	}
}

func (w *walker) location(location *sarif.Location, p jsonpath.Path) {
	w.visit(NodeLocation, location, p)

	if location.PhysicalLocation != nil {
		w.physicalLocation(location.PhysicalLocation, p.Property(sariflog.PropPhysicalLocation))
	}
	each(location.LogicalLocations, p.Property(sariflog.PropLogicalLocations), w.logicalLocation)
	if location.Message != nil {
		w.message(location.Message, p.Property(sariflog.PropMessage))
	}
	each(location.Annotations, p.Property(sariflog.PropAnnotations), w.region)
	each(location.Relationships, p.Property(sariflog.PropRelationships), w.locationRelationship)
}

func (w *walker) locationRelationship(rel *sarif.LocationRelationship, p jsonpath.Path) {
	if rel.Description != nil {
		w.message(rel.Description, p.Property(sariflog.PropDescription))
	}
}

func (w *walker) physicalLocation(location *sarif.PhysicalLocation, p jsonpath.Path) {
	w.visit(NodePhysicalLocation, location, p)

	if location.Address != nil {
		w.address(location.Address, p.Property(sariflog.PropAddress))
	}
	if location.ArtifactLocation != nil {
		w.artifactLocation(location.ArtifactLocation, p.Property(sariflog.PropArtifactLocation))
	}
	if location.Region != nil {
		w.region(location.Region, p.Property(sariflog.PropRegion))
	}
	if location.ContextRegion != nil {
		w.region(location.ContextRegion, p.Property(sariflog.PropContextRegion))
	}
}

func (w *walker) region(region *sarif.Region, p jsonpath.Path) {
	w.visit(NodeRegion, region, p)

	if region.Snippet != nil {
		w.artifactContent(region.Snippet, p.Property(sariflog.PropSnippet))
	}
	if region.Message != nil {
		w.message(region.Message, p.Property(sariflog.PropMessage))
	}
}

func (w *walker) artifactContent(content *sarif.ArtifactContent, p jsonpath.Path) {
	if content.Rendered != nil {
		w.multiformatMessageString(content.Rendered, p.Property(sariflog.PropRendered))
	}
}

func (w *walker) address(address *sarif.Address, p jsonpath.Path) {
	w.visit(NodeAddress, address, p)
}

func (w *walker) artifact(artifact *sarif.Artifact, p jsonpath.Path) {
	w.visit(NodeArtifact, artifact, p)

	if artifact.Description != nil {
		w.message(artifact.Description, p.Property(sariflog.PropDescription))
	}
	if artifact.Location != nil {
		w.artifactLocation(artifact.Location, p.Property(sariflog.PropLocation))
	}
	if artifact.Contents != nil {
		w.artifactContent(artifact.Contents, p.Property(sariflog.PropContents))
	}
}

func (w *walker) artifactLocation(location *sarif.ArtifactLocation, p jsonpath.Path) {
	w.visit(NodeArtifactLocation, location, p)

	if location.Description != nil {
		w.message(location.Description, p.Property(sariflog.PropDescription))
	}
}

func (w *walker) logicalLocation(location *sarif.LogicalLocation, p jsonpath.Path) {
	w.visit(NodeLogicalLocation, location, p)
}

func (w *walker) codeFlow(flow *sarif.CodeFlow, p jsonpath.Path) {
	w.visit(NodeCodeFlow, flow, p)

	if flow.Message != nil {
		w.message(flow.Message, p.Property(sariflog.PropMessage))
	}
	each(flow.ThreadFlows, p.Property(sariflog.PropThreadFlows), w.threadFlow)
}

func (w *walker) threadFlow(flow *sarif.ThreadFlow, p jsonpath.Path) {
	w.visit(NodeThreadFlow, flow, p)

	if flow.Message != nil {
		w.message(flow.Message, p.Property(sariflog.PropMessage))
	}
	eachEntry(w, flow.InitialState, p.Property(sariflog.PropInitialState), w.multiformatMessageString)
	eachEntry(w, flow.ImmutableState, p.Property(sariflog.PropImmutableState), w.multiformatMessageString)
	each(flow.Locations, p.Property(sariflog.PropLocations), w.threadFlowLocation)
}

func (w *walker) threadFlowLocation(location *sarif.ThreadFlowLocation, p jsonpath.Path) {
	w.visit(NodeThreadFlowLocation, location, p)

	if location.Location != nil {
		w.location(location.Location, p.Property(sariflog.PropLocation))
	}
	if location.Stack != nil {
		w.stack(location.Stack, p.Property(sariflog.PropStack))
	}
	each(location.Taxa, p.Property(sariflog.PropTaxa), w.taxonReference)
	eachEntry(w, location.State, p.Property(sariflog.PropState), w.multiformatMessageString)
	if location.WebRequest != nil {
		w.webRequest(location.WebRequest, p.Property(sariflog.PropWebRequest))
	}
	if location.WebResponse != nil {
		w.webResponse(location.WebResponse, p.Property(sariflog.PropWebResponse))
	}
}

func (w *walker) graph(graph *sarif.Graph, p jsonpath.Path) {
	w.visit(NodeGraph, graph, p)

	if graph.Description != nil {
		w.message(graph.Description, p.Property(sariflog.PropDescription))
	}
	each(graph.Nodes, p.Property(sariflog.PropNodes), w.graphNode)
	each(graph.Edges, p.Property(sariflog.PropEdges), w.edge)
}

func (w *walker) graphNode(node *sarif.Node, p jsonpath.Path) {
	w.visit(NodeNode, node, p)

	if node.Label != nil {
		w.message(node.Label, p.Property(sariflog.PropLabel))
	}
	if node.Location != nil {
		w.location(node.Location, p.Property(sariflog.PropLocation))
	}
	each(node.Children, p.Property(sariflog.PropChildren), w.graphNode)
}

func (w *walker) edge(edge *sarif.Edge, p jsonpath.Path) {
	w.visit(NodeEdge, edge, p)

	if edge.Label != nil {
		w.message(edge.Label, p.Property(sariflog.PropLabel))
	}
}

func (w *walker) graphTraversal(traversal *sarif.GraphTraversal, p jsonpath.Path) {
	w.visit(NodeGraphTraversal, traversal, p)

	if traversal.Description != nil {
		w.message(traversal.Description, p.Property(sariflog.PropDescription))
	}
	eachEntry(w, traversal.InitialState, p.Property(sariflog.PropInitialState), w.multiformatMessageString)
	eachEntry(w, traversal.ImmutableState, p.Property(sariflog.PropImmutableState), w.multiformatMessageString)
	each(traversal.EdgeTraversals, p.Property(sariflog.PropEdgeTraversals), w.edgeTraversal)
}

func (w *walker) edgeTraversal(traversal *sarif.EdgeTraversal, p jsonpath.Path) {
	w.visit(NodeEdgeTraversal, traversal, p)

	if traversal.Message != nil {
		w.message(traversal.Message, p.Property(sariflog.PropMessage))
	}
	eachEntry(w, traversal.FinalState, p.Property(sariflog.PropFinalState), w.multiformatMessageString)
}

func (w *walker) stack(stack *sarif.Stack, p jsonpath.Path) {
	w.visit(NodeStack, stack, p)

	if stack.Message != nil {
		w.message(stack.Message, p.Property(sariflog.PropMessage))
	}
	each(stack.Frames, p.Property(sariflog.PropFrames), w.stackFrame)
}

func (w *walker) stackFrame(frame *sarif.StackFrame, p jsonpath.Path) {
	w.visit(NodeStackFrame, frame, p)

	if frame.Location != nil {
		w.location(frame.Location, p.Property(sariflog.PropLocation))
	}
}

func (w *walker) message(message *sarif.Message, p jsonpath.Path) {
	w.visit(NodeMessage, message, p)
}

func (w *walker) multiformatMessageString(s *sarif.MultiformatMessageString, p jsonpath.Path) {
	w.visit(NodeMultiformatMessageString, s, p)
}

func (w *walker) invocation(invocation *sarif.Invocation, p jsonpath.Path) {
	w.visit(NodeInvocation, invocation, p)

	each(invocation.ResponseFiles, p.Property(sariflog.PropResponseFiles), w.artifactLocation)
	each(invocation.RuleConfigurationOverrides, p.Property(sariflog.PropRuleConfigurationOverrides), w.ruleOverride)
	each(invocation.NotificationConfigurationOverrides, p.Property(sariflog.PropNotificationConfigurationOverrides), w.notificationOverride)
	each(invocation.ToolExecutionNotifications, p.Property(sariflog.PropToolExecutionNotifications), w.notification)
	each(invocation.ToolConfigurationNotifications, p.Property(sariflog.PropToolConfigurationNotifications), w.notification)

	for _, f := range []struct {
		name     string
		location *sarif.ArtifactLocation
	}{
		{sariflog.PropExecutableLocation, invocation.ExecutableLocation},
		{sariflog.PropWorkingDirectory, invocation.WorkingDirectory},
		{sariflog.PropStdin, invocation.Stdin},
		{sariflog.PropStdout, invocation.Stdout},
		{sariflog.PropStderr, invocation.Stderr},
		{sariflog.PropStdoutStderr, invocation.StdoutStderr},
	} {
		if f.location != nil {
			w.artifactLocation(f.location, p.Property(f.name))
		}
	}
}

func (w *walker) configurationOverride(override *sarif.ConfigurationOverride, p jsonpath.Path, kind ReferenceKind) {
	w.visit(NodeConfigurationOverride, override, p)

	if override.Descriptor != nil {
		w.reference(override.Descriptor, p.Property(sariflog.PropDescriptor), kind)
	}
}

func (w *walker) ruleOverride(override *sarif.ConfigurationOverride, p jsonpath.Path) {
	w.configurationOverride(override, p, ReferenceKindRule)
}

func (w *walker) notificationOverride(override *sarif.ConfigurationOverride, p jsonpath.Path) {
	w.configurationOverride(override, p, ReferenceKindNotification)
}

func (w *walker) notification(notification *sarif.Notification, p jsonpath.Path) {
	w.visit(NodeNotification, notification, p)

	each(notification.Locations, p.Property(sariflog.PropLocations), w.location)
	if notification.Message != nil {
		w.message(notification.Message, p.Property(sariflog.PropMessage))
	}
	if notification.Exception != nil {
		w.exception(notification.Exception, p.Property(sariflog.PropException))
	}
	if notification.Descriptor != nil {
		w.notificationReference(notification.Descriptor, p.Property(sariflog.PropDescriptor))
	}
	if notification.AssociatedRule != nil {
		w.ruleReference(notification.AssociatedRule, p.Property(sariflog.PropAssociatedRule))
	}
}

func (w *walker) exception(exception *sarif.Exception, p jsonpath.Path) {
	w.visit(NodeException, exception, p)

	if exception.Stack != nil {
		w.stack(exception.Stack, p.Property(sariflog.PropStack))
	}
	each(exception.InnerExceptions, p.Property(sariflog.PropInnerExceptions), w.exception)
}

func (w *walker) versionControlDetails(details *sarif.VersionControlDetails, p jsonpath.Path) {
	w.visit(NodeVersionControlDetails, details, p)

	if details.MappedTo != nil {
		w.artifactLocation(details.MappedTo, p.Property(sariflog.PropMappedTo))
	}
}

func (w *walker) webRequest(request *sarif.WebRequest, p jsonpath.Path) {
	w.visit(NodeWebRequest, request, p)

	if request.Body != nil {
		w.artifactContent(request.Body, p.Property(sariflog.PropBody))
	}
}

func (w *walker) webResponse(response *sarif.WebResponse, p jsonpath.Path) {
	w.visit(NodeWebResponse, response, p)

	if response.Body != nil {
		w.artifactContent(response.Body, p.Property(sariflog.PropBody))
	}
}

func (w *walker) suppression(suppression *sarif.Suppression, p jsonpath.Path) {
	w.visit(NodeSuppression, suppression, p)

	if suppression.Location != nil {
		w.location(suppression.Location, p.Property(sariflog.PropLocation))
	}
}

func (w *walker) fix(fix *sarif.Fix, p jsonpath.Path) {
	w.visit(NodeFix, fix, p)

	if fix.Description != nil {
		w.message(fix.Description, p.Property(sariflog.PropDescription))
	}
	each(fix.ArtifactChanges, p.Property(sariflog.PropArtifactChanges), w.artifactChange)
}

func (w *walker) artifactChange(change *sarif.ArtifactChange, p jsonpath.Path) {
	if w.present(p, sariflog.PropArtifactLocation) {
		w.artifactLocation(&change.ArtifactLocation, p.Property(sariflog.PropArtifactLocation))
	}
	each(change.Replacements, p.Property(sariflog.PropReplacements), w.replacement)
}

func (w *walker) replacement(replacement *sarif.Replacement, p jsonpath.Path) {
	if w.present(p, sariflog.PropDeletedRegion) {
		w.region(&replacement.DeletedRegion, p.Property(sariflog.PropDeletedRegion))
	}
	if replacement.InsertedContent != nil {
		w.artifactContent(replacement.InsertedContent, p.Property(sariflog.PropInsertedContent))
	}
}

func (w *walker) attachment(attachment *sarif.Attachment, p jsonpath.Path) {
	w.visit(NodeAttachment, attachment, p)

	if attachment.Description != nil {
		w.message(attachment.Description, p.Property(sariflog.PropDescription))
	}
	if attachment.ArtifactLocation != nil {
		w.artifactLocation(attachment.ArtifactLocation, p.Property(sariflog.PropArtifactLocation))
	}
}

func (w *walker) resultProvenance(provenance *sarif.ResultProvenance, p jsonpath.Path) {
	w.visit(NodeResultProvenance, provenance, p)

	each(provenance.ConversionSources, p.Property(sariflog.PropConversionSources), w.physicalLocation)
}
