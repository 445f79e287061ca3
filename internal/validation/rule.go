package validation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/sariflint/internal/jsonpath"
	sariflog "github.com/scan-io-git/sariflint/internal/sarif"
)

// Rule is the metadata every validation rule carries. The analysis itself is
// provided by implementing any subset of the *Analyzer interfaces below; the
// engine calls a rule only for the node types it implements.
type Rule interface {
	ID() string
	Name() string
	Description() string
	HelpURI() string
	DefaultLevel() Level
	EnabledByDefault() bool
	// Messages maps template ids to message templates. Argument {0} of every
	// template is the location of the finding.
	Messages() map[string]string
}

// RuleBase implements Rule from plain fields and is meant to be embedded.
type RuleBase struct {
	RuleID    string
	RuleName  string
	Summary   string
	Help      string
	Level     Level
	Disabled  bool
	Templates map[string]string
}

func (r *RuleBase) ID() string                  { return r.RuleID }
func (r *RuleBase) Name() string                { return r.RuleName }
func (r *RuleBase) Description() string         { return r.Summary }
func (r *RuleBase) HelpURI() string             { return r.Help }
func (r *RuleBase) DefaultLevel() Level         { return r.Level }
func (r *RuleBase) EnabledByDefault() bool      { return !r.Disabled }
func (r *RuleBase) Messages() map[string]string { return r.Templates }

// LogResult emits a finding of this rule at p.
func (r *RuleBase) LogResult(ctx *Context, p jsonpath.Path, templateID string, args ...interface{}) {
	LogResult(ctx, r, p, templateID, args...)
}

// CheckRule verifies the metadata of a rule before it is used.
func CheckRule(rule Rule) error {
	if rule.ID() == "" {
		return errors.New("rule has an empty id")
	}
	if rule.Name() == "" {
		return fmt.Errorf("rule %s has an empty name", rule.ID())
	}
	if len(rule.Messages()) == 0 {
		return fmt.Errorf("rule %s defines no message templates", rule.ID())
	}

	ids := make([]string, 0, len(rule.Messages()))
	for id := range rule.Messages() {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("rule %s has a message template with an empty id", rule.ID())
		}
		if _, err := sariflog.Placeholders(rule.Messages()[id]); err != nil {
			return fmt.Errorf("rule %s template %q: %w", rule.ID(), id, err)
		}
	}
	return nil
}

// NodeKind identifies the SARIF object type of a visited node.
type NodeKind int

const (
	NodeLog NodeKind = iota
	NodeRun
	NodeTool
	NodeToolComponent
	NodeToolComponentReference
	NodeReportingDescriptor
	NodeReportingDescriptorReference
	NodeResult
	NodeLocation
	NodePhysicalLocation
	NodeRegion
	NodeAddress
	NodeArtifact
	NodeArtifactLocation
	NodeLogicalLocation
	NodeCodeFlow
	NodeThreadFlow
	NodeThreadFlowLocation
	NodeGraph
	NodeNode
	NodeEdge
	NodeGraphTraversal
	NodeEdgeTraversal
	NodeStack
	NodeStackFrame
	NodeMessage
	NodeMultiformatMessageString
	NodeInvocation
	NodeNotification
	NodeConfigurationOverride
	NodeException
	NodeVersionControlDetails
	NodeWebRequest
	NodeWebResponse
	NodeSuppression
	NodeFix
	NodeAttachment
	NodeResultProvenance

	numNodeKinds
)

var nodeKindNames = [numNodeKinds]string{
	"log", "run", "tool", "toolComponent", "toolComponentReference",
	"reportingDescriptor", "reportingDescriptorReference", "result", "location",
	"physicalLocation", "region", "address", "artifact", "artifactLocation",
	"logicalLocation", "codeFlow", "threadFlow", "threadFlowLocation", "graph",
	"node", "edge", "graphTraversal", "edgeTraversal", "stack", "stackFrame",
	"message", "multiformatMessageString", "invocation", "notification",
	"configurationOverride", "exception", "versionControlDetails", "webRequest",
	"webResponse", "suppression", "fix", "attachment", "resultProvenance",
}

func (k NodeKind) String() string {
	if k < 0 || k >= numNodeKinds {
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
	return nodeKindNames[k]
}

// Analyzer interfaces, one per node type. The path passed along is the
// location of the node in the document.
type (
	LogAnalyzer interface {
		AnalyzeLog(ctx *Context, log *sarif.Report, p jsonpath.Path)
	}
	RunAnalyzer interface {
		AnalyzeRun(ctx *Context, run *sarif.Run, p jsonpath.Path)
	}
	ToolAnalyzer interface {
		AnalyzeTool(ctx *Context, tool *sarif.Tool, p jsonpath.Path)
	}
	ToolComponentAnalyzer interface {
		AnalyzeToolComponent(ctx *Context, component *sarif.ToolComponent, p jsonpath.Path)
	}
	ToolComponentReferenceAnalyzer interface {
		AnalyzeToolComponentReference(ctx *Context, ref *sarif.ToolComponentReference, p jsonpath.Path)
	}
	ReportingDescriptorAnalyzer interface {
		AnalyzeReportingDescriptor(ctx *Context, descriptor *sarif.ReportingDescriptor, p jsonpath.Path)
	}
	ReportingDescriptorReferenceAnalyzer interface {
		AnalyzeReportingDescriptorReference(ctx *Context, ref *sarif.ReportingDescriptorReference, p jsonpath.Path)
	}
	ResultAnalyzer interface {
		AnalyzeResult(ctx *Context, result *sarif.Result, p jsonpath.Path)
	}
	LocationAnalyzer interface {
		AnalyzeLocation(ctx *Context, location *sarif.Location, p jsonpath.Path)
	}
	PhysicalLocationAnalyzer interface {
		AnalyzePhysicalLocation(ctx *Context, location *sarif.PhysicalLocation, p jsonpath.Path)
	}
	RegionAnalyzer interface {
		AnalyzeRegion(ctx *Context, region *sarif.Region, p jsonpath.Path)
	}
	AddressAnalyzer interface {
		AnalyzeAddress(ctx *Context, address *sarif.Address, p jsonpath.Path)
	}
	ArtifactAnalyzer interface {
		AnalyzeArtifact(ctx *Context, artifact *sarif.Artifact, p jsonpath.Path)
	}
	ArtifactLocationAnalyzer interface {
		AnalyzeArtifactLocation(ctx *Context, location *sarif.ArtifactLocation, p jsonpath.Path)
	}
	LogicalLocationAnalyzer interface {
		AnalyzeLogicalLocation(ctx *Context, location *sarif.LogicalLocation, p jsonpath.Path)
	}
	CodeFlowAnalyzer interface {
		AnalyzeCodeFlow(ctx *Context, flow *sarif.CodeFlow, p jsonpath.Path)
	}
	ThreadFlowAnalyzer interface {
		AnalyzeThreadFlow(ctx *Context, flow *sarif.ThreadFlow, p jsonpath.Path)
	}
	ThreadFlowLocationAnalyzer interface {
		AnalyzeThreadFlowLocation(ctx *Context, location *sarif.ThreadFlowLocation, p jsonpath.Path)
	}
	GraphAnalyzer interface {
		AnalyzeGraph(ctx *Context, graph *sarif.Graph, p jsonpath.Path)
	}
	NodeAnalyzer interface {
		AnalyzeNode(ctx *Context, node *sarif.Node, p jsonpath.Path)
	}
	EdgeAnalyzer interface {
		AnalyzeEdge(ctx *Context, edge *sarif.Edge, p jsonpath.Path)
	}
	GraphTraversalAnalyzer interface {
		AnalyzeGraphTraversal(ctx *Context, traversal *sarif.GraphTraversal, p jsonpath.Path)
	}
	EdgeTraversalAnalyzer interface {
		AnalyzeEdgeTraversal(ctx *Context, traversal *sarif.EdgeTraversal, p jsonpath.Path)
	}
	StackAnalyzer interface {
		AnalyzeStack(ctx *Context, stack *sarif.Stack, p jsonpath.Path)
	}
	StackFrameAnalyzer interface {
		AnalyzeStackFrame(ctx *Context, frame *sarif.StackFrame, p jsonpath.Path)
	}
	MessageAnalyzer interface {
		AnalyzeMessage(ctx *Context, message *sarif.Message, p jsonpath.Path)
	}
	MultiformatMessageStringAnalyzer interface {
		AnalyzeMultiformatMessageString(ctx *Context, s *sarif.MultiformatMessageString, p jsonpath.Path)
	}
	InvocationAnalyzer interface {
		AnalyzeInvocation(ctx *Context, invocation *sarif.Invocation, p jsonpath.Path)
	}
	NotificationAnalyzer interface {
		AnalyzeNotification(ctx *Context, notification *sarif.Notification, p jsonpath.Path)
	}
	ConfigurationOverrideAnalyzer interface {
		AnalyzeConfigurationOverride(ctx *Context, override *sarif.ConfigurationOverride, p jsonpath.Path)
	}
	ExceptionAnalyzer interface {
		AnalyzeException(ctx *Context, exception *sarif.Exception, p jsonpath.Path)
	}
	VersionControlDetailsAnalyzer interface {
		AnalyzeVersionControlDetails(ctx *Context, details *sarif.VersionControlDetails, p jsonpath.Path)
	}
	WebRequestAnalyzer interface {
		AnalyzeWebRequest(ctx *Context, request *sarif.WebRequest, p jsonpath.Path)
	}
	WebResponseAnalyzer interface {
		AnalyzeWebResponse(ctx *Context, response *sarif.WebResponse, p jsonpath.Path)
	}
	SuppressionAnalyzer interface {
		AnalyzeSuppression(ctx *Context, suppression *sarif.Suppression, p jsonpath.Path)
	}
	FixAnalyzer interface {
		AnalyzeFix(ctx *Context, fix *sarif.Fix, p jsonpath.Path)
	}
	AttachmentAnalyzer interface {
		AnalyzeAttachment(ctx *Context, attachment *sarif.Attachment, p jsonpath.Path)
	}
	ResultProvenanceAnalyzer interface {
		AnalyzeResultProvenance(ctx *Context, provenance *sarif.ResultProvenance, p jsonpath.Path)
	}
)
