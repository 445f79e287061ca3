package validation

import (
	"github.com/hashicorp/go-hclog"
	"github.com/owenrumney/go-sarif/v2/sarif"

	sariflog "github.com/scan-io-git/sariflint/internal/sarif"
)

// ReferenceKind tells which descriptor array of a tool component an index in a
// reportingDescriptorReference points into.
type ReferenceKind int

const (
	ReferenceKindNone ReferenceKind = iota
	ReferenceKindRule
	ReferenceKindNotification
	ReferenceKindTaxon
)

func (k ReferenceKind) String() string {
	switch k {
	case ReferenceKindRule:
		return "rule"
	case ReferenceKindNotification:
		return "notification"
	case ReferenceKindTaxon:
		return "taxon"
	default:
		return "none"
	}
}

// ArrayName returns the toolComponent property the kind resolves against.
func (k ReferenceKind) ArrayName() string {
	switch k {
	case ReferenceKindRule:
		return sariflog.PropRules
	case ReferenceKindNotification:
		return sariflog.PropNotifications
	case ReferenceKindTaxon:
		return sariflog.PropTaxa
	default:
		return ""
	}
}

// Context is the mutable state of one document validation. It is owned by a
// single traversal and must not be shared between goroutines.
//
// The Current* fields are maintained by the engine through the Enter* methods;
// each returns a function restoring the previous value, meant to be deferred.
type Context struct {
	Document *sariflog.Document

	CurrentRun                              *sarif.Run
	CurrentRunIndex                         int
	CurrentResult                           *sarif.Result
	CurrentResultIndex                      int
	CurrentReportingDescriptorReferenceKind ReferenceKind

	Sink   Sink
	Logger hclog.Logger

	levels  map[string]Level
	options map[string]map[string]string
}

// ContextOption customizes a Context.
type ContextOption func(*Context)

// WithLogger sets the logger rules may use for debug output.
func WithLogger(logger hclog.Logger) ContextOption {
	return func(c *Context) {
		c.Logger = logger
	}
}

// WithLevel overrides the level of every diagnostic emitted by rule id.
func WithLevel(ruleID string, level Level) ContextOption {
	return func(c *Context) {
		c.levels[ruleID] = level
	}
}

// WithOptions sets the string options of rule id.
func WithOptions(ruleID string, options map[string]string) ContextOption {
	return func(c *Context) {
		c.options[ruleID] = options
	}
}

// NewContext prepares a context for validating doc. A nil sink discards diagnostics.
func NewContext(doc *sariflog.Document, sink Sink, opts ...ContextOption) *Context {
	c := &Context{
		Document:           doc,
		CurrentRunIndex:    -1,
		CurrentResultIndex: -1,
		Sink:               sink,
		Logger:             hclog.NewNullLogger(),
		levels:             make(map[string]Level),
		options:            make(map[string]map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Sink == nil {
		c.Sink = SinkFunc(func(Diagnostic) {})
	}
	if c.Logger == nil {
		c.Logger = hclog.NewNullLogger()
	}
	return c
}

// EnterRun makes run, at position index of runs, the current run.
func (c *Context) EnterRun(run *sarif.Run, index int) (restore func()) {
	restoreRun := swap(&c.CurrentRun, run)
	restoreIndex := swap(&c.CurrentRunIndex, index)
	return func() {
		restoreIndex()
		restoreRun()
	}
}

// EnterResult makes result, at position index of the current run's results, the current result.
func (c *Context) EnterResult(result *sarif.Result, index int) (restore func()) {
	restoreResult := swap(&c.CurrentResult, result)
	restoreIndex := swap(&c.CurrentResultIndex, index)
	return func() {
		restoreIndex()
		restoreResult()
	}
}

// EnterReferenceKind sets the kind used to resolve descriptor reference indexes.
func (c *Context) EnterReferenceKind(kind ReferenceKind) (restore func()) {
	return swap(&c.CurrentReportingDescriptorReferenceKind, kind)
}

func swap[T any](field *T, value T) func() {
	prev := *field
	*field = value
	return func() {
		*field = prev
	}
}

// Level returns the level diagnostics of rule are reported with.
func (c *Context) Level(rule Rule) Level {
	if level, ok := c.levels[rule.ID()]; ok {
		return level
	}
	return rule.DefaultLevel()
}

// Option returns the configured option key of rule id, or def when unset.
func (c *Context) Option(ruleID, key, def string) string {
	if v, ok := c.options[ruleID][key]; ok {
		return v
	}
	return def
}

// File is the URI of the document under validation, if it was read from disk.
func (c *Context) File() string {
	if c.Document == nil {
		return ""
	}
	return c.Document.URI
}
