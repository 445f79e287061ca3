package validation

// DiagnosticKind separates findings about the document from findings about
// the validator itself.
type DiagnosticKind int

const (
	// KindResult is a defect found in the document.
	KindResult DiagnosticKind = iota
	// KindToolNotification reports a problem with the validator or its
	// configuration, e.g. a rule that failed while analyzing a node.
	KindToolNotification
)

func (k DiagnosticKind) String() string {
	if k == KindToolNotification {
		return "notification"
	}
	return "result"
}

// Diagnostic is one rendered finding.
type Diagnostic struct {
	Kind     DiagnosticKind
	RuleID   string
	RuleName string
	Level    Level

	// Pointer and Accessor are two renderings of the same path.
	Pointer  string
	Accessor string
	// Line and Column are 0 when the location has no source position.
	Line   int
	Column int

	TemplateID string
	// Arguments are the rendered message arguments; the first is the location.
	Arguments []string
	Message   string

	// File is the document the diagnostic belongs to, if known.
	File string
	// AssociatedRuleID names the rule a tool notification is about.
	AssociatedRuleID string
}

// HasPosition reports whether the diagnostic carries a source position.
func (d Diagnostic) HasPosition() bool {
	return d.Line > 0
}

// Sink receives diagnostics as they are produced. Sinks shared between
// concurrently validated documents must be safe for concurrent use.
type Sink interface {
	Emit(d Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(d Diagnostic)

func (f SinkFunc) Emit(d Diagnostic) { f(d) }
