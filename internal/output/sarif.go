package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/sariflint/internal/validation"
)

const (
	ToolName           = "sariflint"
	ToolInformationURI = "https://github.com/scan-io-git/sariflint"
)

// SarifSink collects diagnostics into a SARIF log with a single run. Rules are
// described in the run the first time one of their results is added.
type SarifSink struct {
	mu         sync.Mutex
	report     *sarif.Report
	run        *sarif.Run
	invocation *sarif.Invocation
	rules      map[string]validation.Rule
	described  map[string]bool
}

// NewSarifSink prepares an empty log. rules supplies the metadata of the
// rules that may report; results of other rule ids are described by id only.
func NewSarifSink(version string, rules []validation.Rule) (*SarifSink, error) {
	report, run, err := newReport(version)
	if err != nil {
		return nil, err
	}
	s := &SarifSink{
		report:     report,
		run:        run,
		invocation: run.AddInvocation(true),
		rules:      make(map[string]validation.Rule, len(rules)),
		described:  make(map[string]bool),
	}
	for _, r := range rules {
		s.rules[r.ID()] = r
	}
	return s, nil
}

func newReport(version string) (*sarif.Report, *sarif.Run, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}
	run := sarif.NewRunWithInformationURI(ToolName, ToolInformationURI)
	if version != "" {
		run.Tool.Driver.WithVersion(version)
	}
	run.WithAutomationDetails(sarif.NewRunAutomationDetails().WithGUID(uuid.New().String()))
	report.AddRun(run)
	return report, run, nil
}

// NewRulesReport returns a SARIF log describing rules, without results.
func NewRulesReport(version string, rules []validation.Rule) (*sarif.Report, error) {
	report, run, err := newReport(version)
	if err != nil {
		return nil, err
	}
	sorted := append([]validation.Rule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID() < sorted[j].ID()
	})
	for _, r := range sorted {
		describeRule(run.AddRule(r.ID()), r)
	}
	return report, nil
}

func describeRule(descriptor *sarif.ReportingDescriptor, r validation.Rule) {
	descriptor.WithName(r.Name()).
		WithDescription(r.Description()).
		WithDefaultConfiguration(sarif.NewReportingConfiguration().
			WithEnabled(r.EnabledByDefault()).
			WithLevel(r.DefaultLevel().String()))
	if r.HelpURI() != "" {
		descriptor.WithHelpURI(r.HelpURI())
	}

	ids := make([]string, 0, len(r.Messages()))
	for id := range r.Messages() {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	messages := make(sarif.MessageStrings, len(ids))
	for _, id := range ids {
		messages[id] = *sarif.NewMultiformatMessageString(r.Messages()[id])
	}
	descriptor.MessageStrings = &messages
}

func (s *SarifSink) Emit(d validation.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.Kind == validation.KindToolNotification {
		s.notify(d)
		return
	}

	descriptor := s.run.AddRule(d.RuleID)
	if !s.described[d.RuleID] {
		s.described[d.RuleID] = true
		if r, ok := s.rules[d.RuleID]; ok {
			describeRule(descriptor, r)
		}
	}

	result := s.run.CreateResultForRule(d.RuleID).
		WithLevel(d.Level.String()).
		WithMessage(message(d))
	if location := s.location(d); location != nil {
		result.AddLocation(location)
	}
}

func (s *SarifSink) notify(d validation.Diagnostic) {
	notification := sarif.NewNotification().
		WithLevel(d.Level.String()).
		WithMessage(message(d)).
		WithDescriptor(sarif.NewReportingDescriptorReference().WithId(d.RuleID))
	if d.AssociatedRuleID != "" {
		notification.WithAssociatedRule(sarif.NewReportingDescriptorReference().WithId(d.AssociatedRuleID))
	}
	if location := s.location(d); location != nil {
		notification.AddLocation(location)
	}
	s.invocation.ToolExecutionNotifications = append(s.invocation.ToolExecutionNotifications, notification)
	s.invocation.WithExecutionSuccess(false)
}

func message(d validation.Diagnostic) *sarif.Message {
	m := sarif.NewTextMessage(d.Message)
	if d.TemplateID != "" {
		id := d.TemplateID
		m.ID = &id
		m.Arguments = d.Arguments
	}
	return m
}

func (s *SarifSink) location(d validation.Diagnostic) *sarif.Location {
	if d.File == "" && d.Accessor == "" {
		return nil
	}
	location := sarif.NewLocation()
	if d.File != "" {
		s.run.AddDistinctArtifact(d.File)
		physical := sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewSimpleArtifactLocation(d.File))
		if d.HasPosition() {
			physical.WithRegion(sarif.NewRegion().WithStartLine(d.Line).WithStartColumn(d.Column))
		}
		location.WithPhysicalLocation(physical)
	}
	if d.Accessor != "" {
		location.AddLogicalLocations(sarif.NewLogicalLocation().
			WithFullyQualifiedName(d.Accessor).
			WithKind("element"))
	}
	return location
}

// Report returns the log built so far. It must not be modified while
// diagnostics are still being emitted.
func (s *SarifSink) Report() *sarif.Report {
	return s.report
}

// Write writes the log as indented JSON.
func (s *SarifSink) Write(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report.PrettyWrite(w)
}

// WriteFile writes the log to path, replacing any existing file.
func (s *SarifSink) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", path, err)
	}
	if err := s.writeAndClose(file); err != nil {
		return fmt.Errorf("failed to write SARIF log %q: %w", path, err)
	}
	return nil
}

// writeAndClose writes the report to w and closes it. A failed close is
// reported unless the write already failed.
func (s *SarifSink) writeAndClose(w io.WriteCloser) (err error) {
	defer func() {
		if closeErr := w.Close(); err == nil {
			err = closeErr
		}
	}()
	return s.Write(w)
}
