// Package driver runs the registered rules over SARIF documents. Each document
// gets fresh rule instances and its own validation context; documents are
// validated concurrently up to the configured number of threads.
package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/sariflint/internal/config"
	"github.com/scan-io-git/sariflint/internal/jsonpath"
	"github.com/scan-io-git/sariflint/internal/rules"
	sariflog "github.com/scan-io-git/sariflint/internal/sarif"
	"github.com/scan-io-git/sariflint/internal/validation"
)

const (
	// FaultRuleID identifies the notification reported when a rule fails.
	FaultRuleID     = "SARIFLINT0001"
	FaultRuleName   = "RuleFault"
	faultTemplateID = "ERR998_ExceptionInAnalyze"
	faultTemplate   = "{0}: Rule '{1}' failed while analyzing a {2} and has been disabled for the rest of " +
		"this document: {3}"
)

type Driver struct {
	registry *rules.Registry
	cfg      *config.Config
	sink     validation.Sink
	logger   hclog.Logger
}

// New returns a driver reporting to sink. A nil cfg means the defaults, a nil
// sink discards diagnostics.
func New(registry *rules.Registry, cfg *config.Config, sink validation.Sink, logger hclog.Logger) *Driver {
	if cfg == nil {
		cfg = config.Default()
	}
	if sink == nil {
		sink = validation.SinkFunc(func(validation.Diagnostic) {})
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Driver{
		registry: registry,
		cfg:      cfg,
		sink:     sink,
		logger:   logger,
	}
}

// ActiveRules returns fresh instances of the rules enabled by the configuration.
func (d *Driver) ActiveRules() []validation.Rule {
	var active []validation.Rule
	for _, rule := range d.registry.Instantiate() {
		enabled := rule.EnabledByDefault()
		if rc, ok := d.cfg.Rule(rule.ID()); ok && rc.Enabled != nil {
			enabled = *rc.Enabled
		}
		if enabled {
			active = append(active, rule)
		}
	}
	return active
}

func (d *Driver) contextOptions() []validation.ContextOption {
	opts := []validation.ContextOption{validation.WithLogger(d.logger.Named("rules"))}
	for id, rc := range d.cfg.Rules {
		if rc.Level != "" {
			level, err := validation.ParseLevel(rc.Level)
			if err != nil {
				d.logger.Warn("ignoring rule level override", "rule", id, "error", err)
			} else {
				opts = append(opts, validation.WithLevel(id, level))
			}
		}
		if len(rc.Options) > 0 {
			opts = append(opts, validation.WithOptions(id, rc.Options))
		}
	}
	return opts
}

// ValidateFile reads and validates the SARIF log at path.
func (d *Driver) ValidateFile(ctx context.Context, path string) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	d.logger.Debug("validating file", "file", path)

	doc, err := sariflog.ReadDocument(path)
	if err != nil {
		return d.loadFailure(path, err)
	}
	return d.validate(doc), nil
}

// ValidateBytes validates data, reporting diagnostics under name.
func (d *Driver) ValidateBytes(ctx context.Context, name string, data []byte) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	d.logger.Debug("validating document", "file", name)

	doc, err := sariflog.ParseDocument(data)
	if err != nil {
		return d.loadFailure(name, fmt.Errorf("%s: %w", name, err))
	}
	doc.URI = name
	return d.validate(doc), nil
}

func (d *Driver) loadFailure(name string, err error) (Summary, error) {
	summary := Summary{Files: 1}
	if errors.Is(err, sariflog.ErrMalformedDocument) {
		summary.Malformed++
		d.logger.Error("malformed document", "file", name, "error", err)
	} else {
		summary.Unreadable++
		d.logger.Error("failed to read document", "file", name, "error", err)
	}
	return summary, err
}

// ValidateFiles validates every path, running up to the configured number of
// documents concurrently. Once ctx is done no further file is started. The
// returned error joins the errors of the files that could not be validated.
func (d *Driver) ValidateFiles(ctx context.Context, paths []string) (Summary, error) {
	summaries := make([]Summary, len(paths))
	errs := make([]error, len(paths))

	cancelled := forEachBounded(ctx, d.cfg.Validation.Threads, paths, func(i int, path string) {
		summaries[i], errs[i] = d.ValidateFile(ctx, path)
	})

	var total Summary
	for _, s := range summaries {
		total.Add(s)
	}
	d.logger.Info("validation finished",
		"files", total.Files,
		"errors", total.Count(validation.LevelError),
		"warnings", total.Count(validation.LevelWarning),
		"notes", total.Count(validation.LevelNote),
		"faults", total.Faults,
		"malformed", total.Malformed,
	)
	return total, errors.Join(append(errs, cancelled)...)
}

// forEachBounded calls f for every value on its own goroutine, with at most
// limit calls running at a time. It stops scheduling when ctx is done and
// returns the context error in that case.
func forEachBounded(ctx context.Context, limit int, values []string, f func(i int, value string)) error {
	if limit < 1 {
		limit = 1
	}
	guard := make(chan struct{}, limit)
	var wg sync.WaitGroup
	defer wg.Wait()

	for i, value := range values {
		select {
		case guard <- struct{}{}: // blocks while limit calls are running
		case <-ctx.Done():
			return ctx.Err()
		}
		if ctx.Err() != nil {
			<-guard
			return ctx.Err()
		}
		wg.Add(1)
		go func(i int, value string) {
			defer wg.Done()
			defer func() { <-guard }()
			f(i, value)
		}(i, value)
	}
	return nil
}

// document is the state of one validation.
type document struct {
	doc      *sariflog.Document
	sink     validation.Sink
	logger   hclog.Logger
	summary  Summary
	disabled map[string]bool
}

func (d *Driver) validate(doc *sariflog.Document) Summary {
	if doc.TypeMismatch != nil {
		d.logger.Debug("value does not fit the typed model and is ignored by it",
			"file", doc.URI, "error", doc.TypeMismatch)
	}

	state := &document{
		doc:      doc,
		sink:     d.sink,
		logger:   d.logger,
		summary:  Summary{Files: 1},
		disabled: make(map[string]bool),
	}
	counting := validation.SinkFunc(func(diag validation.Diagnostic) {
		if diag.Kind == validation.KindResult {
			state.summary.count(diag.Level)
		}
		state.sink.Emit(diag)
	})

	engineOpts := []validation.EngineOption{validation.WithDispatch(state.dispatch)}
	if d.logger.IsTrace() {
		engineOpts = append(engineOpts, validation.WithTrace(func(kind validation.NodeKind, p jsonpath.Path) {
			d.logger.Trace("visiting node", "file", doc.URI, "kind", kind.String(), "pointer", p.Pointer())
		}))
	}

	engine := validation.NewEngine(d.ActiveRules(), engineOpts...)
	engine.Run(validation.NewContext(doc, counting, d.contextOptions()...))

	d.logger.Debug("document validated", "file", doc.URI, "results", state.summary.Results(), "faults", state.summary.Faults)
	return state.summary
}

// dispatch isolates one rule invocation. A rule that panics is reported and
// skipped for the rest of the document; panics that signal a bug in the
// validator itself are re-raised.
func (s *document) dispatch(rule validation.Rule, kind validation.NodeKind, p jsonpath.Path, analyze func()) {
	if s.disabled[rule.ID()] {
		return
	}
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		if validation.IsInvariantViolation(v) {
			panic(v)
		}
		s.disabled[rule.ID()] = true
		s.fault(&validation.RuleFault{
			RuleID: rule.ID(),
			Kind:   kind,
			Path:   p,
			Value:  v,
			Stack:  debug.Stack(),
		})
	}()
	analyze()
}

func (s *document) fault(fault *validation.RuleFault) {
	s.summary.Faults++
	s.logger.Error("rule failed", "file", s.doc.URI, "rule", fault.RuleID, "pointer", fault.Path.Pointer(), "error", fault)
	s.logger.Debug("rule failure stack", "rule", fault.RuleID, "stack", string(fault.Stack))

	location := fault.Path.Accessor()
	if fault.Path.IsRoot() {
		location = validation.RootAccessor
	}
	arguments := []string{location, fault.RuleID, fault.Kind.String(), fmt.Sprint(fault.Value)}

	diag := validation.Diagnostic{
		Kind:             validation.KindToolNotification,
		RuleID:           FaultRuleID,
		RuleName:         FaultRuleName,
		Level:            validation.LevelError,
		Pointer:          fault.Path.Pointer(),
		Accessor:         fault.Path.Accessor(),
		TemplateID:       faultTemplateID,
		Arguments:        arguments,
		Message:          sariflog.FormatMessage(faultTemplate, arguments),
		File:             s.doc.URI,
		AssociatedRuleID: fault.RuleID,
	}
	if node, err := s.doc.Node(fault.Path); err == nil {
		diag.Line, diag.Column, _ = node.LineInfo()
	}
	s.sink.Emit(diag)
}
