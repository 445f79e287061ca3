// Package output provides the sinks validation diagnostics are written to.
package output

import (
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/sariflint/internal/validation"
)

// MemorySink keeps every diagnostic in emission order.
type MemorySink struct {
	mu          sync.Mutex
	diagnostics []validation.Diagnostic
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Emit(d validation.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagnostics = append(s.diagnostics, d)
}

// Diagnostics returns a copy of the collected diagnostics.
func (s *MemorySink) Diagnostics() []validation.Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]validation.Diagnostic(nil), s.diagnostics...)
}

// MultiSink hands every diagnostic to each of its sinks in order.
type MultiSink []validation.Sink

// NewMultiSink drops nil sinks.
func NewMultiSink(sinks ...validation.Sink) MultiSink {
	m := make(MultiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

func (m MultiSink) Emit(d validation.Diagnostic) {
	for _, s := range m {
		s.Emit(d)
	}
}

// ConsoleSink writes one log line per diagnostic.
type ConsoleSink struct {
	logger hclog.Logger
}

func NewConsoleSink(logger hclog.Logger) *ConsoleSink {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ConsoleSink{logger: logger}
}

func (s *ConsoleSink) Emit(d validation.Diagnostic) {
	args := []interface{}{
		"file", d.File,
		"rule", d.RuleID,
		"level", d.Level.String(),
		"pointer", d.Pointer,
	}
	if d.HasPosition() {
		args = append(args, "line", d.Line, "column", d.Column)
	}
	if d.AssociatedRuleID != "" {
		args = append(args, "associated_rule", d.AssociatedRuleID)
	}

	switch {
	case d.Kind == validation.KindToolNotification:
		s.logger.Error(d.Message, args...)
	case d.Level == validation.LevelError:
		s.logger.Error(d.Message, args...)
	case d.Level == validation.LevelWarning:
		s.logger.Warn(d.Message, args...)
	case d.Level == validation.LevelNote:
		s.logger.Info(d.Message, args...)
	default:
		s.logger.Debug(d.Message, args...)
	}
}
