package driver

import (
	"github.com/scan-io-git/sariflint/internal/validation"
)

// Summary counts what happened while validating one or more documents.
type Summary struct {
	Files int
	// Malformed documents could not be parsed; no rule ran on them.
	Malformed int
	// Unreadable files could not be read at all.
	Unreadable int
	// Faults is the number of rule invocations that failed.
	Faults int
	Levels map[validation.Level]int
}

func (s *Summary) count(level validation.Level) {
	if s.Levels == nil {
		s.Levels = make(map[validation.Level]int)
	}
	s.Levels[level]++
}

// Count returns the number of results reported at level.
func (s Summary) Count(level validation.Level) int {
	return s.Levels[level]
}

// Results returns the number of results at any level.
func (s Summary) Results() int {
	total := 0
	for _, n := range s.Levels {
		total += n
	}
	return total
}

// Add merges other into s.
func (s *Summary) Add(other Summary) {
	s.Files += other.Files
	s.Malformed += other.Malformed
	s.Unreadable += other.Unreadable
	s.Faults += other.Faults
	for level, n := range other.Levels {
		if s.Levels == nil {
			s.Levels = make(map[validation.Level]int)
		}
		s.Levels[level] += n
	}
}

// Failed reports whether any rule failed or any result was reported at
// failLevel or above.
func (s Summary) Failed(failLevel validation.Level) bool {
	if s.Faults > 0 {
		return true
	}
	for level := failLevel; level <= validation.LevelError; level++ {
		if s.Levels[level] > 0 {
			return true
		}
	}
	return false
}
