package validation

import (
	"fmt"
	"strings"
)

// Level is the severity of a diagnostic, ordered so that a higher value is more severe.
type Level int

const (
	LevelNone Level = iota
	LevelNote
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelNote:
		return "note"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "none"
	}
}

// ParseLevel accepts the SARIF level names error, warning, note and none, in any case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError, nil
	case "warning":
		return LevelWarning, nil
	case "note":
		return LevelNote, nil
	case "none":
		return LevelNone, nil
	default:
		return LevelNone, fmt.Errorf("invalid level %q. Valid levels: error, warning, note, none", s)
	}
}
