package sarif

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"
)

// FormatMessage substitutes "{n}" placeholders in template with args[n]. Doubled
// braces render as single literal braces; placeholders without a matching
// argument are left as written.
func FormatMessage(template string, args []string) string {
	if !strings.ContainsAny(template, "{}") {
		return template
	}

	var b strings.Builder
	for i := 0; i < len(template); i++ {
		c := template[i]
		switch {
		case c == '{' && i+1 < len(template) && template[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(template) && template[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(template[i:], '}')
			if end < 0 {
				b.WriteString(template[i:])
				return b.String()
			}
			n, err := strconv.Atoi(template[i+1 : i+end])
			if err != nil || n < 0 || n >= len(args) {
				b.WriteString(template[i : i+end+1])
			} else {
				b.WriteString(args[n])
			}
			i += end
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Placeholders returns the highest placeholder number used in template, or -1
// when it has none. It fails on unbalanced braces and non-numeric placeholders.
func Placeholders(template string) (int, error) {
	highest := -1
	for i := 0; i < len(template); i++ {
		c := template[i]
		switch {
		case (c == '{' || c == '}') && i+1 < len(template) && template[i+1] == c:
			i++
		case c == '}':
			return 0, fmt.Errorf("unmatched '}' at offset %d", i)
		case c == '{':
			end := strings.IndexByte(template[i:], '}')
			if end < 0 {
				return 0, fmt.Errorf("unterminated placeholder at offset %d", i)
			}
			body := template[i+1 : i+end]
			n, err := strconv.Atoi(body)
			if err != nil || n < 0 || strings.TrimSpace(body) != body {
				return 0, fmt.Errorf("invalid placeholder {%s} at offset %d", body, i)
			}
			if n > highest {
				highest = n
			}
			i += end
		}
	}
	return highest, nil
}

// MessageString returns the text of a message string, preferring plain text
// over markdown.
func MessageString(s *sarif.MultiformatMessageString) string {
	if s == nil {
		return ""
	}
	if s.Text != nil {
		return *s.Text
	}
	if s.Markdown != nil {
		return *s.Markdown
	}
	return ""
}

// LookupMessageString returns the messageStrings entry id of a rule descriptor.
func LookupMessageString(rule *sarif.ReportingDescriptor, id string) (string, bool) {
	if rule == nil || rule.MessageStrings == nil {
		return "", false
	}
	s, ok := (*rule.MessageStrings)[id]
	if !ok {
		return "", false
	}
	return MessageString(&s), true
}
