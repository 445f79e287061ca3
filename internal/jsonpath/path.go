// Package jsonpath addresses nodes inside a JSON document.
//
// A Path is an immutable sequence of property-name and array-index tokens. Child
// paths share their parent's storage, so building the path of every node during a
// depth-first walk costs one small allocation per node.
package jsonpath

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-openapi/jsonpointer"
)

// Token is one step of a Path: an object property name or an array index.
type Token struct {
	Name    string
	Index   int
	IsIndex bool
}

// PropertyToken returns a property-name token.
func PropertyToken(name string) Token {
	return Token{Name: name}
}

// IndexToken returns an array-index token.
func IndexToken(index int) Token {
	return Token{Index: index, IsIndex: true}
}

// String renders the token the way it appears in a pointer, unescaped.
func (t Token) String() string {
	if t.IsIndex {
		return strconv.Itoa(t.Index)
	}
	return t.Name
}

type segment struct {
	parent *segment
	token  Token
	depth  int
}

// Path identifies a node by the tokens leading to it from the document root.
// The zero value is the root path.
type Path struct {
	seg *segment
}

// Root returns the path of the document root.
func Root() Path {
	return Path{}
}

// Property returns a child path with name appended as a property token.
func (p Path) Property(name string) Path {
	return p.append(PropertyToken(name))
}

// Index returns a child path with index appended as an array-index token.
func (p Path) Index(index int) Path {
	return p.append(IndexToken(index))
}

// Append returns a path with all tokens appended in order.
func (p Path) Append(tokens ...Token) Path {
	for _, t := range tokens {
		p = p.append(t)
	}
	return p
}

func (p Path) append(t Token) Path {
	return Path{seg: &segment{parent: p.seg, token: t, depth: p.Len() + 1}}
}

// Len returns the number of tokens in the path.
func (p Path) Len() int {
	if p.seg == nil {
		return 0
	}
	return p.seg.depth
}

// IsRoot reports whether p denotes the document root.
func (p Path) IsRoot() bool {
	return p.seg == nil
}

// Last returns the final token of the path.
func (p Path) Last() (Token, bool) {
	if p.seg == nil {
		return Token{}, false
	}
	return p.seg.token, true
}

// Parent returns the path without its final token. The parent of the root is the root.
func (p Path) Parent() Path {
	if p.seg == nil {
		return p
	}
	return Path{seg: p.seg.parent}
}

// Tokens returns a fresh slice with the tokens of the path, root first.
func (p Path) Tokens() []Token {
	tokens := make([]Token, p.Len())
	for s := p.seg; s != nil; s = s.parent {
		tokens[s.depth-1] = s.token
	}
	return tokens
}

// Equal reports whether both paths hold the same token sequence.
func (p Path) Equal(other Path) bool {
	if p.Len() != other.Len() {
		return false
	}
	a, b := p.seg, other.seg
	for a != nil {
		if a == b {
			return true
		}
		if a.token != b.token {
			return false
		}
		a, b = a.parent, b.parent
	}
	return true
}

// Pointer renders the path as an RFC 6901 JSON pointer, e.g. "/runs/0/results/2/ruleId".
// The root renders as the empty string.
func (p Path) Pointer() string {
	if p.seg == nil {
		return ""
	}
	var b strings.Builder
	for _, t := range p.Tokens() {
		b.WriteByte('/')
		if t.IsIndex {
			b.WriteString(strconv.Itoa(t.Index))
			continue
		}
		b.WriteString(jsonpointer.Escape(t.Name))
	}
	return b.String()
}

// Accessor renders the path in dotted/bracket form, e.g. "runs[0].results[2].ruleId".
// Property names that are not plain identifiers are quoted: "originalUriBaseIds['SRC ROOT']".
// The root renders as the empty string.
func (p Path) Accessor() string {
	var b strings.Builder
	for i, t := range p.Tokens() {
		switch {
		case t.IsIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(t.Index))
			b.WriteByte(']')
		case isIdentifier(t.Name):
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(t.Name)
		default:
			b.WriteString("['")
			b.WriteString(quoteName(t.Name))
			b.WriteString("']")
		}
	}
	return b.String()
}

// String returns the JSON pointer form.
func (p Path) String() string {
	return p.Pointer()
}

// ParsePointer parses an RFC 6901 JSON pointer. Tokens written as canonical
// non-negative integers become index tokens; resolution accepts them against
// objects as well, so a property literally named "0" is still reachable.
func ParsePointer(pointer string) (Path, error) {
	ptr, err := jsonpointer.New(pointer)
	if err != nil {
		return Path{}, fmt.Errorf("invalid JSON pointer %q: %w", pointer, err)
	}
	var p Path
	for _, raw := range ptr.DecodedTokens() {
		if index, ok := canonicalIndex(raw); ok {
			p = p.Index(index)
			continue
		}
		p = p.Property(raw)
	}
	return p, nil
}

// ParseAccessor parses the form produced by Path.Accessor.
func ParseAccessor(accessor string) (Path, error) {
	var p Path
	s := accessor
	first := true
	for len(s) > 0 {
		switch {
		case strings.HasPrefix(s, "['"):
			name, rest, err := readQuoted(s[2:])
			if err != nil {
				return Path{}, fmt.Errorf("invalid accessor %q: %w", accessor, err)
			}
			p = p.Property(name)
			s = rest
		case s[0] == '[':
			end := strings.IndexByte(s, ']')
			if end < 0 {
				return Path{}, fmt.Errorf("invalid accessor %q: unterminated index", accessor)
			}
			index, ok := canonicalIndex(s[1:end])
			if !ok {
				return Path{}, fmt.Errorf("invalid accessor %q: bad index %q", accessor, s[1:end])
			}
			p = p.Index(index)
			s = s[end+1:]
		default:
			if !first {
				if s[0] != '.' {
					return Path{}, fmt.Errorf("invalid accessor %q: expected '.' at %q", accessor, s)
				}
				s = s[1:]
			}
			end := strings.IndexAny(s, ".[")
			if end < 0 {
				end = len(s)
			}
			name := s[:end]
			if !isIdentifier(name) {
				return Path{}, fmt.Errorf("invalid accessor %q: bad property name %q", accessor, name)
			}
			p = p.Property(name)
			s = s[end:]
		}
		first = false
	}
	return p, nil
}

// PathNotFoundError reports that a path does not resolve against a document tree.
type PathNotFoundError struct {
	Path    Path
	Missing Token
	Depth   int
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path %q not found: no %q at depth %d", e.Path.Pointer(), e.Missing.String(), e.Depth)
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || r == '$' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

func quoteName(name string) string {
	if !strings.ContainsAny(name, `'\`) {
		return name
	}
	var b strings.Builder
	for _, r := range name {
		if r == '\'' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// readQuoted reads a quoted name up to the closing "']" and returns it with the remainder.
func readQuoted(s string) (string, string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 >= len(s) {
				return "", "", fmt.Errorf("dangling escape")
			}
			i++
			b.WriteByte(s[i])
		case '\'':
			if i+1 >= len(s) || s[i+1] != ']' {
				return "", "", fmt.Errorf("unescaped quote in name")
			}
			return b.String(), s[i+2:], nil
		default:
			b.WriteByte(s[i])
		}
	}
	return "", "", fmt.Errorf("unterminated quoted name")
}

// canonicalIndex parses s as a non-negative decimal index without leading zeros.
func canonicalIndex(s string) (int, bool) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	index, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return index, true
}
