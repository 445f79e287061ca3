package jsontree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"unicode/utf8"
)

// ErrMalformed is matched by every error Parse returns for input that is not a
// single well-formed JSON value.
var ErrMalformed = errors.New("malformed JSON document")

// MalformedError carries the position at which parsing stopped.
type MalformedError struct {
	Line   int
	Column int
	Err    error
}

func (e *MalformedError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %v", ErrMalformed, e.Err)
	}
	return fmt.Sprintf("%s at line %d, column %d: %v", ErrMalformed, e.Line, e.Column, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

func (e *MalformedError) Is(target error) bool { return target == ErrMalformed }

type parser struct {
	data  []byte
	dec   *json.Decoder
	lines []int
}

// Parse builds the position-annotated tree of data.
func Parse(data []byte) (*Node, error) {
	p := &parser{data: data, lines: lineStarts(data)}
	p.dec = json.NewDecoder(bytes.NewReader(data))
	p.dec.UseNumber()

	root, err := p.value()
	if err != nil {
		return nil, err
	}
	if tok, err := p.dec.Token(); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("unexpected %v after top-level value", tok)
		}
		return nil, p.malformed(err)
	}
	return root, nil
}

func (p *parser) value() (*Node, error) {
	start := p.nextOffset()
	tok, err := p.dec.Token()
	if err != nil {
		return nil, p.malformed(err)
	}

	n := &Node{Offset: start}
	n.Line, n.Column = p.position(start)

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			n.Kind = Object
			for p.dec.More() {
				keyTok, err := p.dec.Token()
				if err != nil {
					return nil, p.malformed(err)
				}
				name, ok := keyTok.(string)
				if !ok {
					return nil, p.malformed(fmt.Errorf("object key is %v, not a string", keyTok))
				}
				child, err := p.value()
				if err != nil {
					return nil, err
				}
				n.addMember(name, child)
			}
		case '[':
			n.Kind = Array
			n.Items = []*Node{}
			for p.dec.More() {
				child, err := p.value()
				if err != nil {
					return nil, err
				}
				n.Items = append(n.Items, child)
			}
		default:
			return nil, p.malformed(fmt.Errorf("unexpected %q", rune(v)))
		}
		// closing delimiter
		if _, err := p.dec.Token(); err != nil {
			return nil, p.malformed(err)
		}
	case string:
		n.Kind, n.Value = String, v
	case json.Number:
		n.Kind, n.Value = Number, v
	case bool:
		n.Kind, n.Value = Bool, v
	case nil:
		n.Kind = Null
	}
	return n, nil
}

// nextOffset returns the offset of the first byte of the next value. The decoder
// offset sits right after the previous token, before any separator.
func (p *parser) nextOffset() int64 {
	off := p.dec.InputOffset()
	for off < int64(len(p.data)) {
		switch p.data[off] {
		case ' ', '\t', '\r', '\n', ',', ':':
			off++
			continue
		}
		break
	}
	return off
}

func (p *parser) position(off int64) (int, int) {
	i := sort.Search(len(p.lines), func(i int) bool { return int64(p.lines[i]) > off }) - 1
	if i < 0 {
		i = 0
	}
	end := off
	if end > int64(len(p.data)) {
		end = int64(len(p.data))
	}
	return i + 1, utf8.RuneCount(p.data[p.lines[i]:end]) + 1
}

func (p *parser) malformed(err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	var syntax *json.SyntaxError
	if errors.As(err, &syntax) {
		line, col := p.position(syntax.Offset)
		return &MalformedError{Line: line, Column: col, Err: err}
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		line, col := p.position(int64(len(p.data)))
		return &MalformedError{Line: line, Column: col, Err: err}
	}
	return &MalformedError{Err: err}
}

func lineStarts(data []byte) []int {
	starts := []int{0}
	for i, c := range data {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}
