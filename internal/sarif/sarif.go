package sarif

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/sariflint/internal/jsonpath"
	"github.com/scan-io-git/sariflint/internal/jsontree"
)

// ErrMalformedDocument is returned when the input cannot be loaded as a SARIF log at all.
var ErrMalformedDocument = errors.New("malformed SARIF document")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document holds both views of one SARIF log: the typed go-sarif report for
// semantic access and the raw token tree for presence checks and positions.
// The same path resolves to corresponding nodes in both.
type Document struct {
	*sarif.Report

	Tree   *jsontree.Node
	Source []byte
	URI    string

	// TypeMismatch is the first value whose JSON type did not fit the typed model,
	// e.g. -1 in an index property that go-sarif declares unsigned. The affected
	// field is left unset.
	TypeMismatch error
}

// ParseDocument builds a Document from SARIF source text.
func ParseDocument(data []byte) (*Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	tree, err := jsontree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if tree.Kind != jsontree.Object {
		return nil, fmt.Errorf("%w: top-level value is %s, expected object", ErrMalformedDocument, tree.Kind)
	}

	var report sarif.Report
	doc := &Document{Report: &report, Tree: tree, Source: data}
	if err := json.Unmarshal(data, &report); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		doc.TypeMismatch = err
	}
	return doc, nil
}

// ReadDocument reads the whole file at path and parses it.
func ReadDocument(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.URI = path
	return doc, nil
}

// Node returns the raw tree node at p.
func (d *Document) Node(p jsonpath.Path) (*jsontree.Node, error) {
	return d.Tree.Resolve(p)
}

// HasProperty reports whether the object at p has a member called name.
// Paths that do not resolve report false.
func (d *Document) HasProperty(p jsonpath.Path, name string) bool {
	node, err := d.Tree.Resolve(p)
	if err != nil {
		return false
	}
	return node.HasProperty(name)
}

// Integer returns the integer value of property name of the object at p, read
// from the raw tree so that values the typed model rejected (such as negative
// indexes) are still visible.
func (d *Document) Integer(p jsonpath.Path, name string) (int64, bool) {
	node, err := d.Tree.Resolve(p.Property(name))
	if err != nil || node.Kind != jsontree.Number {
		return 0, false
	}
	n, ok := node.Value.(json.Number)
	if !ok {
		return 0, false
	}
	v, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return v, true
}
