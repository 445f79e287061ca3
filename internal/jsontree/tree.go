// Package jsontree keeps the raw, untyped parse tree of a JSON document together
// with the source position of every value. The typed SARIF model cannot tell an
// absent property from one holding its zero value, and it knows nothing about
// line numbers; this tree answers both questions.
package jsontree

import (
	"strconv"

	"github.com/scan-io-git/sariflint/internal/jsonpath"
)

// Kind is the JSON type of a node.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Object
	Array
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Object:
		return "object"
	case Array:
		return "array"
	default:
		return "unknown"
	}
}

// Member is one name/value pair of an object, in document order.
type Member struct {
	Name  string
	Value *Node
}

// Node is one JSON value. Line and Column are 1-based and point at the first byte
// of the value; Column counts runes. Nodes built outside Parse have no position.
type Node struct {
	Kind   Kind
	Offset int64
	Line   int
	Column int

	// Value holds string, json.Number, bool or nil for scalar nodes.
	Value   interface{}
	Members []Member
	Items   []*Node

	index map[string]int
}

// Get returns the value of the named member, or nil when n is not an object or
// has no such member. With duplicate names the last one wins, as in encoding/json.
func (n *Node) Get(name string) *Node {
	if n == nil || n.Kind != Object {
		return nil
	}
	if i, ok := n.index[name]; ok {
		return n.Members[i].Value
	}
	return nil
}

// At returns the array element at i, or nil when out of range or n is not an array.
func (n *Node) At(i int) *Node {
	if n == nil || n.Kind != Array || i < 0 || i >= len(n.Items) {
		return nil
	}
	return n.Items[i]
}

// Len returns the number of members or elements of a container node.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case Object:
		return len(n.Members)
	case Array:
		return len(n.Items)
	}
	return 0
}

// HasProperty reports whether the object n contains a member called name, even
// when its value is null or a zero value.
func (n *Node) HasProperty(name string) bool {
	if n == nil || n.Kind != Object {
		return false
	}
	_, ok := n.index[name]
	return ok
}

// LineInfo returns the source position of the node.
func (n *Node) LineInfo() (line, column int, ok bool) {
	if n == nil || n.Line == 0 {
		return 0, 0, false
	}
	return n.Line, n.Column, true
}

// Resolve walks from n following every token of p.
func (n *Node) Resolve(p jsonpath.Path) (*Node, error) {
	cur := n
	for depth, t := range p.Tokens() {
		next := cur.child(t)
		if next == nil {
			return nil, &jsonpath.PathNotFoundError{Path: p, Missing: t, Depth: depth}
		}
		cur = next
	}
	return cur, nil
}

func (n *Node) child(t jsonpath.Token) *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case Object:
		if t.IsIndex {
			return n.Get(strconv.Itoa(t.Index))
		}
		return n.Get(t.Name)
	case Array:
		if t.IsIndex {
			return n.At(t.Index)
		}
		i, err := strconv.Atoi(t.Name)
		if err != nil {
			return nil
		}
		return n.At(i)
	}
	return nil
}

func (n *Node) addMember(name string, value *Node) {
	if n.index == nil {
		n.index = make(map[string]int)
	}
	n.index[name] = len(n.Members)
	n.Members = append(n.Members, Member{Name: name, Value: value})
}

// HasProperty reports whether node is an object with a member called name.
func HasProperty(node *Node, name string) bool {
	return node.HasProperty(name)
}

// LineInfo returns the source position of node, if it has one.
func LineInfo(node *Node) (line, column int, ok bool) {
	return node.LineInfo()
}
