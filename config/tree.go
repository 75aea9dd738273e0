package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wippyai/linkgen/errors"
)

type nodeKind uint8

const (
	kindNull nodeKind = iota
	kindString
	kindNumber
	kindBool
	kindTable
	kindList
)

func (k nodeKind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindNumber:
		return "number"
	case kindBool:
		return "bool"
	case kindTable:
		return "table"
	case kindList:
		return "list"
	}
	return "null"
}

// node is one value of the configuration document. Tables keep their keys
// in document order so that everything derived from them is deterministic.
type node struct {
	items map[string]*node
	text  string
	keys  []string
	elems []*node
	kind  nodeKind
	truth bool
}

func newTable() *node {
	return &node{kind: kindTable, items: make(map[string]*node)}
}

func (n *node) set(key string, child *node) {
	if _, exists := n.items[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.items[key] = child
}

// scalar returns the literal text of a string, number or bool node.
func (n *node) scalar() (string, bool) {
	switch n.kind {
	case kindString, kindNumber:
		return n.text, true
	case kindBool:
		if n.truth {
			return "true", true
		}
		return "false", true
	}
	return "", false
}

// Tree is an order-preserving configuration document decoded from JSON.
type Tree struct {
	root *node
}

var _ Config = (*Tree)(nil)

// NewTree returns an empty configuration.
func NewTree() *Tree {
	return &Tree{root: newTable()}
}

// Parse decodes a JSON document whose top level is an object.
func Parse(data []byte) (*Tree, error) {
	return Load(bytes.NewReader(data))
}

// LoadFile reads and decodes the configuration file at path.
func LoadFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.ParseFailed(path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a JSON document from r.
func Load(r io.Reader) (*Tree, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	root, err := decodeNode(dec)
	if err != nil {
		return nil, errors.ParseFailed("configuration", err)
	}
	if root.kind != kindTable {
		return nil, errors.New(errors.PhaseConfig, errors.KindTypeMismatch).
			Want("table").
			Detail("top level is a %s", root.kind).
			Build()
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.ParseFailed("configuration", fmt.Errorf("trailing data after top-level object"))
	}
	return &Tree{root: root}, nil
}

func decodeNode(dec *json.Decoder) (*node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			n := newTable()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T", kt)
				}
				child, err := decodeNode(dec)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", key, err)
				}
				n.set(key, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		case '[':
			n := &node{kind: kindList}
			for dec.More() {
				child, err := decodeNode(dec)
				if err != nil {
					return nil, err
				}
				n.elems = append(n.elems, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", v)
	case string:
		return &node{kind: kindString, text: v}, nil
	case json.Number:
		return &node{kind: kindNumber, text: v.String()}, nil
	case bool:
		return &node{kind: kindBool, truth: v}, nil
	case nil:
		return &node{kind: kindNull}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func segments(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}

// lookup walks path from the root. A missing key or an explicit null is
// absence; descending through a non-table value is a structural error.
func (t *Tree) lookup(path string) (*node, error) {
	n := t.root
	segs := segments(path)
	for i, seg := range segs {
		if n.kind == kindNull {
			return nil, nil
		}
		if n.kind != kindTable {
			return nil, errors.New(errors.PhaseConfig, errors.KindTypeMismatch).
				Path(segs[:i]...).
				Want("table").
				Detail("cannot look up %q inside a %s", seg, n.kind).
				Build()
		}
		child, ok := n.items[seg]
		if !ok {
			return nil, nil
		}
		n = child
	}
	if n.kind == kindNull {
		return nil, nil
	}
	return n, nil
}

// Has reports whether path holds a non-null value.
func (t *Tree) Has(path string) bool {
	n, err := t.lookup(path)
	return err == nil && n != nil
}

// GetString returns the literal text of a scalar value.
func (t *Tree) GetString(path string) (string, bool, error) {
	n, err := t.lookup(path)
	if err != nil || n == nil {
		return "", false, err
	}
	s, ok := n.scalar()
	if !ok {
		return "", true, errors.TypeMismatch(path, "scalar", n.kind.String())
	}
	return s, true, nil
}

// GetInt returns a number, or a string holding a decimal or 0x literal.
func (t *Tree) GetInt(path string) (int64, bool, error) {
	n, err := t.lookup(path)
	if err != nil || n == nil {
		return 0, false, err
	}
	switch n.kind {
	case kindNumber, kindString:
		v, err := ParseInt(path, n.text)
		return v, true, err
	case kindBool:
		if n.truth {
			return 1, true, nil
		}
		return 0, true, nil
	}
	return 0, true, errors.TypeMismatch(path, "integer", n.kind.String())
}

// GetBool returns a boolean; strings and the numbers 0 and 1 are accepted.
func (t *Tree) GetBool(path string) (bool, bool, error) {
	n, err := t.lookup(path)
	if err != nil || n == nil {
		return false, false, err
	}
	switch n.kind {
	case kindBool:
		return n.truth, true, nil
	case kindString, kindNumber:
		v, err := ParseBool(path, n.text)
		return v, true, err
	}
	return false, true, errors.TypeMismatch(path, "bool", n.kind.String())
}

// GetList returns the scalar elements of a list. A string is split on
// commas and whitespace.
func (t *Tree) GetList(path string) ([]string, bool, error) {
	n, err := t.lookup(path)
	if err != nil || n == nil {
		return nil, false, err
	}
	switch n.kind {
	case kindString:
		return splitList(n.text), true, nil
	case kindList:
		out := make([]string, 0, len(n.elems))
		for i, e := range n.elems {
			s, ok := e.scalar()
			if !ok {
				return nil, true, errors.TypeMismatch(fmt.Sprintf("%s/%d", path, i), "scalar", e.kind.String())
			}
			out = append(out, s)
		}
		return out, true, nil
	}
	return nil, true, errors.TypeMismatch(path, "list", n.kind.String())
}

// Keys returns the keys of a table in document order.
func (t *Tree) Keys(path string) ([]string, bool, error) {
	n, err := t.lookup(path)
	if err != nil || n == nil {
		return nil, false, err
	}
	if n.kind != kindTable {
		return nil, true, errors.TypeMismatch(path, "table", n.kind.String())
	}
	return append([]string(nil), n.keys...), true, nil
}

// Set stores a string scalar at path, creating intermediate tables. It is
// used for command line overrides ("platform=gvsoc").
func (t *Tree) Set(path, value string) error {
	segs := segments(path)
	if len(segs) == 0 {
		return errors.InvalidData(errors.PhaseConfig, path, "empty path")
	}
	n := t.root
	for i, seg := range segs[:len(segs)-1] {
		child, ok := n.items[seg]
		if !ok || child.kind == kindNull {
			child = newTable()
			n.set(seg, child)
		}
		if child.kind != kindTable {
			return errors.New(errors.PhaseConfig, errors.KindTypeMismatch).
				Path(segs[:i+1]...).
				Want("table").
				Detail("cannot set %q inside a %s", path, child.kind).
				Build()
		}
		n = child
	}
	n.set(segs[len(segs)-1], &node{kind: kindString, text: value})
	return nil
}

// ApplyOverrides applies "path=value" assignments in order.
func (t *Tree) ApplyOverrides(assignments []string) error {
	for _, a := range assignments {
		path, value, found := strings.Cut(a, "=")
		if !found {
			return errors.InvalidData(errors.PhaseConfig, "", fmt.Sprintf("override %q is not of the form path=value", a))
		}
		if err := t.Set(strings.TrimSpace(path), value); err != nil {
			return err
		}
	}
	return nil
}
