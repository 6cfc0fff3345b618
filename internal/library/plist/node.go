// Package plist reads the XML property-list documents written by desktop
// music libraries into value buckets grouped by element type.
//
// A dict is not decoded into key/value pairs here. Each Node keeps its
// declared keys separately from per-type value lists, in document order, and
// the library package pairs them up.
package plist

import "errors"

// MaxDepth bounds dict/array nesting accepted by Parse.
const MaxDepth = 64

// ErrStructural marks documents that do not have the shape of a library export.
var ErrStructural = errors.New("plist structure error")

// Kind identifies the container element a Node was read from.
type Kind uint8

const (
	KindDict Kind = iota + 1
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindDict:
		return "dict"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Node is one <dict> or <array> element with its direct children sorted into
// homogeneous buckets. Arrays leave Keys empty.
type Node struct {
	Kind     Kind
	Keys     []string
	Strings  []string
	Integers []int64
	Dates    []string
	Trues    int
	Falses   int
	Children []*Node
}

// IsDict reports whether n is a non-nil dict node.
func (n *Node) IsDict() bool { return n != nil && n.Kind == KindDict }

// IsArray reports whether n is a non-nil array node.
func (n *Node) IsArray() bool { return n != nil && n.Kind == KindArray }

// HasKey reports whether name is among the declared keys of n.
func (n *Node) HasKey(name string) bool {
	if n == nil {
		return false
	}
	for _, key := range n.Keys {
		if key == name {
			return true
		}
	}
	return false
}

// FirstChild returns the first nested child of the requested kind.
func (n *Node) FirstChild(kind Kind) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child != nil && child.Kind == kind {
			return child
		}
	}
	return nil
}

// AllChildrenDicts reports whether the node has nested children and every
// one of them is a dict.
func (n *Node) AllChildrenDicts() bool {
	if n == nil || len(n.Children) == 0 {
		return false
	}
	for _, child := range n.Children {
		if !child.IsDict() {
			return false
		}
	}
	return true
}
