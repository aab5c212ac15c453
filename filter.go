package depot

import (
	"slices"

	"github.com/TheBitDrifter/mask"
)

// Term is one clause of a query: an item that requests column access or a predicate
// over the archetype layout. A query matches an archetype when every term does.
type Term interface {
	Matches(layout Layout) bool
}

// Filter builds boolean predicate trees over archetype layouts.
type Filter interface {
	Term
	And(items ...any) FilterNode
	Or(items ...any) FilterNode
	Not(items ...any) FilterNode
}

type FilterNode interface {
	Term
}

type Operation int

const (
	OpAnd Operation = iota
	OpOr
	OpNot
)

type compositeNode struct {
	op       Operation
	children []FilterNode
	bits     mask.Mask
}

type filter struct {
	root FilterNode
}

func newFilter() Filter {
	return &filter{}
}

func newCompositeNode(op Operation, cs []Component, children []FilterNode) *compositeNode {
	return &compositeNode{
		op:       op,
		children: children,
		bits:     NewLayout(cs...).bits,
	}
}

// With requires every listed component to be present.
func With(cs ...Component) FilterNode {
	return newCompositeNode(OpAnd, cs, nil)
}

// Without requires every listed component to be absent.
func Without(cs ...Component) FilterNode {
	return newCompositeNode(OpNot, cs, nil)
}

func (n *compositeNode) Matches(layout Layout) bool {
	archeMask := layout.bits

	switch n.op {
	case OpAnd:
		if !archeMask.ContainsAll(n.bits) {
			return false
		}
		for _, child := range n.children {
			if !child.Matches(layout) {
				return false
			}
		}
		return true

	case OpOr:
		if archeMask.ContainsAny(n.bits) {
			return true
		}
		for _, child := range n.children {
			if child.Matches(layout) {
				return true
			}
		}
		return false

	case OpNot:
		if len(n.children) == 0 {
			return n.bits.IsEmpty() || archeMask.ContainsNone(n.bits)
		}
		for _, child := range n.children {
			if child.Matches(layout) {
				return false
			}
		}
		return !archeMask.ContainsAny(n.bits)
	}
	return false
}

func (f *filter) And(items ...any) FilterNode {
	return f.node(OpAnd, items)
}

func (f *filter) Or(items ...any) FilterNode {
	return f.node(OpOr, items)
}

func (f *filter) Not(items ...any) FilterNode {
	return f.node(OpNot, items)
}

func (f *filter) node(op Operation, items []any) FilterNode {
	cs, children := f.processItems(items...)
	node := newCompositeNode(op, cs, children)
	if f.root == nil || slices.Contains(children, f.root) {
		f.root = node
	}
	return node
}

func (f *filter) processItems(items ...any) ([]Component, []FilterNode) {
	cs := make([]Component, 0)
	children := make([]FilterNode, 0)

	for _, item := range items {
		switch v := item.(type) {
		case Component:
			cs = append(cs, v)
		case []Component:
			cs = append(cs, v...)
		case FilterNode:
			children = append(children, v)
		}
	}
	return cs, children
}

// Matches evaluates the filter's root: the first node built on it, or the node that
// later wrapped the root as a child. An empty filter matches nothing.
func (f *filter) Matches(layout Layout) bool {
	if f.root == nil {
		return false
	}
	return f.root.Matches(layout)
}
