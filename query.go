package pyecs

import (
	"sort"
	"strconv"
	"strings"

	"github.com/TheBitDrifter/mask"
)

type Operation int

const (
	OpAnd Operation = iota
	OpOr
	OpNot
)

// changedCollector is implemented by nodes that contribute per-row change
// predicates; the cursor walks the query tree once to gather them.
type changedCollector interface {
	collectChanged(into *[]Component)
}

// cacheKeyed is implemented by nodes whose archetype matches can be cached
// per storage. Caller-supplied nodes without a key fall back to a full scan.
type cacheKeyed interface {
	cacheKey() (string, bool)
}

type compositeNode struct {
	op         Operation
	children   []QueryNode
	components []Component
}

type leafNode struct {
	components []Component
}

// changedNode matches archetypes containing all listed components and marks
// them for per-row change filtering against the cursor's reference tick.
type changedNode struct {
	components []Component
}

type query struct {
	root QueryNode
}

func newQuery() Query {
	return &query{}
}

func newCompositeNode(op Operation, components []Component) *compositeNode {
	return &compositeNode{
		op:         op,
		children:   make([]QueryNode, 0),
		components: components,
	}
}

func newLeafNode(components []Component) *leafNode {
	return &leafNode{components: components}
}

func (n *compositeNode) Evaluate(archetype Archetype, storage Storage) bool {
	// Build mask at evaluation time
	var nodeMask mask.Mask
	for _, comp := range n.components {
		bit := storage.RowIndexFor(comp)
		nodeMask.Mark(bit)
	}

	archeMask := archetype.Table().Mask()

	switch n.op {
	case OpAnd:
		if !archeMask.ContainsAll(nodeMask) {
			return false
		}
		for _, child := range n.children {
			if !child.Evaluate(archetype, storage) {
				return false
			}
		}
		return true

	case OpOr:
		if archeMask.ContainsAny(nodeMask) {
			return true
		}
		for _, child := range n.children {
			if child.Evaluate(archetype, storage) {
				return true
			}
		}
		return false

	case OpNot:
		if len(n.children) == 0 {
			return archeMask.ContainsNone(nodeMask)
		}
		for _, child := range n.children {
			if child.Evaluate(archetype, storage) {
				return false
			}
		}
		return archeMask.ContainsNone(nodeMask)
	}
	return false
}

func (n *compositeNode) collectChanged(into *[]Component) {
	for _, child := range n.children {
		if collector, ok := child.(changedCollector); ok {
			collector.collectChanged(into)
		}
	}
}

func (n *compositeNode) cacheKey() (string, bool) {
	var op string
	switch n.op {
	case OpAnd:
		op = "and"
	case OpOr:
		op = "or"
	case OpNot:
		op = "not"
	}
	parts := make([]string, 0, len(n.children)+1)
	parts = append(parts, idsKey(n.components))
	for _, child := range n.children {
		keyed, ok := child.(cacheKeyed)
		if !ok {
			return "", false
		}
		key, ok := keyed.cacheKey()
		if !ok {
			return "", false
		}
		parts = append(parts, key)
	}
	return op + "(" + strings.Join(parts, ";") + ")", true
}

func (n *leafNode) Evaluate(archetype Archetype, storage Storage) bool {
	var nodeMask mask.Mask
	for _, comp := range n.components {
		bit := storage.RowIndexFor(comp)
		nodeMask.Mark(bit)
	}
	return archetype.Table().Mask().ContainsAll(nodeMask)
}

func (n *leafNode) cacheKey() (string, bool) {
	return "has(" + idsKey(n.components) + ")", true
}

func (n *changedNode) Evaluate(archetype Archetype, storage Storage) bool {
	var nodeMask mask.Mask
	for _, comp := range n.components {
		bit := storage.RowIndexFor(comp)
		nodeMask.Mark(bit)
	}
	return archetype.Table().Mask().ContainsAll(nodeMask)
}

func (n *changedNode) collectChanged(into *[]Component) {
	*into = append(*into, n.components...)
}

func (n *changedNode) cacheKey() (string, bool) {
	return "chg(" + idsKey(n.components) + ")", true
}

func (q *query) And(items ...interface{}) QueryNode {
	components, children := q.processItems(items...)
	node := newCompositeNode(OpAnd, components)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) Or(items ...interface{}) QueryNode {
	components, children := q.processItems(items...)
	node := newCompositeNode(OpOr, components)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) Not(items ...interface{}) QueryNode {
	components, children := q.processItems(items...)
	node := newCompositeNode(OpNot, components)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) Changed(components ...Component) QueryNode {
	node := &changedNode{components: components}
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) processItems(items ...interface{}) ([]Component, []QueryNode) {
	components := make([]Component, 0)
	children := make([]QueryNode, 0)

	for _, item := range items {
		switch v := item.(type) {
		case Component:
			components = append(components, v)
		case []Component:
			components = append(components, v...)
		case QueryNode:
			children = append(children, v)
		}
	}

	return components, children
}

func (q *query) Evaluate(archetype Archetype, storage Storage) bool {
	if q.root == nil {
		return false
	}
	return q.root.Evaluate(archetype, storage)
}

func (q *query) collectChanged(into *[]Component) {
	if collector, ok := q.root.(changedCollector); ok {
		collector.collectChanged(into)
	}
}

func (q *query) cacheKey() (string, bool) {
	if q.root == nil {
		return "", false
	}
	keyed, ok := q.root.(cacheKeyed)
	if !ok {
		return "", false
	}
	return keyed.cacheKey()
}

// idsKey renders component identities order-independently.
func idsKey(components []Component) string {
	ids := make([]int, len(components))
	for i, c := range components {
		ids[i] = int(c.ID())
	}
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
