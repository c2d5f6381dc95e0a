// Package scene is a small retained scene graph for vector charts.
//
// Widgets build a tree of Nodes once, then mutate geometry and style on each
// update. Renderers (package render) walk the tree and paint it. Nodes carry
// a class list for selection, mirroring how a host document would be
// queried.
package scene

import (
	"fmt"
	"strings"
)

// Kind identifies the primitive a Node draws.
type Kind int

const (
	KindGroup Kind = iota
	KindRect
	KindCircle
	KindPath
	KindLine
	KindText
)

var kindNames = [...]string{"g", "rect", "circle", "path", "line", "text"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Style holds paint attributes. Empty Fill or Stroke means none.
type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     float64
	FontSize    float64
	Anchor      string // start, middle, end
	Cursor      string
}

// Transform is a translation followed by a rotation in degrees.
type Transform struct {
	TX, TY float64
	Rotate float64
}

// IsIdentity reports whether the transform does nothing.
func (t Transform) IsIdentity() bool {
	return t.TX == 0 && t.TY == 0 && t.Rotate == 0
}

func (t Transform) String() string {
	if t.IsIdentity() {
		return ""
	}
	s := fmt.Sprintf("translate(%s, %s)", Num(t.TX), Num(t.TY))
	if t.Rotate != 0 {
		s += fmt.Sprintf(" rotate(%s)", Num(t.Rotate))
	}
	return s
}

// Node is one element of the scene tree.
//
// Geometry fields by kind:
//
//	rect:   X, Y, Width, Height
//	circle: X, Y (center), R
//	line:   X, Y, X2, Y2
//	text:   X, Y, Text
//	path:   Path
type Node struct {
	Kind      Kind
	ID        string
	Class     string
	// Key binds the node to a datum. Assign it with SetKey or AddKeyed so
	// the parent's ByKey index follows.
	Key       string
	X, Y      float64
	X2, Y2    float64
	Width     float64
	Height    float64
	R         float64
	Path      Path
	Text      string
	Transform Transform
	Style     Style
	Hidden    bool
	Children  []*Node

	parent *Node
	keyed  map[string]*Node
}

// New creates a detached node of the given kind.
func New(kind Kind, class string) *Node {
	return &Node{Kind: kind, Class: class, Style: Style{Opacity: 1}}
}

// NewGroup creates a detached group.
func NewGroup(class string) *Node { return New(KindGroup, class) }

// Append attaches child as the last child of n and returns it.
func (n *Node) Append(child *Node) *Node {
	if child.parent != nil {
		child.Remove()
	}
	child.parent = n
	n.Children = append(n.Children, child)
	if child.Key != "" {
		n.index(child)
	}
	return child
}

func (n *Node) index(child *Node) {
	if n.keyed == nil {
		n.keyed = make(map[string]*Node)
	}
	n.keyed[child.Key] = child
}

func (n *Node) unindex(child *Node) {
	if child.Key != "" && n.keyed[child.Key] == child {
		delete(n.keyed, child.Key)
	}
}

// SetKey rebinds the node and updates its parent's key index.
func (n *Node) SetKey(key string) {
	if p := n.parent; p != nil {
		p.unindex(n)
	}
	n.Key = key
	if p := n.parent; p != nil && key != "" {
		p.index(n)
	}
}

// AddKeyed creates a node of kind under n bound to key.
func (n *Node) AddKeyed(kind Kind, class, key string) *Node {
	child := New(kind, class)
	child.Key = key
	return n.Append(child)
}

// Add creates a node of kind under n.
func (n *Node) Add(kind Kind, class string) *Node {
	return n.Append(New(kind, class))
}

// Group creates a child group.
func (n *Node) Group(class string) *Node { return n.Add(KindGroup, class) }

// Parent returns the node's parent, nil for a root or detached node.
func (n *Node) Parent() *Node { return n.parent }

// Remove detaches n from its parent.
func (n *Node) Remove() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.Children {
		if c == n {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			break
		}
	}
	p.unindex(n)
	n.parent = nil
}

// RemoveAll detaches every given child of n in one pass over the children.
// Nodes that are not children of n are ignored.
func (n *Node) RemoveAll(children []*Node) {
	if len(children) == 0 {
		return
	}
	drop := make(map[*Node]bool, len(children))
	for _, c := range children {
		if c != nil && c.parent == n {
			drop[c] = true
		}
	}
	kept := n.Children[:0]
	for _, c := range n.Children {
		if drop[c] {
			n.unindex(c)
			c.parent = nil
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(n.Children); i++ {
		n.Children[i] = nil
	}
	n.Children = kept
}

// Clear removes every child.
func (n *Node) Clear() {
	for _, c := range n.Children {
		c.parent = nil
	}
	n.Children = nil
	n.keyed = nil
}

// HasClass reports whether class appears in the node's class list.
func (n *Node) HasClass(class string) bool {
	for _, c := range strings.Fields(n.Class) {
		if c == class {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants depth-first in paint order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Select returns the first descendant carrying class, or nil.
func (n *Node) Select(class string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c != n && c.HasClass(class) {
			found = c
			return false
		}
		return true
	})
	return found
}

// SelectAll returns every descendant carrying class, in paint order.
func (n *Node) SelectAll(class string) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c != n && c.HasClass(class) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// ByKey returns the direct child bound to key, or nil.
func (n *Node) ByKey(key string) *Node {
	c := n.keyed[key]
	if c == nil || c.parent != n || c.Key != key {
		return nil
	}
	return c
}

// Count returns the number of nodes in the subtree, n included.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node) bool {
		total++
		return true
	})
	return total
}
