package scene

import (
	"slices"
	"sync/atomic"

	"github.com/soralume/halfblock/pkg/math3d"
)

// Transform holds a node's local position, rotation, scale, and pivot.
// Rot is Euler pitch/yaw/roll in radians. Rotation and scale are applied
// about the pivot point.
type Transform struct {
	Pos   math3d.Vec3
	Rot   math3d.Vec3
	Scale math3d.Vec3
	Pivot math3d.Vec3
}

// NewTransform returns an identity transform with unit scale.
func NewTransform() Transform {
	return Transform{Scale: math3d.V3(1, 1, 1)}
}

// Matrix composes the local transform as
// T(pos) * T(pivot) * Ry * Rx * Rz * S(scale) * T(-pivot).
func (t Transform) Matrix() math3d.Mat4 {
	m := math3d.Translate(t.Pos)
	m = m.Mul(math3d.Translate(t.Pivot))
	m = m.Mul(math3d.RotateY(t.Rot.Y))
	m = m.Mul(math3d.RotateX(t.Rot.X))
	m = m.Mul(math3d.RotateZ(t.Rot.Z))
	m = m.Mul(math3d.Scale(t.Scale))
	return m.Mul(math3d.Translate(t.Pivot.Negate()))
}

var nextNodeID atomic.Uint64

// Node is a scene-graph element. It owns its children; the parent
// reference is non-owning and nil for roots. A node carries an optional
// mesh and an optional light.
type Node struct {
	ID      uint64
	Name    string
	Visible bool

	Transform Transform
	Mesh      *Mesh
	Light     *Light

	parent   *Node
	children []*Node
	tags     map[string]struct{}
}

// NewNode creates a detached node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		ID:        nextNodeID.Add(1),
		Name:      name,
		Visible:   true,
		Transform: NewTransform(),
		tags:      make(map[string]struct{}),
	}
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the owned child list in insertion order.
// The returned slice must not be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// AddChild attaches child to n. A child already parented elsewhere is
// detached from its old parent first, so a node never has two parents.
func (n *Node) AddChild(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child from n. It is a no-op if child is not a
// direct child.
func (n *Node) RemoveChild(child *Node) {
	idx := slices.Index(n.children, child)
	if idx < 0 {
		return
	}
	n.children = slices.Delete(n.children, idx, idx+1)
	child.parent = nil
}

// Detach removes n from its parent, making it a root.
func (n *Node) Detach() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// WorldMatrix walks from the node to the root and returns the product
// of all ancestor local matrices, root-most applied outermost. It is
// recomputed on every call so ancestor edits are always reflected.
func (n *Node) WorldMatrix() math3d.Mat4 {
	m := n.Transform.Matrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Transform.Matrix().Mul(m)
	}
	return m
}

// Traverse visits n and its descendants depth-first in insertion order.
// Returning false from visit stops the walk.
func (n *Node) Traverse(visit func(*Node) bool) {
	n.traverse(visit)
}

func (n *Node) traverse(visit func(*Node) bool) bool {
	if !visit(n) {
		return false
	}
	for _, c := range n.children {
		if !c.traverse(visit) {
			return false
		}
	}
	return true
}

// AddTag adds a string tag to the node.
func (n *Node) AddTag(tag string) {
	n.tags[tag] = struct{}{}
}

// RemoveTag removes a tag from the node.
func (n *Node) RemoveTag(tag string) {
	delete(n.tags, tag)
}

// HasTag reports whether the node carries the tag.
func (n *Node) HasTag(tag string) bool {
	_, ok := n.tags[tag]
	return ok
}

// Tags returns the node's tags in unspecified order.
func (n *Node) Tags() []string {
	out := make([]string, 0, len(n.tags))
	for t := range n.tags {
		out = append(out, t)
	}
	return out
}
