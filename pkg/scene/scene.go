package scene

import "path"

// Scene owns a node tree and maintains a flat lookup index over it.
// Meshes and lights are reached through the graph; the *Nodes views are
// derived, read-only enumerations.
type Scene struct {
	Root *Node

	nodes  []*Node
	byName map[string]*Node
}

// New creates a scene with an empty root node.
func New() *Scene {
	s := &Scene{
		Root:   NewNode("root"),
		byName: make(map[string]*Node),
	}
	s.register(s.Root)
	return s
}

// Attach parents node under parent and indexes node and its whole
// subtree. A nil parent attaches under the scene root.
func (s *Scene) Attach(parent, node *Node) {
	if node == nil {
		return
	}
	if parent == nil {
		parent = s.Root
	}
	parent.AddChild(node)
	node.Traverse(func(n *Node) bool {
		s.register(n)
		return true
	})
}

// Remove detaches node from its parent and drops it and its subtree
// from the index. The subtree stays intact under node.
func (s *Scene) Remove(node *Node) {
	if node == nil || node == s.Root {
		return
	}
	node.Detach()
	node.Traverse(func(n *Node) bool {
		s.unregister(n)
		return true
	})
}

func (s *Scene) register(n *Node) {
	for _, existing := range s.nodes {
		if existing == n {
			return
		}
	}
	s.nodes = append(s.nodes, n)
	if _, taken := s.byName[n.Name]; !taken {
		s.byName[n.Name] = n
	}
}

func (s *Scene) unregister(n *Node) {
	for i, existing := range s.nodes {
		if existing == n {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			break
		}
	}
	if s.byName[n.Name] == n {
		delete(s.byName, n.Name)
	}
}

// FindByName returns the node with the exact name, or nil.
func (s *Scene) FindByName(name string) *Node {
	return s.byName[name]
}

// FindByPattern returns all indexed nodes whose name matches the
// glob-style pattern ("*", "?", character classes).
func (s *Scene) FindByPattern(pattern string) []*Node {
	var out []*Node
	for _, n := range s.nodes {
		if ok, err := path.Match(pattern, n.Name); err == nil && ok {
			out = append(out, n)
		}
	}
	return out
}

// FindByTagsAny returns all nodes carrying at least one of the tags.
func (s *Scene) FindByTagsAny(tags ...string) []*Node {
	var out []*Node
	for _, n := range s.nodes {
		for _, t := range tags {
			if n.HasTag(t) {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

// FindByTagsAll returns all nodes carrying every one of the tags.
func (s *Scene) FindByTagsAll(tags ...string) []*Node {
	var out []*Node
	for _, n := range s.nodes {
		all := true
		for _, t := range tags {
			if !n.HasTag(t) {
				all = false
				break
			}
		}
		if all && len(tags) > 0 {
			out = append(out, n)
		}
	}
	return out
}

// MeshNodes returns the visible nodes carrying a mesh, in depth-first
// pre-order. An invisible node hides its whole subtree.
func (s *Scene) MeshNodes() []*Node {
	var out []*Node
	visitVisible(s.Root, func(n *Node) {
		if n.Mesh != nil {
			out = append(out, n)
		}
	})
	return out
}

// LightNodes returns the visible nodes carrying a light, in depth-first
// pre-order.
func (s *Scene) LightNodes() []*Node {
	var out []*Node
	visitVisible(s.Root, func(n *Node) {
		if n.Light != nil {
			out = append(out, n)
		}
	})
	return out
}

// Lights collects the lights of all visible light nodes.
func (s *Scene) Lights() []*Light {
	nodes := s.LightNodes()
	out := make([]*Light, len(nodes))
	for i, n := range nodes {
		out[i] = n.Light
	}
	return out
}

// visitVisible walks the tree depth-first, pruning invisible subtrees.
func visitVisible(n *Node, visit func(*Node)) {
	if !n.Visible {
		return
	}
	visit(n)
	for _, c := range n.Children() {
		visitVisible(c, visit)
	}
}

// Stats summarizes the scene contents.
type Stats struct {
	Nodes     int
	Meshes    int
	Lights    int
	Vertices  int
	Triangles int
}

// CollectStats walks the full tree, visible or not, and tallies nodes,
// meshes, lights, vertices, and triangles.
func (s *Scene) CollectStats() Stats {
	var st Stats
	s.Root.Traverse(func(n *Node) bool {
		st.Nodes++
		if n.Mesh != nil {
			st.Meshes++
			st.Vertices += n.Mesh.VertexCount()
			st.Triangles += n.Mesh.TriangleCount()
		}
		if n.Light != nil {
			st.Lights++
		}
		return true
	})
	return st
}
