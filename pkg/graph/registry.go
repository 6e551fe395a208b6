package graph

import "fmt"

// Registry allocates entity ids and accumulates the graph for one synthesis
// run. Counters are per-registry, not process-wide, so concurrent or batch
// runs stay isolated and reproducible. Ids start at 1 and increase
// monotonically per entity kind.
type Registry struct {
	nodes    []Node
	edges    []Edge
	surfaces []Surface
	solids   []Solid
	groups   map[string][]EdgeID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{groups: make(map[string][]EdgeID)}
}

// Node creates a point entity and returns its id.
func (r *Registry) Node(p Point3D) NodeID {
	id := NodeID(len(r.nodes) + 1)
	r.nodes = append(r.nodes, Node{ID: id, Pt: p})
	return id
}

// NodeAt is shorthand for Node(Point3D{x, y, z}).
func (r *Registry) NodeAt(x, y, z float64) NodeID {
	return r.Node(Point3D{X: x, Y: y, Z: z})
}

// Edge creates a boundary edge between two nodes.
func (r *Registry) Edge(a, b NodeID) EdgeID {
	return r.addEdge(Edge{Kind: EdgeBoundary, A: a, B: b})
}

// RebarEdge creates a reinforcement segment carrying a bar diameter.
func (r *Registry) RebarEdge(a, b NodeID, diameter float64) EdgeID {
	return r.addEdge(Edge{Kind: EdgeRebar, A: a, B: b, Diameter: diameter})
}

func (r *Registry) addEdge(e Edge) EdgeID {
	e.ID = EdgeID(len(r.edges) + 1)
	r.edges = append(r.edges, e)
	return e.ID
}

// Surface creates a surface from one outer loop and optional inner loops.
func (r *Registry) Surface(outer []EdgeID, inner ...[]EdgeID) SurfaceID {
	id := SurfaceID(len(r.surfaces) + 1)
	s := Surface{ID: id, Outer: append([]EdgeID(nil), outer...)}
	for _, loop := range inner {
		s.Inner = append(s.Inner, append([]EdgeID(nil), loop...))
	}
	r.surfaces = append(r.surfaces, s)
	return id
}

// Solid creates a solid from a set of faces.
func (r *Registry) Solid(faces ...SurfaceID) SolidID {
	id := SolidID(len(r.solids) + 1)
	r.solids = append(r.solids, Solid{ID: id, Faces: append([]SurfaceID(nil), faces...)})
	return id
}

// Tag appends edges to a named group. Tagging the same edge twice is the
// caller's mistake; the registry does not deduplicate.
func (r *Registry) Tag(group string, edges ...EdgeID) {
	r.groups[group] = append(r.groups[group], edges...)
}

// NodePoint returns the coordinates of a node.
func (r *Registry) NodePoint(id NodeID) (Point3D, bool) {
	if id < 1 || int(id) > len(r.nodes) {
		return Point3D{}, false
	}
	return r.nodes[id-1].Pt, true
}

// Snapshot freezes the registry contents into an immutable Model. The
// registry may continue to grow afterwards; the snapshot does not.
func (r *Registry) Snapshot() *Model {
	m := &Model{
		Nodes:    append([]Node(nil), r.nodes...),
		Edges:    append([]Edge(nil), r.edges...),
		Surfaces: append([]Surface(nil), r.surfaces...),
		Solids:   append([]Solid(nil), r.solids...),
		Groups:   make(map[string][]EdgeID, len(r.groups)),
	}
	for name, ids := range r.groups {
		m.Groups[name] = append([]EdgeID(nil), ids...)
	}
	return m
}

// Model is the write-once snapshot of a synthesis run: every entity plus
// the named rebar groups. It is produced in one pass and never updated.
type Model struct {
	Nodes    []Node
	Edges    []Edge
	Surfaces []Surface
	Solids   []Solid
	Groups   map[string][]EdgeID
}

// NodeByID returns the node with the given id, or false.
func (m *Model) NodeByID(id NodeID) (Node, bool) {
	if id < 1 || int(id) > len(m.Nodes) {
		return Node{}, false
	}
	return m.Nodes[id-1], true
}

// EdgeByID returns the edge with the given id, or false.
func (m *Model) EdgeByID(id EdgeID) (Edge, bool) {
	if id < 1 || int(id) > len(m.Edges) {
		return Edge{}, false
	}
	return m.Edges[id-1], true
}

// SurfaceByID returns the surface with the given id, or false.
func (m *Model) SurfaceByID(id SurfaceID) (Surface, bool) {
	if id < 1 || int(id) > len(m.Surfaces) {
		return Surface{}, false
	}
	return m.Surfaces[id-1], true
}

// RebarEdges returns all reinforcement segments.
func (m *Model) RebarEdges() []Edge {
	var out []Edge
	for _, e := range m.Edges {
		if e.Kind == EdgeRebar {
			out = append(out, e)
		}
	}
	return out
}

// Group returns the edge ids in a named group, or nil.
func (m *Model) Group(name string) []EdgeID {
	return m.Groups[name]
}

// MustGroup returns a named group, or panics.
func (m *Model) MustGroup(name string) []EdgeID {
	g, ok := m.Groups[name]
	if !ok {
		panic(fmt.Sprintf("graph: no group named %q", name))
	}
	return g
}

// EdgeMidpoint returns the midpoint of an edge's two endpoints. It is the
// representative coordinate used for stage partitioning.
func (m *Model) EdgeMidpoint(e Edge) (Point3D, bool) {
	a, okA := m.NodeByID(e.A)
	b, okB := m.NodeByID(e.B)
	if !okA || !okB {
		return Point3D{}, false
	}
	return Point3D{
		X: (a.Pt.X + b.Pt.X) / 2,
		Y: (a.Pt.Y + b.Pt.Y) / 2,
		Z: (a.Pt.Z + b.Pt.Z) / 2,
	}, true
}
