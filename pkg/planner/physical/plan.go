package physical

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/blockpipe/blockpipe/pkg/planner/logical"
)

// Edge connects a parent (downstream consumer) with a child (upstream
// producer). Data flows from child to parent.
type Edge struct {
	Parent, Child Node
}

// Plan is the physical DAG: an arena of nodes addressed by stable [NodeID]
// indices, with edges kept as index lists in both directions. A node's
// children are its input dependencies (owned edges); its parents are its
// output dependencies, kept as back-references so fusion can check fan-out
// without walking the whole graph.
//
// Rewrites mutate the arena in place. Eliminating a node tombstones its slot,
// so IDs held elsewhere never dangle into a reused slot.
type Plan struct {
	id      string
	context *logical.Context

	nodes    []Node
	children [][]NodeID
	parents  [][]NodeID
	dropped  []bool
}

// NewPlan returns an empty plan bound to the given compilation context. A
// nil context applies default configuration.
func NewPlan(ctx *logical.Context) *Plan {
	return &Plan{
		id:      uuid.NewString(),
		context: ctx,
	}
}

// ID returns the unique identifier of the plan.
func (p *Plan) ID() string { return p.id }

// Context returns the compilation context the plan was built under. It may
// be nil.
func (p *Plan) Context() *logical.Context { return p.context }

// config returns the effective configuration of the plan.
func (p *Plan) config() logical.Config {
	if p.context != nil {
		return p.context.Config
	}
	return logical.DefaultConfig()
}

// Add inserts the node into the arena, assigns its ID, and returns it.
func (p *Plan) Add(n Node) Node {
	n.meta().id = NodeID(len(p.nodes))
	p.nodes = append(p.nodes, n)
	p.children = append(p.children, nil)
	p.parents = append(p.parents, nil)
	p.dropped = append(p.dropped, false)
	return n
}

// AddEdge connects the child as the next input dependency of the parent.
// Self-edges, edges to unknown or eliminated nodes, and edges that would
// close a cycle are rejected as defects.
func (p *Plan) AddEdge(e Edge) error {
	if e.Parent == nil || e.Child == nil {
		return fmt.Errorf("%w: edge endpoints must not be nil", ErrMalformedPlan)
	}
	pid, cid := e.Parent.ID(), e.Child.ID()
	if !p.contains(pid) || !p.contains(cid) {
		return fmt.Errorf("%w: edge endpoints must be part of the plan", ErrMalformedPlan)
	}
	if pid == cid {
		return fmt.Errorf("%w: self-edge on node %q", ErrMalformedPlan, e.Parent.Name())
	}
	if p.reaches(cid, pid) {
		return fmt.Errorf("%w: edge %q->%q closes a cycle", ErrMalformedPlan, e.Parent.Name(), e.Child.Name())
	}
	p.children[pid] = append(p.children[pid], cid)
	p.parents[cid] = append(p.parents[cid], pid)
	return nil
}

func (p *Plan) contains(id NodeID) bool {
	return id >= 0 && int(id) < len(p.nodes) && !p.dropped[id]
}

// reaches reports whether to is reachable from from by following child
// edges.
func (p *Plan) reaches(from, to NodeID) bool {
	if from == to {
		return true
	}
	for _, c := range p.children[from] {
		if p.reaches(c, to) {
			return true
		}
	}
	return false
}

// Node returns the node at the given ID, or nil when the slot is empty or
// tombstoned.
func (p *Plan) Node(id NodeID) Node {
	if !p.contains(id) {
		return nil
	}
	return p.nodes[id]
}

// Len returns the number of live nodes.
func (p *Plan) Len() int {
	n := 0
	for id := range p.nodes {
		if !p.dropped[id] {
			n++
		}
	}
	return n
}

// Nodes returns the live nodes in insertion order.
func (p *Plan) Nodes() []Node {
	nodes := make([]Node, 0, len(p.nodes))
	for id, n := range p.nodes {
		if !p.dropped[id] {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Children returns the input dependencies of the node, in order.
func (p *Plan) Children(n Node) []Node {
	return p.resolve(p.children[n.ID()])
}

// Parents returns the output dependencies of the node.
func (p *Plan) Parents(n Node) []Node {
	return p.resolve(p.parents[n.ID()])
}

func (p *Plan) resolve(ids []NodeID) []Node {
	nodes := make([]Node, len(ids))
	for i, id := range ids {
		nodes[i] = p.nodes[id]
	}
	return nodes
}

// Roots returns the live nodes without output dependencies, the terminal
// nodes of the DAG.
func (p *Plan) Roots() []Node {
	var roots []Node
	for id, n := range p.nodes {
		if !p.dropped[id] && len(p.parents[id]) == 0 {
			roots = append(roots, n)
		}
	}
	return roots
}

// Root returns the single terminal node of the DAG, or a defect error when
// the plan does not have exactly one.
func (p *Plan) Root() (Node, error) {
	roots := p.Roots()
	if len(roots) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one terminal node, got %d", ErrMalformedPlan, len(roots))
	}
	return roots[0], nil
}

// Leaves returns the live nodes without input dependencies, the sources of
// the DAG.
func (p *Plan) Leaves() []Node {
	var leaves []Node
	for id, n := range p.nodes {
		if !p.dropped[id] && len(p.children[id]) == 0 {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

// Eliminate splices the node out of the graph: every parent adopts the
// node's children in its place, keeping input order, and the slot is
// tombstoned. Edge bookkeeping on both sides is rewritten accordingly.
func (p *Plan) Eliminate(n Node) {
	id := n.ID()
	if !p.contains(id) {
		return
	}

	for _, pid := range p.parents[id] {
		idx := slices.Index(p.children[pid], id)
		p.children[pid] = slices.Concat(p.children[pid][:idx], p.children[id], p.children[pid][idx+1:])
	}
	for _, cid := range p.children[id] {
		idx := slices.Index(p.parents[cid], id)
		p.parents[cid] = slices.Delete(p.parents[cid], idx, idx+1)
		for _, pid := range p.parents[id] {
			if !slices.Contains(p.parents[cid], pid) {
				p.parents[cid] = append(p.parents[cid], pid)
			}
		}
	}

	p.children[id] = nil
	p.parents[id] = nil
	p.dropped[id] = true
}
