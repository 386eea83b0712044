package physical

import "errors"

// WalkOrder defines the order in which a node and its children are visited.
type WalkOrder uint8

const (
	// PreOrderWalk processes a node before visiting any of its children.
	PreOrderWalk WalkOrder = iota

	// PostOrderWalk processes a node after visiting all of its children.
	PostOrderWalk
)

// WalkFunc is a function that gets invoked when walking a Plan. Walking
// stops if WalkFunc returns a non-nil error.
type WalkFunc func(n Node) error

// Walk performs a depth-first walk over the input dependencies of n,
// invoking the provided fn for each node reached. Shared sub-DAGs are
// visited once. Walk returns the error returned by fn.
func (p *Plan) Walk(n Node, fn WalkFunc, order WalkOrder) error {
	visited := make(map[NodeID]struct{})
	switch order {
	case PreOrderWalk:
		return p.preOrderWalk(n, fn, visited)
	case PostOrderWalk:
		return p.postOrderWalk(n, fn, visited)
	default:
		return errors.New("unsupported walk order, must be one of PreOrderWalk and PostOrderWalk")
	}
}

func (p *Plan) preOrderWalk(n Node, fn WalkFunc, visited map[NodeID]struct{}) error {
	if _, ok := visited[n.ID()]; ok {
		return nil
	}
	visited[n.ID()] = struct{}{}

	if err := fn(n); err != nil {
		return err
	}

	for _, child := range p.Children(n) {
		if err := p.preOrderWalk(child, fn, visited); err != nil {
			return err
		}
	}
	return nil
}

func (p *Plan) postOrderWalk(n Node, fn WalkFunc, visited map[NodeID]struct{}) error {
	if _, ok := visited[n.ID()]; ok {
		return nil
	}
	visited[n.ID()] = struct{}{}

	for _, child := range p.Children(n) {
		if err := p.postOrderWalk(child, fn, visited); err != nil {
			return err
		}
	}

	return fn(n)
}
