// Package network builds and evaluates the NEAT phenotype: the feedforward network
// compiled once from a genome snapshot.
package network

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/yaricom/goneat-core/neat/genetics"
	"github.com/yaricom/goneat-core/neat/utils"
)

// incoming is one compiled edge feeding a node: a source node index into Network.nodes
// and the connection's weight.
type incoming struct {
	from   int
	weight float64
}

// node is the phenotype's runtime representation of a single node gene: its kind, its
// compiled incoming edges, and its activation for the current evaluate call.
type node struct {
	id         int
	kind       genetics.NodeKind
	incoming   []incoming
	activation float64
}

// Network is the NEAT phenotype: built once from a genome snapshot and immutable
// thereafter apart from the per-evaluation activations Evaluate resets on every call.
type Network struct {
	nodes   []*node
	index   map[int]int // node id -> index into nodes
	order   []int       // topological order over indices, inputs/bias first
	outputs []int       // indices of output nodes, sorted by node id ascending
}

// Build compiles a Network from a genome snapshot: it copies the node set, appends every
// enabled connection whose endpoints both exist to its destination node's incoming list,
// and computes a topological order over the resulting DAG with Kahn's algorithm. It
// returns an error if the enabled-connection graph is cyclic - Kahn's algorithm then
// leaves nodes with non-zero in-degree never dequeued, which this treats as a construction
// failure rather than silently under-computing.
func Build(g *genetics.Genome) (*Network, error) {
	n := &Network{
		index: make(map[int]int, len(g.Nodes)),
	}

	ids := g.NodeIDs()
	for _, id := range ids {
		gn := g.Nodes[id]
		n.index[id] = len(n.nodes)
		n.nodes = append(n.nodes, &node{id: id, kind: gn.Kind})
	}

	inDegree := make([]int, len(n.nodes))
	adjacency := make([][]int, len(n.nodes))

	for _, c := range g.ConnectionsSorted() {
		if !c.Enabled {
			continue
		}
		fromIdx, fromOK := n.index[c.From]
		toIdx, toOK := n.index[c.To]
		if !fromOK || !toOK {
			continue
		}
		n.nodes[toIdx].incoming = append(n.nodes[toIdx].incoming, incoming{from: fromIdx, weight: c.Weight})
		adjacency[fromIdx] = append(adjacency[fromIdx], toIdx)
		inDegree[toIdx]++
	}

	order := kahnOrder(inDegree, adjacency)
	if len(order) != len(n.nodes) {
		return nil, errors.New("network: enabled connection graph is cyclic, topological order does not cover every node")
	}
	n.order = order

	for idx, nd := range n.nodes {
		if nd.kind == genetics.OutputNode {
			n.outputs = append(n.outputs, idx)
		}
	}
	sort.Slice(n.outputs, func(i, j int) bool { return n.nodes[n.outputs[i]].id < n.nodes[n.outputs[j]].id })

	return n, nil
}

// kahnOrder implements Kahn's algorithm: repeatedly dequeue a zero-in-degree node,
// decrementing the in-degree of every node it feeds. Nodes are dequeued in index order
// among ties, which is deterministic since node indices are assigned from genome ids
// sorted ascending.
func kahnOrder(inDegree []int, adjacency [][]int) []int {
	remaining := make([]int, len(inDegree))
	copy(remaining, inDegree)

	queue := make([]int, 0, len(inDegree))
	for idx, deg := range remaining {
		if deg == 0 {
			queue = append(queue, idx)
		}
	}

	order := make([]int, 0, len(inDegree))
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		order = append(order, idx)
		for _, next := range adjacency[idx] {
			remaining[next]--
			if remaining[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	return order
}

// OutputValue is one entry of Evaluate's result: an output node's id and its activation.
type OutputValue struct {
	NodeID     int
	Activation float64
}

// Evaluate resets every activation to zero, loads the inputs (by node id, defaulting to 0
// for an id the caller omitted) and the bias nodes (fixed at 1), then walks the stored
// topological order applying the steepened sigmoid to the weighted sum of each non-input,
// non-bias node's incoming activations. Outputs are returned sorted by node id ascending.
// Given the same genome and the same inputs this is bit-for-bit deterministic: no
// randomness, no reordering beyond the fixed topological sort and the id-sorted output.
func (n *Network) Evaluate(inputs map[int]float64) []OutputValue {
	for _, nd := range n.nodes {
		nd.activation = 0
	}
	for _, nd := range n.nodes {
		switch nd.kind {
		case genetics.InputNode:
			nd.activation = inputs[nd.id]
		case genetics.BiasNode:
			nd.activation = 1
		}
	}

	for _, idx := range n.order {
		nd := n.nodes[idx]
		if nd.kind == genetics.InputNode || nd.kind == genetics.BiasNode {
			continue
		}
		var sum float64
		for _, edge := range nd.incoming {
			sum += n.nodes[edge.from].activation * edge.weight
		}
		nd.activation = utils.Sigmoid(sum)
	}

	out := make([]OutputValue, len(n.outputs))
	for i, idx := range n.outputs {
		out[i] = OutputValue{NodeID: n.nodes[idx].id, Activation: n.nodes[idx].activation}
	}
	return out
}

func (n *Network) String() string {
	return fmt.Sprintf("Network(%d nodes, %d outputs)", len(n.nodes), len(n.outputs))
}
