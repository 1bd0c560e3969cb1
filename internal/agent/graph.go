package agent

import (
	"context"
	"fmt"
)

// End terminates graph execution when returned from a Next func.
const End = "__end__"

// State is the mutable conversation state threaded through a graph run.
type State struct {
	Messages       []Message
	MaxTurns       int
	InitiatorTurns int
	ResponderTurns int
	Preset         PresetPair
	SessionID      string
}

// Node is one step in a conversation graph: Run mutates the state, Next
// picks the following node by name (or End).
type Node struct {
	Name string
	Run  func(ctx context.Context, state *State) error
	Next func(state *State) string
}

// Graph is a tiny explicit state machine: named nodes with conditional
// routing, executed sequentially until a node routes to End.
type Graph struct {
	entry string
	nodes map[string]Node
}

func NewGraph(entry string, nodes ...Node) *Graph {
	index := make(map[string]Node, len(nodes))
	for _, node := range nodes {
		index[node.Name] = node
	}
	return &Graph{entry: entry, nodes: index}
}

func (g *Graph) Run(ctx context.Context, state *State) error {
	current := g.entry
	for current != End {
		if err := ctx.Err(); err != nil {
			return err
		}
		node, ok := g.nodes[current]
		if !ok {
			return fmt.Errorf("graph routed to unknown node %q", current)
		}
		if err := node.Run(ctx, state); err != nil {
			return fmt.Errorf("node %s: %w", node.Name, err)
		}
		current = node.Next(state)
	}
	return nil
}
