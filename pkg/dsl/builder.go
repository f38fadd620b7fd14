package dsl

import (
	"fmt"

	"github.com/aretw0/canvas/pkg/adapters/memory"
	"github.com/aretw0/canvas/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	order []string
	nodes map[string]*NodeBuilder
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add creates a new node in the graph.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.Node{
			ID: id,
		},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Frame adds a frame node.
func (b *Builder) Frame(id string) *NodeBuilder {
	return b.Add(id).Type(domain.NodeTypeFrame)
}

// Build assembles and validates the graph. Nodes keep the order they were
// added in; edges follow their source nodes.
func (b *Builder) Build() (domain.Graph, error) {
	g := domain.Graph{
		Nodes: make([]domain.Node, 0, len(b.order)),
		Edges: []domain.Edge{},
	}
	ids := make(map[string]int)

	for _, id := range b.order {
		g.Nodes = append(g.Nodes, b.nodes[id].node)
	}
	for _, id := range b.order {
		for _, l := range b.nodes[id].links {
			e, err := b.resolve(id, l)
			if err != nil {
				return domain.Graph{}, err
			}
			base := e.ID
			for ids[e.ID] > 0 {
				e.ID = fmt.Sprintf("%s-%d", base, ids[base])
				ids[base]++
			}
			ids[e.ID]++
			g.Edges = append(g.Edges, e)
		}
	}

	if err := g.Validate(); err != nil {
		return domain.Graph{}, err
	}
	return g, nil
}

// MustBuild is Build for fixtures; it panics on an invalid graph.
func (b *Builder) MustBuild() domain.Graph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}

// BuildStore builds the graph into an in-memory GraphStore.
func (b *Builder) BuildStore() (*memory.GraphStore, error) {
	g, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build graph store: %w", err)
	}
	return memory.NewGraphStore(g), nil
}

// resolve fills in the default ports of a link: the source's first output
// and the target's first input.
func (b *Builder) resolve(source string, l link) (domain.Edge, error) {
	target, ok := b.nodes[l.target]
	if !ok {
		return domain.Edge{}, fmt.Errorf("edge %s -> %s: %w", source, l.target, domain.ErrNodeNotFound)
	}
	e := domain.Edge{
		ID:           l.id,
		SourceNodeID: source,
		TargetNodeID: l.target,
		SourcePortID: l.sourcePort,
		TargetPortID: l.targetPort,
		Status:       l.status,
	}
	if e.SourcePortID == "" {
		if outs := b.nodes[source].node.Ports.Outputs; len(outs) > 0 {
			e.SourcePortID = outs[0].ID
		}
	}
	if e.TargetPortID == "" {
		if ins := target.node.Ports.Inputs; len(ins) > 0 {
			e.TargetPortID = ins[0].ID
		}
	}
	if e.ID == "" {
		e.ID = source + "-" + l.target
	}
	return e, nil
}
