package chain

import "sort"

// Edge is a bill-of-materials arc: Number units of Source (the
// parent/assembly SKU, an upstream supplier) are consumed to produce one
// unit of Destination (the child/downstream SKU that consumes it).
type Edge struct {
	Source      SKU
	Destination SKU
	Number      int64
}

// SupplyChain is the directed acyclic graph of SKU nodes and BOM edges.
// It is built once via NewSupplyChain; low-level codes are assigned at
// construction time. Node state (stock, orders, pipeline) mutates freely
// after construction, but the topology itself is immutable.
type SupplyChain struct {
	nodes      map[SKU]*Node
	order      []SKU // insertion order, used to break iteration ties
	edges      []Edge
	parentsOf  map[SKU][]Edge // edges keyed by Destination: this node's suppliers
	childrenOf map[SKU][]Edge // edges keyed by Source: this node's consumers
}

// NewSupplyChain indexes nodes, merges in any edges, detects cycles and
// unknown references, and assigns low-level codes. nodes must not contain
// duplicate SKUs; edges must reference only SKUs present in nodes.
func NewSupplyChain(nodes []*Node, edges []Edge) (*SupplyChain, error) {
	c := &SupplyChain{
		nodes:      make(map[SKU]*Node, len(nodes)),
		parentsOf:  make(map[SKU][]Edge),
		childrenOf: make(map[SKU][]Edge),
	}

	for _, n := range nodes {
		if _, dup := c.nodes[n.SKU]; dup {
			return nil, newConfigError(n.SKU, "duplicate node id")
		}
		c.nodes[n.SKU] = n
		c.order = append(c.order, n.SKU)
	}

	for _, e := range edges {
		if err := c.addEdge(e); err != nil {
			return nil, err
		}
	}

	if err := c.detectCycle(); err != nil {
		return nil, err
	}

	c.assignLLC()

	return c, nil
}

func (c *SupplyChain) addEdge(e Edge) error {
	if e.Number <= 0 {
		return newConfigError(e.Destination, "edge multiplicity must be positive")
	}
	if _, ok := c.nodes[e.Source]; !ok {
		return newConfigError(e.Source, "edge references unknown node")
	}
	if _, ok := c.nodes[e.Destination]; !ok {
		return newConfigError(e.Destination, "edge references unknown node")
	}
	c.edges = append(c.edges, e)
	c.parentsOf[e.Destination] = append(c.parentsOf[e.Destination], e)
	c.childrenOf[e.Source] = append(c.childrenOf[e.Source], e)
	return nil
}

func (c *SupplyChain) detectCycle() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[SKU]int, len(c.order))
	var visit func(sku SKU) error
	visit = func(sku SKU) error {
		color[sku] = gray
		for _, e := range c.childrenOf[sku] {
			switch color[e.Destination] {
			case gray:
				return newConfigError(e.Destination, "cycle detected in BOM graph")
			case white:
				if err := visit(e.Destination); err != nil {
					return err
				}
			}
		}
		color[sku] = black
		return nil
	}
	for _, sku := range c.order {
		if color[sku] == white {
			if err := visit(sku); err != nil {
				return err
			}
		}
	}
	return nil
}

// assignLLC computes each node's low-level code: the longest path from
// any root (a SKU with no parent/supplier) to that SKU. It processes
// roots first and relaxes downstream along Source->Destination edges,
// taking the maximum over all incoming paths — a BFS/topological sweep
// in increasing-distance order, safe because the graph is acyclic.
func (c *SupplyChain) assignLLC() {
	llc := make(map[SKU]int, len(c.order))
	indegree := make(map[SKU]int, len(c.order))
	for _, sku := range c.order {
		indegree[sku] = len(c.parentsOf[sku])
	}

	var queue []SKU
	for _, sku := range c.order {
		llc[sku] = 0
		if indegree[sku] == 0 {
			queue = append(queue, sku)
		}
	}

	remaining := make(map[SKU]int, len(c.order))
	for _, sku := range c.order {
		remaining[sku] = indegree[sku]
	}

	for len(queue) > 0 {
		sku := queue[0]
		queue = queue[1:]
		for _, e := range c.childrenOf[sku] {
			if candidate := llc[sku] + 1; candidate > llc[e.Destination] {
				llc[e.Destination] = candidate
			}
			remaining[e.Destination]--
			if remaining[e.Destination] == 0 {
				queue = append(queue, e.Destination)
			}
		}
	}

	for _, sku := range c.order {
		c.nodes[sku].LLC = llc[sku]
	}
}

// Node returns the node for sku, or nil if absent.
func (c *SupplyChain) Node(sku SKU) *Node {
	return c.nodes[sku]
}

// Nodes returns every node in the chain, in insertion order.
func (c *SupplyChain) Nodes() []*Node {
	out := make([]*Node, 0, len(c.order))
	for _, sku := range c.order {
		out = append(out, c.nodes[sku])
	}
	return out
}

// NodesByLLC returns every node ordered by LLC; ascending==false sorts
// descending. Ties break by insertion order, per the simulator's §5
// determinism requirement.
func (c *SupplyChain) NodesByLLC(ascending bool) []*Node {
	nodes := c.Nodes()
	sort.SliceStable(nodes, func(i, j int) bool {
		if ascending {
			return nodes[i].LLC < nodes[j].LLC
		}
		return nodes[i].LLC > nodes[j].LLC
	})
	return nodes
}

// Parents returns the SKUs that supply sku (its upstream components).
func (c *SupplyChain) Parents(sku SKU) []SKU {
	edges := c.parentsOf[sku]
	out := make([]SKU, len(edges))
	for i, e := range edges {
		out[i] = e.Source
	}
	return out
}

// Children returns the SKUs that consume sku (its downstream consumers).
func (c *SupplyChain) Children(sku SKU) []SKU {
	edges := c.childrenOf[sku]
	out := make([]SKU, len(edges))
	for i, e := range edges {
		out[i] = e.Destination
	}
	return out
}

// BOM returns the (parent SKU, multiplicity) pairs for each supplier of
// sku.
func (c *SupplyChain) BOM(sku SKU) []Edge {
	return c.parentsOf[sku]
}

// multiplicity returns the number of units of parent consumed per unit
// of child, or 0 if no such edge exists.
func (c *SupplyChain) multiplicity(parent, child SKU) int64 {
	for _, e := range c.parentsOf[child] {
		if e.Source == parent {
			return e.Number
		}
	}
	return 0
}

// InventoryAssembliesFeasible returns the number of assemblies of sku
// that could be produced from current on-hand position plus whatever
// component stock is already held at sku's own node — on-hand plus
// already-shipped, still-in-transit component receipts — bounded by the
// scarcest component. A parent's own finished-goods stock is never
// counted: it has not been released to this node yet, so it cannot be
// assembled here. It recomputes feasibility for every node in
// ascending-LLC order and memoizes each SKU exactly once per call, per
// spec §4.3.
func (c *SupplyChain) InventoryAssembliesFeasible(sku SKU) int64 {
	memo := c.computeFeasibility()
	return memo[sku]
}

func (c *SupplyChain) computeFeasibility() map[SKU]int64 {
	memo := make(map[SKU]int64, len(c.order))
	for _, n := range c.NodesByLLC(true) {
		position := n.stockPosition()
		parents := c.BOM(n.SKU)
		if len(parents) == 0 {
			memo[n.SKU] = position
			continue
		}
		pipeline := n.Pipeline.SumBySKU()
		var minTerm int64 = -1
		for _, e := range parents {
			available := n.Stock.Get(e.Source) + pipeline.Get(e.Source)
			term := available / e.Number
			if minTerm < 0 || term < minTerm {
				minTerm = term
			}
		}
		feasible := position + minTerm
		if feasible < 0 {
			feasible = 0
		}
		memo[n.SKU] = feasible
	}
	return memo
}
