package chain

import (
	"errors"
	"testing"
)

func TestNewSupplyChain_RejectsDuplicateNode(t *testing.T) {
	a1 := NewNode("A", nil)
	a2 := NewNode("A", nil)
	_, err := NewSupplyChain([]*Node{a1, a2}, nil)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestNewSupplyChain_RejectsUnknownEdgeEndpoint(t *testing.T) {
	a := NewNode("A", nil)
	_, err := NewSupplyChain([]*Node{a}, []Edge{{Source: "A", Destination: "B", Number: 1}})
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestNewSupplyChain_RejectsNonPositiveMultiplicity(t *testing.T) {
	a := NewNode("A", nil)
	b := NewNode("B", nil)
	_, err := NewSupplyChain([]*Node{a, b}, []Edge{{Source: "A", Destination: "B", Number: 0}})
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestNewSupplyChain_RejectsCycle(t *testing.T) {
	a := NewNode("A", nil)
	b := NewNode("B", nil)
	_, err := NewSupplyChain([]*Node{a, b}, []Edge{
		{Source: "A", Destination: "B", Number: 1},
		{Source: "B", Destination: "A", Number: 1},
	})
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for cycle, got %v", err)
	}
}

// TestLLC_TwoEchelon mirrors spec scenario 2: root R (llc 0) feeds leaf L
// (llc 1) via a single BOM edge.
func TestLLC_TwoEchelon(t *testing.T) {
	r := NewNode("R", nil)
	l := NewNode("L", nil)
	c, err := NewSupplyChain([]*Node{r, l}, []Edge{{Source: "R", Destination: "L", Number: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Node("R").LLC != 0 {
		t.Errorf("expected R llc 0, got %d", c.Node("R").LLC)
	}
	if c.Node("L").LLC != 1 {
		t.Errorf("expected L llc 1, got %d", c.Node("L").LLC)
	}
}

func TestLLC_TakesLongestPath(t *testing.T) {
	// A -> B -> D and A -> D directly: D must take the longer path (2),
	// not the shorter one, per the "max over all incoming paths" rule.
	a := NewNode("A", nil)
	b := NewNode("B", nil)
	d := NewNode("D", nil)
	c, err := NewSupplyChain([]*Node{a, b, d}, []Edge{
		{Source: "A", Destination: "B", Number: 1},
		{Source: "B", Destination: "D", Number: 1},
		{Source: "A", Destination: "D", Number: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Node("D").LLC; got != 2 {
		t.Errorf("expected D llc 2, got %d", got)
	}
}

// TestFeasibility_MultiplicityBOM mirrors spec scenario 3: assembly A
// requires 2xC and 1xD; stock={A:0,C:7,D:2} yields feasible(A)=2.
func TestFeasibility_MultiplicityBOM(t *testing.T) {
	a := NewNode("A", nil)
	cpart := NewNode("C", nil)
	dpart := NewNode("D", nil)

	a.Stock.Set("A", 0)
	a.Stock.Set("C", 7)
	a.Stock.Set("D", 2)

	c, err := NewSupplyChain([]*Node{a, cpart, dpart}, []Edge{
		{Source: "C", Destination: "A", Number: 2},
		{Source: "D", Destination: "A", Number: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := c.InventoryAssembliesFeasible("A"); got != 2 {
		t.Errorf("expected feasible(A)=2, got %d", got)
	}
}

func TestFeasibility_NoParentsReturnsStockPosition(t *testing.T) {
	a := NewNode("A", nil)
	a.Stock.Set("A", 9)
	c, err := NewSupplyChain([]*Node{a}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.InventoryAssembliesFeasible("A"); got != 9 {
		t.Errorf("expected 9, got %d", got)
	}
}

func TestFeasibility_MonotonicInOnHandStock(t *testing.T) {
	a := NewNode("A", nil)
	cpart := NewNode("C", nil)
	a.Stock.Set("C", 4)
	chainGraph, err := NewSupplyChain([]*Node{a, cpart}, []Edge{{Source: "C", Destination: "A", Number: 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := chainGraph.InventoryAssembliesFeasible("A")

	a.Stock.Add("C", 2)
	after := chainGraph.InventoryAssembliesFeasible("A")

	if after < before {
		t.Errorf("feasibility must be nondecreasing as on-hand stock increases: before=%d after=%d", before, after)
	}
}

func TestFeasibility_ParentFinishedStockNotCounted(t *testing.T) {
	// R is L's supplier and holds a large finished-goods position of its
	// own SKU, but none of it has been released to L yet. L's feasibility
	// must come only from component stock already held at L, not from R's
	// unreleased inventory — this is the two-echelon scenario's
	// discriminating case (spec scenario 2).
	r := NewNode("R", nil)
	r.Stock.Set("R", 80)
	l := NewNode("L", nil)
	l.Stock.Set("L", 0)

	chainGraph, err := NewSupplyChain([]*Node{r, l}, []Edge{{Source: "R", Destination: "L", Number: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := chainGraph.InventoryAssembliesFeasible("L"); got != 0 {
		t.Errorf("expected feasible(L)=0 despite R's finished stock, got %d", got)
	}
}

func TestFeasibility_CountsInTransitComponentReceipts(t *testing.T) {
	// L has already ordered and R has already shipped 20 units of R toward
	// L; they haven't matured yet, but L must not re-order against a
	// shortfall it has already covered — in-transit component receipts
	// count toward feasibility the same as on-hand component stock.
	r := NewNode("R", nil)
	l := NewNode("L", nil)
	l.Pipeline.Add(Receipt{SKU: "R", ETA: 1, Quantity: 20})

	chainGraph, err := NewSupplyChain([]*Node{r, l}, []Edge{{Source: "R", Destination: "L", Number: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := chainGraph.InventoryAssembliesFeasible("L"); got != 20 {
		t.Errorf("expected feasible(L)=20 counting the in-transit receipt, got %d", got)
	}
}

func TestParentsChildrenBOM(t *testing.T) {
	a := NewNode("A", nil)
	cpart := NewNode("C", nil)
	dpart := NewNode("D", nil)
	chainGraph, err := NewSupplyChain([]*Node{a, cpart, dpart}, []Edge{
		{Source: "C", Destination: "A", Number: 2},
		{Source: "D", Destination: "A", Number: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parents := chainGraph.Parents("A")
	if len(parents) != 2 {
		t.Fatalf("expected 2 parents, got %d", len(parents))
	}

	children := chainGraph.Children("C")
	if len(children) != 1 || children[0] != "A" {
		t.Errorf("expected C's only child to be A, got %v", children)
	}

	bom := chainGraph.BOM("A")
	if len(bom) != 2 {
		t.Fatalf("expected 2 bom lines, got %d", len(bom))
	}
}
