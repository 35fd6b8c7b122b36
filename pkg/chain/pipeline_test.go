package chain

import "testing"

// TestPipeline_Aging mirrors spec scenario 6: a receipt added with eta=2
// matures after two Age() calls and is returned by the PopMatured that
// follows the second one.
func TestPipeline_Aging(t *testing.T) {
	var p Pipeline
	p.Add(Receipt{SKU: "A", ETA: 2, Quantity: 5})

	p.Age() // period 1 end: eta -> 1
	if matured := p.PopMatured(); len(matured) != 0 {
		t.Fatalf("expected nothing matured yet, got %v", matured)
	}

	p.Age() // period 2 end: eta -> 0
	matured := p.PopMatured()
	if len(matured) != 1 {
		t.Fatalf("expected 1 matured receipt, got %d", len(matured))
	}
	if matured[0].Quantity != 5 || matured[0].SKU != "A" {
		t.Errorf("unexpected receipt: %+v", matured[0])
	}
}

func TestPipeline_PopMaturedKeepsInsertionOrderForTies(t *testing.T) {
	var p Pipeline
	p.Add(Receipt{SKU: "A", ETA: 0, Quantity: 1})
	p.Add(Receipt{SKU: "B", ETA: 0, Quantity: 2})

	matured := p.PopMatured()
	if len(matured) != 2 || matured[0].SKU != "A" || matured[1].SKU != "B" {
		t.Errorf("expected A then B, got %+v", matured)
	}
	if p.Len() != 0 {
		t.Errorf("expected empty pipeline after pop, got %d remaining", p.Len())
	}
}

func TestPipeline_SumBySKU(t *testing.T) {
	var p Pipeline
	p.Add(Receipt{SKU: "A", ETA: 1, Quantity: 3})
	p.Add(Receipt{SKU: "A", ETA: 2, Quantity: 4})
	p.Add(Receipt{SKU: "B", ETA: 1, Quantity: 1})

	sums := p.SumBySKU()
	if got := sums.Get("A"); got != 7 {
		t.Errorf("expected 7, got %d", got)
	}
	if got := sums.Get("B"); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
}

func TestPipeline_PolymorphicSKU(t *testing.T) {
	// A node's pipeline may carry receipts of a component SKU, not just
	// its own — spec §9 open question, resolved in favor of polymorphism.
	var p Pipeline
	p.Add(Receipt{SKU: "D", ETA: 0, Quantity: 2})
	matured := p.PopMatured()
	if len(matured) != 1 || matured[0].SKU != "D" {
		t.Fatalf("expected component receipt D, got %+v", matured)
	}
}
