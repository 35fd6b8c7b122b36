package main

import (
	"context"
	"fmt"

	"github.com/tevinokafor/chainsim/pkg/chain"
)

func main() {
	ctx := context.Background()

	chainGraph, root, leaf := setupTwoEchelonChain()

	sim := chain.NewSimulator(chainGraph, chain.RSQControl{}, chain.FractionalRelease{}, chain.NewJSONLineSink(nullWriter{}))

	fmt.Println("🚀 Running two-echelon chainsim demo...")
	fmt.Printf("Root %s starts with %d on hand; leaf %s reorders at %d\n",
		root.SKU, root.Stock.Get(root.SKU), leaf.SKU, leaf.Data.Get(chain.KeyReorderLevel))
	fmt.Println()

	const periods = 6
	if err := sim.Run(ctx, periods); err != nil {
		fmt.Printf("❌ simulation failed: %v\n", err)
		return
	}

	fmt.Println("📊 Final state:")
	fmt.Printf("  %s on hand: %d, backordered: %d\n", root.SKU, root.Stock.Get(root.SKU), root.Backorders)
	fmt.Printf("  %s on hand: %d, backordered: %d\n", leaf.SKU, leaf.Stock.Get(leaf.SKU), leaf.Backorders)
	fmt.Println("✅ chainsim demo complete!")
}

// setupTwoEchelonChain wires a distribution center (ROOT) feeding a
// single retail node (LEAF) one unit of ROOT stock per unit of LEAF
// demand, both under RSQ control and fractional release.
func setupTwoEchelonChain() (*chain.SupplyChain, *chain.Node, *chain.Node) {
	root := chain.NewNode("ROOT", chain.NodeData{
		chain.KeyOrderQuantity: 50,
		chain.KeyReorderLevel:  20,
		chain.KeyReviewTime:    2,
	})
	root.Stock.Set("ROOT", 80)
	root.LeadTime = chain.FixedLeadTime{Days: 1}

	leaf := chain.NewNode("LEAF", chain.NodeData{
		chain.KeyOrderQuantity: 30,
		chain.KeyReorderLevel:  15,
		chain.KeyReviewTime:    1,
	})
	leaf.Stock.Set("LEAF", 10)
	leaf.LeadTime = chain.FixedLeadTime{Days: 1}
	leaf.Sales = &chain.SeriesSales{Events: [][]int64{
		{4}, {5}, {6}, {5}, {4}, {3},
	}}

	chainGraph, err := chain.NewSupplyChain([]*chain.Node{root, leaf}, []chain.Edge{
		{Source: "ROOT", Destination: "LEAF", Number: 1},
	})
	if err != nil {
		panic(fmt.Sprintf("demo chain construction failed: %v", err))
	}
	return chainGraph, root, leaf
}

// nullWriter discards the demo's metric stream; the printed summary
// above is the point of this example, not the NDJSON output.
type nullWriter struct{}

func (nullWriter) Write(p []byte) (int, error) { return len(p), nil }
