// Package steps implements the godog step definitions backing the
// acceptance features under features/domain, each a runnable form of
// one of chainsim's seed scenarios.
package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/tevinokafor/chainsim/pkg/chain"
)

type chainContext struct {
	nodes map[chain.SKU]*chain.Node
	edges []chain.Edge
	built *chain.SupplyChain

	releaseNode *chain.Node
	releases    chain.Quantity

	pipeline chain.Pipeline
	matured  []chain.Receipt

	err error
}

func (cc *chainContext) reset(*godog.Scenario) {
	cc.nodes = make(map[chain.SKU]*chain.Node)
	cc.edges = nil
	cc.built = nil
	cc.releaseNode = nil
	cc.releases = chain.NewQuantity()
	cc.pipeline = chain.Pipeline{}
	cc.matured = nil
	cc.err = nil
}

func (cc *chainContext) node(sku string) *chain.Node {
	s := chain.SKU(sku)
	n, ok := cc.nodes[s]
	if !ok {
		n = chain.NewNode(s, chain.NodeData{})
		cc.nodes[s] = n
	}
	return n
}

func (cc *chainContext) aNodeWithOrderQuantityReorderLevelAndReviewTime(sku string, orderQty, reorderLevel, reviewTime int64) error {
	n := cc.node(sku)
	n.Data[chain.KeyOrderQuantity] = orderQty
	n.Data[chain.KeyReorderLevel] = reorderLevel
	n.Data[chain.KeyReviewTime] = reviewTime
	return nil
}

func (cc *chainContext) nodeHasALeadTimeOfPeriod(sku string, days int) error {
	cc.node(sku).LeadTime = chain.FixedLeadTime{Days: days}
	return nil
}

func (cc *chainContext) nodeStartsWithUnitsOfStock(sku string, qty int64) error {
	cc.node(sku).Stock.Set(chain.SKU(sku), qty)
	return nil
}

func (cc *chainContext) nodeHasDemandOfUnitsInPeriod(sku string, qty int64, period int) error {
	n := cc.node(sku)
	series, ok := n.Sales.(*chain.SeriesSales)
	if !ok {
		series = &chain.SeriesSales{}
		n.Sales = series
	}
	for len(series.Events) < period {
		series.Events = append(series.Events, nil)
	}
	series.Events[period-1] = append(series.Events[period-1], qty)
	return nil
}

func (cc *chainContext) aNodeWithUnitsOfStock(sku string, qty int64) error {
	cc.node(sku).Stock.Set(chain.SKU(sku), qty)
	return nil
}

func (cc *chainContext) aNodeThatIsABOMParentOfWithMultiplicity(parent, child string, multiplicity int64) error {
	cc.node(parent)
	cc.node(child)
	cc.edges = append(cc.edges, chain.Edge{Source: chain.SKU(parent), Destination: chain.SKU(child), Number: multiplicity})
	return nil
}

func (cc *chainContext) aBillOfMaterialsEdgeFromToWithMultiplicity(source, destination string, multiplicity int64) error {
	cc.edges = append(cc.edges, chain.Edge{Source: chain.SKU(source), Destination: chain.SKU(destination), Number: multiplicity})
	return nil
}

func (cc *chainContext) nodeHoldsUnitsOfAndUnitsOf(sku string, qty1 int64, component1 string, qty2 int64, component2 string) error {
	n := cc.node(sku)
	n.Stock.Set(chain.SKU(component1), qty1)
	n.Stock.Set(chain.SKU(component2), qty2)
	return nil
}

func (cc *chainContext) nodeHasOutstandingOrdersOfUnitsFromAndUnitsFrom(sku string, qty1 int64, child1 string, qty2 int64, child2 string) error {
	n := cc.node(sku)
	cc.releaseNode = n
	n.Orders.Set(chain.SKU(child1), qty1)
	n.Orders.Set(chain.SKU(child2), qty2)
	return nil
}

func (cc *chainContext) build() error {
	nodes := make([]*chain.Node, 0, len(cc.nodes))
	for _, n := range cc.nodes {
		nodes = append(nodes, n)
	}
	c, err := chain.NewSupplyChain(nodes, cc.edges)
	if err != nil {
		return fmt.Errorf("build chain: %w", err)
	}
	cc.built = c
	return nil
}

func (cc *chainContext) theChainRunsForPeriods(periods int) error {
	if err := cc.build(); err != nil {
		return err
	}
	sim := chain.NewSimulator(cc.built, chain.RSQControl{}, chain.FractionalRelease{}, chain.DiscardSink{})
	cc.err = sim.Run(context.Background(), periods)
	return cc.err
}

func (cc *chainContext) feasibilityIsComputedFor(sku string) error {
	return cc.build()
}

func (cc *chainContext) releasesAreComputedFor(sku string) error {
	n := cc.nodes[chain.SKU(sku)]
	cc.releases = chain.FractionalRelease{}.GetReleases(n)
	return nil
}

func (cc *chainContext) nodeShouldHaveBackorderedUnits(sku string, qty int64) error {
	got := cc.node(sku).Backorders
	if got != qty {
		return fmt.Errorf("expected %d backordered units for %s, got %d", qty, sku, got)
	}
	return nil
}

func (cc *chainContext) nodeShouldHaveUnitsOnHand(sku string, qty int64) error {
	n := cc.node(sku)
	got := n.Stock.Get(chain.SKU(sku))
	if got != qty {
		return fmt.Errorf("expected %d units on hand for %s, got %d", qty, sku, got)
	}
	return nil
}

func (cc *chainContext) theFeasibleAssemblyCountForShouldBe(sku string, qty int64) error {
	got := cc.built.InventoryAssembliesFeasible(chain.SKU(sku))
	if got != qty {
		return fmt.Errorf("expected feasible count %d for %s, got %d", qty, sku, got)
	}
	return nil
}

func (cc *chainContext) shouldReceiveUnits(sku string, qty int64) error {
	got := cc.releases.Get(chain.SKU(sku))
	if got != qty {
		return fmt.Errorf("expected %s to receive %d units, got %d", sku, qty, got)
	}
	return nil
}

func (cc *chainContext) anEmptyPipeline() error {
	cc.pipeline = chain.Pipeline{}
	return nil
}

func (cc *chainContext) thePipelineReceivesUnitsOfWithAnETAOfPeriods(qty int64, sku string, eta int) error {
	cc.pipeline.Add(chain.Receipt{SKU: chain.SKU(sku), ETA: eta, Quantity: qty})
	return nil
}

func (cc *chainContext) thePipelineAgesPeriod(periods int) error {
	for i := 0; i < periods; i++ {
		cc.pipeline.Age()
	}
	cc.matured = cc.pipeline.PopMatured()
	return nil
}

func (cc *chainContext) thePipelineAgesMorePeriod(periods int) error {
	return cc.thePipelineAgesPeriod(periods)
}

func (cc *chainContext) noReceiptsShouldHaveMatured() error {
	if len(cc.matured) != 0 {
		return fmt.Errorf("expected no matured receipts, got %d", len(cc.matured))
	}
	return nil
}

func (cc *chainContext) receiptOfUnitsOfShouldHaveMatured(count int, qty int64, sku string) error {
	if len(cc.matured) != count {
		return fmt.Errorf("expected %d matured receipts, got %d", count, len(cc.matured))
	}
	r := cc.matured[0]
	if r.Quantity != qty || r.SKU != chain.SKU(sku) {
		return fmt.Errorf("expected matured receipt of %d units of %s, got %+v", qty, sku, r)
	}
	return nil
}

// InitializeChainScenario registers every step definition used by the
// features under features/domain.
func InitializeChainScenario(sc *godog.ScenarioContext) {
	cc := &chainContext{}
	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		cc.reset(s)
		return ctx, nil
	})

	sc.Step(`^a node "([^"]*)" with order quantity (\d+), reorder level (\d+), and review time (\d+)$`, cc.aNodeWithOrderQuantityReorderLevelAndReviewTime)
	sc.Step(`^node "([^"]*)" has a lead time of (\d+) period$`, cc.nodeHasALeadTimeOfPeriod)
	sc.Step(`^node "([^"]*)" starts with (\d+) units of stock$`, cc.nodeStartsWithUnitsOfStock)
	sc.Step(`^node "([^"]*)" has demand of (\d+) units in period (\d+)$`, cc.nodeHasDemandOfUnitsInPeriod)
	sc.Step(`^node "([^"]*)" starts with (\d+) units of stock$`, cc.nodeStartsWithUnitsOfStock)
	sc.Step(`^a bill-of-materials edge from "([^"]*)" to "([^"]*)" with multiplicity (\d+)$`, cc.aBillOfMaterialsEdgeFromToWithMultiplicity)
	sc.Step(`^the chain runs for (\d+) periods$`, cc.theChainRunsForPeriods)
	sc.Step(`^node "([^"]*)" should have (\d+) backordered units$`, cc.nodeShouldHaveBackorderedUnits)
	sc.Step(`^node "([^"]*)" should have (\d+) units on hand$`, cc.nodeShouldHaveUnitsOnHand)

	sc.Step(`^a node "([^"]*)" with (\d+) units of stock$`, cc.aNodeWithUnitsOfStock)
	sc.Step(`^a node "([^"]*)" that is a BOM parent of "([^"]*)" with multiplicity (\d+)$`, cc.aNodeThatIsABOMParentOfWithMultiplicity)
	sc.Step(`^node "([^"]*)" holds (\d+) units of "([^"]*)" and (\d+) units of "([^"]*)"$`, cc.nodeHoldsUnitsOfAndUnitsOf)
	sc.Step(`^feasibility is computed for "([^"]*)"$`, cc.feasibilityIsComputedFor)
	sc.Step(`^the feasible assembly count for "([^"]*)" should be (\d+)$`, cc.theFeasibleAssemblyCountForShouldBe)

	sc.Step(`^node "([^"]*)" has outstanding orders of (\d+) units from "([^"]*)" and (\d+) units from "([^"]*)"$`, cc.nodeHasOutstandingOrdersOfUnitsFromAndUnitsFrom)
	sc.Step(`^releases are computed for "([^"]*)"$`, cc.releasesAreComputedFor)
	sc.Step(`^"([^"]*)" should receive (\d+) units$`, cc.shouldReceiveUnits)

	sc.Step(`^an empty pipeline$`, cc.anEmptyPipeline)
	sc.Step(`^the pipeline receives (\d+) units of "([^"]*)" with an ETA of (\d+) periods$`, cc.thePipelineReceivesUnitsOfWithAnETAOfPeriods)
	sc.Step(`^the pipeline ages (\d+) period$`, cc.thePipelineAgesPeriod)
	sc.Step(`^the pipeline ages (\d+) more period$`, cc.thePipelineAgesMorePeriod)
	sc.Step(`^no receipts should have matured$`, cc.noReceiptsShouldHaveMatured)
	sc.Step(`^(\d+) receipt of (\d+) units of "([^"]*)" should have matured$`, cc.receiptOfUnitsOfShouldHaveMatured)
}
