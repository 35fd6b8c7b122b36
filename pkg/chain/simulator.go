package chain

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Simulator orchestrates the period loop over a SupplyChain under a
// control and release strategy pair, emitting metric events to a Sink.
// It is single-threaded and synchronous: within one period, every node
// completes a phase before any node begins the next, per spec §5.
type Simulator struct {
	Chain   *SupplyChain
	Control ControlStrategy
	Release ReleaseStrategy
	Sink    Sink

	// RunID identifies this run for correlation across sinks (e.g. a
	// snapshot database and a NATS stream fed from the same run).
	RunID string
}

// NewSimulator constructs a Simulator with a freshly generated RunID.
func NewSimulator(c *SupplyChain, control ControlStrategy, release ReleaseStrategy, sink Sink) *Simulator {
	return &Simulator{
		Chain:   c,
		Control: control,
		Release: release,
		Sink:    sink,
		RunID:   uuid.NewString(),
	}
}

// Run executes periods 1..periods inclusive. The sink is closed on every
// exit path, success or error. ctx is checked between periods only — a
// mid-period abort is not a defined state, per spec §5.
func (s *Simulator) Run(ctx context.Context, periods int) (err error) {
	defer func() {
		if closeErr := s.Sink.Close(); err == nil {
			err = closeErr
		}
	}()

	for t := 1; t <= periods; t++ {
		if t > 1 {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
		}
		if err := s.runPeriod(t); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) runPeriod(t int) error {
	if err := s.phaseReceive(t); err != nil {
		return err
	}
	if err := s.phaseDemand(t); err != nil {
		return err
	}
	if err := s.phaseRelease(t); err != nil {
		return err
	}
	if err := s.phaseOrder(t); err != nil {
		return err
	}
	s.phaseAge()
	return nil
}

// phaseReceive accepts every matured receipt at every node, in chain
// insertion order, and emits a receipt event for each.
func (s *Simulator) phaseReceive(t int) error {
	for _, n := range s.Chain.Nodes() {
		for _, r := range n.AcceptReceipts() {
			if err := s.emit(Event{Period: t, Node: n.SKU, Event: EventReceipt, Quantity: r.Quantity, SKU: r.SKU}); err != nil {
				return err
			}
		}
	}
	return nil
}

// phaseDemand satisfies each node's demand events for period t.
func (s *Simulator) phaseDemand(t int) error {
	for _, n := range s.Chain.Nodes() {
		for _, outcome := range n.SatisfySales(t) {
			if outcome.Satisfied > 0 {
				if err := s.emit(Event{Period: t, Node: n.SKU, Event: EventSalesSatisfied, Quantity: outcome.Satisfied}); err != nil {
					return err
				}
			}
			if outcome.Backordered > 0 {
				if err := s.emit(Event{Period: t, Node: n.SKU, Event: EventSalesBackordered, Quantity: outcome.Backordered}); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// phaseRelease ships stock to children in ascending-LLC order: suppliers
// release before their own children are visited, so sibling allocation
// for any one node is computed from that node's pre-release stock.
func (s *Simulator) phaseRelease(t int) error {
	for _, n := range s.Chain.NodesByLLC(true) {
		n.Assemble(s.Chain)

		releases := s.Release.GetReleases(n)
		onHand := n.Stock.Get(n.SKU)
		if releases.Sum() > onHand {
			return newStateError(n.SKU, "release", fmt.Sprintf("release strategy proposed %d but only %d on hand", releases.Sum(), onHand))
		}

		for _, item := range releases.Items() {
			qty := item.Quantity
			if qty <= 0 {
				continue
			}
			childSKU := item.SKU
			if qty > n.Orders.Get(childSKU) {
				return newStateError(n.SKU, "release", fmt.Sprintf("release of %d to %s exceeds outstanding order", qty, childSKU))
			}

			child := s.Chain.Node(childSKU)
			if child == nil {
				return newStateError(n.SKU, "release", fmt.Sprintf("release to unknown child %s", childSKU))
			}

			n.Stock.Add(n.SKU, -qty)
			n.Orders.Add(childSKU, -qty)

			leadTime := 0
			if n.LeadTime != nil {
				leadTime = n.LeadTime.Get(t)
			}
			child.Pipeline.Add(Receipt{ID: uuid.NewString(), SKU: n.SKU, ETA: leadTime, Quantity: qty})

			if err := s.emit(Event{Period: t, Node: n.SKU, Event: EventRelease, Quantity: qty, SKU: n.SKU}); err != nil {
				return err
			}
		}
	}
	return nil
}

// phaseOrder generates new orders in descending-LLC order: children
// order before their parents are asked to release next period, so a
// freshly observed shortage reaches the supplier's books within one
// period pass. A node with no supplier in the graph is treated as
// sourcing from an unmodeled, always-available external supplier: its
// order becomes a receipt directly on its own pipeline rather than an
// entry on a parent's order book.
func (s *Simulator) phaseOrder(t int) error {
	for _, n := range s.Chain.NodesByLLC(false) {
		orders := s.Control.GetOrders(s.Chain, n, t)
		qty := orders.Get(n.SKU)
		if qty <= 0 {
			continue
		}

		parents := s.Chain.BOM(n.SKU)
		if len(parents) == 0 {
			leadTime := 0
			if n.LeadTime != nil {
				leadTime = n.LeadTime.Get(t)
			}
			n.Pipeline.Add(Receipt{ID: uuid.NewString(), SKU: n.SKU, ETA: leadTime, Quantity: qty})
		} else {
			for _, e := range parents {
				parent := s.Chain.Node(e.Source)
				parent.Orders.Add(n.SKU, qty*e.Number)
			}
		}

		if err := s.emit(Event{Period: t, Node: n.SKU, Event: EventOrder, Quantity: qty}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) phaseAge() {
	for _, n := range s.Chain.Nodes() {
		n.Pipeline.Age()
	}
}

func (s *Simulator) emit(e Event) error {
	if s.Sink == nil {
		return nil
	}
	return s.Sink.Emit(e)
}
