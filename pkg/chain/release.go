package chain

import "github.com/shopspring/decimal"

// ReleaseStrategy decides how much of node's own-SKU stock to ship to
// each downstream child that has outstanding orders against it. The
// result must satisfy sum(releases) <= node.Stock[node.SKU] and
// releases[c] <= node.Orders[c] for every child c.
type ReleaseStrategy interface {
	GetReleases(n *Node) Quantity
}

// FractionalRelease allocates a scarce shipment across competing
// downstream orders in proportion to each child's share of total
// outstanding demand, rounding up and then trimming the largest
// allocations (ties broken by smallest SKU) until the total fits on
// hand.
type FractionalRelease struct{}

// GetReleases implements ReleaseStrategy.
func (FractionalRelease) GetReleases(n *Node) Quantity {
	out := NewQuantity()

	items := n.Orders.Items()
	orderTotal := n.Orders.Sum()
	if orderTotal <= 0 {
		return out
	}

	onHand := n.Stock.Get(n.SKU)
	shortage := orderTotal - onHand
	if shortage < 0 {
		shortage = 0
	}

	orderTotalDec := decimal.NewFromInt(orderTotal)
	shortageDec := decimal.NewFromInt(shortage)

	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		ratio := decimal.NewFromInt(item.Quantity).Div(orderTotalDec)
		reduction := shortageDec.Mul(ratio)
		tentative := decimal.NewFromInt(item.Quantity).Sub(reduction).Ceil().IntPart()
		if tentative < 0 {
			tentative = 0
		}
		out.Set(item.SKU, tentative)
	}

	trimToCapacity(&out, onHand)
	return out
}

// trimToCapacity decrements the currently-largest release by one unit,
// repeatedly, until the total fits within capacity. Ties among maxima
// break on smallest SKU (lexicographic), for determinism.
func trimToCapacity(releases *Quantity, capacity int64) {
	for releases.Sum() > capacity {
		var victim SKU
		var maxQty int64 = -1
		found := false
		for _, item := range releases.Items() {
			if item.Quantity <= 0 {
				continue
			}
			if item.Quantity > maxQty || (item.Quantity == maxQty && item.SKU < victim) {
				maxQty = item.Quantity
				victim = item.SKU
				found = true
			}
		}
		if !found {
			return
		}
		releases.Add(victim, -1)
	}
}
