// Package chain implements a multi-echelon, discrete-period supply chain
// simulator: a graph of SKU nodes connected by bill-of-materials edges,
// stepped period by period under pluggable control and release policies.
package chain

// SKU is an opaque stock-keeping unit identifier, unique within a chain.
type SKU string

// Quantity is a mapping from SKU to a nonnegative integer amount. A
// missing key is equivalent to zero; callers may still set explicit zero
// entries. Iteration order follows insertion order so output stays
// reproducible across runs of the same scenario.
type Quantity struct {
	order  []SKU
	values map[SKU]int64
}

// NewQuantity returns an empty quantity map.
func NewQuantity() Quantity {
	return Quantity{values: make(map[SKU]int64)}
}

// Get returns the quantity for sku, defaulting to zero.
func (q Quantity) Get(sku SKU) int64 {
	if q.values == nil {
		return 0
	}
	return q.values[sku]
}

// Set assigns v to sku, recording insertion order on first write.
func (q *Quantity) Set(sku SKU, v int64) {
	if q.values == nil {
		q.values = make(map[SKU]int64)
	}
	if _, exists := q.values[sku]; !exists {
		q.order = append(q.order, sku)
	}
	q.values[sku] = v
}

// Add increments sku's quantity by delta (delta may be negative).
func (q *Quantity) Add(sku SKU, delta int64) {
	q.Set(sku, q.Get(sku)+delta)
}

// Sum returns the total across all SKUs.
func (q Quantity) Sum() int64 {
	var total int64
	for _, sku := range q.order {
		total += q.values[sku]
	}
	return total
}

// Scale returns a new Quantity with every entry multiplied by factor.
func (q Quantity) Scale(factor int64) Quantity {
	out := NewQuantity()
	for _, sku := range q.order {
		out.Set(sku, q.values[sku]*factor)
	}
	return out
}

// Plus returns the elementwise sum of q and other.
func (q Quantity) Plus(other Quantity) Quantity {
	out := NewQuantity()
	for _, sku := range q.order {
		out.Set(sku, q.values[sku])
	}
	for _, sku := range other.order {
		out.Add(sku, other.values[sku])
	}
	return out
}

// Minus returns the elementwise difference q - other, clamped at zero per
// SKU: negative results are not representable in a Quantity map.
func (q Quantity) Minus(other Quantity) Quantity {
	out := NewQuantity()
	for _, sku := range q.order {
		out.Set(sku, q.values[sku])
	}
	for _, sku := range other.order {
		v := out.Get(sku) - other.values[sku]
		if v < 0 {
			v = 0
		}
		out.Set(sku, v)
	}
	return out
}

// Items returns (sku, quantity) pairs in insertion order.
func (q Quantity) Items() []QuantityItem {
	items := make([]QuantityItem, 0, len(q.order))
	for _, sku := range q.order {
		items = append(items, QuantityItem{SKU: sku, Quantity: q.values[sku]})
	}
	return items
}

// QuantityItem is one (sku, quantity) pair from a Quantity map.
type QuantityItem struct {
	SKU      SKU
	Quantity int64
}

// Receipt is an in-transit shipment. ETA counts down to zero as periods
// age; a receipt's SKU may differ from the owning node's own SKU (it is
// polymorphic — a node's pipeline may carry receipts of component SKUs
// deposited directly into that component's stock entry).
type Receipt struct {
	ID       string
	SKU      SKU
	ETA      int
	Quantity int64
}

// Matured reports whether the receipt has arrived (ETA has reached zero).
func (r Receipt) Matured() bool {
	return r.ETA <= 0
}
