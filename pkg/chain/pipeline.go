package chain

// Pipeline is the ordered sequence of in-transit Receipts belonging to one
// node. Receipts are kept in insertion order; equal-ETA receipts mature in
// that same order.
type Pipeline struct {
	receipts []Receipt
}

// Add appends a receipt to the pipeline.
func (p *Pipeline) Add(r Receipt) {
	p.receipts = append(p.receipts, r)
}

// PopMatured removes and returns every receipt whose ETA has reached zero,
// preserving their relative insertion order.
func (p *Pipeline) PopMatured() []Receipt {
	var matured []Receipt
	remaining := p.receipts[:0:0]
	for _, r := range p.receipts {
		if r.Matured() {
			matured = append(matured, r)
		} else {
			remaining = append(remaining, r)
		}
	}
	p.receipts = remaining
	return matured
}

// Age decrements the ETA of every remaining receipt by one period.
func (p *Pipeline) Age() {
	for i := range p.receipts {
		p.receipts[i].ETA--
	}
}

// SumBySKU totals in-transit quantity per SKU across all remaining
// receipts, regardless of maturity.
func (p *Pipeline) SumBySKU() Quantity {
	out := NewQuantity()
	for _, r := range p.receipts {
		out.Add(r.SKU, r.Quantity)
	}
	return out
}

// Len returns the number of receipts currently in flight.
func (p *Pipeline) Len() int {
	return len(p.receipts)
}

// Receipts returns a copy of the receipts currently in the pipeline, in
// insertion order. Intended for snapshotting/inspection, not mutation.
func (p *Pipeline) Receipts() []Receipt {
	out := make([]Receipt, len(p.receipts))
	copy(out, p.receipts)
	return out
}
