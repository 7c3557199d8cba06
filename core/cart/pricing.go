package cart

// Totals aggregates prices over the selected cart items.
type Totals struct {
	Subtotal int `json:"subtotal"`
	Savings  int `json:"savings"`
	Total    int `json:"total"`
}

// ComputeTotals is pure: it must be recomputed on every cart or selection
// change and never cached across recomputation cycles.
func ComputeTotals(items []Item, selected map[string]bool) Totals {
	var t Totals
	for _, it := range items {
		if !selected[it.ID] {
			continue
		}
		t.Subtotal += it.Price
		t.Savings += it.Savings()
	}
	t.Total = t.Subtotal // no tax/shipping modeled
	return t
}
