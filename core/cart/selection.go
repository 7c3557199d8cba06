package cart

// reconcileSelection recomputes the checkout selection after a cart change:
// ids still in the cart keep their prior selection state, ids that just
// appeared are selected by default, ids gone from the cart are dropped.
func reconcileSelection(prev map[string]bool, prevIDs, currIDs []string) map[string]bool {
	known := make(map[string]bool, len(prevIDs))
	for _, id := range prevIDs {
		known[id] = true
	}

	next := make(map[string]bool, len(currIDs))
	for _, id := range currIDs {
		if known[id] {
			if prev[id] {
				next[id] = true // retained
			}
		} else {
			next[id] = true // genuinely new, selected by default
		}
	}
	return next
}
