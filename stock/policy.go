package stock

import "sort"

// DepletionPolicy names the order in which batches absorb an undifferentiated
// decrement. The original UI offered no lot selection for +/- adjustments and
// depleted the most recently added batch first; that behavior is kept as the
// default, with an earliest-expiry-first (FEFO) alternative for callers that
// want conventional inventory accounting.
type DepletionPolicy string

const (
	// LastBatchFirst walks the batch list from the end backward.
	LastBatchFirst DepletionPolicy = "last_batch_first"
	// EarliestExpiryFirst depletes the soonest-expiring batch first; batches
	// without an expiry go last, in reverse insertion order.
	EarliestExpiryFirst DepletionPolicy = "earliest_expiry_first"
)

// DefaultDepletionPolicy matches the original application's behavior.
const DefaultDepletionPolicy = LastBatchFirst

// Valid reports whether p is a known policy.
func (p DepletionPolicy) Valid() bool {
	switch p {
	case LastBatchFirst, EarliestExpiryFirst:
		return true
	}
	return false
}

// order returns batch indexes in depletion order. Unknown policies fall back
// to LastBatchFirst.
func (p DepletionPolicy) order(batches []Batch) []int {
	idx := make([]int, len(batches))
	for i := range batches {
		idx[i] = len(batches) - 1 - i
	}
	if p != EarliestExpiryFirst {
		return idx
	}

	sort.SliceStable(idx, func(a, b int) bool {
		ta := parseExpiry(expiryKey(batches[idx[a]].ExpiryDate))
		tb := parseExpiry(expiryKey(batches[idx[b]].ExpiryDate))
		if ta.IsZero() || tb.IsZero() {
			// Dated batches deplete before undated ones.
			return !ta.IsZero() && tb.IsZero()
		}
		return ta.Before(tb)
	})
	return idx
}
