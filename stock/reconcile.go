package stock

import "github.com/shopspring/decimal"

// Summarize recomputes the aggregate view of a batch list: total quantity,
// quantity-weighted average unit price and the earliest non-nil expiry. An
// empty list yields {0, 0, nil}.
func Summarize(batches []Batch) Summary {
	total := 0
	value := decimal.Zero
	for _, b := range batches {
		total += b.Qty
		value = value.Add(b.UnitPrice.Mul(decimal.NewFromInt(int64(b.Qty))))
	}

	avg := decimal.Zero
	if total > 0 {
		avg = value.Div(decimal.NewFromInt(int64(total)))
	}

	return Summary{TotalQty: total, AvgPrice: avg, EarliestExpiry: earliestExpiry(batches)}
}

func earliestExpiry(batches []Batch) *string {
	var earliest *string
	var earliestAt int64
	for _, b := range batches {
		key := expiryKey(b.ExpiryDate)
		if key == nil {
			continue
		}
		at := parseExpiry(key)
		if at.IsZero() {
			continue
		}
		if earliest == nil || at.Unix() < earliestAt {
			earliest = key
			earliestAt = at.Unix()
		}
	}
	if earliest == nil {
		return nil
	}
	formatted := parseExpiry(earliest).Format(DateLayout)
	return &formatted
}

// Normalize returns a copy of item where Batches is authoritative. Legacy
// items without a batch list get a single batch synthesized from the flat
// quantity/price/expiry fields; items that already carry batches have those
// deep-copied and the flat fields recomputed from them, so stale flat values
// are reconciled to the batch-level truth.
func Normalize(item Item) Item {
	out := item
	if len(item.Batches) == 0 {
		out.Batches = []Batch{}
		if item.Quantity > 0 {
			out.Batches = append(out.Batches, Batch{
				Qty:        item.Quantity,
				UnitPrice:  item.Price,
				ExpiryDate: expiryKey(item.ExpiryDate),
			})
		}
		out.ExpiryDate = expiryKey(item.ExpiryDate)
		return out
	}

	out.Batches = cloneBatches(item.Batches)
	return applySummary(out)
}

func applySummary(item Item) Item {
	s := Summarize(item.Batches)
	item.Quantity = s.TotalQty
	item.Price = s.AvgPrice
	item.ExpiryDate = s.EarliestExpiry
	return item
}

// MergeReceipt applies a stock receipt to an item. The receipt folds into the
// existing batch with the same expiry key (nil included), averaging the unit
// price by quantity; a receipt with an unseen expiry appends a new batch.
// A zero-quantity receipt only normalizes the item.
func MergeReceipt(item Item, qty int, unitPrice decimal.Decimal, expiry *string) Item {
	out := Normalize(item)
	if qty <= 0 {
		return out
	}

	key := expiryKey(expiry)
	for i, b := range out.Batches {
		if !sameExpiry(b.ExpiryDate, key) {
			continue
		}
		newQty := b.Qty + qty
		newPrice := unitPrice
		if newQty > 0 {
			existing := b.UnitPrice.Mul(decimal.NewFromInt(int64(b.Qty)))
			incoming := unitPrice.Mul(decimal.NewFromInt(int64(qty)))
			newPrice = existing.Add(incoming).Div(decimal.NewFromInt(int64(newQty)))
		}
		out.Batches[i] = Batch{Qty: newQty, UnitPrice: newPrice, ExpiryDate: key}
		return applySummary(out)
	}

	out.Batches = append(out.Batches, Batch{Qty: qty, UnitPrice: unitPrice, ExpiryDate: key})
	return applySummary(out)
}

// ApplyDelta adjusts an item's quantity without naming a batch. Increments
// extend the last batch (creating one from the current average price and
// expiry rollup when the list is empty). Decrements are resolved against the
// batch list by the default depletion policy, clamped so no batch goes
// negative; exhausted batches are pruned.
func ApplyDelta(item Item, delta int) Item {
	return ApplyDeltaWithPolicy(item, delta, DefaultDepletionPolicy)
}

// ApplyDeltaWithPolicy is ApplyDelta with an explicit depletion policy for
// decrements.
func ApplyDeltaWithPolicy(item Item, delta int, policy DepletionPolicy) Item {
	out := Normalize(item)
	switch {
	case delta > 0:
		if len(out.Batches) == 0 {
			out.Batches = append(out.Batches, Batch{
				Qty:        delta,
				UnitPrice:  out.Price,
				ExpiryDate: expiryKey(out.ExpiryDate),
			})
			break
		}
		last := len(out.Batches) - 1
		out.Batches[last].Qty += delta
	case delta < 0:
		remaining := -delta
		for _, i := range policy.order(out.Batches) {
			if remaining == 0 {
				break
			}
			take := out.Batches[i].Qty
			if take > remaining {
				take = remaining
			}
			out.Batches[i].Qty -= take
			remaining -= take
		}
	}

	out.Batches = pruneExhausted(out.Batches)
	return applySummary(out)
}

// ApplyBatchDelta adjusts exactly one batch by index. An out-of-range index is
// a defensive no-op: the item is returned normalized but otherwise unchanged.
func ApplyBatchDelta(item Item, batchIndex, delta int) Item {
	out := Normalize(item)
	if batchIndex < 0 || batchIndex >= len(out.Batches) {
		return out
	}

	b := &out.Batches[batchIndex]
	b.Qty += delta
	if b.Qty < 0 {
		b.Qty = 0
	}

	out.Batches = pruneExhausted(out.Batches)
	return applySummary(out)
}

func pruneExhausted(batches []Batch) []Batch {
	kept := batches[:0]
	for _, b := range batches {
		if b.Qty > 0 {
			kept = append(kept, b)
		}
	}
	return kept
}
