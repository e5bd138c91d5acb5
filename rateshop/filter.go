package rateshop

import (
	"sort"

	"github.com/hupe1980/shipmesh/core"
)

// filterAndSort applies the caller's constraints to the raw quotes and sorts
// the survivors. Pure function, no I/O: inject pre-fetched quotes in tests.
//
// Rules:
//   - zero-charge quotes are always dropped (provider code for "not offered")
//   - MaxPrice > 0 drops quotes charging more
//   - DurationThresholdDays > 0 drops quotes whose MaxDeliveryDays fail the
//     operator comparison
//   - survivors sort by ascending charge, ties by MaxDeliveryDays then
//     carrier name for determinism
func filterAndSort(quotes []core.RateQuote, filter core.RateFilter) []core.RateQuote {
	kept := make([]core.RateQuote, 0, len(quotes))
	for _, q := range quotes {
		if !keep(q, filter) {
			continue
		}
		kept = append(kept, q)
	}

	sort.Slice(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.TotalCharge != b.TotalCharge {
			return a.TotalCharge < b.TotalCharge
		}
		if a.MaxDeliveryDays != b.MaxDeliveryDays {
			return a.MaxDeliveryDays < b.MaxDeliveryDays
		}
		return a.Carrier < b.Carrier
	})

	return kept
}

func keep(q core.RateQuote, filter core.RateFilter) bool {
	if q.TotalCharge == 0 {
		return false
	}
	if filter.MaxPrice > 0 && q.TotalCharge > filter.MaxPrice {
		return false
	}
	if filter.DurationThresholdDays > 0 {
		switch filter.DurationOperator {
		case core.DurationLessThan:
			return q.MaxDeliveryDays < filter.DurationThresholdDays
		default:
			return q.MaxDeliveryDays <= filter.DurationThresholdDays
		}
	}
	return true
}
