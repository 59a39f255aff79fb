package wealthlens

import "sort"

// buildAllocation computes the point-in-time value and return of each
// filtered holding from the latest available prices. A holding without
// a live price falls back to its average cost, so a newly added
// position still shows up at cost basis.
func buildAllocation(holdings []Holding, latest map[string]float64) *Allocation {
	if len(holdings) == 0 {
		return nil
	}

	alloc := &Allocation{}
	sectorTotals := map[string]float64{}
	assetTypeTotals := map[string]float64{}

	for _, h := range holdings {
		sym := normalizeSymbol(h.Symbol)
		price, ok := latest[sym]
		if !ok || price <= 0 {
			price = h.AvgPrice
		}
		value := h.Quantity * price

		returnPct := 0.0
		if h.AvgPrice > 0 {
			returnPct = round2((price - h.AvgPrice) / h.AvgPrice * 100)
		}

		sector := h.Sector
		if sector == "" {
			sector = "Other"
		}
		assetType := normalizeAssetType(h.AssetType)
		if assetType == "" {
			assetType = "stock"
		}

		alloc.Rows = append(alloc.Rows, AllocationRow{
			Symbol:    sym,
			Sector:    sector,
			AssetType: assetType,
			Quantity:  h.Quantity,
			AvgPrice:  h.AvgPrice,
			Price:     price,
			Value:     round2(value),
			ReturnPct: returnPct,
		})

		// Non-positive values stay in the rows but are excluded from
		// the composition breakdowns.
		if value > 0 {
			alloc.TotalValue += value
			sectorTotals[sector] += value
			assetTypeTotals[assetType] += value
		}
	}
	alloc.TotalValue = round2(alloc.TotalValue)

	sort.Slice(alloc.Rows, func(i, j int) bool {
		return alloc.Rows[i].Value > alloc.Rows[j].Value
	})
	alloc.BySector = compositionSlices(sectorTotals, alloc.TotalValue)
	alloc.ByAssetType = compositionSlices(assetTypeTotals, alloc.TotalValue)
	return alloc
}

func compositionSlices(totals map[string]float64, grandTotal float64) []AllocationSlice {
	slices := make([]AllocationSlice, 0, len(totals))
	for label, value := range totals {
		percent := 0.0
		if grandTotal > 0 {
			percent = round2(value / grandTotal * 100)
		}
		slices = append(slices, AllocationSlice{
			Label:   label,
			Value:   round2(value),
			Percent: percent,
		})
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Value != slices[j].Value {
			return slices[i].Value > slices[j].Value
		}
		return slices[i].Label < slices[j].Label
	})
	return slices
}

// GetAllocation returns the allocation snapshot of the stored ledger
// for the given selection, priced from stored latest quotes. The nil
// result with nil error means no holdings matched.
func (c *Core) GetAllocation(selection Selection) (*Allocation, error) {
	holdings, err := c.GetHoldings()
	if err != nil {
		return nil, err
	}
	latest, err := c.latestPriceMap()
	if err != nil {
		return nil, err
	}
	return buildAllocation(selection.filterHoldings(holdings), latest), nil
}
