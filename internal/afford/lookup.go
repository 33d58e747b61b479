package afford

import (
	"sync"

	"affordability-engine/internal/catalog"
	"affordability-engine/internal/model"
)

// RepresentativeIncome is the band midpoint, or min times the open-band
// multiplier for the open-ended top band.
func RepresentativeIncome(b catalog.IncomeBand, pol catalog.Policy) float64 {
	if b.Open() {
		return b.Min * pol.OpenBandIncomeMul
	}
	return (b.Min + *b.Max) / 2
}

// BuildLookup prices every band against every rate scenario. Rows are
// band-major in catalog order.
func BuildLookup(c *catalog.Catalog) []model.AffordabilityLookupRow {
	pol := c.Policy()
	bands := c.Bands()
	rates := c.Rates()
	products := c.Products()

	rows := make([]model.AffordabilityLookupRow, 0, len(bands)*len(rates))
	for _, band := range bands {
		rep := RepresentativeIncome(band, pol)
		rent := MaxMonthlyRent(rep, pol)

		for _, rs := range rates {
			price, down := FinancedPrice(rep, rs.Rate, pol)

			reachable := []string{}
			for _, p := range products {
				if !p.EligibleFor(band.Name) {
					continue
				}
				switch p.Type {
				case catalog.ProductBuy:
					if price >= p.MinPrice {
						reachable = append(reachable, p.Name)
					}
				case catalog.ProductRent:
					if rent >= p.MinPrice {
						reachable = append(reachable, p.Name)
					}
				}
			}

			rows = append(rows, model.AffordabilityLookupRow{
				IncomeBand:        band.Name,
				RepIncome:         rep,
				RateLabel:         rs.Label,
				Rate:              rs.Rate,
				MaxPrice:          price,
				DownPaymentPct:    down,
				ReachableProducts: reachable,
			})
		}
	}
	return rows
}

var lookupCache sync.Map // *catalog.Catalog -> []model.AffordabilityLookupRow

// CachedLookup returns the lookup for c, building it on first use. Callers
// must treat the returned rows as read-only.
func CachedLookup(c *catalog.Catalog) []model.AffordabilityLookupRow {
	if rows, ok := lookupCache.Load(c); ok {
		return rows.([]model.AffordabilityLookupRow)
	}
	rows, _ := lookupCache.LoadOrStore(c, BuildLookup(c))
	return rows.([]model.AffordabilityLookupRow)
}

// Index groups lookup rows by income band for joining.
func Index(rows []model.AffordabilityLookupRow) map[string][]*model.AffordabilityLookupRow {
	idx := make(map[string][]*model.AffordabilityLookupRow)
	for i := range rows {
		idx[rows[i].IncomeBand] = append(idx[rows[i].IncomeBand], &rows[i])
	}
	return idx
}

// ForRate filters rows to a single rate label.
func ForRate(rows []model.AffordabilityLookupRow, label string) []model.AffordabilityLookupRow {
	out := []model.AffordabilityLookupRow{}
	for _, r := range rows {
		if r.RateLabel == label {
			out = append(out, r)
		}
	}
	return out
}
