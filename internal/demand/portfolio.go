package demand

import (
	"affordability-engine/internal/catalog"
	"affordability-engine/internal/model"
)

// Portfolio sums per-company demand into one row per year, scenario and
// rate. Percentages are recomputed from the summed counts; averaging the
// per-company percentages would weight small and large companies equally.
func Portfolio(cat *catalog.Catalog, rows []model.DemandRow) []model.DemandRow {
	groups := make(map[groupKey]*accumulator)
	for _, r := range rows {
		key := groupKey{year: r.Year, scenario: r.Scenario, rateLabel: r.RateLabel, rate: r.Rate}
		acc, ok := groups[key]
		if !ok {
			acc = newAccumulator()
			groups[key] = acc
		}
		acc.total += r.TotalHouseholds
		for _, p := range r.Products {
			acc.products[p.Name] += p.Count
		}
	}
	return collect(cat.ProductNames(), groups)
}
