// Package demand joins household band counts with the affordability lookup
// and rolls the result up into product demand.
package demand

import (
	"sort"

	"affordability-engine/internal/afford"
	"affordability-engine/internal/catalog"
	"affordability-engine/internal/model"
)

type groupKey struct {
	company   string
	year      int
	scenario  model.IncomeScenario
	rateLabel string
	rate      float64
}

type accumulator struct {
	total    float64
	products map[string]float64
}

func newAccumulator() *accumulator {
	return &accumulator{products: make(map[string]float64)}
}

// Summarize left-joins band counts to the lookup on income band and sums
// households per rate scenario. A band counts toward every product it
// reaches, so product counts are not mutually exclusive. Bands absent from
// the lookup (such as Unknown) join no rate and are left out entirely.
func Summarize(cat *catalog.Catalog, counts []model.HouseholdBandCount, lookup []model.AffordabilityLookupRow) []model.DemandRow {
	if len(counts) == 0 {
		return []model.DemandRow{}
	}

	byBand := afford.Index(lookup)
	groups := make(map[groupKey]*accumulator)

	for _, hc := range counts {
		for _, lr := range byBand[hc.IncomeBand] {
			key := groupKey{hc.Company, hc.Year, hc.Scenario, lr.RateLabel, lr.Rate}
			acc, ok := groups[key]
			if !ok {
				acc = newAccumulator()
				groups[key] = acc
			}
			acc.total += hc.HouseholdCount
			for _, p := range lr.ReachableProducts {
				acc.products[p] += hc.HouseholdCount
			}
		}
	}

	return collect(cat.ProductNames(), groups)
}

func collect(products []string, groups map[groupKey]*accumulator) []model.DemandRow {
	rows := make([]model.DemandRow, 0, len(groups))
	for key, acc := range groups {
		row := model.DemandRow{
			Company:         key.company,
			Year:            key.year,
			Scenario:        key.scenario,
			RateLabel:       key.rateLabel,
			Rate:            key.rate,
			TotalHouseholds: acc.total,
			Products:        make([]model.ProductDemand, len(products)),
		}
		for i, name := range products {
			row.Products[i] = model.ProductDemand{
				Name:       name,
				Count:      acc.products[name],
				Percentage: Percent(acc.products[name], acc.total),
			}
		}
		rows = append(rows, row)
	}
	sortRows(rows)
	return rows
}

func sortRows(rows []model.DemandRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Company != b.Company {
			return a.Company < b.Company
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Scenario != b.Scenario {
			return a.Scenario < b.Scenario
		}
		if a.RateLabel != b.RateLabel {
			return a.RateLabel < b.RateLabel
		}
		return a.Rate < b.Rate
	})
}
