package household

import (
	"errors"
	"fmt"
	"sort"

	"affordability-engine/internal/catalog"
	"affordability-engine/internal/model"
)

var ErrUnknownScenario = errors.New("unknown income scenario")

// BandCounts expands every role into households per archetype, grows their
// income to year, classifies it and sums household counts per band. Bands
// without households are omitted. Rows follow catalog band order with
// Unknown last.
func BandCounts(cat *catalog.Catalog, c *model.Company, year int, scenario model.IncomeScenario) ([]model.HouseholdBandCount, error) {
	if !scenario.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, scenario)
	}

	pol := cat.Policy()
	years := YearsAfterBase(c, year)
	scale := HeadcountScale(c, year)

	totals := make(map[string]float64)
	for _, role := range c.Roles {
		grown := ApplyGrowth(scenario.Income(role), years, pol.IncomeGrowthRate)
		effective := role.Count * scale

		for _, arch := range cat.Archetypes() {
			share := role.HouseholdSplit[arch.Name]
			if share <= 0 {
				continue
			}
			band := cat.ClassifyIncome(grown * arch.Multiplier)
			totals[band] += effective * share
		}
	}

	rows := make([]model.HouseholdBandCount, 0, len(totals))
	for band, count := range totals {
		rows = append(rows, model.HouseholdBandCount{
			Company:        c.Name,
			Year:           year,
			Scenario:       scenario,
			IncomeBand:     band,
			HouseholdCount: count,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return cat.BandOrder(rows[i].IncomeBand) < cat.BandOrder(rows[j].IncomeBand)
	})
	return rows, nil
}
