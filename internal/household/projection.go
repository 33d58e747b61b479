// Package household turns a company's roles into household counts per
// income band for a target year.
package household

import (
	"math"
	"sort"

	"affordability-engine/internal/model"
)

// HeadcountForYear projects a company's employee count for year from its
// projection anchors, holding flat outside the anchor range and
// interpolating linearly inside it. Without anchors, or without a base
// headcount, the base headcount (0 if absent) is returned.
func HeadcountForYear(c *model.Company, year int) float64 {
	if len(c.ProjectionYears) == 0 || c.EmployeeCount == nil {
		return c.BaseHeadcount()
	}

	anchors := append([]model.ProjectionAnchor(nil), c.ProjectionYears...)
	sort.SliceStable(anchors, func(i, j int) bool {
		return anchors[i].Year < anchors[j].Year
	})

	first, last := anchors[0], anchors[len(anchors)-1]
	if year <= first.Year {
		return first.EmployeeCount
	}
	if year >= last.Year {
		return last.EmployeeCount
	}

	for i := 0; i < len(anchors)-1; i++ {
		a, b := anchors[i], anchors[i+1]
		if year < a.Year || year > b.Year {
			continue
		}
		if a.Year == b.Year {
			return a.EmployeeCount
		}
		t := float64(year-a.Year) / float64(b.Year-a.Year)
		return a.EmployeeCount + t*(b.EmployeeCount-a.EmployeeCount)
	}
	return c.BaseHeadcount()
}

// ApplyGrowth compounds income at rate for the given number of years.
// Non-positive years leave income unchanged.
func ApplyGrowth(income float64, years int, rate float64) float64 {
	if years <= 0 {
		return income
	}
	return income * math.Pow(1+rate, float64(years))
}

// YearsAfterBase is the clamped number of years between the company's base
// year and year. A company without a base year never grows.
func YearsAfterBase(c *model.Company, year int) int {
	if c.BaseYear == 0 || year <= c.BaseYear {
		return 0
	}
	return year - c.BaseYear
}

// HeadcountScale is projected over base headcount, or 1 when the base is
// zero or absent.
func HeadcountScale(c *model.Company, year int) float64 {
	base := c.BaseHeadcount()
	if base == 0 {
		return 1
	}
	return HeadcountForYear(c, year) / base
}
