// Package catalog holds the static reference data of the affordability model:
// income bands, household archetypes, rate scenarios, housing products and the
// lending policy constants. A Catalog is built once and never mutated.
package catalog

import (
	"fmt"
	"math"
)

// UnknownBand is returned by ClassifyIncome for incomes below the lowest band.
const UnknownBand = "Unknown"

type ProductType string

const (
	ProductBuy  ProductType = "Buy"
	ProductRent ProductType = "Rent"
)

// IncomeBand covers [Min, Max). A nil Max marks the open-ended top band.
type IncomeBand struct {
	Name string   `yaml:"name" json:"name"`
	Min  float64  `yaml:"min" json:"min"`
	Max  *float64 `yaml:"max" json:"max"`
}

func (b IncomeBand) Open() bool { return b.Max == nil }

// Contains reports whether income falls inside the band.
func (b IncomeBand) Contains(income float64) bool {
	if b.Max == nil {
		return income >= b.Min
	}
	return income >= b.Min && income < *b.Max
}

type HouseholdArchetype struct {
	Name       string  `yaml:"name" json:"name"`
	Multiplier float64 `yaml:"multiplier" json:"multiplier"`
}

type RateScenario struct {
	Label string  `yaml:"label" json:"label"`
	Rate  float64 `yaml:"rate" json:"rate"`
}

// Product is a housing product. For Buy products the price range is a
// purchase price; for Rent products it is a monthly rent.
type Product struct {
	Name     string      `yaml:"name" json:"name"`
	Type     ProductType `yaml:"type" json:"type"`
	MinPrice float64     `yaml:"min_price" json:"min_price"`
	MaxPrice float64     `yaml:"max_price" json:"max_price"`
	// EligibleBands restricts the product to the named income bands
	// regardless of price. Empty means every band.
	EligibleBands []string `yaml:"eligible_bands,omitempty" json:"eligible_bands,omitempty"`
}

func (p Product) EligibleFor(band string) bool {
	if len(p.EligibleBands) == 0 {
		return true
	}
	for _, b := range p.EligibleBands {
		if b == band {
			return true
		}
	}
	return false
}

// Policy groups the lending and projection constants.
type Policy struct {
	DTILimit          float64 `yaml:"dti_limit" json:"dti_limit"`
	TaxInsHOARate     float64 `yaml:"tax_ins_hoa_rate" json:"tax_ins_hoa_rate"`
	LoanTermMonths    int     `yaml:"loan_term_months" json:"loan_term_months"`
	IncomeGrowthRate  float64 `yaml:"income_growth_rate" json:"income_growth_rate"`
	JumboThreshold    float64 `yaml:"jumbo_threshold" json:"jumbo_threshold"`
	BaseDownPayment   float64 `yaml:"base_down_payment" json:"base_down_payment"`
	JumboDownPayment  float64 `yaml:"jumbo_down_payment" json:"jumbo_down_payment"`
	RentToIncome      float64 `yaml:"rent_to_income" json:"rent_to_income"`
	OpenBandIncomeMul float64 `yaml:"open_band_income_multiplier" json:"open_band_income_multiplier"`
}

// Spec is the mutable description a Catalog is built from.
type Spec struct {
	IncomeBands         []IncomeBand         `yaml:"income_bands" json:"income_bands"`
	HouseholdArchetypes []HouseholdArchetype `yaml:"household_archetypes" json:"household_archetypes"`
	RateScenarios       []RateScenario       `yaml:"rate_scenarios" json:"rate_scenarios"`
	Products            []Product            `yaml:"products" json:"products"`
	Policy              Policy               `yaml:"policy" json:"policy"`
}

type Catalog struct {
	bands      []IncomeBand
	archetypes []HouseholdArchetype
	rates      []RateScenario
	products   []Product
	policy     Policy
	bandIndex  map[string]int
}

// New validates spec and freezes a deep copy of it.
func New(spec Spec) (*Catalog, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	c := &Catalog{
		bands:      make([]IncomeBand, len(spec.IncomeBands)),
		archetypes: append([]HouseholdArchetype(nil), spec.HouseholdArchetypes...),
		rates:      append([]RateScenario(nil), spec.RateScenarios...),
		products:   make([]Product, len(spec.Products)),
		policy:     spec.Policy,
		bandIndex:  make(map[string]int, len(spec.IncomeBands)),
	}
	for i, b := range spec.IncomeBands {
		if b.Max != nil {
			max := *b.Max
			b.Max = &max
		}
		c.bands[i] = b
		c.bandIndex[b.Name] = i
	}
	for i, p := range spec.Products {
		p.EligibleBands = append([]string(nil), p.EligibleBands...)
		c.products[i] = p
	}
	return c, nil
}

func (c *Catalog) Bands() []IncomeBand {
	out := make([]IncomeBand, len(c.bands))
	for i, b := range c.bands {
		if b.Max != nil {
			max := *b.Max
			b.Max = &max
		}
		out[i] = b
	}
	return out
}

func (c *Catalog) Archetypes() []HouseholdArchetype {
	return append([]HouseholdArchetype(nil), c.archetypes...)
}

func (c *Catalog) Rates() []RateScenario {
	return append([]RateScenario(nil), c.rates...)
}

func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	for i, p := range c.products {
		p.EligibleBands = append([]string(nil), p.EligibleBands...)
		out[i] = p
	}
	return out
}

func (c *Catalog) ProductNames() []string {
	names := make([]string, len(c.products))
	for i, p := range c.products {
		names[i] = p.Name
	}
	return names
}

func (c *Catalog) Policy() Policy { return c.policy }

// ClassifyIncome returns the name of the first band containing income, or
// UnknownBand.
func (c *Catalog) ClassifyIncome(income float64) string {
	for _, b := range c.bands {
		if b.Contains(income) {
			return b.Name
		}
	}
	return UnknownBand
}

// BandOrder gives the position of a band in the catalog. Unknown bands sort
// after every known one.
func (c *Catalog) BandOrder(name string) int {
	if i, ok := c.bandIndex[name]; ok {
		return i
	}
	return len(c.bands)
}

func (s Spec) validate() error {
	if len(s.IncomeBands) == 0 {
		return fmt.Errorf("catalog: at least one income band is required")
	}
	seen := make(map[string]bool, len(s.IncomeBands))
	for i, b := range s.IncomeBands {
		if b.Name == "" || b.Name == UnknownBand {
			return fmt.Errorf("catalog: income band %d has invalid name %q", i, b.Name)
		}
		if seen[b.Name] {
			return fmt.Errorf("catalog: duplicate income band %q", b.Name)
		}
		seen[b.Name] = true
		if b.Min < 0 || math.IsNaN(b.Min) || math.IsInf(b.Min, 0) {
			return fmt.Errorf("catalog: income band %q has invalid min %v", b.Name, b.Min)
		}
		if b.Max == nil {
			if i != len(s.IncomeBands)-1 {
				return fmt.Errorf("catalog: only the last income band may be open-ended, got %q", b.Name)
			}
			continue
		}
		if *b.Max <= b.Min {
			return fmt.Errorf("catalog: income band %q max %v must exceed min %v", b.Name, *b.Max, b.Min)
		}
		if i+1 < len(s.IncomeBands) && s.IncomeBands[i+1].Min < *b.Max {
			return fmt.Errorf("catalog: income bands %q and %q overlap", b.Name, s.IncomeBands[i+1].Name)
		}
	}

	for _, a := range s.HouseholdArchetypes {
		if a.Name == "" || a.Multiplier <= 0 {
			return fmt.Errorf("catalog: invalid household archetype %q (multiplier %v)", a.Name, a.Multiplier)
		}
	}

	labels := make(map[string]bool, len(s.RateScenarios))
	for _, r := range s.RateScenarios {
		if r.Label == "" || labels[r.Label] {
			return fmt.Errorf("catalog: rate scenario label %q is empty or duplicated", r.Label)
		}
		labels[r.Label] = true
		if r.Rate <= 0 {
			return fmt.Errorf("catalog: rate scenario %q must have a positive rate, got %v", r.Label, r.Rate)
		}
	}

	names := make(map[string]bool, len(s.Products))
	for _, p := range s.Products {
		if p.Name == "" || names[p.Name] {
			return fmt.Errorf("catalog: product name %q is empty or duplicated", p.Name)
		}
		names[p.Name] = true
		if p.Type != ProductBuy && p.Type != ProductRent {
			return fmt.Errorf("catalog: product %q has unknown type %q", p.Name, p.Type)
		}
		for _, band := range p.EligibleBands {
			if !seen[band] {
				return fmt.Errorf("catalog: product %q references unknown income band %q", p.Name, band)
			}
		}
	}

	pol := s.Policy
	switch {
	case pol.DTILimit <= 0 || pol.DTILimit > 1:
		return fmt.Errorf("catalog: dti_limit must be in (0,1], got %v", pol.DTILimit)
	case pol.LoanTermMonths <= 0:
		return fmt.Errorf("catalog: loan_term_months must be positive, got %d", pol.LoanTermMonths)
	case pol.BaseDownPayment < 0 || pol.BaseDownPayment >= 1:
		return fmt.Errorf("catalog: base_down_payment must be in [0,1), got %v", pol.BaseDownPayment)
	case pol.JumboDownPayment < 0 || pol.JumboDownPayment >= 1:
		return fmt.Errorf("catalog: jumbo_down_payment must be in [0,1), got %v", pol.JumboDownPayment)
	case pol.TaxInsHOARate < 0:
		return fmt.Errorf("catalog: tax_ins_hoa_rate must be non-negative, got %v", pol.TaxInsHOARate)
	}
	return nil
}
