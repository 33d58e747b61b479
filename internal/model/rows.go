package model

type AffordabilityLookupRow struct {
	IncomeBand        string   `json:"income_band"`
	RepIncome         float64  `json:"rep_income"`
	RateLabel         string   `json:"rate_label"`
	Rate              float64  `json:"rate"`
	MaxPrice          float64  `json:"max_price"`
	DownPaymentPct    float64  `json:"down_payment_pct"`
	ReachableProducts []string `json:"reachable_products"`
}

type HouseholdBandCount struct {
	Company        string         `json:"company"`
	Year           int            `json:"year"`
	Scenario       IncomeScenario `json:"scenario"`
	IncomeBand     string         `json:"income_band"`
	HouseholdCount float64        `json:"household_count"`
}

// DemandRow is product demand for one rate scenario. Company is empty for
// portfolio rows.
type DemandRow struct {
	Company         string          `json:"company,omitempty"`
	Year            int             `json:"year"`
	Scenario        IncomeScenario  `json:"scenario"`
	RateLabel       string          `json:"rate_label"`
	Rate            float64         `json:"rate"`
	TotalHouseholds float64         `json:"total_households"`
	Products        []ProductDemand `json:"products"`
}

// Product returns the demand entry for name, or nil.
func (r *DemandRow) Product(name string) *ProductDemand {
	for i := range r.Products {
		if r.Products[i].Name == name {
			return &r.Products[i]
		}
	}
	return nil
}

type ProductDemand struct {
	Name       string  `json:"name"`
	Count      float64 `json:"count"`
	Percentage float64 `json:"percentage"`
}

type SupplyProduct struct {
	Name              string `json:"name"`
	Units             int    `json:"units"`
	FirstDeliveryYear int    `json:"first_delivery_year"`
}

type SupplyConfig struct {
	Products []SupplyProduct `json:"products"`
}

type SupplyRow struct {
	Product     string `json:"product"`
	Year        int    `json:"year"`
	SupplyUnits int    `json:"supply_units"`
}

type SupplyYear struct {
	Year  int            `json:"year"`
	Units map[string]int `json:"units"`
}
