package catalog

func ptr(v float64) *float64 { return &v }

// DefaultSpec returns the built-in reference data.
func DefaultSpec() Spec {
	return Spec{
		IncomeBands: []IncomeBand{
			{Name: "B1", Min: 35000, Max: ptr(60000)},
			{Name: "B2", Min: 60000, Max: ptr(80000)},
			{Name: "B3", Min: 80000, Max: ptr(110000)},
			{Name: "B4", Min: 110000, Max: ptr(150000)},
			{Name: "B5", Min: 150000, Max: ptr(200000)},
			{Name: "B6", Min: 200000, Max: ptr(300000)},
			{Name: "B7", Min: 300000},
		},
		HouseholdArchetypes: []HouseholdArchetype{
			{Name: "H1_single", Multiplier: 1.0},
			{Name: "H2_dual_moderate", Multiplier: 1.7},
			{Name: "H3_dual_peer", Multiplier: 2.0},
		},
		RateScenarios: []RateScenario{
			{Label: "FHA_6.15", Rate: 0.0615},
			{Label: "Conv_6.45", Rate: 0.0645},
			{Label: "Alt_5.50", Rate: 0.0550},
			{Label: "Alt_4.50", Rate: 0.0450},
		},
		Products: []Product{
			{Name: "Apartments", Type: ProductRent, MinPrice: 1700, MaxPrice: 4500},
			{Name: "Condos", Type: ProductBuy, MinPrice: 450000, MaxPrice: 650000},
			{Name: "Blackridge", Type: ProductBuy, MinPrice: 620000, MaxPrice: 680000},
			{Name: "Townhouse", Type: ProductBuy, MinPrice: 1100000, MaxPrice: 2100000, EligibleBands: []string{"B6", "B7"}},
		},
		Policy: Policy{
			DTILimit:          0.45,
			TaxInsHOARate:     0.012,
			LoanTermMonths:    360,
			IncomeGrowthRate:  0.04,
			JumboThreshold:    680000,
			BaseDownPayment:   0.035,
			JumboDownPayment:  0.10,
			RentToIncome:      0.35,
			OpenBandIncomeMul: 1.1,
		},
	}
}

// Default builds the built-in catalog. It panics only if the built-in data
// is inconsistent.
func Default() *Catalog {
	c, err := New(DefaultSpec())
	if err != nil {
		panic(err)
	}
	return c
}
