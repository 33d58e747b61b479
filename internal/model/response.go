package model

type CalculationMetadata struct {
	CalculationID          string `json:"calculation_id"`
	CalculationStartedAt   string `json:"calculation_started_at"`
	CalculationCompletedAt string `json:"calculation_completed_at"`
	CalculationDurationMs  int64  `json:"calculation_duration_ms"`
	CalculationOutcome     string `json:"calculation_outcome"`
}

type OverviewResponse struct {
	CalculationMetadata CalculationMetadata `json:"calculation_metadata"`
	Messages            []ValidationMessage `json:"messages"`
	Years               []int               `json:"years"`
	Scenarios           []IncomeScenario    `json:"scenarios"`
	DemandByProduct     []DemandRow         `json:"demand_by_product"`
	SupplyByProduct     []SupplyYear        `json:"supply_by_product"`
}

// CompanyDetail is the full pipeline trace for one company, year and
// scenario.
type CompanyDetail struct {
	CalculationMetadata CalculationMetadata      `json:"calculation_metadata"`
	Messages            []ValidationMessage      `json:"messages"`
	Company             string                   `json:"company"`
	Year                int                      `json:"year"`
	Scenario            IncomeScenario           `json:"scenario"`
	RateLabel           string                   `json:"rate_label,omitempty"`
	HouseholdBandCounts []HouseholdBandCount     `json:"household_band_counts"`
	AffordabilityLookup []AffordabilityLookupRow `json:"affordability_lookup"`
	DemandSummary       []DemandRow              `json:"demand_summary"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)
