package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"affordability-engine/internal/catalog"
	"affordability-engine/internal/household"
	"affordability-engine/internal/model"
)

const acmeJSON = `{
	"name": "Acme",
	"base_year": 2025,
	"employee_count": 100,
	"projection_years": [{"year": 2025, "employee_count": 100}, {"year": 2027, "employee_count": 200}],
	"roles": [{
		"title": "AE",
		"count": 100,
		"base_salary": 55000,
		"ote": 130000,
		"is_entry_level": false,
		"segment_type": "sales",
		"household_split": {"H1_single": 0.3, "H2_dual_moderate": 0.5, "H3_dual_peer": 0.2}
	}]
}`

const smallJSON = `{
	"name": "Small",
	"base_year": 2025,
	"employee_count": 10,
	"roles": [{
		"title": "SDR",
		"count": 10,
		"base_salary": 40000,
		"ote": 55000,
		"is_entry_level": true,
		"segment_type": "sales",
		"household_split": {"H1_single": 0.3, "H2_dual_moderate": 0.5, "H3_dual_peer": 0.2}
	}]
}`

func raws(docs ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(docs))
	for i, d := range docs {
		out[i] = json.RawMessage(d)
	}
	return out
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	return New(catalog.Default(), t.TempDir(), "")
}

func assertMetadata(t *testing.T, md model.CalculationMetadata, outcome string) {
	t.Helper()
	_, err := uuid.Parse(md.CalculationID)
	assert.NoError(t, err, "calculation id should be a uuid")
	assert.NotEmpty(t, md.CalculationStartedAt)
	assert.NotEmpty(t, md.CalculationCompletedAt)
	assert.GreaterOrEqual(t, md.CalculationDurationMs, int64(0))
	assert.Equal(t, outcome, md.CalculationOutcome)
}

func TestOverviewSingleCompany(t *testing.T) {
	e := newEngine(t)
	resp, err := e.Overview(&model.OverviewRequest{
		Years:     []int{2025},
		Scenarios: []model.IncomeScenario{model.ScenarioFull},
		Companies: raws(acmeJSON),
		Supply: json.RawMessage(`{"products": [
			{"name": "Condos", "units": 120, "first_delivery_year": 2025},
			{"name": "Townhouse", "units": 40, "first_delivery_year": 2027}
		]}`),
	})
	require.NoError(t, err)
	assertMetadata(t, resp.CalculationMetadata, model.OutcomeSuccess)
	assert.Empty(t, resp.Messages)

	require.Len(t, resp.DemandByProduct, 4)
	for _, r := range resp.DemandByProduct {
		assert.Empty(t, r.Company, "portfolio rows carry no company")
		assert.Equal(t, 2025, r.Year)
		assert.InDelta(t, 100.0, r.TotalHouseholds, 1e-9)
		assert.Equal(t, 70.0, r.Product("Townhouse").Percentage)
		assert.Equal(t, 100.0, r.Product("Condos").Percentage)
	}

	require.Len(t, resp.SupplyByProduct, 1)
	assert.Equal(t, map[string]int{"Condos": 120, "Townhouse": 0}, resp.SupplyByProduct[0].Units)
}

func TestOverviewPortfolioWeightsByHouseholds(t *testing.T) {
	e := newEngine(t)
	resp, err := e.Overview(&model.OverviewRequest{
		Years:     []int{2025},
		Scenarios: []model.IncomeScenario{model.ScenarioFull},
		Companies: raws(acmeJSON, smallJSON),
	})
	require.NoError(t, err)
	require.Len(t, resp.DemandByProduct, 4)

	for _, r := range resp.DemandByProduct {
		assert.InDelta(t, 110.0, r.TotalHouseholds, 1e-9)
		assert.Equal(t, 63.6, r.Product("Townhouse").Percentage)
	}
	assert.Empty(t, resp.SupplyByProduct)
}

func TestOverviewYearsAndScenarios(t *testing.T) {
	e := newEngine(t)
	resp, err := e.Overview(&model.OverviewRequest{
		Years:     []int{2025, 2026, 2027},
		Scenarios: []model.IncomeScenario{model.ScenarioBase, model.ScenarioFull},
		Companies: raws(acmeJSON),
	})
	require.NoError(t, err)
	require.Len(t, resp.DemandByProduct, 3*2*4)

	totals := map[int]float64{}
	for _, r := range resp.DemandByProduct {
		if r.Scenario == model.ScenarioFull && r.RateLabel == "FHA_6.15" {
			totals[r.Year] = r.TotalHouseholds
		}
	}
	assert.InDelta(t, 100.0, totals[2025], 1e-9)
	assert.InDelta(t, 150.0, totals[2026], 1e-9)
	assert.InDelta(t, 200.0, totals[2027], 1e-9)
}

func TestOverviewValidationFailure(t *testing.T) {
	e := newEngine(t)
	resp, err := e.Overview(&model.OverviewRequest{
		Years:     []int{2025},
		Scenarios: []model.IncomeScenario{model.ScenarioFull},
		Companies: raws(acmeJSON, `{"name": "Broken"}`),
	})
	require.NoError(t, err)
	assertMetadata(t, resp.CalculationMetadata, model.OutcomeFailure)
	assert.Empty(t, resp.DemandByProduct)
	require.NotEmpty(t, resp.Messages)
	assert.Equal(t, model.LevelError, resp.Messages[0].Level)
	assert.Equal(t, "MISSING_COMPANY_FIELD", resp.Messages[0].Code)
}

func TestOverviewFromDataDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "acme.json"), []byte(acmeJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "supply.json"),
		[]byte(`{"products": [{"name": "Condos", "units": 50, "first_delivery_year": 2026}]}`), 0o644))

	e := New(catalog.Default(), dir, filepath.Join(dir, "supply.json"))
	resp, err := e.Overview(&model.OverviewRequest{
		Years:     []int{2025, 2026},
		Scenarios: []model.IncomeScenario{model.ScenarioBase},
	})
	require.NoError(t, err)
	assert.Len(t, resp.DemandByProduct, 2*4)
	require.Len(t, resp.SupplyByProduct, 2)
	assert.Equal(t, 0, resp.SupplyByProduct[0].Units["Condos"])
	assert.Equal(t, 50, resp.SupplyByProduct[1].Units["Condos"])
}

func TestOverviewErrors(t *testing.T) {
	e := newEngine(t)
	full := []model.IncomeScenario{model.ScenarioFull}

	_, err := e.Overview(&model.OverviewRequest{Years: []int{2025}, Scenarios: full})
	assert.ErrorIs(t, err, ErrNoCompanies)

	_, err = e.Overview(&model.OverviewRequest{Scenarios: full, Companies: raws(acmeJSON)})
	assert.ErrorIs(t, err, ErrNoYears)

	_, err = e.Overview(&model.OverviewRequest{Years: []int{2025}, Companies: raws(acmeJSON)})
	assert.ErrorIs(t, err, ErrNoScenarios)

	_, err = e.Overview(&model.OverviewRequest{
		Years:     []int{2025},
		Scenarios: []model.IncomeScenario{"QI_bonus"},
		Companies: raws(acmeJSON),
	})
	assert.ErrorIs(t, err, household.ErrUnknownScenario)
}

func TestOverviewInlineSupplyIsChecked(t *testing.T) {
	e := newEngine(t)
	tests := []struct {
		name, supply, want string
	}{
		{"negative units", `{"products": [{"name": "Condos", "units": -5, "first_delivery_year": 2026}]}`, `product "Condos": units must be non-negative`},
		{"empty name", `{"products": [{"name": "", "units": 5, "first_delivery_year": 2026}]}`, "products[0]: missing name"},
		{"missing year", `{"products": [{"name": "Condos", "units": 5}]}`, "missing first_delivery_year"},
		{"no products", `{}`, `missing "products"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Overview(&model.OverviewRequest{
				Years:     []int{2026},
				Scenarios: []model.IncomeScenario{model.ScenarioFull},
				Companies: raws(acmeJSON),
				Supply:    json.RawMessage(tt.supply),
			})
			require.ErrorIs(t, err, ErrInvalidSupply)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestOverviewWrongFieldTypesFailValidation(t *testing.T) {
	e := newEngine(t)
	tests := []struct {
		name, record string
	}{
		{"string count", strings.Replace(acmeJSON, `"count": 100`, `"count": "ten"`, 1)},
		{"string base year", strings.Replace(acmeJSON, `"base_year": 2025`, `"base_year": "2025"`, 1)},
		{"roles object", `{"name": "Odd", "base_year": 2025, "employee_count": 10, "roles": {}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := e.Overview(&model.OverviewRequest{
				Years:     []int{2025},
				Scenarios: []model.IncomeScenario{model.ScenarioFull},
				Companies: raws(tt.record),
			})
			require.NoError(t, err)
			assert.Equal(t, model.OutcomeFailure, resp.CalculationMetadata.CalculationOutcome)
			assert.Empty(t, resp.DemandByProduct)

			var codes []string
			for _, m := range resp.Messages {
				codes = append(codes, m.Code)
			}
			assert.Contains(t, codes, "INVALID_FIELD_TYPE")
		})
	}
}

func TestDetailSkipsOtherMalformedRecords(t *testing.T) {
	e := newEngine(t)
	bad := `{"name": "Bad", "base_year": "2025", "employee_count": 10, "roles": []}`
	detail, err := e.Detail(&model.DemandRequest{
		Company:   "Acme",
		Year:      2025,
		Scenario:  model.ScenarioFull,
		Companies: raws(`[1, 2]`, bad, acmeJSON),
	})
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeSuccess, detail.CalculationMetadata.CalculationOutcome)
	assert.Len(t, detail.HouseholdBandCounts, 2)

	detail, err = e.Detail(&model.DemandRequest{
		Company:   "Bad",
		Year:      2025,
		Scenario:  model.ScenarioFull,
		Companies: raws(bad, acmeJSON),
	})
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeFailure, detail.CalculationMetadata.CalculationOutcome)
	assert.Equal(t, "INVALID_FIELD_TYPE", detail.Messages[0].Code)
}

func TestDetail(t *testing.T) {
	e := newEngine(t)
	detail, err := e.Detail(&model.DemandRequest{
		Company:   "Acme",
		Year:      2025,
		Scenario:  model.ScenarioFull,
		Companies: raws(smallJSON, acmeJSON),
	})
	require.NoError(t, err)
	assertMetadata(t, detail.CalculationMetadata, model.OutcomeSuccess)

	require.Len(t, detail.HouseholdBandCounts, 2)
	assert.Equal(t, "B4", detail.HouseholdBandCounts[0].IncomeBand)
	assert.InDelta(t, 30.0, detail.HouseholdBandCounts[0].HouseholdCount, 1e-9)
	assert.Equal(t, "B6", detail.HouseholdBandCounts[1].IncomeBand)
	assert.InDelta(t, 70.0, detail.HouseholdBandCounts[1].HouseholdCount, 1e-9)

	assert.Len(t, detail.AffordabilityLookup, 7*4)
	require.Len(t, detail.DemandSummary, 4)
	for _, r := range detail.DemandSummary {
		assert.Equal(t, "Acme", r.Company)
	}
}

func TestDetailRateFilter(t *testing.T) {
	e := newEngine(t)
	detail, err := e.Detail(&model.DemandRequest{
		Company:   "Acme",
		Year:      2025,
		Scenario:  model.ScenarioFull,
		RateLabel: "FHA_6.15",
		Companies: raws(acmeJSON),
	})
	require.NoError(t, err)
	assert.Len(t, detail.AffordabilityLookup, 7)
	require.Len(t, detail.DemandSummary, 1)
	assert.Equal(t, "FHA_6.15", detail.DemandSummary[0].RateLabel)
}

func TestDetailErrors(t *testing.T) {
	e := newEngine(t)

	_, err := e.Detail(&model.DemandRequest{Company: "Nobody", Year: 2025, Scenario: model.ScenarioBase, Companies: raws(acmeJSON)})
	assert.True(t, errors.Is(err, ErrCompanyNotFound))

	_, err = e.Detail(&model.DemandRequest{Company: "Acme", Year: 2025, Scenario: model.ScenarioBase, RateLabel: "Jumbo_9", Companies: raws(acmeJSON)})
	assert.ErrorIs(t, err, ErrUnknownRate)

	_, err = e.Detail(&model.DemandRequest{Company: "Acme", Year: 2025, Scenario: "nope", Companies: raws(acmeJSON)})
	assert.ErrorIs(t, err, household.ErrUnknownScenario)
}

func TestDetailValidationFailure(t *testing.T) {
	e := newEngine(t)
	detail, err := e.Detail(&model.DemandRequest{
		Company:   "Neg",
		Year:      2025,
		Scenario:  model.ScenarioBase,
		Companies: raws(`{"name": "Neg", "base_year": 2025, "employee_count": -5, "roles": []}`),
	})
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeFailure, detail.CalculationMetadata.CalculationOutcome)
	assert.Empty(t, detail.HouseholdBandCounts)
	assert.Equal(t, "INVALID_EMPLOYEE_COUNT", detail.Messages[0].Code)
}

func TestValidate(t *testing.T) {
	e := newEngine(t)
	report, err := e.Validate(raws(acmeJSON, `{"name": "Broken"}`))
	require.NoError(t, err)
	assert.Equal(t, 2, report.FilesChecked)
	assert.True(t, report.HasErrors())

	report, err = e.Validate(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.FilesChecked)
}
