// Package engine runs the demand pipeline end to end: it gathers and
// validates company records, projects household demand per company, rolls it
// up into portfolio demand and joins the supply timeline.
package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"affordability-engine/internal/afford"
	"affordability-engine/internal/catalog"
	"affordability-engine/internal/demand"
	"affordability-engine/internal/household"
	"affordability-engine/internal/loader"
	"affordability-engine/internal/model"
	"affordability-engine/internal/supply"
	"affordability-engine/internal/validate"
)

var (
	ErrNoCompanies     = errors.New("no companies found")
	ErrCompanyNotFound = errors.New("company not found")
	ErrUnknownRate     = errors.New("unknown rate label")
	ErrNoYears         = errors.New("at least one year is required")
	ErrNoScenarios     = errors.New("at least one scenario is required")
	ErrInvalidSupply   = errors.New("invalid supply")
)

// Engine holds the read-only inputs shared by every run.
type Engine struct {
	Catalog    *catalog.Catalog
	DataDir    string
	SupplyFile string
}

func New(cat *catalog.Catalog, dataDir, supplyFile string) *Engine {
	return &Engine{Catalog: cat, DataDir: dataDir, SupplyFile: supplyFile}
}

// Lookup returns the affordability lookup of the engine's catalog.
func (e *Engine) Lookup() []model.AffordabilityLookupRow {
	return afford.CachedLookup(e.Catalog)
}

// Overview computes portfolio demand for every requested year, scenario and
// rate together with the supply available in those years. When validation
// finds ERRORs the outcome is FAILURE and no demand is computed.
func (e *Engine) Overview(req *model.OverviewRequest) (*model.OverviewResponse, error) {
	start := time.Now()

	if len(req.Years) == 0 {
		return nil, ErrNoYears
	}
	if err := checkScenarios(req.Scenarios); err != nil {
		return nil, err
	}

	recs, err := e.records("request.companies", req.Companies)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNoCompanies
	}

	resp := &model.OverviewResponse{
		Years:           req.Years,
		Scenarios:       req.Scenarios,
		DemandByProduct: []model.DemandRow{},
		SupplyByProduct: []model.SupplyYear{},
	}

	report := validate.Records(recs)
	resp.Messages = report.Messages
	if report.HasErrors() {
		resp.CalculationMetadata = metadata(start, model.OutcomeFailure)
		return resp, nil
	}

	companies, err := loader.DecodeAll(recs)
	if err != nil {
		return nil, err
	}

	supplyCfg, err := e.supplyConfig(req.Supply)
	if err != nil {
		return nil, err
	}

	perCompany, err := e.companyDemand(companies, req.Years, req.Scenarios)
	if err != nil {
		return nil, err
	}
	resp.DemandByProduct = demand.Portfolio(e.Catalog, perCompany)

	if supplyCfg != nil {
		resp.SupplyByProduct = supply.PivotByYear(supply.Timeline(supplyCfg, req.Years))
	}

	resp.CalculationMetadata = metadata(start, model.OutcomeSuccess)
	return resp, nil
}

// supplyConfig parses inline supply, falling back to the configured file.
func (e *Engine) supplyConfig(inline json.RawMessage) (*model.SupplyConfig, error) {
	if len(inline) > 0 && string(inline) != "null" {
		cfg, err := supply.Parse(inline)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSupply, err)
		}
		return cfg, nil
	}
	if e.SupplyFile == "" {
		return nil, nil
	}
	return supply.Load(e.SupplyFile)
}

// companyDemand runs the per-company stages for every company concurrently.
// Results keep the input order of companies.
func (e *Engine) companyDemand(companies []model.Company, years []int, scenarios []model.IncomeScenario) ([]model.DemandRow, error) {
	lookup := afford.CachedLookup(e.Catalog)

	results := make([][]model.DemandRow, len(companies))
	errs := make([]error, len(companies))

	var wg sync.WaitGroup
	for i := range companies {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := &companies[i]
			for _, year := range years {
				for _, scen := range scenarios {
					counts, err := household.BandCounts(e.Catalog, c, year, scen)
					if err != nil {
						errs[i] = fmt.Errorf("company %q: %w", c.Name, err)
						return
					}
					results[i] = append(results[i], demand.Summarize(e.Catalog, counts, lookup)...)
				}
			}
		}(i)
	}
	wg.Wait()

	var rows []model.DemandRow
	for i := range companies {
		if errs[i] != nil {
			return nil, errs[i]
		}
		rows = append(rows, results[i]...)
	}
	return rows, nil
}

// Detail traces the pipeline for a single company, year and scenario,
// optionally narrowed to one rate label.
func (e *Engine) Detail(req *model.DemandRequest) (*model.CompanyDetail, error) {
	start := time.Now()

	if err := checkScenarios([]model.IncomeScenario{req.Scenario}); err != nil {
		return nil, err
	}

	lookup := afford.CachedLookup(e.Catalog)
	if req.RateLabel != "" {
		lookup = afford.ForRate(lookup, req.RateLabel)
		if len(lookup) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRate, req.RateLabel)
		}
	}

	recs, err := e.records("request.companies", req.Companies)
	if err != nil {
		return nil, err
	}
	rec, err := findCompany(recs, req.Company)
	if err != nil {
		return nil, err
	}

	detail := &model.CompanyDetail{
		Company:             req.Company,
		Year:                req.Year,
		Scenario:            req.Scenario,
		RateLabel:           req.RateLabel,
		HouseholdBandCounts: []model.HouseholdBandCount{},
		AffordabilityLookup: lookup,
		DemandSummary:       []model.DemandRow{},
	}

	report := validate.Records([]loader.Record{rec})
	detail.Messages = report.Messages
	if report.HasErrors() {
		detail.CalculationMetadata = metadata(start, model.OutcomeFailure)
		return detail, nil
	}

	c, err := loader.Decode(rec)
	if err != nil {
		return nil, err
	}
	counts, err := household.BandCounts(e.Catalog, &c, req.Year, req.Scenario)
	if err != nil {
		return nil, err
	}
	detail.HouseholdBandCounts = counts
	detail.DemandSummary = demand.Summarize(e.Catalog, counts, lookup)
	detail.CalculationMetadata = metadata(start, model.OutcomeSuccess)
	return detail, nil
}

// Validate checks inline records, or the data directory when none are given.
func (e *Engine) Validate(raws []json.RawMessage) (model.ValidationReport, error) {
	if len(raws) > 0 {
		return validate.Records(loader.RawRecords("request.companies", raws)), nil
	}
	return validate.Dir(e.DataDir)
}

func (e *Engine) records(source string, raws []json.RawMessage) ([]loader.Record, error) {
	if len(raws) > 0 {
		return loader.RawRecords(source, raws), nil
	}
	return loader.DirRecords(e.DataDir)
}

// findCompany matches on the raw name so that malformed records of other
// companies do not get in the way.
func findCompany(recs []loader.Record, name string) (loader.Record, error) {
	for _, r := range recs {
		if n, ok := loader.Name(r); ok && n == name {
			return r, nil
		}
	}
	return loader.Record{}, fmt.Errorf("%w: %q", ErrCompanyNotFound, name)
}

func checkScenarios(scenarios []model.IncomeScenario) error {
	if len(scenarios) == 0 {
		return ErrNoScenarios
	}
	for _, s := range scenarios {
		if !s.Valid() {
			return fmt.Errorf("%w: %q", household.ErrUnknownScenario, s)
		}
	}
	return nil
}

func metadata(start time.Time, outcome string) model.CalculationMetadata {
	elapsed := time.Since(start)
	now := time.Now().UTC()
	return model.CalculationMetadata{
		CalculationID:          uuid.New().String(),
		CalculationStartedAt:   now.Add(-elapsed).Format(time.RFC3339),
		CalculationCompletedAt: now.Format(time.RFC3339),
		CalculationDurationMs:  elapsed.Milliseconds(),
		CalculationOutcome:     outcome,
	}
}
