package model

// Company is a validated employer record. It is read-only during a run.
type Company struct {
	Name            string             `json:"name"`
	BaseYear        int                `json:"base_year"`
	EmployeeCount   *float64           `json:"employee_count"`
	ProjectionYears []ProjectionAnchor `json:"projection_years,omitempty"`
	Roles           []Role             `json:"roles"`
}

// BaseHeadcount returns the base-year employee count, 0 when absent.
func (c *Company) BaseHeadcount() float64 {
	if c.EmployeeCount == nil {
		return 0
	}
	return *c.EmployeeCount
}

type ProjectionAnchor struct {
	Year          int     `json:"year"`
	EmployeeCount float64 `json:"employee_count"`
}

type Role struct {
	Title          string             `json:"title"`
	Count          float64            `json:"count"`
	BaseSalary     float64            `json:"base_salary"`
	OTE            float64            `json:"ote"`
	IsEntryLevel   bool               `json:"is_entry_level,omitempty"`
	SegmentType    string             `json:"segment_type,omitempty"`
	HouseholdSplit map[string]float64 `json:"household_split"`
}

// IncomeScenario selects which role income feeds the household projection.
type IncomeScenario string

const (
	ScenarioBase IncomeScenario = "QI_base"
	ScenarioFull IncomeScenario = "QI_full"
)

func (s IncomeScenario) Valid() bool {
	return s == ScenarioBase || s == ScenarioFull
}

// Income picks the role income the scenario is based on.
func (s IncomeScenario) Income(r Role) float64 {
	if s == ScenarioBase {
		return r.BaseSalary
	}
	return r.OTE
}
