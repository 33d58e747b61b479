// Package validate checks raw company records before they reach the demand
// pipeline. Findings are ERROR or WARNING messages; the pipeline refuses to
// run on ERRORs.
package validate

import (
	"fmt"
	"math"
	"sort"

	json "github.com/goccy/go-json"

	"affordability-engine/internal/loader"
	"affordability-engine/internal/model"
)

var (
	requiredCompanyFields = []string{"name", "base_year", "employee_count", "roles"}
	requiredRoleFields    = []string{"title", "count", "base_salary", "ote", "is_entry_level", "segment_type", "household_split"}
	requiredSplitFields   = []string{"H1_single", "H2_dual_moderate", "H3_dual_peer"}
)

const (
	minBaseSalary = 25000
	maxBaseSalary = 500000
	minOTE        = 25000
	maxOTE        = 1000000
)

// collector accumulates messages for one source file.
type collector struct {
	file string
	msgs []model.ValidationMessage
}

func (c *collector) add(level, code, format string, args ...any) {
	c.msgs = append(c.msgs, model.ValidationMessage{
		Level:   level,
		Code:    code,
		File:    c.file,
		Message: fmt.Sprintf(format, args...),
	})
}

func (c *collector) errorf(code, format string, args ...any) {
	c.add(model.LevelError, code, format, args...)
}

func (c *collector) warnf(code, format string, args ...any) {
	c.add(model.LevelWarning, code, format, args...)
}

// Record validates one company record.
func Record(rec loader.Record) []model.ValidationMessage {
	c := &collector{file: rec.Source}

	var company map[string]any
	if err := json.Unmarshal(rec.Raw, &company); err != nil {
		c.errorf("INVALID_JSON", "Invalid JSON: %v", err)
		return c.msgs
	}
	checkCompany(c, company)

	// Values of the wrong type (a string count, an object for roles) pass the
	// field checks above but cannot feed the pipeline.
	if _, err := loader.Decode(rec); err != nil {
		c.errorf("INVALID_FIELD_TYPE", "%v", err)
	}
	return c.msgs
}

func checkCompany(c *collector, company map[string]any) {
	for _, field := range requiredCompanyFields {
		if _, ok := company[field]; !ok {
			c.errorf("MISSING_COMPANY_FIELD", "Company missing required field: '%s'", field)
		}
	}

	name := "Unknown"
	if s, ok := company["name"].(string); ok {
		name = s
	}

	if baseYear, ok := number(company["base_year"]); ok && (baseYear < 2020 || baseYear > 2030) {
		c.warnf("UNUSUAL_BASE_YEAR", "%s: base_year %v seems unusual", name, baseYear)
	}

	employeeCount, hasEmployees := number(company["employee_count"])
	if hasEmployees && employeeCount <= 0 {
		c.errorf("INVALID_EMPLOYEE_COUNT", "%s: employee_count must be positive (%v)", name, employeeCount)
	}

	roles, _ := company["roles"].([]any)
	if len(roles) == 0 {
		c.warnf("NO_ROLES", "%s: No roles defined", name)
	}

	totalRoleCount := 0.0
	for i, r := range roles {
		role, ok := r.(map[string]any)
		if !ok {
			c.errorf("INVALID_ROLE", "%s: roles[%d] must be an object", name, i)
			continue
		}
		checkRole(c, role)
		if n, ok := number(role["count"]); ok {
			totalRoleCount += n
		}
	}

	if hasEmployees && totalRoleCount > 0 {
		diff := math.Abs(totalRoleCount - employeeCount)
		if diff > employeeCount*0.1 {
			c.warnf("ROLE_COUNT_MISMATCH", "%s: Role counts sum to %v, but employee_count is %v (diff: %v)",
				name, totalRoleCount, employeeCount, diff)
		}
	}

	if raw, ok := company["projection_years"]; ok {
		checkProjections(c, name, raw)
	}
}

func checkProjections(c *collector, name string, raw any) {
	projections, ok := raw.([]any)
	if !ok {
		c.errorf("INVALID_PROJECTION_YEARS", "%s: projection_years must be a list", name)
		return
	}
	for i, p := range projections {
		anchor, _ := p.(map[string]any)
		if _, ok := anchor["year"]; !ok {
			c.errorf("MISSING_PROJECTION_FIELD", "%s: projection_years[%d] missing 'year' field", name, i)
		}
		if _, ok := anchor["employee_count"]; !ok {
			c.errorf("MISSING_PROJECTION_FIELD", "%s: projection_years[%d] missing 'employee_count' field", name, i)
		}
	}
}

func checkRole(c *collector, role map[string]any) {
	for _, field := range requiredRoleFields {
		if _, ok := role[field]; !ok {
			c.errorf("MISSING_ROLE_FIELD", "Role missing required field: '%s'", field)
		}
	}

	title := "Unknown"
	if s, ok := role["title"].(string); ok {
		title = s
	}

	base, hasBase := number(role["base_salary"])
	if hasBase && (base < minBaseSalary || base > maxBaseSalary) {
		c.warnf("BASE_SALARY_OUT_OF_RANGE", "Role '%s': base_salary %v outside expected range $%d-$%d",
			title, base, minBaseSalary, maxBaseSalary)
	}

	ote, hasOTE := number(role["ote"])
	if hasOTE && (ote < minOTE || ote > maxOTE) {
		c.warnf("OTE_OUT_OF_RANGE", "Role '%s': ote %v outside expected range $%d-$%d", title, ote, minOTE, maxOTE)
	}

	if hasBase && hasOTE && ote < base {
		c.warnf("OTE_BELOW_BASE", "Role '%s': OTE ($%v) is less than base_salary ($%v)", title, ote, base)
	}

	if count, ok := number(role["count"]); ok {
		if count < 0 {
			c.errorf("NEGATIVE_COUNT", "Role '%s': count cannot be negative (%v)", title, count)
		}
		if count == 0 {
			c.warnf("ZERO_COUNT", "Role '%s': count is 0 (role may be unused)", title)
		}
	}

	if raw, ok := role["household_split"]; ok {
		split, _ := raw.(map[string]any)
		checkSplit(c, title, split)
	}
}

func checkSplit(c *collector, title string, split map[string]any) {
	for _, field := range requiredSplitFields {
		if _, ok := split[field]; !ok {
			c.errorf("MISSING_SPLIT_FIELD", "Role '%s': Missing household_split field '%s'", title, field)
		}
	}

	total := 0.0
	for _, field := range requiredSplitFields {
		if v, ok := number(split[field]); ok {
			total += v
		}
	}
	if math.Abs(total-1.0) > 0.01 {
		c.warnf("SPLIT_SUM", "Role '%s': Household split sums to %.2f, expected 1.0", title, total)
	}

	fields := make([]string, 0, len(split))
	for field := range split {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		raw := split[field]
		v, ok := number(raw)
		if !ok || v < 0 || v > 1 {
			c.errorf("SPLIT_OUT_OF_RANGE", "Role '%s': household_split['%s'] = %v, must be between 0 and 1", title, field, raw)
		}
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
