// Package supply expands committed housing units into a per-year
// availability series.
package supply

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	json "github.com/goccy/go-json"

	"affordability-engine/internal/model"
)

type rawProduct struct {
	Name              *string `json:"name"`
	Units             *int    `json:"units"`
	FirstDeliveryYear *int    `json:"first_delivery_year"`
}

type rawConfig struct {
	Products *[]rawProduct `json:"products"`
}

// Parse decodes a supply config. Any problem is reported as one error that
// names the offending product.
func Parse(data []byte) (*model.SupplyConfig, error) {
	var raw rawConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("supply: invalid JSON: %w", err)
	}
	if raw.Products == nil {
		return nil, fmt.Errorf("supply: missing \"products\" list")
	}

	cfg := &model.SupplyConfig{Products: make([]model.SupplyProduct, 0, len(*raw.Products))}
	for i, p := range *raw.Products {
		if err := p.check(); err != nil {
			return nil, fmt.Errorf("supply: products[%d]: %w", i, err)
		}
		cfg.Products = append(cfg.Products, model.SupplyProduct{
			Name:              *p.Name,
			Units:             *p.Units,
			FirstDeliveryYear: *p.FirstDeliveryYear,
		})
	}
	return cfg, nil
}

func (p rawProduct) check() error {
	if p.Name == nil || *p.Name == "" {
		return fmt.Errorf("missing name")
	}
	if p.Units == nil {
		return fmt.Errorf("product %q: missing units", *p.Name)
	}
	if *p.Units < 0 {
		return fmt.Errorf("product %q: units must be non-negative, got %d", *p.Name, *p.Units)
	}
	if p.FirstDeliveryYear == nil {
		return fmt.Errorf("product %q: missing first_delivery_year", *p.Name)
	}
	return nil
}

// Load reads and parses a supply config file.
func Load(path string) (*model.SupplyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("supply: reading %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Timeline lists available units per product and year. Units become
// available in full from the first delivery year onward.
func Timeline(cfg *model.SupplyConfig, years []int) []model.SupplyRow {
	rows := make([]model.SupplyRow, 0, len(cfg.Products)*len(years))
	for _, p := range cfg.Products {
		for _, year := range years {
			units := 0
			if year >= p.FirstDeliveryYear {
				units = p.Units
			}
			rows = append(rows, model.SupplyRow{Product: p.Name, Year: year, SupplyUnits: units})
		}
	}
	return rows
}

// PivotByYear folds timeline rows into one record per year, summing units
// of products that share a name.
func PivotByYear(rows []model.SupplyRow) []model.SupplyYear {
	byYear := make(map[int]map[string]int)
	for _, r := range rows {
		units, ok := byYear[r.Year]
		if !ok {
			units = make(map[string]int)
			byYear[r.Year] = units
		}
		units[r.Product] += r.SupplyUnits
	}

	out := make([]model.SupplyYear, 0, len(byYear))
	for year, units := range byYear {
		out = append(out, model.SupplyYear{Year: year, Units: units})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
