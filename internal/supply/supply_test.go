package supply

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"affordability-engine/internal/model"
)

func TestTimelineStepFunction(t *testing.T) {
	cfg := &model.SupplyConfig{Products: []model.SupplyProduct{
		{Name: "Apartments", Units: 200, FirstDeliveryYear: 2028},
	}}

	rows := Timeline(cfg, []int{2026, 2027, 2028, 2029})
	units := []int{}
	for _, r := range rows {
		assert.Equal(t, "Apartments", r.Product)
		units = append(units, r.SupplyUnits)
	}
	assert.Equal(t, []int{0, 0, 200, 200}, units)
}

func TestTimelineEmpty(t *testing.T) {
	assert.Empty(t, Timeline(&model.SupplyConfig{}, []int{2025}))
	cfg := &model.SupplyConfig{Products: []model.SupplyProduct{{Name: "Condos", Units: 10, FirstDeliveryYear: 2025}}}
	assert.Empty(t, Timeline(cfg, nil))
}

func TestPivotByYear(t *testing.T) {
	cfg := &model.SupplyConfig{Products: []model.SupplyProduct{
		{Name: "Apartments", Units: 200, FirstDeliveryYear: 2028},
		{Name: "Condos", Units: 80, FirstDeliveryYear: 2027},
	}}

	pivot := PivotByYear(Timeline(cfg, []int{2028, 2026, 2027}))
	require.Len(t, pivot, 3)
	assert.Equal(t, model.SupplyYear{Year: 2026, Units: map[string]int{"Apartments": 0, "Condos": 0}}, pivot[0])
	assert.Equal(t, model.SupplyYear{Year: 2027, Units: map[string]int{"Apartments": 0, "Condos": 80}}, pivot[1])
	assert.Equal(t, model.SupplyYear{Year: 2028, Units: map[string]int{"Apartments": 200, "Condos": 80}}, pivot[2])
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`{"products":[{"name":"Apartments","units":200,"first_delivery_year":2028}]}`))
	require.NoError(t, err)
	assert.Equal(t, []model.SupplyProduct{{Name: "Apartments", Units: 200, FirstDeliveryYear: 2028}}, cfg.Products)
}

func TestParseErrorsNameTheProduct(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"bad json", `{"products":`, "invalid JSON"},
		{"no products", `{}`, `missing "products"`},
		{"no name", `{"products":[{"units":1,"first_delivery_year":2028}]}`, "products[0]: missing name"},
		{"no units", `{"products":[{"name":"Condos","first_delivery_year":2028}]}`, `product "Condos": missing units`},
		{"negative units", `{"products":[{"name":"A","units":1,"first_delivery_year":2026},{"name":"Condos","units":-5,"first_delivery_year":2028}]}`, `products[1]: product "Condos": units must be non-negative`},
		{"no year", `{"products":[{"name":"Condos","units":5}]}`, "missing first_delivery_year"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "supply.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"products":[{"name":"Condos","units":-1,"first_delivery_year":2027}]}`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
