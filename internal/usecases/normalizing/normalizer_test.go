package normalizing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/stock-report-sync/internal/domain"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		pairAsID bool
		expected any
	}{
		{name: "objeto com display_name", value: map[string]any{"id": 3, "display_name": "Widget"}, expected: "Widget"},
		{name: "display_name false", value: map[string]any{"display_name": false}, expected: ""},
		{name: "par id e label", value: []any{float64(7), "Label"}, expected: "Label"},
		{name: "par id e label pedindo id", value: []any{float64(7), "Label"}, pairAsID: true, expected: float64(7)},
		{name: "false vira vazio", value: false, expected: ""},
		{name: "nil vira vazio", value: nil, expected: ""},
		{name: "true mantido", value: true, expected: true},
		{name: "número mantido", value: 12.5, expected: 12.5},
		{name: "texto mantido", value: "2024-01-31", expected: "2024-01-31"},
		{name: "lista de ids mantida", value: []any{float64(1), float64(2)}, expected: []any{float64(1), float64(2)}},
		{name: "lista com três itens mantida", value: []any{float64(1), "a", "b"}, expected: []any{float64(1), "a", "b"}},
		{name: "objeto sem display_name mantido", value: map[string]any{"id": 1}, expected: map[string]any{"id": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(tt.value, tt.pairAsID))
		})
	}
}

func TestNormalize_DisplayName(t *testing.T) {
	records := []domain.RawRecord{
		{"product_id": map[string]any{"display_name": "Widget"}},
		{"product_id": map[string]any{"display_name": "Widget"}},
		{"product_id": map[string]any{"display_name": "Widget"}},
	}

	table := Normalize(records, domain.FieldSpec{})

	assert.Equal(t, []string{"product_id"}, table.Columns)
	assert.Len(t, table.Rows, 3)
	for _, row := range table.Rows {
		assert.Equal(t, "Widget", row["product_id"])
	}
}

func TestNormalize_PairAndFalse(t *testing.T) {
	records := []domain.RawRecord{
		{"buyer": []any{float64(7), "Label"}, "lot_id": false, "qty": float64(4)},
	}

	table := Normalize(records, domain.FieldSpec{})

	row := table.Rows[0]
	assert.Equal(t, "Label", row["buyer"])
	assert.Equal(t, "", row["lot_id"])
	assert.Equal(t, float64(4), row["qty"])
	for _, value := range table.Values()[1] {
		assert.NotEqual(t, false, value)
		assert.NotNil(t, value)
	}
}

func TestNormalize_RenameEColunasEstaveis(t *testing.T) {
	spec := domain.FieldSpec{Fields: []domain.Field{
		{Name: "product_id", Label: "Product", Relational: true},
		{Name: "closing_qty", Label: "Closing Qty"},
		{Name: "uom_id", Relational: true, PairAsID: true},
	}}
	records := []domain.RawRecord{
		{"id": float64(1), "product_id": map[string]any{"display_name": "Widget"}, "closing_qty": float64(3), "uom_id": []any{float64(2), "kg"}},
		{"id": float64(2), "product_id": false, "zeta": "z"},
	}

	table := Normalize(records, spec)

	assert.Equal(t, []string{"Product", "Closing Qty", "uom_id", "id", "zeta"}, table.Columns)
	assert.Equal(t, domain.FlatRow{"Product": "Widget", "Closing Qty": float64(3), "uom_id": float64(2), "id": float64(1), "zeta": ""}, table.Rows[0])
	assert.Equal(t, domain.FlatRow{"Product": "", "Closing Qty": "", "uom_id": "", "id": float64(2), "zeta": "z"}, table.Rows[1])
}

func TestNormalize_Subcampos(t *testing.T) {
	spec := domain.FieldSpec{Fields: []domain.Field{
		{Name: "lot_id", Label: "Lot", Relational: true, Subfields: []string{"rejected", "unusable_actions"}},
	}}
	records := []domain.RawRecord{
		{"lot_id": map[string]any{"display_name": "LOT-1", "rejected": true, "unusable_actions": []any{float64(4), "Scrap"}}},
		{"lot_id": false},
	}

	table := Normalize(records, spec)

	assert.Equal(t, []string{"Lot", "Lot/rejected", "Lot/unusable_actions"}, table.Columns)
	assert.Equal(t, domain.FlatRow{"Lot": "LOT-1", "Lot/rejected": true, "Lot/unusable_actions": "Scrap"}, table.Rows[0])
	assert.Equal(t, domain.FlatRow{"Lot": "", "Lot/rejected": "", "Lot/unusable_actions": ""}, table.Rows[1])
}

func TestNormalize_DeterministicoEOrdem(t *testing.T) {
	records := []domain.RawRecord{
		{"name": "b", "c": float64(1), "a": false},
		{"name": "a", "b": []any{float64(1), "x"}},
		{"name": "c"},
	}

	first := Normalize(records, domain.FieldSpec{})
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Normalize(records, domain.FieldSpec{}))
	}

	assert.Equal(t, []string{"a", "b", "c", "name"}, first.Columns)
	assert.Equal(t, "b", first.Rows[0]["name"])
	assert.Equal(t, "a", first.Rows[1]["name"])
	assert.Equal(t, "c", first.Rows[2]["name"])
}

func TestNormalize_Vazio(t *testing.T) {
	table := Normalize(nil, domain.FieldSpec{Fields: []domain.Field{{Name: "product_id"}}})

	assert.True(t, table.IsEmpty())
	assert.Equal(t, []string{"product_id"}, table.Columns)
}

func TestNormalizeOrdered(t *testing.T) {
	records := []domain.RawRecord{
		{"Order No": "SO-1", "Buyer": "Acme", "Qty": "10", "Delivery Date": "2024-02-01"},
		{"Order No": "SO-2", "Buyer": false, "Qty": "4", "Delivery Date": "2024-02-03", "zeta": "z"},
	}

	tests := []struct {
		name     string
		spec     domain.FieldSpec
		source   []string
		expected []string
	}{
		{
			name:     "ordem da origem preservada",
			source:   []string{"Order No", "Buyer", "Qty", "Delivery Date"},
			expected: []string{"Order No", "Buyer", "Qty", "Delivery Date", "zeta"},
		},
		{
			name:     "colunas repetidas ou ausentes na origem ignoradas",
			source:   []string{"Qty", "Qty", "Nao Existe", "Order No"},
			expected: []string{"Qty", "Order No", "Buyer", "Delivery Date", "zeta"},
		},
		{
			name:     "campos da especificação vêm antes",
			spec:     domain.FieldSpec{Fields: []domain.Field{{Name: "Buyer", Label: "Customer"}}},
			source:   []string{"Order No", "Buyer", "Qty", "Delivery Date"},
			expected: []string{"Customer", "Order No", "Qty", "Delivery Date", "zeta"},
		},
		{
			name:     "sem ordem na origem cai na ordem alfabética",
			expected: []string{"Buyer", "Delivery Date", "Order No", "Qty", "zeta"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NormalizeOrdered(records, tt.spec, tt.source)

			assert.Equal(t, tt.expected, table.Columns)
			assert.Len(t, table.Rows, 2)
		})
	}
}
