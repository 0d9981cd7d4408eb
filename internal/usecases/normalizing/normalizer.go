package normalizing

import (
	"sort"

	"github.com/vfg2006/stock-report-sync/internal/domain"
)

const displayNameKey = "display_name"

// Normalize achata os registros do ERP em linhas escalares.
// As colunas seguem a ordem dos campos da especificação (já renomeados), seguidas
// das chaves extras encontradas nos registros em ordem alfabética. Toda linha tem
// todas as colunas, com "" quando o valor não veio.
func Normalize(records []domain.RawRecord, spec domain.FieldSpec) domain.Table {
	return NormalizeOrdered(records, spec, nil)
}

// NormalizeOrdered é o Normalize para origens que têm ordem de colunas (cabeçalho do xlsx,
// chaves do JSON). As chaves extras seguem sourceColumns; só as que não aparecem ali
// vão para o fim em ordem alfabética.
func NormalizeOrdered(records []domain.RawRecord, spec domain.FieldSpec, sourceColumns []string) domain.Table {
	columns := specColumns(spec)
	extras := extraKeys(records, spec, sourceColumns)
	columns = append(columns, extras...)

	rows := make([]domain.FlatRow, 0, len(records))
	for _, record := range records {
		row := make(domain.FlatRow, len(columns))
		for _, column := range columns {
			row[column] = ""
		}

		for key, value := range record {
			field, known := spec.Lookup(key)
			if !known {
				row[key] = Resolve(value, false)
				continue
			}

			row[field.Column()] = Resolve(value, field.PairAsID)

			nested, isMap := value.(map[string]any)
			for _, sub := range field.Subfields {
				if isMap {
					row[domain.SubfieldColumn(field, sub)] = Resolve(nested[sub], false)
				}
			}
		}

		rows = append(rows, row)
	}

	return domain.Table{Columns: columns, Rows: rows}
}

// Resolve converte um único valor do ERP em escalar
func Resolve(value any, pairAsID bool) any {
	switch v := value.(type) {
	case nil:
		return ""
	case bool:
		if !v {
			return ""
		}
		return v
	case map[string]any:
		if label, ok := v[displayNameKey]; ok {
			return Resolve(label, false)
		}
		return v
	case []any:
		if len(v) == 2 {
			if _, isString := v[1].(string); isString {
				if pairAsID {
					return v[0]
				}
				return v[1]
			}
		}
		return v
	default:
		return v
	}
}

func specColumns(spec domain.FieldSpec) []string {
	columns := make([]string, 0, len(spec.Fields))
	for _, field := range spec.Fields {
		columns = append(columns, field.Column())
		for _, sub := range field.Subfields {
			columns = append(columns, domain.SubfieldColumn(field, sub))
		}
	}
	return columns
}

func extraKeys(records []domain.RawRecord, spec domain.FieldSpec, sourceColumns []string) []string {
	seen := make(map[string]bool)
	for _, record := range records {
		for key := range record {
			if _, known := spec.Lookup(key); known {
				continue
			}
			seen[key] = true
		}
	}

	keys := make([]string, 0, len(seen))
	for _, column := range sourceColumns {
		if seen[column] {
			keys = append(keys, column)
			delete(seen, column)
		}
	}

	rest := make([]string, 0, len(seen))
	for key := range seen {
		rest = append(rest, key)
	}
	sort.Strings(rest)

	return append(keys, rest...)
}
