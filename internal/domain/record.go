package domain

// RawRecord é uma linha como retornada pelo ERP, com possíveis valores relacionais aninhados
type RawRecord map[string]any

// RecordSet são os registros lidos do ERP. Columns guarda a ordem das colunas na origem
// (cabeçalho do xlsx, ordem das chaves no JSON) e fica vazio quando a origem não tem ordem.
type RecordSet struct {
	Columns []string
	Records []RawRecord
}

func (s *RecordSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// FlatRow é uma linha já normalizada, com um valor escalar por coluna
type FlatRow map[string]any

// Table agrupa as linhas normalizadas com a ordem determinística das colunas
type Table struct {
	Columns []string
	Rows    []FlatRow
}

// IsEmpty indica se a tabela não possui linhas
func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// Values converte a tabela em uma matriz (cabeçalho + linhas) na ordem das colunas
func (t Table) Values() [][]any {
	values := make([][]any, 0, len(t.Rows)+1)

	header := make([]any, len(t.Columns))
	for i, column := range t.Columns {
		header[i] = column
	}
	values = append(values, header)

	for _, row := range t.Rows {
		line := make([]any, len(t.Columns))
		for i, column := range t.Columns {
			value, ok := row[column]
			if !ok || value == nil {
				value = ""
			}
			line[i] = value
		}
		values = append(values, line)
	}

	return values
}
