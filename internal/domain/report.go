package domain

import (
	"fmt"
	"time"

	"github.com/vfg2006/stock-report-sync/pkg/utils"
)

// ReportSource define como os registros de um relatório são obtidos no ERP
type ReportSource string

const (
	// ReportSourceWizard cria o wizard, calcula o relatório e lê o modelo de resultado
	ReportSourceWizard ReportSource = "wizard"
	// ReportSourceSearch lê diretamente o modelo de resultado, sem wizard
	ReportSourceSearch ReportSource = "search"
	// ReportSourceMethod chama um método do modelo que retorna a lista de registros
	ReportSourceMethod ReportSource = "method"
	// ReportSourceDownload gera o relatório xlsx no ERP e faz o download do arquivo
	ReportSourceDownload ReportSource = "download"
)

// WizardSaveMethod é o método usado para gravar o wizard no ERP
type WizardSaveMethod string

const (
	// WizardSaveWebSave grava com web_save, que devolve [{"id": N}]
	WizardSaveWebSave WizardSaveMethod = "web_save"
	// WizardSaveCreate grava com create, que devolve só o id
	WizardSaveCreate WizardSaveMethod = "create"
)

const (
	DefaultWizardModel  = "stock.forecast.report"
	DefaultWizardMethod = "print_date_wise_stock_register"
	DefaultFromField    = "from_date"
	DefaultToField      = "to_date"
	DefaultFetchLimit   = 5000
	DefaultCountLimit   = 10000

	DefaultClearRange    = "A:AA"
	DefaultAnchorCell    = "A1"
	DefaultTimestampCell = "AA2"
)

// Field descreve uma coluna esperada do relatório
type Field struct {
	Name       string   `mapstructure:"name" json:"name"`
	Label      string   `mapstructure:"label" json:"label,omitempty"`
	Relational bool     `mapstructure:"relational" json:"relational,omitempty"`
	Subfields  []string `mapstructure:"subfields" json:"subfields,omitempty"`
	PairAsID   bool     `mapstructure:"pair_as_id" json:"pair_as_id,omitempty"`
}

// Column retorna o nome da coluna de saída (renomeada quando houver label)
func (f Field) Column() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// FieldSpec é a especificação fixa dos campos esperados de um relatório
type FieldSpec struct {
	Fields []Field
}

// Lookup retorna a definição do campo pelo nome original
func (s FieldSpec) Lookup(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// SubfieldColumn monta o nome da coluna de um subcampo ("lot_id/rejected")
func SubfieldColumn(field Field, subfield string) string {
	return fmt.Sprintf("%s/%s", field.Column(), subfield)
}

// SheetDestination identifica onde a tabela de uma empresa é colada
type SheetDestination struct {
	EntityID      int    `mapstructure:"entity_id" json:"entity_id"`
	SpreadsheetID string `mapstructure:"spreadsheet_id" json:"spreadsheet_id"`
	Worksheet     string `mapstructure:"worksheet" json:"worksheet"`
	ClearRange    string `mapstructure:"clear_range" json:"clear_range"`
	AnchorCell    string `mapstructure:"anchor_cell" json:"anchor_cell"`
	TimestampCell string `mapstructure:"timestamp_cell" json:"timestamp_cell"`
}

// WithDefaults preenche os campos opcionais do destino
func (d SheetDestination) WithDefaults() SheetDestination {
	if d.ClearRange == "" {
		d.ClearRange = DefaultClearRange
	}
	if d.AnchorCell == "" {
		d.AnchorCell = DefaultAnchorCell
	}
	if d.TimestampCell == "" {
		d.TimestampCell = DefaultTimestampCell
	}
	return d
}

// DateRangePolicy define como o período do relatório é calculado
type DateRangePolicy string

const (
	DateRangeExplicit                DateRangePolicy = "explicit"
	DateRangePreviousMonth           DateRangePolicy = "previous_month"
	DateRangePreviousMonthEnd        DateRangePolicy = "previous_month_end"
	DateRangeCurrentMonth            DateRangePolicy = "current_month"
	DateRangeCurrentMonthToDate      DateRangePolicy = "current_month_to_date"
	DateRangeCurrentMonthToYesterday DateRangePolicy = "current_month_to_yesterday"
	DateRangeToDateOnly              DateRangePolicy = "to_date_only"
)

// DateRange é a política de datas configurada para um relatório
type DateRange struct {
	Policy           DateRangePolicy `mapstructure:"policy" json:"policy"`
	From             string          `mapstructure:"from" json:"from,omitempty"`
	To               string          `mapstructure:"to" json:"to,omitempty"`
	IgnoreToOverride bool            `mapstructure:"ignore_to_override" json:"ignore_to_override,omitempty"`
}

// Period é o intervalo de datas efetivo de um relatório. From zero significa "sem data inicial".
type Period struct {
	From time.Time
	To   time.Time
}

// FromParam retorna a data inicial no formato aceito pelo ERP (false quando ausente)
func (p Period) FromParam() any {
	if p.From.IsZero() {
		return false
	}
	return p.From.Format(time.DateOnly)
}

// ToParam retorna a data final no formato aceito pelo ERP
func (p Period) ToParam() any {
	if p.To.IsZero() {
		return false
	}
	return p.To.Format(time.DateOnly)
}

// DateStamp é o carimbo de data usado no nome do artefato
func (p Period) DateStamp() string {
	return p.To.Format(time.DateOnly)
}

// Resolve calcula o período a partir da política, de "hoje" e das datas informadas por ambiente
func (r DateRange) Resolve(today time.Time, fromOverride, toOverride string) (Period, error) {
	var period Period

	switch r.Policy {
	case DateRangeExplicit:
		from, err := utils.ParseDate(r.From)
		if err != nil {
			return period, fmt.Errorf("data inicial inválida %q: %w", r.From, err)
		}
		to, err := utils.ParseDate(r.To)
		if err != nil {
			return period, fmt.Errorf("data final inválida %q: %w", r.To, err)
		}
		period = Period{From: *from, To: *to}
	case DateRangePreviousMonth, "":
		period = Period{From: utils.FirstDayOfPreviousMonth(today), To: utils.LastDayOfPreviousMonth(today)}
	case DateRangePreviousMonthEnd:
		period = Period{To: utils.LastDayOfPreviousMonth(today)}
	case DateRangeCurrentMonth:
		period = Period{From: utils.FirstDayOfMonth(today), To: utils.LastDayOfMonth(today)}
	case DateRangeCurrentMonthToDate:
		period = Period{From: utils.FirstDayOfMonth(today), To: utils.DateOnly(today)}
	case DateRangeCurrentMonthToYesterday:
		period = Period{From: utils.FirstDayOfMonth(today), To: utils.DateOnly(today).AddDate(0, 0, -1)}
	case DateRangeToDateOnly:
		period = Period{To: utils.DateOnly(today)}
	default:
		return period, fmt.Errorf("política de datas desconhecida: %s", r.Policy)
	}

	if fromOverride != "" {
		from, err := utils.ParseDate(fromOverride)
		if err != nil {
			return period, fmt.Errorf("FROM_DATE inválido %q: %w", fromOverride, err)
		}
		period.From = *from
	}

	if toOverride != "" && !r.IgnoreToOverride {
		to, err := utils.ParseDate(toOverride)
		if err != nil {
			return period, fmt.Errorf("TO_DATE inválido %q: %w", toOverride, err)
		}
		period.To = *to
	}

	if period.To.IsZero() {
		return period, fmt.Errorf("período sem data final para a política %s", r.Policy)
	}

	if !period.From.IsZero() && period.From.After(period.To) {
		return period, fmt.Errorf("a data de início não pode ser posterior à data de fim")
	}

	return period, nil
}

// ReportConfig é uma variante de relatório com sua origem, período e destinos
type ReportConfig struct {
	Name         string             `mapstructure:"name" json:"name"`
	Kind         string             `mapstructure:"kind" json:"kind"`
	Source       ReportSource       `mapstructure:"source" json:"source"`
	Model        string             `mapstructure:"model" json:"model,omitempty"`
	Method       string             `mapstructure:"method" json:"method,omitempty"`
	ResultModel  string             `mapstructure:"result_model" json:"result_model,omitempty"`
	WizardValues map[string]any     `mapstructure:"wizard_values" json:"wizard_values,omitempty"`
	SaveMethod   WizardSaveMethod   `mapstructure:"save_method" json:"save_method,omitempty"`
	Fields       []Field            `mapstructure:"fields" json:"fields,omitempty"`
	Domain       []any              `mapstructure:"domain" json:"domain,omitempty"`
	Limit        int                `mapstructure:"limit" json:"limit,omitempty"`
	DateRange    DateRange          `mapstructure:"date_range" json:"date_range"`
	FromField    string             `mapstructure:"from_field" json:"from_field,omitempty"`
	ToField      string             `mapstructure:"to_field" json:"to_field,omitempty"`
	Destinations []SheetDestination `mapstructure:"destinations" json:"destinations"`
}

// FieldSpec retorna a especificação de campos do relatório
func (r ReportConfig) FieldSpec() FieldSpec {
	return FieldSpec{Fields: r.Fields}
}

// WizardModel retorna o modelo do wizard, com o padrão do relatório de estoque
func (r ReportConfig) WizardModel() string {
	if r.Model != "" {
		return r.Model
	}
	return DefaultWizardModel
}

// WizardMethod retorna o método do botão que calcula o relatório
func (r ReportConfig) WizardMethod() string {
	if r.Method != "" {
		return r.Method
	}
	return DefaultWizardMethod
}

// WizardSave retorna o método de gravação do wizard (web_save por padrão)
func (r ReportConfig) WizardSave() WizardSaveMethod {
	if r.SaveMethod == "" {
		return WizardSaveWebSave
	}
	return r.SaveMethod
}

// DateFields retorna os nomes dos campos de data do wizard
func (r ReportConfig) DateFields() (string, string) {
	from, to := r.FromField, r.ToField
	if from == "" {
		from = DefaultFromField
	}
	if to == "" {
		to = DefaultToField
	}
	return from, to
}

// FetchLimit retorna o tamanho de página da leitura: o limite do relatório,
// senão o limite configurado para o ERP, senão o padrão
func (r ReportConfig) FetchLimit(configured int) int {
	if r.Limit > 0 {
		return r.Limit
	}
	if configured > 0 {
		return configured
	}
	return DefaultFetchLimit
}

// DestinationFor retorna o destino configurado para a empresa
func (r ReportConfig) DestinationFor(entityID int) (SheetDestination, bool) {
	for _, destination := range r.Destinations {
		if destination.EntityID == entityID {
			return destination.WithDefaults(), true
		}
	}
	return SheetDestination{}, false
}

// Validate verifica se a configuração do relatório está completa
func (r ReportConfig) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("relatório sem nome")
	}
	if r.Kind == "" {
		return fmt.Errorf("relatório %s sem kind", r.Name)
	}

	switch r.Source {
	case ReportSourceWizard, ReportSourceSearch:
		if r.ResultModel == "" {
			return fmt.Errorf("relatório %s sem result_model", r.Name)
		}
	case ReportSourceDownload:
		if r.Model == "" {
			return fmt.Errorf("relatório %s precisa de model", r.Name)
		}
	case ReportSourceMethod:
		if r.Model == "" || r.Method == "" {
			return fmt.Errorf("relatório %s precisa de model e method", r.Name)
		}
	default:
		return fmt.Errorf("relatório %s com origem desconhecida: %s", r.Name, r.Source)
	}

	switch r.WizardSave() {
	case WizardSaveWebSave, WizardSaveCreate:
	default:
		return fmt.Errorf("relatório %s com save_method desconhecido: %s", r.Name, r.SaveMethod)
	}

	for _, destination := range r.Destinations {
		if destination.SpreadsheetID == "" || destination.Worksheet == "" {
			return fmt.Errorf("relatório %s com destino incompleto para a empresa %d", r.Name, destination.EntityID)
		}
	}

	return nil
}
