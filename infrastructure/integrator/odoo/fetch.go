package odoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/stock-report-sync/infrastructure/integrator/odoo/odooclient"
	"github.com/vfg2006/stock-report-sync/internal/domain"
	"github.com/xuri/excelize/v2"
)

type searchReadResult struct {
	Length  int                `json:"length"`
	Records []domain.RawRecord `json:"records"`
}

// specification monta o "specification" do web_search_read a partir dos campos do relatório
func specification(fields []domain.Field) map[string]any {
	spec := make(map[string]any, len(fields))
	for _, field := range fields {
		if !field.Relational {
			spec[field.Name] = map[string]any{}
			continue
		}

		subfields := map[string]any{"display_name": map[string]any{}}
		for _, sub := range field.Subfields {
			subfields[sub] = map[string]any{}
		}
		spec[field.Name] = map[string]any{"fields": subfields}
	}
	return spec
}

func (s *OdooService) countLimit() int {
	if s.cfg.Odoo.CountLimit > 0 {
		return s.cfg.Odoo.CountLimit
	}
	return domain.DefaultCountLimit
}

func (s *OdooService) searchRead(ctx context.Context, session *odooclient.Session, computed *ComputedReport) (*domain.RecordSet, error) {
	report := computed.Report
	limit := report.FetchLimit(s.cfg.Odoo.PageLimit)

	domainFilter := report.Domain
	if domainFilter == nil {
		domainFilter = []any{}
	}

	var records []domain.RawRecord
	for offset := 0; ; offset += limit {
		result, err := s.Client.Invoke(ctx, session, odooclient.Call{
			Model:  report.ResultModel,
			Method: "web_search_read",
			Kwargs: map[string]any{
				"specification": specification(report.Fields),
				"domain":        domainFilter,
				"offset":        offset,
				"limit":         limit,
				"order":         "",
				"count_limit":   s.countLimit(),
			},
			Context: activeContext(report, computed.WizardID),
		})
		if err != nil {
			return nil, fmt.Errorf("erro ao ler %s: %w", report.ResultModel, err)
		}

		var page searchReadResult
		if err := json.Unmarshal(result, &page); err != nil {
			return nil, fmt.Errorf("resposta inválida de %s: %w", report.ResultModel, err)
		}

		records = append(records, page.Records...)

		if len(page.Records) < limit || len(records) >= page.Length {
			break
		}
	}

	logrus.WithFields(logrus.Fields{
		"report": report.Name,
		"model":  report.ResultModel,
		"rows":   len(records),
	}).Debug("Registros lidos do ERP")

	// a ordem das colunas vem da especificação de campos do relatório
	return &domain.RecordSet{Records: records}, nil
}

// callMethod chama model.method([company], from, to), que devolve a lista de registros pronta
func (s *OdooService) callMethod(ctx context.Context, session *odooclient.Session, computed *ComputedReport) (*domain.RecordSet, error) {
	report := computed.Report

	result, err := s.Client.Invoke(ctx, session, odooclient.Call{
		Model:  report.Model,
		Method: report.Method,
		Args: []any{
			[]int{computed.EntityID},
			computed.Period.FromParam(),
			computed.Period.ToParam(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao chamar %s.%s: %w", report.Model, report.Method, err)
	}

	var records []domain.RawRecord
	if err := json.Unmarshal(result, &records); err != nil {
		return nil, fmt.Errorf("resposta inválida de %s.%s: %w", report.Model, report.Method, err)
	}

	columns, err := keyOrder(result)
	if err != nil {
		return nil, fmt.Errorf("resposta inválida de %s.%s: %w", report.Model, report.Method, err)
	}

	return &domain.RecordSet{Columns: columns, Records: records}, nil
}

// keyOrder devolve as chaves dos objetos de uma lista JSON na ordem em que aparecem,
// sem repetição. O decode em map perde essa ordem.
func keyOrder(result json.RawMessage) ([]string, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(result, &items); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var keys []string
	for _, item := range items {
		decoder := json.NewDecoder(bytes.NewReader(item))
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		if delim, ok := token.(json.Delim); !ok || delim != '{' {
			continue
		}

		for decoder.More() {
			token, err := decoder.Token()
			if err != nil {
				return nil, err
			}
			key, ok := token.(string)
			if !ok {
				return nil, fmt.Errorf("chave inesperada no objeto: %v", token)
			}

			var skip json.RawMessage
			if err := decoder.Decode(&skip); err != nil {
				return nil, err
			}

			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}

	return keys, nil
}

func (s *OdooService) download(ctx context.Context, session *odooclient.Session, computed *ComputedReport) (*domain.RecordSet, error) {
	token, err := s.Client.CSRFToken(ctx, session)
	if err != nil {
		return nil, err
	}

	form, err := downloadForm(session, computed, token)
	if err != nil {
		return nil, err
	}

	content, err := s.Client.Download(ctx, session, form)
	if err != nil {
		return nil, fmt.Errorf("erro ao baixar o relatório %s: %w", computed.ReportName, err)
	}

	return parseWorkbook(content)
}

func downloadForm(session *odooclient.Session, computed *ComputedReport, csrfToken string) (url.Values, error) {
	fromField, toField := computed.Report.DateFields()
	options, err := json.Marshal(map[string]any{
		fromField:    computed.Period.FromParam(),
		toField:      computed.Period.ToParam(),
		"company_id": computed.EntityID,
	})
	if err != nil {
		return nil, err
	}

	sessionContext, err := json.Marshal(session.Context())
	if err != nil {
		return nil, err
	}

	reportPath := fmt.Sprintf("/report/xlsx/%s/%d?options=%s&context=%s",
		computed.ReportName, computed.WizardID, options, sessionContext)

	data, err := json.Marshal([]string{reportPath, "xlsx"})
	if err != nil {
		return nil, err
	}

	return url.Values{
		"data":       {string(data)},
		"context":    {string(sessionContext)},
		"token":      {"dummy"},
		"csrf_token": {csrfToken},
	}, nil
}

// parseWorkbook lê a primeira planilha do xlsx baixado, usando a primeira linha como chaves.
// O cabeçalho define a ordem das colunas.
func parseWorkbook(content []byte) (*domain.RecordSet, error) {
	file, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir o xlsx baixado: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return &domain.RecordSet{}, nil
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("erro ao ler o xlsx baixado: %w", err)
	}
	if len(rows) < 2 {
		return &domain.RecordSet{}, nil
	}

	header := rows[0]
	columns := make([]string, 0, len(header))
	for _, column := range header {
		if column != "" {
			columns = append(columns, column)
		}
	}

	records := make([]domain.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(domain.RawRecord, len(header))
		for i, column := range header {
			if column == "" {
				continue
			}
			if i < len(row) {
				record[column] = row[i]
			} else {
				record[column] = ""
			}
		}
		records = append(records, record)
	}

	return &domain.RecordSet{Columns: columns, Records: records}, nil
}
