package odoo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vfg2006/stock-report-sync/infrastructure/integrator/odoo/odooclient"
	"github.com/vfg2006/stock-report-sync/internal/domain"
)

// wizardValues junta os valores fixos do wizard com as datas do período
func wizardValues(report domain.ReportConfig, period domain.Period) map[string]any {
	values := make(map[string]any, len(report.WizardValues)+2)
	for key, value := range report.WizardValues {
		values[key] = value
	}

	fromField, toField := report.DateFields()
	values[fromField] = period.FromParam()
	values[toField] = period.ToParam()

	return values
}

func (s *OdooService) saveWizard(ctx context.Context, session *odooclient.Session, report domain.ReportConfig, period domain.Period) (int, error) {
	call := odooclient.Call{
		Model:  report.WizardModel(),
		Method: string(report.WizardSave()),
	}
	if report.WizardSave() == domain.WizardSaveCreate {
		call.Args = []any{wizardValues(report, period)}
	} else {
		call.Args = []any{[]int{}, wizardValues(report, period)}
		call.Kwargs = map[string]any{"specification": map[string]any{}}
	}

	result, err := s.Client.Invoke(ctx, session, call)
	if err != nil {
		return 0, fmt.Errorf("erro ao salvar o wizard %s: %w", report.WizardModel(), err)
	}

	wizardID, ok := savedID(report.WizardSave(), result)
	if !ok {
		return 0, fmt.Errorf("o wizard %s não retornou id: %s", report.WizardModel(), string(result))
	}

	return wizardID, nil
}

// savedID lê o id do wizard: create devolve o id puro, web_save devolve [{"id": N}]
func savedID(method domain.WizardSaveMethod, result json.RawMessage) (int, bool) {
	if method == domain.WizardSaveCreate {
		var id int
		if err := json.Unmarshal(result, &id); err != nil || id == 0 {
			return 0, false
		}
		return id, true
	}

	var saved []struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(result, &saved); err != nil || len(saved) == 0 || saved[0].ID == 0 {
		return 0, false
	}
	return saved[0].ID, true
}

// pressButton executa a ação do wizard. Quando a ação é um relatório xlsx devolve o report_name.
func (s *OdooService) pressButton(ctx context.Context, session *odooclient.Session, report domain.ReportConfig, wizardID int) (string, error) {
	result, err := s.Client.Invoke(ctx, session, odooclient.Call{
		Model:   report.WizardModel(),
		Method:  report.WizardMethod(),
		Args:    []any{[]int{wizardID}},
		Context: activeContext(report, wizardID),
		Button:  true,
	})
	if err != nil {
		return "", fmt.Errorf("erro ao calcular o relatório %s: %w", report.Name, err)
	}

	var action struct {
		ReportName string `json:"report_name"`
	}
	if err := json.Unmarshal(result, &action); err != nil {
		// ações que não são relatório retornam true ou uma lista
		return "", nil
	}

	return action.ReportName, nil
}

func activeContext(report domain.ReportConfig, wizardID int) map[string]any {
	if wizardID == 0 {
		return nil
	}
	return map[string]any{
		"active_model": report.WizardModel(),
		"active_id":    wizardID,
		"active_ids":   []int{wizardID},
	}
}
