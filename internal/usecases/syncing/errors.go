package syncing

import "fmt"

const (
	StepOpen      = "open"
	StepClear     = "clear"
	StepSettle    = "settle"
	StepWrite     = "write"
	StepTimestamp = "timestamp"
)

// SyncError identifica o destino e a etapa em que a sincronização falhou
type SyncError struct {
	SpreadsheetID string
	Worksheet     string
	Step          string
	Err           error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("falha na etapa %s ao sincronizar %s/%s: %v", e.Step, e.SpreadsheetID, e.Worksheet, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
