package domain

import "time"

// PipelineState representa o estado de um par (empresa, relatório) dentro de uma execução
type PipelineState string

const (
	PipelineStatePending        PipelineState = "pending"
	PipelineStateAuthenticated  PipelineState = "authenticated"
	PipelineStateEntitySelected PipelineState = "entity_selected"
	PipelineStateReportComputed PipelineState = "report_computed"
	PipelineStateFetched        PipelineState = "fetched"
	PipelineStateNormalized     PipelineState = "normalized"
	PipelineStateExported       PipelineState = "exported"
	PipelineStateSynced         PipelineState = "synced"
	PipelineStateSkipped        PipelineState = "skipped"
	PipelineStateFailed         PipelineState = "failed"
)

// IsTerminal indica se o estado encerra o processamento do par
func (s PipelineState) IsTerminal() bool {
	return s == PipelineStateSynced || s == PipelineStateSkipped || s == PipelineStateFailed
}

// SyncRun é o histórico de processamento de um par (empresa, relatório)
type SyncRun struct {
	ID           string        `json:"id"`
	RunID        string        `json:"run_id"`
	EntityID     int           `json:"entity_id"`
	EntityName   string        `json:"entity_name"`
	ReportName   string        `json:"report_name"`
	State        PipelineState `json:"state"`
	Attempts     int           `json:"attempts"`
	Rows         int           `json:"rows"`
	ArtifactPath string        `json:"artifact_path,omitempty"`
	Error        string        `json:"error,omitempty"`
	StartedAt    time.Time     `json:"started_at"`
	FinishedAt   time.Time     `json:"finished_at"`
}

// RunSummary resume uma execução completa do pipeline
type RunSummary struct {
	RunID      string     `json:"run_id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
	Pairs      []*SyncRun `json:"pairs"`
}

// Count retorna quantos pares terminaram no estado informado
func (s *RunSummary) Count(state PipelineState) int {
	total := 0
	for _, pair := range s.Pairs {
		if pair.State == state {
			total++
		}
	}
	return total
}
