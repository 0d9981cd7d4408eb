package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gsheetsmocks "github.com/vfg2006/stock-report-sync/infrastructure/integrator/gsheets/mocks"
	"github.com/vfg2006/stock-report-sync/infrastructure/integrator/gsheets/sheetsclient"
	"github.com/vfg2006/stock-report-sync/infrastructure/integrator/odoo"
	odoomocks "github.com/vfg2006/stock-report-sync/infrastructure/integrator/odoo/mocks"
	"github.com/vfg2006/stock-report-sync/infrastructure/integrator/odoo/odooclient"
	repomocks "github.com/vfg2006/stock-report-sync/infrastructure/repository/mocks"
	"github.com/vfg2006/stock-report-sync/internal/config"
	"github.com/vfg2006/stock-report-sync/internal/domain"
	"github.com/vfg2006/stock-report-sync/internal/usecases/exporting"
	"github.com/vfg2006/stock-report-sync/internal/usecases/syncing"
	"go.uber.org/mock/gomock"
)

var (
	acme   = domain.Entity{ID: 1, Name: "Acme"}
	globex = domain.Entity{ID: 2, Name: "Globex Corp"}
)

func closingReport() domain.ReportConfig {
	return domain.ReportConfig{
		Name:        "closing_stock",
		Kind:        "stock",
		Source:      domain.ReportSourceWizard,
		ResultModel: "stock.forecast.report.line",
		Fields: []domain.Field{
			{Name: "product_id", Relational: true},
			{Name: "closing_qty"},
		},
		Destinations: []domain.SheetDestination{
			{EntityID: 1, SpreadsheetID: "sheet-acme", Worksheet: "Closing"},
			{EntityID: 2, SpreadsheetID: "sheet-globex", Worksheet: "Closing"},
		},
	}
}

func widgetRecords() []domain.RawRecord {
	records := make([]domain.RawRecord, 0, 3)
	for i := 0; i < 3; i++ {
		records = append(records, domain.RawRecord{
			"product_id":  map[string]any{"display_name": "Widget"},
			"closing_qty": float64(i + 1),
		})
	}
	return records
}

func testConfig(t *testing.T, entities []domain.Entity, reports []domain.ReportConfig) *config.Config {
	t.Helper()
	return &config.Config{
		App:  config.App{DownloadDir: t.TempDir()},
		Odoo: config.Odoo{Timezone: "UTC"},
		Pipeline: config.Pipeline{
			MaxAttempts:      3,
			RetryStepSeconds: 10,
			RetryCapSeconds:  15,
			SettleSeconds:    0,
			SheetTimezone:    "UTC",
		},
		Entities: entities,
		Reports:  reports,
	}
}

type fixture struct {
	cfg        *config.Config
	integrator *odoomocks.MockReportIntegrator
	grid       *gsheetsmocks.MockGrid
	recorder   *repomocks.MockSyncRunRepository
	slept      []time.Duration
	saved      []*domain.SyncRun
	orch       *Orchestrator
}

func newFixture(t *testing.T, entities []domain.Entity, reports []domain.ReportConfig) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		cfg:        testConfig(t, entities, reports),
		integrator: odoomocks.NewMockReportIntegrator(ctrl),
		grid:       gsheetsmocks.NewMockGrid(ctrl),
		recorder:   repomocks.NewMockSyncRunRepository(ctrl),
	}

	synchronizer, err := syncing.NewService(f.cfg, f.grid)
	require.NoError(t, err)

	f.recorder.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, run *domain.SyncRun) error {
		f.saved = append(f.saved, run)
		return nil
	}).AnyTimes()

	f.orch = New(f.cfg, f.integrator, exporting.NewService(f.cfg), synchronizer, f.recorder)
	f.orch.sleep = func(_ context.Context, d time.Duration) error {
		f.slept = append(f.slept, d)
		return nil
	}
	f.orch.now = func() time.Time { return time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC) }

	return f
}

func (f *fixture) expectSheetWrite(spreadsheetID string, rows int) {
	worksheet := &sheetsclient.Worksheet{SpreadsheetID: spreadsheetID, Title: "Closing", SheetID: 1}
	f.grid.EXPECT().OpenWorksheet(gomock.Any(), spreadsheetID, "Closing").Return(worksheet, nil)
	f.grid.EXPECT().Clear(gomock.Any(), worksheet, domain.DefaultClearRange).Return(nil)
	f.grid.EXPECT().Update(gomock.Any(), worksheet, domain.DefaultAnchorCell, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sheetsclient.Worksheet, _ string, values [][]any) error {
			// cabeçalho + linhas, sem a coluna de índice do artefato
			if len(values) != rows+1 || values[0][0] != "product_id" {
				return errors.New("valores inesperados")
			}
			return nil
		})
	f.grid.EXPECT().Update(gomock.Any(), worksheet, domain.DefaultTimestampCell, gomock.Any()).Return(nil)
}

func TestOrchestrator_RunSincronizaPar(t *testing.T) {
	f := newFixture(t, []domain.Entity{acme}, []domain.ReportConfig{closingReport()})
	session := &odooclient.Session{UID: 2}
	computed := &odoo.ComputedReport{EntityID: 1, WizardID: 42}

	f.integrator.EXPECT().Authenticate(gomock.Any()).Return(session, nil)
	f.integrator.EXPECT().SwitchEntity(gomock.Any(), session, acme).Return(true)
	f.integrator.EXPECT().ComputeReport(gomock.Any(), session, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *odooclient.Session, report domain.ReportConfig, period domain.Period) (*odoo.ComputedReport, error) {
			assert.Equal(t, "closing_stock", report.Name)
			assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), period.From)
			assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), period.To)
			return computed, nil
		})
	f.integrator.EXPECT().FetchRecords(gomock.Any(), session, computed).Return(&domain.RecordSet{Records: widgetRecords()}, nil)
	f.expectSheetWrite("sheet-acme", 3)

	summary, err := f.orch.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, summary.Pairs, 1)
	run := summary.Pairs[0]
	assert.Equal(t, domain.PipelineStateSynced, run.State)
	assert.Equal(t, 1, run.Attempts)
	assert.Equal(t, 3, run.Rows)
	assert.Empty(t, run.Error)
	assert.Equal(t, filepath.Join(f.cfg.App.DownloadDir, "acme_stock_2024-01-31.xlsx"), run.ArtifactPath)
	assert.FileExists(t, run.ArtifactPath)
	assert.Empty(t, f.slept)

	require.Len(t, f.saved, 1)
	assert.Equal(t, summary.RunID, f.saved[0].RunID)
}

func TestOrchestrator_ColunasNaOrdemDaOrigem(t *testing.T) {
	report := domain.ReportConfig{
		Name:   "pending_slider",
		Kind:   "pending_slider",
		Source: domain.ReportSourceDownload,
		Model:  "ppc.report",
		Destinations: []domain.SheetDestination{
			{EntityID: 1, SpreadsheetID: "sheet-pending", Worksheet: "Pending", ClearRange: "A2:AD", AnchorCell: "A2", TimestampCell: "C1"},
		},
	}
	f := newFixture(t, []domain.Entity{acme}, []domain.ReportConfig{report})
	session := &odooclient.Session{UID: 2}

	f.integrator.EXPECT().Authenticate(gomock.Any()).Return(session, nil)
	f.integrator.EXPECT().SwitchEntity(gomock.Any(), session, acme).Return(true)
	f.integrator.EXPECT().ComputeReport(gomock.Any(), session, gomock.Any(), gomock.Any()).Return(&odoo.ComputedReport{EntityID: 1}, nil)
	f.integrator.EXPECT().FetchRecords(gomock.Any(), session, gomock.Any()).Return(&domain.RecordSet{
		Columns: []string{"Order No", "Buyer", "Qty", "Delivery Date"},
		Records: []domain.RawRecord{
			{"Order No": "SO-1", "Buyer": "Acme", "Qty": "10", "Delivery Date": "2024-02-01"},
		},
	}, nil)

	worksheet := &sheetsclient.Worksheet{SpreadsheetID: "sheet-pending", Title: "Pending", SheetID: 1}
	var header []any
	f.grid.EXPECT().OpenWorksheet(gomock.Any(), "sheet-pending", "Pending").Return(worksheet, nil)
	f.grid.EXPECT().Clear(gomock.Any(), worksheet, "A2:AD").Return(nil)
	f.grid.EXPECT().Update(gomock.Any(), worksheet, "A2", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sheetsclient.Worksheet, _ string, values [][]any) error {
			header = values[0]
			return nil
		})
	f.grid.EXPECT().Update(gomock.Any(), worksheet, "C1", gomock.Any()).Return(nil)

	summary, err := f.orch.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.PipelineStateSynced, summary.Pairs[0].State)
	assert.Equal(t, []any{"Order No", "Buyer", "Qty", "Delivery Date"}, header)
}

func TestOrchestrator_IDDoParNuncaVazio(t *testing.T) {
	f := newFixture(t, []domain.Entity{acme}, []domain.ReportConfig{closingReport()})
	session := &odooclient.Session{UID: 2}

	ids := 0
	f.orch.newID = func() (string, error) {
		ids++
		if ids == 1 {
			return "run-1", nil
		}
		return "", errors.New("entropia indisponível")
	}

	f.integrator.EXPECT().Authenticate(gomock.Any()).Return(session, nil)
	f.integrator.EXPECT().SwitchEntity(gomock.Any(), session, acme).Return(true)
	f.integrator.EXPECT().ComputeReport(gomock.Any(), session, gomock.Any(), gomock.Any()).Return(&odoo.ComputedReport{EntityID: 1}, nil)
	f.integrator.EXPECT().FetchRecords(gomock.Any(), session, gomock.Any()).Return(&domain.RecordSet{}, nil)

	summary, err := f.orch.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "run-1", summary.RunID)
	require.Len(t, f.saved, 1)
	assert.Equal(t, "run-1-1-closing_stock", f.saved[0].ID)
}

func TestOrchestrator_TrocaDeEmpresaComNovasTentativas(t *testing.T) {
	f := newFixture(t, []domain.Entity{acme}, []domain.ReportConfig{closingReport()})
	session := &odooclient.Session{UID: 2}

	f.integrator.EXPECT().Authenticate(gomock.Any()).Return(session, nil)
	gomock.InOrder(
		f.integrator.EXPECT().SwitchEntity(gomock.Any(), session, acme).Return(false),
		f.integrator.EXPECT().SwitchEntity(gomock.Any(), session, acme).Return(false),
		f.integrator.EXPECT().SwitchEntity(gomock.Any(), session, acme).Return(true),
	)
	f.integrator.EXPECT().ComputeReport(gomock.Any(), session, gomock.Any(), gomock.Any()).Return(&odoo.ComputedReport{}, nil)
	f.integrator.EXPECT().FetchRecords(gomock.Any(), session, gomock.Any()).Return(&domain.RecordSet{Records: widgetRecords()}, nil)
	f.expectSheetWrite("sheet-acme", 3)

	summary, err := f.orch.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.PipelineStateSynced, summary.Pairs[0].State)
	assert.Equal(t, 3, summary.Pairs[0].Attempts)
	// min(15s, 1*10s), min(15s, 2*10s)
	assert.Equal(t, []time.Duration{10 * time.Second, 15 * time.Second}, f.slept)
}

func TestOrchestrator_FalhaEsgotaTentativasESegue(t *testing.T) {
	f := newFixture(t, []domain.Entity{acme, globex}, []domain.ReportConfig{closingReport()})
	session := &odooclient.Session{UID: 2}
	computeErr := errors.New("timeout")

	f.integrator.EXPECT().Authenticate(gomock.Any()).Return(session, nil)
	f.integrator.EXPECT().SwitchEntity(gomock.Any(), session, acme).Return(true).Times(3)
	f.integrator.EXPECT().ComputeReport(gomock.Any(), session, gomock.Any(), gomock.Any()).Return(nil, computeErr).Times(3)

	f.integrator.EXPECT().SwitchEntity(gomock.Any(), session, globex).Return(true)
	f.integrator.EXPECT().ComputeReport(gomock.Any(), session, gomock.Any(), gomock.Any()).Return(&odoo.ComputedReport{EntityID: 2}, nil)
	f.integrator.EXPECT().FetchRecords(gomock.Any(), session, gomock.Any()).Return(&domain.RecordSet{Records: widgetRecords()[:2]}, nil)
	f.expectSheetWrite("sheet-globex", 2)

	summary, err := f.orch.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, summary.Pairs, 2)

	failed := summary.Pairs[0]
	assert.Equal(t, domain.PipelineStateFailed, failed.State)
	assert.Equal(t, 3, failed.Attempts)
	assert.Equal(t, "timeout", failed.Error)

	synced := summary.Pairs[1]
	assert.Equal(t, domain.PipelineStateSynced, synced.State)
	assert.Equal(t, "Globex Corp", synced.EntityName)
	assert.Equal(t, 2, synced.Rows)

	assert.Equal(t, 1, summary.Count(domain.PipelineStateFailed))
	assert.Equal(t, 1, summary.Count(domain.PipelineStateSynced))
	assert.Len(t, f.slept, 2)
	assert.Len(t, f.saved, 2)
}

func TestOrchestrator_SemDadosPulaPar(t *testing.T) {
	f := newFixture(t, []domain.Entity{acme}, []domain.ReportConfig{closingReport()})
	session := &odooclient.Session{UID: 2}

	f.integrator.EXPECT().Authenticate(gomock.Any()).Return(session, nil)
	f.integrator.EXPECT().SwitchEntity(gomock.Any(), session, acme).Return(true)
	f.integrator.EXPECT().ComputeReport(gomock.Any(), session, gomock.Any(), gomock.Any()).Return(&odoo.ComputedReport{}, nil)
	f.integrator.EXPECT().FetchRecords(gomock.Any(), session, gomock.Any()).Return(&domain.RecordSet{}, nil)

	summary, err := f.orch.Run(context.Background())

	require.NoError(t, err)
	run := summary.Pairs[0]
	assert.Equal(t, domain.PipelineStateSkipped, run.State)
	assert.Equal(t, 1, run.Attempts)
	assert.Empty(t, run.ArtifactPath)

	entries, err := os.ReadDir(f.cfg.App.DownloadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOrchestrator_FalhaNaAutenticacaoAborta(t *testing.T) {
	f := newFixture(t, []domain.Entity{acme}, []domain.ReportConfig{closingReport()})
	authErr := &odooclient.AuthError{Login: "bot", Err: odooclient.ErrNoUID}

	f.integrator.EXPECT().Authenticate(gomock.Any()).Return(nil, authErr)

	summary, err := f.orch.Run(context.Background())

	assert.Nil(t, summary)
	assert.True(t, odooclient.IsAuthError(err))
	assert.Empty(t, f.saved)
}

func TestOrchestrator_PeriodoInvalidoFalhaSemTentar(t *testing.T) {
	report := closingReport()
	report.DateRange = domain.DateRange{Policy: domain.DateRangeExplicit, From: "2024-02-10", To: "2024-02-01"}
	f := newFixture(t, []domain.Entity{acme}, []domain.ReportConfig{report})

	f.integrator.EXPECT().Authenticate(gomock.Any()).Return(&odooclient.Session{UID: 2}, nil)

	summary, err := f.orch.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.PipelineStateFailed, summary.Pairs[0].State)
	assert.Equal(t, 0, summary.Pairs[0].Attempts)
}

func TestOrchestrator_RunReportDesconhecido(t *testing.T) {
	f := newFixture(t, []domain.Entity{acme}, []domain.ReportConfig{closingReport()})

	summary, err := f.orch.RunReport(context.Background(), "inexistente")

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, ErrUnknownReport)
}

func TestOrchestrator_Pairs(t *testing.T) {
	pending := domain.ReportConfig{
		Name:         "pending_slider",
		Kind:         "pending",
		Source:       domain.ReportSourceSearch,
		ResultModel:  "pending.slider",
		Destinations: []domain.SheetDestination{{EntityID: 2, SpreadsheetID: "sheet-pending", Worksheet: "Pending"}},
	}
	f := newFixture(t, []domain.Entity{acme, globex}, []domain.ReportConfig{closingReport(), pending})

	pairs := f.orch.Pairs("")

	require.Len(t, pairs, 3)
	assert.Equal(t, "Acme/closing_stock", pairs[0].Entity.Name+"/"+pairs[0].Report.Name)
	assert.Equal(t, "Globex Corp/closing_stock", pairs[1].Entity.Name+"/"+pairs[1].Report.Name)
	assert.Equal(t, "Globex Corp/pending_slider", pairs[2].Entity.Name+"/"+pairs[2].Report.Name)
	assert.Equal(t, domain.DefaultAnchorCell, pairs[2].Destination.AnchorCell)

	assert.Len(t, f.orch.Pairs("pending_slider"), 1)
}

func TestOrchestrator_Backoff(t *testing.T) {
	f := newFixture(t, nil, nil)

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{attempt: 1, expected: 10 * time.Second},
		{attempt: 2, expected: 15 * time.Second},
		{attempt: 5, expected: 15 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, f.orch.Backoff(tt.attempt))
	}
}
