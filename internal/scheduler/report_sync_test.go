package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/stock-report-sync/internal/config"
	"github.com/vfg2006/stock-report-sync/internal/domain"
	"github.com/vfg2006/stock-report-sync/internal/usecases/pipeline"
	"github.com/vfg2006/stock-report-sync/internal/usecases/pipeline/mocks"
	"go.uber.org/mock/gomock"
)

func newReportSyncService(runner pipeline.Runner) *ReportSyncService {
	return NewReportSyncService(runner, &config.Config{
		ReportSync: config.ReportSync{CronSchedule: "0 7 * * *", Enabled: true},
	})
}

func summaryWith(states ...domain.PipelineState) *domain.RunSummary {
	summary := &domain.RunSummary{RunID: "abc123"}
	for _, state := range states {
		summary.Pairs = append(summary.Pairs, &domain.SyncRun{State: state})
	}
	return summary
}

func TestReportSyncService_RunOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRunner := mocks.NewMockRunner(ctrl)
	mockRunner.EXPECT().Run(gomock.Any()).Return(summaryWith(domain.PipelineStateSynced, domain.PipelineStateFailed), nil)

	service := newReportSyncService(mockRunner)
	summary, err := service.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Len(t, summary.Pairs, 2)

	status := service.GetStatus()
	assert.Equal(t, false, status["sync_running"])
	assert.Equal(t, "abc123", status["last_run_id"])
	assert.Equal(t, map[string]int{"synced": 1, "skipped": 0, "failed": 1}, status["last_run"])
	assert.NotContains(t, status, "last_error")
}

func TestReportSyncService_RunOnceComErro(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRunner := mocks.NewMockRunner(ctrl)
	mockRunner.EXPECT().Run(gomock.Any()).Return(nil, errors.New("falha na autenticação"))

	service := newReportSyncService(mockRunner)
	_, err := service.RunOnce(context.Background())

	require.Error(t, err)
	assert.Equal(t, "falha na autenticação", service.GetStatus()["last_error"])
}

func TestReportSyncService_RunOnceJaEmAndamento(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := newReportSyncService(mocks.NewMockRunner(ctrl))
	service.syncRunning = true

	_, err := service.RunOnce(context.Background())

	assert.ErrorIs(t, err, ErrSyncInProgress)
}

func TestReportSyncService_TriggerManualSync(t *testing.T) {
	tests := []struct {
		name        string
		reportName  string
		running     bool
		setup       func(runner *mocks.MockRunner, done chan struct{})
		expectedErr error
	}{
		{
			name:       "todos os relatórios",
			reportName: "",
			setup: func(runner *mocks.MockRunner, done chan struct{}) {
				runner.EXPECT().Run(gomock.Any()).DoAndReturn(func(context.Context) (*domain.RunSummary, error) {
					close(done)
					return summaryWith(domain.PipelineStateSynced), nil
				})
			},
		},
		{
			name:       "um relatório",
			reportName: "closing_stock",
			setup: func(runner *mocks.MockRunner, done chan struct{}) {
				runner.EXPECT().Pairs("closing_stock").Return([]pipeline.Pair{{}})
				runner.EXPECT().RunReport(gomock.Any(), "closing_stock").DoAndReturn(func(context.Context, string) (*domain.RunSummary, error) {
					close(done)
					return summaryWith(domain.PipelineStateSynced), nil
				})
			},
		},
		{
			name:       "relatório desconhecido",
			reportName: "inexistente",
			setup: func(runner *mocks.MockRunner, done chan struct{}) {
				runner.EXPECT().Pairs("inexistente").Return(nil)
				close(done)
			},
			expectedErr: pipeline.ErrUnknownReport,
		},
		{
			name:       "já em andamento",
			reportName: "",
			running:    true,
			setup: func(runner *mocks.MockRunner, done chan struct{}) {
				close(done)
			},
			expectedErr: ErrSyncInProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRunner := mocks.NewMockRunner(ctrl)
			done := make(chan struct{})
			tt.setup(mockRunner, done)

			service := newReportSyncService(mockRunner)
			service.syncRunning = tt.running

			err := service.TriggerManualSync(tt.reportName)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}

			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("sincronização não executada")
			}

			if tt.expectedErr == nil {
				assert.Eventually(t, func() bool { return !service.IsRunning() }, 2*time.Second, 10*time.Millisecond)
			}
		})
	}
}

func TestReportSyncService_StartDesabilitado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := NewReportSyncService(mocks.NewMockRunner(ctrl), &config.Config{
		ReportSync: config.ReportSync{CronSchedule: "0 7 * * *", Enabled: false},
	})

	assert.NoError(t, service.Start(context.Background()))
	assert.Equal(t, false, service.GetStatus()["sync_enabled"])
}

func TestReportSyncService_StartCronInvalido(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := NewReportSyncService(mocks.NewMockRunner(ctrl), &config.Config{
		ReportSync: config.ReportSync{CronSchedule: "não é cron", Enabled: true},
	})

	assert.Error(t, service.Start(context.Background()))
}
