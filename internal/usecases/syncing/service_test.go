package syncing

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/stock-report-sync/infrastructure/integrator/gsheets/mocks"
	"github.com/vfg2006/stock-report-sync/infrastructure/integrator/gsheets/sheetsclient"
	"github.com/vfg2006/stock-report-sync/internal/config"
	"github.com/vfg2006/stock-report-sync/internal/domain"
	"go.uber.org/mock/gomock"
)

var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)

func newTestService(t *testing.T, grid sheetsclient.Grid, slept *[]time.Duration) *Service {
	t.Helper()
	location, err := time.LoadLocation("Asia/Dhaka")
	require.NoError(t, err)

	return &Service{
		grid:     grid,
		settle:   2 * time.Second,
		location: location,
		sleep: func(ctx context.Context, d time.Duration) error {
			*slept = append(*slept, d)
			return nil
		},
		now: func() time.Time { return time.Date(2024, 2, 1, 4, 30, 0, 0, time.UTC) },
	}
}

func acmeDestination() domain.SheetDestination {
	return domain.SheetDestination{EntityID: 1, SpreadsheetID: "sheet-acme", Worksheet: "Closing"}
}

func widgetTable() domain.Table {
	table := domain.Table{Columns: []string{"product_id"}}
	for i := 0; i < 3; i++ {
		table.Rows = append(table.Rows, domain.FlatRow{"product_id": "Widget"})
	}
	return table
}

func TestService_SyncTabelaVazia(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// nenhuma chamada esperada no grid: qualquer chamada falha o teste
	mockGrid := mocks.NewMockGrid(ctrl)
	slept := []time.Duration{}

	result, err := newTestService(t, mockGrid, &slept).Sync(context.Background(), domain.Table{Columns: []string{"a"}}, acmeDestination())

	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Empty(t, slept)
}

func TestService_SyncBlocoCompleto(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGrid := mocks.NewMockGrid(ctrl)
	worksheet := &sheetsclient.Worksheet{SpreadsheetID: "sheet-acme", Title: "Closing"}
	slept := []time.Duration{}
	var written [][]any
	var stamped string

	gomock.InOrder(
		mockGrid.EXPECT().OpenWorksheet(gomock.Any(), "sheet-acme", "Closing").Return(worksheet, nil),
		mockGrid.EXPECT().Clear(gomock.Any(), worksheet, "A:AA").Return(nil),
		mockGrid.EXPECT().Update(gomock.Any(), worksheet, "A1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sheetsclient.Worksheet, _ string, values [][]any) error {
				written = values
				return nil
			}),
		mockGrid.EXPECT().Update(gomock.Any(), worksheet, "AA2", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sheetsclient.Worksheet, _ string, values [][]any) error {
				stamped = values[0][0].(string)
				return nil
			}),
	)

	result, err := newTestService(t, mockGrid, &slept).Sync(context.Background(), widgetTable(), acmeDestination())

	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, 3, result.Rows)
	assert.Equal(t, []time.Duration{2 * time.Second}, slept)

	require.Len(t, written, 4)
	assert.Equal(t, []any{"product_id"}, written[0])
	for _, row := range written[1:] {
		assert.Equal(t, []any{"Widget"}, row)
	}

	assert.Regexp(t, timestampPattern, stamped)
	assert.Equal(t, "2024-02-01 10:30:00", stamped)
	assert.Equal(t, stamped, result.Timestamp)
}

func TestService_SyncDestinoCustomizado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGrid := mocks.NewMockGrid(ctrl)
	worksheet := &sheetsclient.Worksheet{SpreadsheetID: "sheet-ppc", Title: "Pending"}
	slept := []time.Duration{}
	destination := domain.SheetDestination{
		SpreadsheetID: "sheet-ppc",
		Worksheet:     "Pending",
		ClearRange:    "A2:AD",
		AnchorCell:    "A2",
		TimestampCell: "C1",
	}

	mockGrid.EXPECT().OpenWorksheet(gomock.Any(), "sheet-ppc", "Pending").Return(worksheet, nil)
	mockGrid.EXPECT().Clear(gomock.Any(), worksheet, "A2:AD").Return(nil)
	mockGrid.EXPECT().Update(gomock.Any(), worksheet, "A2", gomock.Any()).Return(nil)
	mockGrid.EXPECT().Update(gomock.Any(), worksheet, "C1", gomock.Any()).Return(nil)

	_, err := newTestService(t, mockGrid, &slept).Sync(context.Background(), widgetTable(), destination)
	require.NoError(t, err)
}

func TestService_SyncErros(t *testing.T) {
	worksheet := &sheetsclient.Worksheet{SpreadsheetID: "sheet-acme", Title: "Closing"}
	cause := errors.New("quota exceeded")

	tests := []struct {
		name         string
		setup        func(grid *mocks.MockGrid)
		expectedStep string
	}{
		{
			name: "falha ao abrir",
			setup: func(grid *mocks.MockGrid) {
				grid.EXPECT().OpenWorksheet(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, cause)
			},
			expectedStep: StepOpen,
		},
		{
			name: "falha ao limpar",
			setup: func(grid *mocks.MockGrid) {
				grid.EXPECT().OpenWorksheet(gomock.Any(), gomock.Any(), gomock.Any()).Return(worksheet, nil)
				grid.EXPECT().Clear(gomock.Any(), gomock.Any(), gomock.Any()).Return(cause)
			},
			expectedStep: StepClear,
		},
		{
			name: "falha ao escrever",
			setup: func(grid *mocks.MockGrid) {
				grid.EXPECT().OpenWorksheet(gomock.Any(), gomock.Any(), gomock.Any()).Return(worksheet, nil)
				grid.EXPECT().Clear(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				grid.EXPECT().Update(gomock.Any(), gomock.Any(), "A1", gomock.Any()).Return(cause)
			},
			expectedStep: StepWrite,
		},
		{
			name: "falha no carimbo",
			setup: func(grid *mocks.MockGrid) {
				grid.EXPECT().OpenWorksheet(gomock.Any(), gomock.Any(), gomock.Any()).Return(worksheet, nil)
				grid.EXPECT().Clear(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				grid.EXPECT().Update(gomock.Any(), gomock.Any(), "A1", gomock.Any()).Return(nil)
				grid.EXPECT().Update(gomock.Any(), gomock.Any(), "AA2", gomock.Any()).Return(cause)
			},
			expectedStep: StepTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockGrid := mocks.NewMockGrid(ctrl)
			tt.setup(mockGrid)
			slept := []time.Duration{}

			result, err := newTestService(t, mockGrid, &slept).Sync(context.Background(), widgetTable(), acmeDestination())

			assert.Nil(t, result)
			var syncErr *SyncError
			require.ErrorAs(t, err, &syncErr)
			assert.Equal(t, tt.expectedStep, syncErr.Step)
			assert.Equal(t, "sheet-acme", syncErr.SpreadsheetID)
			assert.Equal(t, "Closing", syncErr.Worksheet)
			assert.ErrorIs(t, err, cause)
		})
	}
}

func TestService_SyncContextoCancelado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGrid := mocks.NewMockGrid(ctrl)
	worksheet := &sheetsclient.Worksheet{SpreadsheetID: "sheet-acme", Title: "Closing"}
	mockGrid.EXPECT().OpenWorksheet(gomock.Any(), gomock.Any(), gomock.Any()).Return(worksheet, nil)
	mockGrid.EXPECT().Clear(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	slept := []time.Duration{}
	service := newTestService(t, mockGrid, &slept)
	service.sleep = func(ctx context.Context, d time.Duration) error { return context.Canceled }

	_, err := service.Sync(context.Background(), widgetTable(), acmeDestination())

	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, StepSettle, syncErr.Step)
}

func TestNewService(t *testing.T) {
	_, err := NewService(&config.Config{Pipeline: config.Pipeline{SheetTimezone: "Marte/Olympus"}}, nil)
	assert.Error(t, err)

	service, err := NewService(&config.Config{Pipeline: config.Pipeline{SettleSeconds: 2}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, service.(*Service).settle)
	assert.Equal(t, "Asia/Dhaka", service.(*Service).location.String())
}
