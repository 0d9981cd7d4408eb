package syncing

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/stock-report-sync/infrastructure/integrator/gsheets/sheetsclient"
	"github.com/vfg2006/stock-report-sync/internal/config"
	"github.com/vfg2006/stock-report-sync/internal/domain"
	"github.com/vfg2006/stock-report-sync/pkg/utils"
)

// TimestampLayout é o formato do carimbo "última atualização"
const TimestampLayout = "2006-01-02 15:04:05"

const defaultTimezone = "Asia/Dhaka"

type SyncResult struct {
	Skipped   bool      `json:"skipped"`
	Rows      int       `json:"rows"`
	Timestamp string    `json:"timestamp,omitempty"`
	SyncedAt  time.Time `json:"synced_at"`
}

type Synchronizer interface {
	Sync(ctx context.Context, table domain.Table, destination domain.SheetDestination) (*SyncResult, error)
}

type Service struct {
	grid     sheetsclient.Grid
	settle   time.Duration
	location *time.Location
	sleep    func(ctx context.Context, d time.Duration) error
	now      func() time.Time
}

func NewService(cfg *config.Config, grid sheetsclient.Grid) (Synchronizer, error) {
	timezone := cfg.Pipeline.SheetTimezone
	if timezone == "" {
		timezone = defaultTimezone
	}

	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("fuso horário inválido %s: %w", timezone, err)
	}

	return &Service{
		grid:     grid,
		settle:   cfg.Pipeline.SettleDelay(),
		location: location,
		sleep:    utils.Sleep,
		now:      time.Now,
	}, nil
}

// Sync sobrescreve o intervalo de destino com a tabela e grava o carimbo de atualização.
// Não tenta de novo: a repetição é responsabilidade do pipeline.
func (s *Service) Sync(ctx context.Context, table domain.Table, destination domain.SheetDestination) (*SyncResult, error) {
	destination = destination.WithDefaults()
	logger := logrus.WithFields(logrus.Fields{
		"spreadsheet_id": destination.SpreadsheetID,
		"worksheet":      destination.Worksheet,
	})

	if table.IsEmpty() {
		logger.Warn("Nenhum dado para colar, planilha mantida")
		return &SyncResult{Skipped: true}, nil
	}

	fail := func(step string, err error) (*SyncResult, error) {
		return nil, &SyncError{
			SpreadsheetID: destination.SpreadsheetID,
			Worksheet:     destination.Worksheet,
			Step:          step,
			Err:           err,
		}
	}

	worksheet, err := s.grid.OpenWorksheet(ctx, destination.SpreadsheetID, destination.Worksheet)
	if err != nil {
		return fail(StepOpen, err)
	}

	if err := s.grid.Clear(ctx, worksheet, destination.ClearRange); err != nil {
		return fail(StepClear, err)
	}

	// a limpeza é eventualmente consistente; escrever logo em seguida pode ter os dados apagados
	if err := s.sleep(ctx, s.settle); err != nil {
		return fail(StepSettle, err)
	}

	if err := s.grid.Update(ctx, worksheet, destination.AnchorCell, table.Values()); err != nil {
		return fail(StepWrite, err)
	}

	syncedAt := s.now().In(s.location)
	timestamp := syncedAt.Format(TimestampLayout)
	if err := s.grid.Update(ctx, worksheet, destination.TimestampCell, [][]any{{timestamp}}); err != nil {
		return fail(StepTimestamp, err)
	}

	logger.WithField("rows", len(table.Rows)).Infof("Dados colados na planilha, atualizado em %s", timestamp)

	return &SyncResult{
		Rows:      len(table.Rows),
		Timestamp: timestamp,
		SyncedAt:  syncedAt,
	}, nil
}
