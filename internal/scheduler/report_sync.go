package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/stock-report-sync/internal/config"
	"github.com/vfg2006/stock-report-sync/internal/domain"
	"github.com/vfg2006/stock-report-sync/internal/usecases/pipeline"
)

var ErrSyncInProgress = errors.New("sincronização já em andamento")

// ReportSyncer é o que a API usa para disparar e acompanhar as sincronizações
type ReportSyncer interface {
	TriggerManualSync(reportName string) error
	GetStatus() map[string]any
}

// ReportSyncConfig representa a configuração do agendador de relatórios
type ReportSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// ReportSyncService agenda e executa a sincronização dos relatórios do ERP com as planilhas
type ReportSyncService struct {
	scheduler *gocron.Scheduler
	config    ReportSyncConfig
	runner    pipeline.Runner

	ctx                 context.Context
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSummary         *domain.RunSummary
	lastError           string
}

func NewReportSyncService(runner pipeline.Runner, appConfig *config.Config) *ReportSyncService {
	syncConfig := ReportSyncConfig{
		CronSchedule: appConfig.ReportSync.CronSchedule,
		SyncEnabled:  appConfig.ReportSync.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"sync_enabled":  syncConfig.SyncEnabled,
		"entities":      len(appConfig.Entities),
		"reports":       len(appConfig.Reports),
	}).Info("Configuração do agendador de relatórios carregada")

	return &ReportSyncService{
		scheduler: gocron.NewScheduler(time.Local),
		config:    syncConfig,
		runner:    runner,
		ctx:       context.Background(),
	}
}

// Start agenda a execução diária. As execuções usam o contexto informado e param com ele.
func (s *ReportSyncService) Start(ctx context.Context) error {
	s.ctx = ctx

	if !s.config.SyncEnabled {
		logrus.Info("Sincronização de relatórios desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização de relatórios")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncReports("")
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de relatórios: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização de relatórios")
		s.scheduler.Stop()
	}()

	return nil
}

// RunOnce executa a sincronização de forma síncrona (modo de execução única)
func (s *ReportSyncService) RunOnce(ctx context.Context) (*domain.RunSummary, error) {
	if !s.begin() {
		return nil, ErrSyncInProgress
	}
	defer s.end()

	summary, err := s.runner.Run(ctx)
	s.finish(summary, err)
	return summary, err
}

func (s *ReportSyncService) begin() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return false
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	return true
}

func (s *ReportSyncService) end() {
	s.syncMutex.Lock()
	s.syncRunning = false
	s.syncMutex.Unlock()
}

func (s *ReportSyncService) finish(summary *domain.RunSummary, err error) {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	s.lastSyncCompletedAt = time.Now()
	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
		return
	}
	s.lastSummary = summary
}

func (s *ReportSyncService) syncReports(reportName string) {
	if !s.begin() {
		logrus.Info("Sincronização de relatórios já em andamento, ignorando")
		return
	}
	defer s.end()

	s.execute(reportName)
}

func (s *ReportSyncService) execute(reportName string) {
	var (
		summary *domain.RunSummary
		err     error
	)

	if reportName == "" {
		summary, err = s.runner.Run(s.ctx)
	} else {
		summary, err = s.runner.RunReport(s.ctx, reportName)
	}

	if err != nil {
		logrus.WithError(err).WithField("report", reportName).Error("Erro na sincronização de relatórios")
	}

	s.finish(summary, err)
}

// TriggerManualSync inicia em background a sincronização de um relatório, ou de todos quando o nome é vazio
func (s *ReportSyncService) TriggerManualSync(reportName string) error {
	if reportName != "" && len(s.runner.Pairs(reportName)) == 0 {
		return fmt.Errorf("%w: %s", pipeline.ErrUnknownReport, reportName)
	}

	if !s.begin() {
		logrus.Info("Sincronização de relatórios já em andamento, ignorando solicitação manual")
		return ErrSyncInProgress
	}

	logrus.WithField("report", reportName).Info("Iniciando sincronização manual de relatórios")
	go func() {
		defer s.end()
		s.execute(reportName)
	}()

	return nil
}

// IsRunning indica se há uma execução em andamento
func (s *ReportSyncService) IsRunning() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	return s.syncRunning
}

// GetStatus retorna o status atual do agendador
func (s *ReportSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}

	if s.lastError != "" {
		status["last_error"] = s.lastError
	}

	if s.lastSummary != nil {
		status["last_run_id"] = s.lastSummary.RunID
		status["last_run"] = map[string]int{
			"synced":  s.lastSummary.Count(domain.PipelineStateSynced),
			"skipped": s.lastSummary.Count(domain.PipelineStateSkipped),
			"failed":  s.lastSummary.Count(domain.PipelineStateFailed),
		}
	}

	return status
}
