package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vfg2006/stock-report-sync/infrastructure/integrator/odoo"
	"github.com/vfg2006/stock-report-sync/infrastructure/integrator/odoo/odooclient"
	"github.com/vfg2006/stock-report-sync/internal/config"
	"github.com/vfg2006/stock-report-sync/internal/domain"
	"github.com/vfg2006/stock-report-sync/internal/usecases/exporting"
	"github.com/vfg2006/stock-report-sync/internal/usecases/normalizing"
	"github.com/vfg2006/stock-report-sync/internal/usecases/syncing"
	"github.com/vfg2006/stock-report-sync/pkg/log"
	"github.com/vfg2006/stock-report-sync/pkg/utils"
)

// RunRecorder persiste o resultado de cada par. Falhas de gravação nunca interrompem a execução.
type RunRecorder interface {
	Save(ctx context.Context, run *domain.SyncRun) error
}

// Pair é uma combinação (empresa, relatório) com o destino já resolvido
type Pair struct {
	Entity      domain.Entity
	Report      domain.ReportConfig
	Destination domain.SheetDestination
}

type Runner interface {
	Run(ctx context.Context) (*domain.RunSummary, error)
	RunReport(ctx context.Context, reportName string) (*domain.RunSummary, error)
	Pairs(reportName string) []Pair
}

type Orchestrator struct {
	integrator   odoo.ReportIntegrator
	exporter     exporting.Exporter
	synchronizer syncing.Synchronizer
	recorder     RunRecorder

	entities     []domain.Entity
	reports      []domain.ReportConfig
	maxAttempts  int
	retryStep    time.Duration
	retryCap     time.Duration
	fromOverride string
	toOverride   string
	location     *time.Location

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
	newID func() (string, error)
}

// New monta o orquestrador. recorder pode ser nil quando o histórico está desabilitado.
func New(
	cfg *config.Config,
	integrator odoo.ReportIntegrator,
	exporter exporting.Exporter,
	synchronizer syncing.Synchronizer,
	recorder RunRecorder,
) *Orchestrator {
	location, err := time.LoadLocation(cfg.Odoo.Timezone)
	if err != nil || cfg.Odoo.Timezone == "" {
		location = time.Local
	}

	maxAttempts := cfg.Pipeline.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &Orchestrator{
		integrator:   integrator,
		exporter:     exporter,
		synchronizer: synchronizer,
		recorder:     recorder,
		entities:     cfg.Entities,
		reports:      cfg.Reports,
		maxAttempts:  maxAttempts,
		retryStep:    cfg.Pipeline.RetryStep(),
		retryCap:     cfg.Pipeline.RetryCap(),
		fromOverride: cfg.Pipeline.FromDate,
		toOverride:   cfg.Pipeline.ToDate,
		location:     location,
		sleep:        utils.Sleep,
		now:          time.Now,
		newID:        utils.GenerateID,
	}
}

// Pairs lista os pares na ordem de execução: empresa por empresa, relatórios na ordem configurada.
// Um nome vazio seleciona todos os relatórios.
func (o *Orchestrator) Pairs(reportName string) []Pair {
	pairs := make([]Pair, 0, len(o.entities)*len(o.reports))
	for _, entity := range o.entities {
		for _, report := range o.reports {
			if reportName != "" && report.Name != reportName {
				continue
			}

			destination, ok := report.DestinationFor(entity.ID)
			if !ok {
				continue
			}

			pairs = append(pairs, Pair{Entity: entity, Report: report, Destination: destination})
		}
	}
	return pairs
}

// Backoff calcula a espera antes da próxima tentativa: min(teto, tentativa * passo)
func (o *Orchestrator) Backoff(attempt int) time.Duration {
	delay := time.Duration(attempt) * o.retryStep
	if delay > o.retryCap {
		return o.retryCap
	}
	return delay
}

func (o *Orchestrator) Run(ctx context.Context) (*domain.RunSummary, error) {
	return o.run(ctx, o.Pairs(""))
}

// RunReport executa somente os pares de um relatório (disparo manual)
func (o *Orchestrator) RunReport(ctx context.Context, reportName string) (*domain.RunSummary, error) {
	pairs := o.Pairs(reportName)
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownReport, reportName)
	}
	return o.run(ctx, pairs)
}

func (o *Orchestrator) run(ctx context.Context, pairs []Pair) (*domain.RunSummary, error) {
	runID, err := o.newID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar id da execução: %w", err)
	}

	ctx = log.WithRunID(ctx, runID)
	logger := log.ForContext(ctx)

	summary := &domain.RunSummary{
		RunID:     runID,
		StartedAt: o.now(),
		Pairs:     make([]*domain.SyncRun, 0, len(pairs)),
	}

	session, err := o.integrator.Authenticate(ctx)
	if err != nil {
		logger.WithError(err).Error("Falha na autenticação com o ERP, execução abortada")
		return nil, err
	}

	logger.WithField("pairs", len(pairs)).Info("Iniciando sincronização dos relatórios")

	for _, pair := range pairs {
		if ctx.Err() != nil {
			logger.Warn("Execução cancelada, pares restantes não processados")
			break
		}
		summary.Pairs = append(summary.Pairs, o.runPair(ctx, session, runID, pair))
	}

	summary.FinishedAt = o.now()

	logger.WithFields(log.Fields{
		"synced":  summary.Count(domain.PipelineStateSynced),
		"skipped": summary.Count(domain.PipelineStateSkipped),
		"failed":  summary.Count(domain.PipelineStateFailed),
	}).Infof("Sincronização concluída em %s", summary.FinishedAt.Sub(summary.StartedAt).Round(time.Second))

	return summary, nil
}

// runPair processa um par com novas tentativas. Nenhum erro sai daqui.
func (o *Orchestrator) runPair(ctx context.Context, session *odooclient.Session, runID string, pair Pair) *domain.SyncRun {
	run := &domain.SyncRun{
		RunID:      runID,
		EntityID:   pair.Entity.ID,
		EntityName: pair.Entity.Name,
		ReportName: pair.Report.Name,
		State:      domain.PipelineStateAuthenticated,
		StartedAt:  o.now(),
	}

	logger := log.ForContext(ctx).WithFields(log.Fields{
		"entity_id":   pair.Entity.ID,
		"entity_name": pair.Entity.Name,
		"report":      pair.Report.Name,
	})

	pairID, err := o.newID()
	if err != nil {
		// o id do par é a chave do histórico e não pode ficar vazio
		pairID = fmt.Sprintf("%s-%d-%s", runID, pair.Entity.ID, pair.Report.Name)
		logger.WithError(err).Warnf("Erro ao gerar id do par, usando %s", pairID)
	}
	run.ID = pairID

	defer func() {
		run.FinishedAt = o.now()
		o.record(ctx, run, logger)
	}()

	today := o.now().In(o.location)
	period, err := pair.Report.DateRange.Resolve(today, o.fromOverride, o.toOverride)
	if err != nil {
		run.State = domain.PipelineStateFailed
		run.Error = err.Error()
		logger.WithError(err).Error("Período do relatório inválido")
		return run
	}

	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		run.Attempts = attempt
		attemptLogger := logger.WithField("attempt", attempt)

		err := o.attempt(ctx, session, pair, period, run)
		if err == nil {
			run.Error = ""
			if run.State == domain.PipelineStateSkipped {
				attemptLogger.Warn("Nenhum dado retornado, sincronização pulada")
			} else {
				attemptLogger.WithField("rows", run.Rows).Info("Relatório sincronizado")
			}
			return run
		}

		run.Error = err.Error()
		attemptLogger.WithError(err).WithField("state", run.State).Warnf("Tentativa %d/%d falhou", attempt, o.maxAttempts)

		if attempt == o.maxAttempts {
			break
		}

		delay := o.Backoff(attempt)
		if err := o.sleep(ctx, delay); err != nil {
			run.Error = err.Error()
			break
		}
	}

	run.State = domain.PipelineStateFailed
	logger.WithField("attempt", run.Attempts).Errorf("Tentativas esgotadas, seguindo para o próximo par: %s", run.Error)
	return run
}

// attempt percorre EntitySelected -> ... -> Synced. Toda tentativa recomeça na troca de empresa.
func (o *Orchestrator) attempt(ctx context.Context, session *odooclient.Session, pair Pair, period domain.Period, run *domain.SyncRun) error {
	if !o.integrator.SwitchEntity(ctx, session, pair.Entity) {
		return ErrEntitySwitch
	}
	run.State = domain.PipelineStateEntitySelected

	computed, err := o.integrator.ComputeReport(ctx, session, pair.Report, period)
	if err != nil {
		return err
	}
	run.State = domain.PipelineStateReportComputed

	fetched, err := o.integrator.FetchRecords(ctx, session, computed)
	if err != nil {
		return err
	}
	run.State = domain.PipelineStateFetched

	if fetched.Len() == 0 {
		run.State = domain.PipelineStateSkipped
		run.Rows = 0
		return nil
	}

	table := normalizing.NormalizeOrdered(fetched.Records, pair.Report.FieldSpec(), fetched.Columns)
	run.State = domain.PipelineStateNormalized

	datasetKey := exporting.DatasetKey(pair.Entity, pair.Report)
	artifact, err := o.exporter.WriteArtifact(table, datasetKey, period.DateStamp())
	if errors.Is(err, exporting.ErrNoData) {
		run.State = domain.PipelineStateSkipped
		return nil
	}
	if err != nil {
		return err
	}
	run.State = domain.PipelineStateExported
	run.ArtifactPath = artifact.Path

	latest, _, err := o.exporter.ReadLatestArtifact(datasetKey)
	if exporting.IsNotFound(err) {
		return fmt.Errorf("artefato recém-gravado %s não encontrado: %w", artifact.Path, err)
	}
	if err != nil {
		return err
	}

	result, err := o.synchronizer.Sync(ctx, latest, pair.Destination)
	if err != nil {
		return err
	}

	run.Rows = result.Rows
	if result.Skipped {
		run.State = domain.PipelineStateSkipped
		return nil
	}
	run.State = domain.PipelineStateSynced

	return nil
}

func (o *Orchestrator) record(ctx context.Context, run *domain.SyncRun, logger log.Logger) {
	if o.recorder == nil {
		return
	}

	// o histórico é gravado mesmo com o contexto da execução cancelado
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := o.recorder.Save(saveCtx, run); err != nil {
		logger.WithError(err).Error("Erro ao gravar histórico da sincronização")
	}
}
