package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/stock-report-sync/infrastructure/database/postgres"
	"github.com/vfg2006/stock-report-sync/infrastructure/integrator/gsheets/sheetsclient"
	"github.com/vfg2006/stock-report-sync/infrastructure/integrator/odoo"
	"github.com/vfg2006/stock-report-sync/infrastructure/integrator/odoo/odooclient"
	"github.com/vfg2006/stock-report-sync/infrastructure/repository"
	"github.com/vfg2006/stock-report-sync/internal/api"
	"github.com/vfg2006/stock-report-sync/internal/config"
	"github.com/vfg2006/stock-report-sync/internal/domain"
	"github.com/vfg2006/stock-report-sync/internal/scheduler"
	"github.com/vfg2006/stock-report-sync/internal/usecases/authenticating"
	"github.com/vfg2006/stock-report-sync/internal/usecases/exporting"
	"github.com/vfg2006/stock-report-sync/internal/usecases/pipeline"
	"github.com/vfg2006/stock-report-sync/internal/usecases/syncing"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	renderClient := config.NewRenderClient(cfg)
	if err := cfg.LoadGoogleCredentials(renderClient); err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar credenciais do Google")
	}

	grid, err := sheetsclient.NewClient(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao criar cliente do Google Sheets")
	}

	synchronizer, err := syncing.NewService(cfg, grid)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao configurar sincronização das planilhas")
	}

	odooClient := odooclient.NewClient(cfg)
	odooIntegrator := odoo.New(cfg, odooClient)
	exporter := exporting.NewService(cfg)

	// o histórico é opcional: sem banco o pipeline roda igual
	var syncRunRepo repository.SyncRunRepository
	var recorder pipeline.RunRecorder
	if cfg.Pipeline.RunHistoryEnabled {
		pgConn := pgconn(ctx, cfg.Database)
		defer pgConn.Close()

		syncRunRepo = repository.NewSyncRunRepository(pgConn)
		if err := syncRunRepo.EnsureSchema(ctx); err != nil {
			logrus.WithError(err).Fatal("Erro ao criar tabela de histórico")
		}
		recorder = syncRunRepo
	}

	orchestrator := pipeline.New(cfg, odooIntegrator, exporter, synchronizer, recorder)
	reportSyncService := scheduler.NewReportSyncService(orchestrator, cfg)

	if cfg.App.RunMode == config.RunModeOnce {
		runOnce(ctx, reportSyncService)
		return
	}

	if err := reportSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de relatórios")
	} else {
		logrus.Info("Agendador de sincronização de relatórios iniciado com sucesso")
	}

	authenticator := authenticating.NewService(cfg)

	server, err := api.New(cfg, authenticator, reportSyncService, syncRunRepo)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// runOnce executa todos os pares e sai. Só a falha de autenticação gera status diferente de zero.
func runOnce(ctx context.Context, service *scheduler.ReportSyncService) {
	summary, err := service.RunOnce(ctx)
	if err != nil {
		if odooclient.IsAuthError(err) {
			logrus.WithError(err).Error("Falha na autenticação com o ERP")
			os.Exit(1)
		}
		logrus.WithError(err).Error("Erro na execução")
		return
	}

	logrus.WithFields(logrus.Fields{
		"run_id":  summary.RunID,
		"synced":  summary.Count(domain.PipelineStateSynced),
		"skipped": summary.Count(domain.PipelineStateSkipped),
		"failed":  summary.Count(domain.PipelineStateFailed),
	}).Info("Execução única finalizada")
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
