package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/stock-report-sync/infrastructure/repository"
	"github.com/vfg2006/stock-report-sync/internal/api/handler"
	"github.com/vfg2006/stock-report-sync/internal/api/handler/router"
	"github.com/vfg2006/stock-report-sync/internal/config"
	"github.com/vfg2006/stock-report-sync/internal/scheduler"
	"github.com/vfg2006/stock-report-sync/internal/usecases/authenticating"
	"github.com/vfg2006/stock-report-sync/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer *http.Server
}

// NewHandler monta o router com a cadeia de middlewares globais
func NewHandler(
	config *config.Config,
	authenticator authenticating.Authenticator,
	reportSync scheduler.ReportSyncer,
	syncRunRepo repository.SyncRunRepository,
) http.Handler {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Authentication(authenticator)...),
		router.WithRoutes(handler.CronJobs(reportSync)...),
		router.WithRoutes(handler.SyncRuns(syncRunRepo)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.AllowedOrigins),
		middleware.AuthMiddleware(authenticator),
	}

	return alice.New(middlewares...).Then(rt)
}

func New(
	config *config.Config,
	authenticator authenticating.Authenticator,
	reportSync scheduler.ReportSyncer,
	syncRunRepo repository.SyncRunRepository,
) (*Server, error) {
	if config.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY é obrigatório para iniciar a API")
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           NewHandler(config, authenticator, reportSync, syncRunRepo),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}, nil
}

// Run atende requisições até o contexto ser cancelado e então desliga o servidor
func (s Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logrus.WithError(err).Error("Erro durante a execução do servidor")
		return err
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithField("timeout", shutdownTimeout.String()).Info("Iniciando desligamento gracioso do servidor")

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}
