package handler

import (
	"net/http"

	"github.com/vfg2006/stock-report-sync/infrastructure/repository"
	"github.com/vfg2006/stock-report-sync/internal/api/handler/router"
	"github.com/vfg2006/stock-report-sync/internal/scheduler"
	"github.com/vfg2006/stock-report-sync/internal/usecases/authenticating"
	"github.com/vfg2006/stock-report-sync/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
	}
}

func CronJobs(service scheduler.ReportSyncer) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.OperatorOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.OperatorOnly()},
		},
	}
}

func SyncRuns(repo repository.SyncRunRepository) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/sync-runs",
			Method:      http.MethodGet,
			Handler:     ListSyncRuns(repo),
			Middlewares: []func(http.Handler) http.Handler{middleware.OperatorOnly()},
		},
		{
			Path:        "/v1/sync-runs/last",
			Method:      http.MethodGet,
			Handler:     GetLastSyncRun(repo),
			Middlewares: []func(http.Handler) http.Handler{middleware.OperatorOnly()},
		},
	}
}
