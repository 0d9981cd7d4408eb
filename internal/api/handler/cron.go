package handler

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/stock-report-sync/internal/scheduler"
	"github.com/vfg2006/stock-report-sync/internal/usecases/pipeline"
	"github.com/vfg2006/stock-report-sync/pkg/apiErrors"
)

// CronJobTypeAll dispara todos os relatórios; qualquer outro valor é o nome de um relatório
const CronJobTypeAll = "all"

// RunCronJob executa manualmente a sincronização de um relatório ou de todos
func RunCronJob(service scheduler.ReportSyncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		reportName := cronType
		if cronType == CronJobTypeAll {
			reportName = ""
		}

		err := service.TriggerManualSync(reportName)
		switch {
		case errors.Is(err, pipeline.ErrUnknownReport):
			apiErrors.WriteError(w, apiErrors.ErrReportNotFound, "Relatório não configurado", map[string]string{"type": cronType})
			return
		case errors.Is(err, scheduler.ErrSyncInProgress):
			apiErrors.WriteError(w, apiErrors.ErrSyncInProgress, "Sincronização já em andamento", nil)
			return
		case err != nil:
			logrus.WithError(err).Error("Erro ao iniciar sincronização manual")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao iniciar sincronização", nil)
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status do agendador
func GetCronStatus(service scheduler.ReportSyncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"report_sync": service.GetStatus(),
		})
	}
}
