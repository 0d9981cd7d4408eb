package handler

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/stock-report-sync/infrastructure/repository"
	"github.com/vfg2006/stock-report-sync/pkg/apiErrors"
)

// ListSyncRuns lista o histórico recente de pares processados
func ListSyncRuns(repo repository.SyncRunRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			apiErrors.WriteError(w, apiErrors.ErrHistoryDisabled, "Histórico de execuções desabilitado", nil)
			return
		}

		limit := 0
		if value := r.URL.Query().Get("limit"); value != "" {
			parsed, err := strconv.Atoi(value)
			if err != nil || parsed < 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro limit inválido", nil)
				return
			}
			limit = parsed
		}

		runs, err := repo.ListRecent(r.Context(), limit)
		if err != nil {
			logrus.WithError(err).Error("Erro ao listar histórico de sincronizações")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar histórico", nil)
			return
		}

		writeJSON(w, http.StatusOK, runs)
	}
}

// GetLastSyncRun retorna a última execução de um par empresa/relatório
func GetLastSyncRun(repo repository.SyncRunRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			apiErrors.WriteError(w, apiErrors.ErrHistoryDisabled, "Histórico de execuções desabilitado", nil)
			return
		}

		query := r.URL.Query()
		reportName := query.Get("report")
		if query.Get("entity_id") == "" || reportName == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Informe entity_id e report", nil)
			return
		}

		entityID, err := strconv.Atoi(query.Get("entity_id"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro entity_id inválido", nil)
			return
		}

		run, err := repo.GetLastByPair(r.Context(), entityID, reportName)
		if err != nil {
			logrus.WithError(err).Error("Erro ao buscar última sincronização do par")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar histórico", nil)
			return
		}
		if run == nil {
			apiErrors.WriteError(w, apiErrors.ErrNotFound, "Nenhuma execução registrada para o par", nil)
			return
		}

		writeJSON(w, http.StatusOK, run)
	}
}
