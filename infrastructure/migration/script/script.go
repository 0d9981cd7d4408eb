package main

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/stock-report-sync/infrastructure/database/postgres"
	"github.com/vfg2006/stock-report-sync/infrastructure/repository"
	"github.com/vfg2006/stock-report-sync/internal/config"
)

// Aplica o schema do histórico de sincronizações e remove execuções antigas.
// RETENTION_DAYS=0 mantém todo o histórico.
func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	logrus.Info("Iniciando script de migração...")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar configuração")
	}

	retentionDays, _ := strconv.Atoi(os.Getenv("RETENTION_DAYS"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}
	defer conn.Close()

	startTime := time.Now()
	err = conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, repository.SyncRunSchema); err != nil {
			return err
		}

		if retentionDays <= 0 {
			return nil
		}

		query, args, err := squirrel.Delete("sync_runs").
			Where(squirrel.Lt{"started_at": time.Now().AddDate(0, 0, -retentionDays)}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}

		removed, _ := result.RowsAffected()
		logrus.WithFields(logrus.Fields{
			"retention_days": retentionDays,
			"removed":        removed,
		}).Info("Histórico antigo removido")
		return nil
	})
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao aplicar migração")
	}

	logrus.Infof("Migração concluída em %v", time.Since(startTime))
}
