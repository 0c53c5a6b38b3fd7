package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/sales-analytics/infrastructure/database/postgres"
	"github.com/vfg2006/sales-analytics/internal/config"
	"github.com/vfg2006/sales-analytics/internal/domain"
	"github.com/vfg2006/sales-analytics/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func setupLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logrus.Info("Iniciando script de carga de vendas...")
}

func readDocument(path string) (*domain.SourceDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao ler arquivo %s", path)
	}

	var doc domain.SourceDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(err, "erro ao decodificar arquivo %s", path)
	}
	return &doc, nil
}

func createTableStatement(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id BIGSERIAL PRIMARY KEY,
		external_id VARCHAR(6) NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`, table)
}

func buildInsert(table, externalID string, payload []byte) (string, []interface{}, error) {
	return squirrel.
		Insert(table).
		Columns("external_id", "payload").
		Values(externalID, string(payload)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

// insertEntries grava as entradas na ordem do documento; o id sequencial preserva essa ordem na leitura
func insertEntries(ctx context.Context, tx *sql.Tx, table string, entries []jsoniter.RawMessage) (int, error) {
	logrus.Infof("Iniciando inserção de %d entradas de vendas...", len(entries))
	startTime := time.Now()

	successCount := 0
	for i, entry := range entries {
		externalID, err := utils.GenerateID()
		if err != nil {
			return successCount, errors.Wrap(err, "erro ao gerar id")
		}

		query, args, err := buildInsert(table, externalID, entry)
		if err != nil {
			return successCount, errors.Wrap(err, "erro ao construir insert")
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) {
				logrus.WithFields(logrus.Fields{
					"code":   pqErr.Code,
					"detail": pqErr.Detail,
				}).Error("Erro do PostgreSQL ao inserir entrada")
			}
			return successCount, errors.Wrapf(err, "erro ao inserir entrada [%d/%d]", i+1, len(entries))
		}
		successCount++

		if i > 0 && i%100 == 0 {
			logrus.Infof("Progresso: %d/%d entradas processadas", i+1, len(entries))
		}
	}

	logrus.WithFields(logrus.Fields{
		"elapsed": time.Since(startTime).String(),
		"total":   successCount,
	}).Info("Inserção de entradas concluída")

	return successCount, nil
}

func main() {
	setupLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar configuração")
	}

	path := cfg.DataSource.FilePath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	doc, err := readDocument(path)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao ler documento de vendas")
	}

	ctx := context.Background()
	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}
	defer conn.Close()

	table := cfg.DataSource.Table
	if _, err := conn.ExecContext(ctx, createTableStatement(table)); err != nil {
		logrus.WithError(err).Fatalf("Erro ao criar tabela %s", table)
	}

	err = conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY", table)); err != nil {
			return errors.Wrapf(err, "erro ao limpar tabela %s", table)
		}
		_, err := insertEntries(ctx, tx, table, doc.SalesData)
		return err
	})
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar entradas de vendas, transação revertida")
	}

	logrus.WithFields(logrus.Fields{
		"table":   table,
		"entries": len(doc.SalesData),
		"file":    path,
	}).Info("Script de carga concluído com sucesso")
}
