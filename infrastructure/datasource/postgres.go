package datasource

import (
	"context"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/vfg2006/sales-analytics/infrastructure/database/postgres"
	"github.com/vfg2006/sales-analytics/internal/domain"
)

// PostgresSource lê as entradas de uma tabela (payload JSONB), sempre em ordem de id.
// O banco é acessado apenas para leitura.
type PostgresSource struct {
	conn  postgres.Queryer
	table string
}

func NewPostgresSource(conn postgres.Queryer, table string) *PostgresSource {
	return &PostgresSource{conn: conn, table: table}
}

func (s *PostgresSource) Name() string {
	return "postgres:" + s.table
}

func (s *PostgresSource) buildQuery() (string, []interface{}, error) {
	return squirrel.
		Select("payload").
		From(s.table).
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (s *PostgresSource) Fetch(ctx context.Context) (*domain.SourceDocument, error) {
	query, args, err := s.buildQuery()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao consultar tabela %s", s.table)
	}
	defer rows.Close()

	entries := make([]jsoniter.RawMessage, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.Wrap(err, "erro ao escanear payload")
		}
		entries = append(entries, jsoniter.RawMessage(payload))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro ao iterar resultados")
	}

	schema := domain.DefaultValidationSchema()
	return &domain.SourceDocument{
		SchemaVersion:  "1.0",
		SalesData:      entries,
		DataValidation: &schema,
	}, nil
}
