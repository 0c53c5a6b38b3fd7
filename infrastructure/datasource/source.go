// Package datasource contém as fontes do documento de vendas consumido pelo motor de análises
package datasource

import (
	"context"

	jsoniter "github.com/json-iterator/go"

	"github.com/vfg2006/sales-analytics/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//go:generate mockgen -source=source.go -destination=mocks/source.go -package=mocks

// Source entrega o documento bruto de vendas. Implementações apenas leem.
type Source interface {
	Fetch(ctx context.Context) (*domain.SourceDocument, error)
	Name() string
}

func decodeDocument(data []byte) (*domain.SourceDocument, error) {
	doc := &domain.SourceDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
