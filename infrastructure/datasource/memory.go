package datasource

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vfg2006/sales-analytics/internal/domain"
)

// MemorySource entrega um documento mantido em memória
type MemorySource struct {
	name    string
	payload []byte
}

func NewMemorySource(name string, payload []byte) *MemorySource {
	return &MemorySource{name: name, payload: payload}
}

func (s *MemorySource) Name() string {
	return "memory:" + s.name
}

func (s *MemorySource) Fetch(ctx context.Context) (*domain.SourceDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := decodeDocument(s.payload)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao decodificar documento %s", s.name)
	}
	return doc, nil
}
