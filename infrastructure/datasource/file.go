package datasource

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/vfg2006/sales-analytics/internal/domain"
)

// FileSource lê o documento de um arquivo JSON
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string {
	return "file:" + s.path
}

func (s *FileSource) Fetch(ctx context.Context) (*domain.SourceDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao ler arquivo de vendas %s", s.path)
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao decodificar arquivo de vendas %s", s.path)
	}

	return doc, nil
}
