package analyzing

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/vfg2006/sales-analytics/infrastructure/datasource"
	"github.com/vfg2006/sales-analytics/internal/domain"
	"github.com/vfg2006/sales-analytics/pkg/log"
	"github.com/vfg2006/sales-analytics/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Loader transforma o documento da fonte em um Snapshot indexado
type Loader struct {
	source datasource.Source
	now    func() time.Time
}

func NewLoader(source datasource.Source) *Loader {
	return &Loader{source: source, now: time.Now}
}

// Load nunca retorna erro: falhas da fonte resultam em um snapshot vazio
// e entradas inválidas são descartadas individualmente.
func (l *Loader) Load(ctx context.Context) *domain.Snapshot {
	logger := log.ForContext(ctx).WithField("source", l.source.Name())

	meta := domain.SnapshotMeta{
		ID:       l.snapshotID(),
		Source:   l.source.Name(),
		LoadedAt: l.now(),
	}

	doc, err := l.source.Fetch(ctx)
	if err != nil {
		logger.WithError(err).Error("Erro ao carregar dados de vendas, usando snapshot vazio")
		return domain.NewSnapshot(meta, nil, nil)
	}

	meta.SchemaVersion = doc.SchemaVersion
	meta.Validation = doc.DataValidation

	entries := make([]domain.SalesEntry, 0, len(doc.SalesData))
	rejected := make([]domain.RejectedEntry, 0)

	for i, raw := range doc.SalesData {
		entry, err := decodeEntry(raw)
		if err != nil {
			rejection := domain.RejectedEntry{
				Position:  i,
				ProductID: productIDOf(raw),
				Reason:    err.Error(),
			}
			rejected = append(rejected, rejection)

			logger.WithFields(log.Fields{
				"position":   i,
				"product_id": rejection.ProductID,
			}).WithError(err).Warn("Entrada de vendas descartada")
			continue
		}
		entries = append(entries, entry)
	}

	snapshot := domain.NewSnapshot(meta, entries, rejected)

	logger.WithFields(log.Fields{
		"snapshot_id": snapshot.ID,
		"entries":     len(snapshot.Entries),
		"records":     snapshot.TotalRecords(),
		"rejected":    len(snapshot.Rejected),
	}).Info("Dados de vendas carregados")

	return snapshot
}

func (l *Loader) snapshotID() string {
	id, err := utils.GenerateID()
	if err != nil {
		return fmt.Sprintf("snap-%d", l.now().UnixNano())
	}
	return id
}

func decodeEntry(raw jsoniter.RawMessage) (domain.SalesEntry, error) {
	var rawEntry domain.RawSalesEntry
	if err := json.Unmarshal(raw, &rawEntry); err != nil {
		return domain.SalesEntry{}, fmt.Errorf("entrada malformada: %w", err)
	}
	return domain.NewSalesEntry(rawEntry)
}

func productIDOf(raw jsoniter.RawMessage) string {
	return json.Get(raw, "product_id").ToString()
}
