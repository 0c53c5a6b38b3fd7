package domain

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

// ValidationSchema lista os campos verificados pelo relatório de qualidade
type ValidationSchema struct {
	RequiredFields    []string `json:"required_fields"`
	SalesRecordFields []string `json:"sales_record_fields"`
}

// DefaultValidationSchema é usado quando o documento não traz o bloco data_validation
func DefaultValidationSchema() ValidationSchema {
	return ValidationSchema{
		RequiredFields:    []string{"product_id", "company", "sector", "region", "sales_records"},
		SalesRecordFields: []string{"period", "units_sold", "revenue", "currency", "growth_rate", "market_share"},
	}
}

// SourceDocument é o documento bruto entregue por uma fonte de dados.
// As entradas ficam como RawMessage para que cada uma seja decodificada isoladamente.
type SourceDocument struct {
	SchemaVersion  string                `json:"schema_version"`
	SalesData      []jsoniter.RawMessage `json:"sales_data"`
	DataValidation *ValidationSchema     `json:"data_validation,omitempty"`
}

// RejectedEntry descreve uma entrada descartada durante a carga
type RejectedEntry struct {
	Position  int    `json:"position"`
	ProductID string `json:"product_id,omitempty"`
	Reason    string `json:"reason"`
}

// Snapshot é o conjunto imutável de entradas carregadas e seus índices.
// Uma nova carga sempre produz um novo Snapshot.
type Snapshot struct {
	ID            string
	Source        string
	SchemaVersion string
	LoadedAt      time.Time
	Entries       []SalesEntry
	Rejected      []RejectedEntry
	Validation    ValidationSchema
	Indexes       Indexes
}

// SnapshotMeta contém os metadados de uma carga
type SnapshotMeta struct {
	ID            string
	Source        string
	SchemaVersion string
	LoadedAt      time.Time
	Validation    *ValidationSchema
}

// NewSnapshot constrói o snapshot completo, incluindo os quatro índices
func NewSnapshot(meta SnapshotMeta, entries []SalesEntry, rejected []RejectedEntry) *Snapshot {
	if entries == nil {
		entries = []SalesEntry{}
	}
	if rejected == nil {
		rejected = []RejectedEntry{}
	}

	validation := DefaultValidationSchema()
	if meta.Validation != nil {
		validation = *meta.Validation
	}

	schemaVersion := meta.SchemaVersion
	if schemaVersion == "" {
		schemaVersion = "1.0"
	}

	return &Snapshot{
		ID:            meta.ID,
		Source:        meta.Source,
		SchemaVersion: schemaVersion,
		LoadedAt:      meta.LoadedAt,
		Entries:       entries,
		Rejected:      rejected,
		Validation:    validation,
		Indexes:       BuildIndexes(entries),
	}
}

// TotalRecords retorna a quantidade de registros mensais no snapshot
func (s *Snapshot) TotalRecords() int {
	total := 0
	for _, entry := range s.Entries {
		total += len(entry.SalesRecords)
	}
	return total
}

// EntriesAt resolve uma lista de posições em entradas
func (s *Snapshot) EntriesAt(positions []int) []SalesEntry {
	entries := make([]SalesEntry, 0, len(positions))
	for _, pos := range positions {
		entries = append(entries, s.Entries[pos])
	}
	return entries
}
