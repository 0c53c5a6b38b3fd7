package domain

import "time"

type QualityMetrics struct {
	TotalRecords    int `json:"total_records"`
	CompleteRecords int `json:"complete_records"`
	MissingFields   int `json:"missing_fields"`
	InvalidValues   int `json:"invalid_values"`
	RejectedEntries int `json:"rejected_entries"`
}

// DataQualityReport é o relatório consultivo de qualidade dos dados.
// Nunca rejeita dados, apenas aponta problemas.
type DataQualityReport struct {
	OverallScore    float64        `json:"overall_score"`
	Issues          []string       `json:"issues"`
	Metrics         QualityMetrics `json:"metrics"`
	Recommendations []string       `json:"recommendations"`
}

type DataCacheStats struct {
	Loaded     bool      `json:"loaded"`
	SnapshotID string    `json:"snapshot_id,omitempty"`
	Source     string    `json:"source,omitempty"`
	LoadedAt   time.Time `json:"loaded_at,omitempty"`
	AgeSeconds float64   `json:"age_seconds"`
	TTLSeconds float64   `json:"ttl_seconds"`
}

type ResultCacheStats struct {
	Entries    int     `json:"entries"`
	TTLSeconds float64 `json:"ttl_seconds"`
}

type IndexStats struct {
	Products int `json:"products"`
	Sectors  int `json:"sectors"`
	Regions  int `json:"regions"`
	Periods  int `json:"periods"`
}

// CacheStats expõe o estado dos caches para observabilidade
type CacheStats struct {
	Data            DataCacheStats   `json:"data"`
	Analytics       ResultCacheStats `json:"analytics"`
	Query           ResultCacheStats `json:"query"`
	Indexes         IndexStats       `json:"indexes"`
	TotalEntries    int              `json:"total_entries"`
	TotalRecords    int              `json:"total_records"`
	RejectedEntries int              `json:"rejected_entries"`
}
