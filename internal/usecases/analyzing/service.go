package analyzing

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vfg2006/sales-analytics/infrastructure/datasource"
	"github.com/vfg2006/sales-analytics/internal/config"
	"github.com/vfg2006/sales-analytics/internal/domain"
	"github.com/vfg2006/sales-analytics/pkg/cache"
	"github.com/vfg2006/sales-analytics/pkg/log"
	"github.com/vfg2006/sales-analytics/pkg/utils"
)

// Service implementa Analyzer sobre um snapshot imutável mantido em cache
type Service struct {
	source  datasource.Source
	loader  *Loader
	metrics *Metrics
	now     func() time.Time
	maxRows int

	dataTTL      time.Duration
	analyticsTTL time.Duration
	queryTTL     time.Duration

	dataCache      *cache.Expiring[string, *domain.Snapshot]
	analyticsCache *cache.Expiring[string, any]
	queryCache     *cache.Expiring[string, *domain.QueryResult]

	group singleflight.Group

	// generation muda a cada Reload ou InvalidateAll; cargas de gerações anteriores não publicam
	mu         sync.Mutex
	generation uint64
}

// Option configura o Service
type Option func(*Service)

// WithClock substitui o relógio usado pelos caches e pelos períodos relativos
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithMetrics define os coletores Prometheus do serviço
func WithMetrics(metrics *Metrics) Option {
	return func(s *Service) {
		s.metrics = metrics
	}
}

// NewService cria o serviço de análises a partir da configuração e da fonte de dados
func NewService(cfg *config.Config, source datasource.Source, opts ...Option) *Service {
	s := &Service{
		source:       source,
		now:          time.Now,
		maxRows:      cfg.Query.MaxRows,
		dataTTL:      cfg.Cache.DataTTL,
		analyticsTTL: cfg.Cache.AnalyticsTTL,
		queryTTL:     cfg.Cache.QueryTTL,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.metrics == nil {
		s.metrics = NewMetrics(cfg.Metrics.Namespace, nil)
	}
	if s.maxRows <= 0 {
		s.maxRows = 1000
	}

	s.loader = NewLoader(source)
	s.loader.now = s.now

	s.dataCache = cache.NewExpiring[string, *domain.Snapshot](s.dataTTL, cache.WithClock(s.now))
	s.analyticsCache = cache.NewExpiring[string, any](s.analyticsTTL, cache.WithClock(s.now))
	s.queryCache = cache.NewExpiring[string, *domain.QueryResult](s.queryTTL, cache.WithClock(s.now))

	return s
}

// Snapshot retorna o snapshot atual, carregando a fonte se necessário.
// Chamadas concorrentes durante uma carga aguardam a mesma carga.
func (s *Service) Snapshot(ctx context.Context) *domain.Snapshot {
	key := s.source.Name()

	if snapshot, ok := s.dataCache.Get(key); ok {
		s.metrics.hit(cacheData)
		return snapshot
	}
	s.metrics.miss(cacheData)

	value, _, _ := s.group.Do(key, func() (any, error) {
		if snapshot, ok := s.dataCache.Get(key); ok {
			return snapshot, nil
		}
		return s.load(ctx, s.currentGeneration()), nil
	})

	return value.(*domain.Snapshot)
}

// Reload força uma nova leitura da fonte e a reconstrução completa dos índices.
// Nunca reaproveita uma leitura iniciada antes da chamada; o snapshot anterior
// continua visível até a publicação do novo.
func (s *Service) Reload(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gen := s.nextGeneration()
	s.group.Forget(s.source.Name())

	return s.load(ctx, gen), nil
}

// InvalidateAll descarta o snapshot e todos os resultados em cache.
// Cargas em andamento não republicam dados lidos antes da invalidação.
func (s *Service) InvalidateAll() {
	s.mu.Lock()
	s.generation++
	s.dataCache.Clear()
	s.analyticsCache.Clear()
	s.queryCache.Clear()
	s.mu.Unlock()

	s.group.Forget(s.source.Name())

	log.L.Info("Caches de análise invalidados")
}

func (s *Service) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

func (s *Service) nextGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// load constrói o snapshot completo antes de publicá-lo com um único Set.
// O contexto do chamador não cancela a carga compartilhada.
func (s *Service) load(ctx context.Context, gen uint64) *domain.Snapshot {
	started := time.Now()

	snapshot := s.loader.Load(context.WithoutCancel(ctx))

	if !s.publish(gen, snapshot) {
		log.ForContext(ctx).WithField("snapshot_id", snapshot.ID).Debug("Snapshot obsoleto descartado sem publicação")
	}

	s.metrics.observeLoad(time.Since(started).Seconds(), snapshot.TotalRecords(), len(snapshot.Rejected))

	return snapshot
}

// publish grava o snapshot somente se nenhuma invalidação ocorreu desde o início da carga
func (s *Service) publish(gen uint64, snapshot *domain.Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return false
	}

	s.dataCache.Set(s.source.Name(), snapshot)
	s.analyticsCache.Clear()
	s.queryCache.Clear()
	return true
}

// CacheStats retorna o estado atual dos caches sem disparar uma carga
func (s *Service) CacheStats(ctx context.Context) domain.CacheStats {
	stats := domain.CacheStats{
		Data: domain.DataCacheStats{
			TTLSeconds: s.dataTTL.Seconds(),
		},
		Analytics: domain.ResultCacheStats{
			Entries:    s.analyticsCache.Len(),
			TTLSeconds: s.analyticsTTL.Seconds(),
		},
		Query: domain.ResultCacheStats{
			Entries:    s.queryCache.Len(),
			TTLSeconds: s.queryTTL.Seconds(),
		},
	}

	key := s.source.Name()
	snapshot, ok := s.dataCache.Get(key)
	if !ok {
		return stats
	}

	age, _ := s.dataCache.Age(key)

	stats.Data.Loaded = true
	stats.Data.SnapshotID = snapshot.ID
	stats.Data.Source = snapshot.Source
	stats.Data.LoadedAt = snapshot.LoadedAt
	stats.Data.AgeSeconds = age.Seconds()
	stats.Indexes = domain.IndexStats{
		Products: len(snapshot.Indexes.ByProduct),
		Sectors:  len(snapshot.Indexes.BySector),
		Regions:  len(snapshot.Indexes.ByRegion),
		Periods:  len(snapshot.Indexes.ByPeriod),
	}
	stats.TotalEntries = len(snapshot.Entries)
	stats.TotalRecords = snapshot.TotalRecords()
	stats.RejectedEntries = len(snapshot.Rejected)

	return stats
}

// cachedAnalytics resolve um resultado pelo cache de análises.
// A chave combina o snapshot, o método e os parâmetros canônicos.
// O mesmo ponteiro é entregue a todos os chamadores; o resultado é somente leitura.
func cachedAnalytics[T any](ctx context.Context, s *Service, snapshot *domain.Snapshot, method string, params any, compute func() (T, error)) (T, error) {
	key, err := resultKey(snapshot, method, params)
	if err != nil {
		var zero T
		return zero, err
	}

	if value, ok := s.analyticsCache.Get(key); ok {
		if result, ok := value.(T); ok {
			s.metrics.hit(cacheAnalytics)
			return result, nil
		}
	}
	s.metrics.miss(cacheAnalytics)

	result, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}

	s.analyticsCache.Set(key, result)
	log.ForContext(ctx).WithField("method", method).Debug("Resultado de análise calculado")

	return result, nil
}

func resultKey(snapshot *domain.Snapshot, method string, params any) (string, error) {
	canonical, err := utils.CanonicalJson(params)
	if err != nil {
		return "", err
	}
	return snapshot.ID + "|" + method + "|" + canonical, nil
}

var _ Analyzer = (*Service)(nil)
