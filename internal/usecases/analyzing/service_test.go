package analyzing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/sales-analytics/infrastructure/datasource"
	"github.com/vfg2006/sales-analytics/infrastructure/datasource/mocks"
	"github.com/vfg2006/sales-analytics/internal/config"
	"github.com/vfg2006/sales-analytics/internal/domain"
)

const salesFixture = `{
	"schema_version": "1.0",
	"sales_data": [
		{
			"product_id": "alpha-pos", "company": "Alpha", "sector": "Retail", "region": "Nordic",
			"sales_records": [
				{"period": "2024-01", "units_sold": 10, "revenue": 100, "currency": "EUR", "growth_rate": 1, "market_share": 10},
				{"period": "2024-02", "units_sold": 11, "revenue": 110, "currency": "EUR", "growth_rate": 2, "market_share": 12},
				{"period": "2024-03", "units_sold": 12, "revenue": 121, "currency": "EUR", "growth_rate": 3, "market_share": 14}
			]
		},
		{
			"product_id": "beta-erp", "company": "Beta", "sector": "Finance", "region": "DACH",
			"sales_records": [
				{"period": "2024-01", "units_sold": 1, "revenue": 200, "currency": "EUR", "growth_rate": 5, "market_share": 20},
				{"period": "2024-02", "units_sold": 1, "revenue": 100, "currency": "EUR", "growth_rate": -5, "market_share": 20}
			]
		},
		{
			"product_id": "gamma-crm", "company": "Gamma", "sector": "Retail", "region": "DACH",
			"sales_records": [
				{"period": "2024-02", "units_sold": 5, "revenue": 50, "currency": "EUR", "growth_rate": 0, "market_share": 5}
			]
		},
		{
			"product_id": "alpha-pos", "company": "Alpha", "sector": "Finance", "region": "Nordic",
			"sales_records": [
				{"period": "2024-03", "units_sold": 3, "revenue": 30, "currency": "EUR", "growth_rate": 1, "market_share": 2}
			]
		},
		{"product_id": "broken", "company": "Broken"}
	]
}`

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig() *config.Config {
	return &config.Config{
		Cache: config.Cache{
			DataTTL:      5 * time.Minute,
			AnalyticsTTL: 3 * time.Minute,
			QueryTTL:     3 * time.Minute,
		},
		Query:   config.Query{MaxRows: 1000},
		Metrics: config.Metrics{Namespace: "test"},
	}
}

func newTestService(t *testing.T, source datasource.Source, clock *fakeClock) (*Service, *Metrics) {
	t.Helper()
	metrics := NewMetrics("test", prometheus.NewRegistry())
	return NewService(testConfig(), source, WithClock(clock.Now), WithMetrics(metrics)), metrics
}

func fixtureService(t *testing.T) (*Service, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	service, _ := newTestService(t, datasource.NewMemorySource("fixture", []byte(salesFixture)), clock)
	return service, clock
}

func TestService_Snapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("Snapshot fica em cache dentro do TTL", func(t *testing.T) {
		clock := newFakeClock()
		service, metrics := newTestService(t, datasource.NewMemorySource("fixture", []byte(salesFixture)), clock)

		first := service.Snapshot(ctx)
		clock.Advance(4 * time.Minute)
		second := service.Snapshot(ctx)

		assert.Same(t, first, second)
		assert.Len(t, first.Entries, 4)
		assert.Len(t, first.Rejected, 1)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cacheHits.WithLabelValues(cacheData)))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cacheMisses.WithLabelValues(cacheData)))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.reloads))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.rejected))
		assert.Equal(t, 7.0, testutil.ToFloat64(metrics.records))
	})

	t.Run("Snapshot expirado é recarregado", func(t *testing.T) {
		clock := newFakeClock()
		service, metrics := newTestService(t, datasource.NewMemorySource("fixture", []byte(salesFixture)), clock)

		first := service.Snapshot(ctx)
		clock.Advance(5 * time.Minute)
		second := service.Snapshot(ctx)

		assert.NotSame(t, first, second)
		assert.Equal(t, 2.0, testutil.ToFloat64(metrics.reloads))
	})

	t.Run("Cargas concorrentes usam uma única leitura da fonte", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := mocks.NewMockSource(ctrl)

		release := make(chan struct{})
		source.EXPECT().Name().Return("mock").AnyTimes()
		source.EXPECT().Fetch(gomock.Any()).DoAndReturn(func(ctx context.Context) (*domain.SourceDocument, error) {
			<-release
			return datasource.NewMemorySource("fixture", []byte(salesFixture)).Fetch(ctx)
		}).Times(1)

		service, _ := newTestService(t, source, newFakeClock())

		var wg sync.WaitGroup
		snapshots := make([]*domain.Snapshot, 10)
		for i := range snapshots {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				snapshots[i] = service.Snapshot(ctx)
			}(i)
		}

		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()

		for _, snapshot := range snapshots {
			assert.Same(t, snapshots[0], snapshot)
		}
	})
}

func TestService_ReloadAndInvalidate(t *testing.T) {
	ctx := context.Background()
	service, _ := fixtureService(t)

	_, err := service.GetSalesSummary(ctx, domain.SummaryFilters{})
	require.NoError(t, err)
	_, err = service.AdvancedQuery(ctx, domain.QueryRequest{})
	require.NoError(t, err)

	before := service.CacheStats(ctx)
	assert.True(t, before.Data.Loaded)
	assert.Equal(t, 1, before.Analytics.Entries)
	assert.Equal(t, 1, before.Query.Entries)

	t.Run("InvalidateAll limpa todos os caches", func(t *testing.T) {
		service.InvalidateAll()

		stats := service.CacheStats(ctx)
		assert.False(t, stats.Data.Loaded)
		assert.Zero(t, stats.Analytics.Entries)
		assert.Zero(t, stats.Query.Entries)
		assert.Zero(t, stats.TotalEntries)
	})

	t.Run("Estatísticas após uma consulta refletem dados novos", func(t *testing.T) {
		summary, err := service.GetSalesSummary(ctx, domain.SummaryFilters{})
		require.NoError(t, err)

		stats := service.CacheStats(ctx)
		assert.True(t, stats.Data.Loaded)
		assert.NotEqual(t, before.Data.SnapshotID, stats.Data.SnapshotID)
		assert.Equal(t, 1, stats.Analytics.Entries)
		assert.Zero(t, stats.Query.Entries)
		assert.Equal(t, 4, stats.TotalEntries)
		assert.Equal(t, summary.TotalRecords, stats.TotalRecords)
		assert.Equal(t, 1, stats.RejectedEntries)
		assert.Equal(t, domain.IndexStats{Products: 3, Sectors: 2, Regions: 2, Periods: 3}, stats.Indexes)
		assert.Equal(t, 300.0, stats.Data.TTLSeconds)
		assert.Equal(t, 180.0, stats.Analytics.TTLSeconds)
	})

	t.Run("Reload publica um novo snapshot e descarta resultados", func(t *testing.T) {
		previous := service.Snapshot(ctx)

		reloaded, err := service.Reload(ctx)
		require.NoError(t, err)

		assert.NotEqual(t, previous.ID, reloaded.ID)
		assert.Same(t, reloaded, service.Snapshot(ctx))
		assert.Zero(t, service.CacheStats(ctx).Analytics.Entries)
	})

	t.Run("Reload com contexto cancelado", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := service.Reload(cancelled)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// switchingSource bloqueia a primeira leitura até release ser fechado e permite trocar o documento
type switchingSource struct {
	mu      sync.Mutex
	payload string
	calls   int
	started chan struct{}
	release chan struct{}
}

func newSwitchingSource(payload string) *switchingSource {
	return &switchingSource{
		payload: payload,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (s *switchingSource) Name() string {
	return "switching"
}

func (s *switchingSource) Fetch(ctx context.Context) (*domain.SourceDocument, error) {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	payload := s.payload
	s.mu.Unlock()

	if first {
		close(s.started)
		<-s.release
	}

	return datasource.NewMemorySource("switching", []byte(payload)).Fetch(ctx)
}

func (s *switchingSource) setPayload(payload string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = payload
}

func (s *switchingSource) fetchCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestService_CargaEmAndamentoNaoPublicaDadosObsoletos(t *testing.T) {
	ctx := context.Background()
	const emptyDocument = `{"sales_data": []}`

	tests := []struct {
		name         string
		act          func(t *testing.T, service *Service)
		wantInFlight int
	}{
		{
			name: "Reload faz uma leitura nova mesmo com carga em andamento",
			act: func(t *testing.T, service *Service) {
				reloaded, err := service.Reload(ctx)
				require.NoError(t, err)
				assert.Empty(t, reloaded.Entries)
			},
			wantInFlight: 4,
		},
		{
			name: "InvalidateAll impede a publicação da carga em andamento",
			act: func(t *testing.T, service *Service) {
				service.InvalidateAll()
			},
			wantInFlight: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newSwitchingSource(salesFixture)
			service, _ := newTestService(t, source, newFakeClock())

			inFlight := make(chan *domain.Snapshot, 1)
			go func() {
				inFlight <- service.Snapshot(ctx)
			}()

			<-source.started
			source.setPayload(emptyDocument)

			tt.act(t, service)

			close(source.release)
			stale := <-inFlight
			assert.Len(t, stale.Entries, tt.wantInFlight)

			current := service.Snapshot(ctx)
			assert.Empty(t, current.Entries)
			assert.NotEqual(t, stale.ID, current.ID)
			assert.Equal(t, 2, source.fetchCalls())
		})
	}
}

func TestService_AnalyticsCache(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	service, metrics := newTestService(t, datasource.NewMemorySource("fixture", []byte(salesFixture)), clock)

	filters := domain.SummaryFilters{Sector: "retail"}

	first, err := service.GetSalesSummary(ctx, filters)
	require.NoError(t, err)
	second, err := service.GetSalesSummary(ctx, filters)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cacheHits.WithLabelValues(cacheAnalytics)))

	clock.Advance(3 * time.Minute)
	third, err := service.GetSalesSummary(ctx, filters)
	require.NoError(t, err)

	assert.NotSame(t, first, third)
	assert.Equal(t, first, third)
}
