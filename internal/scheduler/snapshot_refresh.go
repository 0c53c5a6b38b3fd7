package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/sales-analytics/internal/config"
	"github.com/vfg2006/sales-analytics/internal/domain"
)

//go:generate mockgen -source=snapshot_refresh.go -destination=mocks/snapshot_refresh.go -package=mocks

// SnapshotReloader recarrega o snapshot de vendas
type SnapshotReloader interface {
	Reload(ctx context.Context) (*domain.Snapshot, error)
}

// SnapshotRefreshConfig representa a configuração do agendador de recarga
type SnapshotRefreshConfig struct {
	CronSchedule string
	Enabled      bool
}

// SnapshotRefreshStatus é o estado atual do agendador
type SnapshotRefreshStatus struct {
	Running             bool      `json:"running"`
	CronSchedule        string    `json:"cron_schedule"`
	Enabled             bool      `json:"enabled"`
	LastSnapshotID      string    `json:"last_snapshot_id,omitempty"`
	LastSyncStartedAt   time.Time `json:"last_sync_started_at"`
	LastSyncCompletedAt time.Time `json:"last_sync_completed_at"`
}

// SnapshotRefreshService recarrega periodicamente os dados de vendas
type SnapshotRefreshService struct {
	scheduler           *gocron.Scheduler
	config              SnapshotRefreshConfig
	reloader            SnapshotReloader
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSnapshotID      string
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

// NewSnapshotRefreshService cria o serviço de recarga agendada do snapshot
func NewSnapshotRefreshService(reloader SnapshotReloader, appConfig *config.Config) *SnapshotRefreshService {
	refreshConfig := SnapshotRefreshConfig{
		CronSchedule: appConfig.SnapshotRefresh.CronSchedule,
		Enabled:      appConfig.SnapshotRefresh.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": refreshConfig.CronSchedule,
		"enabled":       refreshConfig.Enabled,
	}).Info("Configuração do agendador de recarga do snapshot carregada")

	return &SnapshotRefreshService{
		scheduler: gocron.NewScheduler(time.Local),
		config:    refreshConfig,
		reloader:  reloader,
	}
}

// Start inicia o agendador; o cancelamento do contexto o encerra
func (s *SnapshotRefreshService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Recarga agendada do snapshot desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de recarga do snapshot")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.RunNow(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar recarga do snapshot: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de recarga do snapshot")
		s.scheduler.Stop()
	}()

	return nil
}

// RunNow executa uma recarga imediatamente. Retorna false se outra recarga já estiver em andamento.
func (s *SnapshotRefreshService) RunNow(ctx context.Context) bool {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Recarga do snapshot já em andamento, ignorando")
		return false
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	startTime := time.Now()
	snapshot, err := s.reloader.Reload(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao recarregar snapshot de vendas")
		return true
	}

	s.syncMutex.Lock()
	s.lastSnapshotID = snapshot.ID
	s.lastSyncCompletedAt = time.Now()
	s.syncMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"snapshot_id": snapshot.ID,
		"entries":     len(snapshot.Entries),
		"rejected":    len(snapshot.Rejected),
		"duration":    time.Since(startTime).String(),
	}).Info("Snapshot de vendas recarregado")

	return true
}

// TriggerManualSync dispara uma recarga em segundo plano
func (s *SnapshotRefreshService) TriggerManualSync(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Recarga do snapshot já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando recarga manual do snapshot")
	go s.RunNow(ctx)
}

// GetStatus retorna o status atual do agendador
func (s *SnapshotRefreshService) GetStatus() SnapshotRefreshStatus {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return SnapshotRefreshStatus{
		Running:             s.syncRunning,
		CronSchedule:        s.config.CronSchedule,
		Enabled:             s.config.Enabled,
		LastSnapshotID:      s.lastSnapshotID,
		LastSyncStartedAt:   s.lastSyncStartedAt,
		LastSyncCompletedAt: s.lastSyncCompletedAt,
	}
}
