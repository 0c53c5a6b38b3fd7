package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/sales-analytics/infrastructure/database/postgres"
	"github.com/vfg2006/sales-analytics/infrastructure/datasource"
	"github.com/vfg2006/sales-analytics/infrastructure/exporter"
	"github.com/vfg2006/sales-analytics/internal/config"
	"github.com/vfg2006/sales-analytics/internal/domain"
	"github.com/vfg2006/sales-analytics/internal/scheduler"
	"github.com/vfg2006/sales-analytics/internal/usecases/analyzing"
	"github.com/vfg2006/sales-analytics/pkg/log"
	"github.com/vfg2006/sales-analytics/pkg/utils"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel, os.Stdout)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx, correlationID := log.WithCorrelationID(ctx)
	logrus.WithField("correlation_id", correlationID).Info("Iniciando motor de análises de vendas")

	source, closeSource, err := newSource(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao configurar fonte de dados")
	}
	defer closeSource()

	metrics := analyzing.NewMetrics(cfg.Metrics.Namespace, prometheus.DefaultRegisterer)
	analyzer := analyzing.NewService(cfg, source, analyzing.WithMetrics(metrics))

	// aquecimento do cache de dados
	snapshot := analyzer.Snapshot(ctx)
	logrus.WithFields(logrus.Fields{
		"snapshot_id": snapshot.ID,
		"source":      snapshot.Source,
		"entries":     len(snapshot.Entries),
		"rejected":    len(snapshot.Rejected),
	}).Info("Dados de vendas carregados")

	report, err := buildReport(ctx, analyzer)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao gerar relatório de vendas")
	}
	logrus.Infof("Resumo de vendas:\n%s", utils.PrettyJson(report.Summary))
	logrus.Infof("Qualidade dos dados:\n%s", utils.PrettyJson(report.Quality))

	if cfg.Report.OutputPath != "" {
		if err := exporter.WriteWorkbook(cfg.Report.OutputPath, report); err != nil {
			logrus.WithError(err).Error("Erro ao exportar planilha")
		} else {
			logrus.WithField("path", cfg.Report.OutputPath).Info("Planilha exportada com sucesso")
		}
	}

	refreshService := scheduler.NewSnapshotRefreshService(analyzer, cfg)
	if err := refreshService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de recarga do snapshot")
	}

	if !cfg.SnapshotRefresh.Enabled {
		return
	}

	<-ctx.Done()
	logrus.WithField("status", utils.PrettyJson(refreshService.GetStatus())).Info("Encerrando motor de análises de vendas")
}

// newSource cria a fonte de dados configurada e a função que libera seus recursos
func newSource(ctx context.Context, cfg *config.Config) (datasource.Source, func(), error) {
	switch cfg.DataSource.Driver {
	case config.DataSourcePostgres:
		conn, err := postgres.NewConnection(ctx, cfg.Database)
		if err != nil {
			return nil, nil, errors.Wrap(err, "erro ao conectar ao PostgreSQL")
		}
		logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
		return datasource.NewPostgresSource(conn, cfg.DataSource.Table), func() { _ = conn.Close() }, nil
	case config.DataSourceFile:
		return datasource.NewFileSource(cfg.DataSource.FilePath), func() {}, nil
	default:
		return nil, nil, errors.Errorf("fonte de dados desconhecida: %s", cfg.DataSource.Driver)
	}
}

// buildReport executa as análises exportadas na planilha
func buildReport(ctx context.Context, analyzer analyzing.Analyzer) (exporter.Report, error) {
	var report exporter.Report
	var err error

	if report.Summary, err = analyzer.GetSalesSummary(ctx, domain.SummaryFilters{}); err != nil {
		return report, errors.Wrap(err, "erro ao gerar resumo de vendas")
	}
	if report.Sectors, err = analyzer.GetSectorPerformance(ctx, domain.SectorFilters{}); err != nil {
		return report, errors.Wrap(err, "erro ao gerar ranking de setores")
	}
	if report.Products, err = analyzer.GetProductPerformance(ctx, domain.ProductFilters{}); err != nil {
		return report, errors.Wrap(err, "erro ao gerar desempenho de produtos")
	}
	if report.Quality, err = analyzer.ValidateDataQuality(ctx); err != nil {
		return report, errors.Wrap(err, "erro ao validar qualidade dos dados")
	}

	return report, nil
}
