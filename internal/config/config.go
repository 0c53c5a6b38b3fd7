package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Drivers de fonte de dados suportados
const (
	DataSourceFile     = "file"
	DataSourcePostgres = "postgres"
)

type Config struct {
	App             App             `mapstructure:",squash"`
	Database        Database        `mapstructure:",squash"`
	DataSource      DataSource      `mapstructure:",squash"`
	Cache           Cache           `mapstructure:",squash"`
	Query           Query           `mapstructure:",squash"`
	SnapshotRefresh SnapshotRefresh `mapstructure:",squash"`
	Report          Report          `mapstructure:",squash"`
	Metrics         Metrics         `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type DataSource struct {
	Driver   string `mapstructure:"data_source_driver"`
	FilePath string `mapstructure:"sales_data_file"`
	Table    string `mapstructure:"sales_data_table"`
}

type Cache struct {
	DataTTL      time.Duration `mapstructure:"data_cache_ttl"`
	AnalyticsTTL time.Duration `mapstructure:"analytics_cache_ttl"`
	QueryTTL     time.Duration `mapstructure:"query_cache_ttl"`
}

type Query struct {
	MaxRows int `mapstructure:"query_max_rows"`
}

type SnapshotRefresh struct {
	CronSchedule string `mapstructure:"snapshot_refresh_cron"`
	Enabled      bool   `mapstructure:"snapshot_refresh_enabled"`
}

type Report struct {
	OutputPath string `mapstructure:"report_output_path"`
}

type Metrics struct {
	Namespace string `mapstructure:"metrics_namespace"`
}

func SetDefaults() {
	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/sales?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("DATA_SOURCE_DRIVER", DataSourceFile)
	viper.SetDefault("SALES_DATA_FILE", "data/sales_data.json")
	viper.SetDefault("SALES_DATA_TABLE", "sales_entries")

	viper.SetDefault("DATA_CACHE_TTL", "5m")
	viper.SetDefault("ANALYTICS_CACHE_TTL", "3m")
	viper.SetDefault("QUERY_CACHE_TTL", "3m")

	viper.SetDefault("QUERY_MAX_ROWS", 1000)

	viper.SetDefault("SNAPSHOT_REFRESH_CRON", "*/5 * * * *") // a cada 5 minutos
	viper.SetDefault("SNAPSHOT_REFRESH_ENABLED", false)

	viper.SetDefault("REPORT_OUTPUT_PATH", "")
	viper.SetDefault("METRICS_NAMESPACE", "sales_analytics")
}

func NewConfig() (*Config, error) {
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis de ambiente (viper não conseguiu ler .env): ", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Validate verifica combinações inválidas de configuração
func (c *Config) Validate() error {
	switch c.DataSource.Driver {
	case DataSourceFile:
		if c.DataSource.FilePath == "" {
			return fmt.Errorf("SALES_DATA_FILE é obrigatório quando DATA_SOURCE_DRIVER=%s", DataSourceFile)
		}
	case DataSourcePostgres:
		if c.DataSource.Table == "" {
			return fmt.Errorf("SALES_DATA_TABLE é obrigatório quando DATA_SOURCE_DRIVER=%s", DataSourcePostgres)
		}
	default:
		return fmt.Errorf("DATA_SOURCE_DRIVER inválido: %q", c.DataSource.Driver)
	}

	if c.Query.MaxRows <= 0 {
		return fmt.Errorf("QUERY_MAX_ROWS deve ser positivo")
	}

	return nil
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
