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
	"github.com/vfg2006/stock-report-sync/internal/domain"
)

const (
	RunModeServer = "server"
	RunModeOnce   = "once"
)

type Config struct {
	App        App        `mapstructure:",squash"`
	Server     Server     `mapstructure:",squash"`
	Database   Database   `mapstructure:",squash"`
	Render     Render     `mapstructure:",squash"`
	Auth       Auth       `mapstructure:",squash"`
	Odoo       Odoo       `mapstructure:",squash"`
	Google     Google     `mapstructure:",squash"`
	Pipeline   Pipeline   `mapstructure:",squash"`
	ReportSync ReportSync `mapstructure:",squash"`
	SecretKey  string     `mapstructure:"secret_key"`

	Entities []domain.Entity       `mapstructure:"-"`
	Reports  []domain.ReportConfig `mapstructure:"-"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Render struct {
	APIKey    string `mapstructure:"render_api_key"`
	ServiceID string `mapstructure:"render_service_id"`
}

type App struct {
	LogLevel    string `mapstructure:"log_level"`
	RunMode     string `mapstructure:"run_mode"`
	ReportsFile string `mapstructure:"reports_file"`
	DownloadDir string `mapstructure:"download_dir"`
}

type Auth struct {
	AdminEmail        string        `mapstructure:"admin_email"`
	AdminPasswordHash string        `mapstructure:"admin_password_hash"`
	TokenTTL          time.Duration `mapstructure:"auth_token_ttl"`
}

// Odoo reúne os dados de acesso ao ERP
type Odoo struct {
	URL            string        `mapstructure:"odoo_url"`
	DB             string        `mapstructure:"odoo_db"`
	Username       string        `mapstructure:"odoo_username"`
	Password       string        `mapstructure:"odoo_password"`
	Timezone       string        `mapstructure:"odoo_timezone"`
	Lang           string        `mapstructure:"odoo_lang"`
	PageLimit      int           `mapstructure:"odoo_page_limit"`
	CountLimit     int           `mapstructure:"odoo_count_limit"`
	RequestTimeout time.Duration `mapstructure:"odoo_request_timeout"`
}

type Google struct {
	CredentialsFile   string `mapstructure:"google_credentials_file"`
	CredentialsSecret string `mapstructure:"google_credentials_secret"`
	CredentialsJSON   []byte `mapstructure:"-"`
}

// Pipeline controla as tentativas, as esperas e as datas de cada execução
type Pipeline struct {
	MaxAttempts       int    `mapstructure:"sync_max_attempts"`
	RetryStepSeconds  int    `mapstructure:"sync_retry_step_seconds"`
	RetryCapSeconds   int    `mapstructure:"sync_retry_cap_seconds"`
	SettleSeconds     int    `mapstructure:"sheet_settle_seconds"`
	SheetTimezone     string `mapstructure:"sheet_timezone"`
	FromDate          string `mapstructure:"from_date"`
	ToDate            string `mapstructure:"to_date"`
	RunHistoryEnabled bool   `mapstructure:"run_history_enabled"`
}

func (p Pipeline) RetryStep() time.Duration {
	return time.Duration(p.RetryStepSeconds) * time.Second
}

func (p Pipeline) RetryCap() time.Duration {
	return time.Duration(p.RetryCapSeconds) * time.Second
}

func (p Pipeline) SettleDelay() time.Duration {
	return time.Duration(p.SettleSeconds) * time.Second
}

type ReportSync struct {
	CronSchedule string `mapstructure:"report_sync_cron"`
	Enabled      bool   `mapstructure:"report_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/stock_report_sync")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("SECRET_KEY", "your_secret_key")
	viper.SetDefault("ADMIN_EMAIL", "")
	viper.SetDefault("ADMIN_PASSWORD_HASH", "")
	viper.SetDefault("AUTH_TOKEN_TTL", "24h")

	viper.SetDefault("RENDER_API_KEY", "")
	viper.SetDefault("RENDER_SERVICE_ID", "")

	viper.SetDefault("ODOO_URL", "http://localhost:8069")
	viper.SetDefault("ODOO_DB", "")
	viper.SetDefault("ODOO_USERNAME", "")
	viper.SetDefault("ODOO_PASSWORD", "")
	viper.SetDefault("ODOO_TIMEZONE", "Asia/Dhaka")
	viper.SetDefault("ODOO_LANG", "en_US")
	viper.SetDefault("ODOO_PAGE_LIMIT", domain.DefaultFetchLimit)
	viper.SetDefault("ODOO_COUNT_LIMIT", domain.DefaultCountLimit)
	viper.SetDefault("ODOO_REQUEST_TIMEOUT", "120s") // relatórios grandes demoram no ERP

	viper.SetDefault("GOOGLE_CREDENTIALS_FILE", "gcreds.json")
	viper.SetDefault("GOOGLE_CREDENTIALS_SECRET", "") // nome do secret file no Render

	viper.SetDefault("REPORTS_FILE", "reports.yaml")
	viper.SetDefault("DOWNLOAD_DIR", "download")
	viper.SetDefault("FROM_DATE", "")
	viper.SetDefault("TO_DATE", "")

	viper.SetDefault("SYNC_MAX_ATTEMPTS", 3)
	viper.SetDefault("SYNC_RETRY_STEP_SECONDS", 5)
	viper.SetDefault("SYNC_RETRY_CAP_SECONDS", 60)
	viper.SetDefault("SHEET_SETTLE_SECONDS", 2)
	viper.SetDefault("SHEET_TIMEZONE", "Asia/Dhaka")
	viper.SetDefault("RUN_HISTORY_ENABLED", false)

	viper.SetDefault("REPORT_SYNC_CRON", "0 7 * * *") // Todos os dias às 7h da manhã
	viper.SetDefault("REPORT_SYNC_ENABLED", true)
	viper.SetDefault("RUN_MODE", RunModeServer)

	viper.SetDefault("LOG_LEVEL", "info")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
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

	if config.Pipeline.MaxAttempts < 1 {
		config.Pipeline.MaxAttempts = 1
	}

	config.Entities, config.Reports, err = LoadReports(config.App.ReportsFile)
	if err != nil {
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

// LoadGoogleCredentials carrega o JSON da conta de serviço do Google, preferindo o secret file do Render
func (c *Config) LoadGoogleCredentials(secrets SecretStorage) error {
	if c.Google.CredentialsSecret != "" && c.Render.ServiceID != "" && secrets != nil {
		secretsByName, err := secrets.ListSecrets(c.Render.ServiceID)
		if err != nil {
			return fmt.Errorf("erro ao obter secrets do Render: %w", err)
		}

		content, ok := secretsByName[c.Google.CredentialsSecret]
		if !ok {
			return fmt.Errorf("secret %s não encontrado no Render", c.Google.CredentialsSecret)
		}

		c.Google.CredentialsJSON = []byte(content)
		return nil
	}

	content, err := os.ReadFile(c.Google.CredentialsFile)
	if err != nil {
		return fmt.Errorf("erro ao ler credenciais do Google em %s: %w", c.Google.CredentialsFile, err)
	}

	c.Google.CredentialsJSON = content
	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
