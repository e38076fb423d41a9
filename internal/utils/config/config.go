package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/dwarvesf/wallet-tracker/internal/types/environments"
)

type AppConfig struct {
	Environment environments.Environment
	ApiServer   ApiServerConfig
	Postgres    DBConnection
	Alchemy     AlchemyConfig
	Tracker     TrackerConfig
	Exporter    ExporterConfig
}

type ApiServerConfig struct {
	Port           string
	AllowedOrigins string
	MetricsSecret  string
}

type AlchemyConfig struct {
	APIKey           string
	ChainsConfigPath string
}

type TrackerConfig struct {
	Wallets          []string
	Concurrency      int
	RunPeriod        string
	RunOnStart       bool
	UptimeWebhookURL string
}

type ExporterConfig struct {
	Backend               string
	OutputPath            string
	SpreadsheetID         string
	GoogleCredentialsPath string
}

type DBConnection struct {
	Host string
	Port string
	User string
	Name string
	Pass string

	SSLMode string
}

func New() *AppConfig {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// this will not override env variables if they already exist
	godotenv.Load(".env." + env)

	return &AppConfig{
		Environment: environments.Environment(env),
		ApiServer: ApiServerConfig{
			Port:           os.Getenv("API_SERVER_PORT"),
			AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
			MetricsSecret:  os.Getenv("METRICS_SECRET"),
		},
		Postgres: DBConnection{
			Host:    os.Getenv("DB_HOST"),
			Port:    os.Getenv("DB_PORT"),
			User:    os.Getenv("DB_USER"),
			Name:    os.Getenv("DB_NAME"),
			Pass:    os.Getenv("DB_PASS"),
			SSLMode: os.Getenv("DB_SSL_MODE"),
		},
		Alchemy: AlchemyConfig{
			APIKey:           os.Getenv("ALCHEMY_KEY"),
			ChainsConfigPath: envVarOrDefault("CHAINS_CONFIG_PATH", "chains.json"),
		},
		Tracker: TrackerConfig{
			Wallets:          splitCommaList(os.Getenv("WALLETS")),
			Concurrency:      envVarAtoiOrDefault("TRACKER_CONCURRENCY", 4),
			RunPeriod:        os.Getenv("TRACKER_RUN_PERIOD"),
			RunOnStart:       envVarAsBool("TRACKER_RUN_ON_START"),
			UptimeWebhookURL: os.Getenv("TRACKER_UPTIME_WEBHOOK_URL"),
		},
		Exporter: ExporterConfig{
			Backend:               envVarOrDefault("EXPORTER_BACKEND", "xlsx"),
			OutputPath:            envVarOrDefault("EXPORTER_OUTPUT_PATH", "out/transactions.xlsx"),
			SpreadsheetID:         os.Getenv("EXPORTER_SPREADSHEET_ID"),
			GoogleCredentialsPath: os.Getenv("EXPORTER_GOOGLE_CREDENTIALS_PATH"),
		},
	}
}

// Validate reports the configuration problems that make an aggregation run
// impossible. It is called before any fetching starts.
func (c *AppConfig) Validate() error {
	if len(c.Tracker.Wallets) == 0 {
		return errors.New("config: wallet list is empty")
	}
	if c.Alchemy.APIKey == "" {
		return errors.New("config: alchemy api key is not set")
	}

	validate := validator.New()
	for _, wallet := range c.Tracker.Wallets {
		if err := validate.Var(wallet, "eth_addr"); err != nil {
			return errors.Errorf("config: %s is not a valid wallet address", wallet)
		}
	}

	return nil
}

func splitCommaList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}

func envVarOrDefault(envName, defaultValue string) string {
	value := os.Getenv(envName)
	if value == "" {
		return defaultValue
	}

	return value
}

func envVarAtoiOrDefault(envName string, defaultValue int) int {
	valueStr := os.Getenv(envName)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func envVarAsBool(envName string) bool {
	valueStr := os.Getenv(envName)
	return valueStr == "true"
}
