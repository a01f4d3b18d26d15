package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"diseasenet"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"4242"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// Registry-Endpunkte
	KeggBaseURL    string `envconfig:"KEGG_BASE_URL" default:"https://rest.kegg.jp"`
	UniProtBaseURL string `envconfig:"UNIPROT_BASE_URL" default:"https://rest.uniprot.org"`
	PubChemBaseURL string `envconfig:"PUBCHEM_BASE_URL" default:"https://pubchem.ncbi.nlm.nih.gov/rest/pug"`

	// Zielorganismus: KEGG-Namespace-Marker und UniProt-Taxonomie-ID
	OrganismCode  string `envconfig:"ORGANISM_CODE" default:"hsa"`
	OrganismTaxID string `envconfig:"ORGANISM_TAX_ID" default:"9606"`

	// Anreicherung & Resilienz
	EnrichWorkers        int `envconfig:"ENRICH_WORKERS" default:"5"`
	HTTPTimeoutSeconds   int `envconfig:"HTTP_TIMEOUT_SECONDS" default:"10"`
	PubChemDelayMillis   int `envconfig:"PUBCHEM_DELAY_MILLIS" default:"250"`
	SuggestLimit         int `envconfig:"SUGGEST_LIMIT" default:"5"`
	KeggMaxAttempts      int `envconfig:"KEGG_MAX_ATTEMPTS" default:"3"`
	KeggRetryDelayMillis int `envconfig:"KEGG_RETRY_DELAY_MILLIS" default:"1000"`
	EnrichMaxAttempts    int `envconfig:"ENRICH_MAX_ATTEMPTS" default:"2"`
	EnrichDelayMillis    int `envconfig:"ENRICH_RETRY_DELAY_MILLIS" default:"500"`

	CronSchedule string `envconfig:"CRON_SCHEDULE" default:"0 3 * * *"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// HTTPTimeout gibt den Timeout für einzelne Registry-Aufrufe zurück.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
