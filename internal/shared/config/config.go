package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Dataset    DatasetConfig
	Database   DatabaseConfig
	HIS        HISConfig
	Model      ModelConfig
	Operations OperationsConfig
}

type ServerConfig struct {
	Port int
	Env  string
	// Per-client request budget for the API
	RateLimitRPS   int
	RateLimitBurst int
}

type LogConfig struct {
	// Mode: "development" or "production"
	Mode string
}

// DatasetConfig selects where the historical admissions dataset is read from.
type DatasetConfig struct {
	// Source: "csv", "postgres" or "his"
	Source string
	// Path of the CSV file (csv source)
	Path string
	// Table holding the history (postgres source)
	Table string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// HISConfig holds the connection to the hospital information system (SQL Server).
type HISConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	Encrypt  bool
	// HospitalizationTable is queried for emergency admissions per day
	HospitalizationTable string
}

// ConnString returns the sqlserver driver connection string.
func (h HISConfig) ConnString() string {
	connStr := fmt.Sprintf("server=%s;port=%d;database=%s;user id=%s;password=%s",
		h.Host, h.Port, h.Database, h.User, h.Password,
	)
	if h.Encrypt {
		connStr += ";encrypt=true;TrustServerCertificate=true"
	}
	return connStr
}

// ModelConfig selects the trained model provider.
type ModelConfig struct {
	// Kind: "file", "remote" or "none"
	Kind    string
	Path    string
	URL     string
	Timeout time.Duration
}

// OperationsConfig holds the per-deployment operational constants.
type OperationsConfig struct {
	KPI    KPIConfig    `yaml:"kpi"`
	Alerts AlertsConfig `yaml:"alerts"`
}

type KPIConfig struct {
	PatientsPerNurse     int `yaml:"patients_per_nurse"`
	PatientsPerPhysician int `yaml:"patients_per_physician"`
	MasksPerPatient      int `yaml:"masks_per_patient"`
	BedCapacity          int `yaml:"bed_capacity"`
}

type AlertsConfig struct {
	OccupancyCriticalPct int `yaml:"occupancy_critical_pct"`
	OccupancyWarningPct  int `yaml:"occupancy_warning_pct"`
	MaskCriticalDays     int `yaml:"mask_critical_days"`
	MaskWarningDays      int `yaml:"mask_warning_days"`
}

// DefaultOperations returns the ratios and thresholds used by the emergency department.
func DefaultOperations() OperationsConfig {
	return OperationsConfig{
		KPI: KPIConfig{
			PatientsPerNurse:     15,
			PatientsPerPhysician: 30,
			MasksPerPatient:      9,
			BedCapacity:          250,
		},
		Alerts: AlertsConfig{
			OccupancyCriticalPct: 90,
			OccupancyWarningPct:  75,
			MaskCriticalDays:     3,
			MaskWarningDays:      7,
		},
	}
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present. Operational constants start from
// DefaultOperations, are overlaid by OPERATIONS_FILE (YAML) and then by env vars.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	ops := DefaultOperations()
	if path := getEnv("OPERATIONS_FILE", ""); path != "" {
		fileOps, err := LoadOperationsFile(path, ops)
		if err != nil {
			return nil, err
		}
		ops = fileOps
	}
	ops = operationsFromEnv(ops)
	if err := ops.Validate(); err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Port:           getEnvInt("SERVER_PORT", 8080),
			Env:            getEnv("ENV", "development"),
			RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 20),
			RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 40),
		},
		Log: LogConfig{
			Mode: getEnv("LOG_MODE", getEnv("ENV", "development")),
		},
		Dataset: DatasetConfig{
			Source: getEnv("DATASET_SOURCE", "csv"),
			Path:   getEnv("DATASET_PATH", "hospital_pitie_salpetriere_COMPLETE_v2.csv"),
			Table:  getEnv("DATASET_TABLE", "admissions_history"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "urgences"),
			Password: getEnv("DB_PASSWORD", "urgences"),
			Database: getEnv("DB_NAME", "urgences"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		HIS: HISConfig{
			Host:                 getEnv("HIS_HOST", "localhost"),
			Port:                 getEnvInt("HIS_PORT", 1433),
			Database:             getEnv("HIS_DATABASE", "HIS"),
			User:                 getEnv("HIS_USER", "forecast_ro"),
			Password:             getEnv("HIS_PASSWORD", ""),
			Encrypt:              getEnvBool("HIS_ENCRYPT", false),
			HospitalizationTable: getEnv("HIS_HOSPITALIZATION_TABLE", "dbo.Hospitalizations"),
		},
		Model: ModelConfig{
			Kind:    getEnv("MODEL_KIND", "file"),
			Path:    getEnv("MODEL_PATH", "modele_reactif_v1.json"),
			URL:     getEnv("MODEL_URL", "http://localhost:5000/predict"),
			Timeout: getEnvDuration("MODEL_TIMEOUT", 5*time.Second),
		},
		Operations: ops,
	}, nil
}

// LoadOperationsFile overlays the YAML file at path onto base. Keys absent
// from the file keep their base value.
func LoadOperationsFile(path string, base OperationsConfig) (OperationsConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read operations file: %w", err)
	}
	ops := base
	if err := yaml.Unmarshal(raw, &ops); err != nil {
		return base, fmt.Errorf("failed to parse operations file %s: %w", path, err)
	}
	return ops, nil
}

// Validate rejects non-positive ratios and inverted thresholds.
func (o OperationsConfig) Validate() error {
	positive := map[string]int{
		"patients_per_nurse":     o.KPI.PatientsPerNurse,
		"patients_per_physician": o.KPI.PatientsPerPhysician,
		"masks_per_patient":      o.KPI.MasksPerPatient,
		"bed_capacity":           o.KPI.BedCapacity,
	}
	for name, v := range positive {
		if v <= 0 {
			return fmt.Errorf("operations: %s must be positive, got %d", name, v)
		}
	}
	if o.Alerts.OccupancyWarningPct > o.Alerts.OccupancyCriticalPct {
		return fmt.Errorf("operations: occupancy warning (%d) above critical (%d)",
			o.Alerts.OccupancyWarningPct, o.Alerts.OccupancyCriticalPct)
	}
	if o.Alerts.MaskWarningDays < o.Alerts.MaskCriticalDays {
		return fmt.Errorf("operations: mask warning (%d days) below critical (%d days)",
			o.Alerts.MaskWarningDays, o.Alerts.MaskCriticalDays)
	}
	return nil
}

func operationsFromEnv(o OperationsConfig) OperationsConfig {
	o.KPI.PatientsPerNurse = getEnvInt("KPI_PATIENTS_PER_NURSE", o.KPI.PatientsPerNurse)
	o.KPI.PatientsPerPhysician = getEnvInt("KPI_PATIENTS_PER_PHYSICIAN", o.KPI.PatientsPerPhysician)
	o.KPI.MasksPerPatient = getEnvInt("KPI_MASKS_PER_PATIENT", o.KPI.MasksPerPatient)
	o.KPI.BedCapacity = getEnvInt("KPI_BED_CAPACITY", o.KPI.BedCapacity)
	o.Alerts.OccupancyCriticalPct = getEnvInt("ALERT_OCCUPANCY_CRITICAL_PCT", o.Alerts.OccupancyCriticalPct)
	o.Alerts.OccupancyWarningPct = getEnvInt("ALERT_OCCUPANCY_WARNING_PCT", o.Alerts.OccupancyWarningPct)
	o.Alerts.MaskCriticalDays = getEnvInt("ALERT_MASK_CRITICAL_DAYS", o.Alerts.MaskCriticalDays)
	o.Alerts.MaskWarningDays = getEnvInt("ALERT_MASK_WARNING_DAYS", o.Alerts.MaskWarningDays)
	return o
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
