package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	usage "solar-insights/internal/usage/domain"
)

// Config defines one run's inputs, outputs and plan rates. Values come from
// defaults, then an optional yaml file, then environment overrides.
type Config struct {
	AccountID    string           `yaml:"account_id"`
	IntervalPath string           `yaml:"interval_path"`
	HourlyPath   string           `yaml:"hourly_path"`
	OutputPath   string           `yaml:"output_path"`
	XLSXPath     string           `yaml:"xlsx_path"`
	PDFPath      string           `yaml:"pdf_path"`
	DatabaseURL  string           `yaml:"database_url"`
	LogLevel     string           `yaml:"log_level"`
	Plan         usage.PlanConfig `yaml:"plan"`
}

// Load reads configuration. The yaml path itself comes from
// SOLAR_INSIGHTS_CONFIG and is optional.
func Load() (Config, error) {
	cfg := Config{
		AccountID:  getenvDefault("SOLAR_INSIGHTS_ACCOUNT_ID", "default"),
		OutputPath: getenvDefault("SOLAR_INSIGHTS_OUTPUT", "usage_analytics.json"),
		LogLevel:   getenvDefault("SOLAR_INSIGHTS_LOG_LEVEL", "info"),
		Plan:       usage.DefaultPlanConfig(),
	}

	if path := os.Getenv("SOLAR_INSIGHTS_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.IntervalPath == "" {
		cfg.IntervalPath = os.Getenv("SOLAR_INSIGHTS_INTERVAL_PATH")
	}
	if cfg.HourlyPath == "" {
		cfg.HourlyPath = os.Getenv("SOLAR_INSIGHTS_HOURLY_PATH")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = getenvDefault("DATABASE_URL", "")
	}
	if rate := getenvFloatDefault("SOLAR_INSIGHTS_SHOULDER_RATE", 0); rate > 0 {
		cfg.Plan.ShoulderRate = rate
	}
	if plan := os.Getenv("SOLAR_INSIGHTS_PLAN"); plan != "" {
		cfg.Plan.PlanType = usage.PlanType(plan)
	}
	cfg.Plan = cfg.Plan.Merge(usage.DefaultPlanConfig())
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
