package observability

import (
	"strings"

	"github.com/smallbiznis/appinventory/internal/config"
)

// Config is the observability view of the application config.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelSamplingRatio    float64
}

func LoadConfig(cfg config.Config) Config {
	serviceName := strings.TrimSpace(cfg.AppName)
	if serviceName == "" {
		serviceName = "appinventory"
	}
	t := cfg.Telemetry
	logLevel := t.LogLevel
	if logLevel == "" {
		logLevel = "info"
	}
	ratio := t.SamplingRatio
	if ratio < 0 || ratio > 1 {
		ratio = 1
	}

	return Config{
		ServiceName:          serviceName,
		Environment:          strings.TrimSpace(cfg.Environment),
		Version:              strings.TrimSpace(cfg.AppVersion),
		LogLevel:             logLevel,
		LogFormat:            t.LogFormat,
		OtelEnabled:          t.OTelEnabled && t.OTLPEndpoint != "",
		OtelExporterEndpoint: t.OTLPEndpoint,
		OtelSamplingRatio:    ratio,
	}
}

// Debug is true for debug log level and for local environments.
func (c Config) Debug() bool {
	if c.LogLevel == "debug" {
		return true
	}
	switch strings.ToLower(c.Environment) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}
