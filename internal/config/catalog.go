package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// CatalogConfig lists the values allowed for app category and status.
type CatalogConfig struct {
	Categories []string `mapstructure:"categories"`
	Statuses   []string `mapstructure:"statuses"`
}

func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		Categories: []string{
			"Analytics",
			"Data Engineering",
			"Demo",
			"Internal Tool",
			"Customer Facing",
			"Prototype",
			"Other",
		},
		Statuses: []string{
			"Active",
			"In Development",
			"Deprecated",
			"Archived",
		},
	}
}

// ReservedOptions are the filter choices that select every row or the rows
// with no value. A category or status with one of these names could never
// be selected on its own.
var ReservedOptions = []string{"All", "Uncategorized", "Not Set"}

// Catalog serves the current CatalogConfig and swaps it when catalog.yml changes.
type Catalog struct {
	current atomic.Value // holds CatalogConfig
}

// NewCatalog reads catalog.yml from the usual config paths, falling back to
// the defaults when no file exists.
func NewCatalog(log *zap.Logger) (*Catalog, error) {
	v := viper.New()

	v.SetConfigName("catalog")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/appinventory")
	v.AddConfigPath(".")

	v.SetEnvPrefix("APPINVENTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultCatalogConfig()
	v.SetDefault("catalog.categories", defaults.Categories)
	v.SetDefault("catalog.statuses", defaults.Statuses)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileFound = false
	}

	cfg, err := decodeCatalog(v)
	if err != nil {
		return nil, err
	}

	catalog := &Catalog{}
	catalog.current.Store(cfg)
	if !fileFound {
		return catalog, nil
	}

	log = log.Named("config.catalog")
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeCatalog(v)
		if err != nil {
			log.Warn("catalog reload ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		catalog.current.Store(updated)
		log.Info("catalog reloaded", zap.String("file", e.Name))
	})

	return catalog, nil
}

// NewStaticCatalog returns a Catalog that never reloads.
func NewStaticCatalog(cfg CatalogConfig) *Catalog {
	catalog := &Catalog{}
	catalog.current.Store(cfg)
	return catalog
}

func (c *Catalog) Get() CatalogConfig {
	return c.current.Load().(CatalogConfig)
}

func (c *Catalog) Categories() []string {
	return append([]string(nil), c.Get().Categories...)
}

func (c *Catalog) Statuses() []string {
	return append([]string(nil), c.Get().Statuses...)
}

func decodeCatalog(v *viper.Viper) (CatalogConfig, error) {
	var cfg CatalogConfig
	if err := v.UnmarshalKey("catalog", &cfg); err != nil {
		return CatalogConfig{}, err
	}
	cfg.Categories = normalizeValues(cfg.Categories)
	cfg.Statuses = normalizeValues(cfg.Statuses)
	if err := validateCatalog(cfg); err != nil {
		return CatalogConfig{}, err
	}
	return cfg, nil
}

func validateCatalog(cfg CatalogConfig) error {
	if len(cfg.Categories) == 0 {
		return errors.New("catalog.categories cannot be empty")
	}
	if len(cfg.Statuses) == 0 {
		return errors.New("catalog.statuses cannot be empty")
	}
	if err := rejectReserved("catalog.categories", cfg.Categories); err != nil {
		return err
	}
	return rejectReserved("catalog.statuses", cfg.Statuses)
}

func rejectReserved(key string, values []string) error {
	for _, v := range values {
		for _, reserved := range ReservedOptions {
			if strings.EqualFold(v, reserved) {
				return fmt.Errorf("%s: %q is a reserved filter option", key, v)
			}
		}
	}
	return nil
}

func normalizeValues(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
