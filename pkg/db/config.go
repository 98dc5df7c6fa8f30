package db

import (
	"time"

	"github.com/smallbiznis/appinventory/internal/config"
)

type Config struct {
	Type            string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxIdleConn     int
	MaxOpenConn     int
	ConnMaxLifetime int
	ConnMaxIdleTime int
	// SlowQuery is the duration after which a query is logged at warn.
	SlowQuery time.Duration
}

// MetadataConfig returns the connection settings of the read-write
// metadata database.
func MetadataConfig(cfg config.Config) Config {
	return Config{
		Type:            cfg.DBType,
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		Name:            cfg.DBName,
		User:            cfg.DBUser,
		Password:        cfg.DBPassword,
		SSLMode:         cfg.DBSSLMode,
		MaxIdleConn:     cfg.DBMaxIdleConn,
		MaxOpenConn:     cfg.DBMaxOpenConn,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		SlowQuery:       cfg.DBSlowQuery,
	}
}

// WarehouseConfig returns the connection settings of the read-only
// warehouse. Pool sizing follows the metadata database.
func WarehouseConfig(cfg config.Config) Config {
	w := cfg.Warehouse
	return Config{
		Type:            w.Type,
		Host:            w.Host,
		Port:            w.Port,
		Name:            w.Name,
		User:            w.User,
		Password:        w.Password,
		SSLMode:         w.SSLMode,
		MaxIdleConn:     cfg.DBMaxIdleConn,
		MaxOpenConn:     cfg.DBMaxOpenConn,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		SlowQuery:       w.SlowQuery,
	}
}
