package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/appinventory/internal/cache"
	"github.com/smallbiznis/appinventory/internal/clock"
	"github.com/smallbiznis/appinventory/internal/config"
	"github.com/smallbiznis/appinventory/internal/drafts"
	"github.com/smallbiznis/appinventory/internal/identity"
	"github.com/smallbiznis/appinventory/internal/inventory"
	"github.com/smallbiznis/appinventory/internal/metadata"
	"github.com/smallbiznis/appinventory/internal/migration"
	"github.com/smallbiznis/appinventory/internal/observability"
	"github.com/smallbiznis/appinventory/internal/ratelimit"
	"github.com/smallbiznis/appinventory/internal/redisclient"
	"github.com/smallbiznis/appinventory/internal/server"
	"github.com/smallbiznis/appinventory/internal/summarizer"
	"github.com/smallbiznis/appinventory/internal/warehouse"
	"github.com/smallbiznis/appinventory/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,
		db.Module,
		migration.Module,
		warehouse.Module,
		redisclient.Module,
		cache.Module,

		// Functional Domains
		identity.Module,
		metadata.Module,
		drafts.Module,
		ratelimit.Module,
		summarizer.Module,
		inventory.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
