package metadata

import (
	"github.com/smallbiznis/appinventory/internal/config"
	"github.com/smallbiznis/appinventory/internal/metadata/domain"
	"github.com/smallbiznis/appinventory/internal/metadata/repository"
	"github.com/smallbiznis/appinventory/internal/metadata/service"
	"go.uber.org/fx"
)

var Module = fx.Module("metadata.service",
	fx.Provide(repository.Provide),
	fx.Provide(func(c *config.Catalog) domain.Catalog { return c }),
	fx.Provide(service.New),
)
