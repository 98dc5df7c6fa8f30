package drafts

import (
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

func provideStore(client *redis.Client) Store {
	if client == nil {
		return NewMemoryStore()
	}
	return NewRedisStore(client)
}

var Module = fx.Module("drafts",
	fx.Provide(provideStore),
)
