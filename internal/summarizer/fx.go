package summarizer

import (
	"context"

	"github.com/smallbiznis/appinventory/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func provide(cfg config.Config, log *zap.Logger) (Summarizer, error) {
	if !cfg.Summarizer.Enabled {
		log.Info("summarizer disabled")
		return NewDisabled(), nil
	}
	return NewGenAI(context.Background(), cfg.Summarizer.APIKey, cfg.Summarizer.Model, cfg.Summarizer.Timeout, log)
}

var Module = fx.Module("summarizer",
	fx.Provide(provide),
)
