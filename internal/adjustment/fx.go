package adjustment

import (
	"github.com/sitebooks/sitebooks/internal/adjustment/domain"
	"github.com/sitebooks/sitebooks/internal/adjustment/repository"
	"github.com/sitebooks/sitebooks/internal/adjustment/service"
	"github.com/sitebooks/sitebooks/internal/cache"
	"go.uber.org/fx"
)

var Module = fx.Module("adjustment.service",
	fx.Provide(repository.Provide),
	fx.Provide(func() cache.Cache[string, []domain.MaterialAdjustmentRule] {
		return cache.NewTTLCache[string, []domain.MaterialAdjustmentRule]()
	}),
	fx.Provide(service.NewService),
)
