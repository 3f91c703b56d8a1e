package snapshot

import (
	"github.com/sitebooks/sitebooks/internal/snapshot/repository"
	"github.com/sitebooks/sitebooks/internal/snapshot/service"
	"go.uber.org/fx"
)

var Module = fx.Module("snapshot.service",
	fx.Provide(repository.Provide),
	fx.Provide(repository.ProvideParent),
	fx.Provide(service.NewService),
)
