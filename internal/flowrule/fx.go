package flowrule

import (
	"github.com/sitebooks/sitebooks/internal/flowrule/repository"
	"github.com/sitebooks/sitebooks/internal/flowrule/service"
	"go.uber.org/fx"
)

var Module = fx.Module("flowrule.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
