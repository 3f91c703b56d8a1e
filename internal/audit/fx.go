package audit

import (
	"github.com/sitebooks/sitebooks/internal/audit/repository"
	"github.com/sitebooks/sitebooks/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
