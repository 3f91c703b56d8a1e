package project

import (
	"github.com/sitebooks/sitebooks/internal/project/repository"
	"github.com/sitebooks/sitebooks/internal/project/service"
	"go.uber.org/fx"
)

var Module = fx.Module("project.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
