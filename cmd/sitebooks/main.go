// @title           SiteBooks API
// @version         1.0
// @description     SiteBooks construction cost management API

// @host      localhost:8080
// @BasePath  /api
// @Schemes 	http https

package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/sitebooks/sitebooks/internal/adjustment"
	"github.com/sitebooks/sitebooks/internal/audit"
	"github.com/sitebooks/sitebooks/internal/clock"
	"github.com/sitebooks/sitebooks/internal/config"
	"github.com/sitebooks/sitebooks/internal/events"
	"github.com/sitebooks/sitebooks/internal/events/dispatcher"
	"github.com/sitebooks/sitebooks/internal/flowrule"
	"github.com/sitebooks/sitebooks/internal/migration"
	"github.com/sitebooks/sitebooks/internal/observability"
	"github.com/sitebooks/sitebooks/internal/project"
	"github.com/sitebooks/sitebooks/internal/seed"
	"github.com/sitebooks/sitebooks/internal/server"
	"github.com/sitebooks/sitebooks/internal/snapshot"
	"github.com/sitebooks/sitebooks/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		fx.Invoke(func(conn *gorm.DB) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB); err != nil {
				return err
			}
			return seed.EnsureDefaults(conn)
		}),

		fx.Provide(events.NewOutbox),
		fx.Provide(events.ProvideOutboxRepository),
		fx.Provide(func(cfg config.Config) dispatcher.Config {
			return dispatcher.Config{
				BatchSize:    cfg.Dispatcher.BatchSize,
				PollInterval: cfg.Dispatcher.PollInterval,
			}
		}),

		audit.Module,
		snapshot.Module,
		adjustment.Module,
		flowrule.Module,
		project.Module,
		dispatcher.Module,

		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server, engine *gin.Engine) {
			s.RegisterAPIRoutes(engine)
		}),
		fx.Invoke(server.RunHTTP),
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
