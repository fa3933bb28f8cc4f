package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medicita/internal/clock"
	"github.com/smallbiznis/medicita/internal/config"
	"github.com/smallbiznis/medicita/internal/migration"
	"github.com/smallbiznis/medicita/internal/observability"
	"github.com/smallbiznis/medicita/internal/scheduler"
	"github.com/smallbiznis/medicita/internal/server"
	"github.com/smallbiznis/medicita/pkg/db"
	"go.uber.org/fx"
)

// The monolith: admin API plus the daily billing scheduler in one
// process. Deployments that want them separated use apps/api and
// apps/scheduler instead.
func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Admin surface and daily jobs
		server.Module,
		scheduler.Module,
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
