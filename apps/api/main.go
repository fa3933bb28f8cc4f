package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medicita/internal/clock"
	"github.com/smallbiznis/medicita/internal/config"
	"github.com/smallbiznis/medicita/internal/migration"
	"github.com/smallbiznis/medicita/internal/observability"
	"github.com/smallbiznis/medicita/internal/server"
	"github.com/smallbiznis/medicita/pkg/db"
	"go.uber.org/fx"
)

// Admin API only. The scheduler is not wired here, so the manual run
// endpoint answers 503 and the daily jobs are left to apps/scheduler.
func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		server.Module,
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
