package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medicita/internal/clock"
	"github.com/smallbiznis/medicita/internal/config"
	"github.com/smallbiznis/medicita/internal/doctor"
	"github.com/smallbiznis/medicita/internal/inactivation"
	"github.com/smallbiznis/medicita/internal/observability"
	"github.com/smallbiznis/medicita/internal/scheduler"
	"github.com/smallbiznis/medicita/internal/seller"
	"github.com/smallbiznis/medicita/internal/sellerpayment"
	"github.com/smallbiznis/medicita/internal/settings"
	"github.com/smallbiznis/medicita/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Domain services required by the daily jobs
		settings.Module,
		doctor.Module,
		seller.Module,
		sellerpayment.Module,
		inactivation.Module,

		// No server module!
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
