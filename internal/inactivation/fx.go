package inactivation

import (
	"github.com/smallbiznis/medicita/internal/inactivation/repository"
	"github.com/smallbiznis/medicita/internal/inactivation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("inactivation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
