package sellerpayment

import (
	"github.com/smallbiznis/medicita/internal/sellerpayment/repository"
	"github.com/smallbiznis/medicita/internal/sellerpayment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sellerpayment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
