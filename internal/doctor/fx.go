package doctor

import (
	"github.com/smallbiznis/medicita/internal/doctor/repository"
	"github.com/smallbiznis/medicita/internal/doctor/service"
	"go.uber.org/fx"
)

var Module = fx.Module("doctor.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
