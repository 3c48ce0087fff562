//go:build wireinject
// +build wireinject

// The build tag makes sure the stubs are not built in the final binary.

package injector

import (
	"github.com/google/wire"

	"github.com/vectorclash/vectorclash/internal/core/arena"
	"github.com/vectorclash/vectorclash/internal/core/intent"
	"github.com/vectorclash/vectorclash/internal/core/observability/log"
	"github.com/vectorclash/vectorclash/internal/core/reflex"
	"github.com/vectorclash/vectorclash/internal/core/sim"
)

var matchSet = wire.NewSet(
	arena.DefaultMapConfig,
	reflex.DefaultConfig,
	intent.NewSlot,
	sim.NewWorld,
	log.Provide,
	wire.Bind(new(log.Log), new(*log.Logger)),
)

func ProvideLogger() *log.Logger {
	wire.Build(log.Provide)
	return nil
}

func ProvideWorld() *sim.World {
	wire.Build(matchSet)
	return nil
}
