package modules

import (
	"github.com/iota-uz/clubs/modules/clubs"
	"github.com/iota-uz/clubs/pkg/application"
	"github.com/iota-uz/clubs/pkg/configuration"
)

// BuiltInModules returns the modules every entrypoint loads, configured from conf.
func BuiltInModules(conf *configuration.Configuration) []application.Module {
	return []application.Module{
		clubs.NewModule(clubs.OptionsFromConfig(conf)),
	}
}

func Load(app application.Application, externalModules ...application.Module) error {
	return application.LoadModules(app, externalModules...)
}
