package modules

import (
	"github.com/velocity-exotics/crm-platform/modules/crm"
	"github.com/velocity-exotics/crm-platform/modules/reactivation"
	"github.com/velocity-exotics/crm-platform/pkg/application"
)

// BuiltInModules is every feature module compiled into the binary, in
// registration order.
var BuiltInModules = []application.Module{
	crm.NewModule(),
	reactivation.NewModule(),
}

// Load registers all built-in modules against the application.
func Load(app application.Application) error {
	for _, module := range BuiltInModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
