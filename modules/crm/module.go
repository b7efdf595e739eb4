package crm

import (
	"github.com/velocity-exotics/crm-platform/modules/crm/handlers"
	"github.com/velocity-exotics/crm-platform/modules/crm/infrastructure/persistence"
	"github.com/velocity-exotics/crm-platform/modules/crm/presentation/controllers"
	"github.com/velocity-exotics/crm-platform/modules/crm/services"
	"github.com/velocity-exotics/crm-platform/pkg/application"
	"github.com/velocity-exotics/crm-platform/pkg/types"
)

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "crm"
}

func (m *Module) Register(app application.Application) error {
	leadRepo := persistence.NewLeadRepository()
	noteRepo := persistence.NewNoteRepository()
	activityRepo := persistence.NewActivityRepository()

	app.RegisterServices(
		services.NewLeadService(leadRepo, app.EventPublisher()),
		services.NewNoteService(noteRepo, leadRepo),
		services.NewActivityService(activityRepo),
		services.NewLeadImportService(leadRepo, noteRepo, app.Logger()),
	)

	handlers.RegisterActivityHandler(app, activityRepo)

	app.RegisterControllers(
		controllers.NewLeadAPIController(app),
		controllers.NewLeadImportController(app),
	)

	app.RegisterNavItems(
		types.NavigationItem{Name: "Leads", Href: "/crm/leads"},
		types.NavigationItem{Name: "Imports", Href: "/crm/imports"},
	)

	return nil
}
