package reactivation

import (
	"github.com/velocity-exotics/crm-platform/modules/reactivation/infrastructure/persistence"
	"github.com/velocity-exotics/crm-platform/modules/reactivation/presentation/controllers"
	"github.com/velocity-exotics/crm-platform/modules/reactivation/services"
	"github.com/velocity-exotics/crm-platform/pkg/application"
	"github.com/velocity-exotics/crm-platform/pkg/types"
)

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "reactivation"
}

func (m *Module) Register(app application.Application) error {
	contactRepo := persistence.NewContactRepository()
	campaignRepo := persistence.NewCampaignRepository()

	app.RegisterServices(
		services.NewContactService(contactRepo),
		services.NewContactImportService(contactRepo, app.Logger()),
		services.NewCampaignService(campaignRepo, contactRepo),
		services.NewAnalyticsService(contactRepo),
	)

	app.RegisterControllers(
		controllers.NewContactAPIController(app),
		controllers.NewContactImportController(app),
		controllers.NewCampaignAPIController(app),
		controllers.NewAnalyticsController(app),
	)

	app.RegisterNavItems(
		types.NavigationItem{Name: "Contacts", Href: "/reactivation/contacts"},
		types.NavigationItem{Name: "Campaigns", Href: "/reactivation/campaigns"},
		types.NavigationItem{Name: "Dashboard", Href: "/reactivation/dashboard"},
	)

	return nil
}
