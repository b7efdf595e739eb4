package controllers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/velocity-exotics/crm-platform/modules/reactivation/domain/aggregates/campaign"
	"github.com/velocity-exotics/crm-platform/modules/reactivation/presentation/viewmodels"
	"github.com/velocity-exotics/crm-platform/modules/reactivation/services"
	"github.com/velocity-exotics/crm-platform/pkg/application"
	"github.com/velocity-exotics/crm-platform/pkg/configuration"
	"github.com/velocity-exotics/crm-platform/pkg/middleware"
	"github.com/velocity-exotics/crm-platform/pkg/shared"
)

type CampaignAPIController struct {
	app      application.Application
	basePath string
}

func NewCampaignAPIController(app application.Application) application.Controller {
	return &CampaignAPIController{
		app:      app,
		basePath: "/api/reactivation/campaigns",
	}
}

func (c *CampaignAPIController) Key() string {
	return c.basePath
}

func (c *CampaignAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.WithTransaction())

	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("", c.create).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.delete).Methods(http.MethodDelete)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}/status", c.updateStatus).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}/audience", c.audience).Methods(http.MethodGet)
}

func (c *CampaignAPIController) campaignService() *services.CampaignService {
	return c.app.Service(services.CampaignService{}).(*services.CampaignService)
}

func (c *CampaignAPIController) list(w http.ResponseWriter, r *http.Request) {
	campaigns, err := c.campaignService().List(r.Context())
	if err != nil {
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	items := make([]viewmodels.Campaign, len(campaigns))
	for i, cp := range campaigns {
		items[i] = viewmodels.CampaignFromDomain(cp)
	}
	shared.WriteJSON(w, http.StatusOK, items)
}

func (c *CampaignAPIController) get(w http.ResponseWriter, r *http.Request) {
	id, err := shared.UUIDParam(r, "id")
	if err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_ID", "campaign id must be a uuid")
		return
	}

	cp, err := c.campaignService().GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, campaign.ErrNotFound) {
			shared.WriteAPIError(w, http.StatusNotFound, "NOT_FOUND", "campaign not found")
			return
		}
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	shared.WriteJSON(w, http.StatusOK, viewmodels.CampaignFromDomain(cp))
}

func (c *CampaignAPIController) create(w http.ResponseWriter, r *http.Request) {
	var dto campaign.CreateDTO
	if err := shared.DecodeBody(r, &dto); err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		shared.WriteValidationErrors(w, errs)
		return
	}

	created, err := c.campaignService().Create(r.Context(), &dto)
	if err != nil {
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	shared.WriteJSON(w, http.StatusCreated, viewmodels.CampaignFromDomain(created))
}

func (c *CampaignAPIController) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := shared.UUIDParam(r, "id")
	if err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_ID", "campaign id must be a uuid")
		return
	}

	var dto campaign.UpdateStatusDTO
	if err := shared.DecodeBody(r, &dto); err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		shared.WriteValidationErrors(w, errs)
		return
	}

	updated, err := c.campaignService().UpdateStatus(r.Context(), id, &dto)
	if err != nil {
		if errors.Is(err, campaign.ErrNotFound) {
			shared.WriteAPIError(w, http.StatusNotFound, "NOT_FOUND", "campaign not found")
			return
		}
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	shared.WriteJSON(w, http.StatusOK, viewmodels.CampaignFromDomain(updated))
}

func (c *CampaignAPIController) audience(w http.ResponseWriter, r *http.Request) {
	id, err := shared.UUIDParam(r, "id")
	if err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_ID", "campaign id must be a uuid")
		return
	}

	conf := configuration.Use()
	limit, offset := shared.Paginate(r, conf.PageSize, conf.MaxPageSize)

	contacts, total, err := c.campaignService().Audience(r.Context(), id, limit, offset)
	if err != nil {
		if errors.Is(err, campaign.ErrNotFound) {
			shared.WriteAPIError(w, http.StatusNotFound, "NOT_FOUND", "campaign not found")
			return
		}
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	items := make([]viewmodels.Contact, len(contacts))
	for i, ct := range contacts {
		items[i] = viewmodels.ContactFromDomain(ct)
	}
	shared.WriteJSON(w, http.StatusOK, viewmodels.Page[viewmodels.Contact]{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

func (c *CampaignAPIController) delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.UUIDParam(r, "id")
	if err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_ID", "campaign id must be a uuid")
		return
	}

	if err := c.campaignService().Delete(r.Context(), id); err != nil {
		if errors.Is(err, campaign.ErrNotFound) {
			shared.WriteAPIError(w, http.StatusNotFound, "NOT_FOUND", "campaign not found")
			return
		}
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
