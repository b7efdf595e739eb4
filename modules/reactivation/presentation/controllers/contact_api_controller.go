package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/velocity-exotics/crm-platform/modules/reactivation/domain/aggregates/contact"
	"github.com/velocity-exotics/crm-platform/modules/reactivation/presentation/viewmodels"
	"github.com/velocity-exotics/crm-platform/modules/reactivation/services"
	"github.com/velocity-exotics/crm-platform/pkg/application"
	"github.com/velocity-exotics/crm-platform/pkg/configuration"
	"github.com/velocity-exotics/crm-platform/pkg/middleware"
	"github.com/velocity-exotics/crm-platform/pkg/shared"
)

type ContactAPIController struct {
	app      application.Application
	basePath string
}

func NewContactAPIController(app application.Application) application.Controller {
	return &ContactAPIController{
		app:      app,
		basePath: "/api/reactivation/contacts",
	}
}

func (c *ContactAPIController) Key() string {
	return c.basePath
}

func (c *ContactAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.WithTransaction())

	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("", c.create).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.update).Methods(http.MethodPut)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.delete).Methods(http.MethodDelete)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}/status", c.updateStatus).Methods(http.MethodPost)
}

func (c *ContactAPIController) contactService() *services.ContactService {
	return c.app.Service(services.ContactService{}).(*services.ContactService)
}

func (c *ContactAPIController) list(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	limit, offset := shared.Paginate(r, conf.PageSize, conf.MaxPageSize)

	params := &contact.FindParams{
		Q:      r.URL.Query().Get("q"),
		Status: contact.Status(r.URL.Query().Get("status")),
		Limit:  limit,
		Offset: offset,
	}
	if params.Status != "" && !params.Status.Valid() {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_STATUS", "unknown contact status")
		return
	}
	if v := r.URL.Query().Get("lapsed_since"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_DATE", "lapsed_since must be YYYY-MM-DD")
			return
		}
		params.LapsedSince = &t
	}

	contacts, total, err := c.contactService().GetPaginated(r.Context(), params)
	if err != nil {
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

func (c *ContactAPIController) get(w http.ResponseWriter, r *http.Request) {
	id, err := shared.UUIDParam(r, "id")
	if err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_ID", "contact id must be a uuid")
		return
	}

	ct, err := c.contactService().GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			shared.WriteAPIError(w, http.StatusNotFound, "NOT_FOUND", "contact not found")
			return
		}
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	shared.WriteJSON(w, http.StatusOK, viewmodels.ContactFromDomain(ct))
}

func (c *ContactAPIController) create(w http.ResponseWriter, r *http.Request) {
	var dto contact.CreateDTO
	if err := shared.DecodeBody(r, &dto); err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		shared.WriteValidationErrors(w, errs)
		return
	}

	created, err := c.contactService().Create(r.Context(), &dto)
	if err != nil {
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	shared.WriteJSON(w, http.StatusCreated, viewmodels.ContactFromDomain(created))
}

func (c *ContactAPIController) update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.UUIDParam(r, "id")
	if err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_ID", "contact id must be a uuid")
		return
	}

	var dto contact.UpdateDTO
	if err := shared.DecodeBody(r, &dto); err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON")
		return
	}

	updated, err := c.contactService().Update(r.Context(), id, &dto)
	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			shared.WriteAPIError(w, http.StatusNotFound, "NOT_FOUND", "contact not found")
			return
		}
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	shared.WriteJSON(w, http.StatusOK, viewmodels.ContactFromDomain(updated))
}

func (c *ContactAPIController) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := shared.UUIDParam(r, "id")
	if err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_ID", "contact id must be a uuid")
		return
	}

	var dto contact.UpdateStatusDTO
	if err := shared.DecodeBody(r, &dto); err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		shared.WriteValidationErrors(w, errs)
		return
	}

	updated, err := c.contactService().UpdateStatus(r.Context(), id, &dto)
	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			shared.WriteAPIError(w, http.StatusNotFound, "NOT_FOUND", "contact not found")
			return
		}
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	shared.WriteJSON(w, http.StatusOK, viewmodels.ContactFromDomain(updated))
}

func (c *ContactAPIController) delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.UUIDParam(r, "id")
	if err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_ID", "contact id must be a uuid")
		return
	}

	if err := c.contactService().Delete(r.Context(), id); err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			shared.WriteAPIError(w, http.StatusNotFound, "NOT_FOUND", "contact not found")
			return
		}
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
