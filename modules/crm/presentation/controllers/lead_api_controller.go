package controllers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/velocity-exotics/crm-platform/modules/crm/domain/aggregates/lead"
	"github.com/velocity-exotics/crm-platform/modules/crm/domain/entities/activity"
	"github.com/velocity-exotics/crm-platform/modules/crm/domain/entities/note"
	"github.com/velocity-exotics/crm-platform/modules/crm/presentation/viewmodels"
	"github.com/velocity-exotics/crm-platform/modules/crm/services"
	"github.com/velocity-exotics/crm-platform/pkg/application"
	"github.com/velocity-exotics/crm-platform/pkg/configuration"
	"github.com/velocity-exotics/crm-platform/pkg/middleware"
	"github.com/velocity-exotics/crm-platform/pkg/shared"
)

type LeadAPIController struct {
	app      application.Application
	basePath string
}

func NewLeadAPIController(app application.Application) application.Controller {
	return &LeadAPIController{
		app:      app,
		basePath: "/api/crm/leads",
	}
}

func (c *LeadAPIController) Key() string {
	return c.basePath
}

func (c *LeadAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.WithTransaction())

	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("", c.create).Methods(http.MethodPost)
	router.HandleFunc("/stats", c.stats).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.update).Methods(http.MethodPut)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.delete).Methods(http.MethodDelete)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}/status", c.updateStatus).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}/notes", c.listNotes).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}/notes", c.createNote).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}/activity", c.listActivity).Methods(http.MethodGet)
}

func (c *LeadAPIController) leadService() *services.LeadService {
	return c.app.Service(services.LeadService{}).(*services.LeadService)
}

func (c *LeadAPIController) noteService() *services.NoteService {
	return c.app.Service(services.NoteService{}).(*services.NoteService)
}

func (c *LeadAPIController) activityService() *services.ActivityService {
	return c.app.Service(services.ActivityService{}).(*services.ActivityService)
}

func (c *LeadAPIController) list(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	limit, offset := shared.Paginate(r, conf.PageSize, conf.MaxPageSize)

	params := &lead.FindParams{
		Q:      r.URL.Query().Get("q"),
		Status: lead.Status(r.URL.Query().Get("status")),
		Limit:  limit,
		Offset: offset,
	}
	if params.Status != "" && !params.Status.Valid() {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_STATUS", "unknown lead status")
		return
	}

	leads, total, err := c.leadService().GetPaginated(r.Context(), params)
	if err != nil {
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	items := make([]viewmodels.Lead, len(leads))
	for i, l := range leads {
		items[i] = viewmodels.LeadFromDomain(l)
	}
	shared.WriteJSON(w, http.StatusOK, viewmodels.Page[viewmodels.Lead]{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

func (c *LeadAPIController) stats(w http.ResponseWriter, r *http.Request) {
	counts, err := c.leadService().CountByStatus(r.Context())
	if err != nil {
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	out := make(map[string]int64, len(lead.Statuses()))
	for _, s := range lead.Statuses() {
		out[string(s)] = counts[s]
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func (c *LeadAPIController) get(w http.ResponseWriter, r *http.Request) {
	id, err := shared.UUIDParam(r, "id")
	if err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_ID", "lead id must be a uuid")
		return
	}

	l, err := c.leadService().GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, lead.ErrNotFound) {
			shared.WriteAPIError(w, http.StatusNotFound, "NOT_FOUND", "lead not found")
			return
		}
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	shared.WriteJSON(w, http.StatusOK, viewmodels.LeadFromDomain(l))
}

func (c *LeadAPIController) create(w http.ResponseWriter, r *http.Request) {
	var dto lead.CreateDTO
	if err := shared.DecodeBody(r, &dto); err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		shared.WriteValidationErrors(w, errs)
		return
	}

	created, err := c.leadService().Create(r.Context(), &dto)
	if err != nil {
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	shared.WriteJSON(w, http.StatusCreated, viewmodels.LeadFromDomain(created))
}

func (c *LeadAPIController) update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.UUIDParam(r, "id")
	if err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_ID", "lead id must be a uuid")
		return
	}

	var dto lead.UpdateDTO
	if err := shared.DecodeBody(r, &dto); err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON")
		return
	}

	updated, err := c.leadService().Update(r.Context(), id, &dto)
	if err != nil {
		if errors.Is(err, lead.ErrNotFound) {
			shared.WriteAPIError(w, http.StatusNotFound, "NOT_FOUND", "lead not found")
			return
		}
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	shared.WriteJSON(w, http.StatusOK, viewmodels.LeadFromDomain(updated))
}

func (c *LeadAPIController) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := shared.UUIDParam(r, "id")
	if err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_ID", "lead id must be a uuid")
		return
	}

	var dto lead.UpdateStatusDTO
	if err := shared.DecodeBody(r, &dto); err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		shared.WriteValidationErrors(w, errs)
		return
	}

	updated, err := c.leadService().UpdateStatus(r.Context(), id, &dto)
	if err != nil {
		if errors.Is(err, lead.ErrNotFound) {
			shared.WriteAPIError(w, http.StatusNotFound, "NOT_FOUND", "lead not found")
			return
		}
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	shared.WriteJSON(w, http.StatusOK, viewmodels.LeadFromDomain(updated))
}

func (c *LeadAPIController) delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.UUIDParam(r, "id")
	if err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_ID", "lead id must be a uuid")
		return
	}

	if err := c.leadService().Delete(r.Context(), id); err != nil {
		if errors.Is(err, lead.ErrNotFound) {
			shared.WriteAPIError(w, http.StatusNotFound, "NOT_FOUND", "lead not found")
			return
		}
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *LeadAPIController) listNotes(w http.ResponseWriter, r *http.Request) {
	id, err := shared.UUIDParam(r, "id")
	if err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_ID", "lead id must be a uuid")
		return
	}

	notes, err := c.noteService().ListByLead(r.Context(), id)
	if err != nil {
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	items := make([]viewmodels.Note, len(notes))
	for i, n := range notes {
		items[i] = viewmodels.NoteFromDomain(n)
	}
	shared.WriteJSON(w, http.StatusOK, items)
}

func (c *LeadAPIController) createNote(w http.ResponseWriter, r *http.Request) {
	id, err := shared.UUIDParam(r, "id")
	if err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_ID", "lead id must be a uuid")
		return
	}

	var dto note.CreateDTO
	if err := shared.DecodeBody(r, &dto); err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		shared.WriteValidationErrors(w, errs)
		return
	}

	created, err := c.noteService().Create(r.Context(), id, &dto)
	if err != nil {
		if errors.Is(err, lead.ErrNotFound) {
			shared.WriteAPIError(w, http.StatusNotFound, "NOT_FOUND", "lead not found")
			return
		}
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	shared.WriteJSON(w, http.StatusCreated, viewmodels.NoteFromDomain(created))
}

func (c *LeadAPIController) listActivity(w http.ResponseWriter, r *http.Request) {
	id, err := shared.UUIDParam(r, "id")
	if err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_ID", "lead id must be a uuid")
		return
	}

	conf := configuration.Use()
	limit, offset := shared.Paginate(r, conf.PageSize, conf.MaxPageSize)

	items, err := c.activityService().List(r.Context(), &activity.FindParams{
		LeadID: id,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	out := make([]viewmodels.Activity, len(items))
	for i, a := range items {
		out[i] = viewmodels.ActivityFromDomain(a)
	}
	shared.WriteJSON(w, http.StatusOK, out)
}
