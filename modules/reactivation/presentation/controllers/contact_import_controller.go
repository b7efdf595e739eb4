package controllers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/velocity-exotics/crm-platform/modules/reactivation/services"
	"github.com/velocity-exotics/crm-platform/pkg/application"
	"github.com/velocity-exotics/crm-platform/pkg/configuration"
	"github.com/velocity-exotics/crm-platform/pkg/csvimport"
	"github.com/velocity-exotics/crm-platform/pkg/middleware"
	"github.com/velocity-exotics/crm-platform/pkg/shared"
)

type ContactImportController struct {
	app      application.Application
	basePath string
}

func NewContactImportController(app application.Application) application.Controller {
	return &ContactImportController{
		app:      app,
		basePath: "/api/reactivation/imports/contacts",
	}
}

func (c *ContactImportController) Key() string {
	return c.basePath
}

func (c *ContactImportController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.WithTransaction())

	router.HandleFunc("/preview", c.preview).Methods(http.MethodPost)
	router.HandleFunc("", c.commit).Methods(http.MethodPost)
}

func (c *ContactImportController) importService() *services.ContactImportService {
	return c.app.Service(services.ContactImportService{}).(*services.ContactImportService)
}

func uploadedFile(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(configuration.Use().MaxUploadSize); err != nil {
		return nil, nil, err
	}
	return r.FormFile("file")
}

func isXLSX(header *multipart.FileHeader) bool {
	return strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx")
}

func mappingOverride(r *http.Request) (csvimport.Mapping, error) {
	raw := r.FormValue("mapping")
	if raw == "" {
		return nil, nil
	}
	var m csvimport.Mapping
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *ContactImportController) preview(w http.ResponseWriter, r *http.Request) {
	file, header, err := uploadedFile(r)
	if err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_UPLOAD", "multipart form must contain a file part")
		return
	}
	defer func() { _ = file.Close() }()

	var preview *services.ImportPreview
	if isXLSX(header) {
		preview, err = c.importService().PreviewXLSX(r.Context(), file)
	} else {
		var data []byte
		data, err = io.ReadAll(file)
		if err == nil {
			preview, err = c.importService().Preview(r.Context(), data)
		}
	}
	if err != nil {
		shared.WriteAPIError(w, http.StatusUnprocessableEntity, "UNREADABLE_FILE", err.Error())
		return
	}
	shared.WriteJSON(w, http.StatusOK, preview)
}

func (c *ContactImportController) commit(w http.ResponseWriter, r *http.Request) {
	file, header, err := uploadedFile(r)
	if err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_UPLOAD", "multipart form must contain a file part")
		return
	}
	defer func() { _ = file.Close() }()

	mapping, err := mappingOverride(r)
	if err != nil {
		shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_MAPPING", "mapping must be a JSON object of header to field key")
		return
	}

	var result *services.ContactImportResult
	if isXLSX(header) {
		result, err = c.importService().ImportXLSX(r.Context(), file, mapping, header.Filename)
	} else {
		var data []byte
		data, err = io.ReadAll(file)
		if err == nil {
			result, err = c.importService().Import(r.Context(), data, mapping, header.Filename)
		}
	}
	if err != nil {
		shared.WriteAPIError(w, http.StatusUnprocessableEntity, "IMPORT_REJECTED", err.Error())
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}
