package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/velocity-exotics/crm-platform/modules/reactivation/services"
	"github.com/velocity-exotics/crm-platform/pkg/application"
	"github.com/velocity-exotics/crm-platform/pkg/middleware"
	"github.com/velocity-exotics/crm-platform/pkg/shared"
)

type AnalyticsController struct {
	app      application.Application
	basePath string
}

func NewAnalyticsController(app application.Application) application.Controller {
	return &AnalyticsController{
		app:      app,
		basePath: "/api/reactivation/analytics",
	}
}

func (c *AnalyticsController) Key() string {
	return c.basePath
}

func (c *AnalyticsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.WithTransaction())

	router.HandleFunc("/summary", c.summary).Methods(http.MethodGet)
	router.HandleFunc("/monthly-lapse", c.monthlyLapse).Methods(http.MethodGet)
}

func (c *AnalyticsController) analyticsService() *services.AnalyticsService {
	return c.app.Service(services.AnalyticsService{}).(*services.AnalyticsService)
}

func (c *AnalyticsController) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := c.analyticsService().Summarize(r.Context())
	if err != nil {
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	shared.WriteJSON(w, http.StatusOK, summary)
}

func (c *AnalyticsController) monthlyLapse(w http.ResponseWriter, r *http.Request) {
	months := 24
	if v := r.URL.Query().Get("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 120 {
			shared.WriteAPIError(w, http.StatusBadRequest, "INVALID_MONTHS", "months must be between 1 and 120")
			return
		}
		months = n
	}

	buckets, err := c.analyticsService().MonthlyLapse(r.Context(), months)
	if err != nil {
		shared.WriteAPIError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	shared.WriteJSON(w, http.StatusOK, buckets)
}
