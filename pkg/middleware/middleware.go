package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/velocity-exotics/crm-platform/pkg/composables"
	"github.com/velocity-exotics/crm-platform/pkg/configuration"
	"github.com/velocity-exotics/crm-platform/pkg/types"
)

type statusWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.written {
		w.status = code
		w.written = true
		w.ResponseWriter.WriteHeader(code)
	}
}

func (w *statusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// LogRequests assigns a request id, injects a request-scoped logger into the
// context and logs method, path, status and duration on completion.
func LogRequests(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conf := configuration.Use()
			header := strings.TrimSpace(conf.RequestIDHeader)
			if header == "" {
				header = "X-Request-ID"
			}
			requestID := strings.TrimSpace(r.Header.Get(header))
			if requestID == "" {
				requestID = uuid.NewString()
				w.Header().Set(header, requestID)
			}

			entry := logger.WithFields(logrus.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
			})

			sw := &statusWriter{ResponseWriter: w}
			start := time.Now()
			r = r.WithContext(composables.WithLogger(r.Context(), entry))
			next.ServeHTTP(sw, r)
			entry.WithFields(logrus.Fields{
				"status":   sw.Status(),
				"duration": time.Since(start).String(),
			}).Info("request completed")
		})
	}
}

// WithPool makes the database pool available to repositories.
func WithPool(pool *pgxpool.Pool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(composables.WithPool(r.Context(), pool)))
		})
	}
}

// WithTransaction wraps the request in a transaction, committing on success
// and rolling back when the handler errors out before commit.
func WithTransaction() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pool, err := composables.UsePool(r.Context())
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			tx, err := pool.Begin(r.Context())
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			committed := false
			defer func() {
				if !committed {
					_ = tx.Rollback(r.Context())
				}
			}()
			r = r.WithContext(composables.WithTx(r.Context(), tx))
			next.ServeHTTP(w, r)
			if err := tx.Commit(r.Context()); err == nil {
				committed = true
			}
		})
	}
}

// ProvideTenant resolves the tenant scope from the X-Tenant-ID header set by
// the fronting auth proxy.
func ProvideTenant() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("X-Tenant-ID"))
			if raw == "" {
				http.Error(w, "missing X-Tenant-ID header", http.StatusBadRequest)
				return
			}
			tenantID, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, "invalid X-Tenant-ID header", http.StatusBadRequest)
				return
			}
			next.ServeHTTP(w, r.WithContext(composables.WithTenantID(r.Context(), tenantID)))
		})
	}
}

// ProvideUser resolves the acting user from headers set by the fronting auth
// proxy. Unidentified requests get a viewer role.
func ProvideUser() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := types.User{
				Email: strings.TrimSpace(r.Header.Get("X-User-Email")),
				Role:  types.RoleViewer,
			}
			if id, err := uuid.Parse(strings.TrimSpace(r.Header.Get("X-User-ID"))); err == nil {
				user.ID = id
			}
			switch types.Role(strings.TrimSpace(r.Header.Get("X-User-Role"))) {
			case types.RoleAdmin:
				user.Role = types.RoleAdmin
			case types.RoleOperator:
				user.Role = types.RoleOperator
			}
			next.ServeHTTP(w, r.WithContext(composables.WithUser(r.Context(), user)))
		})
	}
}
