package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/velocity-exotics/crm-platform/modules/crm/domain/aggregates/lead"
	"github.com/velocity-exotics/crm-platform/modules/crm/domain/entities/activity"
	"github.com/velocity-exotics/crm-platform/pkg/application"
	"github.com/velocity-exotics/crm-platform/pkg/composables"
)

// ActivityHandler projects lead lifecycle events into the crm_events feed.
// It runs on the publisher's goroutine with its own pool-backed context, so
// a failed projection never rolls back the request that caused it.
type ActivityHandler struct {
	pool       *pgxpool.Pool
	activities activity.Repository
	log        *logrus.Logger
}

func RegisterActivityHandler(app application.Application, activities activity.Repository) *ActivityHandler {
	h := &ActivityHandler{
		pool:       app.Pool(),
		activities: activities,
		log:        app.Logger(),
	}
	app.EventPublisher().Subscribe(h.onLeadCreated)
	app.EventPublisher().Subscribe(h.onStatusChanged)
	app.EventPublisher().Subscribe(h.onLeadDeleted)
	return h
}

func (h *ActivityHandler) record(tenantID, leadID uuid.UUID, kind activity.Kind, detail string) {
	ctx := composables.WithPool(context.Background(), h.pool)
	ctx = composables.WithTenantID(ctx, tenantID)

	err := h.activities.Create(ctx, activity.Activity{
		TenantID: tenantID,
		LeadID:   leadID,
		Kind:     kind,
		Detail:   detail,
	})
	if err != nil {
		h.log.WithError(err).WithFields(logrus.Fields{
			"lead_id": leadID,
			"kind":    kind,
		}).Error("failed to record lead activity")
	}
}

func (h *ActivityHandler) onLeadCreated(event lead.CreatedEvent) {
	h.record(event.TenantID, event.Lead.ID(), activity.KindLeadCreated, event.Lead.CompanyName())
}

func (h *ActivityHandler) onStatusChanged(event lead.StatusChangedEvent) {
	detail := fmt.Sprintf("%s -> %s", event.From, event.To)
	h.record(event.TenantID, event.LeadID, activity.KindStatusChanged, detail)
}

func (h *ActivityHandler) onLeadDeleted(event lead.DeletedEvent) {
	h.record(event.TenantID, event.LeadID, activity.KindLeadDeleted, "")
}
