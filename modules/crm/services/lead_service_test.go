package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocity-exotics/crm-platform/modules/crm/domain/aggregates/lead"
	"github.com/velocity-exotics/crm-platform/pkg/eventbus"
	"github.com/velocity-exotics/crm-platform/pkg/types"
)

func newEventBus() eventbus.EventBus {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return eventbus.NewEventPublisher(log)
}

func TestLeadService_CreatePublishesEvent(t *testing.T) {
	repo := &fakeLeadRepo{}
	bus := newEventBus()
	svc := NewLeadService(repo, bus)

	var got *lead.CreatedEvent
	bus.Subscribe(func(event lead.CreatedEvent) {
		got = &event
	})

	dto := &lead.CreateDTO{CompanyName: "Apex Exotics", Email: "sales@apex.io", EstimatedValue: "12500.50"}
	created, err := svc.Create(importCtx(types.RoleOperator), dto)
	require.NoError(t, err)

	assert.Equal(t, "Apex Exotics", created.CompanyName())
	assert.Equal(t, lead.StatusNew, created.Status())
	require.NotNil(t, created.EstimatedValue())
	assert.Equal(t, "12500.5", created.EstimatedValue().String())

	require.NotNil(t, got)
	assert.Equal(t, created.ID(), got.Lead.ID())
}

func TestLeadService_UpdateStatus(t *testing.T) {
	repo := &fakeLeadRepo{}
	bus := newEventBus()
	svc := NewLeadService(repo, bus)

	seeded, err := repo.Create(importCtx(types.RoleOperator), lead.New(lead.Fields{CompanyName: "Apex Exotics"}))
	require.NoError(t, err)

	var got *lead.StatusChangedEvent
	bus.Subscribe(func(event lead.StatusChangedEvent) {
		got = &event
	})

	updated, err := svc.UpdateStatus(importCtx(types.RoleOperator), seeded.ID(), &lead.UpdateStatusDTO{Status: "qualified"})
	require.NoError(t, err)
	assert.Equal(t, lead.StatusQualified, updated.Status())

	require.NotNil(t, got)
	assert.Equal(t, lead.StatusNew, got.From)
	assert.Equal(t, lead.StatusQualified, got.To)
}

func TestLeadService_UpdateStatusNoopSkipsEvent(t *testing.T) {
	repo := &fakeLeadRepo{}
	bus := newEventBus()
	svc := NewLeadService(repo, bus)

	seeded, err := repo.Create(importCtx(types.RoleOperator), lead.New(lead.Fields{CompanyName: "Apex Exotics"}))
	require.NoError(t, err)

	published := false
	bus.Subscribe(func(event lead.StatusChangedEvent) {
		published = true
	})

	_, err = svc.UpdateStatus(importCtx(types.RoleOperator), seeded.ID(), &lead.UpdateStatusDTO{Status: "new"})
	require.NoError(t, err)
	assert.False(t, published)
}

func TestLeadService_UpdateUnknownLead(t *testing.T) {
	svc := NewLeadService(&fakeLeadRepo{}, newEventBus())

	name := "Ghost Corp"
	_, err := svc.Update(importCtx(types.RoleOperator), uuid.New(), &lead.UpdateDTO{CompanyName: &name})
	assert.ErrorIs(t, err, lead.ErrNotFound)
}
