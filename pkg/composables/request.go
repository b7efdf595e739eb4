package composables

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/velocity-exotics/crm-platform/pkg/constants"
	"github.com/velocity-exotics/crm-platform/pkg/types"
)

var (
	ErrNoTenant = errors.New("no tenant found in context")
	ErrNoUser   = errors.New("no user found in context")
)

func WithTenantID(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.TenantIDKey, tenantID)
}

func UseTenantID(ctx context.Context) (uuid.UUID, error) {
	tenantID, ok := ctx.Value(constants.TenantIDKey).(uuid.UUID)
	if !ok || tenantID == uuid.Nil {
		return uuid.Nil, ErrNoTenant
	}
	return tenantID, nil
}

func WithUser(ctx context.Context, user types.User) context.Context {
	return context.WithValue(ctx, constants.UserKey, user)
}

func UseUser(ctx context.Context) (types.User, error) {
	user, ok := ctx.Value(constants.UserKey).(types.User)
	if !ok {
		return types.User{}, ErrNoUser
	}
	return user, nil
}

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

// UseLogger returns the request-scoped logger. Panics when the logging
// middleware has not run; that is a wiring bug, not a runtime condition.
func UseLogger(ctx context.Context) *logrus.Entry {
	logger := ctx.Value(constants.LoggerKey)
	if logger == nil {
		panic("logger not found")
	}
	return logger.(*logrus.Entry)
}
