package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	CustomerIDKey contextKey = "customer_id"
	RoleKey       contextKey = "role"
)

const RoleAdmin = "admin"

func GetCustomerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(CustomerIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

func IsAdmin(ctx context.Context) bool {
	role, _ := GetRoleFromContext(ctx)
	return role == RoleAdmin
}

func SetCustomerContext(ctx context.Context, customerID uuid.UUID, role string) context.Context {
	ctx = context.WithValue(ctx, CustomerIDKey, customerID)
	ctx = context.WithValue(ctx, RoleKey, role)
	return ctx
}
