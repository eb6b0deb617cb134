package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

// Session is issued by the external auth service; this service only reads it.
type Session struct {
	BaseSimple
	CustomerID uuid.UUID  `db:"customer_id"`
	Token      string     `db:"token"`
	Role       UserRole   `db:"role"`
	ExpiresAt  time.Time  `db:"expires_at"`
	RevokedAt  *time.Time `db:"revoked_at"`
}

func (s Session) IsValid(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
