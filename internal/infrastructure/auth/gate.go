package auth

import (
	"context"

	"github.com/google/uuid"
	royaltyapp "github.com/inkhouse/backend/internal/application/royalty"
)

// Ensure ContextPermissionGate implements the application port
var _ royaltyapp.PermissionGate = (*ContextPermissionGate)(nil)

// ContextPermissionGate answers permission checks from the authenticated
// claims carried on the request context. The gate denies when no claims are
// present, when the claims belong to a different tenant or user than the one
// acting, or when the permission is missing.
type ContextPermissionGate struct{}

// NewContextPermissionGate creates a new ContextPermissionGate
func NewContextPermissionGate() *ContextPermissionGate {
	return &ContextPermissionGate{}
}

// Allow implements royaltyapp.PermissionGate
func (g *ContextPermissionGate) Allow(ctx context.Context, tenantID, userID uuid.UUID, permission string) (bool, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return false, nil
	}
	if claims.TenantID != tenantID.String() || claims.UserID != userID.String() {
		return false, nil
	}
	return claims.HasPermission(permission), nil
}
