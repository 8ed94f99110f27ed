package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"ms-dinein/internal/logger"
	"ms-dinein/internal/models"
	"ms-dinein/internal/rbac"
	"ms-dinein/internal/tenant"
	"ms-dinein/internal/utils"
)

const roleKey contextKey = "member_role"

// MemberLookup fetches a member row for (organization, user).
type MemberLookup interface {
	GetMember(ctx context.Context, orgID, userID string) (*models.OrgMember, error)
}

// Role returns the caller's role within the request's organization, or "".
func Role(ctx context.Context) rbac.Role {
	if r, ok := ctx.Value(roleKey).(rbac.Role); ok {
		return r
	}
	return ""
}

// WithRole injects a role into a context. Used by tests.
func WithRole(ctx context.Context, role rbac.Role) context.Context {
	return context.WithValue(ctx, roleKey, role)
}

// MembershipMiddleware resolves the caller's role in the tenant organization and
// rejects non-members. Runs after the OIDC and tenant middleware.
func MembershipMiddleware(members MemberLookup, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			orgID := tenant.OrgID(r.Context())
			userID := UserID(r.Context())
			if orgID == "" || userID == "" {
				utils.WriteError(w, http.StatusUnauthorized, "No session", "")
				return
			}

			member, err := members.GetMember(r.Context(), orgID, userID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					utils.WriteError(w, http.StatusForbidden, "No access", "not a member of this organization")
					return
				}
				log.Error("AUTH", fmt.Sprintf("Membership lookup failed for user %s: %v", userID, err))
				utils.WriteError(w, http.StatusInternalServerError, "Membership lookup failed", err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), roleKey, rbac.Role(member.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Require gates a route on a single permission of the caller's role.
func Require(permission rbac.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rbac.Can(Role(r.Context()), permission) {
				utils.WriteError(w, http.StatusForbidden, "No access", string(permission))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
