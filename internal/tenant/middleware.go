package tenant

import (
	"context"
	"fmt"
	"net/http"

	"ms-dinein/internal/logger"
	"ms-dinein/internal/utils"
)

type contextKey string

const (
	slugKey  contextKey = "tenant_slug"
	orgIDKey contextKey = "organization_id"
)

// Slug returns the tenant slug stored by Middleware, or "".
func Slug(ctx context.Context) string {
	if s, ok := ctx.Value(slugKey).(string); ok {
		return s
	}
	return ""
}

// OrgID returns the resolved organization id stored by Middleware, or "".
func OrgID(ctx context.Context) string {
	if id, ok := ctx.Value(orgIDKey).(string); ok {
		return id
	}
	return ""
}

// Middleware resolves the tenant for every request, rewrites path-based requests
// by stripping the /t/:slug prefix, and rejects slugs that map to no organization.
func Middleware(resolver *Resolver, defaultSlug string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slug := defaultSlug
			if s, rest, ok := SplitPathSlug(r.URL.Path); ok {
				slug = s
				r.URL.Path = rest
			} else if s := SlugFromHost(r.Host); s != "" {
				slug = s
			}

			orgID, err := resolver.OrgIDBySlug(r.Context(), slug)
			if err != nil {
				log.Error("TENANT", fmt.Sprintf("Failed to resolve tenant %q: %v", slug, err))
				utils.WriteError(w, http.StatusNotFound, "Unknown tenant", slug)
				return
			}

			ctx := context.WithValue(r.Context(), slugKey, slug)
			ctx = context.WithValue(ctx, orgIDKey, orgID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
