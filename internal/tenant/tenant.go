package tenant

import (
	"strings"
)

// Slug detection supports both path-based (/t/:slug/...) and subdomain-based
// (<slug>.<domain>) routing. Local dev uses <slug>.localhost.

const PathPrefix = "/t/"

// SlugFromHost extracts the tenant slug from a request host, ignoring any port.
// Returns "" when the host carries no usable subdomain.
func SlugFromHost(host string) string {
	h := strings.ToLower(host)
	if i := strings.IndexByte(h, ':'); i >= 0 {
		h = h[:i]
	}
	parts := strings.Split(h, ".")

	// <tenant>.localhost
	for _, p := range parts {
		if p == "localhost" {
			if len(parts) >= 2 && parts[0] != "localhost" {
				return parts[0]
			}
			return ""
		}
	}

	// tenant.domain.com -> tenant
	if len(parts) >= 3 {
		return parts[0]
	}
	return ""
}

// SplitPathSlug extracts the slug from a /t/:slug/... path and returns the slug
// and the remaining path (always rooted). ok is false when the path carries no
// tenant prefix.
func SplitPathSlug(path string) (slug, rest string, ok bool) {
	if !strings.HasPrefix(path, PathPrefix) {
		return "", path, false
	}
	trimmed := strings.TrimPrefix(path, PathPrefix)
	if trimmed == "" {
		return "", path, false
	}
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		slug, rest = trimmed[:i], trimmed[i:]
	} else {
		slug, rest = trimmed, "/"
	}
	if slug == "" {
		return "", path, false
	}
	return slug, rest, true
}

// Resolve picks the slug for a request: path prefix wins over subdomain, and the
// configured default covers bare hosts.
func Resolve(host, path, defaultSlug string) string {
	if slug, _, ok := SplitPathSlug(path); ok {
		return slug
	}
	if slug := SlugFromHost(host); slug != "" {
		return slug
	}
	return defaultSlug
}
