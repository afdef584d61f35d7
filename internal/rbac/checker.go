package rbac

import (
	"context"
	"strings"
)

type Checker struct {
	RoleCapabilities map[Role][]string
}

func NewChecker(rc map[Role][]string) *Checker {
	if rc == nil {
		rc = RoleCapabilities
	}
	return &Checker{RoleCapabilities: rc}
}

func (c *Checker) Has(role Role, cap string) bool {
	caps, ok := c.RoleCapabilities[role]
	if !ok {
		return false
	}
	for _, p := range caps {
		if p == "*" || matchCap(p, cap) {
			return true
		}
	}
	return false
}

func (c *Checker) Any(role Role, caps ...string) bool {
	for _, p := range caps {
		if c.Has(role, p) {
			return true
		}
	}
	return false
}

func matchCap(pattern, cap string) bool {
	if pattern == cap {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(cap, strings.TrimSuffix(pattern, "*"))
	}
	return false
}

// ---- role/subject in context ----

type ctxKey int

const (
	ctxKeyRole ctxKey = iota
	ctxKeySubject
)

func WithRole(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, ctxKeyRole, role)
}

func RoleFromContext(ctx context.Context) Role {
	if v := ctx.Value(ctxKeyRole); v != nil {
		if r, ok := v.(Role); ok {
			return r
		}
	}
	return ""
}

func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, ctxKeySubject, sub)
}

func SubjectFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxKeySubject); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
