package rbac_test

import (
	"testing"

	"github.com/ativbrasil/arsenal/internal/rbac"
)

func TestCheckerHas(t *testing.T) {
	c := rbac.NewChecker(nil)
	tests := []struct {
		role rbac.Role
		cap  string
		want bool
	}{
		{rbac.RoleAdminMaster, "users:manage", true},
		{rbac.RoleAdminMaster, "anything:at-all", true},
		{rbac.RoleAdmin, "cohorts:manage", true},
		{rbac.RoleAdminOp, "cohorts:manage", true},
		{rbac.RoleAdminOp, "content:manage", false},
		{rbac.RoleAdminContent, "content:manage", true},
		{rbac.RoleAdminContent, "users:manage", false},
		{rbac.RoleLearner, "attempts:create", true},
		{rbac.RoleLearner, "attempts:view-all", false},
		{rbac.Role("admin_masterish"), "users:manage", false},
		{rbac.Role(""), "attempts:create", false},
	}
	for _, tt := range tests {
		if got := c.Has(tt.role, tt.cap); got != tt.want {
			t.Errorf("Has(%q, %q) = %v, want %v", tt.role, tt.cap, got, tt.want)
		}
	}
}

func TestCheckerAny(t *testing.T) {
	c := rbac.NewChecker(nil)
	if !c.Any(rbac.RoleLearner, "attempts:view-own", "attempts:view-all") {
		t.Error("learner should pass view-own/view-all any-check")
	}
	if c.Any(rbac.RoleAdminContent, "cohorts:manage", "users:manage") {
		t.Error("content admin should fail ops any-check")
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []rbac.Role{rbac.RoleAdminMaster, rbac.RoleAdmin, rbac.RoleAdminOp, rbac.RoleAdminContent, rbac.RoleLearner} {
		if !r.Valid() {
			t.Errorf("%q should be valid", r)
		}
	}
	if rbac.Role("superuser").Valid() {
		t.Error("unknown role accepted")
	}
}
