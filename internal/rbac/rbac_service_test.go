package rbac_test

import (
	"testing"

	"go-fleetpay/internal/rbac"
	"go-fleetpay/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
)

func newService(t *testing.T) rbac.Service {
	t.Helper()
	enforcer, err := infra.NewEnforcer()
	assert.NoError(t, err)
	svc, err := rbac.NewService(enforcer)
	assert.NoError(t, err)
	return svc
}

func TestRBACService_Enforce(t *testing.T) {
	svc := newService(t)

	cases := []struct {
		name     string
		role     string
		resource string
		action   string
		want     bool
	}{
		{"admin may settle payroll", rbac.RoleAdmin, "payroll", rbac.ActionSettle, true},
		{"admin may delete routes", rbac.RoleAdmin, "route", rbac.ActionDelete, true},
		{"driver may read trips", rbac.RoleDriver, "trip", rbac.ActionRead, true},
		{"driver may read payrolls", rbac.RoleDriver, "payroll", rbac.ActionRead, true},
		{"driver may not settle", rbac.RoleDriver, "payroll", rbac.ActionSettle, false},
		{"driver may not read routes", rbac.RoleDriver, "route", rbac.ActionRead, false},
		{"unknown role gets nothing", "guest", "trip", rbac.ActionRead, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := svc.Enforce(rbac.EnforceRequest{Role: tc.role, Resource: tc.resource, Action: tc.action})
			assert.NoError(t, err)
			assert.Equal(t, tc.want, allowed)
		})
	}
}

func TestRBACService_PermissionsFor(t *testing.T) {
	svc := newService(t)

	perms, err := svc.PermissionsFor(rbac.RoleDriver)
	assert.NoError(t, err)
	assert.Len(t, perms, 4)
	assert.Contains(t, perms, rbac.PermissionResponse{Resource: "expense", Action: rbac.ActionRead})

	perms, err = svc.PermissionsFor(rbac.RoleAdmin)
	assert.NoError(t, err)
	assert.Equal(t, []rbac.PermissionResponse{{Resource: "*", Action: "*"}}, perms)
}
