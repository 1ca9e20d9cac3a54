package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrincipal_CanSeal(t *testing.T) {
	tests := []struct {
		name      string
		principal Principal
		want      bool
	}{
		{"owner", Principal{Role: RoleOwner}, true},
		{"admin manager", Principal{Role: RoleManager, IsAdmin: true}, true},
		{"manager", Principal{Role: RoleManager}, false},
		{"employee", Principal{Role: RoleEmployee}, false},
		{"unknown role", Principal{Role: "auditor"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.principal.CanSeal())
		})
	}
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleOwner, PermissionPayrollSeal))
	assert.False(t, HasPermission(RoleManager, PermissionPayrollSeal))
	assert.True(t, HasPermission(RoleManager, PermissionLedgerManage))
	assert.False(t, HasPermission(RoleEmployee, PermissionLedgerManage))
	assert.True(t, HasPermission(RoleEmployee, PermissionPayrollView))
	assert.False(t, HasPermission(Role("ghost"), PermissionPayrollView))
}

func TestPrincipal_AdminHoldsEveryPermission(t *testing.T) {
	p := Principal{Role: RoleEmployee, IsAdmin: true}
	assert.True(t, p.Can(PermissionLedgerManage))
	assert.True(t, p.Can(PermissionEmployeeManage))
}
