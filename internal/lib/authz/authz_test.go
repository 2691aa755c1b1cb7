package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleStandardUser))
	assert.True(t, IsValidRole(RoleAdmin))
	assert.False(t, IsValidRole("superuser"))
	assert.False(t, IsValidRole(""))
}

func TestAllow(t *testing.T) {
	tests := []struct {
		name         string
		subjectRole  string
		requiredRole string
		want         bool
	}{
		{"admin passes admin check", RoleAdmin, RoleAdmin, true},
		{"admin passes standard check", RoleAdmin, RoleStandardUser, true},
		{"standard passes standard check", RoleStandardUser, RoleStandardUser, true},
		{"standard fails admin check", RoleStandardUser, RoleAdmin, false},
		{"unknown role fails", "guest", RoleStandardUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allow(tt.subjectRole, tt.requiredRole))
		})
	}
}
