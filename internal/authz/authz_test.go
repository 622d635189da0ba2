package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/complaint-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestCanSubmit(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleHod, domain.RoleStaff, domain.RoleComplainant} {
		assert.True(t, CanSubmit(domain.AuthContext{UserID: "u1", Role: role}), "role %s", role)
	}
	assert.False(t, CanSubmit(domain.AuthContext{UserID: "u1", Role: "intruder"}))
}

func TestCanAssign(t *testing.T) {
	assert.True(t, CanAssign(domain.AuthContext{Role: domain.RoleHod}))
	assert.True(t, CanAssign(domain.AuthContext{Role: domain.RoleAdmin}))
	assert.False(t, CanAssign(domain.AuthContext{Role: domain.RoleStaff}))
	assert.False(t, CanAssign(domain.AuthContext{Role: domain.RoleComplainant}))
}

func TestCanAdvanceAndResolve(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleStaff, domain.RoleHod, domain.RoleAdmin} {
		assert.True(t, CanAdvanceStatus(domain.AuthContext{Role: role}), "role %s", role)
		assert.True(t, CanResolve(domain.AuthContext{Role: role}), "role %s", role)
	}
	assert.False(t, CanAdvanceStatus(domain.AuthContext{Role: domain.RoleComplainant}))
	assert.False(t, CanResolve(domain.AuthContext{Role: domain.RoleComplainant}))
}

func TestCanGiveFeedback(t *testing.T) {
	complaint := &domain.Complaint{ComplainantID: "u1"}
	assert.True(t, CanGiveFeedback(domain.AuthContext{UserID: "u1", Role: domain.RoleComplainant}, complaint))
	assert.False(t, CanGiveFeedback(domain.AuthContext{UserID: "u2", Role: domain.RoleComplainant}, complaint))
	assert.False(t, CanGiveFeedback(domain.AuthContext{UserID: "u1"}, nil))
}

func TestCanViewComplaint(t *testing.T) {
	complaint := &domain.Complaint{
		ComplainantID:     "u1",
		DepartmentID:      "d1",
		AssignedToStaffID: strPtr("s1"),
	}

	assert.True(t, CanViewComplaint(domain.AuthContext{UserID: "x", Role: domain.RoleAdmin}, complaint))

	assert.True(t, CanViewComplaint(domain.AuthContext{UserID: "h1", Role: domain.RoleHod, DepartmentID: strPtr("d1")}, complaint))
	assert.False(t, CanViewComplaint(domain.AuthContext{UserID: "h1", Role: domain.RoleHod, DepartmentID: strPtr("d2")}, complaint))
	assert.False(t, CanViewComplaint(domain.AuthContext{UserID: "h1", Role: domain.RoleHod}, complaint))

	assert.True(t, CanViewComplaint(domain.AuthContext{UserID: "s1", Role: domain.RoleStaff}, complaint))
	assert.False(t, CanViewComplaint(domain.AuthContext{UserID: "s2", Role: domain.RoleStaff}, complaint))

	assert.True(t, CanViewComplaint(domain.AuthContext{UserID: "u1", Role: domain.RoleComplainant}, complaint))
	assert.False(t, CanViewComplaint(domain.AuthContext{UserID: "u2", Role: domain.RoleComplainant}, complaint))
}
