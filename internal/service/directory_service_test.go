package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

func TestDepartmentLifecycle(t *testing.T) {
	users := newFakeUserRepo()
	users.users["hod-1"] = domain.User{ID: "hod-1", Name: "Head", Role: domain.RoleHod}
	users.users["staff-1"] = domain.User{ID: "staff-1", Name: "Worker", Role: domain.RoleStaff}
	svc := NewDirectoryService(newFakeDepartmentRepo(), newFakeCategoryRepo(), users)
	ctx := context.Background()

	_, err := svc.CreateDepartment(ctx, "  ", "", nil)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	missing := "ghost"
	_, err = svc.CreateDepartment(ctx, "IT Services", "", &missing)
	assert.Equal(t, apperrors.CodeInvalidReference, apperrors.CodeOf(err))

	staffID := "staff-1"
	_, err = svc.CreateDepartment(ctx, "IT Services", "", &staffID)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err), "head must hold the hod role")

	hodID := "hod-1"
	dept, err := svc.CreateDepartment(ctx, " IT Services ", " Campus network ", &hodID)
	require.NoError(t, err)
	assert.Equal(t, "IT Services", dept.Name)
	assert.Equal(t, "Campus network", dept.Description)

	updated, err := svc.UpdateDepartment(ctx, dept.ID, "IT & Networks", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "IT & Networks", updated.Name)
	assert.Nil(t, updated.HodID)

	_, err = svc.UpdateDepartment(ctx, "missing", "x", "", nil)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestCreateCategoryChecksDepartment(t *testing.T) {
	departments := newFakeDepartmentRepo()
	departments.departments["dept-it"] = domain.Department{ID: "dept-it", Name: "IT Services"}
	svc := NewDirectoryService(departments, newFakeCategoryRepo(), newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, "Network Issue", "ghost")
	assert.Equal(t, apperrors.CodeInvalidReference, apperrors.CodeOf(err))

	category, err := svc.CreateCategory(ctx, "Network Issue", "dept-it")
	require.NoError(t, err)
	assert.Equal(t, "dept-it", category.DepartmentID)

	listed, err := svc.ListCategories(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestUpdateUserRules(t *testing.T) {
	users := newFakeUserRepo()
	users.users["u1"] = domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleComplainant}
	svc := NewDirectoryService(newFakeDepartmentRepo(), newFakeCategoryRepo(), users)
	ctx := context.Background()

	_, err := svc.UpdateUser(ctx, "u1", "", "", domain.RoleStaff, nil)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err), "staff needs a department")

	deptID := "dept-it"
	updated, err := svc.UpdateUser(ctx, "u1", "", "Alice@Corp.example", domain.RoleStaff, &deptID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, updated.Role)
	assert.Equal(t, "alice@corp.example", updated.Email)
	assert.Equal(t, "Alice", updated.Name, "blank name keeps the old value")

	role := domain.RoleStaff
	listed, err := svc.ListUsers(ctx, repository.UserFilter{Role: &role})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	_, err = svc.UpdateUser(ctx, "ghost", "", "", domain.RoleComplainant, nil)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}
