package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// DirectoryService covers the read-mostly department/category/user data
// the routing logic depends on, plus the admin edits that maintain it.
type DirectoryService struct {
	departments repository.DepartmentRepository
	categories  repository.CategoryRepository
	users       repository.UserRepository
}

// NewDirectoryService constructs the service.
func NewDirectoryService(departments repository.DepartmentRepository, categories repository.CategoryRepository, users repository.UserRepository) *DirectoryService {
	return &DirectoryService{
		departments: departments,
		categories:  categories,
		users:       users,
	}
}

// ListDepartments returns every department.
func (s *DirectoryService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return departments, nil
}

// ListCategories returns categories, optionally scoped to one department.
func (s *DirectoryService) ListCategories(ctx context.Context, departmentID *string) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx, departmentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// ListUsers returns accounts matching the filter (admin view).
func (s *DirectoryService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// CreateDepartment registers a department, optionally with a head.
func (s *DirectoryService) CreateDepartment(ctx context.Context, name, description string, hodID *string) (*domain.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewInvalidArgument("department name required", nil)
	}
	if hodID != nil {
		if err := s.checkHod(ctx, *hodID); err != nil {
			return nil, err
		}
	}
	dept := &domain.Department{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		HodID:       hodID,
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// UpdateDepartment edits a department, including hod appointment.
func (s *DirectoryService) UpdateDepartment(ctx context.Context, id, name, description string, hodID *string) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department", map[string]any{"department_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if hodID != nil {
		if err := s.checkHod(ctx, *hodID); err != nil {
			return nil, err
		}
	}
	if name = strings.TrimSpace(name); name != "" {
		dept.Name = name
	}
	dept.Description = strings.TrimSpace(description)
	dept.HodID = hodID
	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// CreateCategory registers a category under a department.
func (s *DirectoryService) CreateCategory(ctx context.Context, name, departmentID string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewInvalidArgument("category name required", nil)
	}
	if _, err := s.departments.GetByID(ctx, departmentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidReference("department", map[string]any{"department_id": departmentID})
		}
		return nil, apperrors.MapError(err)
	}
	category := &domain.Category{
		ID:           uuid.NewString(),
		Name:         name,
		DepartmentID: departmentID,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// UpdateUser edits an account's profile fields (admin data edit; role
// changes here are plain edits, not lifecycle events).
func (s *DirectoryService) UpdateUser(ctx context.Context, id string, name, email string, role domain.Role, departmentID *string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if !role.Valid() {
		return nil, apperrors.NewInvalidArgument("unknown role", map[string]any{"role": role})
	}
	if role.RequiresDepartment() && departmentID == nil {
		return nil, apperrors.NewInvalidArgument("department required for hod and staff accounts", nil)
	}
	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
		user.Email = email
	}
	user.Role = role
	user.DepartmentID = departmentID
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

func (s *DirectoryService) checkHod(ctx context.Context, hodID string) error {
	hod, err := s.users.GetByID(ctx, hodID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewInvalidReference("hod", map[string]any{"hod_id": hodID})
		}
		return apperrors.MapError(err)
	}
	if hod.Role != domain.RoleHod && hod.Role != domain.RoleAdmin {
		return apperrors.NewInvalidArgument("appointed head must hold the hod role", map[string]any{"hod_id": hodID})
	}
	return nil
}
