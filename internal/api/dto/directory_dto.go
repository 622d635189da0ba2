package dto

import "github.com/spec-kit/complaint-service/internal/domain"

// CreateDepartmentRequest payload.
type CreateDepartmentRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	HodID       *string `json:"hod_id"`
}

// UpdateDepartmentRequest payload.
type UpdateDepartmentRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	HodID       *string `json:"hod_id"`
}

// CreateCategoryRequest payload.
type CreateCategoryRequest struct {
	Name         string `json:"name" validate:"required"`
	DepartmentID string `json:"department_id" validate:"required"`
}

// DepartmentResponse view.
type DepartmentResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	HodID       *string `json:"hod_id"`
}

// CategoryResponse view.
type CategoryResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DepartmentID string `json:"department_id"`
}

// NewDepartmentResponse maps a domain department.
func NewDepartmentResponse(department *domain.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          department.ID,
		Name:        department.Name,
		Description: department.Description,
		HodID:       department.HodID,
	}
}

// NewDepartmentListResponse maps departments.
func NewDepartmentListResponse(departments []domain.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(departments))
	for i := range departments {
		out = append(out, NewDepartmentResponse(&departments[i]))
	}
	return out
}

// NewCategoryListResponse maps categories.
func NewCategoryListResponse(categories []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		out = append(out, CategoryResponse{
			ID:           category.ID,
			Name:         category.Name,
			DepartmentID: category.DepartmentID,
		})
	}
	return out
}

// NewUserListResponse maps accounts.
func NewUserListResponse(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
