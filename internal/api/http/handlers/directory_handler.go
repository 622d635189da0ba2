package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// DirectoryHandler manages departments, categories and account administration.
type DirectoryHandler struct {
	directory *service.DirectoryService
	accounts  *service.AuthService
	validate  *validator.Validate
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(directory *service.DirectoryService, accounts *service.AuthService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory, accounts: accounts, validate: validator.New()}
}

// ListDepartments GET /departments.
func (h *DirectoryHandler) ListDepartments(c *fiber.Ctx) error {
	departments, err := h.directory.ListDepartments(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentListResponse(departments)})
}

// CreateDepartment POST /departments.
func (h *DirectoryHandler) CreateDepartment(c *fiber.Ctx) error {
	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.NewInvalidArgument("validation failed", validationDetails(err))
	}
	department, err := h.directory.CreateDepartment(c.Context(), req.Name, req.Description, req.HodID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewDepartmentResponse(department)})
}

// UpdateDepartment PUT /departments/:id.
func (h *DirectoryHandler) UpdateDepartment(c *fiber.Ctx) error {
	var req dto.UpdateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.NewInvalidArgument("validation failed", validationDetails(err))
	}
	department, err := h.directory.UpdateDepartment(c.Context(), c.Params("id"), req.Name, req.Description, req.HodID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentResponse(department)})
}

// ListCategories GET /categories. Optional department_id filter.
func (h *DirectoryHandler) ListCategories(c *fiber.Ctx) error {
	var departmentID *string
	if v := c.Query("department_id"); v != "" {
		departmentID = &v
	}
	categories, err := h.directory.ListCategories(c.Context(), departmentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryListResponse(categories)})
}

// CreateCategory POST /categories.
func (h *DirectoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.NewInvalidArgument("validation failed", validationDetails(err))
	}
	category, err := h.directory.CreateCategory(c.Context(), req.Name, req.DepartmentID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.CategoryResponse{
		ID:           category.ID,
		Name:         category.Name,
		DepartmentID: category.DepartmentID,
	}})
}

// ListUsers GET /users. Optional role and department_id filters.
func (h *DirectoryHandler) ListUsers(c *fiber.Ctx) error {
	filter := repository.UserFilter{}
	if v := c.Query("role"); v != "" {
		role := domain.Role(v)
		if !role.Valid() {
			return apperrors.NewInvalidArgument("unknown role", nil)
		}
		filter.Role = &role
	}
	if v := c.Query("department_id"); v != "" {
		filter.DepartmentID = &v
	}
	users, err := h.directory.ListUsers(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserListResponse(users)})
}

// CreateUser POST /users. Admin-created accounts share the registration
// path, so role and department rules apply uniformly.
func (h *DirectoryHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.NewInvalidArgument("validation failed", validationDetails(err))
	}
	user, _, _, err := h.accounts.Register(c.Context(), service.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// UpdateUser PUT /users/:id.
func (h *DirectoryHandler) UpdateUser(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.NewInvalidArgument("validation failed", validationDetails(err))
	}
	user, err := h.directory.UpdateUser(c.Context(), c.Params("id"), req.Name, req.Email, req.Role, req.DepartmentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
