package handlers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/internal/storage"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

const attachmentURLExpiry = 15 * time.Minute

// ComplaintsHandler manages the complaint lifecycle endpoints.
type ComplaintsHandler struct {
	lifecycle   *service.LifecycleService
	queries     *service.QueryService
	attachments *storage.AttachmentStore
	validate    *validator.Validate
}

// NewComplaintsHandler constructs handler. attachments may be nil when no
// object store is configured; upload endpoints then reject requests.
func NewComplaintsHandler(lifecycle *service.LifecycleService, queries *service.QueryService, attachments *storage.AttachmentStore) *ComplaintsHandler {
	return &ComplaintsHandler{
		lifecycle:   lifecycle,
		queries:     queries,
		attachments: attachments,
		validate:    validator.New(),
	}
}

// Create POST /complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.NewInvalidArgument("validation failed", validationDetails(err))
	}

	complaint, err := h.lifecycle.Submit(c.Context(), principal.Context, service.SubmitInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Priority:    domain.ComplaintPriority(req.Priority),
		Attachments: req.Attachments,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// List GET /complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	complaints, err := h.queries.ListComplaints(c.Context(), principal.Context)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintListResponse(complaints)})
}

// Get GET /complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	complaint, trail, err := h.queries.GetComplaint(c.Context(), principal.Context, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ComplaintDetailResponse{
		Complaint: dto.NewComplaintResponse(complaint),
		AuditLog:  dto.NewAuditTrailResponse(trail),
	}})
}

// Assign POST /complaints/:id/assign.
func (h *ComplaintsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.AssignComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.NewInvalidArgument("validation failed", validationDetails(err))
	}
	if err := h.lifecycle.AssignToStaff(c.Context(), principal.Context, c.Params("id"), req.StaffID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": string(domain.StatusAssigned)}})
}

// UpdateStatus POST /complaints/:id/status.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.NewInvalidArgument("validation failed", validationDetails(err))
	}
	if err := h.lifecycle.AdvanceStatus(c.Context(), principal.Context, c.Params("id"), domain.ComplaintStatus(req.Status), req.Note); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": req.Status}})
}

// Resolve POST /complaints/:id/resolve.
func (h *ComplaintsHandler) Resolve(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ResolveComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.NewInvalidArgument("validation failed", validationDetails(err))
	}
	if err := h.lifecycle.Resolve(c.Context(), principal.Context, c.Params("id"), req.ResolutionNote); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": string(domain.StatusResolved)}})
}

// Feedback POST /complaints/:id/feedback.
func (h *ComplaintsHandler) Feedback(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.NewInvalidArgument("validation failed", validationDetails(err))
	}
	if err := h.lifecycle.SubmitFeedback(c.Context(), principal.Context, c.Params("id"), req.Rating, req.Comment); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"rating": req.Rating}})
}

// UploadAttachment POST /complaints/attachments. Accepts a multipart file
// and returns the object key to embed in a later complaint submission.
func (h *ComplaintsHandler) UploadAttachment(c *fiber.Ctx) error {
	if h.attachments == nil {
		return apperrors.NewInvalidArgument("attachment storage is not configured", nil)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewInvalidArgument("multipart field 'file' required", nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()

	key, err := h.attachments.Upload(c.Context(), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileHeader.Size, file)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.AttachmentUploadResponse{Key: key}})
}

// AttachmentURL GET /complaints/attachments/url?key=...
func (h *ComplaintsHandler) AttachmentURL(c *fiber.Ctx) error {
	if h.attachments == nil {
		return apperrors.NewInvalidArgument("attachment storage is not configured", nil)
	}
	key := c.Query("key")
	if key == "" {
		return apperrors.NewInvalidArgument("query parameter 'key' required", nil)
	}
	url, err := h.attachments.PresignedURL(c.Context(), key, attachmentURLExpiry)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"url": url}})
}
