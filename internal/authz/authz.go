// Package authz holds the pure role and ownership predicates gating
// lifecycle operations and query visibility. Predicates never touch
// storage and never return errors; callers translate a false result
// into a forbidden error.
package authz

import "github.com/spec-kit/complaint-service/internal/domain"

// CanSubmit reports whether the caller may file a complaint.
// Any authenticated role may submit.
func CanSubmit(ctx domain.AuthContext) bool {
	return ctx.Role.Valid()
}

// CanAssign reports whether the caller may delegate a complaint to staff.
func CanAssign(ctx domain.AuthContext) bool {
	return ctx.Role == domain.RoleHod || ctx.Role == domain.RoleAdmin
}

// CanAdvanceStatus reports whether the caller may move a complaint forward.
func CanAdvanceStatus(ctx domain.AuthContext) bool {
	switch ctx.Role {
	case domain.RoleStaff, domain.RoleHod, domain.RoleAdmin:
		return true
	}
	return false
}

// CanResolve reports whether the caller may resolve a complaint.
func CanResolve(ctx domain.AuthContext) bool {
	return CanAdvanceStatus(ctx)
}

// CanGiveFeedback reports whether the caller owns the complaint.
func CanGiveFeedback(ctx domain.AuthContext, complaint *domain.Complaint) bool {
	return complaint != nil && complaint.ComplainantID == ctx.UserID
}

// CanViewComplaint applies the role-dependent visibility scope: admins see
// everything, hods their department, staff their assignments, complainants
// their own submissions.
func CanViewComplaint(ctx domain.AuthContext, complaint *domain.Complaint) bool {
	if complaint == nil {
		return false
	}
	switch ctx.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleHod:
		return ctx.DepartmentID != nil && *ctx.DepartmentID == complaint.DepartmentID
	case domain.RoleStaff:
		return complaint.AssignedToStaffID != nil && *complaint.AssignedToStaffID == ctx.UserID
	case domain.RoleComplainant:
		return complaint.ComplainantID == ctx.UserID
	}
	return false
}
